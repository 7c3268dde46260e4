// Package api exposes the keyword graph pipeline over HTTP: REST reads,
// layout actions, rebuild and configuration administration, GraphQL,
// health and Prometheus metrics.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dd0wney/keygraph/pkg/auth"
	"github.com/dd0wney/keygraph/pkg/config"
	"github.com/dd0wney/keygraph/pkg/corpus"
	"github.com/dd0wney/keygraph/pkg/graphql"
	"github.com/dd0wney/keygraph/pkg/health"
	"github.com/dd0wney/keygraph/pkg/logging"
	"github.com/dd0wney/keygraph/pkg/metrics"
	"github.com/dd0wney/keygraph/pkg/pipeline"
)

const defaultVersion = "1.0.0"

// maxRequestBody caps request bodies; every payload here is small JSON
const maxRequestBody = 1 << 20

// Options carries the server's collaborators. Config and Session are
// required; nil optionals fall back to local defaults. UserStore and
// JWTManager are required when the config enables auth.
type Options struct {
	Config  *config.Config
	Session *pipeline.Session
	Source  corpus.Source

	UserStore      *auth.UserStore
	JWTManager     *auth.JWTManager
	TokenValidator auth.TokenValidator

	HealthChecker *health.HealthChecker
	Metrics       *metrics.Registry
	Logger        logging.Logger

	// OnChange is invoked after any state-changing operation so an
	// external scheduler can resume ticking
	OnChange func()

	Version string
}

// Server is the HTTP API server
type Server struct {
	cfg     *config.Config
	session *pipeline.Session
	source  corpus.Source

	userStore      *auth.UserStore
	jwtManager     *auth.JWTManager
	tokenValidator auth.TokenValidator

	healthChecker   *health.HealthChecker
	metricsRegistry *metrics.Registry
	graphqlHandler  *graphql.GraphQLHandler
	log             logging.Logger

	onChange  func()
	startTime time.Time
	version   string
}

// NewServer creates the API server and builds its GraphQL schema
func NewServer(opts Options) (*Server, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("api: config is required")
	}
	if opts.Session == nil {
		return nil, fmt.Errorf("api: session is required")
	}
	if opts.Config.Auth.Enabled && (opts.UserStore == nil || opts.JWTManager == nil) {
		return nil, fmt.Errorf("api: auth is enabled but user store or JWT manager is missing")
	}

	schema, err := graphql.BuildSchema(opts.Session)
	if err != nil {
		return nil, fmt.Errorf("api: build GraphQL schema: %w", err)
	}

	s := &Server{
		cfg:             opts.Config,
		session:         opts.Session,
		source:          opts.Source,
		userStore:       opts.UserStore,
		jwtManager:      opts.JWTManager,
		tokenValidator:  opts.TokenValidator,
		healthChecker:   opts.HealthChecker,
		metricsRegistry: opts.Metrics,
		graphqlHandler:  graphql.NewGraphQLHandler(schema),
		log:             opts.Logger,
		onChange:        opts.OnChange,
		startTime:       time.Now(),
		version:         opts.Version,
	}
	if s.tokenValidator == nil && s.jwtManager != nil {
		s.tokenValidator = s.jwtManager
	}
	if s.healthChecker == nil {
		s.healthChecker = health.NewHealthChecker()
	}
	if s.metricsRegistry == nil {
		s.metricsRegistry = metrics.NewRegistry()
	}
	if s.log == nil {
		s.log = logging.DefaultLogger()
	}
	s.log = s.log.With(logging.Component("api"))
	if s.version == "" {
		s.version = defaultVersion
	}
	return s, nil
}

// Handler assembles the route table and middleware chain
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.healthChecker.HTTPHandler())
	mux.HandleFunc("/health/ready", s.healthChecker.ReadinessHandler())
	mux.HandleFunc("/health/live", s.healthChecker.LivenessHandler())

	mux.HandleFunc("/api/v1/stats", s.handleStats)
	mux.HandleFunc("/api/v1/graph", s.handleGraph)
	mux.HandleFunc("/api/v1/communities", s.handleCommunities)

	mux.HandleFunc("/api/v1/layout", s.handleLayout)
	mux.HandleFunc("/api/v1/layout/pin", s.handlePin)
	mux.HandleFunc("/api/v1/layout/unpin", s.handleUnpin)
	mux.HandleFunc("/api/v1/layout/reheat", s.handleReheat)

	mux.HandleFunc("/api/v1/rebuild", s.requireAdmin(s.handleRebuild))
	mux.HandleFunc("/api/v1/config", s.handleConfig)

	if s.cfg.Auth.Enabled {
		mux.HandleFunc("/api/v1/auth/login", s.handleLogin)
		mux.HandleFunc("/api/v1/auth/refresh", s.handleRefresh)
		mux.HandleFunc("/api/v1/auth/me", s.requireAuth(s.handleMe))
	}

	mux.Handle("/metrics", promhttp.HandlerFor(
		s.metricsRegistry.GetPrometheusRegistry(),
		promhttp.HandlerOpts{},
	))
	mux.Handle("/graphql", s.graphqlHandler)

	var handler http.Handler = mux
	handler = s.bodySizeLimitMiddleware(handler, maxRequestBody)
	handler = s.securityHeadersMiddleware(handler)
	handler = s.corsMiddleware(handler)
	handler = s.metricsMiddleware(handler)
	handler = s.requestLoggingMiddleware(handler)
	handler = s.panicRecoveryMiddleware(handler)
	return handler
}

// UpdateMetricsPeriodically refreshes the process gauges until ctx ends
func (s *Server) UpdateMetricsPeriodically(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.metricsRegistry.UpdateSystemMetrics(s.startTime)
		}
	}
}

// notifyChange wakes the scheduler after a state-changing operation
func (s *Server) notifyChange() {
	if s.onChange != nil {
		s.onChange()
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("Failed to encode JSON response", logging.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
