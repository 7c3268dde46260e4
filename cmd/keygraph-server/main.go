// Command keygraph-server serves the keyword graph pipeline over HTTP:
// REST and GraphQL reads, layout actions, health, Prometheus metrics,
// and an optional NNG/ZMQ frame stream for remote viewers.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dd0wney/keygraph/pkg/api"
	"github.com/dd0wney/keygraph/pkg/auth"
	"github.com/dd0wney/keygraph/pkg/config"
	"github.com/dd0wney/keygraph/pkg/health"
	"github.com/dd0wney/keygraph/pkg/layout"
	"github.com/dd0wney/keygraph/pkg/logging"
	"github.com/dd0wney/keygraph/pkg/metrics"
	"github.com/dd0wney/keygraph/pkg/pipeline"
	"github.com/dd0wney/keygraph/pkg/server"
	"github.com/dd0wney/keygraph/pkg/stream"
)

const refreshTokenTTL = 7 * 24 * time.Hour

func main() {
	configPath := flag.String("config", "", "Path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(cfg.Log.Level))

	if err := run(cfg, *configPath, log); err != nil {
		log.Error("Server failed", logging.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, configPath string, log logging.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := metrics.NewRegistry()

	session, err := pipeline.New(pipeline.Config{
		MaxNodes:    cfg.Pipeline.MaxNodes,
		MinStrength: cfg.Pipeline.MinLinkStrength,
		Variant:     layout.Variant(cfg.Pipeline.Variant),
		Layout:      layout.DefaultOptions(cfg.Layout.Width, cfg.Layout.Height),
	}, pipeline.WithLogger(log), pipeline.WithMetrics(registry))
	if err != nil {
		return err
	}
	defer session.Stop()

	source, err := server.BuildSource(ctx, cfg)
	if err != nil {
		return err
	}
	if closer, ok := source.(io.Closer); ok {
		defer closer.Close()
	}

	// Load and build once at startup. Failure is not fatal: the server
	// starts degraded and an admin can retry through the rebuild
	// endpoint once the source recovers.
	if docs, loadErr := source.Load(ctx); loadErr != nil {
		log.Warn("Initial corpus load failed; starting without a graph",
			logging.String("source", source.Name()),
			logging.Error(loadErr),
		)
	} else if _, buildErr := session.Rebuild(ctx, docs); buildErr != nil {
		log.Warn("Initial rebuild failed; starting without a graph", logging.Error(buildErr))
	}

	publisher, err := stream.NewPublisher(cfg.Stream.PublishAddr)
	if err != nil {
		return err
	}
	defer publisher.Close()

	bus := stream.NewBus()
	defer bus.Shutdown()
	broadcaster := stream.NewBroadcaster(bus, publisher,
		stream.WithLogger(log),
		stream.WithMetrics(registry),
	)

	scheduler, err := server.NewScheduler(server.SchedulerOptions{
		Session:     session,
		Interval:    cfg.Pipeline.TickInterval,
		Broadcaster: broadcaster,
		Logger:      log,
	})
	if err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	healthChecker := health.NewHealthChecker()
	server.RegisterHealthChecks(healthChecker, session, source, bus)

	opts := api.Options{
		Config:        cfg,
		Session:       session,
		Source:        source,
		HealthChecker: healthChecker,
		Metrics:       registry,
		Logger:        log,
		OnChange:      scheduler.Wake,
	}

	if cfg.Auth.Enabled {
		userStore := auth.NewUserStore()
		if _, err := userStore.CreateUser(cfg.Auth.AdminUser, cfg.Auth.AdminPassword, auth.RoleAdmin); err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
		jwtManager, err := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, refreshTokenTTL)
		if err != nil {
			return err
		}
		opts.UserStore = userStore
		opts.JWTManager = jwtManager
	}

	apiServer, err := api.NewServer(opts)
	if err != nil {
		return err
	}

	go apiServer.UpdateMetricsPeriodically(ctx, 15*time.Second)

	graceful := server.NewGracefulServer(server.GracefulOptions{
		Addr:            fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:         apiServer.Handler(),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Logger:          log,
	})

	// SIGHUP re-reads the config file; pipeline settings apply on the
	// next rebuild
	graceful.SetConfigReloadFunc(func() error {
		fresh, err := config.Load(configPath)
		if err != nil {
			return err
		}
		return session.Configure(
			fresh.Pipeline.MaxNodes,
			fresh.Pipeline.MinLinkStrength,
			layout.Variant(fresh.Pipeline.Variant),
		)
	})

	return graceful.Start()
}
