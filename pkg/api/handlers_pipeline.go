package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/dd0wney/keygraph/pkg/corpus"
	"github.com/dd0wney/keygraph/pkg/layout"
	"github.com/dd0wney/keygraph/pkg/logging"
	"github.com/dd0wney/keygraph/pkg/pipeline"
	"github.com/dd0wney/keygraph/pkg/validation"
)

// handleRebuild reloads the corpus and runs the full pipeline chain
func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.source == nil {
		s.respondError(w, http.StatusServiceUnavailable, "No corpus source configured")
		return
	}

	loadStart := time.Now()
	docs, err := s.source.Load(r.Context())
	if err != nil {
		s.metricsRegistry.RecordCorpusLoad(s.source.Name(), "error", time.Since(loadStart), 0)
		s.log.Error("Corpus load failed",
			logging.String("source", s.source.Name()),
			logging.Error(err),
		)
		if errors.Is(err, corpus.ErrNoDocuments) {
			s.respondError(w, http.StatusUnprocessableEntity, "Corpus has no documents")
			return
		}
		s.respondError(w, http.StatusBadGateway, "Corpus load failed")
		return
	}
	s.metricsRegistry.RecordCorpusLoad(s.source.Name(), "success", time.Since(loadStart), len(docs))

	result, err := s.session.Rebuild(r.Context(), docs)
	if err != nil {
		if errors.Is(err, pipeline.ErrSessionStopped) {
			s.respondError(w, http.StatusConflict, "Session is stopped")
			return
		}
		s.log.Error("Rebuild failed", logging.Error(err))
		s.respondError(w, http.StatusInternalServerError, "Rebuild failed")
		return
	}

	s.notifyChange()
	s.respondJSON(w, http.StatusOK, RebuildResponse{
		SessionID:   result.SessionID,
		Documents:   result.Documents,
		Keywords:    len(result.Stats),
		Nodes:       len(result.Graph.Nodes),
		Links:       len(result.Graph.Links),
		Communities: result.Communities.Count,
		Time:        result.Timings.Total.String(),
	})
}

// handleConfig reads or updates the pipeline configuration. Updates
// take effect on the next rebuild.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	s.newMethodRouter(w, r).
		Get(func() { s.requireAuth(s.handleConfigGet)(w, r) }).
		Put(func() { s.requireAdmin(s.handleConfigPut)(w, r) }).
		NotAllowed()
}

func (s *Server) handleConfigGet(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.configResponse())
}

func (s *Server) handleConfigPut(w http.ResponseWriter, r *http.Request) {
	var req validation.ConfigUpdateRequest
	if s.newRequestDecoder(w, r).
		DecodeJSON(&req).
		Validate(func() error { return validation.ValidateConfigUpdate(&req) }).
		RespondError() {
		return
	}

	cfg := s.session.Config()
	maxNodes := cfg.MaxNodes
	minStrength := cfg.MinStrength
	variant := cfg.Variant
	if req.MaxNodes != nil {
		maxNodes = *req.MaxNodes
	}
	if req.MinLinkStrength != nil {
		minStrength = *req.MinLinkStrength
	}
	if req.Variant != nil {
		variant = layout.Variant(*req.Variant)
	}

	if err := s.session.Configure(maxNodes, minStrength, variant); err != nil {
		if errors.Is(err, pipeline.ErrSessionStopped) {
			s.respondError(w, http.StatusConflict, "Session is stopped")
			return
		}
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, s.configResponse())
}

func (s *Server) configResponse() ConfigResponse {
	cfg := s.session.Config()
	return ConfigResponse{
		MaxNodes:        cfg.MaxNodes,
		MinLinkStrength: cfg.MinStrength,
		Variant:         string(cfg.Variant),
	}
}
