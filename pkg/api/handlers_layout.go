package api

import (
	"errors"
	"net/http"

	"github.com/dd0wney/keygraph/pkg/layout"
	"github.com/dd0wney/keygraph/pkg/pipeline"
	"github.com/dd0wney/keygraph/pkg/validation"
)

// handleLayout serves the current layout snapshot
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	snap, err := s.session.Snapshot()
	if err != nil {
		s.respondError(w, http.StatusNotFound, "No layout yet; rebuild first")
		return
	}
	s.respondJSON(w, http.StatusOK, snap)
}

// handlePin holds a node at a fixed position until unpinned
func (s *Server) handlePin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req validation.PinRequest
	if s.newRequestDecoder(w, r).
		DecodeJSON(&req).
		Validate(func() error { return validation.ValidatePinRequest(&req) }).
		RespondError() {
		return
	}

	if err := s.session.Pin(req.ID, req.X, req.Y); err != nil {
		s.respondLayoutError(w, err)
		return
	}
	s.notifyChange()
	s.respondLayoutAction(w)
}

// handleUnpin releases a pinned node; the engine reheats on its own
func (s *Server) handleUnpin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req validation.UnpinRequest
	if s.newRequestDecoder(w, r).
		DecodeJSON(&req).
		Validate(func() error { return validation.ValidateUnpinRequest(&req) }).
		RespondError() {
		return
	}

	if err := s.session.Unpin(req.ID); err != nil {
		s.respondLayoutError(w, err)
		return
	}
	s.notifyChange()
	s.respondLayoutAction(w)
}

// handleReheat restores simulation energy; a missing alpha restores the
// engine's configured reheat level
func (s *Server) handleReheat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req validation.ReheatRequest
	if s.newRequestDecoder(w, r).
		DecodeJSON(&req).
		Validate(func() error { return validation.ValidateReheatRequest(&req) }).
		RespondError() {
		return
	}

	var alpha float64
	if req.Alpha != nil {
		alpha = *req.Alpha
	}
	if err := s.session.Reheat(alpha); err != nil {
		s.respondLayoutError(w, err)
		return
	}
	s.notifyChange()
	s.respondLayoutAction(w)
}

func (s *Server) respondLayoutAction(w http.ResponseWriter) {
	h := s.session.Handle()
	if h == nil {
		// raced with a session stop; report the bare acknowledgement
		s.respondJSON(w, http.StatusOK, LayoutActionResponse{Status: "ok"})
		return
	}
	s.respondJSON(w, http.StatusOK, LayoutActionResponse{
		Status: "ok",
		Phase:  h.Phase().String(),
		Alpha:  h.Alpha(),
		Pinned: h.PinnedCount(),
	})
}

func (s *Server) respondLayoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pipeline.ErrNotBuilt):
		s.respondError(w, http.StatusNotFound, "No graph built yet")
	case errors.Is(err, layout.ErrNodeNotFound):
		s.respondError(w, http.StatusNotFound, "Node not found")
	case errors.Is(err, layout.ErrEngineStopped):
		s.respondError(w, http.StatusConflict, "Layout engine is stopped")
	default:
		s.respondError(w, http.StatusInternalServerError, "Layout operation failed")
	}
}
