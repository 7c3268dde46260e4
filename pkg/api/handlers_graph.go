package api

import (
	"net/http"
	"strconv"

	"github.com/dd0wney/keygraph/pkg/community"
	"github.com/dd0wney/keygraph/pkg/graph"
	"github.com/dd0wney/keygraph/pkg/keywords"
	"github.com/dd0wney/keygraph/pkg/layout"
	"github.com/dd0wney/keygraph/pkg/validation"
)

// handleStats serves keyword statistics, optionally truncated by the
// limit query parameter
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	stats := s.session.Stats()
	total := len(stats)

	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = validation.ClampInt(limit, validation.MinNodes, validation.MaxNodes)
		if limit < len(stats) {
			stats = stats[:limit]
		}
	}

	if stats == nil {
		stats = []keywords.KeywordStat{}
	}
	s.respondJSON(w, http.StatusOK, StatsResponse{Keywords: stats, Total: total})
}

// handleGraph serves the positioned graph. Before the first rebuild it
// returns empty node and link lists rather than an error.
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	resp := GraphResponse{
		Nodes: []layout.NodeSnapshot{},
		Links: []*graph.Link{},
	}
	if snap, err := s.session.Snapshot(); err == nil {
		resp.Nodes = snap.Nodes
	}
	if g := s.session.Graph(); g != nil {
		resp.Links = g.Links
	}
	if result, err := s.session.Result(); err == nil {
		resp.Communities = result.Communities.Count
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCommunities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	resp := CommunitiesResponse{Communities: []*community.Community{}}
	if result, err := s.session.Result(); err == nil {
		resp.Communities = result.Communities.Communities
		resp.Count = result.Communities.Count
	}
	s.respondJSON(w, http.StatusOK, resp)
}
