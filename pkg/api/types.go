package api

import (
	"github.com/dd0wney/keygraph/pkg/community"
	"github.com/dd0wney/keygraph/pkg/graph"
	"github.com/dd0wney/keygraph/pkg/keywords"
	"github.com/dd0wney/keygraph/pkg/layout"
)

// API request/response types

// StatsResponse lists keyword statistics ordered by frequency.
// Total is the count before any limit was applied.
type StatsResponse struct {
	Keywords []keywords.KeywordStat `json:"keywords"`
	Total    int                    `json:"total"`
}

// GraphResponse is the positioned graph: nodes from the live layout,
// links from the last build
type GraphResponse struct {
	Nodes       []layout.NodeSnapshot `json:"nodes"`
	Links       []*graph.Link         `json:"links"`
	Communities int                   `json:"communities"`
}

// CommunitiesResponse lists the detected keyword groups
type CommunitiesResponse struct {
	Communities []*community.Community `json:"communities"`
	Count       int                    `json:"count"`
}

// LayoutActionResponse reports the simulation state after a pin, unpin
// or reheat
type LayoutActionResponse struct {
	Status string  `json:"status"`
	Phase  string  `json:"phase"`
	Alpha  float64 `json:"alpha"`
	Pinned int     `json:"pinned"`
}

// RebuildResponse summarizes one completed rebuild
type RebuildResponse struct {
	SessionID   string `json:"session_id"`
	Documents   int    `json:"documents"`
	Keywords    int    `json:"keywords"`
	Nodes       int    `json:"nodes"`
	Links       int    `json:"links"`
	Communities int    `json:"communities"`
	Time        string `json:"time"`
}

// ConfigResponse is the pipeline configuration as the next rebuild
// will see it
type ConfigResponse struct {
	MaxNodes        int    `json:"max_nodes"`
	MinLinkStrength int    `json:"min_link_strength"`
	Variant         string `json:"variant"`
}

// LoginResponse is the response body for login
type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

// RefreshRequest is the request body for token refresh
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshResponse is the response body for token refresh
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// MeResponse is the response body for current user info
type MeResponse struct {
	User UserResponse `json:"user"`
}

// UserResponse represents user data in responses
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
