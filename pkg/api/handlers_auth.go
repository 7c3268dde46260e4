package api

import (
	"net/http"

	"github.com/dd0wney/keygraph/pkg/logging"
	"github.com/dd0wney/keygraph/pkg/validation"
)

// handleLogin exchanges credentials for an access/refresh token pair
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req validation.LoginRequest
	if s.newRequestDecoder(w, r).
		DecodeJSON(&req).
		Validate(func() error { return validation.ValidateLoginRequest(&req) }).
		RespondError() {
		return
	}

	user, err := s.userStore.Authenticate(req.Username, req.Password)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	accessToken, err := s.jwtManager.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		s.log.Error("Failed to generate access token", logging.Error(err))
		s.respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		s.log.Error("Failed to generate refresh token", logging.Error(err))
		s.respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	s.respondJSON(w, http.StatusOK, LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: UserResponse{
			ID:       user.ID,
			Username: user.Username,
			Role:     user.Role,
		},
	})
}

// handleRefresh exchanges a refresh token for a fresh access token
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req RefreshRequest
	if s.newRequestDecoder(w, r).DecodeJSON(&req).RespondError() {
		return
	}
	if req.RefreshToken == "" {
		s.respondError(w, http.StatusBadRequest, "Refresh token is required")
		return
	}

	userID, err := s.jwtManager.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	user, err := s.userStore.GetUserByID(userID)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "User not found")
		return
	}

	accessToken, err := s.jwtManager.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		s.log.Error("Failed to generate access token", logging.Error(err))
		s.respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	s.respondJSON(w, http.StatusOK, RefreshResponse{AccessToken: accessToken})
}

// handleMe returns the authenticated user's profile
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	claims, ok := claimsFromContext(r.Context())
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := s.userStore.GetUserByID(claims.UserID)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "User not found")
		return
	}

	s.respondJSON(w, http.StatusOK, MeResponse{
		User: UserResponse{
			ID:       user.ID,
			Username: user.Username,
			Role:     user.Role,
		},
	})
}
