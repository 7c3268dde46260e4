package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/dd0wney/keygraph/pkg/auth"
	"github.com/dd0wney/keygraph/pkg/logging"
)

// Context key for storing claims
type contextKey string

const claimsContextKey contextKey = "claims"

// requireAuth validates the bearer token and stores the claims in the
// request context. A pass-through when auth is disabled.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	if !s.cfg.Auth.Enabled {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			s.respondError(w, http.StatusUnauthorized, "Missing bearer token")
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[1] == "" {
			s.respondError(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := s.tokenValidator.ValidateToken(r.Context(), parts[1])
		if err != nil {
			s.log.Warn("Token validation failed", logging.Error(err))
			s.respondError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		// Verify the user still exists
		if _, err := s.userStore.GetUserByID(claims.UserID); err != nil {
			s.respondError(w, http.StatusUnauthorized, "User not found")
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// requireAdmin additionally demands the admin role
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	if !s.cfg.Auth.Enabled {
		return next
	}
	return s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFromContext(r.Context())
		if !ok {
			s.respondError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if !claims.IsAdmin() {
			s.respondError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func claimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*auth.Claims)
	return claims, ok
}
