package http

import (
	"context"
	"net/http"
	"strings"
)

type userIDKey struct{}

// requireAuth verifies the Bearer token and puts the user id on the request
// context.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := s.tokens.Validate(token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey{}, claims.UserID)
		next(w, r.WithContext(ctx))
	}
}

// userID reads the authenticated user id set by requireAuth.
func userID(r *http.Request) int64 {
	id, _ := r.Context().Value(userIDKey{}).(int64)
	return id
}
