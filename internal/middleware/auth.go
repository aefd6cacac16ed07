package middleware

import (
	"net/http"
	"strings"

	"caretrek-backend/internal/auth"
)

// AuthMiddleware verifies the Bearer token on protected routes and
// attaches the claims to the request context.
type AuthMiddleware struct {
	jwt *auth.JWTManager
}

func NewAuthMiddleware(jwtManager *auth.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtManager}
}

func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			http.Error(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			http.Error(w, "Authorization header must be a Bearer token", http.StatusUnauthorized)
			return
		}

		claims, err := m.jwt.VerifyToken(token)
		if err != nil {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
	})
}
