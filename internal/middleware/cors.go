package middleware

import (
	"github.com/rs/cors"

	"caretrek-backend/internal/config"
)

// NewCORS builds the CORS handler from the configured allowed origins.
// The mobile app ships with its own origin list; "*" is the development
// default.
func NewCORS(cfg *config.Config) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
