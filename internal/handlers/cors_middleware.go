package handlers

import (
	"net/http"

	"github.com/go-chi/cors"

	"charity-chat-service/internal/config"
)

// WithCORS allows cross-origin calls from the configured origins. With no origins
// configured it is a pass-through.
func WithCORS(cfg config.Config) func(http.Handler) http.Handler {
	allowed := cfg.AllowedOrigins()
	if len(allowed) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         600,
	})
}
