package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"charity-chat-service/internal/config"
	"charity-chat-service/internal/handlers"
	"charity-chat-service/internal/metrics"
)

// NewRouter wires the chat endpoints. collector may be nil when metrics are disabled.
func NewRouter(cfg config.Config, logger *zap.Logger, chat *handlers.ChatHandlers, ds handlers.Counter, collector *metrics.Collector) http.Handler {
	r := chi.NewRouter()

	var obs handlers.HTTPObserver
	if collector != nil {
		obs = collector
	}

	r.Use(handlers.WithRequestID())
	r.Use(chimiddleware.RealIP)
	r.Use(handlers.WithRequestLogging(logger, obs))
	r.Use(chimiddleware.Recoverer)
	r.Use(handlers.WithCORS(cfg))

	r.Get("/", handlers.HandleIndex)
	r.Get("/health", handlers.HandleHealth(ds))
	r.Post("/charity_info", chat.HandleCharityInfo)

	if collector != nil {
		r.Method(http.MethodGet, "/metrics", collector.Handler())
	}

	return r
}
