package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iconidentify/archivelens/internal/api/handler"
	mw "github.com/iconidentify/archivelens/internal/api/middleware"
)

// NewRouter creates the HTTP router with all routes configured.
func NewRouter(
	accountHandler *handler.AccountHandler,
	sessionHandler *handler.SessionHandler,
	healthHandler *handler.HealthHandler,
	apiKey string,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CleanPath) // Normalize paths (e.g., //ready -> /ready)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)
	r.Use(middleware.Timeout(5 * time.Minute))

	// CORS for browser clients
	r.Use(mw.CORS)

	// Health and metrics endpoints (no auth)
	r.Get("/health", healthHandler.Live)
	r.Get("/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 (authenticated when an API key is configured)
	r.Route("/api/v1", func(r chi.Router) {
		if apiKey != "" {
			r.Use(mw.APIKeyAuth(apiKey))
		}

		// Account lookups
		r.Get("/accounts", accountHandler.Search)
		r.Get("/accounts/directory", accountHandler.Directory)

		// Explorer sessions and their features
		r.Post("/sessions", sessionHandler.Open)
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", sessionHandler.Get)
			r.Delete("/", sessionHandler.Close)
			r.Post("/cancel", sessionHandler.CancelFetch)
			r.Get("/top", sessionHandler.Top)
			r.Get("/ratios", sessionHandler.Ratios)
			r.Get("/wordcloud", sessionHandler.WordCloud)
			r.Get("/emojis", sessionHandler.Emojis)
			r.Get("/search", sessionHandler.Search)
			r.Get("/conversation", sessionHandler.Conversation)
		})
	})

	return r
}
