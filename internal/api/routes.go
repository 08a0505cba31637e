package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"vanish.share/config"
	"vanish.share/internal/vault"
)

func SetupRouter(v *vault.Vault, cfg *config.Config) *chi.Mux {
	h := NewHandler(v, cfg)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// Health
	r.Get("/health", h.Health)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/secrets", func(r chi.Router) {
			r.Post("/", h.CreateSecret)
			r.Get("/{id}", h.RevealSecret)
			r.Get("/{id}/status", h.GetStatus)
		})
	})

	return r
}
