package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vaultpass/passgen/internal/middleware"
	"github.com/vaultpass/passgen/internal/service"
)

// NewRouter wires every API route. Session routes authenticate with tokens
// issued by sessions; the public routes share limiter.
func NewRouter(gen *service.GeneratorService, sessions *service.SessionService, limiter *middleware.RateLimiter) http.Handler {
	genHandler := NewGeneratorHandler(gen)
	sessionHandler := NewSessionHandler(sessions)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(limiter.Handler)
		r.Post("/api/v1/generate", genHandler.HandleGenerate)
		r.Post("/api/v1/strength", genHandler.HandleStrength)
		r.Post("/api/v1/sessions", sessionHandler.HandleCreate)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionAuth(sessions))
		r.Get("/api/v1/session", sessionHandler.HandleGet)
		r.Post("/api/v1/session/actions", sessionHandler.HandleAction)
		r.Post("/api/v1/session/copy", sessionHandler.HandleCopy)
		r.Delete("/api/v1/session", sessionHandler.HandleDelete)
	})

	return r
}
