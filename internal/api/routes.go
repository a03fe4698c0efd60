package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a new router with all routes configured. When the
// handler carries an API key, all routes except the health check require a
// bearer token.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Group(func(r chi.Router) {
			if h.apiKey != "" {
				r.Use(AuthMiddleware(h.apiKey))
			}

			r.Route("/monthly-goals", func(r chi.Router) {
				r.Get("/", h.ListGoals)
				r.Post("/", h.CreateGoal)
				r.Get("/{id}", h.GetGoal)
				r.Put("/{id}", h.UpdateGoal)
				r.Delete("/{id}", h.DeleteGoal)
			})

			r.Route("/todos", func(r chi.Router) {
				r.Get("/", h.ListTodos)
				r.Post("/", h.CreateTodo)
				r.Get("/{id}", h.GetTodo)
				r.Put("/{id}", h.UpdateTodo)
				r.Delete("/{id}", h.DeleteTodo)
			})
		})
	})

	return r
}
