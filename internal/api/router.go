package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vessel-match-service/internal/api/handlers"
	"vessel-match-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(svc *services.MatchingService, corsOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(loggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	offers := &handlers.OfferHandler{Svc: svc}
	match := &handlers.MatchHandler{Svc: svc}

	r.Get("/health", handlers.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/offers", func(r chi.Router) {
		r.Get("/", offers.List)
		r.Post("/", offers.Create)
		r.Get("/{id}", offers.Get)
		r.Put("/{id}", offers.Update)
		r.Delete("/{id}", offers.Delete)
	})

	r.Post("/match", match.Match)
	r.Post("/orders/match", match.MatchOrder)
	r.Post("/rank", match.Rank)
	r.Post("/recommend", match.Recommend)

	r.Route("/comparison", func(r chi.Router) {
		r.Get("/", match.Comparison)
		r.Delete("/", match.ClearComparison)
		r.Post("/{id}", match.AddToComparison)
		r.Delete("/{id}", match.RemoveFromComparison)
	})

	r.Post("/weights/normalize", match.NormalizeWeights)
	r.Get("/preferences/weights", match.GetPreferredWeights)
	r.Put("/preferences/weights", match.SetPreferredWeights)

	r.Get("/distance", match.Distance)

	return r
}
