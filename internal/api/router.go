package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Patron/internal/catalog"
	"github.com/MikeSquared-Agency/Patron/internal/events"
	"github.com/MikeSquared-Agency/Patron/internal/scoring"
	"github.com/MikeSquared-Agency/Patron/internal/store"
)

func NewRouter(s store.Store, ev events.Client, cat catalog.Client, engine *scoring.Engine, maxCurvePoints int, adminToken string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(120))

	customers := NewCustomersHandler(s, ev, cat, engine, maxCurvePoints, logger)
	admin := NewAdminHandler(s)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/customers", customers.Create)
		r.Get("/customers", customers.List)
		r.Get("/customers/{id}", customers.Get)

		r.Post("/customers/{id}/observations", customers.AppendObservation)
		r.Post("/customers/{id}/observations/seed", customers.SeedObservations)
		r.Get("/customers/{id}/observations", customers.ListObservations)

		r.Post("/customers/{id}/evaluations", customers.Evaluate)
		r.Get("/customers/{id}/evaluations", customers.ListEvaluations)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(adminToken))
			r.Get("/stats", admin.Stats)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
