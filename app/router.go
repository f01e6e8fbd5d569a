package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthChecker is satisfied by App.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// RouteRegistrar mounts a module's HTTP routes.
type RouteRegistrar interface {
	RegisterRoutes(r chi.Router)
}

// Router builds the HTTP handler for the application.
func (app *App) Router() http.Handler {
	return NewRouter(app, app.Observability.Registry, app.GameModule)
}

// NewRouter serves health, metrics and every module's routes.
func NewRouter(health HealthChecker, gatherer prometheus.Gatherer, modules ...RouteRegistrar) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := health.HealthCheck(ctx); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	for _, m := range modules {
		m.RegisterRoutes(r)
	}
	return r
}
