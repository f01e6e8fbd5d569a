package gamehandlers

import (
	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

// RouteConfig controls the slash-command endpoint.
type RouteConfig struct {
	SigningSecret  string
	RequestsPerSec float64
	Burst          int
}

// Mount registers the Slack routes on r.
func (h *SlackHandlers) Mount(r chi.Router, cfg RouteConfig) {
	rps, burst := cfg.RequestsPerSec, cfg.Burst
	if rps <= 0 {
		rps = 5
	}
	if burst <= 0 {
		burst = 10
	}
	limiter := NewIPRateLimiter(rate.Limit(rps), burst)

	r.Route("/slack", func(r chi.Router) {
		r.Use(RateLimitMiddleware(limiter))
		r.Use(SlackSignatureMiddleware(cfg.SigningSecret))
		r.Post("/commands", h.HandleSlashCommand)
	})
}
