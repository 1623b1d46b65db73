// AskRed - Reddit-Backed Product Recommendations
// Copyright 2026 AskRed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/askred/askred

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/askred/askred/internal/config"
	"github.com/askred/askred/internal/middleware"
)

// Router assembles the HTTP surface.
type Router struct {
	handler *Handler
	mw      *ChiMiddleware
}

// NewRouter creates the router from handlers and security config.
func NewRouter(handler *Handler, security *config.SecurityConfig) *Router {
	return &Router{
		handler: handler,
		mw:      NewChiMiddleware(security),
	}
}

// Setup wires all routes and the middleware stack.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.mw.CORS())
	r.Use(requestLogger)

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.mw.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.mw.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Post("/search", router.handler.Search)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
