// Reelstats - Movie Rating Analytics Dashboard
// Copyright 2026 Reelstats Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelstats/reelstats

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reelstats/reelstats/internal/config"
)

// Router wires handlers and middleware into the HTTP routing tree.
type Router struct {
	handler    *Handler
	middleware *Middleware
}

// NewRouter creates a router from the handler and security config.
func NewRouter(handler *Handler, security *config.SecurityConfig) *Router {
	return &Router{
		handler: handler,
		middleware: NewMiddleware(&MiddlewareConfig{
			CORSAllowedOrigins: security.CORSOrigins,
			RateLimitRequests:  security.RateLimitReqs,
			RateLimitWindow:    security.RateLimitWindow,
			RateLimitDisabled:  security.RateLimitDisabled,
		}),
	}
}

// Setup builds the full route tree.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.middleware.CORS())
	r.Use(RequestLogger())

	r.Get("/api/v1/health", router.handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/users/{userID}", func(r chi.Router) {
		r.Use(router.middleware.RateLimit())
		r.Use(PrometheusMetrics())

		r.Post("/ratings", router.handler.CreateRating)

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/stats", router.handler.Stats)
			r.Get("/activity", router.handler.Activity)
			r.Get("/genres", router.handler.Genres)
			r.Get("/rating-distribution", router.handler.RatingDistribution)
			r.Get("/dashboard", router.handler.Dashboard)
		})
	})

	return r
}
