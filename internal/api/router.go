// RastroO - Creator Attribution and Conversion Tracking
// Copyright 2026 Mateus D. (MateusDN896)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MateusDN896/RastroO

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MateusDN896/RastroO/internal/config"
	"github.com/MateusDN896/RastroO/internal/middleware"
)

// Router wires handlers, middleware, and static assets into one
// http.Handler.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	staticDir     string
	contentRoutes bool
}

// NewRouter creates a Router from configuration.
func NewRouter(cfg *config.Config, handler *Handler) *Router {
	mwConfig := &ChiMiddlewareConfig{
		CORSAllowedOrigins: cfg.Security.CORSOrigins,
		CORSAllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		CORSAllowedHeaders: []string{"Content-Type"},
		CORSMaxAge:         86400,

		RateLimitRequests: cfg.Security.RateLimitReqs,
		RateLimitWindow:   cfg.Security.RateLimitWindow,
		RateLimitDisabled: cfg.Security.RateLimitDisabled,
	}

	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(mwConfig),
		staticDir:     cfg.Server.StaticDir,
		contentRoutes: cfg.Instagram.Enabled,
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	// Health endpoints get a permissive limit so monitors can poll.
	r.Route("/api/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// Tracking and reporting API. The snippet endpoints stay public;
	// the per-IP limit and the per-session throttle are the only gates.
	r.Route("/api", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(middleware.PrometheusMetrics)

		r.Post("/track", router.handler.Track)
		r.Post("/hit", router.handler.Hit)
		r.Post("/lead", router.handler.Lead)
		r.Post("/sale", router.handler.Sale)

		r.Get("/report", router.handler.Report)

		r.Get("/status", router.handler.Statuses)
		r.Post("/status", router.handler.SetStatus)

		r.Get("/creators", router.handler.Creators)
		r.Post("/creators", router.handler.CreateCreator)
		r.Delete("/creators/{id}", router.handler.DeleteCreator)

		if router.contentRoutes {
			r.Get("/content", router.handler.Content)
		}
	})

	r.Handle("/metrics", promhttp.Handler())

	// Static dashboard and snippet. The /public/ prefix matches the
	// embed URL shops already carry; the root mount must be last so it
	// only catches unmatched routes.
	r.Handle("/public/*", http.StripPrefix("/public", http.HandlerFunc(router.serveStatic)))
	r.Get("/*", router.serveStatic)

	return r
}

// serveStatic serves the dashboard and snippet assets. The root
// redirects to the dashboard.
func (router *Router) serveStatic(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" {
		http.Redirect(w, r, "/dashboard.html", http.StatusFound)
		return
	}

	if strings.HasSuffix(r.URL.Path, ".js") {
		// The snippet is fetched on every page view of every tracked
		// site; let browsers cache it for an hour.
		w.Header().Set("Cache-Control", "public, max-age=3600")
	}

	http.FileServer(http.Dir(router.staticDir)).ServeHTTP(w, r)
}
