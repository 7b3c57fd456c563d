// Package router sets up all HTTP routes and middleware chains for the
// storefront API. It organizes routes into the JSON API group and the
// public catch-all that resolves category and product paths.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/session"
)

// Deps bundles everything the router needs wired in.
type Deps struct {
	Sessions  *session.Store
	Visitors  middleware.VisitorRecorder
	Catalog   *handlers.Catalog
	Products  *handlers.Products
	Purchases *handlers.Purchases
	Downloads *handlers.Downloads
	Auth      *handlers.Auth
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(d.Sessions))

	// Health check.
	r.Get("/health", healthHandler)

	// JSON API.
	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", d.Catalog.Tree)
		r.Get("/check-slug", d.Catalog.CheckSlug)

		// Category writes are limited to admins.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.RequireAdmin)
			r.Post("/categories", d.Catalog.Create)
		})

		r.Get("/products/{id}", d.Products.Get)
		r.Get("/products/{id}/qr", d.Products.QR)
		r.Get("/redirect-product/{id}", d.Products.Redirect)

		r.Get("/purchases", d.Purchases.List)

		// Purchase creation gets a tighter rate limit than general traffic.
		purchaseLimiter := middleware.NewRateLimiter(10, time.Minute)
		r.With(purchaseLimiter.Middleware).Post("/purchases", d.Purchases.Create)

		r.Get("/downloads", d.Downloads.Links)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/user/purchases", d.Purchases.ForUser)
		})

		loginLimiter := middleware.NewRateLimiter(5, time.Minute)
		r.With(loginLimiter.Middleware).Post("/auth/login", d.Auth.Login)
		r.Post("/auth/logout", d.Auth.Logout)
	})

	// Public routes — every category path and product URL resolves through
	// the catch-all, which issues canonical redirects for stale paths.
	r.Group(func(r chi.Router) {
		if d.Visitors != nil {
			r.Use(middleware.TrackVisitors(d.Visitors))
		}
		r.Get("/product/{id}", d.Products.Get)
		r.Get("/*", d.Products.Browse)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
