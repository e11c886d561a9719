// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// Scalers site. Routes are organised into the public site, the JSON API
// and the admin panel, each with its own middleware stack.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"scalers/internal/handlers"
	"scalers/internal/middleware"
)

// Options carries the pieces of the router that come from configuration.
type Options struct {
	// Sessions loads the admin session for every request.
	Sessions middleware.SessionLoader

	// SecureCookies marks the CSRF cookie Secure.
	SecureCookies bool

	// CORSOrigins may call the JSON API from a browser. Empty allows any.
	CORSOrigins []string

	// MediaOrigins are extra origins allowed to serve images and video.
	MediaOrigins []string

	// Static holds /static/ assets. Nil disables the route.
	Static fs.FS

	// Changes serves the change notification websocket. Nil disables it.
	Changes http.Handler

	// ContactLimit throttles contact form posts. Nil disables throttling.
	ContactLimit func(http.Handler) http.Handler
}

// New creates the configured Chi router with all middleware and route
// groups wired up.
func New(opts Options, admin *handlers.Admin, auth *handlers.Auth, public *handlers.Public) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders(opts.MediaOrigins...))
	r.Use(middleware.LoadSession(opts.Sessions))

	limit := opts.ContactLimit
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}

	r.Get("/health", healthHandler)
	if opts.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", staticHandler(opts.Static)))
	}
	if opts.Changes != nil {
		r.Handle("/ws/changes", opts.Changes)
	}
	r.Get("/hero.svg", public.HeroPoster)

	// JSON API for the portfolio and the contact form.
	r.Route("/api", func(r chi.Router) {
		r.Use(corsHandler(opts.CORSOrigins))
		r.Get("/content", public.APIContent)
		r.Get("/categories", public.APICategories)
		r.With(limit).Post("/contact", public.APIContact)
	})

	// Admin routes, behind CSRF protection.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.NewCSRF(opts.SecureCookies))

		// Reachable without a session.
		r.Get("/login", auth.LoginPage)
		r.Post("/login", auth.LoginSubmit)
		r.Post("/logout", auth.Logout)

		// Signed in, TOTP step may still be pending.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/2fa", auth.TwoFAPage)
			r.Post("/2fa", auth.TwoFASubmit)
		})

		// Fully authenticated admin area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			r.Get("/", redirectTo("/admin/dashboard"))
			r.Get("/dashboard", admin.Dashboard)

			r.Route("/content", func(r chi.Router) {
				r.Get("/new", admin.ContentNew)
				r.Post("/", admin.ContentCreate)
				r.Get("/{id}/edit", admin.ContentEdit)
				r.Post("/{id}", admin.ContentUpdate)
				r.Put("/{id}", admin.ContentUpdate)
				r.Post("/{id}/delete", admin.ContentDelete)
				r.Delete("/{id}", admin.ContentDelete)
			})

			// Editors curate items; the taxonomy belongs to admins.
			r.Route("/categories", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/", admin.CategoryCreate)
				r.Post("/{id}/delete", admin.CategoryDelete)
				r.Delete("/{id}", admin.CategoryDelete)
			})

			r.Post("/media", admin.MediaUpload)
		})
	})

	// Public site.
	r.Get("/", public.Homepage)
	r.Get("/clients", public.Clients)
	r.Get("/clients/{id}", public.ClientDetail)
	r.Get("/contact", public.ContactPage)
	r.With(limit).Post("/contact", public.ContactSubmit)
	r.Get("/{page}", public.Page)

	return r
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
}

// staticHandler serves embedded assets with a short shared cache.
func staticHandler(static fs.FS) http.Handler {
	files := http.FileServer(http.FS(static))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		files.ServeHTTP(w, r)
	})
}

func redirectTo(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, path, http.StatusSeeOther)
	}
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
