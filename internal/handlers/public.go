// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/go-chi/chi/v5"

	"scalers/internal/cache"
	"scalers/internal/catalog"
	"scalers/internal/contact"
	"scalers/internal/hero"
	"scalers/internal/models"
	"scalers/internal/render"
	"scalers/internal/site"
)

const (
	// homeFeatured caps the featured strip on the home page.
	homeFeatured = 3

	posterWidth  = 1200
	posterHeight = 600
	posterSeed   = 2026
)

// Public groups handlers for the marketing site. Rendered pages are kept
// in the Valkey page cache; change events clear it.
type Public struct {
	renderer   *render.Renderer
	catalog    Catalog
	categories CategoryLister
	contact    *contact.Service
	pageCache  PageCache

	posterOnce sync.Once
	poster     []byte
}

// NewPublic creates a new Public handler group. pageCache may be nil.
func NewPublic(renderer *render.Renderer, cat Catalog, categories CategoryLister, contactSvc *contact.Service, pageCache PageCache) *Public {
	return &Public{
		renderer:   renderer,
		catalog:    cat,
		categories: categories,
		contact:    contactSvc,
		pageCache:  pageCache,
	}
}

// Homepage renders the landing page with the featured strip and the
// client marquee.
func (p *Public) Homepage(w http.ResponseWriter, r *http.Request) {
	p.cached(w, r, nil, func() ([]byte, error) {
		data := map[string]any{}
		items, err := p.catalog.Items(r.Context())
		if err != nil {
			// The home page still works without portfolio items.
			slog.Error("list items for home failed", "error", err)
		}
		featured, _ := catalog.Partition(items)
		if len(featured) > homeFeatured {
			featured = featured[:homeFeatured]
		}
		data["Featured"] = featured
		data["Clients"] = clientNames(items)

		return p.renderer.Public(r, "home", &render.PageData{Page: site.PageHome, Data: data})
	})
}

// Page renders one of the static pages by name. Unknown names redirect to
// the home page.
func (p *Public) Page(w http.ResponseWriter, r *http.Request) {
	page, ok := site.ParsePage(chi.URLParam(r, "page"))
	switch {
	case !ok || page == site.PageHome:
		http.Redirect(w, r, site.PageHome.Path(), http.StatusSeeOther)
		return
	case page == site.PageAdmin:
		http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
		return
	case page == site.PageClients:
		p.Clients(w, r)
		return
	case page == site.PageContact:
		p.ContactPage(w, r)
		return
	}

	p.cached(w, r, nil, func() ([]byte, error) {
		return p.renderer.Public(r, string(page), &render.PageData{Page: page})
	})
}

// Clients renders the portfolio with the q, kind and category filters.
func (p *Public) Clients(w http.ResponseWriter, r *http.Request) {
	q := catalog.QueryFromValues(r.URL.Query())
	p.cached(w, r, q.Values(), func() ([]byte, error) {
		listing, err := p.catalog.Listing(r.Context(), q)
		if err != nil {
			return nil, err
		}
		return p.renderer.Public(r, "clients", &render.PageData{
			Page: site.PageClients,
			Data: map[string]any{"Listing": listing},
		})
	})
}

// ClientDetail renders one portfolio item.
func (p *Public) ClientDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	items, err := p.catalog.Items(r.Context())
	if err != nil {
		slog.Error("list items failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	var item *models.ContentItem
	for i := range items {
		if items[i].ID == id {
			it := items[i]
			item = &it
			break
		}
	}
	if item == nil {
		http.NotFound(w, r)
		return
	}

	p.cached(w, r, nil, func() ([]byte, error) {
		return p.renderer.Public(r, "client", &render.PageData{
			Page:  site.PageClients,
			Title: item.Title,
			Data:  map[string]any{"Item": item},
		})
	})
}

// HeroPoster serves a still frame of the particle hero for clients
// without JavaScript.
func (p *Public) HeroPoster(w http.ResponseWriter, r *http.Request) {
	p.posterOnce.Do(func() {
		p.poster = hero.Poster(posterWidth, posterHeight, posterSeed)
	})
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(p.poster)
}

// cached serves r from the page cache or renders it with fn and stores
// the result. query holds the parameters the page depends on; anything
// else in the URL shares the same entry. HTMX fragments bypass the cache.
func (p *Public) cached(w http.ResponseWriter, r *http.Request, query url.Values, fn func() ([]byte, error)) {
	ctx := r.Context()
	useCache := p.pageCache != nil && !isHTMX(r)
	key := cache.PageKey(r.URL.Path, query)

	if useCache {
		if html, ok := p.pageCache.Get(ctx, key); ok {
			writeHTML(w, html)
			return
		}
	}

	html, err := fn()
	if err != nil {
		slog.Error("render public page failed", "error", err, "path", r.URL.Path)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if useCache {
		p.pageCache.Set(ctx, key, html)
	}
	writeHTML(w, html)
}

func writeHTML(w http.ResponseWriter, html []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}

// clientNames returns distinct client names in fetch order.
func clientNames(items []models.ContentItem) []string {
	seen := make(map[string]bool)
	var out []string
	for _, it := range items {
		if it.ClientName == "" || seen[it.ClientName] {
			continue
		}
		seen[it.ClientName] = true
		out = append(out, it.ClientName)
	}
	return out
}
