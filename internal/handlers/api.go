// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"scalers/internal/catalog"
	"scalers/internal/models"
)

// APIContent returns the filtered portfolio as JSON. It accepts the same
// q, kind and category parameters as the Clients page.
func (p *Public) APIContent(w http.ResponseWriter, r *http.Request) {
	listing, err := p.catalog.Listing(r.Context(), catalog.QueryFromValues(r.URL.Query()))
	if err != nil {
		slog.Error("api content failed", "error", err)
		writeJSONError(w, "Failed to load content.", http.StatusInternalServerError)
		return
	}
	if listing.Featured == nil {
		listing.Featured = []models.ContentItem{}
	}
	if listing.Others == nil {
		listing.Others = []models.ContentItem{}
	}
	writeJSON(w, http.StatusOK, listing)
}

// APICategories returns every category, oldest first.
func (p *Public) APICategories(w http.ResponseWriter, r *http.Request) {
	cats, err := p.categories.List(r.Context())
	if err != nil {
		slog.Error("api categories failed", "error", err)
		writeJSONError(w, "Failed to load categories.", http.StatusInternalServerError)
		return
	}
	if cats == nil {
		cats = []models.Category{}
	}
	writeJSON(w, http.StatusOK, cats)
}
