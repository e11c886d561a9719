// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the Scalers site.
// Handlers are grouped by concern (public, admin, auth) and receive
// their dependencies through the handler struct.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"scalers/internal/catalog"
	"scalers/internal/models"
	"scalers/internal/session"
)

// PageCache stores rendered public pages. *cache.PageCache satisfies it.
type PageCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, html []byte)
}

// Catalog is the read side of the portfolio. *catalog.Snapshot satisfies it.
type Catalog interface {
	Items(ctx context.Context) ([]models.ContentItem, error)
	Listing(ctx context.Context, q catalog.Query) (catalog.Listing, error)
}

// CategoryLister lists categories. *store.CategoryStore satisfies it.
type CategoryLister interface {
	List(ctx context.Context) ([]models.Category, error)
}

// Sessions is the session store surface used by the admin handlers.
// *session.Store satisfies it.
type Sessions interface {
	Create(ctx context.Context, w http.ResponseWriter, data *session.Data) (string, error)
	Update(ctx context.Context, r *http.Request, data *session.Data) error
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
	PopFlash(ctx context.Context, r *http.Request, data *session.Data) string
}

// Users looks up and updates admin accounts. *store.UserStore satisfies it.
type Users interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	CheckPassword(user *models.User, password string) bool
	SetTOTPSecret(ctx context.Context, userID uuid.UUID, secret string) error
	EnableTOTP(ctx context.Context, userID uuid.UUID) error
}

// ChangeLog reads the audit trail. *store.ChangeLogStore satisfies it.
type ChangeLog interface {
	Recent(ctx context.Context, limit int) ([]models.ChangeEntry, error)
}

// KindCounter counts items per kind. *store.ContentStore satisfies it.
type KindCounter interface {
	CountByKind(ctx context.Context) (map[models.ContentKind]int, error)
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("json encode failed", "error", err)
	}
}

// writeJSONError writes {"error": msg}.
func writeJSONError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// idParam parses the {id} route parameter.
func idParam(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
