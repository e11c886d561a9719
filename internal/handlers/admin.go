// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"scalers/internal/catalog"
	"scalers/internal/middleware"
	"scalers/internal/models"
	"scalers/internal/render"
)

// recentChanges is how many audit entries the dashboard shows.
const recentChanges = 10

const dashboardPath = "/admin/dashboard"

// Admin groups the content admin handlers.
type Admin struct {
	renderer *render.Renderer
	sessions Sessions
	catalog  *catalog.Service
	changes  ChangeLog
	counts   KindCounter
}

// NewAdmin creates the admin handler group. changes and counts may be nil;
// the dashboard then leaves those panels empty.
func NewAdmin(renderer *render.Renderer, sessions Sessions, svc *catalog.Service, changes ChangeLog, counts KindCounter) *Admin {
	return &Admin{
		renderer: renderer,
		sessions: sessions,
		catalog:  svc,
		changes:  changes,
		counts:   counts,
	}
}

// Dashboard renders the content library, category manager and recent
// changes.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	a.dashboard(w, r, nil)
}

// dashboard renders the dashboard with optional extra data, used to show
// a category form error in place.
func (a *Admin) dashboard(w http.ResponseWriter, r *http.Request, extra map[string]any) {
	ctx := r.Context()
	data := map[string]any{}

	items, err := a.catalog.ListItems(ctx)
	if err != nil {
		slog.Error("list content failed", "error", err)
		data["Error"] = "Content could not be loaded."
	}
	data["Items"] = items

	cats, err := a.catalog.ListCategories(ctx)
	if err != nil {
		slog.Error("list categories failed", "error", err)
	}
	data["Categories"] = cats

	if a.counts != nil {
		counts, err := a.counts.CountByKind(ctx)
		if err != nil {
			slog.Warn("count content failed", "error", err)
		}
		data["Counts"] = counts
	}
	if a.changes != nil {
		changes, err := a.changes.Recent(ctx, recentChanges)
		if err != nil {
			slog.Warn("load change log failed", "error", err)
		}
		data["Changes"] = changes
	}
	for k, v := range extra {
		data[k] = v
	}

	a.renderer.Page(w, r, "dashboard", &render.PageData{
		Title:   "Content Library",
		Section: "dashboard",
		Data:    data,
		Flashes: a.flashes(r),
	})
}

// --- Content items ---

// ContentNew renders an empty item form.
func (a *Admin) ContentNew(w http.ResponseWriter, r *http.Request) {
	a.renderForm(w, r, catalog.ItemForm{Kind: string(models.KindCreatives)}, uuid.Nil, "")
}

// ContentCreate saves a new item from the form.
func (a *Admin) ContentCreate(w http.ResponseWriter, r *http.Request) {
	form, up, msg := a.readItemForm(w, r)
	if msg != "" {
		a.renderForm(w, r, form, uuid.Nil, msg)
		return
	}

	item, err := a.catalog.CreateItem(r.Context(), actor(r), form, up)
	if err != nil {
		a.renderForm(w, r, form, uuid.Nil, a.itemError("create", err))
		return
	}

	slog.Info("content created", "id", item.ID, "title", item.Title, "kind", item.Kind)
	a.finish(w, r, flashSuccess, "Content added.")
}

// ContentEdit renders the form pre-filled from an existing item.
func (a *Admin) ContentEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	item, err := a.catalog.GetItem(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("load content failed", "id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	a.renderForm(w, r, catalog.FormFromItem(item), id, "")
}

// ContentUpdate saves an edit.
func (a *Admin) ContentUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	form, up, msg := a.readItemForm(w, r)
	if msg != "" {
		a.renderForm(w, r, form, id, msg)
		return
	}

	item, err := a.catalog.UpdateItem(r.Context(), actor(r), id, form, up)
	if errors.Is(err, catalog.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		a.renderForm(w, r, form, id, a.itemError("update", err))
		return
	}

	slog.Info("content updated", "id", item.ID, "title", item.Title)
	a.finish(w, r, flashSuccess, "Content saved.")
}

// ContentDelete removes an item and its stored media.
func (a *Admin) ContentDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	err := a.catalog.DeleteItem(r.Context(), actor(r), id)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		a.finish(w, r, flashError, "That item was already deleted.")
	case err != nil:
		slog.Error("delete content failed", "id", id, "error", err)
		a.finish(w, r, flashError, "Failed to delete content.")
	default:
		slog.Info("content deleted", "id", id)
		a.finish(w, r, flashSuccess, "Content deleted.")
	}
}

// readItemForm parses the item form and its optional upload. A non-empty
// message means the request cannot go further.
func (a *Admin) readItemForm(w http.ResponseWriter, r *http.Request) (catalog.ItemForm, *catalog.Upload, string) {
	if err := parseForm(w, r); err != nil {
		return catalog.ItemForm{}, nil, uploadMessage(errUploadTooLarge)
	}
	form := itemFormFromRequest(r)
	up, err := readUpload(r)
	if err != nil {
		return form, nil, uploadMessage(err)
	}
	return form, up, ""
}

// itemError maps a catalog error to the inline message, logging anything
// that is not a validation failure.
func (a *Admin) itemError(op string, err error) string {
	if msg := catalog.Message(err); msg != "" {
		return msg
	}
	slog.Error(op+" content failed", "error", err)
	return "An unexpected error occurred. Please try again."
}

// renderForm shows the item form. id is uuid.Nil for a new item.
func (a *Admin) renderForm(w http.ResponseWriter, r *http.Request, form catalog.ItemForm, id uuid.UUID, errMsg string) {
	cats, err := a.catalog.ListCategories(r.Context())
	if err != nil {
		slog.Error("list categories failed", "error", err)
	}

	title := "Edit Content"
	if id == uuid.Nil {
		title = "Add Content"
	}
	data := map[string]any{
		"Form":            form,
		"IsNew":           id == uuid.Nil,
		"ID":              id,
		"Categories":      cats,
		"UnknownCategory": form.Category != "" && !hasCategory(cats, form.Category),
		"UploadsEnabled":  a.catalog.UploadsEnabled(),
	}
	if errMsg != "" {
		data["Error"] = errMsg
	}

	a.renderer.Page(w, r, "content_form", &render.PageData{
		Title:   title,
		Section: "dashboard",
		Data:    data,
	})
}

// hasCategory reports whether name is in cats. Items keep category names
// that no longer exist, so the form has to offer those too.
func hasCategory(cats []models.Category, name string) bool {
	for _, c := range cats {
		if c.Name == name {
			return true
		}
	}
	return false
}

// --- Categories ---

// CategoryCreate adds a category from the dashboard form.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("name")
	if msg := validateCategoryName(name); msg != "" {
		a.dashboard(w, r, map[string]any{"CategoryError": msg, "CategoryName": name})
		return
	}

	cat, err := a.catalog.AddCategory(r.Context(), actor(r), name)
	if err != nil {
		msg := catalog.Message(err)
		if msg == "" {
			slog.Error("create category failed", "error", err)
			msg = "Failed to add category."
		}
		a.dashboard(w, r, map[string]any{"CategoryError": msg, "CategoryName": name})
		return
	}

	slog.Info("category created", "id", cat.ID, "name", cat.Name)
	a.finish(w, r, flashSuccess, "Category added.")
}

// CategoryDelete removes a category. Items keep the name.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	err := a.catalog.DeleteCategory(r.Context(), actor(r), id)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		a.finish(w, r, flashError, "That category was already deleted.")
	case err != nil:
		slog.Error("delete category failed", "id", id, "error", err)
		a.finish(w, r, flashError, "Failed to delete category.")
	default:
		slog.Info("category deleted", "id", id)
		a.finish(w, r, flashSuccess, "Category deleted.")
	}
}

// --- Helpers ---

// Flash types, matching the notice-* classes in the admin layout.
const (
	flashSuccess = "success"
	flashError   = "error"
)

// finish stores msg as a flash of the given type and returns to the
// dashboard. HTMX callers get an HX-Redirect so the whole page reloads.
func (a *Admin) finish(w http.ResponseWriter, r *http.Request, kind, msg string) {
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil && a.sessions != nil {
		sess.Flash = msg
		sess.FlashType = kind
		if err := a.sessions.Update(r.Context(), r, sess); err != nil {
			slog.Warn("flash save failed", "error", err)
		}
	}

	if isHTMX(r) {
		w.Header().Set("HX-Redirect", dashboardPath)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
}

// flashes pops the pending flash message, if any.
func (a *Admin) flashes(r *http.Request) []render.Flash {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil || a.sessions == nil {
		return nil
	}
	kind := sess.FlashType
	if kind == "" {
		kind = flashSuccess
	}
	if msg := a.sessions.PopFlash(r.Context(), r, sess); msg != "" {
		return []render.Flash{{Type: kind, Message: msg}}
	}
	return nil
}

// actor is the user behind the request, or uuid.Nil.
func actor(r *http.Request) uuid.UUID {
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil {
		return sess.UserID
	}
	return uuid.Nil
}
