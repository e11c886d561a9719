// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"

	"scalers/internal/models"
	"scalers/internal/session"
)

// adminRequest builds a request carrying a completed admin session.
func adminRequest(method, target string, body *strings.Reader) (*http.Request, *session.Data) {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	sess := testSession(uuid.New(), "admin@scalers.local", true)
	return req.WithContext(ctxWithSession(req.Context(), sess)), sess
}

func formReader(v url.Values) *strings.Reader { return strings.NewReader(v.Encode()) }

func assertDashboardRedirect(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want 303; body: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/admin/dashboard" {
		t.Errorf("Location: got %q, want /admin/dashboard", loc)
	}
}

func TestDashboard(t *testing.T) {
	env := newFakeEnv(t)
	portfolio(env)
	env.seedCategory("Branding")

	req, sess := adminRequest(http.MethodGet, "/admin/dashboard", nil)
	sess.Flash = "Content saved."
	rec := httptest.NewRecorder()
	env.Admin.Dashboard(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Content Library", "Launch Campaign", "Poster Series", "2 items", "Branding", "Content saved."} {
		if !strings.Contains(body, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
	if sess.Flash != "" {
		t.Error("flash should be consumed")
	}
}

func TestContentNew(t *testing.T) {
	env := newFakeEnv(t)
	req, _ := adminRequest(http.MethodGet, "/admin/content/new", nil)
	rec := httptest.NewRecorder()
	env.Admin.ContentNew(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `action="/admin/content"`) {
		t.Error("new form should post to /admin/content")
	}
}

func TestContentCreate(t *testing.T) {
	env := newFakeEnv(t)
	form := url.Values{
		"title":        {"Spring Reel"},
		"content_type": {"reels"},
		"content_url":  {"https://youtu.be/abc123"},
		"client_name":  {"Acme"},
		"category":     {"Events"},
		"is_featured":  {"true"},
	}
	req, _ := adminRequest(http.MethodPost, "/admin/content", formReader(form))
	rec := httptest.NewRecorder()
	env.Admin.ContentCreate(rec, req)

	assertDashboardRedirect(t, rec)
	items, _ := env.Items.List(req.Context())
	if len(items) != 1 {
		t.Fatalf("items: got %d, want 1", len(items))
	}
	got := items[0]
	if got.Title != "Spring Reel" || got.Kind != models.KindReels || !got.IsFeatured || got.Category != "Events" {
		t.Errorf("stored item: %+v", got)
	}
	if env.Sessions.updated == nil || env.Sessions.updated.Flash != "Content added." {
		t.Errorf("flash: %+v", env.Sessions.updated)
	}
	if len(env.Changes.entries) != 1 || env.Changes.entries[0].Action != models.ActionInsert {
		t.Errorf("change log: %+v", env.Changes.entries)
	}
}

func TestContentCreateValidation(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{"missing title", url.Values{"content_type": {"text"}, "content_text": {"x"}}, "Title is required."},
		{"video without media", url.Values{"title": {"T"}, "content_type": {"videos"}}, "Please upload a file or enter"},
		{"text without body", url.Values{"title": {"T"}, "content_type": {"text"}}, "Text content is required for text type."},
		{"unknown kind", url.Values{"title": {"T"}, "content_type": {"gif"}}, "Please choose a content type."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newFakeEnv(t)
			req, _ := adminRequest(http.MethodPost, "/admin/content", formReader(tt.form))
			rec := httptest.NewRecorder()
			env.Admin.ContentCreate(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status: got %d, want 200 (form re-render)", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Errorf("body missing %q", tt.want)
			}
			if items, _ := env.Items.List(req.Context()); len(items) != 0 {
				t.Error("invalid form must not write")
			}
		})
	}
}

func TestContentCreateWithUpload(t *testing.T) {
	env := newFakeEnv(t, withUploads())

	var img bytes.Buffer
	png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 8, 8)))
	body, ct := multipartBody(t, map[string]string{
		"title":        "Logo Sheet",
		"content_type": "creatives",
	}, "logo.png", img.Bytes())

	req := httptest.NewRequest(http.MethodPost, "/admin/content", body)
	req.Header.Set("Content-Type", ct)
	req = req.WithContext(ctxWithSession(req.Context(), testSession(uuid.New(), "a@b.c", true)))
	rec := httptest.NewRecorder()
	env.Admin.ContentCreate(rec, req)

	assertDashboardRedirect(t, rec)
	items, _ := env.Items.List(req.Context())
	if len(items) != 1 {
		t.Fatalf("items: got %d", len(items))
	}
	if !strings.HasPrefix(items[0].ContentURL, fakeMediaBase+"creatives/logo-sheet-") {
		t.Errorf("content URL: %q", items[0].ContentURL)
	}
	if env.Objects.count() != 1 {
		t.Errorf("objects: got %d, want 1", env.Objects.count())
	}
}

func TestContentCreateUploadWithoutStorage(t *testing.T) {
	env := newFakeEnv(t)

	var img bytes.Buffer
	png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 4, 4)))
	body, ct := multipartBody(t, map[string]string{"title": "X", "content_type": "creatives"}, "x.png", img.Bytes())

	req := httptest.NewRequest(http.MethodPost, "/admin/content", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	env.Admin.ContentCreate(rec, req)

	if !strings.Contains(rec.Body.String(), "File uploads are not configured.") {
		t.Error("expected the storage-disabled message")
	}
}

func TestContentEdit(t *testing.T) {
	env := newFakeEnv(t)
	launch, _ := portfolio(env)

	t.Run("existing", func(t *testing.T) {
		req, _ := adminRequest(http.MethodGet, "/", nil)
		req = withChiURLParam(req, "id", launch.ID.String())
		rec := httptest.NewRecorder()
		env.Admin.ContentEdit(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status: got %d", rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, `value="Launch Campaign"`) {
			t.Error("form not pre-filled")
		}
		// "Social Media" is not in the categories table but must stay selectable.
		if !strings.Contains(body, `<option value="Social Media" selected>`) {
			t.Error("unknown category not offered")
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		req, _ := adminRequest(http.MethodGet, "/", nil)
		req = withChiURLParam(req, "id", "nope")
		rec := httptest.NewRecorder()
		env.Admin.ContentEdit(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want 400", rec.Code)
		}
	})

	t.Run("missing", func(t *testing.T) {
		req, _ := adminRequest(http.MethodGet, "/", nil)
		req = withChiURLParam(req, "id", uuid.NewString())
		rec := httptest.NewRecorder()
		env.Admin.ContentEdit(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status: got %d, want 404", rec.Code)
		}
	})
}

func TestContentUpdate(t *testing.T) {
	env := newFakeEnv(t)
	_, poster := portfolio(env)

	form := url.Values{
		"title":         {"Poster Series v2"},
		"content_type":  {"creatives"},
		"content_url":   {poster.ContentURL},
		"display_order": {"7"},
	}
	req, _ := adminRequest(http.MethodPost, "/", formReader(form))
	req = withChiURLParam(req, "id", poster.ID.String())
	rec := httptest.NewRecorder()
	env.Admin.ContentUpdate(rec, req)

	assertDashboardRedirect(t, rec)
	got, _ := env.Items.FindByID(req.Context(), poster.ID)
	if got.Title != "Poster Series v2" || got.DisplayOrder != 7 {
		t.Errorf("updated item: %+v", got)
	}
}

func TestContentUpdateMissing(t *testing.T) {
	env := newFakeEnv(t)
	form := url.Values{"title": {"T"}, "content_type": {"text"}, "content_text": {"x"}}
	req, _ := adminRequest(http.MethodPost, "/", formReader(form))
	req = withChiURLParam(req, "id", uuid.NewString())
	rec := httptest.NewRecorder()
	env.Admin.ContentUpdate(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
}

func TestContentDelete(t *testing.T) {
	env := newFakeEnv(t)
	launch, _ := portfolio(env)

	req, _ := adminRequest(http.MethodPost, "/", nil)
	req = withChiURLParam(req, "id", launch.ID.String())
	rec := httptest.NewRecorder()
	env.Admin.ContentDelete(rec, req)

	assertDashboardRedirect(t, rec)
	if got, _ := env.Items.FindByID(req.Context(), launch.ID); got != nil {
		t.Error("item still present")
	}
	if env.Sessions.updated.Flash != "Content deleted." || env.Sessions.updated.FlashType != "success" {
		t.Errorf("flash: %q (%s)", env.Sessions.updated.Flash, env.Sessions.updated.FlashType)
	}

	// HTMX deletes get a client-side redirect.
	req, _ = adminRequest(http.MethodDelete, "/", nil)
	req.Header.Set("HX-Request", "true")
	req = withChiURLParam(req, "id", launch.ID.String())
	rec = httptest.NewRecorder()
	env.Admin.ContentDelete(rec, req)
	if rec.Header().Get("HX-Redirect") != "/admin/dashboard" {
		t.Errorf("HX-Redirect: %q", rec.Header().Get("HX-Redirect"))
	}
	if env.Sessions.updated.Flash != "That item was already deleted." {
		t.Errorf("flash: %q", env.Sessions.updated.Flash)
	}
}

func TestContentDeleteFailureFlashesError(t *testing.T) {
	env := newFakeEnv(t)
	launch, _ := portfolio(env)
	env.Items.deleteErr = errors.New("connection reset")

	req, sess := adminRequest(http.MethodPost, "/", nil)
	req = withChiURLParam(req, "id", launch.ID.String())
	rec := httptest.NewRecorder()
	env.Admin.ContentDelete(rec, req)

	assertDashboardRedirect(t, rec)
	if sess.Flash != "Failed to delete content." || sess.FlashType != "error" {
		t.Fatalf("flash: %q (%s)", sess.Flash, sess.FlashType)
	}

	// The dashboard renders it with the error notice class.
	env.Items.deleteErr = nil
	dash, _ := adminRequest(http.MethodGet, "/admin/dashboard", nil)
	dash = dash.WithContext(ctxWithSession(dash.Context(), sess))
	rec = httptest.NewRecorder()
	env.Admin.Dashboard(rec, dash)
	body := rec.Body.String()
	if !strings.Contains(body, `notice-error" role="status">Failed to delete content.`) {
		t.Error("failure flash not rendered as an error notice")
	}
	if strings.Contains(body, "notice-success") {
		t.Error("failure flash rendered as success")
	}
	if sess.Flash != "" || sess.FlashType != "" {
		t.Error("flash should be consumed")
	}
}

func TestCategoryCreate(t *testing.T) {
	env := newFakeEnv(t)
	env.seedCategory("Branding")

	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"new", "  Events  ", ""},
		{"duplicate ignoring case", "branding", "This category already exists."},
		{"empty", "   ", "Category name cannot be empty."},
		{"too long", strings.Repeat("x", 101), "Category name is too long"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := adminRequest(http.MethodPost, "/admin/categories", formReader(url.Values{"name": {tt.input}}))
			rec := httptest.NewRecorder()
			env.Admin.CategoryCreate(rec, req)

			if tt.wantErr == "" {
				assertDashboardRedirect(t, rec)
				return
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("status: got %d, want 200", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.wantErr) {
				t.Errorf("body missing %q", tt.wantErr)
			}
		})
	}

	cats, _ := env.Categories.List(t.Context())
	if len(cats) != 2 || cats[1].Name != "Events" {
		t.Errorf("categories: %+v", cats)
	}
}

func TestCategoryDeleteKeepsItems(t *testing.T) {
	env := newFakeEnv(t)
	cat := env.seedCategory("Branding")
	_, poster := portfolio(env)

	req, _ := adminRequest(http.MethodPost, "/", nil)
	req = withChiURLParam(req, "id", cat.ID.String())
	rec := httptest.NewRecorder()
	env.Admin.CategoryDelete(rec, req)

	assertDashboardRedirect(t, rec)
	if cats, _ := env.Categories.List(req.Context()); len(cats) != 0 {
		t.Errorf("categories: %+v", cats)
	}
	got, _ := env.Items.FindByID(req.Context(), poster.ID)
	if got.Category != "Branding" {
		t.Errorf("item category changed to %q", got.Category)
	}
}

func TestMediaUpload(t *testing.T) {
	svg := []byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg"></svg>`)

	t.Run("storage disabled", func(t *testing.T) {
		env := newFakeEnv(t)
		body, ct := multipartBody(t, nil, "logo.svg", svg)
		req := httptest.NewRequest(http.MethodPost, "/admin/media", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()
		env.Admin.MediaUpload(rec, req)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status: got %d, want 503", rec.Code)
		}
	})

	t.Run("svg logo", func(t *testing.T) {
		env := newFakeEnv(t, withUploads())
		body, ct := multipartBody(t, map[string]string{"title": "Acme Logo"}, "logo.svg", svg)
		req := httptest.NewRequest(http.MethodPost, "/admin/media", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()
		env.Admin.MediaUpload(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status: got %d, want 201; body %s", rec.Code, rec.Body.String())
		}
		var got map[string]string
		json.NewDecoder(rec.Body).Decode(&got)
		if got["content_type"] != "image/svg+xml" || !strings.HasPrefix(got["url"], fakeMediaBase+"creatives/acme-logo-") {
			t.Errorf("response: %+v", got)
		}
	})

	t.Run("not media", func(t *testing.T) {
		env := newFakeEnv(t, withUploads())
		body, ct := multipartBody(t, nil, "notes.txt", []byte("plain words"))
		req := httptest.NewRequest(http.MethodPost, "/admin/media", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()
		env.Admin.MediaUpload(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want 400", rec.Code)
		}
	})

	t.Run("no file", func(t *testing.T) {
		env := newFakeEnv(t, withUploads())
		body, ct := multipartBody(t, map[string]string{"title": "x"}, "", nil)
		req := httptest.NewRequest(http.MethodPost, "/admin/media", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()
		env.Admin.MediaUpload(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want 400", rec.Code)
		}
	})
}

func TestSniffContentType(t *testing.T) {
	var img bytes.Buffer
	png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 2, 2)))

	tests := []struct {
		name     string
		filename string
		data     []byte
		want     string
	}{
		{"png", "a.png", img.Bytes(), "image/png"},
		{"png named jpg", "a.jpg", img.Bytes(), "image/png"},
		{"svg", "a.svg", []byte(`<?xml version="1.0"?><svg></svg>`), "image/svg+xml"},
		{"xml not named svg", "a.xml", []byte(`<?xml version="1.0"?><svg></svg>`), "text/xml"},
		{"quicktime by extension", "clip.mov", []byte{0, 0, 0, 0x14, 'f', 't', 'y', 'p', 'q', 't', ' ', ' '}, "video/quicktime"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sniffContentType(tt.filename, tt.data); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
