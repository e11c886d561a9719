// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the public site and
// the admin interface. It supports full-page and HTMX partial rendering,
// automatically detecting the request type via the HX-Request header.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"scalers/internal/catalog"
	"scalers/internal/markdown"
	"scalers/internal/middleware"
	"scalers/internal/models"
	"scalers/internal/session"
	"scalers/internal/site"
)

//go:embed templates/admin/*.html templates/public/*.html
var templateFS embed.FS

// PageData holds all data passed to templates.
type PageData struct {
	Title     string         // Page title for <title> tag
	Section   string         // Active sidebar section in admin
	Page      site.Page      // Active public page
	Session   *session.Data  // Current user session (nil if unauthenticated)
	CSRFToken string         // CSRF token for forms and HTMX headers
	Site      *site.Content  // Static marketing copy
	Data      map[string]any // Page-specific data
	Flashes   []Flash        // One-time notification messages
}

// Flash represents a one-time notification message displayed to the user.
type Flash struct {
	Type    string // "success", "error", "warning", "info"
	Message string
}

// Renderer handles template parsing and execution.
type Renderer struct {
	admin   map[string]*template.Template
	public  map[string]*template.Template
	site    atomic.Pointer[site.Content]
	funcMap template.FuncMap
}

// standaloneTemplates lists admin templates that render as full HTML pages
// without the base layout.
var standaloneTemplates = map[string]bool{
	"login":      true,
	"2fa_setup":  true,
	"2fa_verify": true,
}

// New parses every embedded template. Admin pages are paired with
// base.html, public pages with layout.html. devMode marks pages noindex
// and shows an environment badge in the admin.
func New(devMode bool, content *site.Content) (*Renderer, error) {
	if content == nil {
		content = site.Default()
	}
	r := &Renderer{
		admin:  make(map[string]*template.Template),
		public: make(map[string]*template.Template),
	}
	r.site.Store(content)
	r.funcMap = template.FuncMap{
		"isDev": func() bool { return devMode },
		"activeClass": func(current, target string) string {
			if current == target {
				return "is-active"
			}
			return ""
		},
		"year":       func() int { return time.Now().Year() },
		"kindLabel":  func(k models.ContentKind) string { return k.Label() },
		"kinds":      func() []models.ContentKind { return models.Kinds },
		"embedURL":   catalog.EmbedURL,
		"videoThumb": catalog.YouTubeThumbnail,
		"isVertical": catalog.IsVertical,
		"markdown":   renderMarkdown,
		"excerpt":    markdown.Excerpt,
		"clientsURL": clientsURL,
		"plural": func(n int, word string) string {
			if n == 1 {
				return fmt.Sprintf("%d %s", n, word)
			}
			return fmt.Sprintf("%d %ss", n, word)
		},
		"date": func(t time.Time) string { return t.Format("2 Jan 2006 15:04") },
	}

	if err := r.parse("templates/admin", "base.html", standaloneTemplates, r.admin); err != nil {
		return nil, err
	}
	if err := r.parse("templates/public", "layout.html", nil, r.public); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Renderer) parse(dir, layout string, standalone map[string]bool, into map[string]*template.Template) error {
	entries, err := fs.ReadDir(templateFS, dir)
	if err != nil {
		return fmt.Errorf("read embedded templates: %w", err)
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == layout || !strings.HasSuffix(name, ".html") {
			continue
		}
		tmplName := strings.TrimSuffix(name, ".html")

		var tmpl *template.Template
		if standalone[tmplName] {
			tmpl, err = template.New(name).Funcs(r.funcMap).ParseFS(templateFS, dir+"/"+name)
		} else {
			tmpl, err = template.New(layout).Funcs(r.funcMap).ParseFS(templateFS, dir+"/"+layout, dir+"/"+name)
		}
		if err != nil {
			return fmt.Errorf("parse template %s: %w", name, err)
		}
		into[tmplName] = tmpl
	}
	return nil
}

// Page renders a full admin page or an HTMX partial, depending on the
// request headers. For HTMX requests, only the "content" block is sent.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	tmpl, ok := rn.admin[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}
	rn.inject(r, data)

	execName := "base.html"
	switch {
	case isHTMX(r) && !standaloneTemplates[name]:
		execName = "content"
	case standaloneTemplates[name]:
		execName = name + ".html"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := executeTemplate(w, tmpl, execName, data); err != nil {
		slog.Error("template execution failed", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// Public renders a marketing page into memory so the caller can cache it.
// HTMX requests get only the "content" block.
func (rn *Renderer) Public(r *http.Request, name string, data *PageData) ([]byte, error) {
	tmpl, ok := rn.public[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}
	rn.inject(r, data)
	if data.Title == "" {
		data.Title = data.Page.Title()
	}

	execName := "layout.html"
	if isHTMX(r) {
		execName = "content"
	}

	var buf bytes.Buffer
	if err := executeTemplate(&buf, tmpl, execName, data); err != nil {
		return nil, fmt.Errorf("execute %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Fragment renders one named block of a public page, such as the
// contact form after an HTMX post.
func (rn *Renderer) Fragment(r *http.Request, name, block string, data *PageData) ([]byte, error) {
	tmpl, ok := rn.public[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}
	rn.inject(r, data)

	var buf bytes.Buffer
	if err := executeTemplate(&buf, tmpl, block, data); err != nil {
		return nil, fmt.Errorf("execute %s/%s: %w", name, block, err)
	}
	return buf.Bytes(), nil
}

// Site returns the marketing copy templates are rendered with.
func (rn *Renderer) Site() *site.Content {
	return rn.site.Load()
}

// SetSite swaps the marketing copy for subsequent renders. Nil is ignored.
func (rn *Renderer) SetSite(c *site.Content) {
	if c != nil {
		rn.site.Store(c)
	}
}

func (rn *Renderer) inject(r *http.Request, data *PageData) {
	// Inject CSRF token from context (set by CSRF middleware).
	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())
	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}
	if data.Site == nil {
		data.Site = rn.site.Load()
	}
	if data.Data == nil {
		data.Data = map[string]any{}
	}
}

// executeTemplate wraps template execution with error handling.
func executeTemplate(w io.Writer, tmpl *template.Template, name string, data any) error {
	return tmpl.ExecuteTemplate(w, name, data)
}

// isHTMX returns true if the request was made by HTMX (has HX-Request header).
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func renderMarkdown(src string) template.HTML {
	out, err := markdown.ToHTML(src)
	if err != nil {
		slog.Warn("markdown render failed", "error", err)
		return template.HTML(template.HTMLEscapeString(src))
	}
	return out
}

// clientsURL returns the clients page link for q with one filter replaced.
// An empty key links to q unchanged.
func clientsURL(q catalog.Query, key, value string) string {
	switch key {
	case "kind":
		q.Kind = value
	case "category":
		q.Category = value
	case "q":
		q.Search = value
	}
	u := url.URL{Path: site.PageClients.Path(), RawQuery: q.Values().Encode()}
	return u.String()
}
