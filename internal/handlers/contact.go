// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"scalers/internal/contact"
	"scalers/internal/render"
	"scalers/internal/site"
)

// maxContactBody bounds the contact form and its JSON twin.
const maxContactBody = 64 << 10

// ContactPage renders the empty contact form.
func (p *Public) ContactPage(w http.ResponseWriter, r *http.Request) {
	p.cached(w, r, nil, func() ([]byte, error) {
		return p.renderer.Public(r, "contact", &render.PageData{
			Page: site.PageContact,
			Data: map[string]any{"Form": contact.Submission{}, "Field": ""},
		})
	})
}

// ContactSubmit handles the HTML form post. HTMX posts get the form block
// back; plain posts get the whole page.
func (p *Public) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxContactBody)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	sub := submissionFromForm(r)

	data := map[string]any{"Form": sub, "Field": ""}
	status := http.StatusOK
	if msg, field, code := p.submit(r, sub); msg != "" {
		data["Error"], data["Field"] = msg, field
		status = code
	} else {
		data["Sent"] = true
	}

	pd := &render.PageData{Page: site.PageContact, Data: data}
	var (
		html []byte
		err  error
	)
	if isHTMX(r) {
		// htmx does not swap error responses, so the fragment always goes out as 200.
		html, err = p.renderer.Fragment(r, "contact", "contact_form", pd)
		status = http.StatusOK
	} else {
		html, err = p.renderer.Public(r, "contact", pd)
	}
	if err != nil {
		slog.Error("render contact failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(html)
}

// contactRequest is the JSON body accepted by /api/contact. A single name
// is split at the first space when first and last names are absent.
type contactRequest struct {
	Name      string `json:"name"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Service   string `json:"service"`
	Message   string `json:"message"`
	Honeypot  string `json:"honeypot"`
	Gotcha    string `json:"_gotcha"`
}

func (c contactRequest) submission() contact.Submission {
	first, last := c.FirstName, c.LastName
	if first == "" && last == "" {
		first, last, _ = strings.Cut(strings.TrimSpace(c.Name), " ")
	}
	gotcha := c.Honeypot
	if gotcha == "" {
		gotcha = c.Gotcha
	}
	return contact.Submission{
		FirstName: first,
		LastName:  last,
		Email:     c.Email,
		Phone:     c.Phone,
		Service:   c.Service,
		Message:   c.Message,
		Gotcha:    gotcha,
	}
}

// APIContact is the JSON variant of the contact form.
func (p *Public) APIContact(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxContactBody)
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid JSON body.", http.StatusBadRequest)
		return
	}

	if msg, field, code := p.submit(r, req.submission()); msg != "" {
		writeJSON(w, code, map[string]string{"error": msg, "field": field})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// formFields maps Submission fields to their input names.
var formFields = map[string]string{
	"FirstName": "first_name",
	"LastName":  "last_name",
	"Email":     "email",
	"Phone":     "phone",
	"Service":   "service",
	"Message":   "message",
}

// submit runs the contact service and maps failures to a message, the
// offending field (if any) and an HTTP status.
func (p *Public) submit(r *http.Request, sub contact.Submission) (msg, field string, status int) {
	err := p.contact.Submit(r.Context(), sub)
	if err == nil {
		return "", "", http.StatusOK
	}

	var fe *contact.FieldError
	if errors.As(err, &fe) {
		return fe.Message, formFields[fe.Field], http.StatusUnprocessableEntity
	}

	slog.Error("contact relay failed", "error", err)
	var re *contact.RelayError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message, "", http.StatusBadGateway
	}
	return contact.GenericFailure, "", http.StatusBadGateway
}
