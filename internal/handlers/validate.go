// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"scalers/internal/catalog"
	"scalers/internal/contact"
)

// maxCategoryNameLen caps category names typed into the dashboard.
const maxCategoryNameLen = 100

// parseForm reads a urlencoded or multipart body. Multipart bodies are
// capped at maxUploadSize.
func parseForm(w http.ResponseWriter, r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1<<20)
		return r.ParseMultipartForm(maxUploadSize)
	}
	return r.ParseForm()
}

// itemFormFromRequest copies the content item fields out of a parsed form.
func itemFormFromRequest(r *http.Request) catalog.ItemForm {
	return catalog.ItemForm{
		Title:         r.FormValue("title"),
		Description:   r.FormValue("description"),
		Kind:          r.FormValue("content_type"),
		ContentURL:    strings.TrimSpace(r.FormValue("content_url")),
		ContentText:   r.FormValue("content_text"),
		ClientName:    r.FormValue("client_name"),
		ClientLogoURL: strings.TrimSpace(r.FormValue("client_logo_url")),
		Category:      r.FormValue("category"),
		IsFeatured:    r.FormValue("is_featured") == "true",
		DisplayOrder:  r.FormValue("display_order"),
	}
}

// submissionFromForm copies the contact form fields out of a parsed form.
func submissionFromForm(r *http.Request) contact.Submission {
	return contact.Submission{
		FirstName: r.FormValue("first_name"),
		LastName:  r.FormValue("last_name"),
		Email:     r.FormValue("email"),
		Phone:     r.FormValue("phone"),
		Service:   r.FormValue("service"),
		Message:   r.FormValue("message"),
		Gotcha:    r.FormValue("_gotcha"),
	}
}

// validateCategoryName checks what the catalog does not: the length.
func validateCategoryName(name string) string {
	if utf8.RuneCountInString(strings.TrimSpace(name)) > maxCategoryNameLen {
		return "Category name is too long (max 100 characters)."
	}
	return ""
}
