// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"scalers/internal/models"
)

// Validation and lookup errors.
var (
	ErrTitleRequired     = errors.New("title is required")
	ErrTitleTooLong      = errors.New("title is too long")
	ErrUnknownKind       = errors.New("unknown content kind")
	ErrMediaRequired     = errors.New("media file or URL is required")
	ErrTextRequired      = errors.New("text body is required")
	ErrTextTooLong       = errors.New("text body is too long")
	ErrBadDisplayOrder   = errors.New("display order is not an integer")
	ErrCategoryNameEmpty = errors.New("category name is empty")
	ErrDuplicateCategory = errors.New("category already exists")
	ErrNotFound          = errors.New("not found")
	ErrUploadMismatch    = errors.New("upload does not match content kind")
	ErrStorageDisabled   = errors.New("object storage is not configured")
)

// messages holds the inline text shown for each error.
var messages = map[error]string{
	ErrTitleRequired:     "Title is required.",
	ErrTitleTooLong:      "Title is too long (max 300 characters).",
	ErrUnknownKind:       "Please choose a content type.",
	ErrMediaRequired:     "Please upload a file or enter a media URL.",
	ErrTextRequired:      "Text content is required for text type.",
	ErrTextTooLong:       "Text content is too long (max 100,000 characters).",
	ErrBadDisplayOrder:   "Display order must be a whole number.",
	ErrCategoryNameEmpty: "Category name cannot be empty.",
	ErrDuplicateCategory: "This category already exists.",
	ErrNotFound:          "Item not found.",
	ErrUploadMismatch:    "The uploaded file does not match the selected content type.",
	ErrStorageDisabled:   "File uploads are not configured. Enter a URL instead.",
}

const (
	maxTitleLen = 300
	maxTextLen  = 100_000
)

// ItemForm is the raw admin form for a content item.
type ItemForm struct {
	Title         string
	Description   string
	Kind          string
	ContentURL    string
	ContentText   string
	ClientName    string
	ClientLogoURL string
	Category      string
	IsFeatured    bool
	DisplayOrder  string
}

// FormFromItem pre-fills the edit form.
func FormFromItem(c *models.ContentItem) ItemForm {
	return ItemForm{
		Title:         c.Title,
		Description:   c.Description,
		Kind:          string(c.Kind),
		ContentURL:    c.ContentURL,
		ContentText:   c.ContentText,
		ClientName:    c.ClientName,
		ClientLogoURL: c.ClientLogoURL,
		Category:      c.Category,
		IsFeatured:    c.IsFeatured,
		DisplayOrder:  strconv.Itoa(c.DisplayOrder),
	}
}

// Validate checks the form and returns the first problem. hasUpload says
// whether a file accompanies the form; it satisfies the media requirement
// in place of a URL. Validation never touches the network.
func (f ItemForm) Validate(hasUpload bool) error {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return ErrTitleTooLong
	}

	kind, err := models.ParseContentKind(f.Kind)
	if err != nil {
		return ErrUnknownKind
	}

	switch {
	case kind.NeedsMedia():
		if !hasUpload && strings.TrimSpace(f.ContentURL) == "" {
			return mediaRequired(kind)
		}
	case kind.IsText():
		if strings.TrimSpace(f.ContentText) == "" {
			return ErrTextRequired
		}
	}
	if utf8.RuneCountInString(f.ContentText) > maxTextLen {
		return ErrTextTooLong
	}

	if _, err := f.displayOrder(); err != nil {
		return ErrBadDisplayOrder
	}
	return nil
}

// mediaError names the expected medium while still matching
// ErrMediaRequired under errors.Is.
type mediaError struct{ noun string }

func mediaRequired(kind models.ContentKind) error {
	if kind.IsVideoLike() {
		return &mediaError{noun: "a video"}
	}
	return &mediaError{noun: "an image"}
}

func (e *mediaError) Error() string { return e.noun + " file or URL is required" }

func (e *mediaError) Is(target error) bool { return target == ErrMediaRequired }

func (f ItemForm) displayOrder() (int, error) {
	s := strings.TrimSpace(f.DisplayOrder)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// Item converts a validated form into a record. Fields that do not apply
// to the kind are cleared.
func (f ItemForm) Item() models.ContentItem {
	kind, _ := models.ParseContentKind(f.Kind)
	order, _ := f.displayOrder()
	item := models.ContentItem{
		Title:         strings.TrimSpace(f.Title),
		Description:   strings.TrimSpace(f.Description),
		Kind:          kind,
		ContentURL:    strings.TrimSpace(f.ContentURL),
		ContentText:   f.ContentText,
		ClientName:    strings.TrimSpace(f.ClientName),
		ClientLogoURL: strings.TrimSpace(f.ClientLogoURL),
		Category:      strings.TrimSpace(f.Category),
		IsFeatured:    f.IsFeatured,
		DisplayOrder:  order,
	}
	if kind.IsText() {
		item.ContentURL = ""
	} else {
		item.ContentText = ""
	}
	return item
}

// Message returns the inline text for a validation error, or "" when err
// is not one of ours.
func Message(err error) string {
	var me *mediaError
	if errors.As(err, &me) {
		return "Please upload a file or enter " + me.noun + " URL."
	}
	for sentinel, msg := range messages {
		if errors.Is(err, sentinel) {
			return msg
		}
	}
	return ""
}
