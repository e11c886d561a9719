// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContentKind is the media tag of a portfolio item. The set is closed.
type ContentKind string

const (
	KindCreatives ContentKind = "creatives"
	KindVideos    ContentKind = "videos"
	KindReels     ContentKind = "reels"

	// Legacy kinds still present in older rows.
	KindImage ContentKind = "image"
	KindVideo ContentKind = "video"
	KindText  ContentKind = "text"
)

// Kinds lists every accepted kind in the order the admin form offers them.
var Kinds = []ContentKind{
	KindCreatives, KindVideos, KindReels, KindImage, KindVideo, KindText,
}

// ParseContentKind normalises s and rejects anything outside Kinds.
func ParseContentKind(s string) (ContentKind, error) {
	k := ContentKind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown content kind %q", s)
}

// IsImageLike reports whether items of this kind carry a still image.
func (k ContentKind) IsImageLike() bool {
	return k == KindCreatives || k == KindImage
}

// IsVideoLike reports whether items of this kind carry a video.
func (k ContentKind) IsVideoLike() bool {
	return k == KindVideos || k == KindReels || k == KindVideo
}

// IsText reports whether items of this kind carry an inline text body.
func (k ContentKind) IsText() bool {
	return k == KindText
}

// NeedsMedia reports whether a media URL (or upload) is mandatory.
func (k ContentKind) NeedsMedia() bool {
	return k.IsImageLike() || k.IsVideoLike()
}

// Label is the human name shown on filter pills and badges.
func (k ContentKind) Label() string {
	switch k {
	case KindCreatives:
		return "Creatives"
	case KindVideos:
		return "Videos"
	case KindReels:
		return "Reels"
	case KindImage:
		return "Image"
	case KindVideo:
		return "Video"
	case KindText:
		return "Text"
	}
	return string(k)
}

// ContentItem is a single portfolio record shown on the Clients page.
// Category is a free-text label matched by name against the categories
// table; there is no foreign key.
type ContentItem struct {
	ID            uuid.UUID   `json:"id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Kind          ContentKind `json:"content_type"`
	ContentURL    string      `json:"content_url"`
	ContentText   string      `json:"content_text"`
	ClientName    string      `json:"client_name"`
	ClientLogoURL string      `json:"client_logo_url"`
	Category      string      `json:"category"`
	IsFeatured    bool        `json:"is_featured"`
	DisplayOrder  int         `json:"display_order"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// HasMedia reports whether the item points at a media asset.
func (c ContentItem) HasMedia() bool {
	return strings.TrimSpace(c.ContentURL) != ""
}
