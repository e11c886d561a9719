// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog holds the portfolio logic shared by the public Clients
// page, the JSON API and the admin panel: filtering and grouping of content
// items, form validation, and the write service that ties the content and
// category stores to object storage and change notifications.
package catalog

import (
	"net/url"
	"sort"
	"strings"

	"scalers/internal/models"
)

// All is the filter value meaning "no constraint".
const All = "all"

// Query is the set of filters applied to the Clients listing. Empty fields
// behave like All.
type Query struct {
	Search   string `json:"search"`
	Kind     string `json:"kind"`
	Category string `json:"category"`
}

// QueryFromValues reads q, kind and category from URL query parameters.
func QueryFromValues(v url.Values) Query {
	return Query{
		Search:   strings.TrimSpace(v.Get("q")),
		Kind:     strings.TrimSpace(v.Get("kind")),
		Category: strings.TrimSpace(v.Get("category")),
	}
}

// Values encodes the query back into URL parameters, omitting defaults.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	if !isAll(q.Kind) {
		v.Set("kind", q.Kind)
	}
	if !isAll(q.Category) {
		v.Set("category", q.Category)
	}
	return v
}

// IsZero reports whether the query filters nothing.
func (q Query) IsZero() bool {
	return q.Search == "" && isAll(q.Kind) && isAll(q.Category)
}

func isAll(s string) bool {
	return s == "" || s == All
}

// Match reports whether item passes every filter. Search is a
// case-insensitive substring test over title, client name and category;
// kind and category must match exactly.
func (q Query) Match(item models.ContentItem) bool {
	if q.Search != "" {
		s := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(item.Title), s) &&
			!strings.Contains(strings.ToLower(item.ClientName), s) &&
			!strings.Contains(strings.ToLower(item.Category), s) {
			return false
		}
	}
	if !isAll(q.Kind) && string(item.Kind) != q.Kind {
		return false
	}
	if !isAll(q.Category) && item.Category != q.Category {
		return false
	}
	return true
}

// Filter returns the items matching q, preserving input order.
func Filter(items []models.ContentItem, q Query) []models.ContentItem {
	out := make([]models.ContentItem, 0, len(items))
	for _, it := range items {
		if q.Match(it) {
			out = append(out, it)
		}
	}
	return out
}

// Partition splits items into featured and the rest. Both groups keep the
// input order and every item lands in exactly one of them.
func Partition(items []models.ContentItem) (featured, rest []models.ContentItem) {
	featured = make([]models.ContentItem, 0)
	rest = make([]models.ContentItem, 0, len(items))
	for _, it := range items {
		if it.IsFeatured {
			featured = append(featured, it)
		} else {
			rest = append(rest, it)
		}
	}
	return featured, rest
}

// Categories returns the distinct non-empty category labels of items in
// first-seen order.
func Categories(items []models.ContentItem) []string {
	seen := make(map[string]bool)
	var out []string
	for _, it := range items {
		if it.Category == "" || seen[it.Category] {
			continue
		}
		seen[it.Category] = true
		out = append(out, it.Category)
	}
	return out
}

// Kinds returns the kinds present in items, in models.Kinds order.
func Kinds(items []models.ContentItem) []models.ContentKind {
	present := make(map[models.ContentKind]bool)
	for _, it := range items {
		present[it.Kind] = true
	}
	var out []models.ContentKind
	for _, k := range models.Kinds {
		if present[k] {
			out = append(out, k)
		}
	}
	return out
}

// SortItems orders items by display order ascending, newest first on ties.
func SortItems(items []models.ContentItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].DisplayOrder != items[j].DisplayOrder {
			return items[i].DisplayOrder < items[j].DisplayOrder
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

// Listing is everything the Clients page needs to render one state of the
// filter bar and grid.
type Listing struct {
	Query      Query                `json:"query"`
	Featured   []models.ContentItem `json:"featured"`
	Others     []models.ContentItem `json:"others"`
	Categories []string             `json:"categories"`
	Kinds      []models.ContentKind `json:"kinds"`
	Total      int                  `json:"total"`
	Matched    int                  `json:"matched"`
}

// Empty reports whether the filters matched nothing.
func (l Listing) Empty() bool {
	return l.Matched == 0
}

// BuildListing filters items and groups the result. Category and kind
// pills come from the unfiltered items so a narrow filter never hides
// its own way back.
func BuildListing(items []models.ContentItem, q Query) Listing {
	matched := Filter(items, q)
	featured, others := Partition(matched)
	return Listing{
		Query:      q,
		Featured:   featured,
		Others:     others,
		Categories: Categories(items),
		Kinds:      Kinds(items),
		Total:      len(items),
		Matched:    len(matched),
	}
}
