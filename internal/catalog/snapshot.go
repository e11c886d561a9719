// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"
	"sync"
	"time"

	"scalers/internal/models"
	"scalers/internal/notify"
)

// Snapshot keeps the last fetched item list in memory for the public
// pages. It refetches when older than maxAge or after Invalidate. Wiring
// it to a change stream with Watch only shortens staleness; without one,
// maxAge alone bounds it.
type Snapshot struct {
	items  ItemRepository
	maxAge time.Duration
	now    func() time.Time

	mu      sync.Mutex
	cached  []models.ContentItem
	fetched time.Time
	stale   bool
}

// NewSnapshot creates an empty snapshot over items.
func NewSnapshot(items ItemRepository, maxAge time.Duration) *Snapshot {
	return &Snapshot{items: items, maxAge: maxAge, now: time.Now, stale: true}
}

// Items returns the cached list, refetching when stale. The returned
// slice must not be modified.
func (s *Snapshot) Items(ctx context.Context) ([]models.ContentItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.stale && s.now().Sub(s.fetched) < s.maxAge {
		return s.cached, nil
	}

	items, err := s.items.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cached = items
	s.fetched = s.now()
	s.stale = false
	return s.cached, nil
}

// Listing filters the cached list.
func (s *Snapshot) Listing(ctx context.Context, q Query) (Listing, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return Listing{}, err
	}
	return BuildListing(items, q), nil
}

// Invalidate forces the next Items call to refetch.
func (s *Snapshot) Invalidate() {
	s.mu.Lock()
	s.stale = true
	s.mu.Unlock()
}

// Watch invalidates the snapshot on every content change until ctx ends.
// after, when set, runs for every event once the snapshot is marked
// stale, so caches built from the snapshot are cleared in order.
func (s *Snapshot) Watch(ctx context.Context, sub notify.Subscriber, after func(notify.Event)) {
	notify.Listen(ctx, sub, func(ev notify.Event) {
		if ev.Table == models.TableContent {
			s.Invalidate()
		}
		if after != nil {
			after(ev)
		}
	})
}
