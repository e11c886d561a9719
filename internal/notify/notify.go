// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package notify carries table change events from the admin write path to
// whoever wants to refresh: the public page cache, the in-memory catalog
// snapshot and connected browsers. Delivery is best-effort and
// at-most-once. A slow subscriber loses events instead of blocking the
// publisher, and nothing is replayed.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event describes one row change.
type Event struct {
	Table  string    `json:"table"`
	Action string    `json:"action"`
	ID     uuid.UUID `json:"id"`
	At     time.Time `json:"at"`
}

// Publisher emits change events.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Subscriber hands out event streams. The returned channel is closed once
// cancel is called or ctx ends.
type Subscriber interface {
	Subscribe(ctx context.Context) (events <-chan Event, cancel func())
}

// Bus is both ends of a change stream.
type Bus interface {
	Publisher
	Subscriber
}

// subscriberBuffer is the per-subscriber queue length before drops start.
const subscriberBuffer = 32

// Listen calls fn for every event until ctx ends or the stream closes.
func Listen(ctx context.Context, sub Subscriber, fn func(Event)) {
	events, cancel := sub.Subscribe(ctx)
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			fn(ev)
		}
	}
}
