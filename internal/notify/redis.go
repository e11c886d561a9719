// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

// DefaultChannel is the Valkey pub/sub channel used for change events.
const DefaultChannel = "scalers:changes"

// RedisBus relays events through Valkey pub/sub so every running instance
// sees changes made on any of them.
type RedisBus struct {
	client  *redis.Client
	channel string
}

// NewRedisBus creates a bus on the given channel (DefaultChannel if empty).
func NewRedisBus(client *redis.Client, channel string) *RedisBus {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisBus{client: client, channel: channel}
}

// Publish sends ev to the channel.
func (b *RedisBus) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("notify marshal: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("notify publish: %w", err)
	}
	return nil
}

// Subscribe opens a pub/sub subscription and decodes messages into events.
// Messages that fail to decode are skipped.
func (b *RedisBus) Subscribe(ctx context.Context) (<-chan Event, func()) {
	ps := b.client.Subscribe(ctx, b.channel)
	out := make(chan Event, subscriberBuffer)

	var once sync.Once
	cancel := func() {
		once.Do(func() { ps.Close() })
	}

	go func() {
		defer close(out)
		defer cancel()
		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					slog.Warn("notify decode failed", "channel", b.channel, "error", err)
					continue
				}
				select {
				case out <- ev:
				default:
					slog.Debug("change event dropped", "channel", b.channel, "table", ev.Table)
				}
			}
		}
	}()

	return out, cancel
}
