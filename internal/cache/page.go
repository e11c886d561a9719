// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// page.go stores fully rendered public pages in Valkey. A hit skips the
// content query and template execution; any content or category change
// clears the lot.
package cache

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// pageKeyPrefix is the Valkey key prefix for cached pages.
	pageKeyPrefix = "page:"

	// DefaultPageTTL is how long a rendered page stays cached.
	DefaultPageTTL = 5 * time.Minute
)

// PageCache manages full-page HTML caching in Valkey.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache creates a new page cache backed by the given Valkey client.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl == 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

// Get returns cached HTML for key.
func (pc *PageCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := pc.client.Get(ctx, pageKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("page cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("page cache hit", "key", key)
	return val, true
}

// Set stores rendered HTML for key with the configured TTL.
func (pc *PageCache) Set(ctx context.Context, key string, html []byte) {
	if err := pc.client.Set(ctx, pageKeyPrefix+key, html, pc.ttl).Err(); err != nil {
		slog.Warn("page cache set error", "key", key, "error", err)
	}
}

// Invalidate removes a single page.
func (pc *PageCache) Invalidate(ctx context.Context, key string) {
	if err := pc.client.Del(ctx, pageKeyPrefix+key).Err(); err != nil {
		slog.Warn("page cache invalidate error", "key", key, "error", err)
	}
}

// InvalidatePrefix removes every page whose key starts with prefix, for
// example "/clients" together with all of its filter variants.
func (pc *PageCache) InvalidatePrefix(ctx context.Context, prefix string) int {
	var cursor uint64
	var deleted int
	for {
		keys, next, err := pc.client.Scan(ctx, cursor, pageKeyPrefix+prefix+"*", 100).Result()
		if err != nil {
			slog.Warn("page cache scan error", "prefix", prefix, "error", err)
			return deleted
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("page cache bulk delete error", "error", err)
			} else {
				deleted += len(keys)
			}
		}
		cursor = next
		if cursor == 0 {
			return deleted
		}
	}
}

// InvalidateAll removes every cached page.
func (pc *PageCache) InvalidateAll(ctx context.Context) {
	if n := pc.InvalidatePrefix(ctx, ""); n > 0 {
		slog.Info("page cache cleared", "deleted", n)
	}
}

// PageKey builds the cache key for a page: the path plus the query
// parameters that shape it, sorted, so ?kind=reels&q=x and ?q=x&kind=reels
// share an entry. Callers pass only the parameters the page reads; empty
// values are dropped.
func PageKey(path string, query url.Values) string {
	if path == "" {
		path = "/"
	}
	q := url.Values{}
	for k, vs := range query {
		if len(vs) > 0 && strings.TrimSpace(vs[0]) != "" {
			q[k] = vs
		}
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
