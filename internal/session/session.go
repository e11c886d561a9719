// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session keeps admin logins in Valkey. The browser only holds a
// random ID in an HttpOnly cookie; the payload lives server-side as JSON
// with a sliding TTL.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "sc_session"

	// DefaultTTL is how long an idle session survives.
	DefaultTTL = 12 * time.Hour

	keyPrefix  = "session:"
	userPrefix = "session-user:"

	// idLength is the byte length of the random session ID (32 bytes = 64 hex chars).
	idLength = 32
)

// ErrNoSession is returned by Update when the request carries no cookie.
var ErrNoSession = errors.New("no session cookie")

// Data is the server-side session payload.
type Data struct {
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	TwoFADone   bool      `json:"two_fa_done"`
	Flash       string    `json:"flash,omitempty"`
	FlashType   string    `json:"flash_type,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store manages session lifecycle in Valkey.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	secure bool
}

// NewStore creates a session store. secure marks the cookie Secure, which
// should be on whenever the site is served over TLS.
func NewStore(client *redis.Client, secure bool) *Store {
	return &Store{
		client: client,
		ttl:    DefaultTTL,
		secure: secure,
	}
}

// Create stores a new session for data and sets the cookie. Returns the
// session ID.
func (s *Store) Create(ctx context.Context, w http.ResponseWriter, data *Data) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}

	data.CreatedAt = time.Now().UTC()
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("session marshal: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, keyPrefix+id, payload, s.ttl)
	pipe.SAdd(ctx, userPrefix+data.UserID.String(), id)
	pipe.Expire(ctx, userPrefix+data.UserID.String(), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("session store: %w", err)
	}

	s.setCookie(w, id, int(s.ttl.Seconds()))
	return id, nil
}

// Get returns the session for r, or nil when there is none.
func (s *Store) Get(ctx context.Context, r *http.Request) (*Data, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	payload, err := s.client.Get(ctx, keyPrefix+cookie.Value).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}
	return &data, nil
}

// Update overwrites the payload and resets the TTL. The ID is kept.
func (s *Store) Update(ctx context.Context, r *http.Request, data *Data) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ErrNoSession
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+cookie.Value, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("session update: %w", err)
	}
	return nil
}

// Destroy removes the session and expires the cookie.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil
	}

	if err := s.client.Del(ctx, keyPrefix+cookie.Value).Err(); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}
	s.setCookie(w, "", -1)
	return nil
}

// DestroyUser ends every session belonging to userID, for example after
// the account is deleted or its password reset.
func (s *Store) DestroyUser(ctx context.Context, userID uuid.UUID) error {
	setKey := userPrefix + userID.String()
	ids, err := s.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return fmt.Errorf("session list user: %w", err)
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, keyPrefix+id)
	}
	keys = append(keys, setKey)
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("session destroy user: %w", err)
	}
	return nil
}

// PopFlash returns and clears the one-shot message stored on the session.
func (s *Store) PopFlash(ctx context.Context, r *http.Request, data *Data) string {
	if data == nil || data.Flash == "" {
		return ""
	}
	msg := data.Flash
	data.Flash, data.FlashType = "", ""
	_ = s.Update(ctx, r, data)
	return msg
}

func (s *Store) setCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// generateID creates a cryptographically random session identifier.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
