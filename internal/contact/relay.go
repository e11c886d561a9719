// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultEndpoint is the hosted form the agency's inbox is wired to.
	DefaultEndpoint = "https://formspree.io/f/xkovpjlj"

	// Subject is the mail subject the relay puts on every enquiry.
	Subject = "New contact from website"

	// GenericFailure is shown when the relay gives no usable reason.
	GenericFailure = "Failed to send message"
)

// RelayError is a non-2xx answer from the relay. Message is safe to show
// to the visitor.
type RelayError struct {
	Status  int
	Message string
}

func (e *RelayError) Error() string {
	return fmt.Sprintf("form relay: status %d: %s", e.Status, e.Message)
}

// Relay posts submissions as JSON to a Formspree-compatible endpoint.
type Relay struct {
	endpoint string
	client   *http.Client
}

// NewRelay creates a relay for endpoint with the given request timeout.
func NewRelay(endpoint string, timeout time.Duration) *Relay {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Relay{endpoint: endpoint, client: &http.Client{Timeout: timeout}}
}

type relayPayload struct {
	Name      string `json:"name"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	ReplyTo   string `json:"_replyto"`
	Phone     string `json:"phone"`
	Service   string `json:"service"`
	Message   string `json:"message"`
	Subject   string `json:"_subject"`
}

type relayResponse struct {
	Error  string `json:"error"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Send posts s. Any 2xx status is success; the body is not required to
// parse.
func (r *Relay) Send(ctx context.Context, s Submission) error {
	body, err := json.Marshal(relayPayload{
		Name:      s.Name(),
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.Email,
		ReplyTo:   s.Email,
		Phone:     s.Phone,
		Service:   s.Service,
		Message:   s.Message,
		Subject:   Subject,
	})
	if err != nil {
		return fmt.Errorf("encode contact payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build relay request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("form relay: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return &RelayError{Status: resp.StatusCode, Message: failureMessage(raw)}
}

// failureMessage prefers the relay's "error" field, then its joined
// "errors[].message" list, then GenericFailure.
func failureMessage(raw []byte) string {
	var rr relayResponse
	if err := json.Unmarshal(raw, &rr); err != nil {
		return GenericFailure
	}
	if rr.Error != "" {
		return rr.Error
	}
	msgs := make([]string, 0, len(rr.Errors))
	for _, e := range rr.Errors {
		if e.Message != "" {
			msgs = append(msgs, e.Message)
		}
	}
	if len(msgs) > 0 {
		return strings.Join(msgs, ", ")
	}
	return GenericFailure
}
