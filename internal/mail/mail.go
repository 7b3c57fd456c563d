// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package mail sends transactional email through an HTTP mail provider.
// Delivery is best-effort: callers log failures and never roll back the
// operation that triggered the message.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Mailer sends a single message.
type Mailer interface {
	Send(ctx context.Context, to, subject, text string) error
}

// Message is the JSON payload the provider expects.
type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// HTTPMailer delivers messages through an HTTP JSON API with bearer
// authentication and a bounded request timeout.
type HTTPMailer struct {
	endpoint string
	apiKey   string
	from     string
	client   *http.Client
}

// New creates an HTTPMailer, or a disabled no-op mailer when the endpoint
// is not configured.
func New(endpoint, apiKey, from string) Mailer {
	if endpoint == "" {
		return disabledMailer{}
	}
	return &HTTPMailer{
		endpoint: endpoint,
		apiKey:   apiKey,
		from:     from,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Send posts the message to the provider endpoint.
func (m *HTTPMailer) Send(ctx context.Context, to, subject, text string) error {
	payload, err := json.Marshal(Message{
		From:    m.from,
		To:      to,
		Subject: subject,
		Text:    text,
	})
	if err != nil {
		return fmt.Errorf("mail marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("mail http: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mail provider error (status %d): %s", resp.StatusCode, string(body))
	}
	return nil
}

// disabledMailer silently drops messages when no provider is configured.
type disabledMailer struct{}

func (disabledMailer) Send(context.Context, string, string, string) error { return nil }
