// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package payment looks up payment status at the gateway before a
// purchase is recorded. The gateway's checkout protocol itself lives
// entirely client-side; this client only verifies that a payment ID the
// client claims to hold actually completed.
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Status values reported by the gateway.
const (
	StatusCompleted = "completed"
	StatusPending   = "pending"
	StatusFailed    = "failed"
)

// Verifier reports the status of a payment. Lookups are idempotent reads;
// they are never retried here to keep latency bounded — the caller
// decides how to handle an unreachable gateway.
type Verifier interface {
	PaymentStatus(ctx context.Context, paymentID string) (string, error)
}

// Client queries a payment gateway's HTTP API with bearer authentication
// and a bounded request timeout.
type Client struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// New creates a gateway client, or nil when no gateway is configured —
// a nil Verifier means payment IDs are recorded without verification.
func New(endpoint, apiKey string) *Client {
	if endpoint == "" {
		return nil
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// PaymentStatus fetches the payment record and returns its status field.
func (c *Client) PaymentStatus(ctx context.Context, paymentID string) (string, error) {
	url := c.endpoint + "/payments/" + paymentID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("payment request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("payment http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("payment read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("payment gateway error (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("payment unmarshal: %w", err)
	}
	if result.Status == "" {
		return "", fmt.Errorf("payment gateway returned no status")
	}
	return result.Status, nil
}
