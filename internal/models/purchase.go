// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseStatus represents the payment state of a purchase.
type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "pending"
	PurchaseStatusCompleted PurchaseStatus = "completed"
	PurchaseStatusFailed    PurchaseStatus = "failed"
)

// Purchase records a payment for a single product. At most one completed
// purchase may exist per (post, buyer email) pair — enforced by a partial
// unique index, not by application checks. DownloadCount is incremented
// each time download links are issued.
type Purchase struct {
	ID            uuid.UUID       `json:"id"`
	PostID        uuid.UUID       `json:"post_id"`
	UserID        *uuid.UUID      `json:"user_id,omitempty"`
	UserEmail     string          `json:"user_email"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentID     string          `json:"payment_id"`
	Status        PurchaseStatus  `json:"status"`
	DownloadCount int             `json:"download_count"`
	CreatedAt     time.Time       `json:"created_at"`

	// Virtual field populated by store methods.
	Post *Post `json:"post,omitempty"`
}

// IsCompleted returns true if the purchase has a confirmed payment.
func (p *Purchase) IsCompleted() bool {
	return p.Status == PurchaseStatusCompleted
}
