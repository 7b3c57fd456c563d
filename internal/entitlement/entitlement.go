// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package entitlement gates digital-file delivery on completed purchases.
// A buyer is entitled to a product's files only while a completed purchase
// record exists for their email; every link issuance is counted.
package entitlement

import (
	"context"
	"time"

	"github.com/google/uuid"

	"storefront/internal/models"
)

// PurchaseAccess is the subset of the purchase store the checker needs.
type PurchaseAccess interface {
	FindByID(id uuid.UUID) (*models.Purchase, error)
	FindCompleted(postID uuid.UUID, email string) (*models.Purchase, error)
	IncrementDownloads(id uuid.UUID) (*models.Purchase, error)
}

// FileAccess is the subset of the post store the checker needs.
type FileAccess interface {
	Files(postID uuid.UUID) ([]models.PostFile, error)
}

// LinkSigner issues a time-limited download URL for a stored object.
// Implemented by the S3 storage client.
type LinkSigner interface {
	DownloadURL(ctx context.Context, key, fileName string, expires time.Duration) (string, error)
}

// DownloadLink is one issued file link, valid until ExpiresAt.
type DownloadLink struct {
	FileName  string    `json:"file_name"`
	URL       string    `json:"url"`
	FileSize  int64     `json:"file_size"`
	FileType  string    `json:"file_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Checker verifies purchase entitlements and issues download links.
type Checker struct {
	purchases PurchaseAccess
	files     FileAccess
	signer    LinkSigner
	linkTTL   time.Duration
}

// NewChecker returns a Checker. signer may be nil when object storage is
// not configured; issuing links then fails cleanly.
func NewChecker(purchases PurchaseAccess, files FileAccess, signer LinkSigner, linkTTL time.Duration) *Checker {
	return &Checker{
		purchases: purchases,
		files:     files,
		signer:    signer,
		linkTTL:   linkTTL,
	}
}

// Check returns the completed purchase entitling email to the product's
// files, or nil when the buyer is not entitled.
func (c *Checker) Check(postID uuid.UUID, email string) (*models.Purchase, error) {
	return c.purchases.FindCompleted(postID, email)
}

// IssueLinks verifies that the purchase exists, belongs to email, and is
// completed, then issues presigned download links for every file of the
// purchased product. The purchase's download counter is incremented with
// a single atomic update before links are handed out, so concurrent
// requests each count exactly once.
//
// Returns (nil, nil, nil) when the buyer is not entitled — missing
// purchase, wrong email, or a non-completed status all look the same to
// the caller.
func (c *Checker) IssueLinks(ctx context.Context, purchaseID uuid.UUID, email string) ([]DownloadLink, *models.Purchase, error) {
	purchase, err := c.purchases.FindByID(purchaseID)
	if err != nil {
		return nil, nil, err
	}
	if purchase == nil || purchase.UserEmail != email || !purchase.IsCompleted() {
		return nil, nil, nil
	}

	// Count the issuance first; the WHERE status='completed' guard makes
	// this re-verify entitlement atomically.
	purchase, err = c.purchases.IncrementDownloads(purchaseID)
	if err != nil {
		return nil, nil, err
	}
	if purchase == nil {
		return nil, nil, nil
	}

	files, err := c.files.Files(purchase.PostID)
	if err != nil {
		return nil, nil, err
	}

	expiresAt := time.Now().Add(c.linkTTL)
	links := make([]DownloadLink, 0, len(files))
	for _, f := range files {
		link := DownloadLink{
			FileName:  f.FileName,
			FileSize:  f.FileSize,
			FileType:  f.FileType,
			ExpiresAt: expiresAt,
		}
		if c.signer != nil {
			url, err := c.signer.DownloadURL(ctx, f.S3Key, f.FileName, c.linkTTL)
			if err != nil {
				return nil, nil, err
			}
			link.URL = url
		}
		links = append(links, link)
	}

	return links, purchase, nil
}
