// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// compareAtMarkup is applied to the price when no compare-at price is stored.
// The derived value is display-only and never persisted.
var compareAtMarkup = decimal.NewFromFloat(1.5)

// Post represents a product listing. Every post belongs to exactly one
// category; SubcategoryID optionally points at a deeper node used for
// URL construction.
type Post struct {
	ID             uuid.UUID        `json:"id"`
	Title          string           `json:"title"`
	Slug           string           `json:"slug"`
	CategoryID     uuid.UUID        `json:"category_id"`
	SubcategoryID  *uuid.UUID       `json:"subcategory_id,omitempty"`
	IsDigital      bool             `json:"is_digital"`
	Price          decimal.Decimal  `json:"price"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`

	// Virtual fields populated by store methods.
	Category *Category  `json:"category,omitempty"`
	Files    []PostFile `json:"files,omitempty"`
}

// DisplayCompareAt returns the compare-at price shown next to the sale
// price. When none is stored it is derived from the price at read time.
func (p *Post) DisplayCompareAt() decimal.Decimal {
	if p.CompareAtPrice != nil {
		return *p.CompareAtPrice
	}
	return p.Price.Mul(compareAtMarkup)
}

// PostFile is one downloadable file attached to a digital product.
// Files keep their insertion order via SortOrder.
type PostFile struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"post_id"`
	FileName  string    `json:"file_name"`
	S3Key     string    `json:"-"`
	FileSize  int64     `json:"file_size"`
	FileType  string    `json:"file_type"`
	PublicID  string    `json:"public_id"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}
