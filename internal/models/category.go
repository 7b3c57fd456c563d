// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category represents a node in the hierarchical product catalog.
// Level is the number of ancestors (root = 0). Path is the materialized
// chain of slugs from root to this node joined by "/", with no leading
// or trailing separator — it is recomputed whenever the node is moved.
type Category struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	ParentID  *uuid.UUID `json:"parent_id"`
	Level     int        `json:"level"`
	Path      string     `json:"path"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Virtual fields populated by store methods.
	Children     []Category `json:"children,omitempty"`
	ProductCount int        `json:"product_count"`
}

// CanonicalPath returns the authoritative URL path for the category:
// the materialized path when present, otherwise the bare slug.
func (c *Category) CanonicalPath() string {
	if c.Path != "" {
		return c.Path
	}
	return c.Slug
}
