// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package paths resolves hierarchical category URL paths and decides
// canonical-URL redirects for product pages. URLs have an unknown number
// of segments, so resolution works uniformly for "category" and
// "category/sub/subsub" alike.
package paths

import (
	"strings"

	"github.com/google/uuid"

	"storefront/internal/models"
)

// CategoryLookup is the subset of the category store the resolver needs.
type CategoryLookup interface {
	FindByPath(path string) (*models.Category, error)
	FindChildBySlug(parentID *uuid.UUID, slug string) (*models.Category, error)
}

// Resolver maps URL path segments to category nodes.
type Resolver struct {
	categories CategoryLookup
}

// NewResolver returns a Resolver backed by the given category lookup.
func NewResolver(categories CategoryLookup) *Resolver {
	return &Resolver{categories: categories}
}

// Resolve maps a sequence of path segments to a category node, or nil when
// no category matches. Empty segments are ignored. The materialized path
// column makes the common case a single lookup; when that misses (e.g.
// a stale path after a move), the child chain is walked from the roots so
// both strategies resolve to the same entity.
func (r *Resolver) Resolve(segments []string) (*models.Category, error) {
	segments = CleanSegments(segments)
	if len(segments) == 0 {
		return nil, nil
	}

	// Fast path: direct materialized-path lookup.
	c, err := r.categories.FindByPath(strings.Join(segments, "/"))
	if err != nil {
		return nil, err
	}
	if c != nil {
		return c, nil
	}

	// Slow path: walk the child chain segment by segment.
	var parentID *uuid.UUID
	var current *models.Category
	for _, seg := range segments {
		current, err = r.categories.FindChildBySlug(parentID, seg)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, nil
		}
		parentID = &current.ID
	}
	return current, nil
}

// CleanSegments returns segments with empty entries removed.
func CleanSegments(segments []string) []string {
	var out []string
	for _, s := range segments {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Split breaks a slash-separated path into clean segments.
func Split(path string) []string {
	return CleanSegments(strings.Split(path, "/"))
}
