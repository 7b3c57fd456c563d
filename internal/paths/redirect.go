// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package paths

import (
	"strings"

	"storefront/internal/models"
)

// DecisionKind classifies the outcome of a canonical-URL comparison.
type DecisionKind int

const (
	// Serve means the requested path already is the canonical one.
	Serve DecisionKind = iota

	// RedirectPermanent means the client should be 301-redirected to the
	// canonical product URL, preserving link equity for SEO.
	RedirectPermanent

	// RedirectFound means no category path could be determined and the
	// client should be 302-redirected to the generic product route.
	RedirectFound
)

// Decision is the result of DecideRedirect. Location is set for both
// redirect kinds.
type Decision struct {
	Kind     DecisionKind
	Location string
}

// DecideRedirect compares the requested URL segments against the canonical
// path of the product's category and decides whether to serve in place,
// redirect permanently to the canonical URL, or fall back to the generic
// product route. The last requested segment is the product identifier and
// is excluded from the comparison. A nil category means no canonical path
// exists.
//
// Every entry route — flat slug, deep category path, legacy path —
// converges on a single canonical URL per product through this comparison.
func DecideRedirect(category *models.Category, requested []string, productID string) Decision {
	var expected []string
	if category != nil {
		expected = Split(category.CanonicalPath())
	}

	current := CleanSegments(requested)
	if len(current) > 0 {
		current = current[:len(current)-1]
	}

	if len(expected) > 0 && !segmentsEqual(expected, current) {
		return Decision{
			Kind:     RedirectPermanent,
			Location: "/" + strings.Join(expected, "/") + "/" + productID,
		}
	}

	if len(expected) == 0 {
		return Decision{
			Kind:     RedirectFound,
			Location: "/product/" + productID,
		}
	}

	return Decision{Kind: Serve}
}

// segmentsEqual reports whether two segment sequences match positionally.
func segmentsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
