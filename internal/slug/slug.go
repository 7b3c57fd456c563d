// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings.
package slug

import (
	"regexp"
	"strings"
)

// nonSlugRun matches a maximal run of characters that cannot appear in a slug.
var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// Generate creates a URL-friendly slug from the given string.
// Example: "Office Chairs & Desks" → "office-chairs-desks"
//
// Empty or all-symbol input yields an empty string; callers must treat an
// empty slug as invalid.
func Generate(s string) string {
	result := strings.ToLower(s)
	result = nonSlugRun.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}
