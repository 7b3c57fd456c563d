// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors returned by store methods for conditions the HTTP layer
// must distinguish. Uniqueness conflicts come from database constraints,
// never from check-then-act queries.
var (
	// ErrInvalidName is returned when a name yields an empty slug and so
	// cannot form a URL segment.
	ErrInvalidName = errors.New("name yields an empty slug")

	// ErrParentNotFound is returned when a referenced parent category
	// does not exist.
	ErrParentNotFound = errors.New("parent category not found")

	// ErrDuplicateSlug is returned when a slug collides with a sibling
	// category or an existing product.
	ErrDuplicateSlug = errors.New("slug already in use")

	// ErrAlreadyPurchased is returned when a completed purchase already
	// exists for the same product and buyer email.
	ErrAlreadyPurchased = errors.New("product already purchased")
)

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
