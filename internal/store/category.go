// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"storefront/internal/models"
	"storefront/internal/slug"
)

// CategoryStore manages the hierarchical category catalog. Levels and
// materialized paths are computed on write; sibling slug uniqueness is
// enforced by a database index.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, parent_id, level, path, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.ParentID,
		&c.Level, &c.Path, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateUnder inserts a new category below the given parent (nil for a
// root). The slug is derived from the name; level and path are computed
// from the parent at insert time. Returns ErrInvalidName if the name
// yields an empty slug, ErrParentNotFound if the parent is missing, and
// ErrDuplicateSlug if a sibling already uses the slug.
func (s *CategoryStore) CreateUnder(name string, parentID *uuid.UUID) (*models.Category, error) {
	sl := slug.Generate(name)
	if sl == "" {
		return nil, fmt.Errorf("category name %q: %w", name, ErrInvalidName)
	}

	level := 0
	path := sl
	if parentID != nil {
		parent, err := s.FindByID(*parentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrParentNotFound
		}
		level = parent.Level + 1
		if parent.Path != "" {
			path = parent.Path + "/" + sl
		}
	}

	row := s.db.QueryRow(`
		INSERT INTO categories (name, slug, parent_id, level, path)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+categoryColumns,
		name, sl, parentID, level, path,
	)
	result, err := scanCategory(row)
	if isUniqueViolation(err) {
		return nil, ErrDuplicateSlug
	}
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// List returns all categories ordered by name, with product counts.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.slug, c.parent_id, c.level, c.path,
		       c.created_at, c.updated_at,
		       COUNT(p.id) AS product_count
		FROM categories c
		LEFT JOIN posts p ON p.category_id = c.id
		GROUP BY c.id
		ORDER BY c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.ParentID, &c.Level, &c.Path,
			&c.CreatedAt, &c.UpdatedAt, &c.ProductCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// Tree returns the category forest: roots ordered by name, each node's
// children ordered by name, nested to whatever depth the data has.
func (s *CategoryStore) Tree() ([]models.Category, error) {
	flat, err := s.List()
	if err != nil {
		return nil, err
	}
	return buildTree(flat, nil), nil
}

// buildTree recursively builds a forest from a flat name-ordered list.
func buildTree(flat []models.Category, parentID *uuid.UUID) []models.Category {
	var result []models.Category
	for _, c := range flat {
		if ptrEqual(c.ParentID, parentID) {
			c.Children = buildTree(flat, &c.ID)
			result = append(result, c)
		}
	}
	return result
}

// ptrEqual compares two *uuid.UUID for equality (both nil or same value).
func ptrEqual(a, b *uuid.UUID) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindByPath retrieves a category by its full materialized path.
// Returns nil if not found.
func (s *CategoryStore) FindByPath(path string) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE path = $1`, path)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by path: %w", err)
	}
	return c, nil
}

// FindChildBySlug retrieves the child of parentID (nil for roots) with the
// given slug. Returns nil if no such child exists.
func (s *CategoryStore) FindChildBySlug(parentID *uuid.UUID, sl string) (*models.Category, error) {
	var row *sql.Row
	if parentID == nil {
		row = s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE parent_id IS NULL AND slug = $1`, sl)
	} else {
		row = s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE parent_id = $1 AND slug = $2`, *parentID, sl)
	}
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find child by slug: %w", err)
	}
	return c, nil
}

// Reparent moves a category under a new parent (nil for root) and
// recomputes level and path for the node and every descendant in a single
// transaction. Moving a node under itself or one of its descendants is
// rejected.
func (s *CategoryStore) Reparent(id uuid.UUID, newParentID *uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	node, err := scanCategory(tx.QueryRow(
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1 FOR UPDATE`, id))
	if err == sql.ErrNoRows {
		return fmt.Errorf("reparent: category %s not found", id)
	}
	if err != nil {
		return fmt.Errorf("reparent load node: %w", err)
	}

	newLevel := 0
	newPath := node.Slug
	if newParentID != nil {
		if *newParentID == id {
			return fmt.Errorf("reparent: cannot move category under itself")
		}
		parent, err := scanCategory(tx.QueryRow(
			`SELECT `+categoryColumns+` FROM categories WHERE id = $1 FOR UPDATE`, *newParentID))
		if err == sql.ErrNoRows {
			return ErrParentNotFound
		}
		if err != nil {
			return fmt.Errorf("reparent load parent: %w", err)
		}
		if parent.Path == node.Path || strings.HasPrefix(parent.Path, node.Path+"/") {
			return fmt.Errorf("reparent: cannot move category under its own descendant")
		}
		newLevel = parent.Level + 1
		if parent.Path != "" {
			newPath = parent.Path + "/" + node.Slug
		}
	}

	_, err = tx.Exec(`
		UPDATE categories SET parent_id = $1, level = $2, path = $3, updated_at = now()
		WHERE id = $4
	`, newParentID, newLevel, newPath, id)
	if isUniqueViolation(err) {
		return ErrDuplicateSlug
	}
	if err != nil {
		return fmt.Errorf("reparent update node: %w", err)
	}

	// Rewrite every descendant's path prefix and shift its level by the
	// same delta in one statement.
	_, err = tx.Exec(`
		UPDATE categories
		SET path = $1 || substr(path, $2),
		    level = level + $3,
		    updated_at = now()
		WHERE path LIKE $4
	`, newPath, len(node.Path)+1, newLevel-node.Level, node.Path+"/%")
	if err != nil {
		return fmt.Errorf("reparent update descendants: %w", err)
	}

	return tx.Commit()
}

// SlugAvailable reports whether a slug is free for use by a product.
// Product slugs are globally unique and must also not shadow any category
// slug, since both share the public URL space. excludeID skips one product
// (used when editing).
func (s *CategoryStore) SlugAvailable(sl string, excludeID *uuid.UUID) (bool, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT (SELECT COUNT(*) FROM categories WHERE slug = $1)
		     + (SELECT COUNT(*) FROM posts WHERE slug = $1 AND ($2::uuid IS NULL OR id <> $2))
	`, sl, excludeID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return count == 0, nil
}
