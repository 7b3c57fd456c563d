// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

// PostStore handles product listings and their attached digital files.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postColumns = `id, title, slug, category_id, subcategory_id, is_digital,
	price, compare_at_price, created_at, updated_at`

// scanPost scans a row into a Post struct.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	var compareAt decimal.NullDecimal
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.CategoryID, &p.SubcategoryID,
		&p.IsDigital, &p.Price, &compareAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if compareAt.Valid {
		p.CompareAtPrice = &compareAt.Decimal
	}
	return &p, nil
}

// FindByID retrieves a product by ID with its category attached.
// Returns nil if not found.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}

	cat, err := scanCategory(s.db.QueryRow(
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, p.CategoryID))
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("find post category: %w", err)
	}
	p.Category = cat
	return p, nil
}

// FindBySlug retrieves a product by its globally unique slug.
// Returns nil if not found.
func (s *PostStore) FindBySlug(sl string) (*models.Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE slug = $1`, sl)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// ListByCategory returns all products directly assigned to a category,
// newest first.
func (s *PostStore) ListByCategory(categoryID uuid.UUID) ([]models.Post, error) {
	rows, err := s.db.Query(`
		SELECT `+postColumns+` FROM posts
		WHERE category_id = $1 OR subcategory_id = $1
		ORDER BY created_at DESC
	`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list posts by category: %w", err)
	}
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// Create inserts a new product and returns it with the generated ID.
// The slug must be globally unique and distinct from every category slug;
// a collision surfaces as ErrDuplicateSlug via the posts_slug_key index.
func (s *PostStore) Create(p *models.Post) (*models.Post, error) {
	var compareAt decimal.NullDecimal
	if p.CompareAtPrice != nil {
		compareAt = decimal.NullDecimal{Decimal: *p.CompareAtPrice, Valid: true}
	}

	row := s.db.QueryRow(`
		INSERT INTO posts (title, slug, category_id, subcategory_id, is_digital, price, compare_at_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+postColumns,
		p.Title, p.Slug, p.CategoryID, p.SubcategoryID, p.IsDigital, p.Price, compareAt,
	)
	result, err := scanPost(row)
	if isUniqueViolation(err) {
		return nil, ErrDuplicateSlug
	}
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return result, nil
}

// AddFile attaches a digital file to a product, appended after existing files.
func (s *PostStore) AddFile(f *models.PostFile) (*models.PostFile, error) {
	result := &models.PostFile{}
	err := s.db.QueryRow(`
		INSERT INTO post_files (post_id, file_name, s3_key, file_size, file_type, public_id, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6,
		        (SELECT COALESCE(MAX(sort_order) + 1, 0) FROM post_files WHERE post_id = $1))
		RETURNING id, post_id, file_name, s3_key, file_size, file_type, public_id, sort_order, created_at
	`, f.PostID, f.FileName, f.S3Key, f.FileSize, f.FileType, f.PublicID).Scan(
		&result.ID, &result.PostID, &result.FileName, &result.S3Key,
		&result.FileSize, &result.FileType, &result.PublicID,
		&result.SortOrder, &result.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("add post file: %w", err)
	}
	return result, nil
}

// Files returns a product's digital files in their stored order.
func (s *PostStore) Files(postID uuid.UUID) ([]models.PostFile, error) {
	rows, err := s.db.Query(`
		SELECT id, post_id, file_name, s3_key, file_size, file_type, public_id, sort_order, created_at
		FROM post_files
		WHERE post_id = $1
		ORDER BY sort_order
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("list post files: %w", err)
	}
	defer rows.Close()

	var files []models.PostFile
	for rows.Next() {
		var f models.PostFile
		if err := rows.Scan(
			&f.ID, &f.PostID, &f.FileName, &f.S3Key,
			&f.FileSize, &f.FileType, &f.PublicID, &f.SortOrder, &f.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan post file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}
