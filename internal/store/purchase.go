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

// PurchaseStore handles purchase records. Duplicate completed purchases
// are prevented by a partial unique index on (post_id, user_email), so
// creation is a single insert with no prior existence check.
type PurchaseStore struct {
	db *sql.DB
}

// NewPurchaseStore creates a new PurchaseStore with the given database connection.
func NewPurchaseStore(db *sql.DB) *PurchaseStore {
	return &PurchaseStore{db: db}
}

const purchaseColumns = `id, post_id, user_id, user_email, amount, payment_id,
	status, download_count, created_at`

// scanPurchase scans a row into a Purchase struct.
func scanPurchase(scanner interface{ Scan(...any) error }) (*models.Purchase, error) {
	var p models.Purchase
	err := scanner.Scan(
		&p.ID, &p.PostID, &p.UserID, &p.UserEmail, &p.Amount,
		&p.PaymentID, &p.Status, &p.DownloadCount, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new purchase and returns it. A second completed
// purchase for the same (post, email) pair is rejected by the database
// with ErrAlreadyPurchased — including under concurrent duplicate
// checkout attempts.
func (s *PurchaseStore) Create(p *models.Purchase) (*models.Purchase, error) {
	row := s.db.QueryRow(`
		INSERT INTO purchases (post_id, user_id, user_email, amount, payment_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+purchaseColumns,
		p.PostID, p.UserID, p.UserEmail, p.Amount, p.PaymentID, p.Status,
	)
	result, err := scanPurchase(row)
	if isUniqueViolation(err) {
		return nil, ErrAlreadyPurchased
	}
	if err != nil {
		return nil, fmt.Errorf("create purchase: %w", err)
	}
	return result, nil
}

// FindByID retrieves a purchase by ID. Returns nil if not found.
func (s *PurchaseStore) FindByID(id uuid.UUID) (*models.Purchase, error) {
	row := s.db.QueryRow(`SELECT `+purchaseColumns+` FROM purchases WHERE id = $1`, id)
	p, err := scanPurchase(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find purchase by id: %w", err)
	}
	return p, nil
}

// FindCompleted retrieves the completed purchase for a product and buyer
// email. Returns nil if the buyer holds no completed purchase.
func (s *PurchaseStore) FindCompleted(postID uuid.UUID, email string) (*models.Purchase, error) {
	row := s.db.QueryRow(`
		SELECT `+purchaseColumns+` FROM purchases
		WHERE post_id = $1 AND user_email = $2 AND status = 'completed'
	`, postID, email)
	p, err := scanPurchase(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find completed purchase: %w", err)
	}
	return p, nil
}

// IncrementDownloads bumps a completed purchase's download counter by one
// in a single atomic update and returns the fresh row. Concurrent calls
// each count; none is lost. Returns nil if the purchase is missing or not
// completed.
func (s *PurchaseStore) IncrementDownloads(id uuid.UUID) (*models.Purchase, error) {
	row := s.db.QueryRow(`
		UPDATE purchases
		SET download_count = download_count + 1
		WHERE id = $1 AND status = 'completed'
		RETURNING `+purchaseColumns, id)
	p, err := scanPurchase(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("increment downloads: %w", err)
	}
	return p, nil
}

// ListByEmail returns all purchases for a buyer email, newest first, with
// the purchased product and its category attached.
func (s *PurchaseStore) ListByEmail(email string) ([]models.Purchase, error) {
	return s.list(`WHERE pu.user_email = $1`, email)
}

// ListByPost returns all purchases of a product, newest first.
func (s *PurchaseStore) ListByPost(postID uuid.UUID) ([]models.Purchase, error) {
	return s.list(`WHERE pu.post_id = $1`, postID)
}

// ListByUser returns all purchases tied to a user account, newest first.
func (s *PurchaseStore) ListByUser(userID uuid.UUID) ([]models.Purchase, error) {
	return s.list(`WHERE pu.user_id = $1`, userID)
}

// list runs the shared purchase listing query with the given WHERE clause,
// joining the product and its category for nested responses.
func (s *PurchaseStore) list(where string, arg any) ([]models.Purchase, error) {
	rows, err := s.db.Query(`
		SELECT pu.id, pu.post_id, pu.user_id, pu.user_email, pu.amount,
		       pu.payment_id, pu.status, pu.download_count, pu.created_at,
		       po.id, po.title, po.slug, po.category_id, po.subcategory_id,
		       po.is_digital, po.price, po.compare_at_price, po.created_at, po.updated_at,
		       c.id, c.name, c.slug, c.parent_id, c.level, c.path, c.created_at, c.updated_at
		FROM purchases pu
		JOIN posts po ON po.id = pu.post_id
		JOIN categories c ON c.id = po.category_id
		`+where+`
		ORDER BY pu.created_at DESC
	`, arg)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	var items []models.Purchase
	for rows.Next() {
		var pu models.Purchase
		var po models.Post
		var c models.Category
		var compareAt decimal.NullDecimal
		err := rows.Scan(
			&pu.ID, &pu.PostID, &pu.UserID, &pu.UserEmail, &pu.Amount,
			&pu.PaymentID, &pu.Status, &pu.DownloadCount, &pu.CreatedAt,
			&po.ID, &po.Title, &po.Slug, &po.CategoryID, &po.SubcategoryID,
			&po.IsDigital, &po.Price, &compareAt, &po.CreatedAt, &po.UpdatedAt,
			&c.ID, &c.Name, &c.Slug, &c.ParentID, &c.Level, &c.Path,
			&c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		if compareAt.Valid {
			po.CompareAtPrice = &compareAt.Decimal
		}
		po.Category = &c
		pu.Post = &po
		items = append(items, pu)
	}
	return items, rows.Err()
}
