package store

import (
	"database/sql"
	"fmt"

	"storefront/internal/models"
)

// VisitorStore records unique storefront visitors, deduplicated by IP.
type VisitorStore struct {
	db *sql.DB
}

// NewVisitorStore returns a new VisitorStore.
func NewVisitorStore(db *sql.DB) *VisitorStore {
	return &VisitorStore{db: db}
}

// Record stores a visitor, keeping the first visit when the IP was seen
// before. The upsert makes concurrent first visits harmless.
func (s *VisitorStore) Record(ip, location string) error {
	_, err := s.db.Exec(`
		INSERT INTO visitors (ip_address, location)
		VALUES ($1, $2)
		ON CONFLICT (ip_address) DO NOTHING
	`, ip, location)
	if err != nil {
		return fmt.Errorf("record visitor: %w", err)
	}
	return nil
}

// Count returns the number of unique visitors seen so far.
func (s *VisitorStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM visitors`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count visitors: %w", err)
	}
	return count, nil
}

// List returns all visitors ordered by most recent first.
func (s *VisitorStore) List() ([]models.Visitor, error) {
	rows, err := s.db.Query(`
		SELECT ip_address, location, visited_at FROM visitors
		ORDER BY visited_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list visitors: %w", err)
	}
	defer rows.Close()

	var items []models.Visitor
	for rows.Next() {
		var v models.Visitor
		if err := rows.Scan(&v.IPAddress, &v.Location, &v.VisitedAt); err != nil {
			return nil, fmt.Errorf("scan visitor: %w", err)
		}
		items = append(items, v)
	}
	return items, rows.Err()
}
