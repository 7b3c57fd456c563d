package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// EnsureAdmins guarantees that every email on the bootstrap allow-list has
// an admin account. Existing users are promoted; missing ones are created
// with an unusable password until the auth layer sets one.
func EnsureAdmins(db *sql.DB, emails []string) error {
	for _, email := range emails {
		_, err := db.Exec(`
			INSERT INTO users (email, password_hash, display_name, role)
			VALUES ($1, '', '', 'admin')
			ON CONFLICT (email) DO UPDATE SET role = 'admin', updated_at = now()
		`, email)
		if err != nil {
			return fmt.Errorf("ensure admin %s: %w", email, err)
		}
	}
	if len(emails) > 0 {
		slog.Info("bootstrap admins ensured", "count", len(emails))
	}
	return nil
}

// Seed populates the database with initial development data: a default
// admin user and a small demo catalog. It is a no-op when users exist.
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	// Hash the default admin password.
	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role)
		VALUES ($1, $2, $3, $4)
	`, "admin@storefront.local", string(hash), "Admin", "admin")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	// Demo catalog: a two-level category chain with one digital product.
	var rootID, childID string
	err = db.QueryRow(`
		INSERT INTO categories (name, slug, level, path)
		VALUES ('Templates', 'templates', 0, 'templates')
		RETURNING id
	`).Scan(&rootID)
	if err != nil {
		return fmt.Errorf("seed root category: %w", err)
	}

	err = db.QueryRow(`
		INSERT INTO categories (name, slug, parent_id, level, path)
		VALUES ('Landing Pages', 'landing-pages', $1, 1, 'templates/landing-pages')
		RETURNING id
	`, rootID).Scan(&childID)
	if err != nil {
		return fmt.Errorf("seed child category: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO posts (title, slug, category_id, is_digital, price)
		VALUES ('Starter Landing Page', 'starter-landing-page', $1, true, 19.00)
	`, childID)
	if err != nil {
		return fmt.Errorf("seed post: %w", err)
	}

	slog.Info("database seeded with default admin user and demo catalog",
		"email", "admin@storefront.local",
		"password", "admin",
	)

	return nil
}
