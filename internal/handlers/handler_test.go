// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL is unavailable.
package handlers

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"

	"storefront/internal/database"
	"storefront/internal/models"
	"storefront/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "storefront")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "storefront")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// seedProduct creates a category chain and a digital product under the
// deepest node, with cleanup registered.
func seedProduct(t *testing.T, db *sql.DB, title, postSlug string, categoryNames ...string) (*models.Post, *models.Category) {
	t.Helper()

	categories := store.NewCategoryStore(db)
	posts := store.NewPostStore(db)

	var parent *models.Category
	created := make([]*models.Category, 0, len(categoryNames))
	for _, name := range categoryNames {
		var c *models.Category
		var err error
		if parent == nil {
			c, err = categories.CreateUnder(name, nil)
		} else {
			c, err = categories.CreateUnder(name, &parent.ID)
		}
		if err != nil {
			t.Fatalf("create category %q: %v", name, err)
		}
		created = append(created, c)
		parent = c
	}

	t.Cleanup(func() {
		db.Exec("DELETE FROM posts WHERE slug = $1", postSlug)
		for i := len(created) - 1; i >= 0; i-- {
			db.Exec("DELETE FROM categories WHERE id = $1", created[i].ID)
		}
	})

	leaf := created[len(created)-1]
	post, err := posts.Create(&models.Post{
		Title:      title,
		Slug:       postSlug,
		CategoryID: leaf.ID,
		IsDigital:  true,
		Price:      decimal.NewFromInt(49),
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post, leaf
}
