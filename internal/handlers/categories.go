// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"storefront/internal/cache"
	"storefront/internal/store"
)

const maxCategoryNameLen = 200

// Catalog groups handlers for the category tree. Reads go through the
// Valkey catalog cache; every write invalidates it.
type Catalog struct {
	categories *store.CategoryStore
	cache      *cache.CatalogCache
}

// NewCatalog creates a new Catalog handler group. catalogCache may be nil
// when Valkey is not configured.
func NewCatalog(categories *store.CategoryStore, catalogCache *cache.CatalogCache) *Catalog {
	return &Catalog{categories: categories, cache: catalogCache}
}

// Tree returns the full category forest: root nodes ordered by name,
// children nested recursively to arbitrary depth.
// GET /api/categories
func (c *Catalog) Tree(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if c.cache != nil {
		if cached, ok := c.cache.GetTree(ctx); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write(cached)
			return
		}
	}

	tree, err := c.categories.Tree()
	if err != nil {
		respondStoreError(w, err)
		return
	}

	body, err := json.Marshal(tree)
	if err != nil {
		slog.Error("marshal category tree failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if c.cache != nil {
		c.cache.SetTree(ctx, body)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// Create adds a category, optionally under a parent. The request is
// form-encoded; this endpoint never accepts JSON.
// POST /api/categories (form: name, parentId?)
func (c *Catalog) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	name := strings.TrimSpace(r.PostFormValue("name"))
	if name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if utf8.RuneCountInString(name) > maxCategoryNameLen {
		respondError(w, http.StatusBadRequest, "name is too long (max 200 characters)")
		return
	}

	var parentID *uuid.UUID
	if raw := r.PostFormValue("parentId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "parentId is not a valid id")
			return
		}
		parentID = &id
	}

	created, err := c.categories.CreateUnder(name, parentID)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	if c.cache != nil {
		c.cache.Invalidate(r.Context())
	}

	slog.Info("category created", "id", created.ID, "path", created.Path)
	respondJSON(w, http.StatusCreated, created)
}

// CheckSlug reports whether a slug is free across categories and products.
// excludeId skips the given record when editing in place.
// GET /api/check-slug?slug=&excludeId=
func (c *Catalog) CheckSlug(w http.ResponseWriter, r *http.Request) {
	sl := strings.TrimSpace(r.URL.Query().Get("slug"))
	if sl == "" {
		respondError(w, http.StatusBadRequest, "slug is required")
		return
	}

	var excludeID *uuid.UUID
	if raw := r.URL.Query().Get("excludeId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "excludeId is not a valid id")
			return
		}
		excludeID = &id
	}

	available, err := c.categories.SlugAvailable(sl, excludeID)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	msg := "Slug is available."
	if !available {
		msg = "Slug is already in use."
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"available": available,
		"message":   msg,
	})
}
