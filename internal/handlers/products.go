// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"storefront/internal/models"
	"storefront/internal/paths"
	"storefront/internal/store"
)

// Products groups handlers for product detail, canonical-URL redirects,
// and the public catch-all browse route.
type Products struct {
	posts      *store.PostStore
	categories *store.CategoryStore
	resolver   *paths.Resolver
	baseURL    string
}

// NewProducts creates a new Products handler group.
func NewProducts(posts *store.PostStore, categories *store.CategoryStore, resolver *paths.Resolver, baseURL string) *Products {
	return &Products{
		posts:      posts,
		categories: categories,
		resolver:   resolver,
		baseURL:    baseURL,
	}
}

// urlCategory returns the category that determines a product's canonical
// URL: the subcategory when one is assigned, otherwise the owning category.
func (p *Products) urlCategory(post *models.Post) (*models.Category, error) {
	if post.SubcategoryID != nil {
		return p.categories.FindByID(*post.SubcategoryID)
	}
	if post.Category != nil {
		return post.Category, nil
	}
	return p.categories.FindByID(post.CategoryID)
}

// servePost writes the full product representation: category, files
// metadata, and the display compare-at price derived at read time.
func (p *Products) servePost(w http.ResponseWriter, post *models.Post) {
	files, err := p.posts.Files(post.ID)
	if err != nil {
		slog.Error("list product files failed", "error", err, "post", post.ID)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	post.Files = files

	display := post.DisplayCompareAt()
	post.CompareAtPrice = &display

	respondJSON(w, http.StatusOK, post)
}

// Get returns a single product by ID.
// GET /api/products/{id} and GET /product/{id}
func (p *Products) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	post, err := p.posts.FindByID(id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}

	p.servePost(w, post)
}

// QR renders a PNG QR code pointing at the product's canonical URL.
// GET /api/products/{id}/qr
func (p *Products) QR(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	post, err := p.posts.FindByID(id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}

	cat, err := p.urlCategory(post)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	target := fmt.Sprintf("%s/product/%s", p.baseURL, post.ID)
	if cat != nil {
		target = fmt.Sprintf("%s/%s/%s", p.baseURL, cat.CanonicalPath(), post.ID)
	}

	png, err := qrcode.Encode(target, qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr encode failed", "error", err, "post", post.ID)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// Redirect compares the path the client arrived on against the product's
// canonical URL and answers with a 301 to the canonical path, a 302 to
// the generic product route, or a 200 when already canonical.
// GET /api/redirect-product/{id}?from=
func (p *Products) Redirect(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	post, err := p.posts.FindByID(id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}

	cat, err := p.urlCategory(post)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	requested := paths.Split(r.URL.Query().Get("from"))
	decision := paths.DecideRedirect(cat, requested, post.ID.String())

	switch decision.Kind {
	case paths.RedirectPermanent:
		http.Redirect(w, r, decision.Location, http.StatusMovedPermanently)
	case paths.RedirectFound:
		http.Redirect(w, r, decision.Location, http.StatusFound)
	default:
		p.servePost(w, post)
	}
}

// Browse is the public catch-all route. A path that resolves to a category
// returns the category with its products; a path whose last segment is a
// product ID or slug returns the product, redirecting first when the
// requested path is not the canonical one.
// GET /*
func (p *Products) Browse(w http.ResponseWriter, r *http.Request) {
	segments := paths.Split(r.URL.Path)
	if len(segments) == 0 {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	// A full category path wins over product interpretation.
	cat, err := p.resolver.Resolve(segments)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if cat != nil {
		posts, err := p.posts.ListByCategory(cat.ID)
		if err != nil {
			respondStoreError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"category": cat,
			"products": posts,
		})
		return
	}

	// Otherwise the last segment names a product, by ID or by slug.
	last := segments[len(segments)-1]
	var post *models.Post
	if id, err := uuid.Parse(last); err == nil {
		post, err = p.posts.FindByID(id)
		if err != nil {
			respondStoreError(w, err)
			return
		}
	} else {
		post, err = p.posts.FindBySlug(last)
		if err != nil {
			respondStoreError(w, err)
			return
		}
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	urlCat, err := p.urlCategory(post)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	decision := paths.DecideRedirect(urlCat, segments, post.ID.String())
	switch decision.Kind {
	case paths.RedirectPermanent:
		http.Redirect(w, r, decision.Location, http.StatusMovedPermanently)
	case paths.RedirectFound:
		http.Redirect(w, r, decision.Location, http.StatusFound)
	default:
		p.servePost(w, post)
	}
}
