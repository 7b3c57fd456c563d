package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"

	"storefront/internal/paths"
	"storefront/internal/store"
)

// productRouter mounts the Products handlers the way the real router does.
func productRouter(h *Products) chi.Router {
	r := chi.NewRouter()
	r.Get("/api/products/{id}", h.Get)
	r.Get("/api/products/{id}/qr", h.QR)
	r.Get("/api/redirect-product/{id}", h.Redirect)
	r.Get("/product/{id}", h.Get)
	r.Get("/*", h.Browse)
	return r
}

func TestRedirectProduct(t *testing.T) {
	db := testDB(t)
	categories := store.NewCategoryStore(db)
	posts := store.NewPostStore(db)
	resolver := paths.NewResolver(categories)
	h := NewProducts(posts, categories, resolver, "http://shop.test")
	r := productRouter(h)

	post, leaf := seedProduct(t, db, "Redirect Widget", "redirect-widget-pt", "Alpha PT", "Beta PT")
	canonical := "/" + leaf.Path + "/" + post.ID.String()

	t.Run("canonical path serves in place", func(t *testing.T) {
		target := "/api/redirect-product/" + post.ID.String() + "?from=" + url.QueryEscape(canonical)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))

		if rr.Code != http.StatusOK {
			t.Errorf("status = %d, want 200 (body %s)", rr.Code, rr.Body.String())
		}
	})

	t.Run("stale path gets permanent redirect", func(t *testing.T) {
		target := "/api/redirect-product/" + post.ID.String() + "?from=" + url.QueryEscape("/old-path/"+post.ID.String())
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))

		if rr.Code != http.StatusMovedPermanently {
			t.Fatalf("status = %d, want 301", rr.Code)
		}
		if loc := rr.Header().Get("Location"); loc != canonical {
			t.Errorf("Location = %q, want %q", loc, canonical)
		}
	})

	t.Run("unknown product is 404", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/redirect-product/00000000-0000-0000-0000-00000000dead", nil))

		if rr.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rr.Code)
		}
	})
}

func TestBrowseCatchAll(t *testing.T) {
	db := testDB(t)
	categories := store.NewCategoryStore(db)
	posts := store.NewPostStore(db)
	resolver := paths.NewResolver(categories)
	h := NewProducts(posts, categories, resolver, "http://shop.test")
	r := productRouter(h)

	post, leaf := seedProduct(t, db, "Browse Widget", "browse-widget-pt", "Gamma PT", "Delta PT")

	t.Run("category path lists products", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/"+leaf.Path, nil))

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d (body %s)", rr.Code, rr.Body.String())
		}
		var body struct {
			Category struct {
				Slug string `json:"slug"`
			} `json:"category"`
			Products []struct {
				Slug string `json:"slug"`
			} `json:"products"`
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Category.Slug != leaf.Slug {
			t.Errorf("category slug = %q, want %q", body.Category.Slug, leaf.Slug)
		}
		if len(body.Products) != 1 || body.Products[0].Slug != "browse-widget-pt" {
			t.Errorf("products = %+v", body.Products)
		}
	})

	t.Run("canonical product path serves product", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/"+leaf.Path+"/"+post.ID.String(), nil))

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d (body %s)", rr.Code, rr.Body.String())
		}
		var got struct {
			ID             string `json:"id"`
			CompareAtPrice string `json:"compare_at_price"`
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.ID != post.ID.String() {
			t.Errorf("id = %q, want %q", got.ID, post.ID)
		}
		// Derived at read time: 49 * 1.5.
		if got.CompareAtPrice != "73.5" {
			t.Errorf("compare_at_price = %q, want 73.5", got.CompareAtPrice)
		}
	})

	t.Run("stale product path redirects to canonical", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/wrong/"+post.ID.String(), nil))

		if rr.Code != http.StatusMovedPermanently {
			t.Fatalf("status = %d, want 301", rr.Code)
		}
		want := "/" + leaf.Path + "/" + post.ID.String()
		if loc := rr.Header().Get("Location"); loc != want {
			t.Errorf("Location = %q, want %q", loc, want)
		}
	})

	t.Run("flat slug redirects to canonical", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/browse-widget-pt", nil))

		if rr.Code != http.StatusMovedPermanently {
			t.Fatalf("status = %d, want 301", rr.Code)
		}
	})

	t.Run("unknown path is 404", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/no/such/thing", nil))

		if rr.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rr.Code)
		}
	})
}

func TestProductQR(t *testing.T) {
	db := testDB(t)
	categories := store.NewCategoryStore(db)
	posts := store.NewPostStore(db)
	resolver := paths.NewResolver(categories)
	h := NewProducts(posts, categories, resolver, "http://shop.test")
	r := productRouter(h)

	post, _ := seedProduct(t, db, "QR Widget", "qr-widget-pt", "Epsilon PT")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/products/"+post.ID.String()+"/qr", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}
	// PNG magic bytes.
	if body := rr.Body.Bytes(); len(body) < 8 || string(body[1:4]) != "PNG" {
		t.Error("response is not a PNG")
	}
}
