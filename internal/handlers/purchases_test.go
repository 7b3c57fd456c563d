package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/internal/mail"
	"storefront/internal/models"
	"storefront/internal/store"
)

func postPurchaseJSON(t *testing.T, h *Purchases, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/purchases", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.Create(rr, req)
	return rr
}

func TestPurchaseCreate(t *testing.T) {
	db := testDB(t)
	purchases := store.NewPurchaseStore(db)
	posts := store.NewPostStore(db)
	h := NewPurchases(purchases, posts, nil, mail.New("", "", "orders@shop.test"))

	post, _ := seedProduct(t, db, "Purchase Widget", "purchase-widget-ht", "Zeta HT")
	t.Cleanup(func() {
		db.Exec("DELETE FROM purchases WHERE user_email = 'buyer@ht.test'")
	})

	body := `{"postId":"` + post.ID.String() + `","userEmail":"buyer@ht.test","amount":"49.00","paymentId":"pay_ht_1"}`
	rr := postPurchaseJSON(t, h, body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", rr.Code, rr.Body.String())
	}

	var created models.Purchase
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Status != models.PurchaseStatusCompleted {
		t.Errorf("status = %q, want completed", created.Status)
	}
	if created.DownloadCount != 0 {
		t.Errorf("download count = %d, want 0", created.DownloadCount)
	}

	// A second completed purchase for the same pair conflicts.
	rr = postPurchaseJSON(t, h, body)
	if rr.Code != http.StatusConflict {
		t.Errorf("duplicate: status = %d, want 409", rr.Code)
	}
}

func TestPurchaseCreateValidation(t *testing.T) {
	db := testDB(t)
	h := NewPurchases(store.NewPurchaseStore(db), store.NewPostStore(db), nil, mail.New("", "", "orders@shop.test"))

	// Form data is rejected outright — the endpoint only takes JSON.
	req := httptest.NewRequest(http.MethodPost, "/api/purchases", strings.NewReader("postId=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.Create(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("form body: status = %d, want 400", rr.Code)
	}

	rr = postPurchaseJSON(t, h, `{"userEmail":"x@y.z","amount":"1"}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("missing postId: status = %d, want 400", rr.Code)
	}

	rr = postPurchaseJSON(t, h, `{"postId":"00000000-0000-0000-0000-000000000001","userEmail":"not-an-email","amount":"1"}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad email: status = %d, want 400", rr.Code)
	}

	rr = postPurchaseJSON(t, h, `{"postId":"00000000-0000-0000-0000-00000000dead","userEmail":"x@y.z","amount":"1","paymentId":"p"}`)
	if rr.Code != http.StatusNotFound {
		t.Errorf("missing product: status = %d, want 404", rr.Code)
	}
}

func TestPurchaseList(t *testing.T) {
	db := testDB(t)
	purchases := store.NewPurchaseStore(db)
	h := NewPurchases(purchases, store.NewPostStore(db), nil, mail.New("", "", "orders@shop.test"))

	post, _ := seedProduct(t, db, "List Widget", "list-widget-ht", "Eta HT")
	t.Cleanup(func() {
		db.Exec("DELETE FROM purchases WHERE user_email = 'lister@ht.test'")
	})

	rr := postPurchaseJSON(t, h, `{"postId":"`+post.ID.String()+`","userEmail":"lister@ht.test","amount":"49.00","paymentId":"pay_ht_list"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("seed purchase: %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/purchases?userEmail=lister@ht.test", nil)
	listRR := httptest.NewRecorder()
	h.List(listRR, req)
	if listRR.Code != http.StatusOK {
		t.Fatalf("list: status = %d", listRR.Code)
	}

	var items []models.Purchase
	if err := json.Unmarshal(listRR.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d purchases, want 1", len(items))
	}
	if items[0].Post == nil || items[0].Post.Title != "List Widget" {
		t.Errorf("nested post = %+v", items[0].Post)
	}

	// Neither filter set.
	bare := httptest.NewRecorder()
	h.List(bare, httptest.NewRequest(http.MethodGet, "/api/purchases", nil))
	if bare.Code != http.StatusBadRequest {
		t.Errorf("no filter: status = %d, want 400", bare.Code)
	}
}
