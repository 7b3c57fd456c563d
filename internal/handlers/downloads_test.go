package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/entitlement"
	"storefront/internal/models"
	"storefront/internal/store"
)

func TestDownloadLinks(t *testing.T) {
	db := testDB(t)
	purchases := store.NewPurchaseStore(db)
	posts := store.NewPostStore(db)
	checker := entitlement.NewChecker(purchases, posts, nil, 15*time.Minute)
	h := NewDownloads(checker)

	post, _ := seedProduct(t, db, "Download Widget", "download-widget-ht", "Theta HT")
	t.Cleanup(func() {
		db.Exec("DELETE FROM purchases WHERE user_email = 'dl@ht.test'")
	})

	if _, err := posts.AddFile(&models.PostFile{
		PostID:   post.ID,
		FileName: "widget.zip",
		S3Key:    "files/widget.zip",
		FileSize: 1024,
		FileType: "application/zip",
		PublicID: "widget-zip",
	}); err != nil {
		t.Fatalf("add file: %v", err)
	}

	purchase, err := purchases.Create(&models.Purchase{
		PostID:    post.ID,
		UserEmail: "dl@ht.test",
		Amount:    decimal.NewFromInt(49),
		PaymentID: "pay_dl_1",
		Status:    models.PurchaseStatusCompleted,
	})
	if err != nil {
		t.Fatalf("create purchase: %v", err)
	}

	get := func(query string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		h.Links(rr, httptest.NewRequest(http.MethodGet, "/api/downloads?"+query, nil))
		return rr
	}

	t.Run("entitled buyer gets links and a counted issuance", func(t *testing.T) {
		rr := get("purchaseId=" + purchase.ID.String() + "&userEmail=dl@ht.test")
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d (body %s)", rr.Code, rr.Body.String())
		}

		var body struct {
			Downloads []struct {
				FileName string `json:"file_name"`
				FileType string `json:"file_type"`
			} `json:"downloads"`
			DownloadCount int `json:"download_count"`
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(body.Downloads) != 1 || body.Downloads[0].FileName != "widget.zip" {
			t.Errorf("downloads = %+v", body.Downloads)
		}
		if body.DownloadCount != 1 {
			t.Errorf("download_count = %d, want 1", body.DownloadCount)
		}
	})

	t.Run("second issuance counts again", func(t *testing.T) {
		rr := get("purchaseId=" + purchase.ID.String() + "&userEmail=dl@ht.test")
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d", rr.Code)
		}
		var body struct {
			DownloadCount int `json:"download_count"`
		}
		json.Unmarshal(rr.Body.Bytes(), &body)
		if body.DownloadCount != 2 {
			t.Errorf("download_count = %d, want 2", body.DownloadCount)
		}
	})

	t.Run("wrong email is 404", func(t *testing.T) {
		rr := get("purchaseId=" + purchase.ID.String() + "&userEmail=other@ht.test")
		if rr.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rr.Code)
		}
	})

	t.Run("unknown purchase is 404", func(t *testing.T) {
		rr := get("purchaseId=00000000-0000-0000-0000-00000000dead&userEmail=dl@ht.test")
		if rr.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rr.Code)
		}
	})

	t.Run("missing parameters are 400", func(t *testing.T) {
		rr := get("userEmail=dl@ht.test")
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rr.Code)
		}
	})
}
