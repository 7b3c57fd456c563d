// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	mailer "storefront/internal/mail"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/payment"
	"storefront/internal/store"
)

// Purchases groups handlers for recording purchases and listing them.
type Purchases struct {
	purchases *store.PurchaseStore
	posts     *store.PostStore
	verifier  payment.Verifier // nil disables gateway verification
	mailer    mailer.Mailer
}

// NewPurchases creates a new Purchases handler group.
func NewPurchases(purchases *store.PurchaseStore, posts *store.PostStore, verifier payment.Verifier, m mailer.Mailer) *Purchases {
	return &Purchases{
		purchases: purchases,
		posts:     posts,
		verifier:  verifier,
		mailer:    m,
	}
}

// createPurchaseRequest is the JSON body of POST /api/purchases.
type createPurchaseRequest struct {
	PostID    uuid.UUID       `json:"postId"`
	UserEmail string          `json:"userEmail"`
	Amount    decimal.Decimal `json:"amount"`
	PaymentID string          `json:"paymentId"`
}

// Create records a purchase. The body must be JSON; this endpoint never
// accepts form data. When a payment gateway is configured the payment is
// verified once, with a bounded timeout and no retry — a duplicate charge
// is worse than a failed request. A confirmation email is sent after the
// row is committed; a mail failure is logged and never rolls anything back.
// POST /api/purchases
func (h *Purchases) Create(w http.ResponseWriter, r *http.Request) {
	if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		respondError(w, http.StatusBadRequest, "Content-Type must be application/json")
		return
	}

	var req createPurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.PostID == uuid.Nil {
		respondError(w, http.StatusBadRequest, "postId is required")
		return
	}
	if _, err := mail.ParseAddress(req.UserEmail); err != nil {
		respondError(w, http.StatusBadRequest, "userEmail is not a valid email address")
		return
	}
	if req.Amount.IsNegative() {
		respondError(w, http.StatusBadRequest, "amount must not be negative")
		return
	}

	post, err := h.posts.FindByID(req.PostID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}

	status := models.PurchaseStatusCompleted
	if h.verifier != nil {
		gwStatus, err := h.verifier.PaymentStatus(r.Context(), req.PaymentID)
		if err != nil {
			slog.Error("payment verification failed", "error", err, "payment_id", req.PaymentID)
			respondError(w, http.StatusInternalServerError, "payment verification failed")
			return
		}
		switch gwStatus {
		case payment.StatusCompleted:
			status = models.PurchaseStatusCompleted
		case payment.StatusPending:
			status = models.PurchaseStatusPending
		default:
			status = models.PurchaseStatusFailed
		}
	}

	var userID *uuid.UUID
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil {
		userID = &sess.UserID
	}

	created, err := h.purchases.Create(&models.Purchase{
		PostID:    req.PostID,
		UserID:    userID,
		UserEmail: req.UserEmail,
		Amount:    req.Amount,
		PaymentID: req.PaymentID,
		Status:    status,
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}

	slog.Info("purchase recorded",
		"id", created.ID,
		"post", created.PostID,
		"email", created.UserEmail,
		"status", created.Status,
	)

	if created.IsCompleted() {
		go h.sendConfirmation(created, post)
	}

	respondJSON(w, http.StatusCreated, created)
}

// sendConfirmation emails the buyer after a completed purchase. Runs off
// the request path with its own timeout.
func (h *Purchases) sendConfirmation(p *models.Purchase, post *models.Post) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	subject := fmt.Sprintf("Your purchase of %q is confirmed", post.Title)
	body := fmt.Sprintf(
		"Thank you for your purchase!\n\nProduct: %s\nAmount: %s\nOrder reference: %s\n",
		post.Title, p.Amount.StringFixed(2), p.ID,
	)
	if err := h.mailer.Send(ctx, p.UserEmail, subject, body); err != nil {
		slog.Warn("confirmation email failed", "error", err, "purchase", p.ID)
	}
}

// List returns purchases filtered by buyer email or by product.
// GET /api/purchases?userEmail=|postId=
func (h *Purchases) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if email := strings.TrimSpace(q.Get("userEmail")); email != "" {
		items, err := h.purchases.ListByEmail(email)
		if err != nil {
			respondStoreError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, items)
		return
	}

	if raw := q.Get("postId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "postId is not a valid id")
			return
		}
		items, err := h.purchases.ListByPost(id)
		if err != nil {
			respondStoreError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, items)
		return
	}

	respondError(w, http.StatusBadRequest, "userEmail or postId is required")
}

// ForUser returns the authenticated session user's purchases.
// GET /api/user/purchases
func (h *Purchases) ForUser(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var (
		items []models.Purchase
		err   error
	)
	if sess.UserID != uuid.Nil {
		items, err = h.purchases.ListByUser(sess.UserID)
	} else {
		items, err = h.purchases.ListByEmail(sess.Email)
	}
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}
