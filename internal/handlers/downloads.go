// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"storefront/internal/entitlement"
)

// Downloads exposes entitlement-gated download links for digital products.
type Downloads struct {
	checker *entitlement.Checker
}

// NewDownloads creates a new Downloads handler group.
func NewDownloads(checker *entitlement.Checker) *Downloads {
	return &Downloads{checker: checker}
}

// Links issues time-limited download links for a completed purchase.
// Each successful call increments the purchase's download count. A
// purchase that does not exist, belongs to someone else, or is not
// completed yields a 404 — entitlement failures are never silent.
// GET /api/downloads?purchaseId=&userEmail=
func (h *Downloads) Links(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	purchaseID, err := uuid.Parse(q.Get("purchaseId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "purchaseId is not a valid id")
		return
	}
	email := strings.TrimSpace(q.Get("userEmail"))
	if email == "" {
		respondError(w, http.StatusBadRequest, "userEmail is required")
		return
	}

	links, purchase, err := h.checker.IssueLinks(r.Context(), purchaseID, email)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if purchase == nil {
		respondError(w, http.StatusNotFound, "no completed purchase found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"downloads":      links,
		"download_count": purchase.DownloadCount,
	})
}
