// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP JSON API of the storefront:
// the category catalog, product resolution with canonical-URL redirects,
// purchases, and entitlement-gated digital downloads.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"storefront/internal/store"
)

// errorResponse is the uniform error body: {"error": "message"}.
type errorResponse struct {
	Error string `json:"error"`
}

// respondJSON writes v as a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", "error", err)
	}
}

// respondError writes a JSON error body with the given status code.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// respondStoreError maps store sentinel errors onto HTTP status codes,
// falling back to 500 for anything unexpected.
func respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrInvalidName):
		respondError(w, http.StatusBadRequest, "name must contain at least one letter or digit")
	case errors.Is(err, store.ErrParentNotFound):
		respondError(w, http.StatusNotFound, "parent category not found")
	case errors.Is(err, store.ErrDuplicateSlug):
		respondError(w, http.StatusConflict, "slug already in use")
	case errors.Is(err, store.ErrAlreadyPurchased):
		respondError(w, http.StatusConflict, "already purchased")
	default:
		slog.Error("store operation failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
