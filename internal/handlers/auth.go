// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"storefront/internal/session"
	"storefront/internal/store"
)

// Auth groups the session login/logout handlers.
type Auth struct {
	users    *store.UserStore
	sessions *session.Store
}

// NewAuth creates a new Auth handler group.
func NewAuth(users *store.UserStore, sessions *session.Store) *Auth {
	return &Auth{users: users, sessions: sessions}
}

// loginRequest is the JSON body of POST /api/auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and mints a session cookie.
// POST /api/auth/login
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		respondError(w, http.StatusBadRequest, "Content-Type must be application/json")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := a.users.Authenticate(req.Email, req.Password)
	if err != nil {
		slog.Error("authenticate failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if user == nil {
		// Same response for unknown email and wrong password.
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	slog.Info("user logged in", "email", user.Email)
	respondJSON(w, http.StatusOK, map[string]any{
		"email":        user.Email,
		"display_name": user.DisplayName,
		"role":         user.Role,
	})
}

// Logout destroys the current session.
// POST /api/auth/logout
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	respondJSON(w, http.StatusOK, map[string]any{"ok": true})
}
