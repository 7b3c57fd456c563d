// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"log/slog"
	"net/http"
)

// VisitorRecorder records a visitor by IP address. Satisfied by
// store.VisitorStore.
type VisitorRecorder interface {
	Record(ip, location string) error
}

// TrackVisitors records each client IP for unique-visitor counting.
// Recording is best-effort and runs off the request path so a slow or
// failing database never delays a response.
func TrackVisitors(visitors VisitorRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)
			if ip != "" {
				go func() {
					if err := visitors.Record(ip, ""); err != nil {
						slog.Warn("visitor record failed", "ip", ip, "error", err)
					}
				}()
			}
			next.ServeHTTP(w, r)
		})
	}
}
