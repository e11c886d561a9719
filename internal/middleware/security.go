// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"strings"
)

// SecureHeaders sets the browser hardening headers. mediaOrigins are the
// extra origins allowed to serve images and video, typically the object
// storage public URL.
func SecureHeaders(mediaOrigins ...string) func(http.Handler) http.Handler {
	media := strings.TrimSpace("https: " + strings.Join(mediaOrigins, " "))
	csp := strings.Join([]string{
		"default-src 'self'",
		"img-src 'self' data: " + media,
		"media-src 'self' " + media,
		"frame-src https://www.youtube.com https://player.vimeo.com",
		"connect-src 'self' ws: wss:",
		"script-src 'self' https://unpkg.com",
		"style-src 'self' 'unsafe-inline' https://fonts.googleapis.com",
		"font-src 'self' https://fonts.gstatic.com",
		"frame-ancestors 'self'",
		"form-action 'self'",
	}, "; ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "SAMEORIGIN")
			h.Set("X-XSS-Protection", "0")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
			h.Set("Content-Security-Policy", csp)
			next.ServeHTTP(w, r)
		})
	}
}
