package middleware

import (
	"net/http"
	"strings"
)

// SecurityHeaders sets response headers for a JSON API consumed by the admin UI
type SecurityHeaders struct {
	headers map[string]string
}

// NewSecurityHeaders creates the middleware. Development mode drops HSTS so plain
// http on localhost keeps working, and relaxes the CSP for browser tooling.
func NewSecurityHeaders(isDevelopment bool) *SecurityHeaders {
	h := map[string]string{
		"X-Frame-Options":        "DENY",
		"X-Content-Type-Options": "nosniff",
		"Referrer-Policy":        "no-referrer",
		"Cache-Control":          "no-store",
		"Permissions-Policy":     "geolocation=(), microphone=(), camera=(), usb=()",
		"Content-Security-Policy": strings.Join([]string{
			"default-src 'none'",
			"frame-ancestors 'none'",
			"base-uri 'none'",
		}, "; "),
	}

	if isDevelopment {
		h["Content-Security-Policy"] = "default-src 'self'; frame-ancestors 'none'"
	} else {
		h["Strict-Transport-Security"] = "max-age=31536000; includeSubDomains"
	}

	return &SecurityHeaders{headers: h}
}

// Middleware wraps an HTTP handler with security headers
func (sh *SecurityHeaders) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range sh.headers {
			w.Header().Set(k, v)
		}
		next.ServeHTTP(w, r)
	})
}
