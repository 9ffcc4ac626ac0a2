// Package request holds helpers for reading request metadata.
package request

import (
	"net/http"
	"strings"
)

// ClientIP extracts the client IP from the request, respecting
// X-Forwarded-For and X-Real-IP. Used as the rate-limit key.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	return r.RemoteAddr
}
