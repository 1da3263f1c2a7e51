package web

import (
	"net"
	"net/http"
	"strings"
)

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			ip := strings.TrimSpace(parts[0])
			if ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

// Suffixes of static assets that unmatched-route counting ignores, so a
// browser probing for a missing favicon never gets its address blocked.
var staticSuffixes = []string{
	".ico", ".png", ".jpg", ".jpeg", ".gif", ".svg", ".css", ".js", ".map",
}

func isStaticAssetPath(path string) bool {
	lower := strings.ToLower(path)
	for _, suffix := range staticSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}
