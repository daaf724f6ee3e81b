package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const defaultHSTSMaxAge = 180 * 24 * time.Hour

// SecurityOptions selects the optional headers of SecurityHeaders.
type SecurityOptions struct {
	// HSTS is only emitted for HTTPS requests; HSTSMaxAge <= 0 means 180 days.
	EnableHSTS bool
	HSTSMaxAge time.Duration

	NoStore              bool // no-store on every response
	NoStoreAuthenticated bool // no-store when the request has Authorization

	EnablePolicy bool // Permissions-Policy and X-Permitted-Cross-Domain-Policies
}

var (
	baselineHeaders = [][2]string{
		{"X-Content-Type-Options", "nosniff"},
		{"X-Frame-Options", "DENY"},
		{"Referrer-Policy", "no-referrer"},
	}
	policyHeaders = [][2]string{
		{"Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()"},
		{"X-Permitted-Cross-Domain-Policies", "none"},
	}
	noStoreHeaders = [][2]string{
		{"Cache-Control", "no-store"},
		{"Pragma", "no-cache"},
		{"Expires", "0"},
	}
)

// SecurityHeaders hardens API responses. Inbox and profile data fetched with
// a token can be kept out of shared caches while the public feed stays
// cacheable through its ETag.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	age := opt.HSTSMaxAge
	if age <= 0 {
		age = defaultHSTSMaxAge
	}
	hsts := fmt.Sprintf("max-age=%d; includeSubDomains; preload", int64(age.Seconds()))

	return func(c *gin.Context) {
		h := c.Writer.Header()
		setAll(h, baselineHeaders)
		if opt.EnablePolicy {
			setAll(h, policyHeaders)
		}
		if opt.NoStore || (opt.NoStoreAuthenticated && c.GetHeader("Authorization") != "") {
			setAll(h, noStoreHeaders)
		}
		if opt.EnableHSTS && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security", hsts)
		}
		if h.Get(requestIDHeader) != "" {
			exposeHeader(h, requestIDHeader)
		}
		c.Next()
	}
}

func setAll(h http.Header, kv [][2]string) {
	for _, p := range kv {
		h.Set(p[0], p[1])
	}
}

// exposeHeader appends name to Access-Control-Expose-Headers once.
func exposeHeader(h http.Header, name string) {
	const key = "Access-Control-Expose-Headers"
	cur := h.Get(key)
	switch {
	case cur == "":
		h.Set(key, name)
	case !strings.Contains(cur, name):
		h.Set(key, cur+", "+name)
	}
}

// isHTTPS trusts r.TLS or an X-Forwarded-Proto of https from the proxy.
func isHTTPS(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
