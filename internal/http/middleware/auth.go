// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file resolves the caller identity from an "Authorization: Bearer"
// token. Identity is never taken from any other client-controlled header.
//
//   - Authenticate() verifies a bearer token when one is presented and stores
//     the subject under the "userID" context key. Requests without a token pass
//     through anonymously; a malformed or invalid token is rejected with 401.
//   - RequireAuth() guards routes that need a signed-in caller.
//   - UserID() reads the identity set by Authenticate.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/friend-app/internal/auth"
)

const (
	// userIDKey is the Gin context key holding the authenticated user id.
	userIDKey = "userID"
	// usernameKey holds the username claim of the verified token.
	usernameKey = "username"
)

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	Parse(token string) (*auth.Claims, error)
}

// Authenticate verifies the bearer token, if any, and stashes the caller id.
func Authenticate(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := strings.TrimSpace(c.GetHeader("Authorization"))
		if h == "" {
			c.Next()
			return
		}
		scheme, token, found := strings.Cut(h, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			abortUnauthorized(c, "malformed Authorization header")
			return
		}
		claims, err := v.Parse(strings.TrimSpace(token))
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}
		c.Set(userIDKey, claims.Subject)
		c.Set(usernameKey, claims.Username)
		lg := LoggerFrom(c).With().Str("user_id", claims.Subject).Logger()
		c.Set(loggerKey, &lg)
		c.Next()
	}
}

// RequireAuth aborts with 401 unless Authenticate resolved a caller.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserID(c) == "" {
			abortUnauthorized(c, "authentication required")
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated caller id, or "" for anonymous requests.
func UserID(c *gin.Context) string {
	if v, ok := c.Get(userIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", `Bearer realm="friend-app"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get(requestIDHeader),
		"code":       "unauthorized",
		"message":    msg,
	})
}
