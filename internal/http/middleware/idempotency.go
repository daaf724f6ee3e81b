// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file handles the Idempotency-Key header on unsafe methods. Sending a
// thread message is the consumer: a client retrying POST
// /threads/{id}/messages with the same key must get the original message back
// instead of posting twice.
//
// The middleware only deals with the transport side:
//   - it validates the key's length and alphabet and rejects bad keys with 400;
//   - it stores the key for handlers (GetIdempotencyKey);
//   - for authenticated callers it asks an IdempotencyLookup whether a live
//     record exists and, if so, marks the request as a replay (IsReplay),
//     which the rate limiter honours by not spending a token.
//
// Storing records and serving the stored message belong to ThreadService;
// the lookup is injected as a function so this package stays free of storage.
package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey is the request header carrying the client's key. A
// client keeps the same value across every retry of one logical send.
const HeaderIdempotencyKey = "Idempotency-Key"

const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay"
)

var defaultKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// GetIdempotencyKey returns the validated key stored by IdempotencyValidator.
// The boolean is false when the request carried no key. Handlers read it here
// rather than from the raw header, which may have been rejected.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyIdemKey)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// IsReplay reports whether IdempotencyValidator found a still-valid record for
// (caller, thread, key). The flag is advisory: the service re-checks the record
// before deciding to replay.
func IsReplay(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyIdemReplay)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// IdempotencyOptions configures header validation.
type IdempotencyOptions struct {
	// MaxLen caps the key length. Values <= 0 default to 200.
	MaxLen int
	// Pattern restricts allowed characters. Nil uses ^[A-Za-z0-9._~\-:]+$.
	Pattern *regexp.Regexp
}

// IdempotencyLookup reports whether a completed request exists for
// (userID, scopeID, key) at now. scopeID is the ":id" route parameter, which
// for POST /threads/:id/messages is the thread id. Errors are treated as a
// miss so a failing lookup never blocks the request.
type IdempotencyLookup func(ctx context.Context, userID, scopeID, key string, now time.Time) (exists bool, err error)

// IdempotencyValidator validates the Idempotency-Key header on POST, PUT and
// PATCH requests.
//
// Behavior:
//   - safe methods and requests without the header pass through untouched;
//   - a key that is too long or uses other characters is rejected with 400
//     and code "bad_idempotency_key";
//   - anonymous callers get validation only, because the lookup is scoped by
//     the user id that Authenticate resolved;
//   - a lookup error is logged at warn level and treated as a miss.
//
// It never serves a stored payload itself.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		pat = defaultKeyPattern
	}

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			c.Next()
			return
		}
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"request_id": c.Writer.Header().Get(requestIDHeader),
				"code":       "bad_idempotency_key",
				"message":    "invalid Idempotency-Key",
			})
			return
		}
		c.Set(ctxKeyIdemKey, key)

		uid := UserID(c)
		if lookup != nil && uid != "" {
			exists, err := lookup(c.Request.Context(), uid, c.Param("id"), key, time.Now().UTC())
			if err != nil {
				LoggerFrom(c).Warn().Err(err).Msg("idempotency lookup failed")
			}
			if exists {
				c.Set(ctxKeyIdemReplay, true)
			}
		}
		c.Next()
	}
}
