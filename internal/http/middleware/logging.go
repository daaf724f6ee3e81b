// Package middleware holds the Gin middleware shared by every route.
//
// This file covers request correlation and failure handling:
//
//   - RequestID() gives every request an X-Request-ID, reusing a well-formed
//     incoming value and storing it under the "requestID" context key.
//   - Recovery() turns a panic into a logged stack trace and, if nothing was
//     written yet, the standard JSON 500 envelope carrying the request id.
//   - LoggerFrom() hands handlers and services the request-scoped zerolog
//     logger, e.g. LoggerFrom(c).Info().Str("thread_id", id).Msg("sent").
//
// The access log line itself is written by RedactingLogger, which also stores
// the scoped logger under the "logger" key. Register the chain as
//
//  1. RequestID()
//  2. RedactingLogger(...)
//  3. Recovery()
//
// so that panics and errors are logged with the correlation id attached.
package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// requestIDKey is the Gin context key holding the correlation id.
	requestIDKey = "requestID"
	// requestIDHeader carries the correlation id in both directions.
	requestIDHeader = "X-Request-ID"
	// loggerKey is the Gin context key holding the *zerolog.Logger.
	loggerKey = "logger"

	// maxRequestIDLength bounds client-supplied ids echoed into logs and headers.
	maxRequestIDLength = 128
	// maxQueryLogLength caps how much of a raw query string is logged.
	maxQueryLogLength = 2048
)

// RequestID echoes the caller's X-Request-ID or mints a UUID when the header
// is missing or longer than maxRequestIDLength.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if !usableRequestID(rid) {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Header(requestIDHeader, rid)
		c.Next()
	}
}

func usableRequestID(rid string) bool {
	return rid != "" && len(rid) <= maxRequestIDLength
}

// Recovery converts a panic into a logged 500. If the handler already wrote
// part of a response the status is set and the body left alone.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				LoggerFrom(c).Error().
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")
				abortPanic(c)
			}
		}()
		c.Next()
	}
}

func abortPanic(c *gin.Context) {
	if c.Writer.Written() {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	rid := asString(c.Value(requestIDKey))
	c.Header(requestIDHeader, rid)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"request_id": rid,
		"code":       "internal_error",
		"message":    "internal server error",
	})
}

// LoggerFrom returns the logger RedactingLogger stored on c, or the global
// logger tagged with the request id. It never returns nil.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if lg, ok := c.Value(loggerKey).(*zerolog.Logger); ok && lg != nil {
		return lg
	}
	fallback := log.With().Str("request_id", asString(c.Value(requestIDKey))).Logger()
	return &fallback
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// truncate cuts s to n bytes and appends an ellipsis; n <= 0 keeps s whole.
func truncate(s string, n int) string {
	if n > 0 && len(s) > n {
		return s[:n] + "…"
	}
	return s
}
