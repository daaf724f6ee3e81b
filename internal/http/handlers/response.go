// Package handlers implements the JSON endpoints of the friend app API.
//
// Failures share one envelope with a stable code from errors.go:
//
//	HTTP/1.1 403 Forbidden
//	{"request_id": "123e4567-e89b-12d3-a456-426614174000", "code": "forbidden", "message": "forbidden"}
//
// Server errors are logged with the request-scoped logger; client errors are
// not.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/friend-app/internal/http/middleware"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	Code      string `json:"code" example:"not_found"`
	Message   string `json:"message" example:"not found"`
}

func fail(c *gin.Context, status int, code, msg string) {
	if status >= http.StatusInternalServerError {
		logServerError(c, status, code)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	})
}

// logServerError records a 5xx along with the cause attached via c.Error.
func logServerError(c *gin.Context, status int, code string) {
	ev := middleware.LoggerFrom(c).Error().Int("status", status).Str("code", code)
	if cause := c.Errors.Last(); cause != nil {
		ev = ev.Err(cause.Err)
	}
	ev.Msg("request failed")
}

// Fail writes the error envelope; the router uses it for 404/405 fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

func ok(c *gin.Context, status int, body any) { c.JSON(status, body) }

func noContent(c *gin.Context) { c.Status(http.StatusNoContent) }
