// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case and stable; clients branch on them rather
// than on messages. Generic codes mirror HTTP status semantics, the rest name
// a specific business rule.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/friend-app/internal/services"
)

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeForbidden        = "forbidden"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodePayloadTooLarge  = "payload_too_large"

	// Domain-specific:
	ErrCodeValidation    = "validation_failed"
	ErrCodeInvalidTag    = "invalid_tag"
	ErrCodeEmptyContent  = "empty_content"
	ErrCodeInvalidImage  = "invalid_image"
	ErrCodeSelfThread    = "self_thread"
	ErrCodeUsernameTaken = "username_taken"
)

// errorMapping is one row of the service error to HTTP translation table.
type errorMapping struct {
	target error
	status int
	code   string
}

var serviceErrors = []errorMapping{
	{services.ErrNotFound, http.StatusNotFound, ErrCodeNotFound},
	{services.ErrForbidden, http.StatusForbidden, ErrCodeForbidden},
	{services.ErrSelfThread, http.StatusForbidden, ErrCodeSelfThread},
	{services.ErrInvalidTag, http.StatusBadRequest, ErrCodeInvalidTag},
	{services.ErrValidation, http.StatusBadRequest, ErrCodeValidation},
	{services.ErrEmptyContent, http.StatusBadRequest, ErrCodeEmptyContent},
	{services.ErrInvalidImage, http.StatusBadRequest, ErrCodeInvalidImage},
	{services.ErrDuplicateUsername, http.StatusConflict, ErrCodeUsernameTaken},
	{services.ErrUnauthenticated, http.StatusUnauthorized, ErrCodeUnauthorized},
}

// failErr translates a service error into the error envelope. Unknown errors
// become an opaque 500; the cause is attached to the Gin context for logging
// and never sent to the client.
func failErr(c *gin.Context, err error) {
	for _, m := range serviceErrors {
		if errors.Is(err, m.target) {
			fail(c, m.status, m.code, m.target.Error())
			return
		}
	}
	_ = c.Error(err)
	fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
}
