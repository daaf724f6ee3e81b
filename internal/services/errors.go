// Package services defines the business logic for users, ads, the
// classification catalog and conversation threads. This file centralizes the
// service-level error values so that they can be returned consistently by
// service methods and checked by callers with errors.Is.
//
// Translation into HTTP status codes happens in the handler layer.
package services

import "errors"

var (
	// ErrNotFound indicates that the referenced user, ad or thread does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the caller is neither the owner of an ad
	// nor a participant of a thread it tries to act on.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidTag is returned when a (title, value) pair is not in the catalog.
	ErrInvalidTag = errors.New("tag not in catalog")

	// ErrValidation covers malformed or out-of-range input.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateUsername is returned when registering a taken username.
	ErrDuplicateUsername = errors.New("username already taken")

	// ErrUnauthenticated is returned for unknown users and wrong passwords alike.
	ErrUnauthenticated = errors.New("invalid username or password")

	// ErrEmptyContent is returned when a thread message is blank after trimming.
	ErrEmptyContent = errors.New("message content is empty")

	// ErrSelfThread is returned when a user tries to open a thread with themselves.
	ErrSelfThread = errors.New("cannot start a thread with yourself")

	// ErrInvalidImage is returned for non-JPEG or oversized profile images.
	ErrInvalidImage = errors.New("image must be a JPEG within the size limit")
)
