package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput reports a missing or unusable request field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrAuthFailed covers both an unknown email and a wrong password.
	ErrAuthFailed = errors.New("wrong credentials")
	// ErrConflict reports an email that is already registered.
	ErrConflict = errors.New("already exists")
	// ErrNotFound reports a missing credential or profile.
	ErrNotFound = errors.New("not found")
)

// UpstreamError is returned when the face-detection service answers with a
// non-success status.
type UpstreamError struct {
	StatusCode int
	Status     string
	// Body is the (possibly truncated) upstream response, kept for server-side logs.
	Body string
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream responded %s", e.Status)
}
