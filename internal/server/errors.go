// Package server provides the HTTP REST API for the mock-interview service.
package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/mock-interview/internal/session"
	"github.com/jonathan/mock-interview/internal/store"
)

// ErrEmailAlreadyExists indicates the email is already registered.
type ErrEmailAlreadyExists struct{}

func (e *ErrEmailAlreadyExists) Error() string {
	return "This email is already registered. Try signing in or use a different email."
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Ownership mismatches and missing records both map to 404 so the existence
// of other users' records is never leaked.
func HTTPStatus(err error) int {
	var notFound *session.NotFoundError
	var unavailable *session.UnavailableError
	var emailExists *ErrEmailAlreadyExists

	switch {
	case errors.Is(err, session.ErrInvalidMode):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrDuplicateEmail), errors.As(err, &emailExists):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// sessionErrorMessage maps session errors to user-facing messages; anything
// unrecognized gets the given fallback.
func sessionErrorMessage(err error, fallback string) string {
	var notFound *session.NotFoundError
	var unavailable *session.UnavailableError

	switch {
	case errors.Is(err, session.ErrInvalidMode):
		return session.ErrInvalidMode.Error()
	case errors.As(err, &notFound):
		return "Interview session not found. Start a new interview."
	case errors.As(err, &unavailable):
		return "AI service is temporarily unavailable. Please try again later."
	default:
		return fallback
	}
}
