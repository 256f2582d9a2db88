// Package session drives an interview from question generation through final
// scoring, enforcing user ownership on every operation.
package session

import (
	"errors"
	"fmt"
)

// ErrInvalidMode indicates the requested interview mode is not one of
// hr, technical or behavioral.
var ErrInvalidMode = errors.New("invalid mode. Use hr, technical, or behavioral")

// NotFoundError indicates an absent record or one owned by another user.
// The two cases are deliberately indistinguishable to the caller.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// UnavailableError indicates the AI collaborator failed; the condition is
// retryable.
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}
