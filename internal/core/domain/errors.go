package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Each maps to exactly one HTTP status in the API error handler.
var (
	ErrValidation         = errors.New("validation failed")
	ErrUnauthenticated    = errors.New("not authorized")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access forbidden")
	ErrNotFound           = errors.New("not found")
	ErrDuplicateEmail     = errors.New("user already exists with this email")
	ErrSelfDeletion       = errors.New("you cannot delete your own account")
	ErrActorNotFound      = errors.New("activity actor not found")
)

var (
	ErrUserNotFound     = &Error{Kind: ErrNotFound, Message: "User not found"}
	ErrResourceNotFound = &Error{Kind: ErrNotFound, Message: "Resource not found"}
)

// Error is a kind-tagged error whose Message is safe to return to the caller.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// Errorf builds an *Error of the given kind with a formatted message.
func Errorf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
