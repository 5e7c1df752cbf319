// Package apperr defines the application error taxonomy shared by every feature.
//
// Each failure surfaced to a caller belongs to exactly one kind. Callers classify
// errors with errors.Is against the kind sentinels, never by message.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds.
var (
	// ErrValidation marks bad input shape, length or emptiness.
	ErrValidation = errors.New("validation error")
	// ErrConflict marks a uniqueness collision such as a taken username or email.
	ErrConflict = errors.New("conflict")
	// ErrAuth marks bad credentials or a missing session.
	ErrAuth = errors.New("unauthenticated")
	// ErrAuthz marks an authenticated caller acting on a resource it does not own.
	ErrAuthz = errors.New("forbidden")
	// ErrNotFound marks a missing recipe or user.
	ErrNotFound = errors.New("not found")
	// ErrPersistence marks a storage failure. The transaction has been rolled back.
	ErrPersistence = errors.New("persistence failure")
)

// Error is a classified application error with a caller-facing message.
type Error struct {
	kind  error
	msg   string
	cause error
}

// New returns an error of the given kind with a caller-facing message.
func New(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// Error returns the caller-facing message.
func (e *Error) Error() string {
	return e.msg
}

// Is reports whether target is the kind of e.
func (e *Error) Is(target error) bool {
	return target == e.kind
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Kind returns the kind sentinel of e.
func (e *Error) Kind() error {
	return e.kind
}

// Validation returns an ErrValidation error with a formatted message.
func Validation(format string, args ...any) error {
	return &Error{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

// Persistence wraps a storage failure that happened during op.
// The message stays generic; the cause is kept for logging.
func Persistence(op string, cause error) error {
	return &Error{kind: ErrPersistence, msg: "failed to " + op, cause: cause}
}

// Wrap returns err unchanged when it is already classified, and otherwise wraps it as
// a persistence failure of op. A nil err stays nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return Persistence(op, err)
}

// HTTPStatus maps err to the status code used by both JSON and page routes.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, ErrAuthz):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the caller-facing message of err. Unclassified errors never leak
// their text.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.msg
	}
	return "internal error"
}
