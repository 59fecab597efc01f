package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for boundary translation.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindForbidden
	KindNotFound
	KindAuth
	KindInternal
)

// Error is the application error carried from services up to the
// request boundary. Message is safe to return to clients; Err is the
// wrapped cause and is only logged server-side.
type Error struct {
	Kind    Kind   `json:"-"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode maps the error kind to an HTTP status. The error-handler
// middleware calls this through the StatusCode() interface check.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindAuth:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func ValidationWrap(message string, err error) *Error {
	return &Error{Kind: KindValidation, Message: message, Err: err}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func ConflictWrap(message string, err error) *Error {
	return &Error{Kind: KindConflict, Message: message, Err: err}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NotFound deliberately reports the same message for missing and
// not-owned resources so ownership is never leaked.
func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func Auth(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal server error", Err: err}
}

// AlreadyProcessed rejects a repeated transition on a terminal record.
func AlreadyProcessed(resource string) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf("%s already processed", resource)}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}
