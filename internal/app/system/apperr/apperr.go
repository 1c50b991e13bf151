// Package apperr defines the error kinds the API surfaces and how each maps to
// an HTTP status.
//
// Services return *Error values (or wrap them); handlers call Status to pick
// the response code and PublicMessage to pick the text shown to the client.
// Anything that is not an *Error is treated as Internal.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for transport.
type Kind int

const (
	Internal Kind = iota
	Validation
	NotFound
	Conflict
	Unauthorized
	Forbidden
	TooManyRequests
	Delivery
	Geocoding
	Timeout
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case TooManyRequests:
		return "too_many_requests"
	case Delivery:
		return "delivery"
	case Geocoding:
		return "geocoding"
	case Timeout:
		return "timeout"
	default:
		return "internal"
	}
}

// Error is a classified error with a user-facing message.
type Error struct {
	Kind    Kind
	Message string            // safe to show to clients
	Fields  map[string]string // field-level violations (Validation only)
	Err     error             // underlying cause, logged but never sent
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error with the same Kind and, if set, the same Message.
// This lets callers compare against sentinel values such as otp.ErrMismatch.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

// New returns an *Error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap returns an *Error of the given kind with an underlying cause. A
// context deadline in err is reported as Timeout regardless of kind.
func Wrap(kind Kind, msg string, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		kind = Timeout
	}
	return &Error{Kind: kind, Message: msg, Err: err}
}

// Invalid returns a Validation error carrying field violations.
func Invalid(msg string, fields map[string]string) *Error {
	return &Error{Kind: Validation, Message: msg, Fields: fields}
}

// KindOf returns the Kind of err, or Internal if err is not classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout
	}
	return Internal
}

// Status maps err to an HTTP status code.
func Status(err error) int {
	switch KindOf(err) {
	case Validation, Conflict:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case TooManyRequests:
		return http.StatusTooManyRequests
	case Timeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the text that may be shown to a client for err.
// Unclassified errors get a generic message.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "The request timed out. Please try again."
	}
	return "Internal server error"
}

// FieldsOf returns the field violations carried by err, if any.
func FieldsOf(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}
