// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
//
// Services return *Error values carrying a Kind; handlers translate the kind into
// an HTTP status without parsing the message.
package apierror

import (
	"errors"
	"net/http"
)

// Kind classifies a domain error independently of the transport.
type Kind string

const (
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindValidation Kind = "validation"
)

// Error is a domain error with a user-facing message.
type Error struct {
	Kind    Kind
	Message string
	Meta    map[string]any
}

func (e *Error) Error() string { return e.Message }

// WithMeta attaches a machine-readable detail (e.g. the blocking count).
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]any)
	}
	e.Meta[key] = value
	return e
}

func NotFound(msg string) *Error   { return &Error{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) *Error   { return &Error{Kind: KindConflict, Message: msg} }
func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }

// IsKind reports whether err (or anything it wraps) is a domain error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// Status maps a domain error to its HTTP status. ok is false for errors that
// are not domain errors; those must be treated as internal failures.
func Status(err error) (status int, ok bool) {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError, false
	}
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound, true
	case KindConflict:
		return http.StatusConflict, true
	case KindValidation:
		return http.StatusUnprocessableEntity, true
	default:
		return http.StatusBadRequest, true
	}
}

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string         `json:"detail"`
	Code   string         `json:"code,omitempty"`
	Meta   map[string]any `json:"meta,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// FromError builds the envelope for a domain error.
func FromError(e *Error) *APIError {
	return &APIError{Detail: e.Message, Code: string(e.Kind), Meta: e.Meta}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Code: string(KindValidation), Fields: fields}
}
