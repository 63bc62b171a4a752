// Package apierror provides the error taxonomy and the standardized error
// response envelope for the API. All errors returned to clients go through
// this package to ensure consistency and to prevent leaking internal details
// (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
)

// Kind classifies an error so handlers can map it to an HTTP status and
// callers can tell "fix your input" from "try later".
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindInsufficientStock
	KindInsufficientBalance
	KindLimitExceeded
	KindConflict
	// KindUnavailable marks store connection failures, as opposed to logic
	// failures — the client-facing message says to retry later.
	KindUnavailable
)

// HTTPStatus maps a Kind to the status code the legacy API used for it.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidInput, KindInsufficientStock, KindInsufficientBalance, KindLimitExceeded:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified domain error with a client-safe message.
type Error struct {
	Kind    Kind
	Mensaje string
}

func (e *Error) Error() string { return e.Mensaje }

// E builds a classified error.
func E(kind Kind, mensaje string) *Error {
	return &Error{Kind: kind, Mensaje: mensaje}
}

// Ef builds a classified error with a formatted message.
func Ef(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Mensaje: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind from err. Unclassified errors are KindInternal,
// except network-level driver failures (Postgres/Redis down), which classify
// as KindUnavailable.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if isConnFailure(err) {
		return KindUnavailable
	}
	return KindInternal
}

// isConnFailure reports whether err comes from the connection itself rather
// than from application logic.
func isConnFailure(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE)
}

// StatusOf returns the HTTP status for err.
func StatusOf(err error) int {
	return KindOf(err).HTTPStatus()
}

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
// The field is named "mensaje" to match the wire shape the front-end expects.
type APIError struct {
	Mensaje string `json:"mensaje"`
}

func New(msg string) *APIError {
	return &APIError{Mensaje: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Mensaje string            `json:"mensaje"`
	Fields  map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Mensaje: "Error de validacion", Fields: fields}
}
