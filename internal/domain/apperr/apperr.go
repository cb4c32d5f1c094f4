// Package apperr defines the error taxonomy shared by all handlers and
// services, with a stable machine-readable kind and an HTTP status mapping.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure for the outermost handler scope.
type Kind string

const (
	KindInvalidInput       Kind = "invalid_input"
	KindNotFound           Kind = "not_found"
	KindUpstream           Kind = "upstream_error"
	KindServiceUnavailable Kind = "service_unavailable"
	// KindStorageCorruption is recovered transparently by the stores and is
	// never surfaced through a handler; it exists for logging only.
	KindStorageCorruption Kind = "storage_corruption"
)

// Error carries a taxonomy kind alongside a human-readable message and an
// optional wrapped cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus maps a kind to its response status tier.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstream:
		return http.StatusBadGateway
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func InvalidInput(msg string) *Error {
	return &Error{Kind: KindInvalidInput, Msg: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

func Upstream(msg string, err error) *Error {
	return &Error{Kind: KindUpstream, Msg: msg, Err: err}
}

func ServiceUnavailable(msg string) *Error {
	return &Error{Kind: KindServiceUnavailable, Msg: msg}
}

func StorageCorruption(msg string, err error) *Error {
	return &Error{Kind: KindStorageCorruption, Msg: msg, Err: err}
}

// KindOf extracts the taxonomy kind from any error in the chain; unknown
// errors report an empty kind.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// As unwraps err into an *Error when one is present in the chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	ok := errors.As(err, &appErr)
	return appErr, ok
}
