// Package errors provides the structured error type shared by every layer
package errors

// Import as perr (platform/errors) to keep the stdlib name free

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies an error for callers and the wire
// values are persisted in API responses so only append
type ErrorCode uint16

const (
	// ErrorCodeUnknown is for unclassified errors
	ErrorCodeUnknown ErrorCode = iota

	// ErrorCodePanic is for panics recovered by middleware
	ErrorCodePanic

	// ErrorCodeUnavailable is for a provider or dependency that failed in a way a later call may not
	ErrorCodeUnavailable

	// ErrorCodeTooManyRequests is for provider quota exhaustion
	ErrorCodeTooManyRequests

	// ErrorCodeUnauthorized is for rejected or revoked credentials
	ErrorCodeUnauthorized

	// ErrorCodeForbidden is for access control failures
	ErrorCodeForbidden

	// ErrorCodeInvalidArgument is for well formed but unusable input
	ErrorCodeInvalidArgument

	// ErrorCodeValidation is for request bodies that fail validation
	ErrorCodeValidation

	// ErrorCodeJSON is for undecodable JSON
	ErrorCodeJSON

	// ErrorCodeParse is for provider rows with an unexpected shape or type
	ErrorCodeParse

	// ErrorCodeNotFound is for missing resources
	ErrorCodeNotFound

	// ErrorCodeDuplicateKey is for unique constraint violations
	ErrorCodeDuplicateKey

	// ErrorCodeDB is for store failures
	ErrorCodeDB

	// ErrorCodeTimeout is for an external call that ran past its deadline
	ErrorCodeTimeout
)

var codeNames = map[ErrorCode]string{
	ErrorCodeUnknown:         "unknown",
	ErrorCodePanic:           "panic",
	ErrorCodeUnavailable:     "unavailable",
	ErrorCodeTooManyRequests: "too_many_requests",
	ErrorCodeUnauthorized:    "unauthorized",
	ErrorCodeForbidden:       "forbidden",
	ErrorCodeInvalidArgument: "invalid_argument",
	ErrorCodeValidation:      "validation",
	ErrorCodeJSON:            "json",
	ErrorCodeParse:           "parse",
	ErrorCodeNotFound:        "not_found",
	ErrorCodeDuplicateKey:    "duplicate_key",
	ErrorCodeDB:              "db",
	ErrorCodeTimeout:         "timeout",
}

// String returns the snake_case name of the code
func (c ErrorCode) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("code(%d)", uint16(c))
}

// HTTPStatusCode turns an ErrorCode into an http status code
func HTTPStatusCode(c ErrorCode) int {
	switch c {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeInvalidArgument:
		return http.StatusUnprocessableEntity
	case ErrorCodeDuplicateKey:
		return http.StatusConflict
	case ErrorCodeValidation, ErrorCodeJSON:
		return http.StatusBadRequest
	case ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrorCodeForbidden:
		return http.StatusForbidden
	case ErrorCodeTooManyRequests:
		return http.StatusTooManyRequests
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrorCodeParse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrNotFound is a sentinel not found error
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Error carries a machine code, a developer message, an optional field and op tag,
// and the wrapped cause
type Error struct {
	orig  error
	msg   string
	code  ErrorCode
	field string
	op    string
}

// Wire is the JSON form returned by the API
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}
	return e.msg
}

// Unwrap returns the wrapped error, if any
func (e *Error) Unwrap() error { return e.orig }

// Code returns the error code
func (e *Error) Code() ErrorCode { return e.code }

// Field returns the offending field, if any
func (e *Error) Field() string { return e.field }

// Op returns the operation label, if set
func (e *Error) Op() string { return e.op }

// ToWire converts an *Error to a Wire payload
func (e *Error) ToWire() Wire { return Wire{Code: e.code, Message: e.msg, Field: e.field} }

// WireFrom converts any error into a Wire payload; nil gives the zero Wire
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return e.ToWire()
	}
	return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
}

// Root returns the deepest wrapped cause
func Root(err error) error {
	for err != nil {
		u := stderrs.Unwrap(err)
		if u == nil {
			return err
		}
		err = u
	}
	return nil
}

// CodeOf extracts the outermost ErrorCode, defaulting to Unknown
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err has the given code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// IsExternal reports whether err came from an outside provider rather than from us
// or the store. Ingestion skips the entity on these
func IsExternal(err error) bool {
	switch CodeOf(err) {
	case ErrorCodeUnavailable, ErrorCodeTooManyRequests, ErrorCodeUnauthorized,
		ErrorCodeForbidden, ErrorCodeTimeout:
		return true
	}
	return false
}

// HTTPStatus returns the mapped HTTP status for any error
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// As unwraps and returns (*Error, true) if err is one of ours
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// WithField returns a copy of err with field set; foreign errors pass through
func WithField(err error, field string) error {
	if e, ok := As(err); ok {
		c := *e
		c.field = field
		return &c
	}
	return err
}

// WithOp returns a copy of err with an operation label; foreign errors pass through
func WithOp(err error, op string) error {
	if e, ok := As(err); ok {
		c := *e
		c.op = op
		return &c
	}
	return err
}

// New returns a new *Error with the given code and message
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf returns a new *Error with code and formatted message
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap returns a new *Error that wraps orig with code and message
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf returns a new *Error that wraps orig with code and formatted message
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

// WrapIf wraps only when err != nil
func WrapIf(err error, code ErrorCode, msg string) error {
	if err == nil {
		return nil
	}
	return Wrap(err, code, msg)
}

// NotFoundf returns a not found error
func NotFoundf(format string, a ...any) error { return Newf(ErrorCodeNotFound, format, a...) }

// InvalidArgf returns an invalid argument error
func InvalidArgf(format string, a ...any) error { return Newf(ErrorCodeInvalidArgument, format, a...) }

// JSONErrf returns a JSON error
func JSONErrf(format string, a ...any) error { return Newf(ErrorCodeJSON, format, a...) }

// Parsef returns a provider row parse error
func Parsef(format string, a ...any) error { return Newf(ErrorCodeParse, format, a...) }

// PanicErrf returns a panic error
func PanicErrf(format string, a ...any) error { return Newf(ErrorCodePanic, format, a...) }

// Unavailablef returns an unavailable error
func Unavailablef(format string, a ...any) error { return Newf(ErrorCodeUnavailable, format, a...) }

// Internalf returns a generic internal error
func Internalf(format string, a ...any) error { return Newf(ErrorCodeUnknown, format, a...) }

// HTTP bundles status and wire in one shot
func HTTP(err error) (int, Wire) {
	if err == nil {
		return http.StatusOK, Wire{}
	}
	return HTTPStatus(err), WireFrom(err)
}

// Retryable reports whether the next scheduled cycle is likely to succeed
// store contention and provider outages qualify, bad input does not
func Retryable(err error) bool {
	if IsRetryable(err) {
		return true
	}
	switch CodeOf(err) {
	case ErrorCodeUnavailable, ErrorCodeTooManyRequests, ErrorCodeTimeout:
		return true
	}
	return false
}
