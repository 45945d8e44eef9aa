// Package chaterr defines the error taxonomy shared by the storage layer,
// the hub and the HTTP handlers.
package chaterr

import (
	"errors"
	"fmt"
)

// Code categorizes a chat operation failure.
type Code int

const (
	// AuthenticationMissing: no verifiable identity at connect time. The
	// connection is terminated and no session is created.
	AuthenticationMissing Code = iota + 1
	// AuthorizationDenied: a room or message action by a non-participant,
	// or a read by a non-receiver. Rejects the single operation only.
	AuthorizationDenied
	// NotFound: the referenced room, message, event or user does not exist.
	NotFound
	// InvalidArgument: a malformed or incomplete payload.
	InvalidArgument
	// Conflict: concurrent creation collided; find-or-create resolves these
	// internally, so the code should not normally reach a client.
	Conflict
	// Internal: durable-store failure. Clients get a generic message.
	Internal
)

func (c Code) String() string {
	switch c {
	case AuthenticationMissing:
		return "authentication_missing"
	case AuthorizationDenied:
		return "authorization_denied"
	case NotFound:
		return "not_found"
	case InvalidArgument:
		return "invalid_argument"
	case Conflict:
		return "conflict"
	case Internal:
		return "internal"
	default:
		return fmt.Sprintf("unknown_code_%d", int(c))
	}
}

// Error carries a code, a client-safe message and an optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds an Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and client-safe message to an underlying error.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf extracts the Code from err, defaulting to Internal for anything
// outside the taxonomy.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return Internal
}

// Has reports whether err carries the given code.
func Has(err error, code Code) bool {
	return CodeOf(err) == code
}

// ClientMessage returns the message safe to echo back to the issuing
// connection. Internal causes are never exposed.
func ClientMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Code != Internal {
		return e.Message
	}
	return "internal error"
}
