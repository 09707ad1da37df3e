package autherr

import (
	"errors"
	"fmt"
)

// Error is a typed, coded authentication error. The zero value is not
// usable; construct through [New] or [Ensure].
type Error struct {
	ID       ID
	Code     string
	Message  string
	Override string
	Meta     map[string]string
	Cause    error
}

// New returns the catalog error for id.
func New(id ID) *Error {
	return &Error{
		ID:      id,
		Code:    Code(id),
		Message: DefaultMessage(id),
	}
}

// WithMessage returns a copy carrying an override display message. The
// catalog default stays in Message so normalization can still correlate it.
func (e *Error) WithMessage(msg string) *Error {
	out := *e
	out.Override = msg
	return &out
}

// WithMeta returns a copy with key set in the metadata map.
func (e *Error) WithMeta(key, value string) *Error {
	out := *e
	out.Meta = make(map[string]string, len(e.Meta)+1)
	for k, v := range e.Meta {
		out.Meta[k] = v
	}
	out.Meta[key] = value
	return &out
}

// WithCause returns a copy wrapping the upstream error.
func (e *Error) WithCause(cause error) *Error {
	out := *e
	out.Cause = cause
	return &out
}

// Display is the user-facing string: "<code>: <message>", preferring the
// override message when one is set.
func (e *Error) Display() string {
	msg := e.Message
	if e.Override != "" {
		msg = e.Override
	}
	return e.Code + ": " + msg
}

// Error implements the error interface with the display string.
func (e *Error) Error() string {
	return e.Display()
}

// Unwrap exposes the upstream cause to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches two typed errors by identifier, so
// errors.Is(err, autherr.New(autherr.IDPINMismatch)) works regardless of
// message overrides or metadata.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.ID == t.ID
}

// IsID reports whether err carries the given identifier anywhere in its
// unwrap chain.
func IsID(err error, id ID) bool {
	var t *Error
	if errors.As(err, &t) {
		return t.ID == id
	}
	return false
}

// Ensure converts an arbitrary thrown value into a typed Error.
//
// Typed errors pass through unchanged, which makes Ensure idempotent. A
// generic error or raw string is matched against the catalog's default
// messages to recover its original identifier (best-effort; see
// matchMessage); when no entry matches, the caller-supplied fallback wins
// and the original message is carried forward as an override. Any other
// value becomes the fallback with metadata describing the raw type.
func Ensure(v any, fallback ID) *Error {
	switch val := v.(type) {
	case *Error:
		return val
	case error:
		var typed *Error
		if errors.As(val, &typed) {
			return typed
		}
		if id, ok := matchMessage(val.Error()); ok {
			return New(id).WithCause(val)
		}
		return New(fallback).WithMessage(val.Error()).WithCause(val)
	case string:
		if id, ok := matchMessage(val); ok {
			return New(id)
		}
		return New(fallback).WithMessage(val)
	case nil:
		return New(fallback)
	default:
		return New(fallback).WithMeta("raw_type", fmt.Sprintf("%T", v))
	}
}
