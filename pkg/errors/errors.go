package errors

import (
	"errors"
	"fmt"
)

// Error represents a typed registry error. Code identifies the failure class
// and survives Clone, so errors.Is matches on it.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	var t *Error
	if !errors.As(target, &t) || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Error classes raised by the registry core.
var (
	ErrValidation             = New("VALIDATION_ERROR", "validation failed")
	ErrDuplicateIdentity      = New("DUPLICATE_IDENTITY", "identity already registered")
	ErrNotFound               = New("NOT_FOUND", "resource not found")
	ErrAlreadyAnnulled        = New("ALREADY_ANNULLED", "enrollment already annulled")
	ErrReferentialIntegrity   = New("REFERENTIAL_INTEGRITY", "resource is still referenced")
	ErrInvalidDate            = New("INVALID_DATE", "invalid date")
	ErrActiveEnrollmentExists = New("ACTIVE_ENROLLMENT_EXISTS", "active enrollment already exists")
	ErrNotSupported           = New("NOT_SUPPORTED", "operation not supported")
	ErrInternal               = New("INTERNAL_ERROR", "internal error")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// Clonef is Clone with a formatted message.
func Clonef(err *Error, format string, args ...interface{}) *Error {
	return Clone(err, fmt.Sprintf(format, args...))
}

// CodeOf returns the code carried by err, or the internal code for foreign errors.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	return FromError(err).Code
}
