package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// UnavailableError wraps storage-layer failures (connectivity, timeouts) so
// they are surfaced as-is instead of being mistaken for validation errors.
type UnavailableError struct {
	Err error
}

func NewUnavailableError(err error) error {
	return &UnavailableError{Err: err}
}

func (err UnavailableError) Error() string {
	if err.Err == nil {
		return "storage unavailable"
	}
	return "storage unavailable: " + err.Err.Error()
}

func IsUnavailable(err error) bool {
	_, ok := errors.Cause(err).(*UnavailableError)
	return ok
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
