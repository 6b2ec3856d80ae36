package core

import "github.com/pkg/errors"

// ErrStoreUnavailable signals a transport or auth failure talking to the
// Reference Store. The operation is abandoned and state is unchanged.
var ErrStoreUnavailable = errors.New("reference store unavailable")

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

// IsStoreUnavailable reports whether err (or its cause) is ErrStoreUnavailable.
func IsStoreUnavailable(err error) bool {
	return errors.Cause(err) == ErrStoreUnavailable
}
