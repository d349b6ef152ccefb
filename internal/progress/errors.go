package progress

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	ErrorMissingKey   ErrorKind = "missing_key"
	ErrorInvalidValue ErrorKind = "invalid_value"
)

var (
	ErrMissingKey   = errors.New("session key missing")
	ErrInvalidValue = errors.New("session value invalid")
)

type Error struct {
	Kind ErrorKind
	Key  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return ""
	case e.Key != "" && e.Err != nil:
		return fmt.Sprintf("%s %q: %v", e.Kind, e.Key, e.Err)
	case e.Key != "":
		return fmt.Sprintf("%s %q", e.Kind, e.Key)
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	switch target {
	case ErrMissingKey:
		return e.Kind == ErrorMissingKey
	case ErrInvalidValue:
		return e.Kind == ErrorInvalidValue
	}
	return false
}

func missingKeyError(key string) *Error {
	return &Error{Kind: ErrorMissingKey, Key: key}
}

// InvalidValueError reports a session value outside the range a writer accepts.
func InvalidValueError(key string, err error) *Error {
	return &Error{Kind: ErrorInvalidValue, Key: key, Err: err}
}
