package dotzen

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingKey is returned when a key is absent from every source and no default was given.
	ErrMissingKey = errors.New("dotzen: missing key")

	// ErrCast is returned when a value is present but cannot be converted to the requested type.
	ErrCast = errors.New("dotzen: cast failed")

	// ErrUnknownAlgorithm is returned when no transform is registered under the requested name.
	ErrUnknownAlgorithm = errors.New("dotzen: unknown algorithm")

	// ErrUnsupportedOperation is returned when decrypting through a one-way transform.
	ErrUnsupportedOperation = errors.New("dotzen: unsupported operation")

	// ErrDecode is returned when a reversible transform is handed malformed input.
	ErrDecode = errors.New("dotzen: malformed encoded value")
)

// MissingKeyError reports a key that no source provides.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("dotzen: required key %q missing", e.Key)
}

func (e *MissingKeyError) Is(target error) bool { return target == ErrMissingKey }

// CastError reports a value that could not be converted to Type.
type CastError struct {
	Key  string
	Type string
	Err  error
}

func (e *CastError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("dotzen: cannot cast to %s: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("dotzen: key %q: cannot cast to %s: %v", e.Key, e.Type, e.Err)
}

func (e *CastError) Unwrap() error { return e.Err }

func (e *CastError) Is(target error) bool { return target == ErrCast }
