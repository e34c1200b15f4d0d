package attrview

import (
	"errors"
	"fmt"
)

var (
	// ErrAttributeNotFound signals a lookup of a key that was not present when
	// the view was constructed. Missing keys never default.
	ErrAttributeNotFound = errors.New("attrview: attribute not found")
	// ErrTypeMismatch signals a value whose kind does not match what the caller
	// asked for (e.g. a map where a string was expected).
	ErrTypeMismatch = errors.New("attrview: type mismatch")
)

// FieldError annotates a lookup failure with the dotted path that failed.
type FieldError struct {
	Path string
	Err  error
}

func (e *FieldError) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case errors.Is(e.Err, ErrAttributeNotFound):
		return fmt.Sprintf("attrview: missing field %q", e.Path)
	case e.Err != nil:
		return fmt.Sprintf("attrview: field %q: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("attrview: field %q", e.Path)
	}
}

func (e *FieldError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func missing(path string) error {
	return &FieldError{Path: path, Err: ErrAttributeNotFound}
}

func mismatch(path, want string, got Value) error {
	return &FieldError{
		Path: path,
		Err:  fmt.Errorf("%w: want %s, got %s", ErrTypeMismatch, want, got.describe()),
	}
}
