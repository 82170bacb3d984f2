package settings

import (
	"errors"
	"fmt"
)

// Errors returned by settings operations.
var (
	// ErrUnknownSetting indicates no setting has the requested name.
	ErrUnknownSetting = errors.New("unknown setting")

	// ErrTypeMismatch indicates a value cannot be converted to the setting's type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrUnsupportedFormat indicates a settings file extension with no decoder.
	ErrUnsupportedFormat = errors.New("unsupported settings format")
)

// ParseError represents a settings file that could not be decoded.
type ParseError struct {
	// Path is the file that failed to parse.
	Path string
	// Err is the decoder's error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError describes a setting whose value is out of range.
type ValidationError struct {
	// Name is the setting name.
	Name string
	// Message describes the problem.
	Message string
	// Value is the rejected value.
	Value any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Name, e.Value, e.Message)
}
