package config

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrDottedAssignment is returned by Map.Set when the key contains a dot.
// Dotted strings are split for reads but never for writes; refusing the
// write keeps a caller from silently creating a literal "a.b" key when
// nested assignment was meant.
var ErrDottedAssignment = errors.New("dotted keys cannot be assigned; set nested values through the parent map")

// ParseError indicates malformed YAML in a configuration document.
type ParseError struct {
	// Path is the source file, or empty when reading from a stream.
	Path string

	// Line is the 1-based line of the syntax error, or 0 when the
	// underlying parser did not report one.
	Line int

	// Err is the underlying yaml error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("parse yaml: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NotFoundError indicates an explicitly named file does not exist: either a
// path handed to the loader directly or the target of a #!extends
// directive. Candidate files probed during the user-override search are
// skipped silently and never produce this error.
type NotFoundError struct {
	// Path is the file that does not exist.
	Path string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("configuration file not found: %s", e.Path)
}

// Unwrap makes the error match errors.Is(err, fs.ErrNotExist).
func (e *NotFoundError) Unwrap() error {
	return fs.ErrNotExist
}

// KeyError indicates a strict-mode dotted lookup did not resolve.
type KeyError struct {
	// Key is the dotted path that failed to resolve.
	Key string
}

// Error implements the error interface.
func (e *KeyError) Error() string {
	return fmt.Sprintf("key not found: %s", e.Key)
}
