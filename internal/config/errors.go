package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrUnknownLanguage indicates the named language has neither a
	// built-in profile nor a configured section.
	ErrUnknownLanguage = errors.New("unknown language")

	// ErrBadPair indicates a delimiter pair that is not exactly two
	// single-byte characters.
	ErrBadPair = errors.New("delimiter pair must be two characters")

	// ErrBadEscape indicates an escape that is not a single character.
	ErrBadEscape = errors.New("escape must be a single character")

	// ErrWatcherClosed indicates an operation on a closed watcher.
	ErrWatcherClosed = errors.New("watcher is closed")
)

// ParseError represents an error while parsing a settings file.
type ParseError struct {
	// Path is the file path that failed to parse.
	Path string
	// Message describes the parse error.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
