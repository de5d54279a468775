package hn

import (
	"fmt"
)

// ErrorKind classifies upstream failures.
type ErrorKind string

const (
	// KindTransport represents network failures and timeouts reaching the upstream.
	KindTransport ErrorKind = "transport"

	// KindStatus represents non-200 responses.
	KindStatus ErrorKind = "status"

	// KindDecode represents response bodies that do not match an expected shape.
	KindDecode ErrorKind = "decode"
)

// Error represents a classified upstream failure with additional context.
//
// A JSON null body is not an error: lookups for ids or usernames the
// upstream does not know return nil values without an Error.
type Error struct {
	Kind   ErrorKind
	Path   string
	Status int
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Kind == KindStatus:
		return fmt.Sprintf("hn %s error (status %d): %s", e.Kind, e.Status, e.Path)
	case e.Err != nil:
		return fmt.Sprintf("hn %s error: %s: %v", e.Kind, e.Path, e.Err)
	default:
		return fmt.Sprintf("hn %s error: %s", e.Kind, e.Path)
	}
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}
