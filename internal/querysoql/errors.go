package querysoql

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes compile errors.
type ErrorCode string

const (
	// CodeMetadataUnresolved indicates the metadata resolver could not
	// describe a related object.
	CodeMetadataUnresolved ErrorCode = "METADATA_UNRESOLVED"

	// CodeUnsupportedPredicate indicates a nil predicate in a where or
	// having list.
	CodeUnsupportedPredicate ErrorCode = "UNSUPPORTED_PREDICATE"

	// CodeClauseFailed wraps any other error returned by a clause strategy.
	CodeClauseFailed ErrorCode = "CLAUSE_FAILED"
)

// ErrNoResolver is returned when a relationship must be expanded but the
// Compiler has no metadata resolver.
var ErrNoResolver = errors.New("no metadata resolver configured")

// CompileError is returned by Compile. No partial output accompanies it.
type CompileError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Clause is the clause being compiled when the error occurred.
	Clause ClauseKind

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	msg := fmt.Sprintf("compile %s: %s: %s", e.Clause, e.Code, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *CompileError) Unwrap() error {
	return e.Err
}

// IsMetadataError reports whether err is a relationship resolution failure.
// Uses errors.As to handle wrapped errors.
func IsMetadataError(err error) bool {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Code == CodeMetadataUnresolved
	}
	return false
}
