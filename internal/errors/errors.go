// Package errors provides error handling for tagkb.
//
// It re-exports github.com/cockroachdb/errors so callers get stack traces,
// wrapping and user-facing hints from one import, and defines the sentinel
// kinds every tag engine failure is classified by.
//
// Usage:
//
//	if err := engine.AddEdge("js", "programming"); err != nil {
//	    if errors.Is(err, errors.ErrCycleDetected) {
//	        // reject the edit
//	    }
//	}
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New   = crdb.New
	Wrap  = crdb.Wrap
	Wrapf = crdb.Wrapf
)

// User-facing hints
var (
	WithHint     = crdb.WithHint
	GetAllHints  = crdb.GetAllHints
	FlattenHints = crdb.FlattenHints
)

// Error inspection
var (
	Is    = crdb.Is
	IsAny = crdb.IsAny
)

// Sentinel kinds for tag engine operations.
// Wrap these with Wrap/Wrapf to add context while keeping errors.Is working.
var (
	// ErrInvalidInput indicates an argument normalized to nothing, an empty
	// filter list, an unknown operator or sort key, or a disabled feature.
	ErrInvalidInput = New("invalid input")

	// ErrNotFound indicates a missing item tag, category, tag set or edge.
	ErrNotFound = New("not found")

	// ErrSelfReference indicates a tag proposed as its own parent or synonym.
	ErrSelfReference = New("self reference")

	// ErrCycleDetected indicates a hierarchy edge that would close a cycle.
	ErrCycleDetected = New("cycle detected")
)

// IsInvalidInput reports whether err is or wraps ErrInvalidInput.
func IsInvalidInput(err error) bool {
	return err != nil && Is(err, ErrInvalidInput)
}

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// NewInvalidInputf creates an invalid-input error with a formatted message.
func NewInvalidInputf(format string, args ...interface{}) error {
	return Wrapf(ErrInvalidInput, format, args...)
}

// NewNotFoundf creates a not-found error with a formatted message.
func NewNotFoundf(format string, args ...interface{}) error {
	return Wrapf(ErrNotFound, format, args...)
}
