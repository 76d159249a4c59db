// Package errors provides error handling for m6rc.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints and details
//
// Usage:
//
//	// Wrap with context
//	if err := os.MkdirAll(dir, 0o755); err != nil {
//	    return errors.Wrapf(err, "cannot create %s", dir)
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "pass a directory to -I")
//
// Compile failures are not built here: they are *metaphor.Diagnostic values
// carrying a source position. This package covers everything around them.
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Sentinel errors shared by the resolver and the CLI.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrNotFound indicates a referenced file or directory does not exist
	ErrNotFound = New("not found")

	// ErrIsDirectory indicates a regular file was required but a directory was found
	ErrIsDirectory = New("is a directory")

	// ErrUsage indicates the command line was malformed
	ErrUsage = New("usage error")

	// ErrOutput indicates the output destination could not be created or written
	ErrOutput = New("cannot write output")
)

// IsNotFound checks if an error is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsDirectory checks if an error is or wraps ErrIsDirectory.
func IsDirectory(err error) bool {
	return err != nil && Is(err, ErrIsDirectory)
}

// NewOutputError marks err as an output failure while keeping its message.
func NewOutputError(err error, path string) error {
	return Mark(Wrapf(err, "cannot write %s", path), ErrOutput)
}

// NewUsageError creates a usage error with a formatted message.
func NewUsageError(format string, args ...interface{}) error {
	return Wrap(ErrUsage, Newf(format, args...).Error())
}
