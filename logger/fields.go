package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across m6rc.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity
	FieldCompileID = "compile_id"
	FieldComponent = "component"

	// Sources
	FieldFile      = "file"
	FieldLine      = "line"
	FieldReference = "reference"
	FieldRoots     = "roots"
	FieldDepth     = "depth"
	FieldLanguage  = "language"

	// Outputs
	FieldOutput = "output"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError     = "error"
	FieldErrorKind = "error_kind"

	// Counts and sizes
	FieldCount = "count"
	FieldBytes = "bytes"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	c := &Compiler{log: logger.ComponentLogger("compiler")}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
// Use for sub-operations that need extra context fields.
//
// Example:
//
//	compileLog := logger.ChildLogger(baseLogger, logger.FieldCompileID, id)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
