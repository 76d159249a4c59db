package metaphor

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/teranos/m6rc/errors"
)

// ErrorKind categorizes compile failures for programmatic handling.
type ErrorKind string

const (
	KindTabIndentation       ErrorKind = "TabIndentation"
	KindOrphanText           ErrorKind = "OrphanText"
	KindInconsistentIndent   ErrorKind = "InconsistentIndent"
	KindMisplacedText        ErrorKind = "MisplacedText"
	KindMissingReference     ErrorKind = "MissingReference"
	KindIncludeNotFound      ErrorKind = "IncludeNotFound"
	KindEmbedNotFound        ErrorKind = "EmbedNotFound"
	KindEmbedIsDirectory     ErrorKind = "EmbedIsDirectory"
	KindCircularInclude      ErrorKind = "CircularInclude"
	KindIncludeDepthExceeded ErrorKind = "IncludeDepthExceeded"
	KindIOFailure            ErrorKind = "IOFailure"
	KindRootUnreadable       ErrorKind = "RootUnreadable"
)

// Process exit codes owned by the compiler core.
const (
	ExitOK           = 0
	ExitCompileError = 2 // Any structural or resolution failure
	ExitRootInput    = 3 // The root document cannot be opened
)

// ErrorContext selects how a diagnostic is rendered.
type ErrorContext int

const (
	ErrorContextPlain    ErrorContext = iota // Logs and files: a single line
	ErrorContextTerminal                     // Coloured, with source excerpt and hints
)

// Diagnostic is the single fatal error recorded by a compile.
type Diagnostic struct {
	Kind    ErrorKind
	Message string
	Pos     Position
	Input   string   // Offending source line, when known
	Chain   []string // Inclusion chain for CircularInclude
	Roots   []string // Search roots tried for not-found errors
	Hints   []string
	Err     error // Underlying error
}

// NewDiagnostic creates a Diagnostic of the given kind at pos.
func NewDiagnostic(kind ErrorKind, pos Position, message string) *Diagnostic {
	return &Diagnostic{
		Kind:    kind,
		Message: message,
		Pos:     pos,
	}
}

// Newf is NewDiagnostic with a formatted message.
func Newf(kind ErrorKind, pos Position, format string, args ...interface{}) *Diagnostic {
	return NewDiagnostic(kind, pos, fmt.Sprintf(format, args...))
}

// WithInput records the source line the error points at.
func (d *Diagnostic) WithInput(line string) *Diagnostic {
	d.Input = line
	return d
}

// WithHint adds a suggestion for fixing the error.
func (d *Diagnostic) WithHint(hint string) *Diagnostic {
	d.Hints = append(d.Hints, hint)
	return d
}

// WithUnderlying sets the wrapped error.
func (d *Diagnostic) WithUnderlying(err error) *Diagnostic {
	d.Err = err
	return d
}

// Error renders "<file>:<line>:<column>: <message>", or "<file>: <message>"
// when the position is unknown.
func (d *Diagnostic) Error() string {
	return d.FormatError(ErrorContextPlain)
}

// Unwrap for errors.Is/As compatibility
func (d *Diagnostic) Unwrap() error {
	return d.Err
}

// FormatError generates a context-appropriate error message.
func (d *Diagnostic) FormatError(ctx ErrorContext) string {
	head := d.Message
	if loc := d.Pos.String(); loc != "" {
		head = loc + ": " + d.Message
	}
	if ctx == ErrorContextPlain {
		return head
	}

	var sb strings.Builder
	sb.WriteString(pterm.Red(head))
	if d.Input != "" && d.Pos.Column > 0 {
		caret := strings.Repeat(" ", d.Pos.Column-1)
		sb.WriteString("\n  ")
		sb.WriteString(d.Input)
		sb.WriteString("\n  ")
		sb.WriteString(caret)
		sb.WriteString(pterm.Yellow("^"))
	}
	for _, hint := range d.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(pterm.LightCyan("hint: "))
		sb.WriteString(hint)
	}
	return sb.String()
}

// AsDiagnostic extracts a Diagnostic from an error chain.
func AsDiagnostic(err error) (*Diagnostic, bool) {
	var d *Diagnostic
	if errors.As(err, &d) {
		return d, true
	}
	return nil, false
}

// ExitCode maps a compile result to the process exit code the CLI should use.
// Errors that are not diagnostics are left to the caller and map to -1.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	d, ok := AsDiagnostic(err)
	if !ok {
		return -1
	}
	if d.Kind == KindRootUnreadable {
		return ExitRootInput
	}
	return ExitCompileError
}
