package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/teranos/m6rc/errors"
	"github.com/teranos/m6rc/metaphor"
)

// Exit codes added by the command line on top of the compiler's.
const (
	ExitUsage  = 1
	ExitOutput = 4
)

// ExitError carries an explicit process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// usageError turns a flag or argument error into an exit-1 error that points
// at --help.
func usageError(cmd *cobra.Command, err error) error {
	return &ExitError{
		Code: ExitUsage,
		Err:  errors.WithHintf(errors.Mark(err, errors.ErrUsage), "see '%s --help'", cmd.CommandPath()),
	}
}

// ReportError writes err to w and returns the exit code for it.
//
// Diagnostics start with <file>:<line>:<column> so editors can jump to them,
// followed by the source excerpt. Other errors print "error: <message>" and
// any hints attached with errors.WithHint.
func ReportError(w io.Writer, err error) int {
	if err == nil {
		return metaphor.ExitOK
	}

	if d, ok := metaphor.AsDiagnostic(err); ok {
		fmt.Fprintln(w, d.FormatError(metaphor.ErrorContextTerminal))
		return metaphor.ExitCode(d)
	}

	fmt.Fprintf(w, "error: %s\n", err.Error())
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(w, "  hint: %s\n", hint)
	}
	return exitCodeFor(err)
}

func exitCodeFor(err error) int {
	var exitErr *ExitError
	switch {
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.Is(err, errors.ErrOutput):
		return ExitOutput
	default:
		// cobra's own argument errors and anything unclassified
		return ExitUsage
	}
}
