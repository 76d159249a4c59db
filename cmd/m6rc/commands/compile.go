package commands

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/teranos/m6rc/am"
	"github.com/teranos/m6rc/compiler"
	"github.com/teranos/m6rc/errors"
	"github.com/teranos/m6rc/logger"
)

// stdinArg selects standard input as the root document.
const stdinArg = "-"

func runCompile(cmd *cobra.Command, env *cliEnv, input string) error {
	opts, err := env.compilerOptions(cmd)
	if err != nil {
		return err
	}
	c := compiler.New(opts)

	if env.watch {
		if input == stdinArg {
			return errors.NewUsageError("--watch needs a file, not standard input")
		}
		return runWatch(cmd, env, c, input)
	}

	res, err := compileInput(c, cmd.InOrStdin(), input)
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), env.output, res.Prompt)
}

// compileInput compiles the file named by input, or stdin for "-".
func compileInput(c *compiler.Compiler, stdin io.Reader, input string) (*compiler.Result, error) {
	if input == stdinArg {
		return c.CompileReader(stdin, compiler.StdinName)
	}
	return c.CompileFile(input)
}

// writeOutput writes the prompt to path, or to stdout when path is empty or
// "-". Nothing is written unless the compile succeeded.
func writeOutput(stdout io.Writer, path, prompt string) error {
	if path == "" || path == stdinArg {
		if _, err := io.WriteString(stdout, prompt); err != nil {
			return errors.NewOutputError(err, "standard output")
		}
		return nil
	}

	if err := os.WriteFile(path, []byte(prompt), am.DefaultFilePermissions); err != nil {
		return errors.NewOutputError(err, path)
	}
	logger.Infow("Wrote prompt", logger.FieldOutput, path, logger.FieldBytes, len(prompt))
	return nil
}
