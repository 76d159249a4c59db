package commands

import (
	"github.com/spf13/cobra"
	"github.com/teranos/m6rc/compiler"
	"github.com/teranos/m6rc/errors"
)

func newTreeCmd(env *cliEnv) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "tree <file.m6r | ->",
		Short: "Show the expanded block tree of a document",
		Long: `Compile a document and print its block tree after every Include: has
been expanded and every Embed: resolved, instead of the prompt.

Useful for checking which file each block came from and what an Embed:
wildcard matched. Embedded file contents are left out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case compiler.FormatYAML, compiler.FormatJSON:
			default:
				return errors.NewUsageError("unsupported format: %s (supported: yaml, json)", format)
			}

			opts, err := env.compilerOptions(cmd)
			if err != nil {
				return err
			}
			res, err := compileInput(compiler.New(opts), cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			if err := compiler.WriteTree(cmd.OutOrStdout(), res, format); err != nil {
				return errors.Mark(err, errors.ErrOutput)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", compiler.FormatYAML, "Output format: yaml, json")
	return cmd
}
