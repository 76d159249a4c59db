package commands

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/teranos/m6rc/compiler"
	"github.com/teranos/m6rc/errors"
	"github.com/teranos/m6rc/logger"
	"github.com/teranos/m6rc/metaphor"
	"github.com/teranos/m6rc/searchpath"
)

// compilerOptions merges configuration and flags into compiler options.
// Flags win over configuration; -I directories must exist.
func (env *cliEnv) compilerOptions(cmd *cobra.Command) (compiler.Options, error) {
	cfg := env.cfg
	if err := cfg.Validate(); err != nil {
		return compiler.Options{}, &ExitError{Code: ExitUsage, Err: errors.Wrap(err, "invalid configuration")}
	}

	for _, dir := range env.includes {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return compiler.Options{}, errors.WithHint(
				errors.NewUsageError("%s: is not a valid directory", dir),
				"-I/--include takes a directory to search for Include: and Embed: files")
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return compiler.Options{}, errors.Wrap(err, "cannot determine working directory")
	}
	envDirs := append(searchpath.FromEnv(cfg.GetEnvVar()), cfg.Include.Dirs...)
	sp := searchpath.New(env.includes, envDirs, cwd)

	maxDepth := cfg.Include.MaxDepth
	if cmd.Flags().Changed("max-depth") {
		if env.maxDepth < 0 {
			return compiler.Options{}, errors.NewUsageError("--max-depth must be >= 0, got %d", env.maxDepth)
		}
		maxDepth = env.maxDepth
	}

	logger.Debugw("Search path resolved", logger.FieldRoots, sp.Roots(), logger.FieldDepth, maxDepth)

	return compiler.Options{
		SearchPath: sp,
		Scan:       metaphor.ScanOptions{StripComments: cfg.Parser.StripComments},
		MaxDepth:   maxDepth,
		Languages:  cfg.Embed.Languages,
		Render: compiler.RenderOptions{
			Preamble:     cfg.Output.Preamble && !env.noPreamble,
			ShowFilename: cfg.Embed.ShowFilename,
		},
		Logger: logger.ComponentLogger("compiler"),
	}, nil
}
