// Package commands implements the m6rc command line.
package commands

import (
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/teranos/m6rc/am"
	"github.com/teranos/m6rc/errors"
	"github.com/teranos/m6rc/logger"
	"github.com/teranos/m6rc/watch"
)

// cliEnv holds the flag values and configuration shared by every command.
type cliEnv struct {
	includes   []string
	verbosity  int
	configFile string
	jsonLog    bool
	maxDepth   int
	noColor    bool
	noPreamble bool

	// root command only
	output   string
	watch    bool
	debounce time.Duration

	cfg *am.Config
}

// NewRootCmd builds the m6rc command tree.
func NewRootCmd() *cobra.Command {
	env := &cliEnv{}

	rootCmd := &cobra.Command{
		Use:   "m6rc [flags] <file.m6r | ->",
		Short: "m6rc - Metaphor prompt compiler",
		Long: `m6rc - Metaphor prompt compiler

Compiles a Metaphor document (Role:, Context:, Action: blocks) into a single
prompt for a large language model. Include: directives are expanded in
place and Embed: directives copy external files into the prompt as fenced
code. The prompt is written to stdout unless -o is given.

Include: and Embed: references are searched for in, in order:
  1. directories given with -I/--include
  2. directories listed in $M6RC_INCLUDE_DIR and include.dirs in config
  3. the current directory, when neither of the above gives any

Exit codes:
  0  success
  1  usage or configuration error
  2  the document or something it references is invalid
  3  the input file cannot be read
  4  the output file cannot be written

Examples:
  m6rc task.m6r                     # Print the prompt
  m6rc -I lib -o task.prompt task.m6r
  cat task.m6r | m6rc -             # Read the document from stdin
  m6rc --watch -o task.prompt task.m6r
  m6rc tree task.m6r                # Show the expanded block tree
  m6rc batch prompts/               # Compile every *.m6r in prompts/`,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// version needs neither config nor logging
			if cmd.Name() == "version" {
				return nil
			}
			return env.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, env, args[0])
		},
	}

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringArrayVarP(&env.includes, "include", "I", nil, "Add a directory to the search path (repeatable, searched in order)")
	pf.CountVarP(&env.verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	pf.StringVar(&env.configFile, "config", "", "Use this config file in place of the project m6rc.toml")
	pf.BoolVar(&env.jsonLog, "json-log", false, "Write logs as JSON")
	pf.IntVar(&env.maxDepth, "max-depth", 0, "Maximum include nesting, 0 for unbounded (default from include.max_depth)")
	pf.BoolVar(&env.noColor, "no-color", false, "Disable coloured output (also NO_COLOR)")
	pf.BoolVar(&env.noPreamble, "no-preamble", false, "Omit the explanatory preamble from the prompt")

	f := rootCmd.Flags()
	f.StringVarP(&env.output, "output", "o", "", "Write the prompt to this file instead of stdout")
	f.BoolVarP(&env.watch, "watch", "w", false, "Recompile whenever the document or anything it reads changes")
	f.DurationVar(&env.debounce, "debounce", watch.DefaultDebounce, "Quiet period before recompiling in --watch mode")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError(cmd, err)
	})

	rootCmd.AddCommand(newTreeCmd(env))
	rootCmd.AddCommand(newBatchCmd(env))
	rootCmd.AddCommand(newAmCmd(env))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// setup loads configuration and initializes logging before any command runs.
func (env *cliEnv) setup() error {
	if env.noColor || os.Getenv("NO_COLOR") != "" {
		pterm.DisableColor()
		logger.SetTheme("none")
	}

	if env.configFile != "" {
		am.SetConfigFile(env.configFile)
	}
	cfg, err := am.Load()
	if err != nil {
		return &ExitError{Code: ExitUsage, Err: errors.Wrap(err, "failed to load config")}
	}
	env.cfg = cfg

	if err := logger.Initialize(env.jsonLog || cfg.Log.JSON, env.verbosity); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	if !env.noColor && os.Getenv("NO_COLOR") == "" {
		logger.SetTheme(cfg.GetLogTheme())
	}

	warnings, err := am.CheckLoadedFiles()
	if err != nil {
		logger.Debugw("Skipped unknown key check", logger.FieldError, err)
	}
	for _, w := range warnings {
		logger.Warnw("Unknown config key ignored", logger.FieldFile, w.File, "key", w.Key)
	}
	return nil
}

// Execute runs the command line and returns the process exit code.
func Execute(args []string) int {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	defer logger.Cleanup()
	return ReportError(rootCmd.ErrOrStderr(), err)
}
