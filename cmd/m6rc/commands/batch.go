package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/teranos/m6rc/am"
	"github.com/teranos/m6rc/compiler"
	"github.com/teranos/m6rc/errors"
	"github.com/teranos/m6rc/internal/fsutil"
	"github.com/teranos/m6rc/logger"
	"github.com/teranos/m6rc/metaphor"
	"golang.org/x/sync/errgroup"
)

// PromptExtension is appended to a document's base name in batch mode.
const PromptExtension = ".prompt"

type batchOptions struct {
	recursive bool
	jobs      int
	outDir    string
}

// batchResult is the outcome of compiling one document.
type batchResult struct {
	source   string
	output   string
	files    int
	bytes    int
	duration time.Duration
	err      error
}

func newBatchCmd(env *cliEnv) *cobra.Command {
	var opts batchOptions

	cmd := &cobra.Command{
		Use:   "batch [dir]",
		Short: "Compile every *.m6r document in a directory",
		Long: `Compile every *.m6r document in dir (default: the current directory) into
a <name>.prompt file next to it. With --out-dir, prompts go under that
directory, keeping each document's subdirectory relative to dir.

Documents are compiled concurrently and independently: a failure in one does
not stop the others. Every failure is reported and the exit code is that of
the first failing document in name order.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runBatch(cmd, env, dir, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.recursive, "recursive", "r", false, "Descend into subdirectories")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", runtime.NumCPU(), "Number of documents to compile at once")
	cmd.Flags().StringVar(&opts.outDir, "out-dir", "", "Write prompts here instead of next to each document")
	return cmd
}

func runBatch(cmd *cobra.Command, env *cliEnv, dir string, opts batchOptions) error {
	if opts.jobs < 1 {
		return errors.NewUsageError("--jobs must be at least 1, got %d", opts.jobs)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return errors.NewUsageError("%s: is not a valid directory", dir)
	}

	copts, err := env.compilerOptions(cmd)
	if err != nil {
		return err
	}
	sources, err := fsutil.FindSources(dir, opts.recursive)
	if err != nil {
		return errors.Wrapf(err, "failed to scan %s", dir)
	}
	if len(sources) == 0 {
		fmt.Fprint(cmd.ErrOrStderr(), pterm.Warning.Sprintfln("No %s documents found in %s", fsutil.SourceExtension, dir))
		return nil
	}
	if opts.outDir != "" {
		if err := os.MkdirAll(opts.outDir, am.DefaultDirPermissions); err != nil {
			return errors.NewOutputError(err, opts.outDir)
		}
	}

	log := logger.ComponentLogger("batch")
	log.Infow("Compiling documents", logger.FieldCount, len(sources), "jobs", opts.jobs)

	c := compiler.New(copts)
	results := make([]batchResult, len(sources))

	var g errgroup.Group
	g.SetLimit(opts.jobs)
	for i, source := range sources {
		g.Go(func() error {
			results[i] = compileOne(c, source, outputPath(dir, source, opts.outDir))
			if results[i].err != nil {
				log.Debugw("Document failed", logger.FieldFile, source, logger.FieldError, results[i].err)
			}
			return nil
		})
	}
	_ = g.Wait()

	return summarize(cmd.ErrOrStderr(), results)
}

// compileOne compiles source and writes its prompt. Each call has its own
// inclusion chain and diagnostics.
func compileOne(c *compiler.Compiler, source, output string) batchResult {
	start := time.Now()
	r := batchResult{source: source, output: output}

	res, err := c.CompileFile(source)
	if err == nil {
		if mkErr := os.MkdirAll(filepath.Dir(output), am.DefaultDirPermissions); mkErr != nil {
			err = errors.NewOutputError(mkErr, filepath.Dir(output))
		} else {
			err = writeOutput(nil, output, res.Prompt)
		}
	}
	r.duration = time.Since(start)
	if err != nil {
		r.err = err
		return r
	}
	r.files = len(res.Files)
	r.bytes = len(res.Prompt)
	return r
}

// outputPath maps a.m6r to a.prompt next to it or, when outDir is set, at
// the same path relative to root under outDir, so that documents with the
// same name in different subdirectories stay apart.
func outputPath(root, source, outDir string) string {
	name := strings.TrimSuffix(filepath.Base(source), fsutil.SourceExtension) + PromptExtension
	if outDir == "" {
		return filepath.Join(filepath.Dir(source), name)
	}
	rel, err := filepath.Rel(root, filepath.Dir(source))
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = "."
	}
	return filepath.Join(outDir, rel, name)
}

// summarize prints a table of results and every failure, and returns an error
// carrying the exit code of the first failure.
func summarize(w io.Writer, results []batchResult) error {
	data := pterm.TableData{{"Document", "Prompt", "Files", "Bytes", "Time", "Status"}}
	var first error
	failed := 0
	for _, r := range results {
		status := pterm.Green("ok")
		files, bytes := fmt.Sprint(r.files), fmt.Sprint(r.bytes)
		if r.err != nil {
			status = pterm.Red("failed")
			files, bytes = "-", "-"
			failed++
			if first == nil {
				first = r.err
			}
		}
		data = append(data, []string{
			r.source, r.output, files, bytes,
			r.duration.Round(time.Millisecond).String(), status,
		})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render summary")
	}
	fmt.Fprintln(w, table)

	for _, r := range results {
		if r.err != nil {
			ReportError(w, r.err)
		}
	}

	if first == nil {
		fmt.Fprint(w, pterm.Success.Sprintfln("Compiled %d documents", len(results)))
		return nil
	}
	code := ExitUsage
	if c := metaphor.ExitCode(first); c > 0 {
		code = c
	} else if errors.Is(first, errors.ErrOutput) {
		code = ExitOutput
	}
	return &ExitError{
		Code: code,
		Err:  errors.Newf("%d of %d documents failed", failed, len(results)),
	}
}
