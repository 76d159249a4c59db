package commands

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/teranos/m6rc/compiler"
	"github.com/teranos/m6rc/logger"
	"github.com/teranos/m6rc/metaphor"
	"github.com/teranos/m6rc/watch"
)

// watchSession recompiles one root document and tracks what it read.
type watchSession struct {
	cmd   *cobra.Command
	env   *cliEnv
	c     *compiler.Compiler
	input string
	files []string
}

// rebuild compiles the document, reports the outcome on stderr and returns
// the files to watch next. A failed compile keeps the previous set and adds
// the root and the file the diagnostic points at, so fixing either triggers
// another attempt.
func (s *watchSession) rebuild() []string {
	stderr := s.cmd.ErrOrStderr()

	res, err := s.c.CompileFile(s.input)
	if err == nil {
		err = writeOutput(s.cmd.OutOrStdout(), s.env.output, res.Prompt)
	}
	if err != nil {
		ReportError(stderr, err)
		files := append([]string(nil), s.files...)
		files = append(files, absPath(s.input))
		if d, ok := metaphor.AsDiagnostic(err); ok && d.Pos.File != "" && d.Pos.File != compiler.StdinName {
			files = append(files, absPath(d.Pos.File))
		}
		s.files = files
		return files
	}

	if s.env.output != "" {
		fmt.Fprintf(stderr, "compiled %s -> %s (%d files)\n", s.input, s.env.output, len(res.Files))
	}
	s.files = res.Files
	return res.Files
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// runWatch compiles input, then recompiles whenever a file it read changes,
// until interrupted.
func runWatch(cmd *cobra.Command, env *cliEnv, c *compiler.Compiler, input string) error {
	s := &watchSession{cmd: cmd, env: env, c: c, input: input}
	log := logger.ComponentLogger("watch")

	var w *watch.Watcher
	w, err := watch.New(s.rebuild(), env.debounce, func() {
		files := s.rebuild()
		if err := w.Reset(files); err != nil {
			log.Warnw("Failed to update watched files", logger.FieldError, err)
		}
		log.Infow("Watching", logger.FieldCount, len(files))
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Infow("Watching", logger.FieldCount, len(s.files), "debounce", env.debounce)
	return w.Run(ctx)
}
