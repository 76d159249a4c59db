// Package compiler turns a root Metaphor document into a prompt.
//
// A compile parses the root, expands every Include: in place (depth first,
// tracking the inclusion chain to reject cycles), materializes every Embed:
// and renders the resulting tree. The first fatal error ends the compile and
// no prompt is produced.
package compiler

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/teranos/m6rc/logger"
	"github.com/teranos/m6rc/metaphor"
	"github.com/teranos/m6rc/searchpath"
	"go.uber.org/zap"
)

// StdinName identifies a root document read from standard input.
const StdinName = "<stdin>"

// Options configure a Compiler. The zero value compiles with an empty search
// path, no depth limit, no preamble and no embed headers.
type Options struct {
	SearchPath searchpath.SearchPath
	Scan       metaphor.ScanOptions

	// MaxDepth limits include nesting. Zero means unbounded.
	MaxDepth int

	// Languages overrides the extension to fence-tag table.
	Languages map[string]string

	Render RenderOptions

	Logger *zap.SugaredLogger
}

// Compiler compiles root documents. It holds no per-compile state and is safe
// for concurrent use; each call gets its own inclusion chain.
type Compiler struct {
	opts Options
	log  *zap.SugaredLogger
}

// Result is a successful compile.
type Result struct {
	ID     string            // Compile ID used in log entries
	Prompt string            // Rendered prompt
	Blocks []*metaphor.Block // Expanded block tree
	Files  []string          // Every file read, root first, without duplicates
}

// New creates a Compiler.
func New(opts Options) *Compiler {
	log := opts.Logger
	if log == nil {
		log = logger.ComponentLogger("compiler")
	}
	return &Compiler{opts: opts, log: log}
}

// Options returns the options the compiler was created with.
func (c *Compiler) Options() Options {
	return c.opts
}

// CompileFile compiles the document at path. A root that cannot be opened
// fails with a RootUnreadable diagnostic.
func (c *Compiler) CompileFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, metaphor.NewDiagnostic(metaphor.KindRootUnreadable,
			metaphor.Position{File: path}, "cannot open input file").
			WithUnderlying(err)
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.IsDir() {
		return nil, metaphor.NewDiagnostic(metaphor.KindRootUnreadable,
			metaphor.Position{File: path}, "input is a directory")
	}

	s := c.newSession()
	canonical := canonicalPath(path)
	s.chain.Push(canonical)
	s.addFile(canonical)
	return s.compile(f, path)
}

// CompileReader compiles a root document read from r. name identifies it in
// diagnostics; use StdinName for standard input. A reader has no file
// identity, so it cannot take part in cycle detection itself.
func (c *Compiler) CompileReader(r io.Reader, name string) (*Result, error) {
	return c.newSession().compile(r, name)
}

// session is the state of one compile.
type session struct {
	c     *Compiler
	id    string
	log   *zap.SugaredLogger
	chain *InclusionChain
	depth int
	files []string
	seen  map[string]bool
}

func (c *Compiler) newSession() *session {
	id := uuid.NewString()
	return &session{
		c:     c,
		id:    id,
		log:   logger.ChildLogger(c.log, logger.FieldCompileID, id),
		chain: NewInclusionChain(),
		seen:  make(map[string]bool),
	}
}

func (s *session) compile(r io.Reader, name string) (*Result, error) {
	start := time.Now()
	s.log.Debugw("Compiling", logger.FieldFile, name, logger.FieldRoots, s.c.opts.SearchPath.Roots())

	blocks, err := metaphor.Parse(r, name, s.c.opts.Scan)
	if err == nil {
		blocks, err = s.expand(blocks)
	}
	if err != nil {
		s.logFailure(err)
		return nil, err
	}

	var buf bytes.Buffer
	if err := Render(&buf, blocks, s.c.opts.Render); err != nil {
		return nil, err
	}

	s.log.Infow("Compiled prompt",
		logger.FieldFile, name,
		logger.FieldCount, len(s.files),
		logger.FieldBytes, buf.Len(),
		logger.FieldDurationMS, time.Since(start).Milliseconds())

	return &Result{
		ID:     s.id,
		Prompt: buf.String(),
		Blocks: blocks,
		Files:  s.files,
	}, nil
}

func (s *session) addFile(path string) {
	if s.seen[path] {
		return
	}
	s.seen[path] = true
	s.files = append(s.files, path)
}

func (s *session) logFailure(err error) {
	if d, ok := metaphor.AsDiagnostic(err); ok {
		s.log.Debugw("Compile failed",
			logger.FieldErrorKind, string(d.Kind),
			logger.FieldFile, d.Pos.File,
			logger.FieldLine, d.Pos.Line)
		return
	}
	s.log.Debugw("Compile failed", logger.FieldError, err)
}

// canonicalPath resolves path to an absolute, symlink-free form so the same
// file reached two ways is recognised. Paths that cannot be resolved fall back
// to their absolute form.
func canonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
