package compiler

import (
	"os"
	"strings"

	"github.com/teranos/m6rc/logger"
	"github.com/teranos/m6rc/metaphor"
	"github.com/teranos/m6rc/searchpath"
)

// expand replaces every Include block with the blocks of the file it names
// and materializes every Embed block, keeping sibling order.
func (s *session) expand(blocks []*metaphor.Block) ([]*metaphor.Block, error) {
	out := make([]*metaphor.Block, 0, len(blocks))
	for _, b := range blocks {
		switch b.Kind {
		case metaphor.Include:
			included, err := s.include(b)
			if err != nil {
				return nil, err
			}
			out = append(out, included...)
		case metaphor.Embed:
			if err := s.embed(b); err != nil {
				return nil, err
			}
			out = append(out, b)
		default:
			children, err := s.expand(b.Children)
			if err != nil {
				return nil, err
			}
			b.Children = children
			out = append(out, b)
		}
	}
	return out, nil
}

// include parses and expands the file named by an Include block.
func (s *session) include(b *metaphor.Block) ([]*metaphor.Block, error) {
	sp := s.c.opts.SearchPath
	path, err := sp.ResolveInclude(b.Reference)
	if err != nil {
		return nil, notFound(metaphor.KindIncludeNotFound, b, sp.Roots(), err)
	}

	canonical := canonicalPath(path)
	if s.chain.Contains(canonical) {
		cycle := s.chain.Cycle(canonical)
		d := metaphor.Newf(metaphor.KindCircularInclude, b.Pos,
			"circular include of '%s': %s", b.Reference, formatCycle(cycle)).
			WithInput(directiveLine(b))
		d.Chain = cycle
		return nil, d
	}

	if max := s.c.opts.MaxDepth; max > 0 && s.depth+1 > max {
		return nil, metaphor.Newf(metaphor.KindIncludeDepthExceeded, b.Pos,
			"including '%s' exceeds the maximum include depth of %d", b.Reference, max).
			WithInput(directiveLine(b)).
			WithHint("raise include.max_depth or --max-depth, or set it to 0 for no limit")
	}

	s.chain.Push(canonical)
	s.depth++
	defer func() {
		s.chain.Pop()
		s.depth--
	}()
	s.addFile(canonical)

	s.log.Debugw("Including file",
		logger.FieldReference, b.Reference,
		logger.FieldFile, path,
		logger.FieldDepth, s.depth)

	f, err := os.Open(path)
	if err != nil {
		return nil, metaphor.Newf(metaphor.KindIOFailure, b.Pos, "cannot read '%s'", path).
			WithInput(directiveLine(b)).
			WithUnderlying(err)
	}
	defer f.Close()

	blocks, err := metaphor.Parse(f, path, s.c.opts.Scan)
	if err != nil {
		return nil, err
	}
	return s.expand(blocks)
}

// notFound builds the diagnostic for a reference that matched nothing.
func notFound(kind metaphor.ErrorKind, b *metaphor.Block, roots []string, err error) *metaphor.Diagnostic {
	what := "include file"
	if kind == metaphor.KindEmbedNotFound {
		what = "embed target"
	}

	where := "the search path is empty"
	if len(roots) > 0 {
		where = "searched " + strings.Join(roots, ", ")
	}

	d := metaphor.Newf(kind, b.Pos, "%s '%s' not found (%s)", what, b.Reference, where).
		WithInput(directiveLine(b)).
		WithUnderlying(err)
	d.Roots = roots
	if len(roots) == 0 {
		d.WithHint("add a directory with -I/--include or set " + searchpath.DefaultEnvVar)
	}
	return d
}

// directiveLine reconstructs a directive's source line for error excerpts.
func directiveLine(b *metaphor.Block) string {
	return strings.Repeat(" ", b.Indent()) + b.Kind.Keyword() + " " + b.Reference
}
