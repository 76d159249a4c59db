package compiler

import (
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/teranos/m6rc/errors"
	"github.com/teranos/m6rc/logger"
	"github.com/teranos/m6rc/metaphor"
)

// embed resolves an Embed block and reads every matched file into it.
// Embedded content is never parsed.
func (s *session) embed(b *metaphor.Block) error {
	sp := s.c.opts.SearchPath
	matches, err := sp.ResolveEmbed(b.Reference)
	switch {
	case err == nil:
	case errors.IsNotFound(err):
		return notFound(metaphor.KindEmbedNotFound, b, sp.Roots(), err)
	case errors.Is(err, doublestar.ErrBadPattern):
		return metaphor.Newf(metaphor.KindEmbedNotFound, b.Pos,
			"'%s' is not a valid file pattern", b.Reference).
			WithInput(directiveLine(b)).
			WithUnderlying(err)
	default:
		return metaphor.Newf(metaphor.KindIOFailure, b.Pos,
			"cannot expand '%s'", b.Reference).
			WithInput(directiveLine(b)).
			WithUnderlying(err)
	}

	b.Embedded = make([]metaphor.EmbeddedFile, 0, len(matches))
	for _, m := range matches {
		if m.IsDir {
			if m.Wildcard {
				s.log.Debugw("Skipping directory matched by pattern",
					logger.FieldReference, b.Reference,
					logger.FieldFile, m.Path)
				continue
			}
			return metaphor.Newf(metaphor.KindEmbedIsDirectory, b.Pos,
				"'%s' is a directory, not a file", m.Path).
				WithInput(directiveLine(b)).
				WithHint("use a pattern such as '" + m.Display + "/*' to embed its files")
		}

		content, err := os.ReadFile(m.Path)
		if err != nil {
			return metaphor.Newf(metaphor.KindIOFailure, b.Pos, "cannot read '%s'", m.Path).
				WithInput(directiveLine(b)).
				WithUnderlying(err)
		}

		file := metaphor.EmbeddedFile{
			Path:     m.Path,
			Display:  m.Display,
			Language: LanguageFor(m.Path, s.c.opts.Languages),
			Content:  string(content),
		}
		b.Embedded = append(b.Embedded, file)
		s.addFile(canonicalPath(m.Path))

		s.log.Debugw("Embedded file",
			logger.FieldFile, m.Display,
			logger.FieldLanguage, file.Language,
			logger.FieldBytes, len(content))
	}

	if len(b.Embedded) == 0 {
		s.log.Debugw("Pattern matched no files", logger.FieldReference, b.Reference)
	}
	return nil
}
