package metaphor

import (
	"bufio"
	"io"
	"strings"
	"unicode"
)

// maxLineLength bounds a single physical line.
const maxLineLength = 1024 * 1024

// ScanOptions tune the scanner.
type ScanOptions struct {
	// StripComments drops lines whose first non-space character is '#'.
	StripComments bool
}

// Scanner turns a document into a single-pass sequence of line tokens.
type Scanner struct {
	file string
	opts ScanOptions
	sc   *bufio.Scanner
	line int
	err  error
}

// NewScanner creates a scanner reading from r. file names the source in positions.
func NewScanner(r io.Reader, file string, opts ScanOptions) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	return &Scanner{
		file: file,
		opts: opts,
		sc:   sc,
	}
}

// Next returns the next token, io.EOF once the input is exhausted, or a
// Diagnostic. Errors are sticky: once Next fails it keeps failing.
func (s *Scanner) Next() (Token, error) {
	for s.err == nil {
		if !s.sc.Scan() {
			if err := s.sc.Err(); err != nil {
				s.err = NewDiagnostic(KindIOFailure, Position{File: s.file, Line: s.line + 1},
					"cannot read input").WithUnderlying(err)
			} else {
				s.err = io.EOF
			}
			break
		}
		s.line++

		tok, ok, err := s.scanLine(strings.TrimSuffix(s.sc.Text(), "\r"))
		if err != nil {
			s.err = err
			break
		}
		if ok {
			return tok, nil
		}
	}
	return Token{}, s.err
}

func (s *Scanner) scanLine(raw string) (Token, bool, error) {
	indent := 0
	for indent < len(raw) && raw[indent] == ' ' {
		indent++
	}

	// A tab anywhere in the leading whitespace is fatal.
	for i := indent; i < len(raw) && (raw[i] == ' ' || raw[i] == '\t'); i++ {
		if raw[i] == '\t' {
			return Token{}, false, NewDiagnostic(KindTabIndentation,
				Position{File: s.file, Line: s.line, Column: i + 1},
				"tab character used for indentation").
				WithInput(raw).
				WithHint("indent with spaces only")
		}
	}

	pos := Position{File: s.file, Line: s.line, Column: indent + 1}
	rest := raw[indent:]

	if strings.TrimSpace(rest) == "" {
		return Token{Kind: TokenBlank, Pos: pos, Line: raw}, true, nil
	}
	if s.opts.StripComments && strings.HasPrefix(rest, "#") {
		return Token{}, false, nil
	}

	word := rest
	if i := strings.IndexFunc(rest, unicode.IsSpace); i >= 0 {
		word = rest[:i]
	}
	if kind, ok := lookupKeyword(word); ok {
		return Token{
			Kind:    TokenKeyword,
			Keyword: kind,
			Indent:  indent,
			Text:    strings.TrimSpace(rest[len(word):]),
			Pos:     pos,
			Line:    raw,
		}, true, nil
	}

	return Token{
		Kind:   TokenText,
		Indent: indent,
		Text:   rest,
		Pos:    pos,
		Line:   raw,
	}, true, nil
}
