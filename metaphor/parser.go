package metaphor

import (
	"io"
	"strings"
)

// Parse reads one Metaphor document and returns its top-level blocks.
// Include and Embed blocks are left unresolved; parsing touches no files.
func Parse(r io.Reader, file string, opts ScanOptions) ([]*Block, error) {
	p := &parser{scanner: NewScanner(r, file, opts)}
	return p.parse()
}

// ParseString is Parse over an in-memory document.
func ParseString(src, file string, opts ScanOptions) ([]*Block, error) {
	return Parse(strings.NewReader(src), file, opts)
}

type parser struct {
	scanner *Scanner
	roots   []*Block
	stack   []*Block // Open blocks, strictly increasing indentation
}

func (p *parser) parse() ([]*Block, error) {
	for {
		tok, err := p.scanner.Next()
		if err == io.EOF {
			return p.roots, nil
		}
		if err != nil {
			return nil, err
		}

		switch tok.Kind {
		case TokenKeyword:
			err = p.keyword(tok)
		case TokenText:
			err = p.text(tok)
		case TokenBlank:
			p.blank()
		}
		if err != nil {
			return nil, err
		}
	}
}

func (p *parser) top() *Block {
	if len(p.stack) == 0 {
		return nil
	}
	return p.stack[len(p.stack)-1]
}

func (p *parser) pop() *Block {
	b := p.top()
	p.stack = p.stack[:len(p.stack)-1]
	return b
}

// keyword closes every block at or deeper than the token's indentation and
// opens a new block under whatever remains.
func (p *parser) keyword(tok Token) error {
	var deeper *Block
	for top := p.top(); top != nil && top.indent > tok.Indent; top = p.top() {
		deeper = p.pop()
	}
	if top := p.top(); top != nil && top.indent == tok.Indent {
		p.pop()
	} else if top != nil && deeper != nil {
		return Newf(KindInconsistentIndent, tok.Pos,
			"indentation of %d spaces does not match any enclosing block (expected %d or %d)",
			tok.Indent, top.indent, deeper.indent).
			WithInput(tok.Line)
	}

	parent := p.top()
	if parent != nil && parent.Kind.IsDirective() {
		return Newf(KindInconsistentIndent, tok.Pos,
			"'%s' cannot contain nested blocks", parent.Kind.Keyword()).
			WithInput(tok.Line)
	}

	b := &Block{
		Kind:   tok.Keyword,
		Pos:    tok.Pos,
		indent: tok.Indent,
	}
	if tok.Keyword.IsDirective() {
		if tok.Text == "" {
			return Newf(KindMissingReference, tok.Pos,
				"'%s' requires a file name", tok.Keyword.Keyword()).
				WithInput(tok.Line).
				WithHint("write the path on the same line, e.g. '" + tok.Keyword.Keyword() + " notes.m6r'")
		}
		b.Reference = tok.Text
	} else {
		b.Title = tok.Text
	}

	if parent == nil {
		p.roots = append(p.roots, b)
	} else {
		parent.Children = append(parent.Children, b)
	}
	p.stack = append(p.stack, b)
	return nil
}

// text appends a body line to the deepest open block shallower than the line.
func (p *parser) text(tok Token) error {
	for top := p.top(); top != nil && top.indent >= tok.Indent; top = p.top() {
		p.pop()
	}

	b := p.top()
	if b == nil {
		return NewDiagnostic(KindOrphanText, tok.Pos,
			"text must belong to a 'Role:', 'Context:' or 'Action:' block").
			WithInput(tok.Line)
	}
	if b.Kind.IsDirective() {
		return Newf(KindInconsistentIndent, tok.Pos,
			"'%s' cannot contain body text", b.Kind.Keyword()).
			WithInput(tok.Line)
	}
	if len(b.Children) > 0 {
		return Newf(KindMisplacedText, tok.Pos,
			"text in a '%s' block must come before its child blocks", b.Kind.Keyword()).
			WithInput(tok.Line)
	}

	if len(b.Body) == 0 {
		b.bodyIndent = tok.Indent
	}
	if tok.Indent < b.bodyIndent {
		return Newf(KindInconsistentIndent, tok.Pos,
			"text is indented %d spaces, less than the %d spaces of the lines above it",
			tok.Indent, b.bodyIndent).
			WithInput(tok.Line)
	}

	b.Body = append(b.Body, strings.Repeat(" ", tok.Indent-b.bodyIndent)+tok.Text)
	return nil
}

// blank keeps empty lines that sit inside a block's body so text round-trips.
// Blank lines before any body text, or after child blocks, carry no meaning.
func (p *parser) blank() {
	b := p.top()
	if b == nil || b.Kind.IsDirective() || len(b.Children) > 0 || len(b.Body) == 0 {
		return
	}
	b.Body = append(b.Body, "")
}
