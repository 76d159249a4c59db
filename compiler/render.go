package compiler

import (
	"bufio"
	"io"
	"strings"

	"github.com/teranos/m6rc/metaphor"
)

// Preamble explains the markup to the model reading the prompt.
const Preamble = `The following is written in a language called Metaphor.

Metaphor has the structure of a document tree with branches and leaves being
prefixed by the keywords "Role:", "Context:" or "Action:".

These have an optional section name that will immediately follow them on the same line.
If this is missing then the section name is not defined.

After a keyword line the text may be indented to include an optional block of descriptive
text that explains the purpose of the block.  A block may also include one or more optional
child blocks inside them and that further clarify their parent block.

The indentation of the blocks indicates where in the tree the pieces appear.  For example a
"Context:" indented by 8 spaces is a child of the context above it that is indented by 4
spaces.  One indented 12 spaces would be a child of the block above it that is indented by
8 spaces.

Embedded files are introduced by a "File:" line naming the file, followed by its verbatim
contents inside a fenced code block.

If a "Role:" block exists then this is the role you should fulfil.
Please review all of the "Context:" blocks to understand what is required and then
process all of the items included in the "Action:" section.

When you process the actions please carefully ensure you do all of them accurately.  These
need to fulfil all the details described in the "Context:".  Ensure you complete all the
elements and do not include any placeholders.

`

// IndentWidth is the number of spaces per nesting level in rendered output.
const IndentWidth = 4

// RenderOptions control prompt serialization.
type RenderOptions struct {
	Preamble     bool // Emit Preamble before the blocks
	ShowFilename bool // Emit a "File: <path>" line before each embedded file
}

// Render writes the prompt for an expanded block tree.
//
// Blocks are re-indented at IndentWidth spaces per depth and their body lines
// keep their indentation relative to the first body line. Embedded files are
// written at column zero so their content is reproduced byte for byte.
// Include blocks still present in the tree are written as their keyword line.
func Render(w io.Writer, blocks []*metaphor.Block, opts RenderOptions) error {
	bw := bufio.NewWriter(w)
	if opts.Preamble {
		bw.WriteString(Preamble)
	}
	for _, b := range blocks {
		renderBlock(bw, b, 0, opts)
	}
	return bw.Flush()
}

func renderBlock(bw *bufio.Writer, b *metaphor.Block, depth int, opts RenderOptions) {
	indent := strings.Repeat(" ", depth*IndentWidth)

	switch b.Kind {
	case metaphor.Embed:
		for _, f := range b.Embedded {
			renderEmbedded(bw, f, opts)
		}
		return
	case metaphor.Include:
		bw.WriteString(indent + b.Kind.Keyword() + " " + b.Reference + "\n")
		return
	}

	bw.WriteString(indent)
	bw.WriteString(b.Kind.Keyword())
	if b.Title != "" {
		bw.WriteString(" ")
		bw.WriteString(b.Title)
	}
	bw.WriteString("\n")

	bodyIndent := indent + strings.Repeat(" ", IndentWidth)
	for _, line := range b.Body {
		if line != "" {
			bw.WriteString(bodyIndent)
			bw.WriteString(line)
		}
		bw.WriteString("\n")
	}

	for _, child := range b.Children {
		renderBlock(bw, child, depth+1, opts)
	}
}

func renderEmbedded(bw *bufio.Writer, f metaphor.EmbeddedFile, opts RenderOptions) {
	fence := fenceFor(f.Content)
	if opts.ShowFilename {
		bw.WriteString("File: " + f.Display + "\n")
	}
	bw.WriteString(fence + f.Language + "\n")
	bw.WriteString(f.Content)
	if f.Content != "" && !strings.HasSuffix(f.Content, "\n") {
		bw.WriteString("\n")
	}
	bw.WriteString(fence + "\n")
}

// fenceFor returns a backtick fence longer than any backtick run in content.
func fenceFor(content string) string {
	longest, run := 0, 0
	for i := 0; i < len(content); i++ {
		if content[i] == '`' {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}
	n := 3
	if longest >= n {
		n = longest + 1
	}
	return strings.Repeat("`", n)
}
