package metaphor

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ignorePositions compares block trees by structure and content only.
var ignorePositions = cmp.Options{
	cmpopts.IgnoreUnexported(Block{}),
	cmpopts.IgnoreFields(Block{}, "Pos"),
	cmpopts.EquateEmpty(),
}

func parse(t *testing.T, src string) []*Block {
	t.Helper()
	blocks, err := ParseString(src, "test.m6r", ScanOptions{})
	require.NoError(t, err)
	return blocks
}

func parseErr(t *testing.T, src string, kind ErrorKind) *Diagnostic {
	t.Helper()
	_, err := ParseString(src, "test.m6r", ScanOptions{})
	require.Error(t, err)
	d, ok := AsDiagnostic(err)
	require.True(t, ok, "expected a diagnostic, got %v", err)
	require.Equal(t, kind, d.Kind, "unexpected diagnostic: %v", d)
	return d
}

func TestParseSingleContext(t *testing.T) {
	blocks := parse(t, "Context: Title\n    Some text\n")

	want := []*Block{{Kind: Context, Title: "Title", Body: []string{"Some text"}}}
	if diff := cmp.Diff(want, blocks, ignorePositions); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, Position{File: "test.m6r", Line: 1, Column: 1}, blocks[0].Pos)
	assert.Equal(t, "test.m6r", blocks[0].SourceFile())
}

func TestParseTree(t *testing.T) {
	src := `Role: Reviewer
    You review code.
Context: Project
    The project is small.
    Context: Detail
        Nested text
          keeps relative indent
        Include: extra.m6r
    Embed: src/*.go
Action:
    Do the review.
`
	blocks := parse(t, src)

	want := []*Block{
		{Kind: Role, Title: "Reviewer", Body: []string{"You review code."}},
		{
			Kind:  Context,
			Title: "Project",
			Body:  []string{"The project is small."},
			Children: []*Block{
				{
					Kind:  Context,
					Title: "Detail",
					Body:  []string{"Nested text", "  keeps relative indent"},
					Children: []*Block{
						{Kind: Include, Reference: "extra.m6r"},
					},
				},
				{Kind: Embed, Reference: "src/*.go"},
			},
		},
		{Kind: Action, Body: []string{"Do the review."}},
	}
	if diff := cmp.Diff(want, blocks, ignorePositions); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}

	detail := blocks[1].Children[0]
	assert.Equal(t, Position{File: "test.m6r", Line: 5, Column: 5}, detail.Pos)
	assert.Equal(t, 4, detail.Indent())
	assert.Equal(t, Position{File: "test.m6r", Line: 8, Column: 9}, detail.Children[0].Pos)
}

func TestParseKeywordsAreCaseInsensitive(t *testing.T) {
	blocks := parse(t, "CONTEXT: upper\nrole:\naCtIoN: mixed\nINCLUDE: a.m6r\nembed: b.txt\n")

	require.Len(t, blocks, 5)
	assert.Equal(t, []BlockKind{Context, Role, Action, Include, Embed},
		[]BlockKind{blocks[0].Kind, blocks[1].Kind, blocks[2].Kind, blocks[3].Kind, blocks[4].Kind})
	assert.Equal(t, "upper", blocks[0].Title)
	assert.Equal(t, "a.m6r", blocks[3].Reference)
}

func TestParseKeywordLookalikesAreText(t *testing.T) {
	blocks := parse(t, "Context:\n    Contextual text\n    Context:not-a-keyword\n    role is text\n")

	require.Len(t, blocks, 1)
	assert.Equal(t, []string{"Contextual text", "Context:not-a-keyword", "role is text"}, blocks[0].Body)
	assert.Empty(t, blocks[0].Children)
}

func TestParseSiblingsAndOutdent(t *testing.T) {
	src := `Context: A
    Context: B
        Context: C
    Context: D
Context: E
`
	blocks := parse(t, src)

	want := []*Block{
		{
			Kind: Context, Title: "A",
			Children: []*Block{
				{Kind: Context, Title: "B", Children: []*Block{{Kind: Context, Title: "C"}}},
				{Kind: Context, Title: "D"},
			},
		},
		{Kind: Context, Title: "E"},
	}
	if diff := cmp.Diff(want, blocks, ignorePositions); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseIndentedFirstBlock(t *testing.T) {
	blocks := parse(t, "    Context: A\n        text\nContext: B\n")

	require.Len(t, blocks, 2)
	assert.Equal(t, "A", blocks[0].Title)
	assert.Equal(t, []string{"text"}, blocks[0].Body)
	assert.Equal(t, "B", blocks[1].Title)
}

func TestParseBlankLines(t *testing.T) {
	src := "Context: A\n\n    text\n\n\n    more\n\nContext: B\n\n    Context: C\n\n    Context: D\n"
	blocks := parse(t, src)

	require.Len(t, blocks, 2)
	assert.Equal(t, []string{"text", "", "", "more", ""}, blocks[0].Body)
	assert.Empty(t, blocks[1].Body)
	assert.Len(t, blocks[1].Children, 2)
}

func TestParseComments(t *testing.T) {
	src := "# leading comment\nContext: A\n    # hidden\n    text\n"

	blocks, err := ParseString(src, "test.m6r", ScanOptions{StripComments: true})
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, []string{"text"}, blocks[0].Body)

	// Without stripping, a top-level comment line is ordinary text.
	parseErr(t, src, KindOrphanText)
}

func TestParseCRLF(t *testing.T) {
	blocks := parse(t, "Context: A\r\n    text\r\n")
	require.Len(t, blocks, 1)
	assert.Equal(t, "A", blocks[0].Title)
	assert.Equal(t, []string{"text"}, blocks[0].Body)
}

func TestParseEmpty(t *testing.T) {
	assert.Empty(t, parse(t, ""))
	assert.Empty(t, parse(t, "\n\n   \n"))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		kind   ErrorKind
		line   int
		column int
	}{
		{
			name: "tab indentation",
			src:  "Context: A\n\ttext\n",
			kind: KindTabIndentation, line: 2, column: 1,
		},
		{
			name: "tab after spaces",
			src:  "Context: A\n    \ttext\n",
			kind: KindTabIndentation, line: 2, column: 5,
		},
		{
			name: "tab on whitespace-only line",
			src:  "Context: A\n \t\n",
			kind: KindTabIndentation, line: 2, column: 2,
		},
		{
			name: "orphan text",
			src:  "Some text\n",
			kind: KindOrphanText, line: 1, column: 1,
		},
		{
			name: "indented orphan text",
			src:  "    Some text\nContext: A\n",
			kind: KindOrphanText, line: 1, column: 5,
		},
		{
			name: "keyword between levels",
			src:  "Context: A\n    Context: B\n        text\n  Context: C\n",
			kind: KindInconsistentIndent, line: 4, column: 3,
		},
		{
			name: "text shallower than body",
			src:  "Context: A\n        deep\n    shallow\n",
			kind: KindInconsistentIndent, line: 3, column: 5,
		},
		{
			name: "keyword nested under include",
			src:  "Include: a.m6r\n    Context: X\n",
			kind: KindInconsistentIndent, line: 2, column: 5,
		},
		{
			name: "text under embed",
			src:  "Context:\n    Embed: x.txt\n        stray\n",
			kind: KindInconsistentIndent, line: 3, column: 9,
		},
		{
			name: "include without reference",
			src:  "Context:\n    Include:\n",
			kind: KindMissingReference, line: 2, column: 5,
		},
		{
			name: "embed with blank reference",
			src:  "Context:\n    Embed:    \n",
			kind: KindMissingReference, line: 2, column: 5,
		},
		{
			name: "text after child block",
			src:  "Context: A\n    Context: B\n    late text\n",
			kind: KindMisplacedText, line: 3, column: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := parseErr(t, tt.src, tt.kind)
			assert.Equal(t, "test.m6r", d.Pos.File)
			assert.Equal(t, tt.line, d.Pos.Line)
			assert.Equal(t, tt.column, d.Pos.Column)
			assert.NotEmpty(t, d.Input)
			assert.Equal(t, ExitCompileError, ExitCode(d))
		})
	}
}

func TestParseStopsAtFirstError(t *testing.T) {
	blocks, err := ParseString("Context: A\n\tone\n\ttwo\n", "test.m6r", ScanOptions{})
	assert.Nil(t, blocks)
	d, ok := AsDiagnostic(err)
	require.True(t, ok)
	assert.Equal(t, 2, d.Pos.Line)
}
