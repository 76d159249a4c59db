package compiler

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/m6rc/metaphor"
)

func TestRenderBlocks(t *testing.T) {
	blocks := []*metaphor.Block{
		{
			Kind:  metaphor.Context,
			Title: "Outer",
			Body:  []string{"first", "", "  indented"},
			Children: []*metaphor.Block{
				{Kind: metaphor.Action, Body: []string{"do it"}},
			},
		},
		{Kind: metaphor.Include, Reference: "later.m6r"},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, blocks, RenderOptions{}))

	want := "Context: Outer\n" +
		"    first\n" +
		"\n" +
		"      indented\n" +
		"    Action:\n" +
		"        do it\n" +
		"Include: later.m6r\n"
	assert.Equal(t, want, buf.String())
}

func TestRenderEmbedded(t *testing.T) {
	embed := &metaphor.Block{
		Kind:      metaphor.Embed,
		Reference: "*.go",
		Embedded: []metaphor.EmbeddedFile{
			{Display: "main.go", Language: "go", Content: "package main\n\nfunc main() {}"},
			{Display: "empty.txt"},
		},
	}
	blocks := []*metaphor.Block{{Kind: metaphor.Context, Children: []*metaphor.Block{embed}}}

	t.Run("with file names", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Render(&buf, blocks, RenderOptions{ShowFilename: true}))
		want := "Context:\n" +
			"File: main.go\n```go\npackage main\n\nfunc main() {}\n```\n" +
			"File: empty.txt\n```\n```\n"
		assert.Equal(t, want, buf.String())
	})

	t.Run("without file names", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Render(&buf, blocks, RenderOptions{}))
		assert.NotContains(t, buf.String(), "File:")
	})
}

func TestRenderPreamble(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, nil, RenderOptions{Preamble: true}))
	assert.Equal(t, Preamble, buf.String())
	assert.True(t, strings.HasPrefix(Preamble, "The following is written in a language called Metaphor."))
	assert.True(t, strings.HasSuffix(Preamble, "\n\n"))
}

func TestFenceFor(t *testing.T) {
	tests := []struct {
		content string
		want    string
	}{
		{"", "```"},
		{"no ticks", "```"},
		{"inline `code`", "```"},
		{"``double``", "```"},
		{"```go\nx\n```", "````"},
		{"`````", "``````"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fenceFor(tt.content), "content %q", tt.content)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, assert.AnError
}

func TestRenderWriteError(t *testing.T) {
	err := Render(failingWriter{}, []*metaphor.Block{{Kind: metaphor.Role}}, RenderOptions{})
	assert.ErrorIs(t, err, assert.AnError)
}
