package compiler

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testutil "github.com/teranos/m6rc/internal/testing"
	"gopkg.in/yaml.v3"
)

func TestWriteTree(t *testing.T) {
	dir := testutil.WriteTree(t, map[string]string{
		"root.m6r": "Context: Top\n    text\n    Embed: code.py\n",
		"code.py":  "print('hi')\n",
	})
	res, err := newCompiler(dir).CompileFile(filepath.Join(dir, "root.m6r"))
	require.NoError(t, err)

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteTree(&buf, res, FormatYAML))

		var doc map[string]interface{}
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
		assert.Equal(t, res.ID, doc["compile_id"])
		assert.Contains(t, buf.String(), "kind: Context")
		assert.Contains(t, buf.String(), "language: python")
		assert.NotContains(t, buf.String(), "print('hi')")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteTree(&buf, res, FormatJSON))

		var doc struct {
			Files  []string `json:"files"`
			Blocks []struct {
				Kind     string `json:"kind"`
				Title    string `json:"title"`
				Children []struct {
					Kind     string `json:"kind"`
					Embedded []struct {
						Display string `json:"display"`
					} `json:"embedded"`
				} `json:"children"`
			} `json:"blocks"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
		assert.Len(t, doc.Files, 2)
		require.Len(t, doc.Blocks, 1)
		assert.Equal(t, "Context", doc.Blocks[0].Kind)
		assert.Equal(t, "Top", doc.Blocks[0].Title)
		require.Len(t, doc.Blocks[0].Children, 1)
		assert.Equal(t, "Embed", doc.Blocks[0].Children[0].Kind)
		assert.Equal(t, "code.py", doc.Blocks[0].Children[0].Embedded[0].Display)
	})

	t.Run("unknown format", func(t *testing.T) {
		var buf bytes.Buffer
		assert.Error(t, WriteTree(&buf, res, "xml"))
	})
}
