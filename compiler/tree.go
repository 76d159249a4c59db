package compiler

import (
	"encoding/json"
	"io"

	"github.com/teranos/m6rc/errors"
	"github.com/teranos/m6rc/metaphor"
	"gopkg.in/yaml.v3"
)

// Tree formats supported by WriteTree.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// treeDoc is the exported shape of a compile for debugging.
type treeDoc struct {
	ID     string            `json:"compile_id" yaml:"compile_id"`
	Files  []string          `json:"files" yaml:"files"`
	Blocks []*metaphor.Block `json:"blocks" yaml:"blocks"`
}

// WriteTree writes the expanded block tree of a compile as YAML or JSON.
// Embedded file contents are omitted; their paths and language tags remain.
func WriteTree(w io.Writer, res *Result, format string) error {
	doc := treeDoc{ID: res.ID, Files: res.Files, Blocks: res.Blocks}

	switch format {
	case FormatYAML, "yml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return errors.Wrap(err, "encoding tree as YAML")
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(doc), "encoding tree as JSON")
	default:
		return errors.Newf("unknown tree format %q (want yaml or json)", format)
	}
}
