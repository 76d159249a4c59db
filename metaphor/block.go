package metaphor

// Block is a keyword line together with its body text and nested blocks.
//
// Include and Embed blocks never have children. After compilation, Include
// blocks are gone from the tree (replaced by the included blocks) and Embed
// blocks carry their materialized files in Embedded.
type Block struct {
	Kind      BlockKind      `json:"kind" yaml:"kind"`
	Title     string         `json:"title,omitempty" yaml:"title,omitempty"`
	Reference string         `json:"reference,omitempty" yaml:"reference,omitempty"`
	Body      []string       `json:"body,omitempty" yaml:"body,omitempty"`
	Children  []*Block       `json:"children,omitempty" yaml:"children,omitempty"`
	Embedded  []EmbeddedFile `json:"embedded,omitempty" yaml:"embedded,omitempty"`
	Pos       Position       `json:"position" yaml:"position"`

	indent     int
	bodyIndent int
}

// SourceFile returns the file the block was parsed from.
func (b *Block) SourceFile() string {
	return b.Pos.File
}

// Indent returns the indentation of the block's keyword line in its own file.
func (b *Block) Indent() int {
	return b.indent
}

// EmbeddedFile is one file pulled in by an Embed block. Its content is never parsed.
type EmbeddedFile struct {
	Path     string `json:"path" yaml:"path"`
	Display  string `json:"display" yaml:"display"`
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
	Content  string `json:"-" yaml:"-"`
}
