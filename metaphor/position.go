package metaphor

import "fmt"

// Position locates a token or block in a source file.
// Lines and columns are 1-based; a zero Line means the position is unknown.
type Position struct {
	File   string `json:"file" yaml:"file"`
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column" yaml:"column"`
}

// IsValid reports whether the position carries a line number.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// String renders the position as file:line:column, dropping the parts that are unknown.
func (p Position) String() string {
	switch {
	case !p.IsValid():
		return p.File
	case p.Column <= 0:
		return fmt.Sprintf("%s:%d", p.File, p.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
}
