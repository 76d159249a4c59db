package metaphor

import "strings"

// TokenKind classifies a scanned line.
type TokenKind int

const (
	TokenBlank   TokenKind = iota // Whitespace-only line
	TokenText                     // Body text
	TokenKeyword                  // Role:, Context:, Action:, Include: or Embed:
)

func (k TokenKind) String() string {
	switch k {
	case TokenBlank:
		return "blank"
	case TokenText:
		return "text"
	case TokenKeyword:
		return "keyword"
	default:
		return "unknown"
	}
}

// BlockKind is the normalized tag of a keyword line.
type BlockKind int

const (
	Role BlockKind = iota + 1
	Context
	Action
	Include
	Embed
)

// String returns the canonical keyword name without the colon.
func (k BlockKind) String() string {
	switch k {
	case Role:
		return "Role"
	case Context:
		return "Context"
	case Action:
		return "Action"
	case Include:
		return "Include"
	case Embed:
		return "Embed"
	default:
		return "Unknown"
	}
}

// Keyword returns the keyword as it is written in a document, e.g. "Context:".
func (k BlockKind) Keyword() string {
	return k.String() + ":"
}

// IsDirective reports whether the block pulls in external files.
func (k BlockKind) IsDirective() bool {
	return k == Include || k == Embed
}

// MarshalText lets block kinds appear by name in JSON and YAML output.
func (k BlockKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// lookupKeyword matches a leading word against the five keywords.
// Matching is case-insensitive; the returned kind is the normalized tag.
func lookupKeyword(word string) (BlockKind, bool) {
	switch strings.ToLower(word) {
	case "role:":
		return Role, true
	case "context:":
		return Context, true
	case "action:":
		return Action, true
	case "include:":
		return Include, true
	case "embed:":
		return Embed, true
	}
	return 0, false
}

// Token is one physical line of a Metaphor document.
type Token struct {
	Kind    TokenKind
	Keyword BlockKind // Set for TokenKeyword only
	Indent  int       // Leading spaces
	Text    string    // Keyword argument, or text content without its indentation
	Pos     Position  // Position of the first non-space character
	Line    string    // The raw line, kept for diagnostics
}
