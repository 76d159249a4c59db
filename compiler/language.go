package compiler

import (
	"path/filepath"
	"strings"
)

// languages maps lower-case file extensions to code-fence language tags.
var languages = map[string]string{
	".bash":  "bash",
	".c":     "c",
	".cc":    "cpp",
	".cpp":   "cpp",
	".cs":    "csharp",
	".css":   "css",
	".cxx":   "cpp",
	".dart":  "dart",
	".go":    "go",
	".h":     "c",
	".hpp":   "cpp",
	".html":  "html",
	".java":  "java",
	".js":    "javascript",
	".json":  "json",
	".jsx":   "javascript",
	".kt":    "kotlin",
	".lua":   "lua",
	".m":     "objectivec",
	".m6r":   "metaphor",
	".md":    "markdown",
	".mod":   "go",
	".php":   "php",
	".pl":    "perl",
	".proto": "protobuf",
	".py":    "python",
	".r":     "r",
	".rb":    "ruby",
	".rs":    "rust",
	".scala": "scala",
	".sh":    "bash",
	".sql":   "sql",
	".swift": "swift",
	".toml":  "toml",
	".ts":    "typescript",
	".tsx":   "typescript",
	".xml":   "xml",
	".yaml":  "yaml",
	".yml":   "yaml",
	".zig":   "zig",
	".zsh":   "bash",
}

// filenames maps extensionless well-known file names to tags.
var filenames = map[string]string{
	"dockerfile": "dockerfile",
	"makefile":   "makefile",
}

// LanguageFor returns the fence tag for path, or "" when the extension is
// unknown. Overrides are keyed by extension, with or without the leading dot,
// and take precedence over the built-in table. An override mapping to "" turns
// tagging off for that extension.
func LanguageFor(path string, overrides map[string]string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" {
		if tag, ok := lookupOverride(overrides, ext); ok {
			return tag
		}
		return languages[ext]
	}
	return filenames[strings.ToLower(filepath.Base(path))]
}

func lookupOverride(overrides map[string]string, ext string) (string, bool) {
	if tag, ok := overrides[ext]; ok {
		return tag, true
	}
	tag, ok := overrides[strings.TrimPrefix(ext, ".")]
	return tag, ok
}
