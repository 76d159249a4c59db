package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLanguageFor(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		overrides map[string]string
		want      string
	}{
		{name: "go", path: "cmd/main.go", want: "go"},
		{name: "upper case extension", path: "README.MD", want: "markdown"},
		{name: "python", path: "/abs/tool.py", want: "python"},
		{name: "unknown extension", path: "notes.txt", want: ""},
		{name: "no extension", path: "LICENSE", want: ""},
		{name: "makefile", path: "build/Makefile", want: "makefile"},
		{name: "dockerfile", path: "Dockerfile", want: "dockerfile"},
		{name: "override without dot", path: "notes.txt", overrides: map[string]string{"txt": "text"}, want: "text"},
		{name: "override with dot", path: "notes.txt", overrides: map[string]string{".txt": "plain"}, want: "plain"},
		{name: "override replaces table", path: "x.h", overrides: map[string]string{"h": "cpp"}, want: "cpp"},
		{name: "override disables tag", path: "x.go", overrides: map[string]string{"go": ""}, want: ""},
		{name: "unrelated override", path: "x.go", overrides: map[string]string{"rs": "rust"}, want: "go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LanguageFor(tt.path, tt.overrides))
		})
	}
}
