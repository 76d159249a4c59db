// Package searchpath resolves Include: and Embed: references against an
// ordered list of root directories.
//
// The search path is an explicit value: it is built once per invocation from
// the -I arguments, the environment and the working directory, and passed to
// every resolution call. There is no process-wide state.
package searchpath

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultEnvVar names the environment variable that contributes search roots.
const DefaultEnvVar = "M6RC_INCLUDE_DIR"

// SearchPath is an ordered, deduplicated list of directories.
type SearchPath struct {
	roots []string
}

// New builds a search path. Roots are taken in priority order: includeDirs
// (from -I/--include), then envDirs, and only when both are empty, cwd.
// Empty entries are ignored and repeated directories keep their first slot.
func New(includeDirs, envDirs []string, cwd string) SearchPath {
	var sp SearchPath
	seen := make(map[string]bool)
	add := func(dir string) {
		if dir == "" {
			return
		}
		dir = filepath.Clean(dir)
		if seen[dir] {
			return
		}
		seen[dir] = true
		sp.roots = append(sp.roots, dir)
	}

	for _, dir := range includeDirs {
		add(dir)
	}
	for _, dir := range envDirs {
		add(dir)
	}
	if len(sp.roots) == 0 {
		add(cwd)
	}
	return sp
}

// FromEnv splits the named environment variable using the platform's
// path-list separator. Unset or empty variables yield no directories.
func FromEnv(name string) []string {
	return SplitList(os.Getenv(name))
}

// SplitList splits a path list, dropping empty elements.
func SplitList(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	var dirs []string
	for _, dir := range filepath.SplitList(list) {
		if dir = strings.TrimSpace(dir); dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// Roots returns a copy of the search roots in priority order.
func (sp SearchPath) Roots() []string {
	return append([]string(nil), sp.roots...)
}

// Len returns the number of search roots.
func (sp SearchPath) Len() int {
	return len(sp.roots)
}

// String renders the roots as a platform path list.
func (sp SearchPath) String() string {
	return strings.Join(sp.roots, string(filepath.ListSeparator))
}
