package searchpath

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/teranos/m6rc/errors"
)

// Match is one path found for an Embed: reference.
type Match struct {
	Path     string // Path usable with os.Open
	Display  string // Path relative to the search root it was found in
	Root     string // Search root, empty for absolute references
	IsDir    bool
	Wildcard bool // The reference was a glob pattern
}

// HasWildcard reports whether a reference is a glob pattern. Only '*' and
// '?' make a pattern, so a name such as notes[v1].txt is looked up as is.
// Within a pattern, [...] is a character class.
func HasWildcard(ref string) bool {
	return strings.ContainsAny(ref, "*?")
}

// ResolveInclude locates the file named by an Include: reference.
// Absolute references are used as-is; relative ones are tried against each
// root in order and the first regular file wins. The returned error wraps
// errors.ErrNotFound when nothing matches.
func (sp SearchPath) ResolveInclude(ref string) (string, error) {
	for _, candidate := range sp.candidates(ref) {
		info, err := os.Stat(candidate)
		if err == nil && info.Mode().IsRegular() {
			return candidate, nil
		}
	}
	return "", errors.Wrapf(errors.ErrNotFound, "%s", ref)
}

// ResolveEmbed expands an Embed: reference.
//
// A plain reference resolves like an include, except that a directory is
// returned as a match (IsDir set) so the caller can reject it. A glob pattern
// is expanded in every root, in root order, and all matches are concatenated;
// within one root matches are sorted by path. A pattern matching nothing is
// not an error.
func (sp SearchPath) ResolveEmbed(ref string) ([]Match, error) {
	if !HasWildcard(ref) {
		for _, candidate := range sp.candidates(ref) {
			info, err := os.Stat(candidate)
			if err != nil {
				continue
			}
			root := sp.rootOf(candidate, ref)
			return []Match{{
				Path:    candidate,
				Display: displayName(root, candidate),
				Root:    root,
				IsDir:   info.IsDir(),
			}}, nil
		}
		return nil, errors.Wrapf(errors.ErrNotFound, "%s", ref)
	}

	if !doublestar.ValidatePathPattern(ref) {
		return nil, errors.Wrapf(doublestar.ErrBadPattern, "%s", ref)
	}

	if filepath.IsAbs(ref) {
		paths, err := doublestar.FilepathGlob(ref)
		if err != nil {
			return nil, errors.Wrapf(err, "expanding %s", ref)
		}
		sort.Strings(paths)
		return statMatches("", paths), nil
	}

	var matches []Match
	for _, root := range sp.roots {
		paths, err := globRoot(root, ref)
		if err != nil {
			return nil, errors.Wrapf(err, "expanding %s in %s", ref, root)
		}
		matches = append(matches, statMatches(root, paths)...)
	}
	return matches, nil
}

func (sp SearchPath) candidates(ref string) []string {
	if filepath.IsAbs(ref) {
		return []string{filepath.Clean(ref)}
	}
	out := make([]string, 0, len(sp.roots))
	for _, root := range sp.roots {
		out = append(out, filepath.Join(root, ref))
	}
	return out
}

func (sp SearchPath) rootOf(candidate, ref string) string {
	if filepath.IsAbs(ref) {
		return ""
	}
	for _, root := range sp.roots {
		if filepath.Join(root, ref) == candidate {
			return root
		}
	}
	return ""
}

// globRoot expands pattern beneath root and returns OS paths sorted by name.
func globRoot(root, pattern string) ([]string, error) {
	slashed := path.Clean(filepath.ToSlash(pattern))

	var paths []string
	if fs.ValidPath(slashed) {
		names, err := doublestar.Glob(os.DirFS(root), slashed)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			paths = append(paths, filepath.Join(root, filepath.FromSlash(name)))
		}
	} else {
		// Patterns climbing out of the root ("../x/*.go") cannot use an fs.FS.
		var err error
		paths, err = doublestar.FilepathGlob(filepath.Join(root, pattern))
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(paths)
	return paths, nil
}

func statMatches(root string, paths []string) []Match {
	matches := make([]Match, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			// Dangling symlinks and races with deletion are skipped like
			// any other unreadable glob result.
			continue
		}
		matches = append(matches, Match{
			Path:     p,
			Display:  displayName(root, p),
			Root:     root,
			IsDir:    info.IsDir(),
			Wildcard: true,
		})
	}
	return matches
}

func displayName(root, p string) string {
	if root == "" {
		return p
	}
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return p
	}
	return filepath.ToSlash(rel)
}
