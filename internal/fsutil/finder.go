// Package fsutil provides file system utility functions.
package fsutil

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// SourceExtension is the file extension of Metaphor documents.
const SourceExtension = ".m6r"

// FindFilesByExtension searches root for files ending with extension and
// returns their paths in lexical order. With recursive false only the files
// directly inside root are considered. Hidden directories are not entered.
func FindFilesByExtension(root string, extension string, recursive bool) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			if !recursive || strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// FindSources returns the Metaphor documents under root.
func FindSources(root string, recursive bool) ([]string, error) {
	return FindFilesByExtension(root, SourceExtension, recursive)
}
