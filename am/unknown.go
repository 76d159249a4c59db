package am

import (
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/teranos/m6rc/errors"
)

// UnknownKeys decodes a config file strictly and returns the keys that do not
// correspond to any setting, usually misspellings.
func UnknownKeys(path string) ([]string, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}

	var keys []string
	for _, key := range md.Undecoded() {
		keys = append(keys, key.String())
	}
	sort.Strings(keys)
	return keys, nil
}

// UnknownKeyWarning is an unrecognised key found in a loaded config file
type UnknownKeyWarning struct {
	File string
	Key  string
}

// CheckLoadedFiles runs UnknownKeys over every config file the last load merged.
func CheckLoadedFiles() ([]UnknownKeyWarning, error) {
	var warnings []UnknownKeyWarning
	for _, file := range LoadedFiles() {
		keys, err := UnknownKeys(file)
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			warnings = append(warnings, UnknownKeyWarning{File: file, Key: key})
		}
	}
	return warnings, nil
}
