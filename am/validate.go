package am

import (
	"regexp"
	"slices"
	"strings"

	"github.com/teranos/m6rc/errors"
)

var envNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Max depth: 0 = unbounded, negative = invalid
	if c.Include.MaxDepth < 0 {
		return errors.Newf("include.max_depth must be >= 0, got %d", c.Include.MaxDepth)
	}

	// Empty env_var falls back to the default; anything else must be a usable name
	if c.Include.EnvVar != "" && !envNamePattern.MatchString(c.Include.EnvVar) {
		return errors.Newf("include.env_var %q is not a valid environment variable name", c.Include.EnvVar)
	}

	for i, dir := range c.Include.Dirs {
		if strings.TrimSpace(dir) == "" {
			return errors.Newf("include.dirs[%d] is empty", i)
		}
	}

	for ext, tag := range c.Embed.Languages {
		name := strings.TrimPrefix(ext, ".")
		if name == "" || strings.ContainsAny(name, `/\. `) {
			return errors.Newf("embed.languages key %q must be a file extension such as \"go\" or \".go\"", ext)
		}
		if strings.ContainsAny(tag, " \t\n`") {
			return errors.Newf("embed.languages.%s: fence tag %q cannot contain spaces or backticks", name, tag)
		}
	}

	if c.Log.Theme != "" && !slices.Contains(Themes, c.Log.Theme) {
		return errors.WithHintf(
			errors.Newf("log.theme %q is not a known theme", c.Log.Theme),
			"use one of: %s", strings.Join(Themes, ", "))
	}

	return nil
}
