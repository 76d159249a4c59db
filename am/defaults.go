package am

import (
	"github.com/spf13/viper"
	"github.com/teranos/m6rc/searchpath"
)

// File permission constants
const (
	DefaultDirPermissions  = 0o755
	DefaultFilePermissions = 0o644
)

// EnvPrefix prefixes every environment variable that maps onto a config key.
const EnvPrefix = "M6RC"

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Search path
	v.SetDefault("include.dirs", []string{})
	v.SetDefault("include.env_var", searchpath.DefaultEnvVar)
	v.SetDefault("include.max_depth", 0) // unbounded

	// Embeds
	v.SetDefault("embed.languages", map[string]string{})
	v.SetDefault("embed.show_filename", true)

	// Parser
	v.SetDefault("parser.strip_comments", false) // keep body text verbatim

	// Output
	v.SetDefault("output.preamble", true)

	// Logging
	v.SetDefault("log.json", false)
	v.SetDefault("log.theme", "everforest")
}

// BindEnvVars explicitly binds keys whose environment names are used elsewhere
// so they are visible to Unmarshal even without a config file.
func BindEnvVars(v *viper.Viper) {
	v.BindEnv("log.theme", "M6RC_LOG_THEME")
	v.BindEnv("log.json", "M6RC_LOG_JSON")
	v.BindEnv("include.max_depth", "M6RC_INCLUDE_MAX_DEPTH")
	v.BindEnv("include.dirs", "M6RC_INCLUDE_DIRS")
}

// GetEnvVar returns the environment variable holding extra search roots
func (c *Config) GetEnvVar() string {
	if c.Include.EnvVar == "" {
		return searchpath.DefaultEnvVar
	}
	return c.Include.EnvVar
}

// GetLogTheme returns the log theme (default: everforest)
func (c *Config) GetLogTheme() string {
	if c.Log.Theme == "" {
		return "everforest"
	}
	return c.Log.Theme
}
