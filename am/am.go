// Package am ("I am") loads the m6rc configuration.
//
// Settings are layered, lowest precedence first: built-in defaults,
// /etc/m6rc/config.toml, ~/.m6rc/am.toml, the nearest m6rc.toml or am.toml
// found walking up from the working directory, then M6RC_* environment
// variables. Command-line flags override everything and are applied by the
// CLI on top of the loaded Config.
package am

// Config represents the m6rc configuration
type Config struct {
	Include IncludeConfig `mapstructure:"include" toml:"include" json:"include" yaml:"include"`
	Embed   EmbedConfig   `mapstructure:"embed" toml:"embed" json:"embed" yaml:"embed"`
	Parser  ParserConfig  `mapstructure:"parser" toml:"parser" json:"parser" yaml:"parser"`
	Output  OutputConfig  `mapstructure:"output" toml:"output" json:"output" yaml:"output"`
	Log     LogConfig     `mapstructure:"log" toml:"log" json:"log" yaml:"log"`
}

// IncludeConfig configures the search path used by Include: and Embed:
type IncludeConfig struct {
	// Dirs are search roots added after -I directories, alongside EnvVar's
	Dirs []string `mapstructure:"dirs" toml:"dirs" json:"dirs" yaml:"dirs"`
	// EnvVar names the environment variable holding a path list of roots
	EnvVar string `mapstructure:"env_var" toml:"env_var" json:"env_var" yaml:"env_var"`
	// MaxDepth limits include nesting; 0 = unbounded
	MaxDepth int `mapstructure:"max_depth" toml:"max_depth" json:"max_depth" yaml:"max_depth"`
}

// EmbedConfig configures how embedded files are written into the prompt
type EmbedConfig struct {
	Languages    map[string]string `mapstructure:"languages" toml:"languages" json:"languages" yaml:"languages"` // extension = "fence tag"
	ShowFilename bool              `mapstructure:"show_filename" toml:"show_filename" json:"show_filename" yaml:"show_filename"`
}

// ParserConfig configures the Metaphor scanner
type ParserConfig struct {
	StripComments bool `mapstructure:"strip_comments" toml:"strip_comments" json:"strip_comments" yaml:"strip_comments"` // drop lines starting with '#'
}

// OutputConfig configures the rendered prompt
type OutputConfig struct {
	Preamble bool `mapstructure:"preamble" toml:"preamble" json:"preamble" yaml:"preamble"`
}

// LogConfig configures diagnostics logging on stderr
type LogConfig struct {
	JSON  bool   `mapstructure:"json" toml:"json" json:"json" yaml:"json"`
	Theme string `mapstructure:"theme" toml:"theme" json:"theme" yaml:"theme"` // Color theme: everforest, gruvbox, none
}

// Themes accepted by log.theme
var Themes = []string{"everforest", "gruvbox", "none"}
