package am

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testutil "github.com/teranos/m6rc/internal/testing"
)

// isolate points HOME and the working directory at a fresh tree and clears
// the cached configuration around the test.
func isolate(t *testing.T, files map[string]string, cwd string) string {
	t.Helper()
	dir := testutil.WriteTree(t, files)
	t.Setenv("HOME", filepath.Join(dir, "home"))
	t.Chdir(filepath.Join(dir, filepath.FromSlash(cwd)))
	Reset()
	t.Cleanup(Reset)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	// Create isolated viper instance without loading user/system config
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	assert.Equal(t, "M6RC_INCLUDE_DIR", cfg.Include.EnvVar)
	assert.Equal(t, 0, cfg.Include.MaxDepth)
	assert.Empty(t, cfg.Include.Dirs)
	assert.True(t, cfg.Embed.ShowFilename)
	assert.False(t, cfg.Parser.StripComments)
	assert.True(t, cfg.Output.Preamble)
	assert.Equal(t, "everforest", cfg.Log.Theme)
	assert.NoError(t, cfg.Validate())
}

func TestSetDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	tests := []struct {
		key      string
		expected interface{}
	}{
		{"include.env_var", "M6RC_INCLUDE_DIR"},
		{"include.max_depth", 0},
		{"embed.show_filename", true},
		{"parser.strip_comments", false},
		{"output.preamble", true},
		{"log.json", false},
		{"log.theme", "everforest"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.expected, v.Get(tt.key))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "zero value is valid", config: Config{}},
		{name: "zero max depth is valid (unbounded)", config: Config{Include: IncludeConfig{MaxDepth: 0}}},
		{name: "negative max depth is invalid", config: Config{Include: IncludeConfig{MaxDepth: -1}}, wantErr: true},
		{name: "custom env var", config: Config{Include: IncludeConfig{EnvVar: "MY_PROMPTS"}}},
		{name: "env var with spaces", config: Config{Include: IncludeConfig{EnvVar: "MY PROMPTS"}}, wantErr: true},
		{name: "env var starting with digit", config: Config{Include: IncludeConfig{EnvVar: "1DIR"}}, wantErr: true},
		{name: "blank include dir", config: Config{Include: IncludeConfig{Dirs: []string{"lib", " "}}}, wantErr: true},
		{name: "language with dot", config: Config{Embed: EmbedConfig{Languages: map[string]string{".txt": "text"}}}},
		{name: "language without dot", config: Config{Embed: EmbedConfig{Languages: map[string]string{"txt": "text"}}}},
		{name: "language key is a path", config: Config{Embed: EmbedConfig{Languages: map[string]string{"a/b": "x"}}}, wantErr: true},
		{name: "empty language key", config: Config{Embed: EmbedConfig{Languages: map[string]string{".": "x"}}}, wantErr: true},
		{name: "fence tag with backtick", config: Config{Embed: EmbedConfig{Languages: map[string]string{"go": "g`o"}}}, wantErr: true},
		{name: "empty fence tag disables tagging", config: Config{Embed: EmbedConfig{Languages: map[string]string{"go": ""}}}},
		{name: "known theme", config: Config{Log: LogConfig{Theme: "gruvbox"}}},
		{name: "unknown theme", config: Config{Log: LogConfig{Theme: "solarized"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadLayering(t *testing.T) {
	dir := isolate(t, map[string]string{
		"home/.m6rc/am.toml": "[include]\nmax_depth = 4\ndirs = [\"shared\"]\n\n[log]\ntheme = \"gruvbox\"\n",
		"proj/m6rc.toml":     "[include]\nmax_depth = 8\n\n[output]\npreamble = false\n",
		"proj/sub/":          "",
	}, "proj/sub")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Include.MaxDepth, "project file beats user file")
	assert.Equal(t, []string{"shared"}, cfg.Include.Dirs, "user keys survive the project merge")
	assert.Equal(t, "gruvbox", cfg.Log.Theme)
	assert.False(t, cfg.Output.Preamble)
	assert.True(t, cfg.Embed.ShowFilename, "defaults fill the rest")

	userFile := filepath.Join(dir, "home", ".m6rc", "am.toml")
	projectFile := filepath.Join(dir, "proj", "m6rc.toml")
	assert.Equal(t, []string{userFile, projectFile}, LoadedFiles())
	assert.Equal(t, SourceInfo{Source: SourceProject, Path: projectFile}, ConfigSources["include.max_depth"])
	assert.Equal(t, SourceInfo{Source: SourceUser, Path: userFile}, ConfigSources["include.dirs"])

	// Load is cached until Reset
	again, err := Load()
	require.NoError(t, err)
	assert.Same(t, cfg, again)
}

func TestLoadEnvironmentOverridesFiles(t *testing.T) {
	isolate(t, map[string]string{
		"proj/m6rc.toml": "[include]\nmax_depth = 8\n",
	}, "proj")
	t.Setenv("M6RC_INCLUDE_MAX_DEPTH", "12")
	t.Setenv("M6RC_PARSER_STRIP_COMMENTS", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Include.MaxDepth)
	assert.True(t, cfg.Parser.StripComments)
}

func TestLoadPrefersM6rcToml(t *testing.T) {
	isolate(t, map[string]string{
		"proj/m6rc.toml": "[include]\nmax_depth = 1\n",
		"proj/am.toml":   "[include]\nmax_depth = 2\n",
	}, "proj")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Include.MaxDepth)
}

func TestSetConfigFile(t *testing.T) {
	dir := isolate(t, map[string]string{
		"proj/m6rc.toml":  "[include]\nmax_depth = 1\n",
		"custom/cfg.toml": "[include]\nmax_depth = 3\n",
	}, "proj")

	SetConfigFile(filepath.Join(dir, "custom", "cfg.toml"))
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Include.MaxDepth, "explicit file replaces the project search")
	assert.Equal(t, SourceFlag, ConfigSources["include.max_depth"].Source)

	SetConfigFile(filepath.Join(dir, "custom", "missing.toml"))
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	isolate(t, map[string]string{
		"proj/m6rc.toml": "[include\nmax_depth = \n",
	}, "proj")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	dir := testutil.WriteTree(t, map[string]string{
		"cfg.toml": "[embed]\nshow_filename = false\n\n[embed.languages]\ntxt = \"text\"\n",
	})

	cfg, err := LoadFromFile(filepath.Join(dir, "cfg.toml"))
	require.NoError(t, err)
	assert.False(t, cfg.Embed.ShowFilename)
	assert.Equal(t, map[string]string{"txt": "text"}, cfg.Embed.Languages)
	assert.True(t, cfg.Output.Preamble)

	_, err = LoadFromFile(filepath.Join(dir, "absent.toml"))
	assert.Error(t, err)
}

func TestFindProjectConfig(t *testing.T) {
	dir := testutil.WriteTree(t, map[string]string{
		"a/am.toml":    "",
		"a/b/c/":       "",
		"x/m6rc.toml/": "",
	})

	assert.Equal(t, filepath.Join(dir, "a", "am.toml"), findProjectConfig(filepath.Join(dir, "a", "b", "c")))
	assert.Equal(t, "", findProjectConfig(filepath.Join(dir, "x")), "directories named like config files are ignored")
}

func TestGetters(t *testing.T) {
	isolate(t, map[string]string{"proj/m6rc.toml": "[log]\ntheme = \"none\"\n"}, "proj")

	assert.Equal(t, "none", GetString("log.theme"))
	assert.Equal(t, true, Get("output.preamble"))

	cfg := &Config{}
	assert.Equal(t, "M6RC_INCLUDE_DIR", cfg.GetEnvVar())
	assert.Equal(t, "everforest", cfg.GetLogTheme())
}

func TestMain(m *testing.M) {
	// Keep the developer's own environment out of config tests
	for _, key := range []string{"M6RC_INCLUDE_MAX_DEPTH", "M6RC_INCLUDE_DIRS", "M6RC_LOG_THEME", "M6RC_LOG_JSON"} {
		os.Unsetenv(key)
	}
	os.Exit(m.Run())
}
