package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/teranos/m6rc/am"
	"github.com/teranos/m6rc/errors"
	"gopkg.in/yaml.v3"
)

func newAmCmd(env *cliEnv) *cobra.Command {
	amCmd := &cobra.Command{
		Use:   "am",
		Short: "Manage m6rc configuration",
		Long: `am - Manage m6rc configuration ("I am")

Display and manage m6rc configuration settings.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (M6RC_* prefix)
3. Project config (nearest m6rc.toml or am.toml, or --config)
4. User config (~/.m6rc/am.toml)
5. System config (/etc/m6rc/config.toml)
6. Default values

Examples:
  m6rc am show                        # Show current configuration
  m6rc am show --format json          # Show configuration in JSON format
  m6rc am get include.max_depth       # Get specific config value
  m6rc am set embed.languages.h c     # Tag *.h embeds as c
  m6rc am where                       # Show where each value comes from
  m6rc am validate                    # Validate current configuration`,
	}

	var format string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current m6rc configuration from all sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAmShow(cmd, env.cfg, format)
		},
	}
	showCmd.Flags().StringVar(&format, "format", "toml", "Output format: toml, json, yaml")

	getCmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Get a specific configuration value",
		Long:  "Get a specific configuration value using dot notation (e.g., include.max_depth, embed.languages)",
		Args:  cobra.ExactArgs(1),
		RunE:  runAmGet,
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate current configuration",
		Long:  "Validate the current configuration and report unknown keys in config files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAmValidate(cmd, env.cfg)
		},
	}

	whereCmd := &cobra.Command{
		Use:   "where",
		Short: "Show where configuration is loaded from",
		Long: `Show the configuration cascade and which source supplied each setting.

Lists the config files that were merged, lowest precedence first, then
every setting grouped by the file, environment variable or default it
came from.`,
		Args: cobra.NoArgs,
		RunE: runAmWhere,
	}

	var user bool
	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value in a config file",
		Long: `Write a setting to the project config file (the nearest m6rc.toml or
am.toml, else ./m6rc.toml), or to ~/.m6rc/am.toml with --user.
The previous file is kept as .back1 (up to three backups).

List values such as include.dirs are given comma separated.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAmSet(cmd, env, user, args[0], args[1])
		},
	}
	setCmd.Flags().BoolVar(&user, "user", false, "Write to the user config instead of the project config")

	amCmd.AddCommand(showCmd, getCmd, validateCmd, whereCmd, setCmd)
	return amCmd
}

func runAmShow(cmd *cobra.Command, cfg *am.Config, format string) error {
	out := cmd.OutOrStdout()

	switch format {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to JSON")
		}
		fmt.Fprintln(out, string(data))

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(out, "# m6rc configuration\n%s", data)

	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		fmt.Fprintf(out, "# m6rc configuration\n%s", data)

	default:
		return errors.NewUsageError("unsupported format: %s (supported: toml, json, yaml)", format)
	}
	return nil
}

func runAmGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	v, err := am.GetViper()
	if err != nil {
		return err
	}
	if !v.IsSet(key) {
		return errors.WithHint(
			errors.Newf("configuration key %q not found", key),
			"run 'm6rc am show' to list settings")
	}

	value := v.Get(key)
	switch val := value.(type) {
	case map[string]interface{}, map[string]string:
		data, err := toml.Marshal(val)
		if err != nil {
			return errors.Wrap(err, "failed to marshal value")
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
	case []interface{}, []string:
		fmt.Fprintln(cmd.OutOrStdout(), strings.Trim(fmt.Sprint(val), "[]"))
	default:
		fmt.Fprintln(cmd.OutOrStdout(), val)
	}
	return nil
}

func runAmValidate(cmd *cobra.Command, cfg *am.Config) error {
	out := cmd.OutOrStdout()

	warnings, err := am.CheckLoadedFiles()
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprint(out, pterm.Warning.Sprintfln("%s: unknown key %s", w.File, w.Key))
	}

	if err := cfg.Validate(); err != nil {
		return &ExitError{Code: ExitUsage, Err: errors.Wrap(err, "configuration validation failed")}
	}

	fmt.Fprintln(out, pterm.Green("✓ Configuration is valid"))
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	intro, err := am.GetConfigIntrospection()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(out, "  1. [DEFAULT]  Built-in defaults")
	fmt.Fprintln(out, "  2. [SYSTEM]   /etc/m6rc/config.toml")
	fmt.Fprintln(out, "  3. [USER]     ~/.m6rc/am.toml")
	fmt.Fprintln(out, "  4. [PROJECT]  ./m6rc.toml or ./am.toml (searches up directories), or --config")
	fmt.Fprintln(out, "  5. [ENV]      M6RC_* environment variables")
	fmt.Fprintln(out)

	if len(intro.Files) == 0 {
		fmt.Fprintln(out, "No config files found.")
	} else {
		fmt.Fprintln(out, "Files merged:")
		for _, f := range intro.Files {
			fmt.Fprintf(out, "  %s\n", f)
		}
	}

	// Group settings by the file or source that supplied them, in cascade order
	sourceOrder := []am.ConfigSource{
		am.SourceDefault,
		am.SourceSystem,
		am.SourceUser,
		am.SourceProject,
		am.SourceFlag,
		am.SourceEnvironment,
	}
	fmt.Fprintln(out, "\nActive configuration:")
	for _, source := range sourceOrder {
		var settings []am.SettingInfo
		for _, s := range intro.Settings {
			if s.Source == source {
				settings = append(settings, s)
			}
		}
		if len(settings) == 0 {
			continue
		}

		switch source {
		case am.SourceDefault:
			fmt.Fprintf(out, "\n%s: %d settings\n", source, len(settings))
		case am.SourceEnvironment:
			fmt.Fprintf(out, "\n%s: %d settings from environment variables\n", source, len(settings))
		default:
			fmt.Fprintf(out, "\n%s: %d settings from %s\n", source, len(settings), settings[0].SourcePath)
		}

		for _, s := range settings {
			valueStr := fmt.Sprintf("%v", s.Value)
			if len(valueStr) > 50 {
				valueStr = valueStr[:47] + "..."
			}
			if source == am.SourceEnvironment {
				fmt.Fprintf(out, "  %s = %s (%s)\n", s.Key, valueStr, s.SourcePath)
				continue
			}
			fmt.Fprintf(out, "  %s = %s\n", s.Key, valueStr)
		}
	}
	return nil
}

func runAmSet(cmd *cobra.Command, env *cliEnv, user bool, key, value string) error {
	var path string
	switch {
	case user:
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "cannot locate home directory")
		}
		path = filepath.Join(home, ".m6rc", "am.toml")
	case env.configFile != "":
		path = env.configFile
	default:
		cwd, err := os.Getwd()
		if err != nil {
			return errors.Wrap(err, "cannot determine working directory")
		}
		path = am.ProjectConfigPath(cwd)
	}

	if err := am.SetValue(path, key, value); err != nil {
		return &ExitError{Code: ExitUsage, Err: err}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s (%s)\n", key, value, path)
	return nil
}
