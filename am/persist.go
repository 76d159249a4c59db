package am

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/teranos/m6rc/errors"
)

// backupCount is how many rotated backups SetValue keeps.
const backupCount = 3

// createBackup creates rotating backups (.back1 .. .back3) before modifying config
func createBackup(configPath string) error {
	// Check if file exists before backing up
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil // No file to backup
	}

	// Rotate: .back2 -> .back3, .back1 -> .back2; the oldest is overwritten
	for i := backupCount - 1; i >= 1; i-- {
		from := configPath + ".back" + strconv.Itoa(i)
		to := configPath + ".back" + strconv.Itoa(i+1)
		if _, err := os.Stat(from); err == nil {
			if err := os.Rename(from, to); err != nil {
				return errors.Wrapf(err, "failed to rotate %s", filepath.Base(from))
			}
		}
	}

	// Copy current to .back1
	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}
	if err := os.WriteFile(configPath+".back1", content, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}
	return nil
}

// ProjectConfigPath returns the project config file SetValue writes to: the
// nearest existing m6rc.toml or am.toml, else m6rc.toml in dir.
func ProjectConfigPath(dir string) string {
	if existing := findProjectConfig(dir); existing != "" {
		return existing
	}
	return filepath.Join(dir, projectConfigNames[0])
}

// SetValue writes key = raw into the TOML file at configPath, creating the
// file if needed and keeping rotated backups of the previous contents. raw is
// parsed according to the setting's type.
func SetValue(configPath, key, raw string) error {
	value, err := parseValue(key, raw)
	if err != nil {
		return err
	}

	config := map[string]interface{}{}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := toml.Unmarshal(data, &config); err != nil {
			return errors.Wrapf(err, "failed to parse %s", configPath)
		}
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to read %s", configPath)
	}

	if err := setNested(config, strings.Split(key, "."), value); err != nil {
		return errors.Wrapf(err, "cannot set %s", key)
	}

	// Marshal before touching the file so a bad value leaves it intact
	data, err := toml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := createBackup(configPath); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}
	if err := os.MkdirAll(filepath.Dir(configPath), DefaultDirPermissions); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	if err := os.WriteFile(configPath, data, DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write %s", configPath)
	}
	return nil
}

// parseValue converts a command-line string to the type of the setting.
func parseValue(key, raw string) (interface{}, error) {
	switch key {
	case "include.max_depth":
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "%s expects an integer", key)
		}
		return n, nil
	case "embed.show_filename", "parser.strip_comments", "output.preamble", "log.json":
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "%s expects true or false", key)
		}
		return b, nil
	case "include.dirs":
		var dirs []string
		for _, d := range strings.Split(raw, ",") {
			if d = strings.TrimSpace(d); d != "" {
				dirs = append(dirs, d)
			}
		}
		return dirs, nil
	case "include.env_var", "log.theme":
		return raw, nil
	}
	if strings.HasPrefix(key, "embed.languages.") && len(key) > len("embed.languages.") {
		return raw, nil
	}
	return nil, errors.WithHint(
		errors.Newf("unknown setting %q", key),
		"run 'm6rc am show' to list settings")
}

func setNested(m map[string]interface{}, path []string, value interface{}) error {
	if len(path) == 1 {
		m[path[0]] = value
		return nil
	}
	child, ok := m[path[0]]
	if !ok {
		child = map[string]interface{}{}
		m[path[0]] = child
	}
	nested, ok := child.(map[string]interface{})
	if !ok {
		return errors.Newf("%s is not a table", path[0])
	}
	return setNested(nested, path[1:], value)
}
