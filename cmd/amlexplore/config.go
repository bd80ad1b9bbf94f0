package main

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// preferences is the explorer's persisted look-and-feel: a theme name and
// an auto-expand depth. The browser prints the theme name in its header
// and does not apply it to styling; it lists every level of the tree and
// does not read ExpandDepth. yaml.v3
// reaches the module as testify's own transitive dependency in the
// example pack; the explorer promotes it to a direct import for its own
// config file rather than adding a second YAML library for the same job.
type preferences struct {
	Theme       string `yaml:"theme"`
	ExpandDepth int    `yaml:"expand_depth"`
}

func defaultPreferences() preferences {
	return preferences{Theme: "default", ExpandDepth: 2}
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".amlexplore.yaml"), nil
}

// loadPreferences reads ~/.amlexplore.yaml, falling back to defaults when
// the file does not exist; a malformed file is an error the caller
// surfaces rather than silently papering over.
func loadPreferences() (preferences, error) {
	path, err := configPath()
	if err != nil {
		return defaultPreferences(), nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return defaultPreferences(), nil
	}
	if err != nil {
		return preferences{}, err
	}
	prefs := defaultPreferences()
	if err := yaml.Unmarshal(data, &prefs); err != nil {
		return preferences{}, err
	}
	return prefs, nil
}
