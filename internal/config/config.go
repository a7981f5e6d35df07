package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sigreer/autoxrandr/internal/logger"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// ProfilesPath is the JSON file holding all saved layouts
	ProfilesPath string `yaml:"profiles_path"`
	// HistoryPath is the SQLite database recording save/apply/remove runs
	HistoryPath string `yaml:"history_path"`
	// History turns the operation history on or off
	History *bool         `yaml:"history,omitempty"`
	Xrandr  Xrandr        `yaml:"xrandr"`
	Logging logger.Config `yaml:"logging"`
}

type Xrandr struct {
	Binary  string `yaml:"binary"`
	Display string `yaml:"display,omitempty"`
}

// defaultConfig provides baseline settings; paths live under the user's
// config directory
var defaultConfig = Config{
	ProfilesPath: "~/.config/autoxrandr/xprofile.json",
	HistoryPath:  "~/.config/autoxrandr/history.db",
	Xrandr: Xrandr{
		Binary: "xrandr",
	},
	Logging: logger.Config{
		Level:  "warn",
		Output: "stderr",
		Format: "console",
	},
}

// Load reads the config file at path, or the first default location that
// exists. A missing default file is not an error; an explicit path that
// cannot be read is, and so is invalid YAML.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		// Try default locations
		candidates := []string{
			filepath.Join(os.Getenv("HOME"), ".config/autoxrandr/config.yaml"),
			"config.yaml",
		}
		for _, c := range candidates {
			if _, err := os.Stat(c); err == nil {
				path = c
				break
			}
		}
	}

	var cfg Config
	if path == "" {
		// No config file found - use defaults
		cfg = defaultConfig
	} else {
		data, err := os.ReadFile(path)
		switch {
		case err != nil && explicit:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		case err != nil:
			// Candidate vanished between Stat and ReadFile
			cfg = defaultConfig
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, err
			}
		}
	}

	// Apply defaults for missing settings
	if cfg.ProfilesPath == "" {
		cfg.ProfilesPath = defaultConfig.ProfilesPath
	}
	if cfg.HistoryPath == "" {
		cfg.HistoryPath = defaultConfig.HistoryPath
	}
	if cfg.Xrandr.Binary == "" {
		cfg.Xrandr.Binary = defaultConfig.Xrandr.Binary
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaultConfig.Logging.Level
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = defaultConfig.Logging.Output
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = defaultConfig.Logging.Format
	}

	cfg.ProfilesPath = expandHome(cfg.ProfilesPath)
	cfg.HistoryPath = expandHome(cfg.HistoryPath)

	return &cfg, nil
}

// HistoryEnabled reports whether operations should be recorded
func (c *Config) HistoryEnabled() bool {
	return c.History == nil || *c.History
}

func expandHome(path string) string {
	if path == "~" {
		return os.Getenv("HOME")
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(os.Getenv("HOME"), path[2:])
	}
	return path
}
