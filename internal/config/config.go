// Package config loads draftsmith settings from a TOML file with
// environment overrides. Priority: defaults -> first existing config
// file -> DRAFTSMITH_* environment variables. A missing config file is
// not an error; the server runs on defaults.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config is the full application configuration.
type Config struct {
	Logging    LoggingConfig    `toml:"logging"`
	Validation ValidationConfig `toml:"validation"`
	Journal    JournalConfig    `toml:"journal"`
	Scan       ScanConfig       `toml:"scan"`
}

// LoggingConfig controls the structured logger. Output goes to stderr
// unless File is set; stdout is reserved for the MCP transport.
type LoggingConfig struct {
	Level      string `toml:"level" validate:"oneof=trace debug info warn error"`
	TimeFormat string `toml:"time_format"`
	File       string `toml:"file"`
}

// ValidationConfig controls input validation behavior.
type ValidationConfig struct {
	// StrictFields rejects unknown input fields instead of dropping them.
	StrictFields bool `toml:"strict_fields"`
}

// JournalConfig controls the invocation journal sidecar.
type JournalConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// ScanConfig controls the filesystem scanner.
type ScanConfig struct {
	Root      string `toml:"root"`
	MaxFiles  int    `toml:"max_files" validate:"min=1,max=100000"`
	MaxDepth  int    `toml:"max_depth" validate:"min=1,max=64"`
	MaxFileKB int    `toml:"max_file_kb" validate:"min=1,max=10240"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:      "info",
			TimeFormat: "15:04:05",
		},
		Validation: ValidationConfig{
			StrictFields: false,
		},
		Journal: JournalConfig{
			Enabled: true,
			Dir:     defaultDataDir(),
		},
		Scan: ScanConfig{
			Root:      ".",
			MaxFiles:  5000,
			MaxDepth:  8,
			MaxFileKB: 256,
		},
	}
}

// DefaultPaths is the config file search order when Load gets no paths.
func DefaultPaths() []string {
	paths := []string{"draftsmith.toml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".draftsmith", "config.toml"))
	}
	return paths
}

// Load reads the first existing path, layers it over the defaults,
// applies environment overrides, and validates the result. With no
// paths the default search order is used. No file existing at all is
// fine.
func Load(paths ...string) (*Config, error) {
	if len(paths) == 0 {
		paths = DefaultPaths()
	}

	cfg := Default()
	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Wrapf(err, "config: reading %s", path)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "config: parsing %s", path)
		}
		break
	}

	applyEnvOverrides(cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "config: invalid")
	}
	return cfg, nil
}

// applyEnvOverrides applies DRAFTSMITH_* environment variables.
// Unparseable boolean values are ignored.
func applyEnvOverrides(cfg *Config) {
	if level := os.Getenv("DRAFTSMITH_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if strict := os.Getenv("DRAFTSMITH_STRICT_FIELDS"); strict != "" {
		if v, err := strconv.ParseBool(strict); err == nil {
			cfg.Validation.StrictFields = v
		}
	}
	if dir := os.Getenv("DRAFTSMITH_JOURNAL_DIR"); dir != "" {
		cfg.Journal.Dir = dir
	}
	if enabled := os.Getenv("DRAFTSMITH_JOURNAL_ENABLED"); enabled != "" {
		if v, err := strconv.ParseBool(enabled); err == nil {
			cfg.Journal.Enabled = v
		}
	}
	if root := os.Getenv("DRAFTSMITH_SCAN_ROOT"); root != "" {
		cfg.Scan.Root = root
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".draftsmith"
	}
	return filepath.Join(home, ".draftsmith")
}
