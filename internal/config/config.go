package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Default values.
const (
	DefaultDBPath    = "~/.tood/todos.db"
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// Config holds the full configuration for tood.
type Config struct {
	// DBPath is the SQLite database file holding the todos table.
	DBPath string `toml:"db_path"`

	// Editor overrides $VISUAL/$EDITOR for multi-line input.
	Editor string `toml:"editor"`

	// IncompleteOnly makes bare `tood list` hide completed tasks.
	IncompleteOnly bool `toml:"incomplete_only"`

	// Logging configuration
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	// Verbose lowers the log level to debug (flag only).
	Verbose bool `toml:"-"`
}

// Load loads configuration from defaults, config files, environment
// variables, and flags bound to fs, in that order.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}

	// 1. Set defaults
	setDefaults(cfg)

	// 2. Try to load from user config file
	if userFile := findUserConfigFile(); userFile != "" {
		if err := loadConfigFile(cfg, userFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userFile, err)
		}
	}

	// 3. Try to load from project config file (overrides user config)
	if projectFile := findProjectConfigFile(); projectFile != "" {
		if err := loadConfigFile(cfg, projectFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectFile, err)
		}
	}

	// 4. Override from environment
	loadFromEnv(cfg)

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	finalizeConfig(cfg)

	return cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.DBPath = DefaultDBPath
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}

func loadConfigFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

// loadFromEnv overrides config from TOOD_* environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TOOD_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("TOOD_EDITOR"); v != "" {
		cfg.Editor = v
	}
	if v := os.Getenv("TOOD_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TOOD_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("TOOD_INCOMPLETE"); v != "" {
		cfg.IncompleteOnly = boolFromString(v)
	}
}

// parseFlags defines and parses global CLI flags.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet("tood", flag.ContinueOnError)
	}

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the todos database")
	fs.StringVar(&cfg.Editor, "editor", cfg.Editor, "Editor command for multi-line input")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json|logfmt)")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Enable debug logging")

	return fs.Parse(args)
}

// finalizeConfig computes derived values.
func finalizeConfig(cfg *Config) {
	cfg.DBPath = expandPath(cfg.DBPath)
	if !filepath.IsAbs(cfg.DBPath) {
		if wd, err := os.Getwd(); err == nil {
			cfg.DBPath = filepath.Join(wd, cfg.DBPath)
		}
	}
	if cfg.Verbose {
		cfg.LogLevel = "debug"
	}
}

func boolFromString(v string) bool {
	switch v {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	}
	return false
}
