package x_log

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

//
// ---------- Config ----------

// Config controls log level and outputs.
type Config struct {
	Level      string `json:"level" mapstructure:"level"`
	LogFile    string `json:"log_file" mapstructure:"log_file"`
	ToConsole  bool   `json:"to_console" mapstructure:"to_console"`
	ToFile     bool   `json:"to_file" mapstructure:"to_file"`
	JSON       bool   `json:"json" mapstructure:"json"` // plain JSON on the console
	Style      string `json:"style" mapstructure:"style"`
	MaxSize    int    `json:"max_size" mapstructure:"max_size"`       // MB
	MaxBackups int    `json:"max_backups" mapstructure:"max_backups"` // rotated files
	MaxAge     int    `json:"max_age" mapstructure:"max_age"`         // days
	Compress   bool   `json:"compress" mapstructure:"compress"`
}

//
// ---------- Defaults ----------

const defaultConfigPath = "./xlog.json"

// DefaultConfig returns console logging at info level.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		LogFile:    "logs/searchlab.log",
		ToConsole:  true,
		Style:      "dark",
		MaxSize:    10,
		MaxBackups: 5,
		MaxAge:     7,
		Compress:   true,
	}
}

//
// ---------- LoadConfig ----------

// LoadConfig reads JSON config from file.
// If path is empty, uses XLOG_CONFIG or ./xlog.json. A missing file yields defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("XLOG_CONFIG")
		if path == "" {
			path = defaultConfigPath
		}
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := DefaultConfig()
			return &cfg, nil
		}
		return nil, fmt.Errorf("read log config %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse log config %s: %w", path, err)
	}
	ApplyDefaults(&cfg)
	return &cfg, nil
}

// ApplyDefaults fills zero fields from DefaultConfig.
// With neither output selected, logging goes to the console.
func ApplyDefaults(cfg *Config) {
	def := DefaultConfig()
	if cfg.Level == "" {
		cfg.Level = def.Level
	}
	if cfg.LogFile == "" {
		cfg.LogFile = def.LogFile
	}
	if cfg.Style == "" {
		cfg.Style = def.Style
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = def.MaxSize
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = def.MaxBackups
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = def.MaxAge
	}
	if !cfg.ToConsole && !cfg.ToFile {
		cfg.ToConsole = true
	}
}
