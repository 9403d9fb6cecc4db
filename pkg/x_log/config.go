// file: phfwd/pkg/x_log/config.go
package x_log

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
)

const (
	defaultConfigPath = "./xlog.json"
	EnvConfigPath     = "PHFWD_LOG_CONFIG"
)

var defaultConfig = Config{
	Level:      "info",
	LogFile:    "logs/phfwd.log",
	ToConsole:  true,
	Style:      "dark",
	MaxSize:    10,
	MaxBackups: 5,
	MaxAge:     7,
	Compress:   true,
}

// ResolvePath picks the log settings file: path itself, else
// $PHFWD_LOG_CONFIG, else ./xlog.json.
func ResolvePath(path string) string {
	if path != "" {
		return path
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env
	}
	return defaultConfigPath
}

// LoadConfig reads logging settings on top of the defaults. A missing
// file yields the defaults. Keys use the same snake_case names as the
// directory config's "log" block.
func LoadConfig(path string) (*Config, error) {
	path = filepath.Clean(ResolvePath(path))
	cfg := defaultConfig

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read log config %s: %w", path, err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse log config %s: %w", path, err)
	}
	if err := mapstructure.WeakDecode(raw, &cfg); err != nil {
		return nil, fmt.Errorf("decode log config %s: %w", path, err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// applyDefaults fills zero values that would break a writer.
func applyDefaults(cfg *Config) {
	if cfg.Level == "" {
		cfg.Level = defaultConfig.Level
	}
	if cfg.LogFile == "" {
		cfg.LogFile = defaultConfig.LogFile
	}
	if cfg.Style == "" {
		cfg.Style = defaultConfig.Style
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = defaultConfig.MaxSize
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = defaultConfig.MaxBackups
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = defaultConfig.MaxAge
	}
}
