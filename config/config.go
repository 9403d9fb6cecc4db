// file: phfwd/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/rskv-p/phfwd/pkg/x_log"
)

const (
	EnvPrefix     = "PHFWD_"
	EnvConfigPath = "PHFWD_CONFIG"

	// minNodes is what one engine needs before any forwarding: two roots.
	minNodes = 2
)

// Config holds the runtime settings of the directory engine and its host.
type Config struct {
	Name        string       `json:"name" mapstructure:"name"`
	LogLevel    string       `json:"log_level" mapstructure:"log_level"`
	MaxNodes    int          `json:"max_nodes" mapstructure:"max_nodes"` // 0 = unbounded
	Metrics     bool         `json:"metrics" mapstructure:"metrics"`
	StopOnError bool         `json:"stop_on_error" mapstructure:"stop_on_error"`
	Log         x_log.Config `json:"log" mapstructure:"log"`
}

// Default returns a default config.
func Default() *Config {
	return &Config{
		Name:     "phfwd",
		LogLevel: "info",
		MaxNodes: 0,
		Metrics:  false,
		Log:      x_log.Default(),
	}
}

// Load loads config from a JSON file on top of the defaults.
// ${VAR} references are expanded from the environment first.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	data = ReplaceEnvVars(data)

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config json: %w", err)
	}

	cfg := Default()
	if _, ok := raw["log"]; !ok {
		cfg.Log = baseLog()
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromEnv loads config from environment using prefix.
func LoadFromEnv(prefix string) *Config {
	cfg := Default()
	cfg.Log = baseLog()

	cfg.Name = GetEnvStr(prefix+"NAME", cfg.Name)
	cfg.LogLevel = GetEnvStr(prefix+"LOG_LEVEL", cfg.LogLevel)
	cfg.MaxNodes = GetEnvInt(prefix+"MAX_NODES", cfg.MaxNodes)
	cfg.Metrics = GetEnvBool(prefix+"METRICS", cfg.Metrics)
	cfg.StopOnError = GetEnvBool(prefix+"STOP_ON_ERROR", cfg.StopOnError)

	cfg.Log.Level = cfg.LogLevel
	cfg.Log.ToFile = GetEnvBool(prefix+"LOG_TO_FILE", cfg.Log.ToFile)
	cfg.Log.LogFile = GetEnvStr(prefix+"LOG_FILE", cfg.Log.LogFile)
	cfg.Log.JSON = GetEnvBool(prefix+"LOG_JSON", cfg.Log.JSON)

	return cfg
}

// LoadWithFallback loads from PHFWD_CONFIG or env vars. An unusable
// PHFWD_CONFIG file is reported and skipped.
func LoadWithFallback() *Config {
	if path := os.Getenv(EnvConfigPath); path != "" {
		cfg, err := Load(path)
		if err == nil {
			return cfg
		}
		x_log.Warn().Err(err).Str("path", path).Msg("config file ignored, using environment")
	}
	return LoadFromEnv(EnvPrefix)
}

// baseLog returns the standalone log settings ($PHFWD_LOG_CONFIG or
// ./xlog.json) for configs without a "log" block.
func baseLog() x_log.Config {
	lc, err := x_log.LoadConfig("")
	if err != nil {
		x_log.Warn().Err(err).Str("path", x_log.ResolvePath("")).Msg("log config ignored, using defaults")
		return x_log.Default()
	}
	return *lc
}

// LogConfig returns the logging settings with the top-level level applied.
func (cfg *Config) LogConfig() *x_log.Config {
	lc := cfg.Log
	lc.Level = cfg.LogLevel
	return &lc
}

// Validate checks config for required values.
func (cfg *Config) Validate() error {
	var bad []string
	if cfg.Name == "" {
		bad = append(bad, "name")
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "trace", "debug", "info", "warn", "error":
	default:
		bad = append(bad, fmt.Sprintf("log_level(%q)", cfg.LogLevel))
	}
	if cfg.MaxNodes < 0 || (cfg.MaxNodes > 0 && cfg.MaxNodes < minNodes) {
		bad = append(bad, fmt.Sprintf("max_nodes(%d)", cfg.MaxNodes))
	}
	if len(bad) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(bad, ", "))
	}
	return nil
}

func (cfg *Config) String() string {
	data, _ := json.MarshalIndent(cfg, "", "  ")
	return string(data)
}

// Dump writes the config as JSON that Load accepts back.
func (cfg *Config) Dump(w io.Writer) {
	fmt.Fprintln(w, cfg.String())
}
