package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the daemon.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	Addr             string   `json:"addr" yaml:"addr" toml:"addr" env:"LIGHTD_ADDR"`
	SettleDelayMS    int      `json:"settle_delay_ms" yaml:"settle_delay_ms" toml:"settle_delay_ms" env:"LIGHTD_SETTLE_DELAY_MS"`
	ResizeDebounceMS int      `json:"resize_debounce_ms" yaml:"resize_debounce_ms" toml:"resize_debounce_ms" env:"LIGHTD_RESIZE_DEBOUNCE_MS"`
	ResizeThreshold  float64  `json:"resize_threshold" yaml:"resize_threshold" toml:"resize_threshold" env:"LIGHTD_RESIZE_THRESHOLD"`
	PreviewMaxDim    int      `json:"preview_max_dim" yaml:"preview_max_dim" toml:"preview_max_dim" env:"LIGHTD_PREVIEW_MAX_DIM"`
	CinematicDefault *bool    `json:"cinematic_default" yaml:"cinematic_default" toml:"cinematic_default" env:"LIGHTD_CINEMATIC_DEFAULT"`
	MaxBodyBytes     int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes" env:"LIGHTD_MAX_BODY_BYTES"`
	CORSEnabled      bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled" env:"LIGHTD_CORS_ENABLED"`
	CORSOrigins      []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins" env:"LIGHTD_CORS_ORIGINS" envSeparator:","`
	LogLevel         string   `json:"log_level" yaml:"log_level" toml:"log_level" env:"LIGHTD_LOG_LEVEL"`
	LogFormat        string   `json:"log_format" yaml:"log_format" toml:"log_format" env:"LIGHTD_LOG_FORMAT"`
	StateFile        string   `json:"state_file" yaml:"state_file" toml:"state_file" env:"LIGHTD_STATE_FILE"`
}

// Defaults.
const (
	DefaultAddr             = ":8090"
	DefaultSettleDelayMS    = 50
	DefaultResizeDebounceMS = 50
	DefaultResizeThreshold  = 1.0
	DefaultPreviewMaxDim    = 1024
	DefaultMaxBodyBytes     = 16 << 20
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "console"
)

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".json":
		err = json.Unmarshal(b, &cfg)
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// ApplyEnv overlays LIGHTD_* environment variables onto cfg. Unset variables
// leave the field as loaded.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Resolve loads path when non-empty, overlays the environment and fills
// defaults.
func Resolve(path string) (Config, error) {
	var cfg Config
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg.WithDefaults(), nil
}

// WithDefaults returns a copy with every unspecified field set.
func (c Config) WithDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.SettleDelayMS <= 0 {
		c.SettleDelayMS = DefaultSettleDelayMS
	}
	if c.ResizeDebounceMS <= 0 {
		c.ResizeDebounceMS = DefaultResizeDebounceMS
	}
	if c.ResizeThreshold <= 0 {
		c.ResizeThreshold = DefaultResizeThreshold
	}
	if c.PreviewMaxDim <= 0 {
		c.PreviewMaxDim = DefaultPreviewMaxDim
	}
	if c.CinematicDefault == nil {
		on := true
		c.CinematicDefault = &on
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
	return c
}

func (c Config) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMS) * time.Millisecond
}

func (c Config) ResizeDebounce() time.Duration {
	return time.Duration(c.ResizeDebounceMS) * time.Millisecond
}

// Cinematic reports the configured cinematic default (on when unset).
func (c Config) Cinematic() bool {
	return c.CinematicDefault == nil || *c.CinematicDefault
}
