// Package config loads nosline settings from a TOML or YAML file, with
// NOSLINE_* environment variables taking precedence over the file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"github.com/zoobzio/nosline"
	"gopkg.in/yaml.v3"
)

// Environment variables read by ApplyEnv.
const (
	EnvMaxTokens       = "NOSLINE_MAX_TOKENS_PER_LEVEL"
	EnvPreferredSource = "NOSLINE_PREFERRED_SOURCE"
	EnvLogLevel        = "NOSLINE_LOG_LEVEL"
	EnvLogFormat       = "NOSLINE_LOG_FORMAT"
	EnvCaptureCodec    = "NOSLINE_CAPTURE_CODEC"
	EnvCaptureCompress = "NOSLINE_CAPTURE_COMPRESS"
	EnvMetricsEnabled  = "NOSLINE_METRICS_ENABLED"
	EnvMetricsNS       = "NOSLINE_METRICS_NAMESPACE"
)

var (
	// ErrUnsupportedFormat indicates a config file extension other than .toml, .yaml or .yml.
	ErrUnsupportedFormat = errors.New("unsupported config format")

	// ErrInvalidConfig indicates a setting outside its allowed values.
	ErrInvalidConfig = errors.New("invalid config")
)

// Config is the complete set of settings.
type Config struct {
	Codec   CodecConfig   `toml:"codec" yaml:"codec"`
	Log     LogConfig     `toml:"log" yaml:"log"`
	Capture CaptureConfig `toml:"capture" yaml:"capture"`
	Metrics MetricsConfig `toml:"metrics" yaml:"metrics"`
}

// CodecConfig tunes the serializer.
type CodecConfig struct {
	MaxTokensPerLevel int    `toml:"max_tokens_per_level" yaml:"max_tokens_per_level"`
	PreferredSource   string `toml:"preferred_source" yaml:"preferred_source"`
}

// LogConfig selects the zerolog level and output format.
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // console or json
}

// CaptureConfig selects how capture archives are written.
type CaptureConfig struct {
	Codec    string `toml:"codec" yaml:"codec"`
	Compress bool   `toml:"compress" yaml:"compress"`
}

// MetricsConfig controls the prometheus collectors of the dispatcher.
type MetricsConfig struct {
	Enabled   bool   `toml:"enabled" yaml:"enabled"`
	Namespace string `toml:"namespace" yaml:"namespace"`
}

// Archive codec names accepted in [capture].
var captureCodecs = map[string]bool{
	"json":    true,
	"xml":     true,
	"yaml":    true,
	"msgpack": true,
	"bson":    true,
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Codec: CodecConfig{
			MaxTokensPerLevel: nosline.DefaultMaxTokensPerLevel,
			PreferredSource:   nosline.SourceServer.String(),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Capture: CaptureConfig{
			Codec: "json",
		},
		Metrics: MetricsConfig{
			Namespace: "nosline",
		},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. The format is chosen by the file extension.
func Load(path string) (Config, error) {
	cfg := Default()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from NOSLINE_* variables. Empty variables are
// ignored.
func (c *Config) ApplyEnv() error {
	if raw := strings.TrimSpace(os.Getenv(EnvMaxTokens)); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvMaxTokens, raw)
		}
		c.Codec.MaxTokensPerLevel = n
	}
	if raw := strings.TrimSpace(os.Getenv(EnvPreferredSource)); raw != "" {
		c.Codec.PreferredSource = raw
	}
	if raw := strings.TrimSpace(os.Getenv(EnvLogLevel)); raw != "" {
		c.Log.Level = strings.ToLower(raw)
	}
	if raw := strings.TrimSpace(os.Getenv(EnvLogFormat)); raw != "" {
		c.Log.Format = strings.ToLower(raw)
	}
	if raw := strings.TrimSpace(os.Getenv(EnvCaptureCodec)); raw != "" {
		c.Capture.Codec = strings.ToLower(raw)
	}
	if v, ok := parseBool(os.Getenv(EnvCaptureCompress)); ok {
		c.Capture.Compress = v
	}
	if v, ok := parseBool(os.Getenv(EnvMetricsEnabled)); ok {
		c.Metrics.Enabled = v
	}
	if raw := strings.TrimSpace(os.Getenv(EnvMetricsNS)); raw != "" {
		c.Metrics.Namespace = raw
	}
	return nil
}

// Validate checks every setting.
func (c Config) Validate() error {
	if c.Codec.MaxTokensPerLevel < 0 {
		return fmt.Errorf("%w: codec.max_tokens_per_level must not be negative", ErrInvalidConfig)
	}
	if _, err := nosline.ParseSource(c.Codec.PreferredSource); err != nil {
		return fmt.Errorf("%w: codec.preferred_source: %v", ErrInvalidConfig, err)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level %q", ErrInvalidConfig, c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log.format %q, want console or json", ErrInvalidConfig, c.Log.Format)
	}
	if !captureCodecs[c.Capture.Codec] {
		return fmt.Errorf("%w: capture.codec %q", ErrInvalidConfig, c.Capture.Codec)
	}
	if c.Metrics.Enabled && strings.TrimSpace(c.Metrics.Namespace) == "" {
		return fmt.Errorf("%w: metrics.namespace is required when metrics are enabled", ErrInvalidConfig)
	}
	return nil
}

// Source returns the preferred packet source.
func (c Config) Source() nosline.Source {
	s, err := nosline.ParseSource(c.Codec.PreferredSource)
	if err != nil {
		return nosline.SourceAny
	}
	return s
}

// Options returns the serializer options for the [codec] section.
func (c Config) Options() []nosline.Option {
	return []nosline.Option{nosline.WithMaxTokensPerLevel(c.Codec.MaxTokensPerLevel)}
}

// Logger builds a zerolog logger writing to out in the configured format.
func (c Config) Logger(out io.Writer, app string) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if c.Log.Format == "console" {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Str("app", app).Logger()
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
