package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zoobzio/nosline"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error: %v", err)
	}
	if cfg.Codec.MaxTokensPerLevel != nosline.DefaultMaxTokensPerLevel {
		t.Errorf("MaxTokensPerLevel = %d", cfg.Codec.MaxTokensPerLevel)
	}
	if cfg.Source() != nosline.SourceServer {
		t.Errorf("Source() = %v, want server", cfg.Source())
	}
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "nosline.toml", `
[codec]
max_tokens_per_level = 128
preferred_source = "client"

[log]
level = "debug"
format = "json"

[capture]
codec = "msgpack"
compress = true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Codec.MaxTokensPerLevel != 128 || cfg.Source() != nosline.SourceClient {
		t.Errorf("Codec = %+v", cfg.Codec)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Capture.Codec != "msgpack" || !cfg.Capture.Compress {
		t.Errorf("Capture = %+v", cfg.Capture)
	}
	// Sections missing from the file keep their defaults.
	if cfg.Metrics.Namespace != "nosline" {
		t.Errorf("Metrics.Namespace = %q, want default", cfg.Metrics.Namespace)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "nosline.yaml", `
codec:
  preferred_source: any
metrics:
  enabled: true
  namespace: bot
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Source() != nosline.SourceAny {
		t.Errorf("Source() = %v, want any", cfg.Source())
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Namespace != "bot" {
		t.Errorf("Metrics = %+v", cfg.Metrics)
	}
	if cfg.Codec.MaxTokensPerLevel != nosline.DefaultMaxTokensPerLevel {
		t.Errorf("MaxTokensPerLevel = %d, want default", cfg.Codec.MaxTokensPerLevel)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Run("unsupported extension", func(t *testing.T) {
		path := writeFile(t, "nosline.ini", "x=1")
		if _, err := Load(path); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("expected ErrUnsupportedFormat, got %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
			t.Error("Load() should fail on a missing file")
		}
	})

	t.Run("malformed toml", func(t *testing.T) {
		path := writeFile(t, "bad.toml", "[codec\n")
		if _, err := Load(path); err == nil {
			t.Error("Load() should fail on malformed TOML")
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		path := writeFile(t, "bad.yml", "log:\n  format: xml\n")
		if _, err := Load(path); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvMaxTokens, "64")
	t.Setenv(EnvPreferredSource, "send")
	t.Setenv(EnvLogLevel, "WARN")
	t.Setenv(EnvCaptureCodec, "bson")
	t.Setenv(EnvCaptureCompress, "true")
	t.Setenv(EnvMetricsEnabled, "1")
	t.Setenv(EnvMetricsNS, "proxy")

	path := writeFile(t, "nosline.toml", "[codec]\nmax_tokens_per_level = 8\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Codec.MaxTokensPerLevel != 64 {
		t.Errorf("environment should override the file, got %d", cfg.Codec.MaxTokensPerLevel)
	}
	if cfg.Source() != nosline.SourceClient {
		t.Errorf("Source() = %v, want client", cfg.Source())
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	if cfg.Capture.Codec != "bson" || !cfg.Capture.Compress {
		t.Errorf("Capture = %+v", cfg.Capture)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Namespace != "proxy" {
		t.Errorf("Metrics = %+v", cfg.Metrics)
	}
}

func TestApplyEnv_InvalidNumber(t *testing.T) {
	t.Setenv(EnvMaxTokens, "lots")

	cfg := Default()
	if err := cfg.ApplyEnv(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"negative tokens", func(c *Config) { c.Codec.MaxTokensPerLevel = -1 }, "max_tokens_per_level"},
		{"unknown source", func(c *Config) { c.Codec.PreferredSource = "both" }, "preferred_source"},
		{"unknown level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"unknown format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"unknown codec", func(c *Config) { c.Capture.Codec = "gob" }, "capture.codec"},
		{"metrics without namespace", func(c *Config) {
			c.Metrics.Enabled = true
			c.Metrics.Namespace = " "
		}, "metrics.namespace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestOptions(t *testing.T) {
	cfg := Default()
	cfg.Codec.MaxTokensPerLevel = 2

	r := nosline.NewRegistry()
	if err := nosline.Register[listPacket](r, nosline.SourceServer, "lst"); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	s := nosline.New(r, cfg.Options()...)
	if _, err := s.Deserialize(t.Context(), "lst 1 2 3", cfg.Source()); !errors.Is(err, nosline.ErrTokenLimit) {
		t.Errorf("expected ErrTokenLimit from the configured limit, got %v", err)
	}
}

type listPacket struct {
	Values []int32 `nos:"0,list,sep=space"`
}

func (listPacket) Packet() {}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer

	cfg := Default()
	cfg.Log.Format = "json"
	cfg.Log.Level = "warn"
	log := cfg.Logger(&buf, "test")

	log.Info().Msg("hidden")
	log.Warn().Str("header", "mv").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(out, `"header":"mv"`) || !strings.Contains(out, `"app":"test"`) {
		t.Errorf("unexpected JSON output: %s", out)
	}

	buf.Reset()
	cfg.Log.Format = "console"
	consoleLog := cfg.Logger(&buf, "test")
	consoleLog.Warn().Msg("console line")
	if !strings.Contains(buf.String(), "console line") || strings.HasPrefix(buf.String(), "{") {
		t.Errorf("unexpected console output: %s", buf.String())
	}
}
