package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mapgen.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}
	if cfg.Generator.PatternSize != 2 {
		t.Errorf("expected pattern size 2, got %d", cfg.Generator.PatternSize)
	}
	if cfg.Generator.Heuristic != "entropy" {
		t.Errorf("expected entropy heuristic, got %q", cfg.Generator.Heuristic)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("expected sqlite driver, got %q", cfg.Database.Driver)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.yaml")

	if err != nil {
		t.Errorf("expected no error for missing file, got %v", err)
	}
	if cfg == nil {
		t.Fatal("expected default config for missing file, got nil")
	}
	if cfg.Generator.MaxAttempts != 10 {
		t.Errorf("expected default max attempts, got %d", cfg.Generator.MaxAttempts)
	}
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: DEBUG
generator:
  pattern_size: 3
  width: 40
  seed: 99
  heuristic: lexical
database:
  driver: postgres
  postgres:
    host: db.internal
    port: 5433
    user: mapgen
telemetry:
  enabled: true
  service_name: mapgen-test
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Generator.PatternSize != 3 {
		t.Errorf("expected pattern size 3, got %d", cfg.Generator.PatternSize)
	}
	if cfg.Generator.Width != 40 {
		t.Errorf("expected width 40, got %d", cfg.Generator.Width)
	}
	// Fields not in the file keep their defaults.
	if cfg.Generator.Height != 12 {
		t.Errorf("expected default height 12, got %d", cfg.Generator.Height)
	}
	if cfg.Generator.Seed != 99 {
		t.Errorf("expected seed 99, got %d", cfg.Generator.Seed)
	}
	if cfg.Generator.Heuristic != "lexical" {
		t.Errorf("expected lexical, got %q", cfg.Generator.Heuristic)
	}
	if cfg.Database.Driver != "postgres" || cfg.Database.Postgres.Host != "db.internal" {
		t.Errorf("unexpected database config: %+v", cfg.Database)
	}
	if cfg.Database.Postgres.MaxOpenConns != 10 {
		t.Errorf("expected default pool size, got %d", cfg.Database.Postgres.MaxOpenConns)
	}
	if !cfg.Telemetry.Enabled || cfg.Telemetry.ServiceName != "mapgen-test" {
		t.Errorf("unexpected telemetry config: %+v", cfg.Telemetry)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "generator: [unclosed")

	cfg, err := LoadConfig(path)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
	if cfg == nil || cfg.Generator.PatternSize != 2 {
		t.Error("expected defaults returned with parse error")
	}
}

func TestLoadConfig_ValidationFailure(t *testing.T) {
	path := writeConfig(t, `
generator:
  pattern_size: 0
  heuristic: random
`)

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "PatternSize") {
		t.Errorf("expected PatternSize in error, got %q", msg)
	}
	if !strings.Contains(msg, "Heuristic") {
		t.Errorf("expected Heuristic in error, got %q", msg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero width", func(c *Config) { c.Generator.Width = 0 }, true},
		{"zero attempts", func(c *Config) { c.Generator.MaxAttempts = 0 }, true},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, true},
		{"sqlite without path", func(c *Config) { c.Database.SQLitePath = "" }, true},
		{"postgres without sqlite path", func(c *Config) {
			c.Database.Driver = "postgres"
			c.Database.SQLitePath = ""
		}, false},
		{"bad port", func(c *Config) { c.Database.Postgres.Port = 70000 }, true},
		{"bad sslmode", func(c *Config) { c.Database.Postgres.SSLMode = "maybe" }, true},
		{"telemetry without name", func(c *Config) {
			c.Telemetry.Enabled = true
			c.Telemetry.ServiceName = ""
		}, true},
		{"lexical heuristic", func(c *Config) { c.Generator.Heuristic = "lexical" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig_ShippedSample(t *testing.T) {
	cfg, err := LoadConfig("../../data/mapgen.yaml")
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if cfg.Database.SQLitePath != "data/mapgen.db" {
		t.Errorf("unexpected sqlite path %q", cfg.Database.SQLitePath)
	}
}
