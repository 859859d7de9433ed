// Package config loads the mapgen configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/blytheSchen/SketchTiler-sub000/internal/database"
	"github.com/blytheSchen/SketchTiler-sub000/internal/wfc"
)

// Config holds mapgen configuration. The same file may carry a logging
// section, which the logger package reads on its own.
type Config struct {
	Generator GeneratorConfig `yaml:"generator"`
	Database  database.Config `yaml:"database"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// GeneratorConfig holds defaults for learning and generation.
type GeneratorConfig struct {
	// PatternSize is the side length N of the learned N×N patterns.
	PatternSize int `yaml:"pattern_size" validate:"min=1,max=8"`

	// Width and Height are the default output dimensions in tiles.
	Width  int `yaml:"width" validate:"min=1"`
	Height int `yaml:"height" validate:"min=1"`

	// MaxAttempts bounds full restarts after a contradiction.
	MaxAttempts int `yaml:"max_attempts" validate:"min=1"`

	// Seed of 0 picks a time-based seed.
	Seed int64 `yaml:"seed"`

	// Heuristic selects the next cell to collapse: "entropy" or "lexical".
	Heuristic string `yaml:"heuristic" validate:"heuristic"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name" validate:"required_if=Enabled true"`
}

// validate is the shared validator with the heuristic tag registered.
var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("heuristic", validateHeuristic)
}

func validateHeuristic(fl validator.FieldLevel) bool {
	_, err := wfc.ParseHeuristic(fl.Field().String())
	return err == nil
}

// DefaultConfig returns a Config with working defaults.
func DefaultConfig() *Config {
	return &Config{
		Generator: GeneratorConfig{
			PatternSize: 2,
			Width:       20,
			Height:      12,
			MaxAttempts: 10,
			Heuristic:   string(wfc.HeuristicEntropy),
		},
		Database: database.DefaultConfig("data/mapgen.db"),
		Telemetry: TelemetryConfig{
			ServiceName: "mapgen",
		},
	}
}

// LoadConfig loads configuration from a YAML file over the defaults.
// A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return config, err
	}

	return config, nil
}

// Validate checks field constraints and reports every violation at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("config: invalid: %s", strings.Join(msgs, "; "))
}
