// Package config loads CLI defaults from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when --config is not given.
const DefaultPath = ".schematic.yaml"

// OutputEnv overrides Config.Output when set.
const OutputEnv = "SCHEMATIC_OUTPUT"

// Config holds defaults for command-line flags. Flags set explicitly on the
// command line take precedence over every value here.
type Config struct {
	Output        string `yaml:"output"`         // store path or postgres:// URL
	Format        string `yaml:"format"`         // human, json
	Color         string `yaml:"color"`          // auto, always, never
	Workers       int    `yaml:"workers"`        // row tokenization goroutines per schematic
	MaxFileSize   int64  `yaml:"max_file_size"`  // bytes
	IncludeHidden bool   `yaml:"include_hidden"` // walk dot files and directories

	// OutputSet is true when Output came from the file or the environment
	// rather than the built-in default.
	OutputSet bool `yaml:"-"`
}

// Formats lists the accepted output formats.
var Formats = []string{"human", "json"}

// ColorModes lists the accepted color modes.
var ColorModes = []string{"auto", "always", "never"}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Output:      "schematic.db",
		Format:      "human",
		Color:       "auto",
		Workers:     1,
		MaxFileSize: 10 * 1024 * 1024,
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
// The environment override is applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
		var keys map[string]any
		if err := yaml.Unmarshal(data, &keys); err == nil {
			_, cfg.OutputSet = keys["output"]
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if output := os.Getenv(OutputEnv); output != "" {
		c.Output = output
		c.OutputSet = true
	}
}

// Validate checks enumerated fields and bounds.
func (c *Config) Validate() error {
	if !slices.Contains(Formats, c.Format) {
		return fmt.Errorf("invalid format: %s (valid: %v)", c.Format, Formats)
	}
	if !slices.Contains(ColorModes, c.Color) {
		return fmt.Errorf("invalid color: %s (valid: %v)", c.Color, ColorModes)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.MaxFileSize < 0 {
		return fmt.Errorf("max_file_size must not be negative, got %d", c.MaxFileSize)
	}
	if c.Output == "" {
		return errors.New("output must not be empty")
	}
	return nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
