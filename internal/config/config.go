// Package config loads the serde.yaml generation manifest.
package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is looked up in the working directory when no explicit
// path is given.
const DefaultFilename = "serde.yaml"

// Config is the generation manifest.
type Config struct {
	// Version of the manifest schema.
	Version string `yaml:"version"`

	// Packages are the package patterns to scan for annotated types.
	Packages []string `yaml:"packages"`

	// Output overrides the output directory. Empty writes each package's
	// artifacts next to its sources.
	Output string `yaml:"output"`

	// PackageName overrides the generated package name. Empty keeps each
	// scanned package's own name.
	PackageName string `yaml:"package_name"`

	// Workers bounds concurrent per-type generation. Zero picks a
	// sensible default.
	Workers int `yaml:"workers"`

	// LogLevel is a zap level string ("debug", "info", "warn", "error").
	LogLevel string `yaml:"log_level"`
}

// LoadFile loads and parses a YAML manifest from the given path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading manifest %s", path)
	}

	return Parse(data)
}

// Parse parses YAML data into a Config and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parsing manifest YAML")
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the manifest used when no file exists: scan the whole
// module.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)

	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Version == "" {
		cfg.Version = "1"
	}

	if len(cfg.Packages) == 0 {
		cfg.Packages = []string{"./..."}
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

func validate(cfg *Config) error {
	if cfg.Version != "1" {
		return errors.Newf("unsupported manifest version %q", cfg.Version)
	}

	if cfg.Workers < 0 {
		return errors.Newf("workers must not be negative, got %d", cfg.Workers)
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.Newf("unrecognized log level %q", cfg.LogLevel)
	}

	return nil
}
