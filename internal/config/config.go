// Package config loads godupes settings from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/sadopc/godupes/internal/dedupe"
)

// Config holds every setting that can come from a file. Command-line flags
// override these values when set.
type Config struct {
	Hash        string   `yaml:"hash"`
	Exclude     []string `yaml:"exclude"`
	ShowHidden  bool     `yaml:"show_hidden"`
	StrictReads bool     `yaml:"strict_reads"`
	Verbosity   int      `yaml:"verbosity"`
	SSH         SSH      `yaml:"ssh"`
}

// SSH configures remote scans.
type SSH struct {
	Port    int           `yaml:"port"`
	Batch   bool          `yaml:"batch"`
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Hash:       string(dedupe.DefaultHash),
		ShowHidden: true,
		SSH: SSH{
			Port:    22,
			Timeout: 10 * time.Second,
		},
	}
}

// Load reads path on top of Default. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("cannot read config: %w", err)
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML into cfg and validates the result.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return cfg.Validate()
}

// Validate checks value ranges and names.
func (c Config) Validate() error {
	if _, err := dedupe.HashAlgorithmFromString(c.Hash); err != nil {
		return err
	}
	if c.SSH.Port < 1 || c.SSH.Port > 65535 {
		return fmt.Errorf("invalid ssh port %d (must be 1-65535)", c.SSH.Port)
	}
	if c.SSH.Timeout < 0 {
		return fmt.Errorf("invalid ssh timeout %s (must be >= 0)", c.SSH.Timeout)
	}
	return nil
}

// HashAlgo returns the configured algorithm. Call Validate first.
func (c Config) HashAlgo() dedupe.HashAlgo {
	algo, err := dedupe.HashAlgorithmFromString(c.Hash)
	if err != nil {
		return dedupe.DefaultHash
	}
	return algo
}
