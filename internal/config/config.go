package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mcncl/jemit/internal/encoder"
	"github.com/mcncl/jemit/internal/errors"
	"github.com/mcncl/jemit/internal/escape"
)

// Config represents the complete configuration for jemit
type Config struct {
	Encoding EncodingConfig `yaml:"encoding"`
	Naming   NamingConfig   `yaml:"naming"`
	Dev      DevConfig      `yaml:"dev"`
}

// EncodingConfig controls how values are rendered as JSON
type EncodingConfig struct {
	// Precision is the number of digits after the decimal point
	Precision int `yaml:"precision"`

	// NonFinite is "sentinel" or "error"
	NonFinite string `yaml:"non_finite"`

	// Sentinel replaces NaN and infinities under the sentinel policy
	Sentinel float64 `yaml:"sentinel"`

	// Unicode is "bytes" (per code unit) or "runes" (per code point)
	Unicode string `yaml:"unicode"`
}

// NamingConfig controls the mapping from field names to JSON keys
type NamingConfig struct {
	// KeyCase is "none", "snake", "camel", or "pascal"
	KeyCase string `yaml:"key_case"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Encoding: EncodingConfig{
			Precision: 1,
			NonFinite: "sentinel",
			Sentinel:  -1.0,
			Unicode:   "bytes",
		},
		Naming: NamingConfig{
			KeyCase: "none",
		},
		Dev: DevConfig{
			Debug: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to read config file '%s'", path), err)
	}

	// Start with defaults
	cfg := NewConfig()

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to parse config file '%s'", path), err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jemit.yml", ".jemit.yaml", "jemit.yml", "jemit.yaml"}

	// Start from current directory
	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		// Move up one directory
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	// Check home directory last
	if home, err := os.UserHomeDir(); err == nil {
		for _, name := range configNames {
			configPath := filepath.Join(home, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}
	}

	return ""
}

// Validate checks that every enumerated setting has a known value
func (c *Config) Validate() error {
	if c.Encoding.Precision < 0 {
		return errors.NewConfigError(fmt.Sprintf("precision must be non-negative, got %d", c.Encoding.Precision), nil)
	}
	switch c.Encoding.NonFinite {
	case "sentinel", "error":
	default:
		return errors.NewConfigError(fmt.Sprintf("non_finite must be 'sentinel' or 'error', got '%s'", c.Encoding.NonFinite), nil)
	}
	if math.IsNaN(c.Encoding.Sentinel) || math.IsInf(c.Encoding.Sentinel, 0) {
		return errors.NewConfigError(fmt.Sprintf("sentinel must be finite, got %v", c.Encoding.Sentinel), nil)
	}
	switch c.Encoding.Unicode {
	case "bytes", "runes":
	default:
		return errors.NewConfigError(fmt.Sprintf("unicode must be 'bytes' or 'runes', got '%s'", c.Encoding.Unicode), nil)
	}
	switch c.Naming.KeyCase {
	case "none", "snake", "camel", "pascal":
	default:
		return errors.NewConfigError(fmt.Sprintf("key_case must be 'none', 'snake', 'camel', or 'pascal', got '%s'", c.Naming.KeyCase), nil)
	}
	return nil
}

// EncoderOptions translates the config into encoder options. The
// config must have been validated first.
func (c *Config) EncoderOptions() encoder.Options {
	opts := encoder.Options{
		Precision: c.Encoding.Precision,
		Sentinel:  c.Encoding.Sentinel,
	}

	if c.Encoding.NonFinite == "error" {
		opts.NonFinite = encoder.NonFiniteError
	} else {
		opts.NonFinite = encoder.NonFiniteSentinel
	}

	if c.Encoding.Unicode == "runes" {
		opts.EscapeMode = escape.ModeRunes
	} else {
		opts.EscapeMode = escape.ModeBytes
	}

	switch c.Naming.KeyCase {
	case "snake":
		opts.KeyCase = encoder.KeyCaseSnake
	case "camel":
		opts.KeyCase = encoder.KeyCaseCamel
	case "pascal":
		opts.KeyCase = encoder.KeyCasePascal
	default:
		opts.KeyCase = encoder.KeyCaseNone
	}

	return opts
}
