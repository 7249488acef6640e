package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/jemit/internal/encoder"
	"github.com/mcncl/jemit/internal/escape"
)

func TestConfig_DefaultValues(t *testing.T) {
	cfg := NewConfig()

	// Test default values
	assert.Equal(t, 1, cfg.Encoding.Precision)
	assert.Equal(t, "sentinel", cfg.Encoding.NonFinite)
	assert.Equal(t, -1.0, cfg.Encoding.Sentinel)
	assert.Equal(t, "bytes", cfg.Encoding.Unicode)
	assert.Equal(t, "none", cfg.Naming.KeyCase)
	assert.False(t, cfg.Dev.Debug)

	require.NoError(t, cfg.Validate())
}

func TestConfig_LoadFromYAML(t *testing.T) {
	yamlContent := `
encoding:
  precision: 3
  non_finite: "error"
  sentinel: 0.0
  unicode: "runes"
naming:
  key_case: "snake"
dev:
  debug: true
`

	// Create temp file
	tmpFile, err := os.CreateTemp("", "config_test_*.yml")
	require.NoError(t, err)
	defer func() { _ = os.Remove(tmpFile.Name()) }()

	_, err = tmpFile.WriteString(yamlContent)
	require.NoError(t, err)
	_ = tmpFile.Close()

	cfg, err := LoadConfig(tmpFile.Name())
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Encoding.Precision)
	assert.Equal(t, "error", cfg.Encoding.NonFinite)
	assert.Equal(t, 0.0, cfg.Encoding.Sentinel)
	assert.Equal(t, "runes", cfg.Encoding.Unicode)
	assert.Equal(t, "snake", cfg.Naming.KeyCase)
	assert.True(t, cfg.Dev.Debug)
}

func TestConfig_LoadPartialYAMLKeepsDefaults(t *testing.T) {
	yamlContent := `
encoding:
  precision: 2
`
	tmpFile, err := os.CreateTemp("", "config_partial_*.yml")
	require.NoError(t, err)
	defer func() { _ = os.Remove(tmpFile.Name()) }()

	_, err = tmpFile.WriteString(yamlContent)
	require.NoError(t, err)
	_ = tmpFile.Close()

	cfg, err := LoadConfig(tmpFile.Name())
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Encoding.Precision)
	assert.Equal(t, "sentinel", cfg.Encoding.NonFinite)
	assert.Equal(t, -1.0, cfg.Encoding.Sentinel)
}

func TestConfig_LoadInvalidYAML(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "config_bad_*.yml")
	require.NoError(t, err)
	defer func() { _ = os.Remove(tmpFile.Name()) }()

	_, err = tmpFile.WriteString("encoding: [not a mapping")
	require.NoError(t, err)
	_ = tmpFile.Close()

	_, err = LoadConfig(tmpFile.Name())
	assert.Error(t, err)
}

func TestConfig_LoadMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(os.TempDir(), "no_such_jemit_config.yml"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"negative precision", func(c *Config) { c.Encoding.Precision = -1 }, true},
		{"unknown non_finite", func(c *Config) { c.Encoding.NonFinite = "panic" }, true},
		{"unknown unicode", func(c *Config) { c.Encoding.Unicode = "utf16" }, true},
		{"unknown key_case", func(c *Config) { c.Naming.KeyCase = "kebab" }, true},
		{"error policy is valid", func(c *Config) { c.Encoding.NonFinite = "error" }, false},
		{"nan sentinel", func(c *Config) { c.Encoding.Sentinel = math.NaN() }, true},
		{"infinite sentinel", func(c *Config) { c.Encoding.Sentinel = math.Inf(1) }, true},
		{"zero sentinel is valid", func(c *Config) { c.Encoding.Sentinel = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_EncoderOptions(t *testing.T) {
	cfg := NewConfig()
	cfg.Encoding.Precision = 2
	cfg.Encoding.NonFinite = "error"
	cfg.Encoding.Unicode = "runes"
	cfg.Naming.KeyCase = "camel"

	opts := cfg.EncoderOptions()
	assert.Equal(t, 2, opts.Precision)
	assert.Equal(t, encoder.NonFiniteError, opts.NonFinite)
	assert.Equal(t, escape.ModeRunes, opts.EscapeMode)
	assert.Equal(t, encoder.KeyCaseCamel, opts.KeyCase)

	// Defaults map to the default encoder options.
	assert.Equal(t, encoder.DefaultOptions(), NewConfig().EncoderOptions())
}

func TestFindConfigFile(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "jemit-config")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	configPath := filepath.Join(tempDir, ".jemit.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("naming:\n  key_case: snake\n"), 0644))

	// Search starts in a nested directory and walks up to the config.
	nested := filepath.Join(tempDir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	origDir, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(origDir) }()

	require.NoError(t, os.Chdir(nested))
	found := FindConfigFile()
	// Resolve symlinks so the comparison works on macOS temp paths.
	wantDir, _ := filepath.EvalSymlinks(tempDir)
	gotDir, _ := filepath.EvalSymlinks(filepath.Dir(found))
	assert.Equal(t, wantDir, gotDir)
	assert.Equal(t, ".jemit.yml", filepath.Base(found))
}
