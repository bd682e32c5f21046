package gqlxpath

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/goccy/go-yaml"
)

func TestLoadConfig_DefaultValues(t *testing.T) {
	// Loading a non-existent file returns the default configuration
	config, err := LoadConfig("non-existent-file.yaml")
	assert.NoError(t, err)
	assert.True(t, config != nil)

	assert.Equal(t, DefaultCacheEntries, config.Cache.MaxEntries)
	assert.Equal(t, "text", config.Output.Format)
	assert.True(t, config.Output.IsColorEnabled())
	assert.Equal(t, "./queries", config.Paths.DocumentDir)
	assert.Equal(t, "./operations", config.Paths.OperationsDir)
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "gqlxpath.yaml")

	yamlContent := `
cache:
  max_entries: 64
output:
  format: json
  color: false
paths:
  document_dir: ./docs
`
	err := os.WriteFile(configPath, []byte(yamlContent), 0o644)
	assert.NoError(t, err)

	config, err := LoadConfig(configPath)
	assert.NoError(t, err)
	assert.Equal(t, 64, config.Cache.MaxEntries)
	assert.Equal(t, "json", config.Output.Format)
	assert.False(t, config.Output.IsColorEnabled())
	assert.Equal(t, "./docs", config.Paths.DocumentDir)
	// Missing values still receive defaults
	assert.Equal(t, "./operations", config.Paths.OperationsDir)
}

func TestLoadConfig_UnknownField(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "gqlxpath.yaml")

	yamlContent := `
cache:
  max_entries: 64
unknown_section:
  value: 1
`
	err := os.WriteFile(configPath, []byte(yamlContent), 0o644)
	assert.NoError(t, err)

	_, err = LoadConfig(configPath)
	assert.Error(t, err)
}

func TestLoadConfig_InvalidFormat(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "gqlxpath.yaml")

	yamlContent := `
output:
  format: xml
`
	err := os.WriteFile(configPath, []byte(yamlContent), 0o644)
	assert.NoError(t, err)

	_, err = LoadConfig(configPath)
	assert.IsError(t, err, ErrConfigValidation)
}

func TestLoadConfig_EnvExpansion(t *testing.T) {
	t.Setenv("GQLXPATH_TEST_DOC_DIR", "./expanded-docs")

	dir := t.TempDir()
	configPath := filepath.Join(dir, "gqlxpath.yaml")

	yamlContent := `
paths:
  document_dir: ${GQLXPATH_TEST_DOC_DIR}
`
	err := os.WriteFile(configPath, []byte(yamlContent), 0o644)
	assert.NoError(t, err)

	config, err := LoadConfig(configPath)
	assert.NoError(t, err)
	assert.Equal(t, "./expanded-docs", config.Paths.DocumentDir)
}

func TestConfig_YAMLNullColor(t *testing.T) {
	yamlContent := `
output:
  format: text
  color: null
`

	var config Config
	err := yaml.Unmarshal([]byte(yamlContent), &config)
	assert.NoError(t, err)

	// YAML null leaves the pointer nil, which means enabled
	assert.True(t, config.Output.IsColorEnabled())
}

func TestConfig_NegativeCacheEntries(t *testing.T) {
	yamlContent := `
cache:
  max_entries: -1
`

	var config Config
	err := yaml.Unmarshal([]byte(yamlContent), &config)
	assert.NoError(t, err)
	assert.NoError(t, validateConfig(&config))

	// Negative values survive defaulting: they mean caching is disabled
	applyDefaults(&config)
	assert.Equal(t, -1, config.Cache.MaxEntries)
}
