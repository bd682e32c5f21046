package gqlxpath

import (
	"fmt"
	"os"
	"regexp"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// DefaultCacheEntries bounds each memoization table when no explicit limit
// is configured.
const DefaultCacheEntries = 512

// Config represents the gqlxpath configuration
type Config struct {
	Cache  CacheConfig  `yaml:"cache"`
	Output OutputConfig `yaml:"output"`
	Paths  PathsConfig  `yaml:"paths"`
}

// CacheConfig bounds the parse, print and compile memoization tables
type CacheConfig struct {
	// MaxEntries is the per-table entry limit. Zero selects the default;
	// a negative value disables caching.
	MaxEntries int `yaml:"max_entries"`
}

// OutputConfig controls how command results are rendered
type OutputConfig struct {
	Format string `yaml:"format"` // text or json
	Color  *bool  `yaml:"color"`  // nil means enabled
}

// PathsConfig points the CLI at document and operation inputs
type PathsConfig struct {
	DocumentDir   string `yaml:"document_dir"`
	OperationsDir string `yaml:"operations_dir"`
}

// IsColorEnabled returns whether colored output is requested. Color is
// enabled unless the configuration disables it explicitly.
func (o OutputConfig) IsColorEnabled() bool {
	return o.Color == nil || *o.Color
}

// LoadConfig loads configuration from the specified file path
func LoadConfig(configPath string) (*Config, error) {
	// Load .env files first
	err := loadEnvFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	// Check if config file exists
	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		// Return default configuration if file doesn't exist
		config := getDefaultConfig()
		expandConfigEnvVars(config)

		return config, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML with strict mode to detect unknown fields
	var config Config

	err = yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Validate the configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	// Apply defaults for missing values
	applyDefaults(&config)

	// Expand environment variables
	expandConfigEnvVars(&config)

	return &config, nil
}

func getDefaultConfig() *Config {
	return &Config{
		Cache: CacheConfig{
			MaxEntries: DefaultCacheEntries,
		},
		Output: OutputConfig{
			Format: "text",
		},
		Paths: PathsConfig{
			DocumentDir:   "./queries",
			OperationsDir: "./operations",
		},
	}
}

func validateConfig(config *Config) error {
	validFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if config.Output.Format != "" && !validFormats[config.Output.Format] {
		return fmt.Errorf("%w: invalid output format '%s': must be one of text, json", ErrConfigValidation, config.Output.Format)
	}

	return nil
}

func applyDefaults(config *Config) {
	if config.Cache.MaxEntries == 0 {
		config.Cache.MaxEntries = DefaultCacheEntries
	}

	if config.Output.Format == "" {
		config.Output.Format = "text"
	}

	if config.Paths.DocumentDir == "" {
		config.Paths.DocumentDir = "./queries"
	}

	if config.Paths.OperationsDir == "" {
		config.Paths.OperationsDir = "./operations"
	}
}

func expandConfigEnvVars(config *Config) {
	config.Paths.DocumentDir = expandEnvVars(config.Paths.DocumentDir)
	config.Paths.OperationsDir = expandEnvVars(config.Paths.OperationsDir)
}

func loadEnvFiles() error {
	// Try to load .env file from current directory
	if fileExists(".env") {
		err := godotenv.Load(".env")
		if err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

func expandEnvVars(s string) string {
	// Pattern for ${VAR} format
	re1 := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re1.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1] // Remove ${ and }
		return os.Getenv(varName)
	})

	// Pattern for $VAR format (word boundaries)
	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:] // Remove $
		return os.Getenv(varName)
	})

	return s
}
