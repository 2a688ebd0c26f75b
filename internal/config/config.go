// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"agreement-engine/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Catalog contains exhibit catalog settings
	Catalog CatalogConfig `json:"catalog"`

	// Documents contains document storage settings
	Documents DocumentStoreConfig `json:"documents"`

	// Assembly contains assembly-related settings
	Assembly AssemblyConfig `json:"assembly"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// CatalogConfig contains exhibit catalog settings
type CatalogConfig struct {
	// Backend selects the catalog backend (postgres, memory)
	Backend string `json:"backend"`

	// PostgresDSN is the postgres connection string
	PostgresDSN string `json:"postgres_dsn,omitempty"`
}

// DocumentStoreConfig contains document blob storage settings
type DocumentStoreConfig struct {
	// Backend selects the file store backend (minio, memory)
	Backend string `json:"backend"`

	// Endpoint is the object store endpoint
	Endpoint string `json:"endpoint,omitempty"`

	// AccessKey is the object store access key
	AccessKey string `json:"access_key,omitempty"`

	// SecretKey is the object store secret key
	SecretKey string `json:"secret_key,omitempty"`

	// Secure enables TLS for the object store connection
	Secure bool `json:"secure"`

	// ExhibitBucket holds exhibit documents
	ExhibitBucket string `json:"exhibit_bucket"`

	// TemplateBucket holds base agreement templates
	TemplateBucket string `json:"template_bucket"`
}

// AssemblyConfig contains assembly-related settings
type AssemblyConfig struct {
	// FetchRetries is the number of retries per exhibit fetch
	FetchRetries int `json:"fetch_retries"`

	// FetchConcurrency caps concurrent exhibit fetches
	FetchConcurrency int `json:"fetch_concurrency"`

	// DefaultTemplate is the template used when none is specified
	DefaultTemplate string `json:"default_template"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Catalog: CatalogConfig{
			Backend: "memory",
		},
		Documents: DocumentStoreConfig{
			Backend:        "memory",
			ExhibitBucket:  "agreement-exhibits",
			TemplateBucket: "agreement-templates",
		},
		Assembly: AssemblyConfig{
			FetchRetries:     2,
			FetchConcurrency: 4,
			DefaultTemplate:  "msa-standard.docx",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
