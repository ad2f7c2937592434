// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"shadeworks/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Server contains HTTP server settings
	Server ServerConfig `json:"server"`

	// Store contains row-store settings
	Store StoreConfig `json:"store"`

	// Cache contains cache settings
	Cache CacheConfig `json:"cache"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr"`

	// ShutdownTimeoutSeconds bounds graceful shutdown
	ShutdownTimeoutSeconds int `json:"shutdown_timeout_seconds"`
}

// StoreConfig contains row-store settings
type StoreConfig struct {
	// Backend selects the row store ("memory" or "postgres")
	Backend string `json:"backend"`

	// DSN is the postgres connection string
	DSN string `json:"dsn,omitempty"`
}

// CacheConfig contains cache settings
type CacheConfig struct {
	// Enabled enables the quote/aggregate cache
	Enabled bool `json:"enabled"`

	// DefaultTTLSeconds applies to namespaces without an override
	DefaultTTLSeconds int `json:"default_ttl_seconds"`

	// NamespaceTTLSeconds overrides TTL per namespace
	NamespaceTTLSeconds map[string]int `json:"namespace_ttl_seconds,omitempty"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Server: ServerConfig{
			Addr:                   ":8080",
			ShutdownTimeoutSeconds: 15,
		},
		Store: StoreConfig{
			Backend: "memory",
		},
		Cache: CacheConfig{
			Enabled:           true,
			DefaultTTLSeconds: 300,
			NamespaceTTLSeconds: map[string]int{
				"quotes":      300,
				"products":    120,
				"categories":  600,
				"heroBanners": 3600,
				"rooms":       600,
				"homepage":    3600,
			},
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
