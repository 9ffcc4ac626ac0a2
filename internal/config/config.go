// Package config loads service configuration from the environment, with an
// optional YAML file supplying defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultPort is the HTTP listen port when PORT is unset.
	DefaultPort = 4000
	// DefaultDataFile is the snapshot location when DATA_FILE is unset.
	DefaultDataFile = "./data/agenda.json"
	// MemoryDataFile selects ephemeral mode.
	MemoryDataFile = ":memory:"
)

// Config holds application configuration.
type Config struct {
	Port         int    `yaml:"port"`
	DataFile     string `yaml:"dataFile"`
	Debug        bool   `yaml:"debug"`
	EnableHSTS   bool   `yaml:"enableHSTS"`
	RateLimit    string `yaml:"rateLimit"`
	OTELEnabled  bool   `yaml:"otelEnabled"`
	OTELEndpoint string `yaml:"otelEndpoint"`
}

// Load builds the configuration. Values come from an optional YAML file
// named by CONFIG_FILE, with environment variables taking precedence.
func Load() (*Config, error) {
	cfg := &Config{
		Port:     DefaultPort,
		DataFile: DefaultDataFile,
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
		if cfg.Port == 0 {
			cfg.Port = DefaultPort
		}
		if cfg.DataFile == "" {
			cfg.DataFile = DefaultDataFile
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port < 1 || port > 65535 {
			return nil, fmt.Errorf("PORT must be an integer between 1 and 65535, got %q", v)
		}
		cfg.Port = port
	}

	cfg.DataFile = getEnv("DATA_FILE", cfg.DataFile)
	cfg.Debug = getEnvBool("DEBUG", cfg.Debug)
	cfg.EnableHSTS = getEnvBool("ENABLE_HSTS", cfg.EnableHSTS)
	cfg.RateLimit = getEnv("RATE_LIMIT", cfg.RateLimit)
	cfg.OTELEnabled = getEnvBool("OTEL_ENABLED", cfg.OTELEnabled)
	cfg.OTELEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTELEndpoint)

	return cfg, nil
}

// Ephemeral reports whether the configured data file selects ephemeral mode.
func (c *Config) Ephemeral() bool {
	return c.DataFile == MemoryDataFile
}

// SnapshotPath resolves the configured data file to a filesystem path, or
// the empty string for ephemeral mode. `file://` URLs are honored by
// stripping the scheme; absolute paths pass through verbatim; relative
// paths resolve against the working directory.
func (c *Config) SnapshotPath() (string, error) {
	raw := c.DataFile
	if raw == MemoryDataFile {
		return "", nil
	}
	if strings.HasPrefix(raw, "file://") {
		raw = strings.TrimPrefix(raw, "file://")
	}
	if filepath.IsAbs(raw) {
		return filepath.Clean(raw), nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolve working directory: %w", err)
	}
	return filepath.Join(cwd, raw), nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
