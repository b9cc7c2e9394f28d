// Package config provides configuration management for Skylark.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "SKYLARK"

// Pool defaults, overridable through the bare DB_POOL_* variables.
const (
	DefaultPoolSize           = 16
	DefaultMaxOverflow        = 16
	DefaultPoolRecycleSeconds = 3600
	DefaultPoolTimeoutSeconds = 30
)

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME}).
// A missing file is an error; use LoadWithDefaults to tolerate it.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return unmarshal(v)
}

// LoadWithDefaults loads configuration with default values for optional fields.
// If the file doesn't exist, defaults and environment variables are used.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v := newViper()
	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	bindPoolEnv(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "skylark")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "skylark")
	v.SetDefault("database.user", "skylark")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.pool_size", DefaultPoolSize)
	v.SetDefault("database.max_overflow", DefaultMaxOverflow)
	v.SetDefault("database.pool_recycle", DefaultPoolRecycleSeconds)
	v.SetDefault("database.pool_timeout", DefaultPoolTimeoutSeconds)

	v.SetDefault("legacy.batch_size", 500)
	v.SetDefault("legacy.batches_per_second", 0)

	v.SetDefault("features.batch_size", 1000)
	v.SetDefault("features.speed_short_window", 3)
	v.SetDefault("features.speed_long_window", 5)
	v.SetDefault("features.winner_window", 5)
	v.SetDefault("features.distance_window", 5)
	v.SetDefault("features.earnings_window", 5)
	v.SetDefault("features.cache_ttl_seconds", 93600)
	v.SetDefault("features.cache_max_size", 2000000)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("health.port", "8080")
}

// bindPoolEnv maps the pool knobs onto the unprefixed variables the
// deployment already exports. The prefixed SKYLARK_DATABASE_* names
// still win because BindEnv checks them first.
func bindPoolEnv(v *viper.Viper) {
	_ = v.BindEnv("database.pool_size", envPrefix+"_DATABASE_POOL_SIZE", "DB_POOL_SIZE")
	_ = v.BindEnv("database.max_overflow", envPrefix+"_DATABASE_MAX_OVERFLOW", "DB_MAX_OVERFLOW")
	_ = v.BindEnv("database.pool_recycle", envPrefix+"_DATABASE_POOL_RECYCLE", "DB_POOL_RECYCLE")
	_ = v.BindEnv("database.pool_timeout", envPrefix+"_DATABASE_POOL_TIMEOUT", "DB_POOL_TIMEOUT")
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

// ReloadFromEnv reloads the configuration from SKYLARK_CONFIG_PATH if set
func ReloadFromEnv(cfg *Config) error {
	if envPath := os.Getenv(envPrefix + "_CONFIG_PATH"); envPath != "" {
		newCfg, err := Load(envPath)
		if err != nil {
			return err
		}
		*cfg = *newCfg
	}
	return nil
}
