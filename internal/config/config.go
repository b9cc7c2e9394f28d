// Package config provides configuration management for Skylark.
package config

import (
	"net"
	"net/url"
	"strconv"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Legacy   LegacyConfig   `mapstructure:"legacy"`
	Features FeaturesConfig `mapstructure:"features" validate:"required"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Health   HealthConfig   `mapstructure:"health"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration. The pool
// knobs default to the values documented in DefaultPoolSize and friends
// and can be overridden through DB_POOL_SIZE, DB_MAX_OVERFLOW,
// DB_POOL_RECYCLE and DB_POOL_TIMEOUT.
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	PoolSize           int    `mapstructure:"pool_size" validate:"gt=0"`
	MaxOverflow        int    `mapstructure:"max_overflow" validate:"gte=0"`
	PoolRecycleSeconds int    `mapstructure:"pool_recycle" validate:"gt=0"`
	PoolTimeoutSeconds int    `mapstructure:"pool_timeout" validate:"gt=0"`
}

// LegacyConfig points at the original MySQL store used by the importer
type LegacyConfig struct {
	MySQLDSN         string  `mapstructure:"mysql_dsn"`
	BatchSize        int     `mapstructure:"batch_size" validate:"gt=0"`
	BatchesPerSecond float64 `mapstructure:"batches_per_second" validate:"gte=0"`
}

// FeaturesConfig controls feature derivation and the analytics cache
type FeaturesConfig struct {
	BatchSize        int    `mapstructure:"batch_size" validate:"gt=0"`
	SpeedShortWindow int    `mapstructure:"speed_short_window" validate:"gt=0"`
	SpeedLongWindow  int    `mapstructure:"speed_long_window" validate:"gt=0"`
	WinnerWindow     int    `mapstructure:"winner_window" validate:"gt=0"`
	DistanceWindow   int    `mapstructure:"distance_window" validate:"gt=0"`
	EarningsWindow   int    `mapstructure:"earnings_window" validate:"gt=0"`
	CacheTTLSeconds  int    `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
	CacheMaxSize     int    `mapstructure:"cache_max_size" validate:"gte=0"`
	RefreshSchedule  string `mapstructure:"refresh_schedule" validate:"omitempty,cron"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// HealthConfig configures the health/metrics HTTP listener of the serve command
type HealthConfig struct {
	Port string `mapstructure:"port"`
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL connection URL with the
// credentials escaped
func (c *Config) GetDatabaseDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     net.JoinHostPort(c.Database.Host, strconv.Itoa(c.Database.Port)),
		Path:     "/" + c.Database.Name,
		RawQuery: url.Values{"sslmode": {c.Database.SSLMode}}.Encode(),
	}
	return u.String()
}

// MaxConnections is the hard ceiling of the pool: the steady pool size plus overflow
func (d DatabaseConfig) MaxConnections() int {
	return d.PoolSize + d.MaxOverflow
}

// RecycleInterval is the maximum lifetime of a pooled connection
func (d DatabaseConfig) RecycleInterval() time.Duration {
	return time.Duration(d.PoolRecycleSeconds) * time.Second
}

// AcquireTimeout bounds how long a caller waits for a pooled connection
func (d DatabaseConfig) AcquireTimeout() time.Duration {
	return time.Duration(d.PoolTimeoutSeconds) * time.Second
}

// CacheTTL returns the analytics cache TTL; zero disables caching
func (f FeaturesConfig) CacheTTL() time.Duration {
	return time.Duration(f.CacheTTLSeconds) * time.Second
}
