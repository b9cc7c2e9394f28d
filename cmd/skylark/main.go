// Package main provides the skylark command line.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/skylark/internal/analytics"
	"github.com/yourusername/skylark/internal/config"
	"github.com/yourusername/skylark/internal/database"
	"github.com/yourusername/skylark/internal/logger"
	"github.com/yourusername/skylark/internal/metrics"
	"github.com/yourusername/skylark/internal/repository"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	log        *logrus.Logger
	cfg        *config.Config
	registry   *database.Registry
	db         *database.DB
	repos      *repository.Repositories
)

var rootCmd = &cobra.Command{
	Use:   "skylark",
	Short: "Horse racing persistence and feature tooling",
	Long: `Skylark stores race records in PostgreSQL, imports them from the legacy
MySQL store and derives per-entry feature vectors from each horse's history.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if registry != nil {
			registry.ReleaseAll()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setup(ctx context.Context) error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(ctx, cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log = logger.NewLogger(cfg.App.LogLevel)
	metrics.InitRegistry()

	registry = database.NewRegistry(database.PoolConfigFrom(cfg.Database), log)
	db, err = registry.Acquire(ctx, cfg.GetDatabaseDSN())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err = repository.NewRepositories(db, log)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}
	if ttl := cfg.Features.CacheTTL(); ttl > 0 {
		repos.Analytics = analytics.NewCachedEngine(repos.Analytics, ttl, cfg.Features.CacheMaxSize)
	}

	return nil
}
