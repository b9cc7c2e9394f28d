package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/skylark/internal/legacy"
	"github.com/yourusername/skylark/internal/service"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy the legacy MySQL store into PostgreSQL",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Legacy.MySQLDSN == "" {
			return fmt.Errorf("legacy.mysql_dsn is required, e.g. user:pass@tcp(host:3306)/racing")
		}

		src, err := legacy.OpenMySQL(cmd.Context(), cfg.Legacy.MySQLDSN)
		if err != nil {
			return err
		}
		defer src.Close()

		im := service.NewImporter(src, repos, log, cfg.Legacy.BatchSize, cfg.Legacy.BatchesPerSecond)
		m, err := im.Run(cmd.Context())
		if m != nil {
			fmt.Fprintln(cmd.OutOrStdout(), m.String())
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
