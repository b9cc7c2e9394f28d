package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/skylark/internal/service"
)

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Rebuild the feature vector of every race entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		b := service.NewFeatureBuilder(repos.RaceData, repos.Analytics, repos.Features, cfg.Features, log)
		res, err := b.Refresh(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d entries, %d upserted, %d skipped, %d failed batches in %v\n",
			res.RunID, res.Entries, res.Upserted, res.Skipped, res.FailedBatches, res.Duration)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(featuresCmd)
}
