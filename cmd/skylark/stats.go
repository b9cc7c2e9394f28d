package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	statsHorse    int64
	statsDate     string
	statsLimit    int
	statsDistance int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show a horse's aggregates as of a date",
	RunE: func(cmd *cobra.Command, args []string) error {
		date := time.Now().UTC()
		if statsDate != "" {
			var err error
			if date, err = time.Parse("2006-01-02", statsDate); err != nil {
				return fmt.Errorf("invalid --date: %w", err)
			}
		}

		ctx := cmd.Context()
		a := repos.Analytics
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Horse %d before %s (last %d races)\n", statsHorse, date.Format("2006-01-02"), statsLimit)

		rows := []struct {
			label string
			get   func() (*float64, error)
		}{
			{"Last speed figure", func() (*float64, error) { return a.GetLastSpeedFigure(ctx, statsHorse, date) }},
			{"Average speed figure", func() (*float64, error) { return a.GetAverageSpeedFigure(ctx, statsHorse, date, statsLimit) }},
			{"Average top-3 position", func() (*float64, error) { return a.GetAverageFinishPosition(ctx, statsHorse, date, statsLimit) }},
			{"Average distance", func() (*float64, error) { return a.GetAverageDistance(ctx, statsHorse, date, statsLimit) }},
			{"Average earnings", func() (*float64, error) { return a.GetAverageEarnings(ctx, statsHorse, date, statsLimit) }},
		}
		if statsDistance > 0 {
			rows = append(rows, struct {
				label string
				get   func() (*float64, error)
			}{
				fmt.Sprintf("Average speed figure at %dm", statsDistance),
				func() (*float64, error) {
					return a.GetAverageSpeedFigureByDistance(ctx, statsHorse, date, statsDistance, statsLimit)
				},
			})
		}

		for _, row := range rows {
			v, err := row.get()
			if err != nil {
				return err
			}
			if v == nil {
				fmt.Fprintf(out, "  %-32s -\n", row.label)
				continue
			}
			fmt.Fprintf(out, "  %-32s %.2f\n", row.label, *v)
		}

		if st := db.Stats(); st != nil {
			fmt.Fprintf(out, "\nPool: %d/%d connections in use, %d idle\n",
				st.AcquiredConns(), st.MaxConns(), st.IdleConns())
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Int64Var(&statsHorse, "horse", 0, "Horse id")
	statsCmd.Flags().StringVar(&statsDate, "date", "", "Reference date (YYYY-MM-DD), defaults to today")
	statsCmd.Flags().IntVar(&statsLimit, "limit", 5, "Number of most recent races to aggregate")
	statsCmd.Flags().IntVar(&statsDistance, "distance", 0, "Also show the speed figure average at this distance")
	_ = statsCmd.MarkFlagRequired("horse")
	rootCmd.AddCommand(statsCmd)
}
