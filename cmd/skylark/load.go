package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/skylark/internal/service"
)

var loadTable string

var loadCmd = &cobra.Command{
	Use:   "load [file]",
	Short: "Load newline-delimited JSON records into one table",
	Long: `Reads one JSON object per line from file, or from stdin when file is
omitted or "-", and inserts the records into --table. Records with
unknown or invalid fields, or trailing content after the object, are
rejected and counted. Dates may be plain YYYY-MM-DD dates or RFC 3339
timestamps.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			r = f
		}

		res, err := service.NewLoader(repos, log, cfg.Legacy.BatchSize).Load(cmd.Context(), loadTable, r)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d lines, %d rejected, %d batches (%d failed)\n",
			res.Table, res.Lines, res.Rejected, res.Batches, res.FailedBatches)
		return nil
	},
}

func init() {
	loadCmd.Flags().StringVarP(&loadTable, "table", "t", "",
		"Target table ("+strings.Join(service.Tables(), ", ")+")")
	_ = loadCmd.MarkFlagRequired("table")
	rootCmd.AddCommand(loadCmd)
}
