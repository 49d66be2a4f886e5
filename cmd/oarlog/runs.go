package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/oarlog/oarlog/pkg/catalog"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded ingestion runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Open(cfg.Catalog)
		if err != nil {
			return err
		}
		defer cat.Close()

		runs, err := cat.Runs()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "STARTED\tRUN\tFORMAT\tFILES\tFAILED\tSKIPPED\tROWS\tFILTERED")
		for _, r := range runs {
			started := time.UnixMicro(r.StartedAt).UTC().Format(time.RFC3339)
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
				started, r.ID, r.Format, r.Files, r.Failed, r.Skipped, r.Rows, r.Filtered)
		}
		return w.Flush()
	},
}
