package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/oarlog/oarlog/pkg/dataset"
)

var summaryWhere string

var summaryCmd = &cobra.Command{
	Use:   "summary [files...]",
	Short: "Summarize sessions by course leg without writing exports",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	filter, err := compileFilter(summaryWhere)
	if err != nil {
		return err
	}

	joiner := dataset.New(dataset.Config{
		Course: cfg.Course,
		Clean:  cfg.Clean,
		Filter: filter,
		Logger: logger,
	})
	ds, _, err := joiner.Build(args)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION\tLEG\tSTROKES\tMISSING\tAVG RATE")
	for _, s := range dataset.Summarize(ds) {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.1f\n",
			s.SessionID, s.Direction, s.Rows, s.MissingRows, s.AvgStrokeRate)
	}
	return w.Flush()
}
