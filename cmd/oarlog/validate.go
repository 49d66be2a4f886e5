package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oarlog/oarlog/pkg/export"
)

var validateCmd = &cobra.Command{
	Use:   "validate [export.json]",
	Short: "Validate a JSON export against the stroke row schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		if err := export.ValidateJSON(data); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: valid\n", args[0])
		return nil
	},
}
