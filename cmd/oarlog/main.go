package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/oarlog/oarlog/pkg/config"
	"github.com/oarlog/oarlog/pkg/rowfilter"
)

var (
	// Global flags
	cfgPath     string
	logLevel    string
	catalogPath string

	cfg    *config.Config
	logger *slog.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "oarlog",
	Short: "oarlog - rowing telemetry ingestion and cleaning",
	Long: `oarlog turns raw session exports from a rowing head unit into a clean,
queryable stroke dataset.

Each session file is parsed for its per-stroke table, strokes are labeled
with the leg of the out-and-back course they were rowed on, sensor
artifacts are nulled out, and the surviving rows are joined into one
dataset tagged by session. Datasets export to CSV, JSON, Arrow or Avro,
and every ingestion run is recorded in a catalog for incremental reruns.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		if catalogPath != "" {
			cfg.Catalog = catalogPath
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger = newLogger(cfg)
		slog.SetDefault(logger)
		return nil
	},
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}
	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// compileFilter compiles a command's row filter, falling back to the
// configured default expression. Empty means no filter.
func compileFilter(where string) (*rowfilter.Filter, error) {
	if where == "" {
		where = cfg.Filter
	}
	if where == "" {
		return nil, nil
	}
	compiler, err := rowfilter.NewCompiler()
	if err != nil {
		return nil, err
	}
	return compiler.Compile(where)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "oarlog.yaml", "Config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Override the catalog database path")

	ingestCmd.Flags().StringVarP(&ingestOut, "out", "o", "", "Output directory (default from config)")
	ingestCmd.Flags().StringVarP(&ingestFormat, "format", "f", "", "Output format: csv, json, arrow, avro")
	ingestCmd.Flags().StringVar(&ingestWhere, "where", "", `CEL row filter, e.g. 'direction == "up"'`)
	ingestCmd.Flags().IntVar(&ingestShards, "shards", 0, "Split the output into N session-sharded files")
	ingestCmd.Flags().BoolVar(&ingestIncremental, "incremental", false, "Skip files unchanged since their last ingestion")

	summaryCmd.Flags().StringVar(&summaryWhere, "where", "", "CEL row filter applied before summarizing")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(runsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
