package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/oarlog/oarlog/pkg/catalog"
	"github.com/oarlog/oarlog/pkg/config"
	"github.com/oarlog/oarlog/pkg/dataset"
	"github.com/oarlog/oarlog/pkg/export"
	"github.com/oarlog/oarlog/pkg/telemetry"
)

var (
	ingestOut         string
	ingestFormat      string
	ingestWhere       string
	ingestShards      int
	ingestIncremental bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Ingest session files and export a cleaned dataset",
	Long: `Parses each session file, labels strokes with their course leg, nulls
sensor artifacts and joins the surviving rows into one dataset. The dataset
is written to the output directory in the chosen format and the run is
recorded in the catalog. A file that fails to parse is logged and skipped;
the run fails only when every file fails.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	name := ingestFormat
	if name == "" {
		name = cfg.Export.Format
	}
	format, err := export.ParseFormat(name)
	if err != nil {
		return err
	}

	out := ingestOut
	if out == "" {
		out = cfg.Export.Out
	}

	shards := ingestShards
	if shards == 0 {
		shards = cfg.Export.Shards
	}
	if shards < 1 {
		return fmt.Errorf("%w: %d", config.ErrInvalidShards, shards)
	}

	filter, err := compileFilter(ingestWhere)
	if err != nil {
		return err
	}

	cat, err := catalog.Open(cfg.Catalog)
	if err != nil {
		return err
	}
	defer cat.Close()

	checksums := make(map[string]string, len(args))
	for _, path := range args {
		sum, err := catalog.Checksum(path)
		if err != nil {
			logger.Warn("checksum failed", "file", path, "error", err)
			continue
		}
		checksums[path] = sum
	}

	joinCfg := dataset.Config{
		Course: cfg.Course,
		Clean:  cfg.Clean,
		Filter: filter,
		Logger: logger,
	}
	if ingestIncremental {
		joinCfg.SkipFile = func(path string) bool {
			sum, ok := checksums[path]
			if !ok {
				return false
			}
			changed, err := cat.Changed(path, sum)
			if err != nil {
				return false
			}
			return !changed
		}
	}

	ds, batch, err := dataset.New(joinCfg).Build(args)
	if err != nil {
		return err
	}

	if err := writeOutputs(ds, format, out, shards); err != nil {
		return err
	}

	filtered := 0
	files := make([]catalog.FileRecord, 0, len(batch.Results))
	for _, res := range batch.Results {
		filtered += res.Filtered
		if res.Status == dataset.StatusSkipped {
			continue
		}
		files = append(files, catalog.FileRecord{
			Path:      res.Path,
			SessionID: res.SessionID,
			Checksum:  checksums[res.Path],
			Rows:      res.Rows,
			Status:    res.Status.String(),
		})
	}

	runID, err := cat.RecordIngest(catalog.RunRecord{
		Format:   string(format),
		Out:      out,
		Files:    batch.Total(),
		Failed:   batch.FailedCount,
		Skipped:  batch.SkippedCount,
		Rows:     len(ds.Rows),
		Filtered: filtered,
	}, files)
	if err != nil {
		return err
	}

	logger.Info("ingestion complete",
		"run", runID,
		"files", batch.Total(),
		"failed", batch.FailedCount,
		"skipped", batch.SkippedCount,
		"rows", len(ds.Rows),
		"out", out)
	return nil
}

func writeOutputs(ds *telemetry.Dataset, format export.Format, out string, shards int) error {
	if err := os.MkdirAll(out, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	parts := export.PartitionDataset(ds, shards)
	for i, part := range parts {
		name := fmt.Sprintf("part-%05d%s", i, format.Ext())
		if len(parts) == 1 {
			name = "dataset" + format.Ext()
		}
		if err := writeFile(filepath.Join(out, name), part, format); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, ds *telemetry.Dataset, format export.Format) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := export.Write(f, ds, format); err != nil {
		f.Close()
		return fmt.Errorf("export %s: %w", path, err)
	}
	return f.Close()
}
