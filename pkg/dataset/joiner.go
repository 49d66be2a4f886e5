// Package dataset drives the per-file pipeline and merges sessions into
// the unified dataset.
package dataset

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/oarlog/oarlog/pkg/clean"
	"github.com/oarlog/oarlog/pkg/course"
	"github.com/oarlog/oarlog/pkg/extract"
	"github.com/oarlog/oarlog/pkg/rowfilter"
	"github.com/oarlog/oarlog/pkg/telemetry"
)

// Config configures a Joiner. Zero values fall back to defaults.
type Config struct {
	// Course is the turn-detection tuning.
	Course course.Config

	// Clean bounds plausible sensor readings.
	Clean clean.Config

	// Filter, when set, keeps only rows the predicate accepts. Rows whose
	// evaluation errors are dropped and counted, never fatal.
	Filter *rowfilter.Filter

	// SkipFile, when set, is consulted per path before reading; returning
	// true records the file as skipped. Incremental runs use it to leave
	// unchanged files alone.
	SkipFile func(path string) bool

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Joiner runs Extract, Segment, Sanitize and Filter per file and
// concatenates the survivors in input order.
type Joiner struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Joiner, filling config defaults.
func New(cfg Config) *Joiner {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Course == (course.Config{}) {
		cfg.Course = course.DefaultConfig()
	}
	if cfg.Clean == (clean.Config{}) {
		cfg.Clean = clean.DefaultConfig()
	}
	return &Joiner{
		cfg:    cfg,
		logger: cfg.Logger.With("component", "joiner"),
	}
}

// SessionID derives the session tag from a file path: the base name with
// its extension stripped.
func SessionID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Build runs the pipeline over the given files, in order, and returns the
// merged dataset plus per-file outcomes.
//
// One file failing is logged and recorded, never fatal. When the path list
// is empty or every file fails, Build returns ErrNoValidSessions; the
// BatchResult still describes what happened. Row order within a session
// and session order across the dataset follow the input.
func (j *Joiner) Build(paths []string) (*telemetry.Dataset, *BatchResult, error) {
	ds := &telemetry.Dataset{}
	batch := NewBatchResult(len(paths))

	for _, path := range paths {
		id := SessionID(path)

		if j.cfg.SkipFile != nil && j.cfg.SkipFile(path) {
			j.logger.Info("session unchanged, skipping", "session", id, "path", path)
			batch.Add(FileResult{Path: path, SessionID: id, Status: StatusSkipped})
			continue
		}

		f, err := os.Open(path)
		if err != nil {
			j.logger.Warn("cannot open session file", "path", path, "err", err)
			batch.Add(FileResult{Path: path, SessionID: id, Status: StatusFailed, Err: err})
			continue
		}
		session, filtered, err := j.readSession(f, id)
		f.Close()

		if err != nil {
			j.logger.Warn("session unusable, skipping", "session", id, "path", path, "err", err)
			batch.Add(FileResult{Path: path, SessionID: id, Status: StatusFailed, Err: err})
			continue
		}

		status := StatusOK
		if len(session.Rows) == 0 {
			status = StatusEmpty
		}
		j.logger.Info("session ingested",
			"session", id, "rows", len(session.Rows), "filtered", filtered)

		ds.Append(session)
		batch.Add(FileResult{
			Path:      path,
			SessionID: id,
			Status:    status,
			Rows:      len(session.Rows),
			Filtered:  filtered,
		})
	}

	if batch.Total() == 0 {
		return nil, batch, fmt.Errorf("%w: no input files", ErrNoValidSessions)
	}
	if batch.AllFailed() {
		return nil, batch, fmt.Errorf("%w: all %d files failed", ErrNoValidSessions, batch.Total())
	}
	return ds, batch, nil
}

// readSession runs the per-file pipeline: extract, drop the units row,
// segment, drop turning rows, convert numerics, sanitize, filter.
func (j *Joiner) readSession(r io.Reader, id string) (telemetry.Session, int, error) {
	table, err := extract.ParseSession(r)
	if err != nil {
		return telemetry.Session{}, 0, err
	}

	// the first data row is the device's units row, not telemetry
	if table.Len() > 0 {
		table.Rows = table.Rows[1:]
	}

	splitIdx, ok := table.ColumnIndex(telemetry.ColSplitGPS)
	if !ok {
		return telemetry.Session{}, 0, fmt.Errorf("%w: %q", ErrMissingColumn, telemetry.ColSplitGPS)
	}
	distIdx, ok := table.ColumnIndex(telemetry.ColDistanceGPS)
	if !ok {
		return telemetry.Session{}, 0, fmt.Errorf("%w: %q", ErrMissingColumn, telemetry.ColDistanceGPS)
	}
	rateIdx, ok := table.ColumnIndex(telemetry.ColStrokeRate)
	if !ok {
		return telemetry.Session{}, 0, fmt.Errorf("%w: %q", ErrMissingColumn, telemetry.ColStrokeRate)
	}

	splits := make([]string, table.Len())
	for i, row := range table.Rows {
		splits[i] = row[splitIdx]
	}
	dirs := course.Label(splits, j.cfg.Course)

	rows := make([]telemetry.StrokeRow, 0, table.Len())
	for i, raw := range table.Rows {
		if dirs[i] == telemetry.DirectionTurning {
			continue
		}

		row := telemetry.StrokeRow{
			SessionID:   id,
			Direction:   dirs[i],
			SplitGPS:    raw[splitIdx],
			DistanceGPS: clean.ParseOptionalNumber(raw[distIdx]),
			StrokeRate:  clean.ParseOptionalNumber(raw[rateIdx]),
		}
		for c, name := range table.Columns {
			if c == splitIdx || c == distIdx || c == rateIdx {
				continue
			}
			if row.Extra == nil {
				row.Extra = make(map[string]string, len(table.Columns)-3)
			}
			row.Extra[name] = raw[c]
		}
		rows = append(rows, row)
	}

	clean.Sanitize(rows, j.cfg.Clean)

	filtered := 0
	if j.cfg.Filter != nil {
		kept := rows[:0]
		for _, row := range rows {
			keep, err := j.cfg.Filter.Eval(row)
			if err != nil {
				j.logger.Debug("filter eval failed, dropping row",
					"session", id, "err", err)
				filtered++
				continue
			}
			if !keep {
				filtered++
				continue
			}
			kept = append(kept, row)
		}
		rows = kept
	}

	return telemetry.Session{ID: id, Rows: rows}, filtered, nil
}
