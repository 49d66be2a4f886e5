// Package extract parses the per-stroke table out of a raw session file.
//
// A session file starts with free-form preamble written by the head unit
// (firmware version, device serial, interval summaries) followed by the
// literal marker line and a comma-delimited table:
//
//	Per-Stroke Data:
//	Interval,Distance (GPS),...,Stroke Rate,...
//	(Interval),(Meters),...,(SPM),...
//	1,7.2,...,18.5,...
//
// The second table line is a units row, not telemetry; callers discard the
// first data row before further processing.
package extract

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Marker precedes the per-stroke table in every session file.
const Marker = "Per-Stroke Data:"

var (
	// ErrMissingMarker is returned when the per-stroke marker line is absent.
	ErrMissingMarker = errors.New("per-stroke data marker not found")

	// ErrEmptyTable is returned when nothing follows the marker.
	ErrEmptyTable = errors.New("no table after marker")
)

// DroppedColumns lists head-unit columns discarded at extraction: imperial
// duplicates and sensor channels nothing downstream reads.
var DroppedColumns = []string{
	"Distance (IMP)",
	"Split (IMP)",
	"Speed (IMP)",
	"Distance/Stroke (IMP)",
	"Heart Rate",
	"Power",
	"Catch",
	"Slip",
	"Finish",
	"Wash",
	"Force Avg",
	"Work",
	"Force Max",
	"Max Force Angle",
	"GPS Lat.",
	"GPS Lon.",
}

// FormatError reports a session file whose contents cannot be parsed.
type FormatError struct {
	// Err is the underlying cause: ErrMissingMarker, ErrEmptyTable, or a
	// CSV parse error.
	Err error
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("session format: %v", e.Err)
}

// Unwrap returns the underlying cause for errors.Is compatibility.
func (e *FormatError) Unwrap() error {
	return e.Err
}

// Table is the extracted per-stroke table: raw string cells, positional,
// column order as written by the device minus DroppedColumns.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the position of a column by name.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, c := range t.Columns {
		if c == name {
			return i, true
		}
	}
	return 0, false
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ParseSession extracts the per-stroke table from one raw session file.
// Preamble before the marker is skipped; the line after the marker is the
// header. Any structural problem is a *FormatError; the caller decides
// whether to skip the file or abort.
func ParseSession(r io.Reader) (*Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	table, ok := afterMarker(string(raw))
	if !ok {
		return nil, &FormatError{Err: ErrMissingMarker}
	}

	cr := csv.NewReader(strings.NewReader(table))
	records, err := cr.ReadAll()
	if err != nil {
		return nil, &FormatError{Err: err}
	}
	if len(records) == 0 {
		return nil, &FormatError{Err: ErrEmptyTable}
	}

	header, keep := keptColumns(records[0])
	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make([]string, len(keep))
		for i, src := range keep {
			row[i] = rec[src]
		}
		rows = append(rows, row)
	}

	return &Table{Columns: header, Rows: rows}, nil
}

// afterMarker returns the text following the marker line, or ok=false when
// the marker never appears. Lines are compared with surrounding whitespace
// trimmed so CRLF exports work.
func afterMarker(text string) (string, bool) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == Marker {
			return strings.Join(lines[i+1:], "\n"), true
		}
	}
	return "", false
}

// keptColumns maps the device header to the retained columns, returning the
// kept names and their source indices.
func keptColumns(header []string) ([]string, []int) {
	dropped := make(map[string]bool, len(DroppedColumns))
	for _, c := range DroppedColumns {
		dropped[c] = true
	}

	var names []string
	var keep []int
	for i, name := range header {
		if dropped[strings.TrimSpace(name)] {
			continue
		}
		names = append(names, strings.TrimSpace(name))
		keep = append(keep, i)
	}
	return names, keep
}
