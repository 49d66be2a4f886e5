// Package export renders stroke datasets to interchange formats.
//
// Four encodings are supported: CSV and JSON for spreadsheets and ad-hoc
// tooling, Arrow IPC and Avro OCF for analytics pipelines. CSV, JSON and
// Arrow lay rows out as flat columns, the fixed stroke fields first and
// passthrough columns after them in sorted order. Avro keeps passthrough
// columns in a map field so every container file shares one record schema.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/oarlog/oarlog/pkg/telemetry"
)

// ErrUnknownFormat is returned when a format name is not recognised.
var ErrUnknownFormat = errors.New("unknown export format")

// Format identifies an output encoding.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatArrow Format = "arrow"
	FormatAvro  Format = "avro"
)

// ParseFormat parses a format name as given on the command line.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatArrow, FormatAvro:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Ext returns the conventional file extension for the format.
func (f Format) Ext() string {
	switch f {
	case FormatCSV:
		return ".csv"
	case FormatJSON:
		return ".json"
	case FormatArrow:
		return ".arrow"
	case FormatAvro:
		return ".avro"
	default:
		return ""
	}
}

// coreColumns is the flat column layout shared by CSV, JSON and Arrow.
// Passthrough columns follow these, sorted by name.
var coreColumns = []string{"sessionId", "direction", "splitGps", "distanceGps", "strokeRate"}

// Columns returns the full flat column layout for a dataset.
func Columns(ds *telemetry.Dataset) []string {
	cols := make([]string, 0, len(coreColumns)+len(ds.ExtraKeys()))
	cols = append(cols, coreColumns...)
	return append(cols, ds.ExtraKeys()...)
}

// Write renders the dataset to w in the given format.
func Write(w io.Writer, ds *telemetry.Dataset, format Format) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, ds)
	case FormatJSON:
		return WriteJSON(w, ds)
	case FormatArrow:
		return WriteArrow(w, ds)
	case FormatAvro:
		return WriteAvro(w, ds)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
