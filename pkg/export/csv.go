package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/oarlog/oarlog/pkg/telemetry"
)

// WriteCSV renders the dataset as a single CSV table with a header row.
// Missing readings and absent passthrough values become empty cells.
func WriteCSV(w io.Writer, ds *telemetry.Dataset) error {
	cols := Columns(ds)
	extras := cols[len(coreColumns):]

	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(cols))
	for _, row := range ds.Rows {
		record[0] = row.SessionID
		record[1] = row.Direction.String()
		record[2] = row.SplitGPS
		record[3] = floatCell(row.DistanceGPS)
		record[4] = floatCell(row.StrokeRate)
		for i, key := range extras {
			record[len(coreColumns)+i] = row.Extra[key]
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func floatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
