package export

import (
	"fmt"
	"io"

	"github.com/hamba/avro/v2/ocf"

	"github.com/oarlog/oarlog/pkg/telemetry"
)

// strokeAvroSchema is the record schema for Avro container files. Optional
// readings are nullable doubles; passthrough columns live in a string map
// so the schema stays stable across datasets with different source columns.
const strokeAvroSchema = `{
  "type": "record",
  "name": "Stroke",
  "namespace": "oarlog",
  "fields": [
    {"name": "sessionId", "type": "string"},
    {"name": "direction", "type": "string"},
    {"name": "splitGps", "type": "string"},
    {"name": "distanceGps", "type": ["null", "double"], "default": null},
    {"name": "strokeRate", "type": ["null", "double"], "default": null},
    {"name": "extra", "type": {"type": "map", "values": "string"}, "default": {}}
  ]
}`

// avroStroke mirrors telemetry.StrokeRow for container encoding. Nil
// pointers select the null branch of the nullable double unions.
type avroStroke struct {
	SessionID   string            `avro:"sessionId"`
	Direction   string            `avro:"direction"`
	SplitGPS    string            `avro:"splitGps"`
	DistanceGPS *float64          `avro:"distanceGps"`
	StrokeRate  *float64          `avro:"strokeRate"`
	Extra       map[string]string `avro:"extra"`
}

// WriteAvro renders the dataset as an Avro object container file.
func WriteAvro(w io.Writer, ds *telemetry.Dataset) error {
	enc, err := ocf.NewEncoder(strokeAvroSchema, w)
	if err != nil {
		return fmt.Errorf("open avro encoder: %w", err)
	}

	for _, row := range ds.Rows {
		rec := avroStroke{
			SessionID:   row.SessionID,
			Direction:   row.Direction.String(),
			SplitGPS:    row.SplitGPS,
			DistanceGPS: row.DistanceGPS,
			StrokeRate:  row.StrokeRate,
			Extra:       row.Extra,
		}
		if rec.Extra == nil {
			rec.Extra = map[string]string{}
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode stroke: %w", err)
		}
	}

	return enc.Close()
}
