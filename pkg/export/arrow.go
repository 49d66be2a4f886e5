package export

import (
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/oarlog/oarlog/pkg/telemetry"
)

// BuildSchema maps the dataset layout to an Arrow schema. The fixed stroke
// fields come first, passthrough columns follow as nullable strings.
func BuildSchema(ds *telemetry.Dataset) *arrow.Schema {
	extras := ds.ExtraKeys()
	fields := make([]arrow.Field, 0, len(coreColumns)+len(extras))
	fields = append(fields,
		arrow.Field{Name: "sessionId", Type: arrow.BinaryTypes.String},
		arrow.Field{Name: "direction", Type: arrow.BinaryTypes.String},
		arrow.Field{Name: "splitGps", Type: arrow.BinaryTypes.String},
		arrow.Field{Name: "distanceGps", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
		arrow.Field{Name: "strokeRate", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	)
	for _, key := range extras {
		fields = append(fields, arrow.Field{Name: key, Type: arrow.BinaryTypes.String, Nullable: true})
	}
	return arrow.NewSchema(fields, nil)
}

// WriteArrow renders the dataset as a single-batch Arrow IPC file.
func WriteArrow(w io.Writer, ds *telemetry.Dataset) error {
	schema := BuildSchema(ds)
	mem := memory.NewGoAllocator()

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	extras := ds.ExtraKeys()
	for _, row := range ds.Rows {
		b.Field(0).(*array.StringBuilder).Append(row.SessionID)
		b.Field(1).(*array.StringBuilder).Append(row.Direction.String())
		b.Field(2).(*array.StringBuilder).Append(row.SplitGPS)
		appendFloat(b.Field(3).(*array.Float64Builder), row.DistanceGPS)
		appendFloat(b.Field(4).(*array.Float64Builder), row.StrokeRate)
		for i, key := range extras {
			sb := b.Field(len(coreColumns) + i).(*array.StringBuilder)
			if v, ok := row.Extra[key]; ok {
				sb.Append(v)
			} else {
				sb.AppendNull()
			}
		}
	}

	rec := b.NewRecord()
	defer rec.Release()

	fw, err := ipc.NewFileWriter(w, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	if err != nil {
		return fmt.Errorf("open arrow writer: %w", err)
	}
	if err := fw.Write(rec); err != nil {
		fw.Close()
		return fmt.Errorf("write record batch: %w", err)
	}
	return fw.Close()
}

func appendFloat(fb *array.Float64Builder, v *float64) {
	if v == nil {
		fb.AppendNull()
		return
	}
	fb.Append(*v)
}
