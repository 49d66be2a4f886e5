package export

import (
	"encoding/json"
	"io"

	"github.com/oarlog/oarlog/pkg/telemetry"
)

// rowObject flattens a stroke into a JSON object. Passthrough columns sit
// alongside the fixed fields; on a name collision the fixed field wins.
func rowObject(row telemetry.StrokeRow) map[string]any {
	obj := make(map[string]any, len(row.Extra)+len(coreColumns))
	for k, v := range row.Extra {
		obj[k] = v
	}
	obj["sessionId"] = row.SessionID
	obj["direction"] = row.Direction.String()
	obj["splitGps"] = row.SplitGPS
	obj["distanceGps"] = row.DistanceGPS
	obj["strokeRate"] = row.StrokeRate
	return obj
}

// WriteJSON renders the dataset as a JSON array of flat row objects.
// Missing readings encode as null.
func WriteJSON(w io.Writer, ds *telemetry.Dataset) error {
	objs := make([]map[string]any, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		objs = append(objs, rowObject(row))
	}
	return json.NewEncoder(w).Encode(objs)
}
