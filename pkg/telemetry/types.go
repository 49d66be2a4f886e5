// Package telemetry holds the row and dataset types shared by the
// ingestion pipeline and its consumers.
package telemetry

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Column names as written by the head unit's per-stroke export.
const (
	ColSplitGPS    = "Split (GPS)"
	ColDistanceGPS = "Distance (GPS)"
	ColStrokeRate  = "Stroke Rate"
)

// Direction is the leg of the out-and-back course a stroke belongs to.
type Direction int

const (
	// DirectionUp is the outbound leg.
	DirectionUp Direction = iota

	// DirectionDown is the return leg.
	DirectionDown

	// DirectionTurning marks strokes inside a suspected turn. Turning rows
	// are dropped before a dataset is assembled and never reach consumers.
	DirectionTurning
)

// String returns the lowercase wire form of the direction.
func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	case DirectionTurning:
		return "turning"
	default:
		return fmt.Sprintf("unknown(%d)", int(d))
	}
}

// ParseDirection maps the wire form back to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up":
		return DirectionUp, nil
	case "down":
		return DirectionDown, nil
	case "turning":
		return DirectionTurning, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

// MarshalJSON encodes the direction as its lowercase string form.
func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes the lowercase string form.
func (d *Direction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDirection(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// StrokeRow is one stroke of telemetry after cleaning.
//
// DistanceGPS and StrokeRate are nil when the value was missing at the
// source or was nulled by the sanitizer. Extra carries passthrough columns
// keyed by header name; the pipeline never touches them.
type StrokeRow struct {
	SessionID   string    `json:"sessionId"`
	Direction   Direction `json:"direction"`
	SplitGPS    string    `json:"splitGps"`
	DistanceGPS *float64  `json:"distanceGps"`
	StrokeRate  *float64  `json:"strokeRate"`

	Extra map[string]string `json:"extra,omitempty"`
}

// Float returns a pointer to v. Convenience for building rows.
func Float(v float64) *float64 { return &v }

// Session is one source file's worth of strokes after the full pipeline.
type Session struct {
	// ID is the source file's base name without extension.
	ID string

	Rows []StrokeRow
}

// Dataset is the unified output: rows from every session concatenated in
// session-processing order. Rows are only ever appended; consumers must
// treat it as read-only.
type Dataset struct {
	Rows []StrokeRow
}

// Append adds a session's rows to the dataset.
func (d *Dataset) Append(s Session) {
	d.Rows = append(d.Rows, s.Rows...)
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.Rows) }

// SessionIDs returns the distinct session IDs in first-appearance order.
func (d *Dataset) SessionIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, r := range d.Rows {
		if !seen[r.SessionID] {
			seen[r.SessionID] = true
			ids = append(ids, r.SessionID)
		}
	}
	return ids
}

// ExtraKeys returns the sorted union of passthrough column names across all
// rows. Exporters use it to build a stable wide schema.
func (d *Dataset) ExtraKeys() []string {
	seen := make(map[string]bool)
	for _, r := range d.Rows {
		for k := range r.Extra {
			seen[k] = true
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
