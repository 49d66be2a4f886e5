// Package clean nulls sensor artifacts out of a session's numeric fields.
package clean

import (
	"math"
	"strconv"
	"strings"

	"github.com/oarlog/oarlog/pkg/telemetry"
)

// Config bounds what counts as a plausible reading.
type Config struct {
	// MaxDistanceJump is the largest stroke-to-stroke GPS distance gain,
	// in meters, accepted as real movement. Bigger jumps mean the receiver
	// lost fix and snapped to a new position.
	MaxDistanceJump float64 `yaml:"max_distance_jump"`

	// MinStrokeRate and MaxStrokeRate bound a plausible rowing cadence in
	// strokes per minute. Readings outside the band are impact noise from
	// the accelerometer, not strokes.
	MinStrokeRate float64 `yaml:"min_stroke_rate"`
	MaxStrokeRate float64 `yaml:"max_stroke_rate"`
}

// DefaultConfig returns the bounds used for on-water sculling data.
func DefaultConfig() Config {
	return Config{
		MaxDistanceJump: 100,
		MinStrokeRate:   10,
		MaxStrokeRate:   34,
	}
}

// ParseOptionalNumber converts one raw telemetry cell to a float. Unparsable
// or non-finite values become nil. Malformed telemetry is routine, so there
// is no error to report.
func ParseOptionalNumber(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Sanitize nulls artifacts in one session's rows, in place.
//
// A row whose GPS distance jumped more than cfg.MaxDistanceJump meters past
// the previous row, or whose stroke rate sits outside the cadence band, has
// BOTH DistanceGPS and StrokeRate set to nil. Distance jumps are measured
// on the values as read, before any nulling, so every offending row in a
// run of jumps is caught and a second pass over sanitized rows is a no-op.
// Rows are never removed.
func Sanitize(rows []telemetry.StrokeRow, cfg Config) {
	drop := make([]bool, len(rows))

	for i := 1; i < len(rows); i++ {
		prev, cur := rows[i-1].DistanceGPS, rows[i].DistanceGPS
		if prev != nil && cur != nil && *cur-*prev > cfg.MaxDistanceJump {
			drop[i] = true
		}
	}

	for i := range rows {
		if r := rows[i].StrokeRate; r != nil && (*r < cfg.MinStrokeRate || *r > cfg.MaxStrokeRate) {
			drop[i] = true
		}
	}

	for i := range rows {
		if drop[i] {
			rows[i].DistanceGPS = nil
			rows[i].StrokeRate = nil
		}
	}
}
