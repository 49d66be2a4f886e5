// Package course reconstructs which leg of an out-and-back course each
// stroke was rowed on.
//
// The head unit resets its GPS split near every 500m boundary, so the
// split's minute component traces a sawtooth over a session. A turn shows
// up as the minute climbing past the rollover threshold while the boat
// spins, then settling back once the next leg is underway. The scan walks
// that signal with a small amount of carried state and labels every stroke
// up, down, or turning.
package course

import (
	"strings"
	"time"

	"github.com/oarlog/oarlog/pkg/telemetry"
)

// splitLayout parses the head unit's time-of-day splits. time.Parse accepts
// the trailing fractional seconds without them appearing in the layout.
const splitLayout = "15:04:05"

// Config holds the turn-detection tuning.
type Config struct {
	// RolloverMinute is the split minute above which a suspected turn
	// begins. Strokes stay suspect until the minute settles back at or
	// below it.
	RolloverMinute int `yaml:"rollover_minute"`

	// MinRun is the number of confirmed-leg strokes required since the
	// last transition before a rollover is trusted as a real turn. Shorter
	// runs are treated as noise and do not flip the leg.
	MinRun int `yaml:"min_run"`
}

// DefaultConfig returns the tuning for the standard 500m out-and-back
// course.
func DefaultConfig() Config {
	return Config{
		RolloverMinute: 12,
		MinRun:         8,
	}
}

// State is the scan state threaded across one session's strokes. It is
// session-scoped; never reuse it across sessions.
type State struct {
	// IsUp is the current confirmed leg.
	IsUp bool

	// PendingTransition is true while inside a suspected turn.
	PendingTransition bool

	// StrokesSinceTransition counts confirmed-leg strokes since the last
	// transition cleared.
	StrokesSinceTransition int
}

// NewState returns the state for the start of a session. The scan begins
// inside a pending transition, so the lead-in is labeled turning until the
// split minute first settles below the rollover threshold.
func NewState() State {
	return State{
		IsUp:              true,
		PendingTransition: true,
	}
}

// Next advances the scan by one stroke and labels it.
//
// An unparsable split leaves the state untouched and labels the stroke
// turning; the scan never fails mid-session. The stroke that closes a
// suspected turn is labeled with the confirmed leg and counts toward the
// next run.
func Next(s State, splitGPS string, cfg Config) (State, telemetry.Direction) {
	minute, err := SplitMinute(splitGPS)
	if err != nil {
		return s, telemetry.DirectionTurning
	}

	switch {
	case minute > cfg.RolloverMinute && !s.PendingTransition:
		s.PendingTransition = true

	case minute <= cfg.RolloverMinute && s.PendingTransition:
		if s.StrokesSinceTransition >= cfg.MinRun {
			s.IsUp = !s.IsUp
		}
		s.StrokesSinceTransition = 0
		s.PendingTransition = false
	}

	if s.PendingTransition {
		return s, telemetry.DirectionTurning
	}

	s.StrokesSinceTransition++
	if s.IsUp {
		return s, telemetry.DirectionUp
	}
	return s, telemetry.DirectionDown
}

// Label runs the full scan over one session's splits and returns a label
// per stroke, aligned by index.
func Label(splits []string, cfg Config) []telemetry.Direction {
	dirs := make([]telemetry.Direction, len(splits))
	s := NewState()
	for i, split := range splits {
		s, dirs[i] = Next(s, split, cfg)
	}
	return dirs
}

// SplitMinute extracts the minute component of a raw split value.
func SplitMinute(split string) (int, error) {
	t, err := time.Parse(splitLayout, strings.TrimSpace(split))
	if err != nil {
		return 0, err
	}
	return t.Minute(), nil
}
