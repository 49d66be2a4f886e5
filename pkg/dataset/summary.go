package dataset

import (
	"github.com/oarlog/oarlog/pkg/telemetry"
)

// Summary aggregates one session and leg slice of a dataset.
type Summary struct {
	SessionID string
	Direction telemetry.Direction

	// Rows is the number of strokes on this leg.
	Rows int

	// MissingRows counts strokes whose numerics are nulled, whether the
	// device never produced them or the sanitizer took them out.
	MissingRows int

	// AvgStrokeRate is the mean over present stroke rates, 0 when none.
	AvgStrokeRate float64
}

// Summarize rolls a dataset up per session and direction, groups ordered
// by first appearance.
func Summarize(ds *telemetry.Dataset) []Summary {
	type acc struct {
		index   int
		rows    int
		missing int
		rateSum float64
		rateN   int
	}

	type key struct {
		session   string
		direction telemetry.Direction
	}

	groups := make(map[key]*acc)
	var order []key

	for _, row := range ds.Rows {
		k := key{row.SessionID, row.Direction}
		g, ok := groups[k]
		if !ok {
			g = &acc{index: len(order)}
			groups[k] = g
			order = append(order, k)
		}

		g.rows++
		if row.StrokeRate == nil || row.DistanceGPS == nil {
			g.missing++
		}
		if row.StrokeRate != nil {
			g.rateSum += *row.StrokeRate
			g.rateN++
		}
	}

	out := make([]Summary, len(order))
	for _, k := range order {
		g := groups[k]
		s := Summary{
			SessionID:   k.session,
			Direction:   k.direction,
			Rows:        g.rows,
			MissingRows: g.missing,
		}
		if g.rateN > 0 {
			s.AvgStrokeRate = g.rateSum / float64(g.rateN)
		}
		out[g.index] = s
	}
	return out
}
