package rowfilter

import (
	"sync"

	"github.com/google/cel-go/interpreter"

	"github.com/oarlog/oarlog/pkg/telemetry"
)

// rowActivation resolves filter variables straight off a stroke row, so an
// evaluation does not build a variable map. Missing numerics resolve to nil,
// which the interpreter adapts to CEL null.
type rowActivation struct {
	row telemetry.StrokeRow
}

func (a *rowActivation) ResolveName(name string) (any, bool) {
	switch name {
	case "sessionId":
		return a.row.SessionID, true
	case "direction":
		return a.row.Direction.String(), true
	case "splitGps":
		return a.row.SplitGPS, true
	case "distanceGps":
		if a.row.DistanceGPS == nil {
			return nil, true
		}
		return *a.row.DistanceGPS, true
	case "strokeRate":
		if a.row.StrokeRate == nil {
			return nil, true
		}
		return *a.row.StrokeRate, true
	case "extra":
		if a.row.Extra == nil {
			return map[string]string{}, true
		}
		return a.row.Extra, true
	}
	return nil, false
}

func (a *rowActivation) Parent() interpreter.Activation {
	return nil
}

var _ interpreter.Activation = (*rowActivation)(nil)

var activationPool = sync.Pool{
	New: func() any { return new(rowActivation) },
}
