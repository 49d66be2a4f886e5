package clean

import (
	"reflect"
	"testing"

	"github.com/oarlog/oarlog/pkg/telemetry"
)

// row builds a stroke row from optional distance and rate values, nil for
// missing.
func row(dist, rate *float64) telemetry.StrokeRow {
	return telemetry.StrokeRow{
		SessionID:   "s",
		Direction:   telemetry.DirectionUp,
		DistanceGPS: dist,
		StrokeRate:  rate,
	}
}

func f(v float64) *float64 { return telemetry.Float(v) }

func TestParseOptionalNumber(t *testing.T) {
	tests := []struct {
		in   string
		want *float64
	}{
		{"18.5", f(18.5)},
		{" 18.5 ", f(18.5)},
		{"0", f(0)},
		{"-3.2", f(-3.2)},
		{"", nil},
		{"---", nil},
		{"1:23.4", nil},
		{"NaN", nil},
		{"+Inf", nil},
	}

	for _, tt := range tests {
		got := ParseOptionalNumber(tt.in)
		switch {
		case tt.want == nil && got != nil:
			t.Errorf("ParseOptionalNumber(%q) = %v, want nil", tt.in, *got)
		case tt.want != nil && got == nil:
			t.Errorf("ParseOptionalNumber(%q) = nil, want %v", tt.in, *tt.want)
		case tt.want != nil && got != nil && *got != *tt.want:
			t.Errorf("ParseOptionalNumber(%q) = %v, want %v", tt.in, *got, *tt.want)
		}
	}
}

func TestSanitizeDistanceJump(t *testing.T) {
	rows := []telemetry.StrokeRow{
		row(f(0), f(20)),
		row(f(10), f(20)),
		row(f(20), f(20)),
		row(f(500), f(20)),
		row(f(30), f(20)),
	}

	Sanitize(rows, DefaultConfig())

	for i, wantNull := range []bool{false, false, false, true, false} {
		gotNull := rows[i].DistanceGPS == nil
		if gotNull != wantNull {
			t.Errorf("row %d distance nulled = %v, want %v", i, gotNull, wantNull)
		}
		if (rows[i].StrokeRate == nil) != wantNull {
			t.Errorf("row %d rate nulled = %v, want %v", i, rows[i].StrokeRate == nil, wantNull)
		}
	}

	// neighbors keep their values
	if *rows[2].DistanceGPS != 20 || *rows[4].DistanceGPS != 30 {
		t.Errorf("neighbor distances disturbed: %v, %v", rows[2].DistanceGPS, rows[4].DistanceGPS)
	}
}

func TestSanitizeJumpsMeasuredOnValuesAsRead(t *testing.T) {
	// Both 500 and 630 exceed the jump threshold against their original
	// neighbors; nulling the first must not hide the second.
	rows := []telemetry.StrokeRow{
		row(f(0), f(20)),
		row(f(10), f(20)),
		row(f(20), f(20)),
		row(f(500), f(20)),
		row(f(630), f(20)),
	}

	Sanitize(rows, DefaultConfig())

	if rows[3].DistanceGPS != nil || rows[4].DistanceGPS != nil {
		t.Errorf("rows 3 and 4 should both be nulled: %v, %v", rows[3].DistanceGPS, rows[4].DistanceGPS)
	}
	if rows[2].DistanceGPS == nil {
		t.Error("row 2 should be untouched")
	}
}

func TestSanitizeNegativeJumpKept(t *testing.T) {
	// The split reset makes distance drop back at interval boundaries;
	// only forward jumps are dropout.
	rows := []telemetry.StrokeRow{
		row(f(480), f(20)),
		row(f(490), f(20)),
		row(f(5), f(20)),
	}

	Sanitize(rows, DefaultConfig())

	for i := range rows {
		if rows[i].DistanceGPS == nil {
			t.Errorf("row %d should be untouched", i)
		}
	}
}

func TestSanitizeStrokeRateBounds(t *testing.T) {
	tests := []struct {
		name     string
		rate     float64
		wantNull bool
	}{
		{"below minimum", 9, true},
		{"at minimum", 10, false},
		{"at maximum", 34, false},
		{"above maximum", 35, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := []telemetry.StrokeRow{row(f(10), f(tt.rate))}
			Sanitize(rows, DefaultConfig())

			gotNull := rows[0].StrokeRate == nil
			if gotNull != tt.wantNull {
				t.Errorf("rate %v nulled = %v, want %v", tt.rate, gotNull, tt.wantNull)
			}
			if (rows[0].DistanceGPS == nil) != tt.wantNull {
				t.Errorf("rate %v distance nulled = %v, want %v", tt.rate, rows[0].DistanceGPS == nil, tt.wantNull)
			}
		})
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	rows := []telemetry.StrokeRow{
		row(f(0), f(20)),
		row(f(10), f(9)),
		row(f(500), f(20)),
		row(f(510), nil),
		row(nil, f(22)),
	}

	Sanitize(rows, DefaultConfig())
	once := make([]telemetry.StrokeRow, len(rows))
	copy(once, rows)

	Sanitize(rows, DefaultConfig())
	if !reflect.DeepEqual(rows, once) {
		t.Errorf("second pass changed rows:\n once: %+v\ntwice: %+v", once, rows)
	}
}

func TestSanitizeKeepsRowCountAndPassthrough(t *testing.T) {
	rows := []telemetry.StrokeRow{
		{SessionID: "s", DistanceGPS: f(0), StrokeRate: f(50), Extra: map[string]string{"Total Strokes": "1"}},
		{SessionID: "s", DistanceGPS: f(7), StrokeRate: f(21), Extra: map[string]string{"Total Strokes": "2"}},
	}

	Sanitize(rows, DefaultConfig())

	if len(rows) != 2 {
		t.Fatalf("row count = %d, want 2", len(rows))
	}
	if rows[0].StrokeRate != nil {
		t.Error("rate 50 should be nulled")
	}
	if rows[0].Extra["Total Strokes"] != "1" {
		t.Error("passthrough fields must survive sanitizing")
	}
}
