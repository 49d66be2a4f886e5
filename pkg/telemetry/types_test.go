package telemetry

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestDirectionString(t *testing.T) {
	tests := []struct {
		dir  Direction
		want string
	}{
		{DirectionUp, "up"},
		{DirectionDown, "down"},
		{DirectionTurning, "turning"},
		{Direction(99), "unknown(99)"},
	}

	for _, tt := range tests {
		if got := tt.dir.String(); got != tt.want {
			t.Errorf("Direction(%d).String() = %q, want %q", int(tt.dir), got, tt.want)
		}
	}
}

func TestParseDirection(t *testing.T) {
	for _, d := range []Direction{DirectionUp, DirectionDown, DirectionTurning} {
		got, err := ParseDirection(d.String())
		if err != nil {
			t.Fatalf("ParseDirection(%q): %v", d.String(), err)
		}
		if got != d {
			t.Errorf("ParseDirection(%q) = %v, want %v", d.String(), got, d)
		}
	}

	if _, err := ParseDirection("sideways"); err == nil {
		t.Error("ParseDirection(\"sideways\") should fail")
	}
}

func TestDirectionJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(DirectionDown)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"down"` {
		t.Errorf("marshal = %s, want \"down\"", data)
	}

	var d Direction
	if err := json.Unmarshal(data, &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d != DirectionDown {
		t.Errorf("round trip = %v, want %v", d, DirectionDown)
	}
}

func TestDatasetAppendPreservesOrder(t *testing.T) {
	var ds Dataset
	ds.Append(Session{ID: "a", Rows: []StrokeRow{
		{SessionID: "a", SplitGPS: "00:02:01.00"},
		{SessionID: "a", SplitGPS: "00:02:02.00"},
	}})
	ds.Append(Session{ID: "b", Rows: []StrokeRow{
		{SessionID: "b", SplitGPS: "00:02:03.00"},
	}})

	if ds.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", ds.Len())
	}

	wantIDs := []string{"a", "b"}
	if got := ds.SessionIDs(); !reflect.DeepEqual(got, wantIDs) {
		t.Errorf("SessionIDs() = %v, want %v", got, wantIDs)
	}

	wantSplits := []string{"00:02:01.00", "00:02:02.00", "00:02:03.00"}
	for i, r := range ds.Rows {
		if r.SplitGPS != wantSplits[i] {
			t.Errorf("row %d split = %q, want %q", i, r.SplitGPS, wantSplits[i])
		}
	}
}

func TestDatasetExtraKeysSorted(t *testing.T) {
	ds := Dataset{Rows: []StrokeRow{
		{SessionID: "a", Extra: map[string]string{"Total Strokes": "1", "Interval": "1"}},
		{SessionID: "a", Extra: map[string]string{"Elapsed Time": "00:00:02.9"}},
	}}

	want := []string{"Elapsed Time", "Interval", "Total Strokes"}
	if got := ds.ExtraKeys(); !reflect.DeepEqual(got, want) {
		t.Errorf("ExtraKeys() = %v, want %v", got, want)
	}
}
