package slot

import (
	"encoding/json"
	"testing"
)

func TestLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		slot int
		want string
	}{
		{0, "8am"},
		{1, "8:30am"},
		{5, "10:30am"},
		{8, "12pm"},
		{9, "12:30pm"},
		{10, "1pm"},
		{17, "4:30pm"},
		{18, "5pm"},
	}

	for _, tc := range tests {
		if got := Label(tc.slot); got != tc.want {
			t.Fatalf("Label(%d): expected %q, got %q", tc.slot, tc.want, got)
		}
	}
}

func TestRangeLabel(t *testing.T) {
	t.Parallel()

	if got := RangeLabel(5, 2); got != "10:30am - 11:30am" {
		t.Fatalf("expected 10:30am - 11:30am, got %q", got)
	}
}

func TestSlotsForMinutes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		minutes int
		want    int
	}{
		{0, 1},
		{15, 1},
		{30, 1},
		{45, 2},
		{60, 2},
		{61, 3},
		{540, 18},
	}
	for _, tc := range tests {
		if got := SlotsForMinutes(tc.minutes); got != tc.want {
			t.Fatalf("SlotsForMinutes(%d): expected %d, got %d", tc.minutes, tc.want, got)
		}
	}
}

func TestClampDuration(t *testing.T) {
	t.Parallel()

	if got := ClampDuration(16, 4); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if got := ClampDuration(0, 4); got != 4 {
		t.Fatalf("expected 4, got %d", got)
	}
}

func TestDate(t *testing.T) {
	t.Parallel()

	d, err := ParseDate("2025-03-09")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if d.String() != "2025-03-09" {
		t.Fatalf("expected 2025-03-09, got %s", d)
	}
	if next := d.AddDays(23); next.String() != "2025-04-01" {
		t.Fatalf("expected 2025-04-01, got %s", next)
	}
	if !d.Before(d.AddDays(1)) {
		t.Fatalf("expected date to be before the next day")
	}

	if _, err := ParseDate("09/03/2025"); err == nil {
		t.Fatalf("expected error for malformed date")
	}

	var payload struct {
		Date Date `json:"date"`
	}
	if err := json.Unmarshal([]byte(`{"date":"2025-12-31"}`), &payload); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if payload.Date != (Date{Year: 2025, Month: 12, Day: 31}) {
		t.Fatalf("unexpected date %v", payload.Date)
	}

	out, _ := json.Marshal(payload)
	if string(out) != `{"date":"2025-12-31"}` {
		t.Fatalf("unexpected json %s", out)
	}

	t.Run("zero value", func(t *testing.T) {
		t.Parallel()

		var zero struct {
			Date Date `json:"date"`
		}
		out, err := json.Marshal(zero)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if string(out) != `{"date":""}` {
			t.Fatalf("expected empty date, got %s", out)
		}

		decoded := struct {
			Date Date `json:"date"`
		}{Date: Date{Year: 2025, Month: 1, Day: 1}}
		if err := json.Unmarshal(out, &decoded); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !decoded.Date.IsZero() {
			t.Fatalf("expected zero date, got %v", decoded.Date)
		}

		var d Date
		if err := d.UnmarshalText([]byte("null")); err != nil || !d.IsZero() {
			t.Fatalf("expected null to decode as zero date, got %v (%v)", d, err)
		}
	})
}

func TestKeyIsComparable(t *testing.T) {
	t.Parallel()

	d, _ := ParseDate("2025-01-01")
	m := map[Key]int{KeyOf(ViewPrinters, d, 2, 4): 1}
	if m[Key{View: ViewPrinters, Date: Date{Year: 2025, Month: 1, Day: 1}, Line: 2, Slot: 4}] != 1 {
		t.Fatalf("expected composite key lookup to match")
	}
}
