package scheduler

import (
	"math/rand"
	"testing"

	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/slot"
)

func TestIsOccupied(t *testing.T) {
	t.Parallel()

	blockers := []Interval{
		{Owner: "A", Start: 4, Duration: 2},
		{Owner: "bookout:1", Start: 10, Duration: 2},
	}

	tests := []struct {
		name     string
		start    int
		duration int
		exclude  string
		want     bool
	}{
		{name: "free window", start: 0, duration: 4, want: false},
		{name: "overlaps tail", start: 3, duration: 2, want: true},
		{name: "adjacent after", start: 6, duration: 4, want: false},
		{name: "overlaps book out", start: 9, duration: 2, want: true},
		{name: "exclude self", start: 4, duration: 2, exclude: "A", want: false},
		{name: "exclude self still hits book out", start: 4, duration: 7, exclude: "A", want: true},
		{name: "past end of day", start: 17, duration: 2, want: true},
		{name: "negative start", start: -1, duration: 1, want: true},
		{name: "zero duration", start: 0, duration: 0, want: true},
		{name: "last slot", start: 17, duration: 1, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsOccupied(blockers, tc.start, tc.duration, tc.exclude); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestFindNextAvailable(t *testing.T) {
	t.Parallel()

	t.Run("forward from occupied slot", func(t *testing.T) {
		blockers := []Interval{{Owner: "A", Start: 2, Duration: 2}}
		got, ok := FindNextAvailable(blockers, 2, 2, "B")
		if !ok || got != 4 {
			t.Fatalf("expected slot 4, got %d (ok=%v)", got, ok)
		}
	})

	t.Run("skips book out window forward first", func(t *testing.T) {
		blockers := []Interval{{Owner: "bookout:x", Start: 10, Duration: 2}}
		got, ok := FindNextAvailable(blockers, 10, 2, "")
		if !ok || got != 12 {
			t.Fatalf("expected slot 12, got %d (ok=%v)", got, ok)
		}
	})

	t.Run("falls back to backward scan", func(t *testing.T) {
		blockers := []Interval{{Owner: "A", Start: 12, Duration: 6}}
		got, ok := FindNextAvailable(blockers, 12, 2, "")
		if !ok || got != 10 {
			t.Fatalf("expected slot 10, got %d (ok=%v)", got, ok)
		}
	})

	t.Run("start beyond last window scans backward", func(t *testing.T) {
		got, ok := FindNextAvailable(nil, 17, 4, "")
		if !ok || got != 14 {
			t.Fatalf("expected slot 14, got %d (ok=%v)", got, ok)
		}
	})

	t.Run("no window of that size", func(t *testing.T) {
		blockers := []Interval{
			{Owner: "A", Start: 0, Duration: 5},
			{Owner: "B", Start: 6, Duration: 5},
			{Owner: "C", Start: 12, Duration: 6},
		}
		if _, ok := FindNextAvailable(blockers, 0, 2, ""); ok {
			t.Fatalf("expected no slot")
		}
		got, ok := FindNextAvailable(blockers, 0, 1, "")
		if !ok || got != 5 {
			t.Fatalf("expected slot 5, got %d (ok=%v)", got, ok)
		}
	})

	t.Run("exclude self keeps current slot", func(t *testing.T) {
		blockers := []Interval{{Owner: "A", Start: 4, Duration: 2}}
		got, ok := FindNextAvailable(blockers, 4, 2, "A")
		if !ok || got != 4 {
			t.Fatalf("expected slot 4, got %d (ok=%v)", got, ok)
		}
	})

	t.Run("duration longer than the day", func(t *testing.T) {
		if _, ok := FindNextAvailable(nil, 0, slot.PerDay+1, ""); ok {
			t.Fatalf("expected no slot")
		}
	})
}

// 随机生成占用，校验返回值要么是空闲位置，要么确实不存在空闲位置
func TestFindNextAvailable_Random(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewSource(42))
	for round := 0; round < 500; round++ {
		var blockers []Interval
		cursor := 0
		for cursor < slot.PerDay {
			cursor += r.Intn(3)
			d := 1 + r.Intn(4)
			if cursor+d > slot.PerDay {
				break
			}
			blockers = append(blockers, Interval{Owner: "x", Start: cursor, Duration: d})
			cursor += d
		}

		duration := 1 + r.Intn(5)
		start := r.Intn(slot.PerDay)
		got, ok := FindNextAvailable(blockers, start, duration, "")

		exists := false
		for s := 0; s <= slot.PerDay-duration; s++ {
			if !IsOccupied(blockers, s, duration, "") {
				exists = true
				break
			}
		}

		if ok != exists {
			t.Fatalf("round %d: expected found=%v, got %v", round, exists, ok)
		}
		if ok && IsOccupied(blockers, got, duration, "") {
			t.Fatalf("round %d: returned slot %d is occupied", round, got)
		}
	}
}
