package interaction

import "testing"

func TestGridMapper_SlotAt(t *testing.T) {
	t.Parallel()

	grid := Rect{Top: 100, Height: 720}
	tests := []struct {
		name string
		y    float64
		want int
	}{
		{"top edge", 100, 0},
		{"inside first row", 139.9, 0},
		{"second row", 140, 1},
		{"middle", 100 + 40*9 + 5, 9},
		{"last row", 819, 17},
		{"above grid clamps to first", 20, 0},
		{"below grid clamps to last", 2000, 17},
	}

	var m GridMapper
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := m.SlotAt(tt.y, grid, 18); got != tt.want {
				t.Fatalf("expected slot %d, got %d", tt.want, got)
			}
		})
	}

	t.Run("degenerate grid", func(t *testing.T) {
		t.Parallel()
		if got := m.SlotAt(50, Rect{}, 18); got != 0 {
			t.Fatalf("expected slot 0, got %d", got)
		}
	})
}
