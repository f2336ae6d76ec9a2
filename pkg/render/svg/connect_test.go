package svg

import (
	"testing"

	"github.com/matzehuels/c4x/pkg/layout"
)

func TestConnect_DirectionalBias(t *testing.T) {
	tests := []struct {
		name       string
		from, to   layout.Rect
		start, end layout.Point
	}{
		{
			name:  "below",
			from:  layout.Rect{X: 100, Y: 100, Width: 200, Height: 100},
			to:    layout.Rect{X: 100, Y: 320, Width: 200, Height: 100},
			start: layout.Point{X: 200, Y: 205},
			end:   layout.Point{X: 200, Y: 315},
		},
		{
			name:  "above",
			from:  layout.Rect{X: 100, Y: 320, Width: 200, Height: 100},
			to:    layout.Rect{X: 100, Y: 100, Width: 200, Height: 100},
			start: layout.Point{X: 200, Y: 315},
			end:   layout.Point{X: 200, Y: 205},
		},
		{
			name:  "right",
			from:  layout.Rect{X: 100, Y: 100, Width: 200, Height: 100},
			to:    layout.Rect{X: 420, Y: 100, Width: 200, Height: 100},
			start: layout.Point{X: 305, Y: 150},
			end:   layout.Point{X: 415, Y: 150},
		},
		{
			name:  "left",
			from:  layout.Rect{X: 420, Y: 100, Width: 200, Height: 100},
			to:    layout.Rect{X: 100, Y: 100, Width: 200, Height: 100},
			start: layout.Point{X: 415, Y: 150},
			end:   layout.Point{X: 305, Y: 150},
		},
		{
			// Diagonal: below wins over right because it is tested first.
			name:  "below beats right",
			from:  layout.Rect{X: 0, Y: 0, Width: 100, Height: 100},
			to:    layout.Rect{X: 400, Y: 120, Width: 100, Height: 100},
			start: layout.Point{X: 50, Y: 105},
			end:   layout.Point{X: 450, Y: 115},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, mid := connect(tt.from, tt.to)
			if start != tt.start || end != tt.end {
				t.Errorf("connect() = %v -> %v, want %v -> %v", start, end, tt.start, tt.end)
			}
			want := layout.Point{X: (tt.start.X + tt.end.X) / 2, Y: (tt.start.Y + tt.end.Y) / 2}
			if mid != want {
				t.Errorf("mid = %v, want %v", mid, want)
			}
		})
	}
}

func TestConnect_OverlappingBoxes(t *testing.T) {
	a := layout.Rect{X: 0, Y: 0, Width: 100, Height: 100}
	b := layout.Rect{X: 50, Y: 50, Width: 100, Height: 100}
	if f, tSide := preferredSides(a, b); f != sideNone || tSide != sideNone {
		t.Errorf("preferredSides() = %v, %v, want none", f, tSide)
	}
	start, end, _ := connect(a, b)
	// Nearest pair without bias: a's right (105,50) to b's top (100,45).
	if start != (layout.Point{X: 105, Y: 50}) || end != (layout.Point{X: 100, Y: 45}) {
		t.Errorf("connect() = %v -> %v", start, end)
	}
}

func TestSelfLoop(t *testing.T) {
	r := layout.Rect{X: 0, Y: 0, Width: 100, Height: 100}
	curve, mid := selfLoop(r)
	want := [4]layout.Point{{X: 105, Y: 30}, {X: 145, Y: 10}, {X: 145, Y: 90}, {X: 105, Y: 70}}
	if curve != want {
		t.Errorf("selfLoop() curve = %v, want %v", curve, want)
	}
	if mid != (layout.Point{X: 135, Y: 50}) {
		t.Errorf("selfLoop() mid = %v, want (135, 50)", mid)
	}
	if curve[0] == curve[3] {
		t.Error("self loop starts and ends at the same point")
	}
}
