package grid

import "testing"

func TestRectFromPointsNormalizes(t *testing.T) {
	down := RectFromPoints(Point{X: 10, Y: 20}, Point{X: 110, Y: 220})
	up := RectFromPoints(Point{X: 110, Y: 220}, Point{X: 10, Y: 20})
	if down != up {
		t.Errorf("drag direction changed the rect: %+v vs %+v", down, up)
	}
	if down.Width() != 100 || down.Height() != 200 {
		t.Errorf("rect size = %vx%v, want 100x200", down.Width(), down.Height())
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{MinX: 0, MinY: 0, MaxX: 100, MaxY: 50}

	tests := []struct {
		p    Point
		want bool
	}{
		{Point{X: 50, Y: 25}, true},
		{Point{X: 0, Y: 0}, true},     // corner counts as inside
		{Point{X: 100, Y: 50}, true},  // opposite corner too
		{Point{X: 100.1, Y: 25}, false},
		{Point{X: 50, Y: -1}, false},
	}

	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%+v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestRectIntersects(t *testing.T) {
	r := Rect{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}

	tests := []struct {
		s    Rect
		want bool
	}{
		{Rect{MinX: 50, MinY: 50, MaxX: 150, MaxY: 150}, true},
		{Rect{MinX: 100, MinY: 0, MaxX: 200, MaxY: 100}, true}, // shared edge
		{Rect{MinX: 101, MinY: 0, MaxX: 200, MaxY: 100}, false},
		{Rect{MinX: 25, MinY: 25, MaxX: 75, MaxY: 75}, true}, // contained
		{Rect{MinX: -50, MinY: -50, MaxX: -1, MaxY: -1}, false},
	}

	for _, tt := range tests {
		if got := r.Intersects(tt.s); got != tt.want {
			t.Errorf("Intersects(%+v) = %v, want %v", tt.s, got, tt.want)
		}
		// Intersection is symmetric.
		if got := tt.s.Intersects(r); got != tt.want {
			t.Errorf("Intersects reversed (%+v) = %v, want %v", tt.s, got, tt.want)
		}
	}
}

func TestPointDist(t *testing.T) {
	a := Point{X: 0, Y: 0}
	b := Point{X: 3, Y: 4}
	if got := a.Dist(b); got != 5 {
		t.Errorf("Dist = %v, want 5", got)
	}
	if got := b.Sub(a); got != (Point{X: 3, Y: 4}) {
		t.Errorf("Sub = %+v, want {3 4}", got)
	}
}
