package stagecore

import "testing"

func TestRectFromPoints(t *testing.T) {
	r := RectFromPoints([]Vec2{{1, 5}, {-3, 2}, {4, -1}})
	assertRect(t, "rect", r, Rectangle{Left: -3, Right: 4, Bottom: -1, Top: 5})
	assertRect(t, "empty", RectFromPoints(nil), Rectangle{})
}

func TestRectangleIntersects(t *testing.T) {
	a := Rectangle{Left: 0, Right: 10, Bottom: 0, Top: 10}
	tests := []struct {
		name string
		b    Rectangle
		want bool
	}{
		{"overlap", Rectangle{Left: 5, Right: 15, Bottom: 5, Top: 15}, true},
		{"shared edge", Rectangle{Left: 10, Right: 20, Bottom: 0, Top: 10}, true},
		{"apart", Rectangle{Left: 11, Right: 20, Bottom: 0, Top: 10}, false},
		{"above", Rectangle{Left: 0, Right: 10, Bottom: 11, Top: 20}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectangleIntersectUnion(t *testing.T) {
	a := Rectangle{Left: 0, Right: 10, Bottom: 0, Top: 10}
	b := Rectangle{Left: 5, Right: 15, Bottom: -5, Top: 5}
	assertRect(t, "intersect", a.Intersect(b), Rectangle{Left: 5, Right: 10, Bottom: 0, Top: 5})
	assertRect(t, "union", a.Union(b), Rectangle{Left: 0, Right: 15, Bottom: -5, Top: 10})
}

func TestRectangleSnapToInt(t *testing.T) {
	r := Rectangle{Left: -0.5, Right: 2.1, Bottom: -3.9, Top: 4.0}.SnapToInt()
	assertRect(t, "snap", r, Rectangle{Left: -1, Right: 3, Bottom: -4, Top: 4})
}

func TestRectangleClamp(t *testing.T) {
	r := Rectangle{Left: -300, Right: 300, Bottom: -10, Top: 10}.Clamp(-240, 240, -180, 180)
	assertRect(t, "clamp", r, Rectangle{Left: -240, Right: 240, Bottom: -10, Top: 10})
}

func TestRectangleClampOffStage(t *testing.T) {
	r := Rectangle{Left: 300, Right: 320, Bottom: 0, Top: 10}.Clamp(-240, 240, -180, 180)
	if r.Width() != 0 {
		t.Errorf("off-stage width = %v, want 0", r.Width())
	}
}

func TestRectangleContains(t *testing.T) {
	outer := Rectangle{Left: 0, Right: 10, Bottom: 0, Top: 10}
	if !outer.Contains(Rectangle{Left: 1, Right: 9, Bottom: 1, Top: 9}) {
		t.Error("expected inner rectangle to be contained")
	}
	if outer.Contains(outer) {
		t.Error("containment is strict")
	}
}
