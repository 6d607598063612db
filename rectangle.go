package stagecore

import "math"

// Rectangle is an axis-aligned box in stage or object space. The coordinate
// system has +Y up, so Bottom <= Top.
type Rectangle struct {
	Left, Right, Bottom, Top float64
}

// RectFromPoints returns the smallest rectangle containing every point.
// An empty slice yields the zero rectangle.
func RectFromPoints(points []Vec2) Rectangle {
	if len(points) == 0 {
		return Rectangle{}
	}
	r := Rectangle{
		Left:   math.Inf(1),
		Right:  math.Inf(-1),
		Bottom: math.Inf(1),
		Top:    math.Inf(-1),
	}
	for _, p := range points {
		r.Left = math.Min(r.Left, p.X)
		r.Right = math.Max(r.Right, p.X)
		r.Bottom = math.Min(r.Bottom, p.Y)
		r.Top = math.Max(r.Top, p.Y)
	}
	return r
}

// Width returns Right - Left.
func (r Rectangle) Width() float64 { return r.Right - r.Left }

// Height returns Top - Bottom.
func (r Rectangle) Height() float64 { return r.Top - r.Bottom }

// Intersects reports whether r and other overlap.
// Rectangles sharing only an edge are considered intersecting.
func (r Rectangle) Intersects(other Rectangle) bool {
	return r.Left <= other.Right && other.Left <= r.Right &&
		r.Top >= other.Bottom && other.Top >= r.Bottom
}

// Contains reports whether other lies entirely inside r.
func (r Rectangle) Contains(other Rectangle) bool {
	return other.Left > r.Left && other.Right < r.Right &&
		other.Top < r.Top && other.Bottom > r.Bottom
}

// Intersect returns the overlap of r and other. The result may be inverted
// (Left > Right) when they do not intersect; check Intersects first.
func (r Rectangle) Intersect(other Rectangle) Rectangle {
	return Rectangle{
		Left:   math.Max(r.Left, other.Left),
		Right:  math.Min(r.Right, other.Right),
		Bottom: math.Max(r.Bottom, other.Bottom),
		Top:    math.Min(r.Top, other.Top),
	}
}

// Union returns the smallest rectangle containing both r and other.
func (r Rectangle) Union(other Rectangle) Rectangle {
	return Rectangle{
		Left:   math.Min(r.Left, other.Left),
		Right:  math.Max(r.Right, other.Right),
		Bottom: math.Min(r.Bottom, other.Bottom),
		Top:    math.Max(r.Top, other.Top),
	}
}

// SnapToInt pushes every edge outward to the nearest integer.
func (r Rectangle) SnapToInt() Rectangle {
	return Rectangle{
		Left:   math.Floor(r.Left),
		Right:  math.Ceil(r.Right),
		Bottom: math.Floor(r.Bottom),
		Top:    math.Ceil(r.Top),
	}
}

// Clamp limits r to the given bounds while keeping Left <= Right and
// Bottom <= Top.
func (r Rectangle) Clamp(left, right, bottom, top float64) Rectangle {
	r.Left = math.Max(r.Left, left)
	r.Right = math.Min(r.Right, right)
	r.Bottom = math.Max(r.Bottom, bottom)
	r.Top = math.Min(r.Top, top)

	r.Left = math.Min(r.Left, right)
	r.Right = math.Max(r.Right, left)
	r.Bottom = math.Min(r.Bottom, top)
	r.Top = math.Max(r.Top, bottom)
	return r
}
