package stagecore

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// composeTransform builds the texel-to-stage matrix of a drawable.
// Returns [a, b, c, d, tx, ty].
//
// Composition order:
//
//	Translate(-center) -> Scale(skinScale) -> Rotate(sin, cos) -> Translate(position)
func composeTransform(position Vec2, sin, cos float64, skinScale, center Vec2) [6]float64 {
	a := cos * skinScale.X
	b := sin * skinScale.X
	c := -sin * skinScale.Y
	d := cos * skinScale.Y
	return [6]float64{
		a, b, c, d,
		position.X - (a*center.X + c*center.Y),
		position.Y - (b*center.X + d*center.Y),
	}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular (determinant ≈ 0).
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// transformPoints writes m applied to every point of src into dst, growing
// dst as needed, and returns it.
func transformPoints(m [6]float64, src, dst []Vec2) []Vec2 {
	dst = dst[:0]
	for _, p := range src {
		x, y := transformPoint(m, p.X, p.Y)
		dst = append(dst, Vec2{x, y})
	}
	return dst
}

// directionRadians converts a direction in degrees (90 = facing right,
// 0 = facing up) into a counter-clockwise stage rotation.
func directionRadians(direction float64) float64 {
	return (90 - direction) * math.Pi / 180
}
