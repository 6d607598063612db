package stagecore

import "image/color"

// DrawableID identifies a Drawable for its whole lifetime.
type DrawableID int32

// SkinID identifies a Skin for its whole lifetime.
type SkinID int32

// IDNone is returned by queries that found no drawable (and by failed
// creations).
const IDNone = -1

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default stage background.
var ColorWhite = Color{1, 1, 1, 1}

// RGB3b returns the color as three bytes, dropping alpha.
func (c Color) RGB3b() RGB {
	return RGB{clampByte(c.R * 255), clampByte(c.G * 255), clampByte(c.B * 255)}
}

// toRGBA converts to an image/color value for Ebitengine fills.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: clampByte(c.R * c.A * 255),
		G: clampByte(c.G * c.A * 255),
		B: clampByte(c.B * c.A * 255),
		A: clampByte(c.A * 255),
	}
}

// RGB is a color as three bytes, the unit of color touching queries.
type RGB [3]uint8

// RGBA8 is a premultiplied RGBA color as four bytes. Samples are returned by
// value so callers never share a scratch buffer.
type RGBA8 [4]uint8

// Vec2 is a 2D vector used for positions, sizes, scales and centers.
type Vec2 struct {
	X, Y float64
}

// clampByte rounds v to the nearest integer and clamps it to [0, 255].
func clampByte(v float64) uint8 {
	if v <= 0 || v != v {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// colorMatches compares colors with the legacy touching tolerance: top five
// bits of red and green, top four bits of blue.
func colorMatches(a, b RGB) bool {
	return a[0]&0b11111000 == b[0]&0b11111000 &&
		a[1]&0b11111000 == b[1]&0b11111000 &&
		a[2]&0b11110000 == b[2]&0b11110000
}

// maskMatches reports whether a sampled color belongs to a mask color: top
// six bits of every channel and a non-zero alpha.
func maskMatches(a RGBA8, b RGB) bool {
	return a[3] > 0 &&
		a[0]&0b11111100 == b[0]&0b11111100 &&
		a[1]&0b11111100 == b[1]&0b11111100 &&
		a[2]&0b11111100 == b[2]&0b11111100
}
