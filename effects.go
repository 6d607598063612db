package stagecore

import (
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Effect names a graphic effect a drawable can carry.
type Effect uint8

const (
	EffectColor      Effect = iota // hue rotation
	EffectFisheye                  // radial bulge/pinch of texture space
	EffectWhirl                    // swirl around the texture center
	EffectPixelate                 // snap texture space to coarse cells
	EffectMosaic                   // tile the texture
	EffectBrightness               // add to RGB
	EffectGhost                    // fade alpha

	effectCount
)

var effectNames = [effectCount]string{
	EffectColor:      "color",
	EffectFisheye:    "fisheye",
	EffectWhirl:      "whirl",
	EffectPixelate:   "pixelate",
	EffectMosaic:     "mosaic",
	EffectBrightness: "brightness",
	EffectGhost:      "ghost",
}

// String returns the effect's host-facing name.
func (e Effect) String() string {
	if e < effectCount {
		return effectNames[e]
	}
	return "unknown"
}

// ParseEffect looks up an effect by name, case-insensitively.
func ParseEffect(name string) (Effect, bool) {
	for e, n := range effectNames {
		if strings.EqualFold(n, name) {
			return Effect(e), true
		}
	}
	return 0, false
}

// EffectMask is a bitmask of enabled effects, one bit per Effect.
type EffectMask uint16

// Mask returns the bit for e.
func (e Effect) Mask() EffectMask { return 1 << e }

const (
	// EffectMaskAll has every effect bit set.
	EffectMaskAll EffectMask = 1<<effectCount - 1

	// distortionMask covers the effects that move texture coordinates and so
	// change the silhouette shape.
	distortionMask = 1<<EffectFisheye | 1<<EffectWhirl | 1<<EffectPixelate | 1<<EffectMosaic
)

// ShapeChanging reports whether the effect alters the sampled silhouette.
func (e Effect) ShapeChanging() bool {
	return e.Mask()&distortionMask != 0
}

// effectDefaults are the applied values for a raw value of zero.
var effectDefaults = [effectCount]float64{
	EffectColor:      0,
	EffectFisheye:    1,
	EffectWhirl:      0,
	EffectPixelate:   0,
	EffectMosaic:     1,
	EffectBrightness: 0,
	EffectGhost:      1,
}

// convertEffect maps a raw host value (commonly -100..100 or 0..100) onto the
// value the color and point transforms consume.
func convertEffect(e Effect, x float64) float64 {
	switch e {
	case EffectColor:
		return math.Mod(x/200, 1)
	case EffectFisheye:
		return math.Max(0, (x+100)/100)
	case EffectWhirl:
		return -x * math.Pi / 180
	case EffectPixelate:
		return math.Abs(x) / 10
	case EffectMosaic:
		return clamp(math.Round((math.Abs(x)+10)/10), 1, 512)
	case EffectBrightness:
		return clamp(x, -100, 100) / 100
	case EffectGhost:
		return 1 - clamp(x, 0, 100)/100
	}
	return 0
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Minimum value and saturation the color effect forces on grey or near-black
// pixels so a hue change stays visible.
const (
	colorEffectMinValue      = 0.11 / 2
	colorEffectMinSaturation = 0.09
)

// transformColor applies the color, brightness and ghost effects enabled in
// effects to a premultiplied sample. values holds the applied effect values.
func transformColor(c RGBA8, effects EffectMask, values *[effectCount]float64) RGBA8 {
	if c[3] == 0 {
		return c
	}
	enableColor := effects&EffectColor.Mask() != 0
	enableBrightness := effects&EffectBrightness.Mask() != 0

	if enableColor || enableBrightness {
		alpha := float64(c[3]) / 255
		rgb := colorful.Color{
			R: float64(c[0]) / 255 / alpha,
			G: float64(c[1]) / 255 / alpha,
			B: float64(c[2]) / 255 / alpha,
		}.Clamped()

		if enableColor {
			h, s, v := rgb.Hsv()
			h /= 360
			if v < colorEffectMinValue {
				h, s, v = 0, 1, colorEffectMinValue
			} else if s < colorEffectMinSaturation {
				h, s = 0, colorEffectMinSaturation
			}
			h = math.Mod(h+values[EffectColor]+1, 1)
			rgb = colorful.Hsv(h*360, s, v)
		}
		if enableBrightness {
			b := values[EffectBrightness]
			rgb = colorful.Color{R: rgb.R + b, G: rgb.G + b, B: rgb.B + b}.Clamped()
		}

		c[0] = clampByte(rgb.R * alpha * 255)
		c[1] = clampByte(rgb.G * alpha * 255)
		c[2] = clampByte(rgb.B * alpha * 255)
	}

	if effects&EffectGhost.Mask() != 0 {
		g := values[EffectGhost]
		c[0] = clampByte(float64(c[0]) * g)
		c[1] = clampByte(float64(c[1]) * g)
		c[2] = clampByte(float64(c[2]) * g)
		c[3] = clampByte(float64(c[3]) * g)
	}
	return c
}

// transformTexturePoint applies the distortion effects enabled in effects to a
// normalized texture coordinate. skinSize is the native skin size, used for
// pixelate cells.
func transformTexturePoint(u, v float64, effects EffectMask, values *[effectCount]float64, skinSize Vec2) (float64, float64) {
	const center = 0.5

	if effects&EffectMosaic.Mask() != 0 {
		m := values[EffectMosaic]
		u = math.Mod(m*u, 1)
		v = math.Mod(m*v, 1)
	}
	if effects&EffectPixelate.Mask() != 0 && skinSize.X > 0 && skinSize.Y > 0 {
		p := values[EffectPixelate]
		if p > 0 {
			cellX := p / skinSize.X
			cellY := p / skinSize.Y
			u = (math.Floor(u/cellX) + center) * cellX
			v = (math.Floor(v/cellY) + center) * cellY
		}
	}
	if effects&EffectWhirl.Mask() != 0 {
		const radius = 0.5
		ox, oy := u-center, v-center
		factor := math.Max(1-math.Hypot(ox, oy)/radius, 0)
		sin, cos := math.Sincos(values[EffectWhirl] * factor * factor)
		u = cos*ox + sin*oy + center
		v = -sin*ox + cos*oy + center
	}
	if effects&EffectFisheye.Mask() != 0 {
		vx := (u - center) / center
		vy := (v - center) / center
		length := math.Hypot(vx, vy)
		if length > 0 {
			r := math.Pow(math.Min(length, 1), values[EffectFisheye]) * math.Max(1, length)
			u = center + r*vx/length*center
			v = center + r*vy/length*center
		}
	}
	return u, v
}
