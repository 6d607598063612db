package stagecore

import "math"

// bubbleSlice is the height of the hull slice used to place speech bubbles.
const bubbleSlice = 8

// Drawable is a positioned, transformable sprite instance showing one Skin.
// All derived state is cached behind dirty flags and recomputed lazily on the
// next read; setters never recompute inline.
type Drawable struct {
	// ID is stable for the drawable's lifetime.
	ID DrawableID

	skin        Skin
	skinVersion uint64

	position  Vec2
	direction float64
	scale     Vec2
	visible   bool

	effectRaw      [effectCount]float64
	effectValues   [effectCount]float64
	enabledEffects EffectMask

	// Cached derived state.
	rotationSin, rotationCos float64
	rotationCenter           Vec2 // texel space
	skinScale                Vec2
	transform                [6]float64
	inverse                  [6]float64
	aabb                     Rectangle
	hullPoints               []Vec2 // texel space; nil until supplied
	transformedHull          []Vec2

	rotationDirty        bool
	rotationCenterDirty  bool // also covers skinScale
	transformDirty       bool
	inverseDirty         bool
	hullDirty            bool
	transformedHullDirty bool
	aabbDirty            bool

	disposed bool
}

// NewDrawable creates a drawable facing right at the stage origin with 100%
// scale, visible, with no skin and all effects at their defaults.
func NewDrawable(id DrawableID) *Drawable {
	d := &Drawable{
		ID:           id,
		direction:    90,
		scale:        Vec2{100, 100},
		visible:      true,
		effectValues: effectDefaults,
	}
	d.rotationDirty = true
	d.rotationCenterDirty = true
	d.setTransformDirty()
	d.setConvexHullDirty()
	return d
}

// --- Dirty flag helpers ---

func (d *Drawable) setTransformDirty() {
	d.transformDirty = true
	d.inverseDirty = true
	d.transformedHullDirty = true
	d.aabbDirty = true
}

func (d *Drawable) setConvexHullDirty() {
	d.hullDirty = true
	d.transformedHullDirty = true
}

// skinAltered invalidates everything derived from the skin's size, rotation
// center or pixels.
func (d *Drawable) skinAltered() {
	d.rotationCenterDirty = true
	d.setConvexHullDirty()
	d.setTransformDirty()
}

// syncSkin compares the skin's version with the last one seen and
// invalidates caches when the skin content changed.
func (d *Drawable) syncSkin() {
	if d.skin == nil {
		return
	}
	if v := d.skin.Version(); v != d.skinVersion {
		d.skinVersion = v
		d.skinAltered()
	}
}

// --- Property setters ---

// UpdatePosition moves the drawable, rounding to whole stage units.
// No-op if unchanged.
func (d *Drawable) UpdatePosition(x, y float64) {
	if globalDebug {
		debugCheckDisposed(d, "UpdatePosition")
	}
	x, y = math.Round(x), math.Round(y)
	if d.position.X == x && d.position.Y == y {
		return
	}
	d.position = Vec2{x, y}
	d.setTransformDirty()
}

// UpdateDirection sets the direction in degrees (90 = facing right,
// 0 = facing up). No-op if unchanged.
func (d *Drawable) UpdateDirection(direction float64) {
	if globalDebug {
		debugCheckDisposed(d, "UpdateDirection")
	}
	if d.direction == direction {
		return
	}
	d.direction = direction
	d.rotationDirty = true
	d.setTransformDirty()
}

// UpdateScale sets the scale as a percentage pair (100, 100 = native size).
// No-op if unchanged.
func (d *Drawable) UpdateScale(sx, sy float64) {
	if globalDebug {
		debugCheckDisposed(d, "UpdateScale")
	}
	if d.scale.X == sx && d.scale.Y == sy {
		return
	}
	d.scale = Vec2{sx, sy}
	d.rotationCenterDirty = true
	d.setTransformDirty()
}

// UpdateVisible shows or hides the drawable.
func (d *Drawable) UpdateVisible(visible bool) {
	d.visible = visible
}

// UpdateEffect sets an effect from a raw host value. A non-zero raw value
// enables the effect. Shape-changing effects invalidate the convex hull.
func (d *Drawable) UpdateEffect(e Effect, raw float64) {
	if e >= effectCount {
		return
	}
	mask := d.enabledEffects
	if raw != 0 {
		mask |= e.Mask()
	} else {
		mask &^= e.Mask()
	}
	value := convertEffect(e, raw)
	if mask == d.enabledEffects && raw == d.effectRaw[e] {
		return
	}
	d.enabledEffects = mask
	d.effectRaw[e] = raw
	d.effectValues[e] = value
	if e.ShapeChanging() {
		d.setConvexHullDirty()
	}
}

// SetSkin attaches a skin (nil detaches). No-op if unchanged.
func (d *Drawable) SetSkin(s Skin) {
	if d.skin == s {
		return
	}
	d.skin = s
	if s != nil {
		d.skinVersion = s.Version()
	}
	d.skinAltered()
}

// --- Accessors ---

// Position returns the logical stage position.
func (d *Drawable) Position() Vec2 { return d.position }

// Direction returns the direction in degrees.
func (d *Drawable) Direction() float64 { return d.direction }

// Scale returns the scale percentage pair.
func (d *Drawable) Scale() Vec2 { return d.scale }

// Visible reports whether the drawable is shown.
func (d *Drawable) Visible() bool { return d.visible }

// Skin returns the attached skin, or nil.
func (d *Drawable) Skin() Skin { return d.skin }

// EffectValue returns the applied (converted) value of an effect.
func (d *Drawable) EffectValue(e Effect) float64 {
	if e >= effectCount {
		return 0
	}
	return d.effectValues[e]
}

// RawEffectValue returns the host value last passed to UpdateEffect.
func (d *Drawable) RawEffectValue(e Effect) float64 {
	if e >= effectCount {
		return 0
	}
	return d.effectRaw[e]
}

// EnabledEffects returns the bitmask of effects with non-default values.
func (d *Drawable) EnabledEffects() EffectMask { return d.enabledEffects }

// IsDisposed returns true if the drawable has been destroyed.
func (d *Drawable) IsDisposed() bool { return d.disposed }

// Dispose detaches the skin and drops cached geometry.
func (d *Drawable) Dispose() {
	d.disposed = true
	d.skin = nil
	d.hullPoints = nil
	d.transformedHull = nil
}

// --- Transform engine ---

// texelSize returns the skin's backing size in texels (native size times
// size ratio).
func (d *Drawable) texelSize() Vec2 {
	if d.skin == nil {
		return Vec2{}
	}
	size := d.skin.Size()
	ratio := d.skin.SizeRatio()
	return Vec2{size.X * ratio, size.Y * ratio}
}

// updateTransform recomputes the forward matrix if any input changed.
func (d *Drawable) updateTransform() {
	d.syncSkin()
	if !d.transformDirty {
		return
	}
	if d.rotationDirty {
		d.rotationSin, d.rotationCos = math.Sincos(directionRadians(d.direction))
		d.rotationDirty = false
	}
	if d.rotationCenterDirty {
		ratio := 1.0
		var center Vec2
		if d.skin != nil {
			ratio = d.skin.SizeRatio()
			center = d.skin.RotationCenter()
		}
		if ratio <= 0 {
			ratio = 1
		}
		d.rotationCenter = Vec2{center.X * ratio, center.Y * ratio}
		// Texel Y grows downward, stage Y grows upward.
		d.skinScale = Vec2{d.scale.X / 100 / ratio, -d.scale.Y / 100 / ratio}
		d.rotationCenterDirty = false
	}
	d.transform = composeTransform(d.position, d.rotationSin, d.rotationCos, d.skinScale, d.rotationCenter)
	d.transformDirty = false
}

// Transform returns the texel-to-stage affine matrix, always consistent with
// the current logical state.
func (d *Drawable) Transform() [6]float64 {
	d.updateTransform()
	return d.transform
}

// UpdateMatrix refreshes the forward and inverse matrices.
func (d *Drawable) UpdateMatrix() {
	d.updateTransform()
	if d.inverseDirty {
		d.inverse = invertAffine(d.transform)
		d.inverseDirty = false
	}
}

// InverseTransform returns the stage-to-texel affine matrix.
func (d *Drawable) InverseTransform() [6]float64 {
	d.UpdateMatrix()
	return d.inverse
}

// AABB returns the stage-space box around the skin's four corners. It is
// cheap and loose. A drawable without a skin reports a zero-size box at its
// position.
func (d *Drawable) AABB() Rectangle {
	d.updateTransform()
	if !d.aabbDirty {
		return d.aabb
	}
	if d.skin == nil {
		d.aabb = Rectangle{d.position.X, d.position.X, d.position.Y, d.position.Y}
	} else {
		size := d.texelSize()
		var corners [4]Vec2
		corners[0].X, corners[0].Y = transformPoint(d.transform, 0, 0)
		corners[1].X, corners[1].Y = transformPoint(d.transform, size.X, 0)
		corners[2].X, corners[2].Y = transformPoint(d.transform, 0, size.Y)
		corners[3].X, corners[3].Y = transformPoint(d.transform, size.X, size.Y)
		d.aabb = RectFromPoints(corners[:])
	}
	d.aabbDirty = false
	return d.aabb
}

// NeedsConvexHullPoints reports whether the hull must be (re)supplied before
// Bounds can answer. An empty hull (fully transparent skin) always needs
// refreshing.
func (d *Drawable) NeedsConvexHullPoints() bool {
	d.syncSkin()
	return d.hullDirty || len(d.hullPoints) == 0
}

// SetConvexHullPoints stores a texel-space hull, typically from ConvexHull.
func (d *Drawable) SetConvexHullPoints(points []Vec2) {
	if points == nil {
		points = []Vec2{}
	}
	d.syncSkin()
	d.hullPoints = points
	d.hullDirty = false
	d.transformedHullDirty = true
}

// ConvexHullPoints returns the stored texel-space hull. The returned slice
// MUST NOT be mutated.
func (d *Drawable) ConvexHullPoints() []Vec2 {
	return d.hullPoints
}

func (d *Drawable) transformedHullPoints() []Vec2 {
	d.updateTransform()
	if d.transformedHullDirty {
		d.transformedHull = transformPoints(d.transform, d.hullPoints, d.transformedHull)
		d.transformedHullDirty = false
	}
	return d.transformedHull
}

// Bounds returns the tight stage-space box around the convex hull. It
// returns ErrHullNotReady if the hull has not been supplied since the last
// shape-affecting change. A supplied but empty hull yields a zero-size box
// at the drawable's position.
func (d *Drawable) Bounds() (Rectangle, error) {
	d.syncSkin()
	if d.hullDirty || d.hullPoints == nil {
		return Rectangle{}, ErrHullNotReady
	}
	points := d.transformedHullPoints()
	if len(points) == 0 {
		return Rectangle{d.position.X, d.position.X, d.position.Y, d.position.Y}, nil
	}
	return RectFromPoints(points), nil
}

// BoundsForBubble returns the tight bounds of the topmost bubbleSlice stage
// units of the hull, for placing speech bubbles.
func (d *Drawable) BoundsForBubble() (Rectangle, error) {
	d.syncSkin()
	if d.hullDirty || d.hullPoints == nil {
		return Rectangle{}, ErrHullNotReady
	}
	points := d.transformedHullPoints()
	if len(points) == 0 {
		return Rectangle{d.position.X, d.position.X, d.position.Y, d.position.Y}, nil
	}
	maxY := math.Inf(-1)
	for _, p := range points {
		maxY = math.Max(maxY, p.Y)
	}
	slice := make([]Vec2, 0, len(points))
	for _, p := range points {
		if p.Y > maxY-bubbleSlice {
			slice = append(slice, p)
		}
	}
	return RectFromPoints(slice), nil
}

// FastBounds returns the tight bounds when the hull is current and the AABB
// otherwise.
func (d *Drawable) FastBounds() Rectangle {
	if !d.NeedsConvexHullPoints() {
		if r, err := d.Bounds(); err == nil {
			return r
		}
	}
	return d.AABB()
}

// --- Point queries ---

// useNearest reports whether point queries may use nearest sampling: always
// for raster skins, otherwise only for axis-aligned drawables near 100%
// scale.
func (d *Drawable) useNearest() bool {
	if d.skin.IsRaster() {
		return true
	}
	if math.Mod(d.direction, 90) != 0 {
		return false
	}
	near100 := func(v float64) bool {
		v = math.Abs(v)
		return v > 99 && v < 101
	}
	return near100(d.scale.X) && near100(d.scale.Y)
}

// LocalPosition maps the stage pixel at (x, y) to normalized texture
// coordinates, sampling at the pixel center and applying distortion effects.
// ok is false when the drawable has no skin.
func (d *Drawable) LocalPosition(x, y float64) (u, v float64, ok bool) {
	if d.skin == nil {
		return 0, 0, false
	}
	d.UpdateMatrix()
	size := d.texelSize()
	if size.X <= 0 || size.Y <= 0 {
		return 0, 0, false
	}
	ox, oy := transformPoint(d.inverse, x+0.5, y+0.5)
	u, v = ox/size.X, oy/size.Y
	if d.enabledEffects&distortionMask != 0 {
		u, v = transformTexturePoint(u, v, d.enabledEffects, &d.effectValues, d.skin.Size())
	}
	return u, v, true
}

// IsTouching reports whether the stage pixel at (x, y) hits an opaque texel.
func (d *Drawable) IsTouching(x, y float64) bool {
	u, v, ok := d.LocalPosition(x, y)
	if !ok {
		return false
	}
	sil := d.skin.Silhouette()
	if d.useNearest() {
		return sil.IsTouchingNearest(u, v)
	}
	return sil.IsTouchingLinear(u, v)
}

// SampleColor returns the premultiplied color the drawable shows at the stage
// pixel (x, y), with the effects in effectMask applied. Pass EffectMaskAll
// for the on-screen color. Sampling follows IsTouching: nearest or bilinear.
func (d *Drawable) SampleColor(x, y float64, effectMask EffectMask) RGBA8 {
	u, v, ok := d.LocalPosition(x, y)
	if !ok || outOfUnit(u, v) {
		return RGBA8{}
	}
	var c RGBA8
	if d.useNearest() {
		c = d.skin.Silhouette().ColorAtNearest(u, v)
	} else {
		c = d.skin.Silhouette().ColorAtLinear(u, v)
	}
	effects := d.enabledEffects & effectMask
	if effects == 0 {
		return c
	}
	return transformColor(c, effects, &d.effectValues)
}
