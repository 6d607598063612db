package stagecore

import "math"

// touchCandidate is a drawable whose snapped bounds overlap the scanned
// region, with the overlap.
type touchCandidate struct {
	drawable     *Drawable
	intersection Rectangle
}

// hasContent reports whether a skin has pixels to test against.
func hasContent(s Skin) bool {
	if s == nil {
		return false
	}
	w, h := s.Silhouette().Size()
	return w > 0 && h > 0
}

func isBubble(s Skin) bool {
	_, ok := s.(*TextBubbleSkin)
	return ok
}

// visibleIDs returns the draw list filtered to visible drawables, back to
// front.
func (r *Renderer) visibleIDs() []DrawableID {
	ids := r.drawList.IDs()
	out := make([]DrawableID, 0, len(ids))
	for _, id := range ids {
		if d := r.drawables[id]; d != nil && d.Visible() {
			out = append(out, id)
		}
	}
	return out
}

// touchingBounds returns the integer stage rectangle worth scanning for d:
// its fast bounds snapped outward and clamped to the stage. ok is false if
// the drawable has no content or lies entirely off stage.
func (r *Renderer) touchingBounds(d *Drawable) (Rectangle, bool) {
	if !hasContent(d.Skin()) {
		return Rectangle{}, false
	}
	r.refreshHull(d)
	stage := r.stage.Bounds()
	b := d.FastBounds().SnapToInt().Clamp(stage.Left, stage.Right, stage.Bottom, stage.Top).SnapToInt()
	if b.Width() == 0 || b.Height() == 0 {
		return Rectangle{}, false
	}
	return b, true
}

// candidatesTouching returns the drawables among candidateIDs whose snapped
// fast bounds intersect the touching bounds of d, front to back. d itself,
// hidden drawables, skinless drawables and text bubbles are skipped.
func (r *Renderer) candidatesTouching(d *Drawable, candidateIDs []DrawableID) []touchCandidate {
	bounds, ok := r.touchingBounds(d)
	if !ok {
		return nil
	}
	var result []touchCandidate
	for i := len(candidateIDs) - 1; i >= 0; i-- {
		id := candidateIDs[i]
		if id == d.ID {
			continue
		}
		c := r.drawables[id]
		if c == nil || !c.Visible() || c.Skin() == nil || isBubble(c.Skin()) {
			continue
		}
		cb := c.FastBounds().SnapToInt()
		if bounds.Intersects(cb) {
			result = append(result, touchCandidate{drawable: c, intersection: bounds.Intersect(cb)})
		}
	}
	return result
}

// candidatesBounds returns the union of all candidate intersections.
func candidatesBounds(candidates []touchCandidate) Rectangle {
	b := candidates[0].intersection
	for _, c := range candidates[1:] {
		b = b.Union(c.intersection)
	}
	return b
}

// sampleColor composites the candidates (front to back) at the stage pixel
// (x, y) and fills whatever coverage remains with the background color.
func (r *Renderer) sampleColor(x, y float64, candidates []touchCandidate) RGB {
	var acc [3]float64
	blendAlpha := 1.0
	for i := 0; blendAlpha != 0 && i < len(candidates); i++ {
		c := candidates[i].drawable.SampleColor(x, y, EffectMaskAll)
		acc[0] += float64(c[0]) * blendAlpha
		acc[1] += float64(c[1]) * blendAlpha
		acc[2] += float64(c[2]) * blendAlpha
		blendAlpha *= 1 - float64(c[3])/255
	}
	bg := r.background.RGB3b()
	return RGB{
		clampByte(acc[0] + blendAlpha*float64(bg[0])),
		clampByte(acc[1] + blendAlpha*float64(bg[1])),
		clampByte(acc[2] + blendAlpha*float64(bg[2])),
	}
}

// IsTouchingColor reports whether any pixel of the drawable overlaps a
// pixel of the given color, as composited from every other visible
// drawable over the background. When mask is non-nil only the drawable's
// pixels matching the mask color (ghost ignored) are considered.
func (r *Renderer) IsTouchingColor(id DrawableID, color RGB, mask *RGB) bool {
	d, ok := r.lookupDrawable("is touching color", id)
	if !ok {
		return false
	}
	candidates := r.candidatesTouching(d, r.visibleIDs())

	var bounds Rectangle
	if colorMatches(color, r.background.RGB3b()) {
		// The background shows through wherever nothing else is drawn.
		if bounds, ok = r.touchingBounds(d); !ok {
			return false
		}
	} else if len(candidates) == 0 {
		return false
	} else {
		bounds = candidatesBounds(candidates)
	}
	if globalDebug {
		debugCheckScan("IsTouchingColor", id, bounds)
	}

	effectMask := EffectMaskAll &^ EffectGhost.Mask()
	for y := bounds.Bottom; y <= bounds.Top; y++ {
		for x := bounds.Left; x <= bounds.Right; x++ {
			var hit bool
			if mask != nil {
				hit = maskMatches(d.SampleColor(x, y, effectMask), *mask)
			} else {
				hit = d.IsTouching(x, y)
			}
			if hit && colorMatches(r.sampleColor(x, y, candidates), color) {
				return true
			}
		}
	}
	return false
}

// IsTouchingDrawables reports whether the drawable overlaps any of the
// candidates at pixel level. A nil candidate list tests against every
// drawable in the draw list.
func (r *Renderer) IsTouchingDrawables(id DrawableID, candidateIDs []DrawableID) bool {
	d, ok := r.lookupDrawable("is touching drawables", id)
	if !ok || !d.Visible() {
		return false
	}
	if candidateIDs == nil {
		candidateIDs = r.drawList.IDs()
	}
	candidates := r.candidatesTouching(d, candidateIDs)
	if len(candidates) == 0 {
		return false
	}
	bounds := candidatesBounds(candidates)
	if globalDebug {
		debugCheckScan("IsTouchingDrawables", id, bounds)
	}
	for x := bounds.Left; x <= bounds.Right; x++ {
		for y := bounds.Bottom; y <= bounds.Top; y++ {
			if !d.IsTouching(x, y) {
				continue
			}
			for _, c := range candidates {
				if c.drawable.IsTouching(x, y) {
					return true
				}
			}
		}
	}
	return false
}

// Pick returns the drawable under a pointer footprint centered on the
// client point (x, y): the candidate that is topmost on the most pixels of
// the footprint. Ties go to the lower id. A nil candidate list considers
// every drawable. IDNone means nothing was hit.
func (r *Renderer) Pick(x, y, touchWidth, touchHeight float64, candidateIDs []DrawableID) DrawableID {
	bounds := r.stage.ClientToStageBounds(x, y, touchWidth, touchHeight)
	if math.IsInf(bounds.Left, -1) || math.IsInf(bounds.Bottom, -1) {
		return IDNone
	}
	if candidateIDs == nil {
		candidateIDs = r.drawList.IDs()
	}

	var candidates []*Drawable
	for _, cid := range candidateIDs {
		d := r.drawables[cid]
		if d == nil || !d.Visible() || !hasContent(d.Skin()) {
			continue
		}
		if d.EnabledEffects()&EffectGhost.Mask() != 0 && d.EffectValue(EffectGhost) == 0 {
			continue
		}
		if bounds.Intersects(d.FastBounds().SnapToInt()) {
			candidates = append(candidates, d)
		}
	}
	if len(candidates) == 0 {
		return IDNone
	}

	hits := make(map[DrawableID]int, len(candidates))
	for py := bounds.Bottom; py <= bounds.Top; py++ {
		for px := bounds.Left; px <= bounds.Right; px++ {
			for i := len(candidates) - 1; i >= 0; i-- {
				if candidates[i].IsTouching(px, py) {
					hits[candidates[i].ID]++
					break
				}
			}
		}
	}

	hit := DrawableID(IDNone)
	best := 0
	for hid, n := range hits {
		if n > best || (n == best && hid < hit) {
			hit, best = hid, n
		}
	}
	return hit
}

// DrawableTouching reports whether the drawable covers any pixel of the
// pointer footprint centered on the client point (x, y).
func (r *Renderer) DrawableTouching(id DrawableID, x, y, touchWidth, touchHeight float64) bool {
	d, ok := r.lookupDrawable("drawable touching", id)
	if !ok {
		return false
	}
	bounds := r.stage.ClientToStageBounds(x, y, touchWidth, touchHeight)
	for py := bounds.Bottom; py <= bounds.Top; py++ {
		for px := bounds.Left; px <= bounds.Right; px++ {
			if d.IsTouching(px, py) {
				return true
			}
		}
	}
	return false
}

// frontToBack builds compositing candidates from drawable ids given back to
// front. Missing and hidden drawables are skipped.
func (r *Renderer) frontToBack(ids []DrawableID) []touchCandidate {
	out := make([]touchCandidate, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		d := r.drawables[ids[i]]
		if d == nil || !d.Visible() || d.Skin() == nil {
			continue
		}
		out = append(out, touchCandidate{drawable: d})
	}
	return out
}

// SampleColor composites the given drawables (back to front, as in the
// draw list) at the stage pixel (x, y) over the background.
func (r *Renderer) SampleColor(x, y float64, ids []DrawableID) RGB {
	return r.sampleColor(math.Floor(x), math.Floor(y), r.frontToBack(ids))
}

// ColorAt returns the color of the whole visible stage at the stage pixel
// (x, y).
func (r *Renderer) ColorAt(x, y float64) RGB {
	return r.SampleColor(x, y, r.drawList.IDs())
}

// ColorExtract is a square of composited stage pixels around a point.
type ColorExtract struct {
	// Pix holds Width*Height RGBA pixels, rows top to bottom.
	Pix           []byte
	Width, Height int
	// Color is the pixel at the center of the square.
	Color RGB
}

// ExtractColor composites the (2*radius+1)-pixel square of the stage
// centered on the client point (x, y).
func (r *Renderer) ExtractColor(x, y float64, radius int) ColorExtract {
	radius = max(radius, 0)
	size := 2*radius + 1
	sx, sy := r.stage.ClientToStage(x, y)
	cx, cy := math.Floor(sx), math.Floor(sy)
	candidates := r.frontToBack(r.drawList.IDs())

	out := ColorExtract{Pix: make([]byte, size*size*4), Width: size, Height: size}
	for row := range size {
		py := cy + float64(radius-row)
		for col := range size {
			px := cx + float64(col-radius)
			c := r.sampleColor(px, py, candidates)
			i := (row*size + col) * 4
			out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = c[0], c[1], c[2], 255
		}
	}
	i := (radius*size + radius) * 4
	out.Color = RGB{out.Pix[i], out.Pix[i+1], out.Pix[i+2]}
	return out
}
