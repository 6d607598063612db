package stagecore

import "math"

// Stage geometry limits.
const (
	// maxTouchWidth and maxTouchHeight cap the footprint of a pointer query
	// in stage units.
	maxTouchWidth  = 3
	maxTouchHeight = 3

	// fenceWidth is how much of a sprite must stay on stage when fenced.
	fenceWidth = 15
)

// Stage describes the stage rectangle and the client canvas it is shown in.
// Stage space has +Y up with the origin at the center; client space has +Y
// down with the origin at the top-left of the canvas.
type Stage struct {
	bounds Rectangle

	clientW, clientH float64

	// Stage-to-client matrix and its inverse, lazily recomputed.
	viewMatrix    [6]float64
	invViewMatrix [6]float64
	dirty         bool
}

// newStage creates a Stage from the geometry in cfg.
func newStage(cfg Config) *Stage {
	s := &Stage{}
	s.Resize(cfg.XLeft, cfg.XRight, cfg.YBottom, cfg.YTop)
	s.SetClientSize(cfg.ClientWidth, cfg.ClientHeight)
	return s
}

// Bounds returns the stage rectangle.
func (s *Stage) Bounds() Rectangle { return s.bounds }

// NativeSize returns the stage size in stage units.
func (s *Stage) NativeSize() Vec2 {
	return Vec2{s.bounds.Width(), s.bounds.Height()}
}

// ClientSize returns the canvas size in client pixels.
func (s *Stage) ClientSize() Vec2 {
	return Vec2{s.clientW, s.clientH}
}

// Resize sets the stage rectangle.
func (s *Stage) Resize(xLeft, xRight, yBottom, yTop float64) {
	s.bounds = Rectangle{Left: xLeft, Right: xRight, Bottom: yBottom, Top: yTop}
	s.dirty = true
}

// SetClientSize sets the canvas size. Non-positive sizes fall back to the
// stage's native size.
func (s *Stage) SetClientSize(w, h float64) {
	s.clientW, s.clientH = w, h
	s.dirty = true
}

func (s *Stage) clientSize() (w, h float64) {
	native := s.NativeSize()
	w, h = s.clientW, s.clientH
	if w <= 0 {
		w = native.X
	}
	if h <= 0 {
		h = native.Y
	}
	return w, h
}

// computeViewMatrix builds the stage-to-client matrix: flip Y, move the
// top-left corner to the origin and scale to the client size.
func (s *Stage) computeViewMatrix() [6]float64 {
	if !s.dirty {
		return s.viewMatrix
	}
	native := s.NativeSize()
	cw, ch := s.clientSize()
	sx, sy := cw/native.X, ch/native.Y
	s.viewMatrix = [6]float64{sx, 0, 0, -sy, -s.bounds.Left * sx, s.bounds.Top * sy}
	s.invViewMatrix = invertAffine(s.viewMatrix)
	s.dirty = false
	return s.viewMatrix
}

// StageToClient converts a stage point to client pixels.
func (s *Stage) StageToClient(x, y float64) (cx, cy float64) {
	return transformPoint(s.computeViewMatrix(), x, y)
}

// ClientToStage converts a client pixel to a stage point.
func (s *Stage) ClientToStage(cx, cy float64) (x, y float64) {
	s.computeViewMatrix()
	return transformPoint(s.invViewMatrix, cx, cy)
}

// ClientToStageBounds converts a pointer footprint centered on the client
// point (cx, cy) into an inclusive stage-pixel rectangle. The footprint is
// at least one pixel and at most maxTouchWidth x maxTouchHeight.
func (s *Stage) ClientToStageBounds(cx, cy, w, h float64) Rectangle {
	native := s.NativeSize()
	clientW, clientH := s.clientSize()
	toStageX := native.X / clientW
	toStageY := native.Y / clientH

	w = math.Max(1, math.Min(math.Round(w*toStageX), maxTouchWidth))
	h = math.Max(1, math.Min(math.Round(h*toStageY), maxTouchHeight))
	x := cx*toStageX - (w-1)/2
	y := cy*toStageY + (h-1)/2

	// Even footprints straddle the pixel under the pointer.
	var xOfs, yOfs float64
	if math.Mod(w, 2) == 0 {
		xOfs = -0.5
	}
	if math.Mod(h, 2) == 0 {
		yOfs = -0.5
	}
	return Rectangle{
		Left:   math.Floor(s.bounds.Left + x + xOfs),
		Right:  math.Floor(s.bounds.Left + x + xOfs + w - 1),
		Bottom: math.Ceil(s.bounds.Top - y + yOfs),
		Top:    math.Ceil(s.bounds.Top - y + yOfs + h - 1),
	}
}

// FencedPosition returns the position closest to (x, y) that keeps at
// least fenceWidth units of d (or half its size, if smaller) on stage.
func (s *Stage) FencedPosition(d *Drawable, x, y float64) Vec2 {
	if d == nil || d.Skin() == nil {
		return Vec2{x, y}
	}
	pos := d.Position()
	dx, dy := x-pos.X, y-pos.Y
	box := d.FastBounds()
	inset := math.Floor(math.Min(box.Width(), box.Height()) / 2)

	sx := s.bounds.Right - math.Min(fenceWidth, inset)
	if box.Right+dx < -sx {
		x = math.Ceil(pos.X - (sx + box.Right))
	} else if box.Left+dx > sx {
		x = math.Floor(pos.X + (sx - box.Left))
	}
	sy := s.bounds.Top - math.Min(fenceWidth, inset)
	if box.Top+dy < -sy {
		y = math.Ceil(pos.Y - (sy + box.Top))
	} else if box.Bottom+dy > sy {
		y = math.Floor(pos.Y + (sy - box.Bottom))
	}
	return Vec2{x, y}
}
