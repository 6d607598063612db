package stagecore

import (
	"image"

	"golang.org/x/image/draw"
)

// PenSkin is a persistent stage-sized canvas. Unlike the other skins its
// content accumulates: stamps and pixel draws are composited onto whatever
// is already there until Clear is called.
//
// Texel (0, 0) is the top-left corner of the stage and the rotation center
// is the stage origin, so a drawable showing a PenSkin at position (0, 0)
// covers the stage exactly.
type PenSkin struct {
	skinBase
	stage Rectangle
}

func newPenSkin(id SkinID, stage Rectangle) *PenSkin {
	s := &PenSkin{skinBase: skinBase{id: id}}
	s.Resize(stage)
	return s
}

// IsRaster returns true.
func (s *PenSkin) IsRaster() bool { return true }

// Resize discards the content and reallocates the canvas for new stage
// bounds.
func (s *PenSkin) Resize(stage Rectangle) {
	s.stage = stage
	w, h := int(stage.Width()), int(stage.Height())
	center := Vec2{-stage.Left, stage.Top}
	s.setContent(image.NewRGBA(image.Rect(0, 0, w, h)), 1, &center)
}

// Clear erases the canvas to transparent black.
func (s *PenSkin) Clear() {
	if s.rgba == nil {
		return
	}
	clear(s.rgba.Pix)
	s.contentChanged()
}

// Fill covers the whole canvas with c.
func (s *PenSkin) Fill(c Color) {
	if s.rgba == nil {
		return
	}
	draw.Draw(s.rgba, s.rgba.Rect, image.NewUniform(c.toNRGBA()), image.Point{}, draw.Src)
	s.contentChanged()
}

// DrawImage composites src over the canvas with its top-left corner at the
// stage point (x, y).
func (s *PenSkin) DrawImage(src image.Image, x, y float64) {
	if s.rgba == nil || src == nil {
		return
	}
	tx, ty := s.texelOf(x, y)
	b := src.Bounds()
	r := image.Rect(tx, ty, tx+b.Dx(), ty+b.Dy())
	draw.Draw(s.rgba, r, src, b.Min, draw.Over)
	s.contentChanged()
}

// texelOf converts a stage point to canvas texel coordinates.
func (s *PenSkin) texelOf(x, y float64) (int, int) {
	return int(x - s.stage.Left), int(s.stage.Top - y)
}

// stamp composites the on-screen appearance of d over the canvas. Only the
// texels inside d's fast bounds are visited.
func (s *PenSkin) stamp(d *Drawable) {
	if s.rgba == nil || d.Skin() == nil || !d.Visible() {
		return
	}
	bounds := d.FastBounds().SnapToInt().Intersect(s.stage)
	if bounds.Width() <= 0 || bounds.Height() <= 0 {
		return
	}
	pix := s.rgba.Pix
	stride := s.rgba.Stride
	changed := false
	for y := bounds.Bottom; y < bounds.Top; y++ {
		for x := bounds.Left; x < bounds.Right; x++ {
			c := d.SampleColor(x, y, EffectMaskAll)
			if c[3] == 0 {
				continue
			}
			tx, ty := s.texelOf(x, y+1)
			if tx < 0 || ty < 0 || tx >= s.rgba.Rect.Dx() || ty >= s.rgba.Rect.Dy() {
				continue
			}
			i := ty*stride + tx*4
			inv := 255 - uint32(c[3])
			for k := range 4 {
				pix[i+k] = uint8(uint32(c[k]) + (uint32(pix[i+k])*inv+127)/255)
			}
			changed = true
		}
	}
	if changed {
		s.contentChanged()
	}
}
