package stagecore

import (
	"image"
	"math"

	"golang.org/x/image/vector"
)

// vectorOversample is the texel density vector skins are rasterized at.
const vectorOversample = 2

// VectorPath is a closed, filled polygon in native units (+Y down).
type VectorPath struct {
	Points []Vec2
	Fill   Color
}

// VectorShape is a resolution-independent appearance: filled paths drawn in
// order over a transparent Width x Height canvas.
type VectorShape struct {
	Width, Height float64
	Paths         []VectorPath
}

// VectorSkin rasterizes a VectorShape to a bitmap at vectorOversample texels
// per native unit.
type VectorSkin struct {
	skinBase
	shape  VectorShape
	raster vector.Rasterizer
}

func newVectorSkin(id SkinID, shape VectorShape, center *Vec2) *VectorSkin {
	s := &VectorSkin{skinBase: skinBase{id: id}}
	s.SetShape(shape, center)
	return s
}

// IsRaster returns false; vector skins are sampled bilinearly when scaled or
// rotated.
func (s *VectorSkin) IsRaster() bool { return false }

// Shape returns the current shape.
func (s *VectorSkin) Shape() VectorShape { return s.shape }

// SetShape replaces the content. center is in native units; nil centers the
// rotation on the shape.
func (s *VectorSkin) SetShape(shape VectorShape, center *Vec2) {
	s.shape = shape
	s.setContent(s.rasterize(), vectorOversample, center)
}

func (s *VectorSkin) rasterize() *image.RGBA {
	w := int(math.Ceil(s.shape.Width * vectorOversample))
	h := int(math.Ceil(s.shape.Height * vectorOversample))
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rectangle{})
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for _, p := range s.shape.Paths {
		if len(p.Points) < 3 || p.Fill.A <= 0 {
			continue
		}
		s.raster.Reset(w, h)
		s.raster.MoveTo(float32(p.Points[0].X*vectorOversample), float32(p.Points[0].Y*vectorOversample))
		for _, pt := range p.Points[1:] {
			s.raster.LineTo(float32(pt.X*vectorOversample), float32(pt.Y*vectorOversample))
		}
		s.raster.ClosePath()
		s.raster.Draw(dst, dst.Bounds(), image.NewUniform(p.Fill.toNRGBA()), image.Point{})
	}
	return dst
}
