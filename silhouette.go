package stagecore

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// RasterSource is anything that can be read into a premultiplied RGBA byte
// array at its own pixel size. Skins use ImageSource over their CPU pixels.
// *ebiten.Image has the same method set, but its ReadPixels only works once
// the game loop is running.
type RasterSource interface {
	Bounds() image.Rectangle
	ReadPixels(pixels []byte)
}

// ImageSource adapts a decoded image.Image to RasterSource.
type ImageSource struct {
	Image image.Image
}

// Bounds returns the image bounds.
func (s ImageSource) Bounds() image.Rectangle {
	if s.Image == nil {
		return image.Rectangle{}
	}
	return s.Image.Bounds()
}

// ReadPixels converts the image to premultiplied RGBA into pixels, which must
// hold 4*width*height bytes.
func (s ImageSource) ReadPixels(pixels []byte) {
	if s.Image == nil {
		return
	}
	b := s.Image.Bounds()
	if rgba, ok := s.Image.(*image.RGBA); ok && rgba.Stride == 4*b.Dx() {
		copy(pixels, rgba.Pix)
		return
	}
	dst := &image.RGBA{
		Pix:    pixels,
		Stride: 4 * b.Dx(),
		Rect:   image.Rect(0, 0, b.Dx(), b.Dy()),
	}
	draw.Draw(dst, dst.Rect, s.Image, b.Min, draw.Src)
}

// Silhouette is the alpha oracle behind pixel-exact hit testing. It keeps a
// CPU copy of a skin's premultiplied pixels. Coordinates are normalized
// texture coordinates in [0, 1] with (0, 0) at the top-left texel.
type Silhouette struct {
	width, height int
	pix           []byte
}

// Update replaces the buffer and dimensions with the current content of src.
// Safe to call repeatedly.
func (s *Silhouette) Update(src RasterSource) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		s.width, s.height, s.pix = 0, 0, nil
		return
	}
	pix := make([]byte, 4*w*h)
	src.ReadPixels(pix)
	s.width, s.height, s.pix = w, h, pix
}

// Size returns the silhouette dimensions in texels. A never-updated
// silhouette reports (0, 0).
func (s *Silhouette) Size() (w, h int) {
	return s.width, s.height
}

// Pix returns the raw premultiplied RGBA buffer. It MUST NOT be mutated.
func (s *Silhouette) Pix() []byte {
	return s.pix
}

// alphaAt returns the alpha of texel (x, y), or 0 outside the buffer.
func (s *Silhouette) alphaAt(x, y int) uint8 {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return 0
	}
	return s.pix[(y*s.width+x)*4+3]
}

// colorAt returns texel (x, y), or transparent black outside the buffer.
func (s *Silhouette) colorAt(x, y int) RGBA8 {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return RGBA8{}
	}
	o := (y*s.width + x) * 4
	return RGBA8{s.pix[o], s.pix[o+1], s.pix[o+2], s.pix[o+3]}
}

// texel maps a normalized coordinate pair to the nearest texel indices.
func (s *Silhouette) texel(u, v float64) (int, int) {
	return int(math.Floor(u * float64(s.width-1))), int(math.Floor(v * float64(s.height-1)))
}

func outOfUnit(u, v float64) bool {
	return !(u >= 0 && u <= 1 && v >= 0 && v <= 1)
}

// IsTouchingNearest reports whether the texel nearest (u, v) has non-zero
// alpha.
func (s *Silhouette) IsTouchingNearest(u, v float64) bool {
	if s.pix == nil || outOfUnit(u, v) {
		return false
	}
	x, y := s.texel(u, v)
	return s.alphaAt(x, y) > 0
}

// IsTouchingLinear reports whether any of the four texels blended by bilinear
// sampling at (u, v) has non-zero alpha. It is true wherever
// IsTouchingNearest is.
func (s *Silhouette) IsTouchingLinear(u, v float64) bool {
	if s.pix == nil || outOfUnit(u, v) {
		return false
	}
	x, y := s.texel(u, v)
	return s.alphaAt(x, y) > 0 ||
		s.alphaAt(x+1, y) > 0 ||
		s.alphaAt(x, y+1) > 0 ||
		s.alphaAt(x+1, y+1) > 0
}

// ColorAtNearest returns the premultiplied color of the texel nearest (u, v).
func (s *Silhouette) ColorAtNearest(u, v float64) RGBA8 {
	if s.pix == nil || outOfUnit(u, v) {
		return RGBA8{}
	}
	return s.colorAt(s.texel(u, v))
}

// ColorAtLinear returns the bilinear blend of the four texels around (u, v).
func (s *Silhouette) ColorAtLinear(u, v float64) RGBA8 {
	if s.pix == nil || outOfUnit(u, v) {
		return RGBA8{}
	}
	x := u * float64(s.width-1)
	y := v * float64(s.height-1)
	x0, y0 := math.Floor(x), math.Floor(y)
	x1D, y1D := x-x0, y-y0
	ix, iy := int(x0), int(y0)

	c00 := s.colorAt(ix, iy)
	c10 := s.colorAt(ix+1, iy)
	c01 := s.colorAt(ix, iy+1)
	c11 := s.colorAt(ix+1, iy+1)

	w00 := (1 - x1D) * (1 - y1D)
	w10 := x1D * (1 - y1D)
	w01 := (1 - x1D) * y1D
	w11 := x1D * y1D

	var out RGBA8
	for i := range out {
		out[i] = clampByte(float64(c00[i])*w00 + float64(c10[i])*w10 +
			float64(c01[i])*w01 + float64(c11[i])*w11)
	}
	return out
}
