package stagecore

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/draw"
)

// Skin is the rasterizable appearance a Drawable displays. The set of
// variants is closed: BitmapSkin, VectorSkin, PenSkin and TextBubbleSkin.
//
// Every content change bumps Version. Drawables compare it with the last
// version they saw and invalidate their cached geometry, so a skin never
// needs to know who references it.
type Skin interface {
	// ID returns the skin's identifier.
	ID() SkinID
	// Size returns the native (logical) size in stage units.
	Size() Vec2
	// SizeRatio returns texels per native unit of the backing buffer.
	SizeRatio() float64
	// IsRaster reports whether the skin is inherently pixel-based.
	IsRaster() bool
	// RotationCenter returns the rotation center in native units, measured
	// from the top-left corner with +Y down.
	RotationCenter() Vec2
	// Silhouette returns the alpha oracle reflecting the current pixels.
	Silhouette() *Silhouette
	// Texture returns the GPU image for drawing at the given scale, or nil
	// for an empty skin.
	Texture(scale Vec2) *ebiten.Image
	// Version increments on every content change.
	Version() uint64
	// Dispose releases the skin's pixels and texture.
	Dispose()

	base() *skinBase
}

// skinBase carries the state shared by every skin variant: the CPU pixel
// buffer, its silhouette and a lazily uploaded texture.
type skinBase struct {
	id             SkinID
	size           Vec2
	ratio          float64
	rotationCenter Vec2

	rgba       *image.RGBA
	silhouette Silhouette
	version    uint64

	texture        *ebiten.Image
	textureVersion uint64
	disposed       bool
}

func (s *skinBase) ID() SkinID              { return s.id }
func (s *skinBase) Size() Vec2              { return s.size }
func (s *skinBase) SizeRatio() float64      { return s.ratio }
func (s *skinBase) RotationCenter() Vec2    { return s.rotationCenter }
func (s *skinBase) Silhouette() *Silhouette { return &s.silhouette }
func (s *skinBase) Version() uint64         { return s.version }
func (s *skinBase) base() *skinBase         { return s }

// Pixels returns the CPU copy of the skin content (premultiplied RGBA). It
// MUST NOT be mutated.
func (s *skinBase) Pixels() *image.RGBA {
	return s.rgba
}

// setContent installs a new texel buffer. center is in native units; nil
// selects the middle of the skin.
func (s *skinBase) setContent(rgba *image.RGBA, ratio float64, center *Vec2) {
	if ratio <= 0 {
		ratio = 1
	}
	b := rgba.Bounds()
	s.rgba = rgba
	s.ratio = ratio
	s.size = Vec2{float64(b.Dx()) / ratio, float64(b.Dy()) / ratio}
	if center != nil {
		s.rotationCenter = *center
	} else {
		s.rotationCenter = Vec2{s.size.X / 2, s.size.Y / 2}
	}
	s.contentChanged()
}

// contentChanged refreshes the silhouette after the pixels were modified in
// place and notifies drawables through the version counter.
func (s *skinBase) contentChanged() {
	s.silhouette.Update(ImageSource{Image: s.rgba})
	s.version++
}

// Texture uploads the CPU pixels into an ebiten.Image on first use and
// whenever the content changed since the last upload.
func (s *skinBase) Texture(Vec2) *ebiten.Image {
	if s.rgba == nil || s.rgba.Rect.Empty() {
		return nil
	}
	if s.texture != nil && s.textureVersion == s.version {
		return s.texture
	}
	b := s.rgba.Bounds()
	if s.texture != nil && s.texture.Bounds().Size() != b.Size() {
		s.texture.Deallocate()
		s.texture = nil
	}
	if s.texture == nil {
		s.texture = ebiten.NewImage(b.Dx(), b.Dy())
	}
	s.texture.WritePixels(s.rgba.Pix)
	s.textureVersion = s.version
	return s.texture
}

// Dispose releases pixels and texture. Drawables still holding the skin see
// a version change and an empty silhouette.
func (s *skinBase) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	if s.texture != nil {
		s.texture.Deallocate()
		s.texture = nil
	}
	s.rgba = nil
	s.silhouette = Silhouette{}
	s.version++
}

// toRGBA copies img into a fresh, zero-origin premultiplied RGBA buffer.
func toRGBA(img image.Image) *image.RGBA {
	if img == nil {
		return image.NewRGBA(image.Rectangle{})
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
	return dst
}

// toNRGBA converts a Color for use as a straight-alpha image source.
func (c Color) toNRGBA() color.NRGBA {
	return color.NRGBA{
		R: clampByte(c.R * 255),
		G: clampByte(c.G * 255),
		B: clampByte(c.B * 255),
		A: clampByte(c.A * 255),
	}
}

// --- BitmapSkin ---

// BitmapSkin shows decoded raster content. Its resolution is the number of
// bitmap pixels per stage unit (2 for high-DPI costumes).
type BitmapSkin struct {
	skinBase
}

func newBitmapSkin(id SkinID, img image.Image, resolution float64, center *Vec2) *BitmapSkin {
	s := &BitmapSkin{skinBase{id: id}}
	s.SetBitmap(img, resolution, center)
	return s
}

// IsRaster returns true.
func (s *BitmapSkin) IsRaster() bool { return true }

// SetBitmap replaces the content. center is in bitmap pixels and is divided
// by resolution; nil centers the rotation on the image.
func (s *BitmapSkin) SetBitmap(img image.Image, resolution float64, center *Vec2) {
	if resolution <= 0 {
		resolution = 1
	}
	var native *Vec2
	if center != nil {
		native = &Vec2{center.X / resolution, center.Y / resolution}
	}
	s.setContent(toRGBA(img), resolution, native)
}
