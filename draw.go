package stagecore

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// screenMatrix maps stage space onto a w x h pixel target, flipping Y so
// the top of the stage is row 0.
func (s *Stage) screenMatrix(w, h int) [6]float64 {
	native := s.NativeSize()
	sx, sy := float64(w)/native.X, float64(h)/native.Y
	return [6]float64{sx, 0, 0, -sy, -s.bounds.Left * sx, s.bounds.Top * sy}
}

// geoM converts an affine matrix to an ebiten.GeoM.
func geoM(m [6]float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}

// Draw clears screen to the background color and draws every visible
// drawable in draw list order, stretched so the stage fills the screen.
// Drawables with effects go through the effect shader.
func (r *Renderer) Draw(screen *ebiten.Image) {
	screen.Fill(r.background.toRGBA())
	b := screen.Bounds()
	view := r.stage.screenMatrix(b.Dx(), b.Dy())

	for _, id := range r.drawList.IDs() {
		d := r.drawables[id]
		if d == nil || !d.Visible() || d.Skin() == nil {
			continue
		}
		tex := d.Skin().Texture(d.Scale())
		if tex == nil {
			continue
		}
		m := multiplyAffine(view, d.Transform())
		if d.EnabledEffects() == 0 {
			var op ebiten.DrawImageOptions
			op.GeoM = geoM(m)
			if !d.useNearest() {
				op.Filter = ebiten.FilterLinear
			}
			screen.DrawImage(tex, &op)
			continue
		}
		r.drawWithEffects(screen, tex, d, m)
	}
}

// drawWithEffects draws the skin texture as a transformed quad through the
// effect shader.
func (r *Renderer) drawWithEffects(screen, tex *ebiten.Image, d *Drawable, m [6]float64) {
	if r.effectShader == nil {
		r.effectShader = newEffectShaderState()
	}
	st := r.effectShader
	tb := tex.Bounds()
	w, h := float64(tb.Dx()), float64(tb.Dy())
	corners := [4][2]float64{{0, 0}, {w, 0}, {0, h}, {w, h}}
	for i, c := range corners {
		x, y := transformPoint(m, c[0], c[1])
		st.vertices[i] = ebiten.Vertex{
			DstX:   float32(x),
			DstY:   float32(y),
			SrcX:   float32(float64(tb.Min.X) + c[0]),
			SrcY:   float32(float64(tb.Min.Y) + c[1]),
			ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
		}
	}
	st.setUniforms(d)
	st.op.Images[0] = tex
	screen.DrawTrianglesShader(st.vertices[:], st.indices[:], ensureEffectShader(), &st.op)
}
