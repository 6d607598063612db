package stagecore

import (
	"image"
	"math/rand/v2"
	"testing"
)

var (
	rgbWhite = RGB{255, 255, 255}
	rgbRed   = RGB{255, 0, 0}
	rgbGreen = RGB{0, 255, 0}
	rgbBlue  = RGB{0, 0, 255}
)

func TestIsTouchingDrawablesOverlap(t *testing.T) {
	r := newTestRenderer(t)
	a := addSquare(t, r, 10, 10, red, 0, 0)
	b := addSquare(t, r, 10, 10, green, 5, 5)

	if !r.IsTouchingDrawables(a, []DrawableID{b}) {
		t.Error("overlapping squares should touch")
	}
	_ = r.UpdateDrawable(b, SetPosition{X: 20, Y: 20})
	if r.IsTouchingDrawables(a, []DrawableID{b}) {
		t.Error("separated squares should not touch")
	}
}

func TestIsTouchingDrawablesSkips(t *testing.T) {
	r := newTestRenderer(t)
	a := addSquare(t, r, 10, 10, red, 0, 0)
	b := addSquare(t, r, 10, 10, green, 0, 0)

	if r.IsTouchingDrawables(a, []DrawableID{a}) {
		t.Error("a drawable should not touch itself")
	}
	if !r.IsTouchingDrawables(a, nil) {
		t.Error("nil candidates should include every drawable")
	}

	_ = r.UpdateDrawable(b, SetVisible{Visible: false})
	if r.IsTouchingDrawables(a, nil) {
		t.Error("hidden candidate should be skipped")
	}
	_ = r.UpdateDrawable(b, SetVisible{Visible: true})
	_ = r.UpdateDrawable(a, SetVisible{Visible: false})
	if r.IsTouchingDrawables(a, nil) {
		t.Error("hidden drawable should touch nothing")
	}
	if r.IsTouchingDrawables(99, nil) {
		t.Error("missing drawable should touch nothing")
	}
}

func TestIsTouchingDrawablesIgnoresBubbles(t *testing.T) {
	r := newTestRenderer(t)
	a := addSquare(t, r, 10, 10, red, 0, 0)
	bubble := r.CreateTextBubbleSkin(BubbleSay, "hello", false)
	id, _ := r.CreateDrawable("sprite")
	_ = r.UpdateDrawable(id, SetSkin{Skin: bubble})

	if r.IsTouchingDrawables(a, nil) {
		t.Error("text bubbles should not count as touching")
	}
}

func TestGhostSamplesTransparent(t *testing.T) {
	r := newTestRenderer(t)
	a := addSquare(t, r, 10, 10, red, 0, 0)
	_ = r.UpdateDrawable(a, SetEffect{Effect: EffectGhost, Value: 100})

	d := r.Drawable(a)
	for _, p := range []Vec2{{0, 0}, {-4, 3}, {4, -5}} {
		if c := d.SampleColor(p.X, p.Y, EffectMaskAll); c[3] != 0 {
			t.Errorf("alpha at %v = %d, want 0", p, c[3])
		}
	}
	if got := r.SampleColor(0, 0, []DrawableID{a}); got != rgbWhite {
		t.Errorf("composite = %v, want background", got)
	}
}

func TestSampleColorTopmostWins(t *testing.T) {
	r := newTestRenderer(t)
	addSquare(t, r, 10, 10, blue, 0, 0)
	addSquare(t, r, 10, 10, green, 0, 0)
	addSquare(t, r, 10, 10, red, 0, 0)

	if got := r.SampleColor(0, 0, r.DrawList().IDs()); got != rgbRed {
		t.Errorf("composite = %v, want red", got)
	}
	if got := r.ColorAt(0, 0); got != rgbRed {
		t.Errorf("ColorAt = %v, want red", got)
	}
}

func TestSampleColorBackground(t *testing.T) {
	r := newTestRenderer(t)
	if got := r.ColorAt(0, 0); got != rgbWhite {
		t.Errorf("empty stage = %v, want white", got)
	}
	r.SetBackgroundColor(Color{0, 0, 1, 1})
	if got := r.ColorAt(100, 100); got != rgbBlue {
		t.Errorf("empty stage = %v, want blue", got)
	}
}

func TestSampleColorSingleOpaque(t *testing.T) {
	r := newTestRenderer(t)
	a := addSquare(t, r, 10, 10, RGBA8{10, 200, 30, 255}, 0, 0)
	ids := []DrawableID{a}
	want := RGB{10, 200, 30}
	if got := r.SampleColor(1, 1, ids); got != want {
		t.Errorf("composite = %v, want %v", got, want)
	}
	if got := r.SampleColor(1.7, 1.2, ids); got != want {
		t.Errorf("fractional point composite = %v, want %v", got, want)
	}
}

func TestSampleColorHalfAlpha(t *testing.T) {
	r := newTestRenderer(t)
	r.SetBackgroundColor(Color{0, 0, 0, 1})
	// Premultiplied half-transparent white.
	a := addSquare(t, r, 10, 10, RGBA8{128, 128, 128, 128}, 0, 0)
	got := r.SampleColor(0, 0, []DrawableID{a})
	if got != (RGB{128, 128, 128}) {
		t.Errorf("composite = %v, want {128 128 128}", got)
	}
}

// halfSkin is a 10x10 bitmap whose left half is red and right half blue.
func halfSkin() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := range 10 {
		for x := range 10 {
			c := blue
			if x < 5 {
				c = red
			}
			copy(img.Pix[img.PixOffset(x, y):], c[:])
		}
	}
	return img
}

func TestIsTouchingColor(t *testing.T) {
	r := newTestRenderer(t)
	skin := r.CreateBitmapSkin(halfSkin(), 1, nil)
	a, _ := r.CreateDrawable("sprite")
	_ = r.UpdateDrawable(a, SetSkin{Skin: skin})
	addSquare(t, r, 4, 4, green, -3, 0)

	if !r.IsTouchingColor(a, rgbGreen, nil) {
		t.Error("should touch green")
	}
	if r.IsTouchingColor(a, rgbRed, nil) {
		t.Error("should not see its own red")
	}
	if r.IsTouchingColor(a, RGB{255, 0, 255}, nil) {
		t.Error("should not touch magenta")
	}
	if r.IsTouchingColor(99, rgbGreen, nil) {
		t.Error("missing drawable should touch nothing")
	}
}

func TestIsTouchingColorMask(t *testing.T) {
	r := newTestRenderer(t)
	skin := r.CreateBitmapSkin(halfSkin(), 1, nil)
	a, _ := r.CreateDrawable("sprite")
	_ = r.UpdateDrawable(a, SetSkin{Skin: skin})
	addSquare(t, r, 4, 4, green, -3, 0)

	if r.IsTouchingColor(a, rgbGreen, &rgbBlue) {
		t.Error("blue half does not overlap green")
	}
	if !r.IsTouchingColor(a, rgbGreen, &rgbRed) {
		t.Error("red half overlaps green")
	}

	// The mask reads the drawable's own color before ghosting.
	_ = r.UpdateDrawable(a, SetEffect{Effect: EffectGhost, Value: 100})
	if !r.IsTouchingColor(a, rgbGreen, &rgbRed) {
		t.Error("mask should ignore ghost")
	}
}

func TestIsTouchingColorBackground(t *testing.T) {
	r := newTestRenderer(t)
	a := addSquare(t, r, 10, 10, red, 0, 0)
	if !r.IsTouchingColor(a, rgbWhite, nil) {
		t.Error("lone drawable should touch the background")
	}

	cover := addSquare(t, r, 30, 30, blue, 0, 0)
	if r.IsTouchingColor(a, rgbWhite, nil) {
		t.Error("covered drawable should not see the background")
	}
	if !r.IsTouchingColor(a, rgbBlue, nil) {
		t.Error("covered drawable should touch the cover")
	}

	_ = r.UpdateDrawable(cover, SetVisible{Visible: false})
	if !r.IsTouchingColor(a, rgbWhite, nil) {
		t.Error("hidden cover should reveal the background")
	}

	_ = r.UpdateDrawable(a, SetPosition{X: 1000, Y: 1000})
	if r.IsTouchingColor(a, rgbWhite, nil) {
		t.Error("off-stage drawable should touch nothing")
	}
}

func TestIsTouchingColorTolerance(t *testing.T) {
	r := newTestRenderer(t)
	a := addSquare(t, r, 10, 10, red, 0, 0)
	addSquare(t, r, 10, 10, RGBA8{200, 100, 50, 255}, 0, 0)

	if !r.IsTouchingColor(a, RGB{203, 102, 60}, nil) {
		t.Error("low bits should be ignored")
	}
	if r.IsTouchingColor(a, RGB{210, 100, 50}, nil) {
		t.Error("red differs in its high bits")
	}
}

func TestPickTopmost(t *testing.T) {
	r := newTestRenderer(t)
	a := addSquare(t, r, 10, 10, red, 0, 0)
	b := addSquare(t, r, 10, 10, green, 5, 0)

	// Client (240, 180) is stage pixel (0, 0).
	if got := r.Pick(240, 180, 1, 1, nil); got != b {
		t.Errorf("Pick = %d, want %d (topmost)", got, b)
	}
	if got := r.Pick(237, 180, 1, 1, nil); got != a {
		t.Errorf("Pick = %d, want %d", got, a)
	}
	if got := r.Pick(240, 180, 1, 1, []DrawableID{a}); got != a {
		t.Errorf("Pick with candidates = %d, want %d", got, a)
	}
	if got := r.Pick(10, 10, 1, 1, nil); got != IDNone {
		t.Errorf("Pick on empty area = %d, want IDNone", got)
	}
}

func TestPickSkipsGhostedAndHidden(t *testing.T) {
	r := newTestRenderer(t)
	a := addSquare(t, r, 10, 10, red, 0, 0)
	b := addSquare(t, r, 10, 10, green, 5, 0)

	_ = r.UpdateDrawable(b, SetEffect{Effect: EffectGhost, Value: 100})
	if got := r.Pick(240, 180, 1, 1, nil); got != a {
		t.Errorf("Pick = %d, want %d (ghosted skipped)", got, a)
	}
	_ = r.UpdateDrawable(b, SetEffect{Effect: EffectGhost, Value: 50})
	if got := r.Pick(240, 180, 1, 1, nil); got != b {
		t.Errorf("Pick = %d, want %d (half ghost still pickable)", got, b)
	}
	_ = r.UpdateDrawable(b, SetVisible{Visible: false})
	if got := r.Pick(240, 180, 1, 1, nil); got != a {
		t.Errorf("Pick = %d, want %d (hidden skipped)", got, a)
	}
}

func TestPickTieGoesToLowerID(t *testing.T) {
	r := newTestRenderer(t)
	right := addSquare(t, r, 4, 4, red, 2, 0)
	left := addSquare(t, r, 4, 4, green, -2, 0)
	if right > left {
		t.Fatal("ids should be allocated in order")
	}
	// A 2x1 footprint covers stage pixels -1 and 0, one for each square.
	if got := r.Pick(240, 180, 2, 1, nil); got != right {
		t.Errorf("Pick = %d, want %d", got, right)
	}
}

func TestDrawableTouching(t *testing.T) {
	r := newTestRenderer(t)
	a := addSquare(t, r, 10, 10, red, 0, 0)
	if !r.DrawableTouching(a, 240, 180, 1, 1) {
		t.Error("should touch the center")
	}
	if r.DrawableTouching(a, 10, 10, 3, 3) {
		t.Error("should not touch the corner")
	}
	// Footprints are clamped to 3x3; pixel (6, 0) is out of reach.
	if r.DrawableTouching(a, 247, 180, 100, 1) {
		t.Error("footprint should be clamped")
	}
	if r.DrawableTouching(99, 240, 180, 1, 1) {
		t.Error("missing drawable should touch nothing")
	}
}

func TestExtractColor(t *testing.T) {
	r := newTestRenderer(t)
	addSquare(t, r, 10, 10, red, 0, 0)

	ex := r.ExtractColor(240, 180, 1)
	if ex.Width != 3 || ex.Height != 3 || len(ex.Pix) != 36 {
		t.Fatalf("extract size = %dx%d (%d bytes)", ex.Width, ex.Height, len(ex.Pix))
	}
	if ex.Color != rgbRed {
		t.Errorf("center = %v, want red", ex.Color)
	}
	for i := 0; i < len(ex.Pix); i += 4 {
		if RGB(ex.Pix[i:i+3]) != rgbRed || ex.Pix[i+3] != 255 {
			t.Fatalf("pixel %d = %v, want opaque red", i/4, ex.Pix[i:i+4])
		}
	}

	if got := r.ExtractColor(10, 10, -1); got.Width != 1 || got.Color != rgbWhite {
		t.Errorf("corner extract = %+v, want a single white pixel", got)
	}
}

func TestIsTouchingDrawablesMatchesPixelScan(t *testing.T) {
	rng := rand.New(rand.NewPCG(21, 22))
	r := newTestRenderer(t)
	skin := r.CreateVectorSkin(quadShape(), nil)
	a, _ := r.CreateDrawable("sprite")
	b, _ := r.CreateDrawable("sprite")
	da, db := r.Drawable(a), r.Drawable(b)

	for i := range 60 {
		_ = r.UpdateDrawable(a, SetSkin{Skin: skin}, SetScale{X: 150, Y: 150},
			SetDirection{Degrees: rng.Float64() * 360})
		_ = r.UpdateDrawable(b, SetSkin{Skin: skin}, SetScale{X: 150, Y: 150},
			SetDirection{Degrees: rng.Float64() * 360},
			SetPosition{X: rng.Float64()*60 - 30, Y: rng.Float64()*60 - 30})

		want := false
		for y := -60.0; y <= 60 && !want; y++ {
			for x := -60.0; x <= 60; x++ {
				if da.IsTouching(x, y) && db.IsTouching(x, y) {
					want = true
					break
				}
			}
		}
		if got := r.IsTouchingDrawables(a, []DrawableID{b}); got != want {
			t.Fatalf("case %d (dirA=%.1f dirB=%.1f posB=%v): IsTouchingDrawables = %v, pixel scan = %v",
				i, da.Direction(), db.Direction(), db.Position(), got, want)
		}
	}
}

func TestPickRotatedVectorEdges(t *testing.T) {
	rng := rand.New(rand.NewPCG(23, 24))
	r := newTestRenderer(t)
	skin := r.CreateVectorSkin(quadShape(), nil)
	id, _ := r.CreateDrawable("sprite")
	d := r.Drawable(id)

	for range 10 {
		_ = r.UpdateDrawable(id, SetSkin{Skin: skin},
			SetDirection{Degrees: rng.Float64() * 360},
			SetScale{X: 100 + rng.Float64()*150, Y: 100 + rng.Float64()*150})
		for y := -40.0; y <= 40; y++ {
			for x := -40.0; x <= 40; x++ {
				if !d.IsTouching(x, y) {
					continue
				}
				// Stage pixel (x, y) is client pixel (x+240, 180-y).
				if got := r.Pick(x+240, 180-y, 1, 1, nil); got != id {
					t.Fatalf("Pick at touching pixel (%v, %v) = %d, want %d", x, y, got, id)
				}
			}
		}
	}
}

func TestSampleColorFollowsTouchSampling(t *testing.T) {
	d := NewDrawable(1)
	d.SetSkin(newVectorSkin(0, quadShape(), nil))
	sil := d.Skin().Silhouette()

	check := func(name string, wantLinear bool) (edgeHits int) {
		for y := -50.0; y <= 50; y++ {
			for x := -50.0; x <= 50; x++ {
				u, v, _ := d.LocalPosition(x, y)
				want := sil.ColorAtNearest(u, v)
				if wantLinear {
					want = sil.ColorAtLinear(u, v)
				}
				got := d.SampleColor(x, y, 0)
				if got != want {
					t.Fatalf("%s: SampleColor(%v, %v) = %v, want %v", name, x, y, got, want)
				}
				if got[3] > 0 && sil.ColorAtNearest(u, v)[3] == 0 {
					edgeHits++
				}
			}
		}
		return edgeHits
	}

	check("upright", false)

	d.UpdateDirection(37)
	d.UpdateScale(230, 230)
	if check("rotated", true) == 0 {
		t.Error("rotated sampling should see edge texels the nearest texel misses")
	}
}
