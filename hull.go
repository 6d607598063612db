package stagecore

// ConvexHull extracts a clockwise (as seen on screen) polygon around the
// region where the drawable's touch predicate can hold, in texel space.
// Rows are scanned from the bottom of the texture to the top;
// each row band contributes its left and right extents to two monotone
// chains. Raster skins are covered for nearest sampling, other skins for
// bilinear sampling, which reaches one texel further. Distortion effects on
// the drawable are applied while scanning.
//
// Returns nil for a drawable without a skin or with a fully transparent one.
func ConvexHull(d *Drawable) []Vec2 {
	if d == nil || d.skin == nil {
		return nil
	}
	sil := d.skin.Silhouette()
	w, h := sil.Size()
	if w < 1 || h < 1 {
		return nil
	}

	var rows []hullRow
	if effects := d.enabledEffects & distortionMask; effects != 0 {
		rows = distortedHullRows(d, sil, effects)
	} else {
		rows = hullRows(sil, !d.skin.IsRaster())
	}

	var left, right []Vec2
	for _, r := range rows {
		left = pushLeftChain(left, Vec2{r.left, r.bottom})
		left = pushLeftChain(left, Vec2{r.left, r.top})
		right = pushRightChain(right, Vec2{r.right, r.bottom})
		right = pushRightChain(right, Vec2{r.right, r.top})
	}
	if len(left) == 0 {
		return nil
	}

	hull := make([]Vec2, 0, len(left)+len(right))
	hull = append(hull, left...)
	for i := len(right) - 1; i >= 0; i-- {
		hull = append(hull, right[i])
	}
	return hull
}

// hullRow is the horizontal extent of the touchable region within one
// horizontal band of texel space. top <= bottom (+Y down).
type hullRow struct {
	top, bottom float64
	left, right float64
}

// span is the first and last column of a row that matter to the hull;
// first is -1 for an empty row.
type span [2]int

var emptySpan = span{-1, -1}

func (a span) union(b span) span {
	switch {
	case a[0] < 0:
		return b
	case b[0] < 0:
		return a
	}
	return span{min(a[0], b[0]), max(a[1], b[1])}
}

func opaqueSpan(sil *Silhouette, y int) span {
	w, _ := sil.Size()
	for l := 0; l < w; l++ {
		if sil.alphaAt(l, y) == 0 {
			continue
		}
		r := w - 1
		for sil.alphaAt(r, y) == 0 {
			r--
		}
		return span{l, r}
	}
	return emptySpan
}

// sampleEdge returns the texel-space coordinate at which sampling starts to
// read texel k along an axis of n texels. Sampling reads texel
// floor(c*(n-1)/n) at coordinate c, so texel k answers for
// [sampleEdge(k), sampleEdge(k+1)).
func sampleEdge(k, n int) float64 {
	if k <= 0 {
		return 0
	}
	if n <= 1 {
		return float64(n)
	}
	return min(float64(k)*float64(n)/float64(n-1), float64(n))
}

// hullRows returns, bottom to top, the exact extent of the touchable region
// for an undistorted silhouette. Sample row iy reads texel row iy, and with
// linear sampling also row iy+1 and the column right of the sampled one.
func hullRows(sil *Silhouette, linear bool) []hullRow {
	w, h := sil.Size()
	spans := make([]span, h)
	for y := range h {
		spans[y] = opaqueSpan(sil, y)
	}

	var rows []hullRow
	for iy := h - 1; iy >= 0; iy-- {
		s := spans[iy]
		if linear && iy+1 < h {
			s = s.union(spans[iy+1])
		}
		if s[0] < 0 {
			continue
		}
		if linear {
			s[0] = max(s[0]-1, 0)
		}
		rows = append(rows, hullRow{
			top:    sampleEdge(iy, h),
			bottom: sampleEdge(iy+1, h),
			left:   sampleEdge(s[0], w),
			right:  sampleEdge(s[1]+1, w),
		})
	}
	return rows
}

// distortedHullRows samples the distorted touch predicate at texel centers
// and pads the result by a texel on every side.
func distortedHullRows(d *Drawable, sil *Silhouette, effects EffectMask) []hullRow {
	w, h := sil.Size()
	nativeSize := d.skin.Size()
	linear := !d.skin.IsRaster()
	touching := func(x, y int) bool {
		u := (float64(x) + 0.5) / float64(w)
		v := (float64(y) + 0.5) / float64(h)
		u, v = transformTexturePoint(u, v, effects, &d.effectValues, nativeSize)
		if linear {
			return sil.IsTouchingLinear(u, v)
		}
		return sil.IsTouchingNearest(u, v)
	}

	spans := make([]span, h)
	for y := range h {
		spans[y] = emptySpan
		for x := 0; x < w; x++ {
			if touching(x, y) {
				spans[y][0] = x
				break
			}
		}
		if spans[y][0] < 0 {
			continue
		}
		spans[y][1] = spans[y][0]
		for x := w - 1; x > spans[y][0]; x-- {
			if touching(x, y) {
				spans[y][1] = x
				break
			}
		}
	}

	var rows []hullRow
	for y := h - 1; y >= 0; y-- {
		s := spans[y]
		if y > 0 {
			s = s.union(spans[y-1])
		}
		if y+1 < h {
			s = s.union(spans[y+1])
		}
		if s[0] < 0 {
			continue
		}
		rows = append(rows, hullRow{
			top:    float64(y),
			bottom: float64(y + 1),
			left:   float64(max(s[0]-1, 0)),
			right:  float64(min(s[1]+2, w)),
		})
	}
	return rows
}

// cross returns the z component of (a-o) x (b-o). In texel space (+Y down)
// a positive value is a clockwise turn on screen.
func cross(o, a, b Vec2) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// pushLeftChain appends p to the left chain (walked upward), popping points
// that would not make a strictly clockwise turn.
func pushLeftChain(chain []Vec2, p Vec2) []Vec2 {
	for len(chain) >= 2 && cross(chain[len(chain)-2], chain[len(chain)-1], p) <= 0 {
		chain = chain[:len(chain)-1]
	}
	return append(chain, p)
}

// pushRightChain appends p to the right chain (walked upward), popping points
// that would not make a strictly counter-clockwise turn.
func pushRightChain(chain []Vec2, p Vec2) []Vec2 {
	for len(chain) >= 2 && cross(chain[len(chain)-2], chain[len(chain)-1], p) >= 0 {
		chain = chain[:len(chain)-1]
	}
	return append(chain, p)
}
