package stagecore

import (
	"image"
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Bubble layout constants, in stage units.
const (
	bubbleMaxLineWidth = 170
	bubbleMinWidth     = 50
	bubblePadding      = 10
	bubbleTailHeight   = 12
	bubbleStrokeWidth  = 4
	bubbleLineHeight   = 16
	bubbleCornerRadius = 16
)

var (
	bubbleFill   = Color{1, 1, 1, 1}
	bubbleStroke = Color{0.77, 0.8, 0.85, 1}
	bubbleText   = Color{0x57 / 255.0, 0x5E / 255.0, 0x75 / 255.0, 1}
)

// BubbleKind selects the bubble outline.
type BubbleKind uint8

const (
	// BubbleSay draws a speech bubble with a pointed tail.
	BubbleSay BubbleKind = iota
	// BubbleThink draws a thought bubble with a trail of circles.
	BubbleThink
)

// TextBubbleSkin shows word-wrapped text inside a speech or thought bubble.
// Bubbles are never candidates for touching queries.
type TextBubbleSkin struct {
	skinBase
	kind       BubbleKind
	text       string
	pointsLeft bool
	face       font.Face
	lines      []string
	raster     vector.Rasterizer
}

func newTextBubbleSkin(id SkinID, kind BubbleKind, text string, pointsLeft bool) *TextBubbleSkin {
	s := &TextBubbleSkin{
		skinBase: skinBase{id: id},
		face:     basicfont.Face7x13,
	}
	s.SetBubble(kind, text, pointsLeft)
	return s
}

// IsRaster returns false.
func (s *TextBubbleSkin) IsRaster() bool { return false }

// Text returns the bubble's text.
func (s *TextBubbleSkin) Text() string { return s.text }

// Kind returns the bubble outline kind.
func (s *TextBubbleSkin) Kind() BubbleKind { return s.kind }

// PointsLeft reports whether the tail points to the left.
func (s *TextBubbleSkin) PointsLeft() bool { return s.pointsLeft }

// Lines returns the wrapped lines of the last layout.
func (s *TextBubbleSkin) Lines() []string { return s.lines }

// SetBubble replaces the bubble content and re-renders it. The rotation
// center is the tail tip, so positioning the drawable places the tip.
func (s *TextBubbleSkin) SetBubble(kind BubbleKind, text string, pointsLeft bool) {
	s.kind = kind
	s.text = text
	s.pointsLeft = pointsLeft
	s.lines = wrapText(s.face, text, bubbleMaxLineWidth)

	var textW float64
	for _, line := range s.lines {
		textW = math.Max(textW, measure(s.face, line))
	}
	w := math.Max(textW, bubbleMinWidth) + 2*bubblePadding
	bodyH := float64(len(s.lines))*bubbleLineHeight + 2*bubblePadding
	h := bodyH + bubbleTailHeight

	rgba := image.NewRGBA(image.Rect(0, 0, int(math.Ceil(w)), int(math.Ceil(h))))
	s.drawBody(rgba, w, bodyH)
	s.drawText(rgba, w)

	tip := Vec2{bubbleCornerRadius, h}
	if pointsLeft {
		tip.X = w - bubbleCornerRadius
	}
	s.setContent(rgba, 1, &tip)
}

func (s *TextBubbleSkin) drawBody(dst *image.RGBA, w, h float64) {
	b := dst.Bounds()
	half := bubbleStrokeWidth / 2.0

	// Outline first, then the fill inset by the stroke.
	s.raster.Reset(b.Dx(), b.Dy())
	roundedRect(&s.raster, half, half, w-half, h-half, bubbleCornerRadius)
	s.tail(&s.raster, w, h, 0)
	s.raster.Draw(dst, b, image.NewUniform(bubbleStroke.toNRGBA()), image.Point{})

	s.raster.Reset(b.Dx(), b.Dy())
	roundedRect(&s.raster, half+bubbleStrokeWidth/2, half+bubbleStrokeWidth/2,
		w-half-bubbleStrokeWidth/2, h-half-bubbleStrokeWidth/2, bubbleCornerRadius-bubbleStrokeWidth/2)
	s.tail(&s.raster, w, h, bubbleStrokeWidth)
	s.raster.Draw(dst, b, image.NewUniform(bubbleFill.toNRGBA()), image.Point{})
}

// tail adds the bubble tail below the body. inset shrinks it for the fill
// pass.
func (s *TextBubbleSkin) tail(r *vector.Rasterizer, w, bodyH, inset float64) {
	x := float64(bubbleCornerRadius)
	dir := 1.0
	if s.pointsLeft {
		x = w - bubbleCornerRadius
		dir = -1
	}
	switch s.kind {
	case BubbleThink:
		circle(r, x+dir*10, bodyH+3, 5-inset/2)
		circle(r, x+dir*2, bodyH+9, 3-inset/2)
	default:
		top := bodyH - bubbleStrokeWidth - inset/2
		r.MoveTo(float32(x+dir*(4+inset/2)), float32(top))
		r.LineTo(float32(x+dir*(22-inset)), float32(top))
		r.LineTo(float32(x), float32(bodyH+bubbleTailHeight-inset))
		r.ClosePath()
	}
}

func (s *TextBubbleSkin) drawText(dst *image.RGBA, w float64) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(bubbleText.toNRGBA()),
		Face: s.face,
	}
	ascent := float64(s.face.Metrics().Ascent.Ceil())
	for i, line := range s.lines {
		lineW := measure(s.face, line)
		x := (w - lineW) / 2
		y := bubblePadding + float64(i)*bubbleLineHeight + ascent
		d.Dot = fixed.P(int(x), int(y))
		d.DrawString(line)
	}
}

// measure returns the advance width of s in pixels.
func measure(face font.Face, s string) float64 {
	return float64(font.MeasureString(face, s)) / 64
}

// wrapText breaks text into lines no wider than maxWidth. Words are kept
// whole unless a single word is wider than a line, in which case it is split
// at the last rune that fits. Explicit newlines always break.
func wrapText(face font.Face, text string, maxWidth float64) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		var cur strings.Builder
		curW := 0.0
		spaceW := measure(face, " ")

		flush := func() {
			lines = append(lines, cur.String())
			cur.Reset()
			curW = 0
		}

		for _, word := range strings.Fields(para) {
			wordW := measure(face, word)
			if cur.Len() > 0 && curW+spaceW+wordW > maxWidth {
				flush()
			}
			for wordW > maxWidth {
				head, rest := splitWord(face, word, maxWidth)
				if cur.Len() > 0 {
					flush()
				}
				lines = append(lines, head)
				word = rest
				wordW = measure(face, word)
			}
			if word == "" {
				continue
			}
			if cur.Len() > 0 {
				cur.WriteByte(' ')
				curW += spaceW
			}
			cur.WriteString(word)
			curW += wordW
		}
		if cur.Len() > 0 || len(lines) == 0 {
			flush()
		}
	}
	return lines
}

// splitWord returns the longest prefix of word that fits in maxWidth (at
// least one rune) and the remainder.
func splitWord(face font.Face, word string, maxWidth float64) (string, string) {
	end := 0
	for i := 0; i < len(word); {
		_, size := utf8.DecodeRuneInString(word[i:])
		if end > 0 && measure(face, word[:i+size]) > maxWidth {
			break
		}
		i += size
		end = i
	}
	return word[:end], word[end:]
}

// roundedRect adds a closed rounded rectangle path.
func roundedRect(r *vector.Rasterizer, x0, y0, x1, y1, radius float64) {
	radius = math.Max(0, math.Min(radius, math.Min(x1-x0, y1-y0)/2))
	const k = 0.5523 // cubic bezier circle approximation
	c := radius * (1 - k)
	f := func(v float64) float32 { return float32(v) }
	r.MoveTo(f(x0+radius), f(y0))
	r.LineTo(f(x1-radius), f(y0))
	r.CubeTo(f(x1-c), f(y0), f(x1), f(y0+c), f(x1), f(y0+radius))
	r.LineTo(f(x1), f(y1-radius))
	r.CubeTo(f(x1), f(y1-c), f(x1-c), f(y1), f(x1-radius), f(y1))
	r.LineTo(f(x0+radius), f(y1))
	r.CubeTo(f(x0+c), f(y1), f(x0), f(y1-c), f(x0), f(y1-radius))
	r.LineTo(f(x0), f(y0+radius))
	r.CubeTo(f(x0), f(y0+c), f(x0+c), f(y0), f(x0+radius), f(y0))
	r.ClosePath()
}

// circle adds a closed circle path.
func circle(r *vector.Rasterizer, cx, cy, radius float64) {
	if radius <= 0 {
		return
	}
	roundedRect(r, cx-radius, cy-radius, cx+radius, cy+radius, radius)
}
