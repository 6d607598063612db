package stagecore

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 values of a Drawable simultaneously. Create one
// via GlideTo, TweenDirection, TweenScale or TweenEffect and call Update(dt)
// each frame. Values are written through the drawable's setters, so dirty
// flags stay correct. If the target drawable is disposed, the group stops
// immediately.
//
// There is no global animation manager; callers run Update themselves.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	values [4]float64
	apply  func(d *Drawable, v *[4]float64)
	target *Drawable
	Done   bool
}

func newTweenGroup(d *Drawable, from, to []float64, duration float32, fn ease.TweenFunc, apply func(*Drawable, *[4]float64)) *TweenGroup {
	g := &TweenGroup{count: len(from), target: d, apply: apply}
	for i := range from {
		g.tweens[i] = gween.New(float32(from[i]), float32(to[i]), duration, fn)
		g.values[i] = from[i]
	}
	return g
}

// Update advances all tweens by dt seconds and applies the values to the
// target. If the target has been disposed, Done is set and no writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target == nil || g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		g.values[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
	g.apply(g.target, &g.values)
}

// GlideTo moves d to (x, y) over duration seconds. Positions are rounded to
// whole stage units on every step.
func GlideTo(d *Drawable, x, y float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	pos := d.Position()
	return newTweenGroup(d, []float64{pos.X, pos.Y}, []float64{x, y}, duration, fn,
		func(d *Drawable, v *[4]float64) { d.UpdatePosition(v[0], v[1]) })
}

// TweenDirection turns d to the given direction in degrees.
func TweenDirection(d *Drawable, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(d, []float64{d.Direction()}, []float64{to}, duration, fn,
		func(d *Drawable, v *[4]float64) { d.UpdateDirection(v[0]) })
}

// TweenScale animates the scale percentages of d.
func TweenScale(d *Drawable, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	s := d.Scale()
	return newTweenGroup(d, []float64{s.X, s.Y}, []float64{toX, toY}, duration, fn,
		func(d *Drawable, v *[4]float64) { d.UpdateScale(v[0], v[1]) })
}

// TweenEffect ramps the raw value of effect e, for example a ghost fade-out
// from 0 to 100.
func TweenEffect(d *Drawable, e Effect, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(d, []float64{d.RawEffectValue(e)}, []float64{to}, duration, fn,
		func(d *Drawable, v *[4]float64) { d.UpdateEffect(e, v[0]) })
}
