package stagecore

import "fmt"

// globalDebug mirrors the most recently set debug flag so that drawable and
// draw list operations (which lack a Renderer pointer) can check it cheaply.
var globalDebug bool

// SetDebugMode enables or disables debug mode. When enabled, use of disposed
// drawables and broken draw list invariants panic, and large scans are
// logged.
func SetDebugMode(enabled bool) {
	globalDebug = enabled
}

// debugCheckDisposed panics with a descriptive message when a disposed
// drawable is mutated. Callers skip this entirely outside debug mode.
func debugCheckDisposed(d *Drawable, op string) {
	if d.disposed {
		panic(fmt.Sprintf("stagecore debug: %s on disposed drawable %d", op, d.ID))
	}
}

// debugCheckDrawList panics if the draw list partition invariant is broken.
func debugCheckDrawList(l *DrawList) {
	if err := l.checkInvariants(); err != nil {
		panic("stagecore debug: draw list: " + err.Error())
	}
}

// debugScanThreshold is the scanned pixel count above which a query logs a
// debug message.
const debugScanThreshold = 480 * 360

// debugCheckScan logs queries that scan an unusually large region.
func debugCheckScan(op string, id DrawableID, bounds Rectangle) {
	pixels := (bounds.Width() + 1) * (bounds.Height() + 1)
	if pixels > debugScanThreshold {
		logger.Debug("large touching scan", "op", op, "drawable", id, "pixels", pixels)
	}
}
