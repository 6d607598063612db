// Package stagecore is the query core of a 2D sprite stage for [Ebitengine].
//
// A stage holds drawables: positioned, rotated and scaled sprite instances
// that each show one skin (bitmap, vector, pen layer or text bubble). On top
// of drawing them, stagecore answers pixel-exact questions about the stage:
// does this sprite touch that one, does it touch a color, which sprite is
// under the pointer, what color is this pixel.
//
// # Quick start
//
//	r, err := stagecore.NewRenderer(stagecore.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	r.SetLayerGroupOrdering([]string{"background", "sprite"})
//
//	skin := r.CreateBitmapSkin(img, 1, nil)
//	id, _ := r.CreateDrawable("sprite")
//	r.UpdateDrawable(id,
//		stagecore.SetSkin{Skin: skin},
//		stagecore.SetPosition{X: 20, Y: -40},
//		stagecore.SetDirection{Degrees: 45},
//	)
//
//	if r.IsTouchingDrawables(id, nil) {
//		// ...
//	}
//
// To show the stage, call [Renderer.Draw] from an [ebiten.Game]'s Draw.
//
// # Coordinates
//
// Stage space has +Y up and the origin at the center, bounded by the
// [Config] stage rectangle (480x360 by default). Skins live in texel space:
// +X right, +Y down, origin at the top-left corner. Pointer queries take
// client coordinates (+Y down, origin at the canvas top-left) and convert
// them with [Stage.ClientToStageBounds].
//
// # Caching
//
// Drawables cache their transform, inverse, bounds and convex hull behind
// dirty flags. Setters only mark state dirty; the next read recomputes.
// Skins carry a version counter that drawables compare on read, so a skin
// update invalidates every drawable showing it without callbacks.
//
// Tight bounds ([Drawable.Bounds]) require a current convex hull. The
// [Renderer] refreshes hulls itself; callers driving a bare [Drawable] must
// supply one with [ConvexHull] and [Drawable.SetConvexHullPoints] or get
// [ErrHullNotReady].
//
// # Logging and debug mode
//
// stagecore is silent by default. Configuration mistakes and queries against
// destroyed drawables are logged through [SetLogger]. [SetDebugMode] turns
// invariant violations (draw list partitions, use of disposed drawables)
// into panics.
//
// [Ebitengine]: https://ebitengine.org
package stagecore
