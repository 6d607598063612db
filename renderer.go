package stagecore

import (
	"fmt"
	"image"
)

// Renderer is the top-level object that owns skins, drawables, the draw
// list and the stage. It is not safe for concurrent use; every query runs to
// completion before returning.
type Renderer struct {
	stage      *Stage
	background Color

	skins          map[SkinID]Skin
	drawables      map[DrawableID]*Drawable
	drawableGroups map[DrawableID]string
	drawList       *DrawList

	nextSkinID     SkinID
	nextDrawableID DrawableID

	// Draw state, see draw.go.
	effectShader *effectShaderState
}

// NewRenderer creates a renderer for the stage described by cfg.
func NewRenderer(cfg Config) (*Renderer, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("new renderer: %w", err)
	}
	r := &Renderer{
		stage:          newStage(cfg),
		background:     cfg.Background,
		skins:          make(map[SkinID]Skin),
		drawables:      make(map[DrawableID]*Drawable),
		drawableGroups: make(map[DrawableID]string),
		drawList:       NewDrawList(),
	}
	if cfg.Debug {
		SetDebugMode(true)
	}
	if len(cfg.LayerGroups) > 0 {
		if err := r.SetLayerGroupOrdering(cfg.LayerGroups); err != nil {
			return nil, fmt.Errorf("new renderer: %w", err)
		}
	}
	return r, nil
}

// Stage returns the stage geometry.
func (r *Renderer) Stage() *Stage { return r.stage }

// DrawList returns the global draw order. The list MUST NOT be mutated
// directly; use the Renderer's order methods.
func (r *Renderer) DrawList() *DrawList { return r.drawList }

// SetLayerGroupOrdering sets the back-to-front order of layer groups. It
// fails once any drawable exists.
func (r *Renderer) SetLayerGroupOrdering(groups []string) error {
	return r.drawList.SetGroupOrdering(groups)
}

// BackgroundColor returns the stage clear color.
func (r *Renderer) BackgroundColor() Color { return r.background }

// SetBackgroundColor sets the stage clear color used for drawing and for
// color compositing where no drawable covers a pixel.
func (r *Renderer) SetBackgroundColor(c Color) { r.background = c }

// SetStageSize changes the stage rectangle. Pen skins are reallocated for
// the new size and lose their content.
func (r *Renderer) SetStageSize(xLeft, xRight, yBottom, yTop float64) {
	r.stage.Resize(xLeft, xRight, yBottom, yTop)
	for _, s := range r.skins {
		if pen, ok := s.(*PenSkin); ok {
			pen.Resize(r.stage.Bounds())
		}
	}
}

// --- Drawables ---

// CreateDrawable creates a drawable in the named layer group and returns its
// id. An unknown group is logged and reported; no drawable is created.
func (r *Renderer) CreateDrawable(group string) (DrawableID, error) {
	if !r.drawList.HasGroup(group) {
		logger.Warn("cannot create drawable", "group", group, "err", ErrUnknownLayerGroup)
		return IDNone, fmt.Errorf("create drawable in %q: %w", group, ErrUnknownLayerGroup)
	}
	id := r.nextDrawableID
	r.nextDrawableID++
	if err := r.drawList.Add(id, group); err != nil {
		return IDNone, fmt.Errorf("create drawable: %w", err)
	}
	r.drawables[id] = NewDrawable(id)
	r.drawableGroups[id] = group
	return id, nil
}

// DestroyDrawable removes a drawable from its layer group and disposes it.
// group must name the group the drawable was created in.
func (r *Renderer) DestroyDrawable(id DrawableID, group string) error {
	if !r.drawList.HasGroup(group) {
		logger.Warn("cannot destroy drawable", "id", id, "group", group, "err", ErrUnknownLayerGroup)
		return fmt.Errorf("destroy drawable %d in %q: %w", id, group, ErrUnknownLayerGroup)
	}
	d, ok := r.drawables[id]
	if !ok {
		logger.Warn("cannot destroy drawable", "id", id, "err", ErrNoSuchDrawable)
		return fmt.Errorf("destroy drawable %d: %w", id, ErrNoSuchDrawable)
	}
	if !r.drawList.Remove(id, group) {
		return fmt.Errorf("destroy drawable %d: not in group %q", id, group)
	}
	d.Dispose()
	delete(r.drawables, id)
	delete(r.drawableGroups, id)
	return nil
}

// Drawable returns the drawable with the given id, or nil.
func (r *Renderer) Drawable(id DrawableID) *Drawable {
	return r.drawables[id]
}

// lookupDrawable returns the drawable or logs a warning for a missing id.
func (r *Renderer) lookupDrawable(op string, id DrawableID) (*Drawable, bool) {
	d, ok := r.drawables[id]
	if !ok {
		logger.Warn(op+": no such drawable", "id", id)
	}
	return d, ok
}

// DrawableOrder returns the drawable's index in the global draw order, or
// -1 if it is not in the list.
func (r *Renderer) DrawableOrder(id DrawableID) int {
	return r.drawList.Order(id)
}

// SetDrawableOrder moves a drawable within its layer group. See
// DrawList.SetOrder for the meaning of the arguments.
func (r *Renderer) SetDrawableOrder(id DrawableID, order int, group string, relative bool, minOrder int) (int, bool) {
	return r.drawList.SetOrder(id, order, group, relative, minOrder)
}

// --- Update commands ---

// DrawableUpdate is one property change applied by UpdateDrawable.
type DrawableUpdate interface {
	apply(r *Renderer, d *Drawable) error
}

// SetPosition moves a drawable; coordinates are rounded to whole units.
type SetPosition struct{ X, Y float64 }

// SetDirection sets a drawable's direction in degrees.
type SetDirection struct{ Degrees float64 }

// SetScale sets a drawable's scale percentages.
type SetScale struct{ X, Y float64 }

// SetVisible shows or hides a drawable.
type SetVisible struct{ Visible bool }

// SetEffect sets a graphic effect from its raw host value.
type SetEffect struct {
	Effect Effect
	Value  float64
}

// SetSkin attaches a skin; IDNone detaches the current one.
type SetSkin struct{ Skin SkinID }

func (u SetPosition) apply(_ *Renderer, d *Drawable) error {
	d.UpdatePosition(u.X, u.Y)
	return nil
}

func (u SetDirection) apply(_ *Renderer, d *Drawable) error {
	d.UpdateDirection(u.Degrees)
	return nil
}

func (u SetScale) apply(_ *Renderer, d *Drawable) error {
	d.UpdateScale(u.X, u.Y)
	return nil
}

func (u SetVisible) apply(_ *Renderer, d *Drawable) error {
	d.UpdateVisible(u.Visible)
	return nil
}

func (u SetEffect) apply(_ *Renderer, d *Drawable) error {
	if u.Effect >= effectCount {
		return fmt.Errorf("set effect %d: unknown effect", u.Effect)
	}
	d.UpdateEffect(u.Effect, u.Value)
	return nil
}

func (u SetSkin) apply(r *Renderer, d *Drawable) error {
	if u.Skin == IDNone {
		d.SetSkin(nil)
		return nil
	}
	s, ok := r.skins[u.Skin]
	if !ok {
		return fmt.Errorf("set skin %d: %w", u.Skin, ErrNoSuchSkin)
	}
	d.SetSkin(s)
	return nil
}

// UpdateDrawable applies updates to a drawable in order. It stops at the
// first failing update.
func (r *Renderer) UpdateDrawable(id DrawableID, updates ...DrawableUpdate) error {
	d, ok := r.lookupDrawable("update drawable", id)
	if !ok {
		return fmt.Errorf("update drawable %d: %w", id, ErrNoSuchDrawable)
	}
	for _, u := range updates {
		if err := u.apply(r, d); err != nil {
			return fmt.Errorf("update drawable %d: %w", id, err)
		}
	}
	return nil
}

// FencedPosition returns the position closest to (x, y) that keeps the
// drawable visibly on stage.
func (r *Renderer) FencedPosition(id DrawableID, x, y float64) Vec2 {
	d, ok := r.lookupDrawable("fenced position", id)
	if !ok {
		return Vec2{x, y}
	}
	r.refreshHull(d)
	return r.stage.FencedPosition(d, x, y)
}

// --- Bounds ---

// refreshHull recomputes the convex hull if the drawable's shape changed.
func (r *Renderer) refreshHull(d *Drawable) {
	if d.Skin() != nil && d.NeedsConvexHullPoints() {
		d.SetConvexHullPoints(ConvexHull(d))
	}
}

// Bounds returns the drawable's tight stage-space bounds, refreshing its
// convex hull first.
func (r *Renderer) Bounds(id DrawableID) (Rectangle, error) {
	d, ok := r.lookupDrawable("bounds", id)
	if !ok {
		return Rectangle{}, fmt.Errorf("bounds of %d: %w", id, ErrNoSuchDrawable)
	}
	r.refreshHull(d)
	return d.Bounds()
}

// BoundsForBubble returns the bounds of the top slice of the drawable, for
// placing speech bubbles.
func (r *Renderer) BoundsForBubble(id DrawableID) (Rectangle, error) {
	d, ok := r.lookupDrawable("bounds for bubble", id)
	if !ok {
		return Rectangle{}, fmt.Errorf("bounds of %d: %w", id, ErrNoSuchDrawable)
	}
	r.refreshHull(d)
	return d.BoundsForBubble()
}

// AABB returns the drawable's loose axis-aligned bounds.
func (r *Renderer) AABB(id DrawableID) (Rectangle, error) {
	d, ok := r.lookupDrawable("aabb", id)
	if !ok {
		return Rectangle{}, fmt.Errorf("aabb of %d: %w", id, ErrNoSuchDrawable)
	}
	return d.AABB(), nil
}

// --- Skins ---

func (r *Renderer) allocSkinID() SkinID {
	id := r.nextSkinID
	r.nextSkinID++
	return id
}

// Skin returns the skin with the given id, or nil.
func (r *Renderer) Skin(id SkinID) Skin {
	return r.skins[id]
}

// CreateBitmapSkin creates a skin from decoded raster content. resolution is
// bitmap pixels per stage unit; center, in bitmap pixels, defaults to the
// image center when nil. The silhouette is current when this returns.
func (r *Renderer) CreateBitmapSkin(img image.Image, resolution float64, center *Vec2) SkinID {
	id := r.allocSkinID()
	r.skins[id] = newBitmapSkin(id, img, resolution, center)
	return id
}

// UpdateBitmapSkin replaces a bitmap skin's content.
func (r *Renderer) UpdateBitmapSkin(id SkinID, img image.Image, resolution float64, center *Vec2) error {
	s, err := skinAs[*BitmapSkin](r, id)
	if err != nil {
		return fmt.Errorf("update bitmap skin: %w", err)
	}
	s.SetBitmap(img, resolution, center)
	return nil
}

// CreateVectorSkin creates a skin from vector paths.
func (r *Renderer) CreateVectorSkin(shape VectorShape, center *Vec2) SkinID {
	id := r.allocSkinID()
	r.skins[id] = newVectorSkin(id, shape, center)
	return id
}

// UpdateVectorSkin replaces a vector skin's shape.
func (r *Renderer) UpdateVectorSkin(id SkinID, shape VectorShape, center *Vec2) error {
	s, err := skinAs[*VectorSkin](r, id)
	if err != nil {
		return fmt.Errorf("update vector skin: %w", err)
	}
	s.SetShape(shape, center)
	return nil
}

// CreatePenSkin creates a stage-sized pen layer.
func (r *Renderer) CreatePenSkin() SkinID {
	id := r.allocSkinID()
	r.skins[id] = newPenSkin(id, r.stage.Bounds())
	return id
}

// PenClear erases a pen layer.
func (r *Renderer) PenClear(id SkinID) error {
	s, err := skinAs[*PenSkin](r, id)
	if err != nil {
		return fmt.Errorf("pen clear: %w", err)
	}
	s.Clear()
	return nil
}

// PenDrawImage composites img onto a pen layer with its top-left corner at
// the stage point (x, y).
func (r *Renderer) PenDrawImage(id SkinID, img image.Image, x, y float64) error {
	s, err := skinAs[*PenSkin](r, id)
	if err != nil {
		return fmt.Errorf("pen draw image: %w", err)
	}
	s.DrawImage(img, x, y)
	return nil
}

// PenStamp composites the current on-screen appearance of a drawable onto a
// pen layer.
func (r *Renderer) PenStamp(penID SkinID, drawableID DrawableID) error {
	s, err := skinAs[*PenSkin](r, penID)
	if err != nil {
		return fmt.Errorf("pen stamp: %w", err)
	}
	d, ok := r.lookupDrawable("pen stamp", drawableID)
	if !ok {
		return fmt.Errorf("pen stamp %d: %w", drawableID, ErrNoSuchDrawable)
	}
	r.refreshHull(d)
	s.stamp(d)
	return nil
}

// CreateTextBubbleSkin creates a speech or thought bubble.
func (r *Renderer) CreateTextBubbleSkin(kind BubbleKind, text string, pointsLeft bool) SkinID {
	id := r.allocSkinID()
	r.skins[id] = newTextBubbleSkin(id, kind, text, pointsLeft)
	return id
}

// UpdateTextBubbleSkin replaces a bubble's content.
func (r *Renderer) UpdateTextBubbleSkin(id SkinID, kind BubbleKind, text string, pointsLeft bool) error {
	s, err := skinAs[*TextBubbleSkin](r, id)
	if err != nil {
		return fmt.Errorf("update text bubble: %w", err)
	}
	s.SetBubble(kind, text, pointsLeft)
	return nil
}

// DestroySkin disposes a skin and detaches it from every drawable showing
// it.
func (r *Renderer) DestroySkin(id SkinID) error {
	s, ok := r.skins[id]
	if !ok {
		logger.Warn("cannot destroy skin", "id", id, "err", ErrNoSuchSkin)
		return fmt.Errorf("destroy skin %d: %w", id, ErrNoSuchSkin)
	}
	for _, d := range r.drawables {
		if d.Skin() == s {
			d.SetSkin(nil)
		}
	}
	s.Dispose()
	delete(r.skins, id)
	return nil
}

// skinAs looks up a skin of a specific variant.
func skinAs[T Skin](r *Renderer, id SkinID) (T, error) {
	var zero T
	s, ok := r.skins[id]
	if !ok {
		logger.Warn("no such skin", "id", id)
		return zero, fmt.Errorf("skin %d: %w", id, ErrNoSuchSkin)
	}
	t, ok := s.(T)
	if !ok {
		return zero, fmt.Errorf("skin %d: %w", id, ErrWrongSkinType)
	}
	return t, nil
}

// SkinSize returns a skin's native size.
func (r *Renderer) SkinSize(id SkinID) (Vec2, error) {
	s, ok := r.skins[id]
	if !ok {
		return Vec2{}, fmt.Errorf("skin size %d: %w", id, ErrNoSuchSkin)
	}
	return s.Size(), nil
}

// SkinRotationCenter returns a skin's rotation center in native units.
func (r *Renderer) SkinRotationCenter(id SkinID) (Vec2, error) {
	s, ok := r.skins[id]
	if !ok {
		return Vec2{}, fmt.Errorf("skin rotation center %d: %w", id, ErrNoSuchSkin)
	}
	return s.RotationCenter(), nil
}

// CurrentSkinSize returns the on-stage size of a drawable's skin, the native
// size scaled by the drawable's scale percentages.
func (r *Renderer) CurrentSkinSize(id DrawableID) (Vec2, error) {
	d, ok := r.lookupDrawable("current skin size", id)
	if !ok {
		return Vec2{}, fmt.Errorf("current skin size %d: %w", id, ErrNoSuchDrawable)
	}
	if d.Skin() == nil {
		return Vec2{}, nil
	}
	size, scale := d.Skin().Size(), d.Scale()
	return Vec2{size.X * scale.X / 100, size.Y * scale.Y / 100}, nil
}
