package stagecore

import "errors"

var (
	// ErrUnknownLayerGroup is returned when a drawable is created, destroyed
	// or reordered with a group name missing from the group ordering.
	ErrUnknownLayerGroup = errors.New("stagecore: unknown layer group")

	// ErrGroupOrderingLocked is returned when the group ordering is changed
	// after drawables were added.
	ErrGroupOrderingLocked = errors.New("stagecore: layer group ordering already in use")

	// ErrHullNotReady is returned by tight bounds queries when the convex hull
	// has not been supplied since the last shape-affecting change.
	ErrHullNotReady = errors.New("stagecore: convex hull points not ready")

	// ErrNoSuchDrawable is returned for ids that were never created or have
	// been destroyed.
	ErrNoSuchDrawable = errors.New("stagecore: no such drawable")

	// ErrNoSuchSkin is returned for skin ids that were never created or have
	// been destroyed.
	ErrNoSuchSkin = errors.New("stagecore: no such skin")

	// ErrWrongSkinType is returned when an update targets a skin of another
	// variant (for example a bitmap update on a pen skin).
	ErrWrongSkinType = errors.New("stagecore: wrong skin type")
)
