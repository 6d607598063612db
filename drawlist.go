package stagecore

import (
	"fmt"
	"math"
	"slices"
)

// Order sentinels for SetOrder.
const (
	OrderFront = math.MaxInt // move to the front (top) of the group
	OrderBack  = math.MinInt // move to the back (bottom) of the group
)

// layerGroup records a group's position in the ordering and the absolute
// draw list index at which it begins.
type layerGroup struct {
	index  int
	offset int
}

// DrawList is the flat bottom-to-top draw order, partitioned into named layer
// groups. For groups A before B in the ordering, every id in A precedes every
// id in B. Mutations are O(n); structural changes are rare relative to reads.
type DrawList struct {
	ids      []DrawableID
	ordering []string
	groups   map[string]*layerGroup
}

// NewDrawList creates an empty draw list with no groups.
func NewDrawList() *DrawList {
	return &DrawList{groups: make(map[string]*layerGroup)}
}

// SetGroupOrdering defines the fixed sequence of layer groups, bottom first.
// It may only be called while the list is empty.
func (l *DrawList) SetGroupOrdering(names []string) error {
	if len(l.ids) > 0 {
		return ErrGroupOrderingLocked
	}
	l.ordering = slices.Clone(names)
	l.groups = make(map[string]*layerGroup, len(names))
	for i, name := range names {
		l.groups[name] = &layerGroup{index: i}
	}
	return nil
}

// GroupOrdering returns the group names, bottom first. The returned slice
// MUST NOT be mutated.
func (l *DrawList) GroupOrdering() []string {
	return l.ordering
}

// HasGroup reports whether name is part of the group ordering.
func (l *DrawList) HasGroup(name string) bool {
	_, ok := l.groups[name]
	return ok
}

// endIndex returns the index one past the group's last id.
func (l *DrawList) endIndex(g *layerGroup) int {
	if g.index == len(l.ordering)-1 {
		return len(l.ids)
	}
	return l.groups[l.ordering[g.index+1]].offset
}

// shiftLaterGroups moves the start offset of every group after g by delta.
func (l *DrawList) shiftLaterGroups(g *layerGroup, delta int) {
	for i := g.index + 1; i < len(l.ordering); i++ {
		l.groups[l.ordering[i]].offset += delta
	}
}

// Add inserts id at the top of group.
func (l *DrawList) Add(id DrawableID, group string) error {
	g, ok := l.groups[group]
	if !ok {
		return fmt.Errorf("add drawable %d to %q: %w", id, group, ErrUnknownLayerGroup)
	}
	l.ids = slices.Insert(l.ids, l.endIndex(g), id)
	l.shiftLaterGroups(g, 1)
	if globalDebug {
		debugCheckDrawList(l)
	}
	return nil
}

// indexInGroup scans the group's range for id. Returns -1 if absent.
func (l *DrawList) indexInGroup(id DrawableID, g *layerGroup) int {
	end := l.endIndex(g)
	for i := g.offset; i < end; i++ {
		if l.ids[i] == id {
			return i
		}
	}
	return -1
}

// Remove deletes id from group. A missing id is a recoverable consistency
// warning: it is logged and Remove returns false.
func (l *DrawList) Remove(id DrawableID, group string) bool {
	g, ok := l.groups[group]
	if !ok {
		logger.Warn("cannot remove drawable without a known layer group", "drawable", id, "group", group)
		return false
	}
	i := l.indexInGroup(id, g)
	if i < 0 {
		logger.Warn("could not remove drawable that could not be found in layer group", "drawable", id, "group", group)
		return false
	}
	l.ids = slices.Delete(l.ids, i, i+1)
	l.shiftLaterGroups(g, -1)
	if globalDebug {
		debugCheckDrawList(l)
	}
	return true
}

// SetOrder moves id within group. order is an absolute draw list index, or
// an offset from the current index when relative is set. The result is
// clamped to [groupStart+minOrder, groupEnd]; OrderFront and OrderBack move to the
// top and bottom of the group. Returns the new index, or false when the group
// or id is unknown.
func (l *DrawList) SetOrder(id DrawableID, order int, group string, relative bool, minOrder int) (int, bool) {
	g, ok := l.groups[group]
	if !ok {
		logger.Warn("cannot set the order of a drawable without a known layer group", "drawable", id, "group", group)
		return -1, false
	}
	old := l.indexInGroup(id, g)
	if old < 0 {
		return -1, false
	}
	if relative && order == 0 {
		return old, true
	}

	start := g.offset
	end := l.endIndex(g) - 1 // last valid insertion index once id is removed
	l.ids = slices.Delete(l.ids, old, old+1)

	newIndex := order
	if relative {
		newIndex = saturatingAdd(order, old)
	}
	lo := start
	if m := saturatingAdd(minOrder, start); m >= start && m <= end {
		lo = m
	}
	newIndex = max(newIndex, lo)
	newIndex = min(newIndex, end)

	l.ids = slices.Insert(l.ids, newIndex, id)
	if globalDebug {
		debugCheckDrawList(l)
	}
	return newIndex, true
}

// Order returns id's absolute index in the draw list, or -1.
func (l *DrawList) Order(id DrawableID) int {
	return slices.Index(l.ids, id)
}

// IDs returns the whole draw list, bottom first. The returned slice MUST NOT
// be mutated.
func (l *DrawList) IDs() []DrawableID {
	return l.ids
}

// GroupIDs returns the ids of one group, bottom first. The returned slice
// MUST NOT be mutated.
func (l *DrawList) GroupIDs(group string) []DrawableID {
	g, ok := l.groups[group]
	if !ok {
		return nil
	}
	return l.ids[g.offset:l.endIndex(g)]
}

// Len returns the number of ids in the list.
func (l *DrawList) Len() int {
	return len(l.ids)
}

// checkInvariants verifies the group offsets and id uniqueness.
func (l *DrawList) checkInvariants() error {
	prev := 0
	for i, name := range l.ordering {
		g := l.groups[name]
		if g.index != i {
			return fmt.Errorf("group %q has index %d, want %d", name, g.index, i)
		}
		if i == 0 && g.offset != 0 {
			return fmt.Errorf("first group %q starts at %d, want 0", name, g.offset)
		}
		if g.offset < prev || g.offset > len(l.ids) {
			return fmt.Errorf("group %q offset %d out of order (previous %d, len %d)", name, g.offset, prev, len(l.ids))
		}
		prev = g.offset
	}
	seen := make(map[DrawableID]struct{}, len(l.ids))
	for _, id := range l.ids {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("drawable %d appears twice", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// saturatingAdd adds without wrapping around at the int limits.
func saturatingAdd(a, b int) int {
	s := a + b
	if a > 0 && b > 0 && s < 0 {
		return math.MaxInt
	}
	if a < 0 && b < 0 && s >= 0 {
		return math.MinInt
	}
	return s
}
