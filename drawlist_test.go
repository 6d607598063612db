package stagecore

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"
)

func newTestDrawList(t *testing.T, groups ...string) *DrawList {
	t.Helper()
	l := NewDrawList()
	if err := l.SetGroupOrdering(groups); err != nil {
		t.Fatal(err)
	}
	return l
}

// assertPartitioned checks that ids of earlier groups precede later groups.
func assertPartitioned(t *testing.T, l *DrawList, groupOf map[DrawableID]string) {
	t.Helper()
	if err := l.checkInvariants(); err != nil {
		t.Fatal(err)
	}
	rank := make(map[string]int)
	for i, g := range l.GroupOrdering() {
		rank[g] = i
	}
	prev := -1
	for i, id := range l.IDs() {
		r := rank[groupOf[id]]
		if r < prev {
			t.Fatalf("id %d of group %q at index %d follows a later group: %v", id, groupOf[id], i, l.IDs())
		}
		prev = r
	}
	for g := range rank {
		for _, id := range l.GroupIDs(g) {
			if groupOf[id] != g {
				t.Fatalf("GroupIDs(%q) contains %d from %q", g, id, groupOf[id])
			}
		}
	}
}

func TestDrawListAddOrder(t *testing.T) {
	l := newTestDrawList(t, "background", "pen", "sprite")
	_ = l.Add(1, "sprite")
	_ = l.Add(2, "background")
	_ = l.Add(3, "sprite")
	_ = l.Add(4, "pen")
	want := []DrawableID{2, 4, 1, 3}
	if !slices.Equal(l.IDs(), want) {
		t.Errorf("IDs = %v, want %v", l.IDs(), want)
	}
	if got := l.GroupIDs("sprite"); !slices.Equal(got, []DrawableID{1, 3}) {
		t.Errorf("GroupIDs(sprite) = %v", got)
	}
}

func TestDrawListUnknownGroup(t *testing.T) {
	l := newTestDrawList(t, "sprite")
	if err := l.Add(1, "nope"); !errors.Is(err, ErrUnknownLayerGroup) {
		t.Errorf("Add err = %v, want ErrUnknownLayerGroup", err)
	}
	if l.Len() != 0 {
		t.Errorf("Len = %d, want 0", l.Len())
	}
	if _, ok := l.SetOrder(1, 0, "nope", false, 0); ok {
		t.Error("SetOrder in unknown group should fail")
	}
}

func TestDrawListOrderingLocked(t *testing.T) {
	l := newTestDrawList(t, "sprite")
	_ = l.Add(1, "sprite")
	if err := l.SetGroupOrdering([]string{"a", "b"}); !errors.Is(err, ErrGroupOrderingLocked) {
		t.Errorf("err = %v, want ErrGroupOrderingLocked", err)
	}
}

func TestDrawListRemoveMissing(t *testing.T) {
	l := newTestDrawList(t, "a", "b")
	_ = l.Add(1, "a")
	_ = l.Add(2, "b")
	if l.Remove(2, "a") {
		t.Error("removing an id from the wrong group should fail")
	}
	if l.Remove(9, "b") {
		t.Error("removing a missing id should fail")
	}
	if !slices.Equal(l.IDs(), []DrawableID{1, 2}) {
		t.Errorf("IDs changed: %v", l.IDs())
	}
	if !l.Remove(1, "a") {
		t.Fatal("Remove(1) failed")
	}
	if got := l.GroupIDs("b"); !slices.Equal(got, []DrawableID{2}) {
		t.Errorf("GroupIDs(b) = %v", got)
	}
}

func TestDrawListSetOrderFrontBack(t *testing.T) {
	l := newTestDrawList(t, "a", "b", "c")
	_ = l.Add(10, "a")
	for id := DrawableID(1); id <= 4; id++ {
		_ = l.Add(id, "b")
	}
	_ = l.Add(20, "c")

	idx, ok := l.SetOrder(1, OrderFront, "b", false, 0)
	if !ok || idx != 4 {
		t.Errorf("front = %d,%v, want 4,true", idx, ok)
	}
	if !slices.Equal(l.IDs(), []DrawableID{10, 2, 3, 4, 1, 20}) {
		t.Errorf("IDs = %v", l.IDs())
	}

	idx, _ = l.SetOrder(4, OrderBack, "b", false, 0)
	if idx != 1 {
		t.Errorf("back = %d, want 1", idx)
	}
	if !slices.Equal(l.IDs(), []DrawableID{10, 4, 2, 3, 1, 20}) {
		t.Errorf("IDs = %v", l.IDs())
	}
}

func TestDrawListSetOrderRelative(t *testing.T) {
	l := newTestDrawList(t, "a")
	for id := DrawableID(1); id <= 4; id++ {
		_ = l.Add(id, "a")
	}
	if idx, _ := l.SetOrder(1, 2, "a", true, 0); idx != 2 {
		t.Errorf("forward 2 = %d, want 2", idx)
	}
	if !slices.Equal(l.IDs(), []DrawableID{2, 3, 1, 4}) {
		t.Errorf("IDs = %v", l.IDs())
	}
	if idx, _ := l.SetOrder(1, 0, "a", true, 0); idx != 2 {
		t.Errorf("relative 0 = %d, want 2", idx)
	}
	if idx, _ := l.SetOrder(1, -100, "a", true, 0); idx != 0 {
		t.Errorf("far back = %d, want 0", idx)
	}
}

func TestDrawListSetOrderMin(t *testing.T) {
	l := newTestDrawList(t, "a")
	for id := DrawableID(1); id <= 4; id++ {
		_ = l.Add(id, "a")
	}
	// Index 0 is reserved (for example for a backdrop); going back stops at 1.
	if idx, _ := l.SetOrder(4, OrderBack, "a", false, 1); idx != 1 {
		t.Errorf("back with min 1 = %d, want 1", idx)
	}
	if !slices.Equal(l.IDs(), []DrawableID{1, 4, 2, 3}) {
		t.Errorf("IDs = %v", l.IDs())
	}
}

func TestDrawListSetOrderLastGroupStaysInGroup(t *testing.T) {
	l := newTestDrawList(t, "a", "b")
	_ = l.Add(1, "a")
	_ = l.Add(2, "a")
	_ = l.Add(3, "b")
	if idx, _ := l.SetOrder(1, OrderFront, "a", false, 0); idx != 1 {
		t.Errorf("front in a = %d, want 1", idx)
	}
	if !slices.Equal(l.IDs(), []DrawableID{2, 1, 3}) {
		t.Errorf("IDs = %v", l.IDs())
	}
}

func TestDrawListPartitionInvariant(t *testing.T) {
	groups := []string{"background", "video", "pen", "sprite"}
	l := newTestDrawList(t, groups...)
	groupOf := make(map[DrawableID]string)
	rng := rand.New(rand.NewPCG(7, 8))
	next := DrawableID(0)

	for range 2000 {
		switch op := rng.IntN(10); {
		case op < 4:
			g := groups[rng.IntN(len(groups))]
			if err := l.Add(next, g); err != nil {
				t.Fatal(err)
			}
			groupOf[next] = g
			next++
		case op < 6 && l.Len() > 0:
			id := l.IDs()[rng.IntN(l.Len())]
			if !l.Remove(id, groupOf[id]) {
				t.Fatalf("Remove(%d) failed", id)
			}
			delete(groupOf, id)
		case l.Len() > 0:
			id := l.IDs()[rng.IntN(l.Len())]
			var order int
			relative := rng.IntN(2) == 0
			switch rng.IntN(4) {
			case 0:
				order = OrderFront
			case 1:
				order = OrderBack
			default:
				order = rng.IntN(2*l.Len()+1) - l.Len()
			}
			if _, ok := l.SetOrder(id, order, groupOf[id], relative, rng.IntN(3)); !ok {
				t.Fatalf("SetOrder(%d) failed", id)
			}
		}
		assertPartitioned(t, l, groupOf)
	}
}

func TestSaturatingAdd(t *testing.T) {
	if got := saturatingAdd(OrderFront, 5); got != OrderFront {
		t.Errorf("MaxInt+5 = %d", got)
	}
	if got := saturatingAdd(OrderBack, -5); got != OrderBack {
		t.Errorf("MinInt-5 = %d", got)
	}
	if got := saturatingAdd(3, -5); got != -2 {
		t.Errorf("3-5 = %d", got)
	}
}
