package sparse

import (
	"testing"
)

func TestFrontierPushPop(t *testing.T) {
	f := NewFrontier(8)
	f.Push(3, 0)
	f.Push(5, 1)
	f.Push(1, 2)

	if f.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", f.Len())
	}

	// LIFO order.
	wantPC := []int32{1, 5, 3}
	wantStart := []int32{2, 1, 0}
	for i := range wantPC {
		pc, start := f.Pop()
		if pc != wantPC[i] || start != wantStart[i] {
			t.Errorf("Pop() = (%d, %d), want (%d, %d)", pc, start, wantPC[i], wantStart[i])
		}
	}
	if f.Len() != 0 {
		t.Errorf("Len() after draining = %d, want 0", f.Len())
	}
}

func TestFrontierMergeKeepsEarlierStart(t *testing.T) {
	f := NewFrontier(4)
	f.Push(2, 5)
	f.Push(2, 3) // earlier start wins
	f.Push(2, 7) // later start ignored

	if f.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (re-pushes must collapse)", f.Len())
	}
	pc, start := f.Pop()
	if pc != 2 || start != 3 {
		t.Errorf("Pop() = (%d, %d), want (2, 3)", pc, start)
	}
}

func TestFrontierRePushAfterPop(t *testing.T) {
	// Popping clears presence, so a later push of the same pc is a
	// fresh entry: no stale start may survive.
	f := NewFrontier(4)
	f.Push(1, 0)
	f.Pop()
	f.Push(1, 9)
	_, start := f.Pop()
	if start != 9 {
		t.Errorf("start after re-push = %d, want 9 (stale annotation leaked)", start)
	}
}

func TestFrontierOnly(t *testing.T) {
	f := NewFrontier(4)
	if f.Only(0) {
		t.Error("Only(0) on empty frontier = true")
	}
	f.Push(0, 0)
	if !f.Only(0) {
		t.Error("Only(0) = false with single member 0")
	}
	f.Push(2, 0)
	if f.Only(0) {
		t.Error("Only(0) = true with two members")
	}
}

func TestFrontierHasStartBelow(t *testing.T) {
	f := NewFrontier(4)
	f.Push(1, 4)
	f.Push(2, 2)
	if !f.HasStartBelow(3) {
		t.Error("HasStartBelow(3) = false, want true")
	}
	if f.HasStartBelow(2) {
		t.Error("HasStartBelow(2) = true, want false")
	}
}

func TestFrontierReset(t *testing.T) {
	f := NewFrontier(4)
	f.Push(1, 0)
	f.Push(3, 1)
	f.Reset()
	if f.Len() != 0 {
		t.Fatalf("Len() after Reset = %d, want 0", f.Len())
	}
	// Presence must be cleared too.
	f.Push(1, 5)
	if f.Len() != 1 {
		t.Errorf("Push after Reset ignored; Len() = %d, want 1", f.Len())
	}
	_, start := f.Pop()
	if start != 5 {
		t.Errorf("start after Reset = %d, want 5", start)
	}
}
