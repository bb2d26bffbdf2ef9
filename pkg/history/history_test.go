package history

import (
	"fmt"
	"slices"
	"testing"

	"github.com/matzehuels/brickyard/pkg/brick"
)

// seq builds a snapshot of n bricks named brick-0..brick-(n-1).
func seq(n int) Snapshot {
	s := make(Snapshot, n)
	for i := range s {
		s[i] = brick.Instance{ID: fmt.Sprintf("brick-%d", i), TypeID: "brick-2x2"}
	}
	return s
}

func TestNewDefaultLimit(t *testing.T) {
	if New(0).Limit() != DefaultLimit {
		t.Errorf("New(0).Limit() = %d, want %d", New(0).Limit(), DefaultLimit)
	}
	if New(-3).Limit() != DefaultLimit {
		t.Errorf("New(-3).Limit() = %d, want %d", New(-3).Limit(), DefaultLimit)
	}
	if New(5).Limit() != 5 {
		t.Errorf("New(5).Limit() = %d, want 5", New(5).Limit())
	}
}

func TestEmptyHistoryIsNoop(t *testing.T) {
	h := New(0)
	cur := seq(2)

	if got, ok := h.Undo(cur); ok || got != nil {
		t.Errorf("Undo() on empty = %v, %v, want nil, false", got, ok)
	}
	if got, ok := h.Redo(cur); ok || got != nil {
		t.Errorf("Redo() on empty = %v, %v, want nil, false", got, ok)
	}
	if h.CanUndo() || h.CanRedo() {
		t.Error("empty history should not offer undo or redo")
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	h := New(0)

	// Simulate N mutations, each growing the scene by one brick.
	const n = 5
	cur := seq(0)
	for i := 1; i <= n; i++ {
		h.Record(cur)
		cur = seq(i)
	}
	final := cur

	for i := 0; i < n; i++ {
		prev, ok := h.Undo(cur)
		if !ok {
			t.Fatalf("Undo() #%d = false", i+1)
		}
		cur = prev
	}
	if len(cur) != 0 {
		t.Errorf("after %d undos scene has %d bricks, want 0", n, len(cur))
	}
	if h.CanUndo() {
		t.Error("CanUndo() after exhausting past = true")
	}
	if h.Pending() != n {
		t.Errorf("Pending() = %d, want %d", h.Pending(), n)
	}

	for i := 0; i < n; i++ {
		next, ok := h.Redo(cur)
		if !ok {
			t.Fatalf("Redo() #%d = false", i+1)
		}
		cur = next
	}
	if !slices.Equal(cur, final) {
		t.Errorf("after redo scene = %v, want %v", cur, final)
	}
	if h.CanRedo() {
		t.Error("CanRedo() after exhausting future = true")
	}
	if h.Depth() != n {
		t.Errorf("Depth() = %d, want %d", h.Depth(), n)
	}
}

func TestRecordClearsFuture(t *testing.T) {
	h := New(0)
	h.Record(seq(0))
	h.Record(seq(1))
	cur := seq(2)

	cur, _ = h.Undo(cur)
	if !h.CanRedo() {
		t.Fatal("CanRedo() after undo = false")
	}

	h.Record(cur)
	if h.CanRedo() {
		t.Error("Record should clear the redo stack")
	}
	if got, ok := h.Redo(seq(3)); ok || got != nil {
		t.Errorf("Redo() after branching = %v, %v, want no-op", got, ok)
	}
}

func TestLimitDropsOldest(t *testing.T) {
	h := New(3)
	for i := 0; i < 5; i++ {
		h.Record(seq(i))
	}
	if h.Depth() != 3 {
		t.Fatalf("Depth() = %d, want 3", h.Depth())
	}

	cur := seq(5)
	var lens []int
	for h.CanUndo() {
		cur, _ = h.Undo(cur)
		lens = append(lens, len(cur))
	}
	if want := []int{4, 3, 2}; !slices.Equal(lens, want) {
		t.Errorf("undo sequence lengths = %v, want %v", lens, want)
	}
}

func TestDefaultLimitFifty(t *testing.T) {
	h := New(0)
	for i := 0; i < 60; i++ {
		h.Record(seq(i))
	}
	if h.Depth() != 50 {
		t.Errorf("Depth() = %d, want 50", h.Depth())
	}
}

func TestUndoPushesFrontOfFuture(t *testing.T) {
	h := New(0)
	h.Record(seq(0))
	h.Record(seq(1))

	cur := seq(2)
	cur, _ = h.Undo(cur) // future: [2]
	cur, _ = h.Undo(cur) // future: [1, 2]

	next, _ := h.Redo(cur)
	if len(next) != 1 {
		t.Errorf("first Redo() returned %d bricks, want 1", len(next))
	}
}

func TestReset(t *testing.T) {
	h := New(0)
	h.Record(seq(0))
	h.Undo(seq(1))
	h.Record(seq(0))
	h.Reset()
	if h.CanUndo() || h.CanRedo() {
		t.Error("Reset() should drop both stacks")
	}
}
