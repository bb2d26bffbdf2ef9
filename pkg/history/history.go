// Package history implements bounded, snapshot-based undo/redo for a brick
// sequence.
//
// Each recorded step stores the whole brick sequence as it was immediately
// before a mutation. Snapshots are adopted without copying: the scene model
// is copy-on-write, so a slice handed to [History.Record] is never written to
// again. Selection is deliberately not part of a snapshot.
//
// The past stack is bounded (see [DefaultLimit]); recording beyond the limit
// drops the oldest entry. Recording also discards every pending redo entry,
// so a fresh edit after an undo branches history and the old future is lost.
package history

import "github.com/matzehuels/brickyard/pkg/brick"

// DefaultLimit is the number of undo steps retained when no limit is given.
const DefaultLimit = 50

// Snapshot is one recorded brick sequence.
type Snapshot = []brick.Instance

// History holds the undo (past) and redo (future) stacks.
type History struct {
	past   []Snapshot // most recent last
	future []Snapshot // most recent first
	limit  int
}

// New returns an empty history retaining at most limit undo steps. A limit of
// zero or less selects DefaultLimit.
func New(limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{limit: limit}
}

// Limit returns the maximum depth of the past stack.
func (h *History) Limit() int { return h.limit }

// Record pushes current onto the past stack and clears the future stack.
func (h *History) Record(current Snapshot) {
	h.past = append(h.past, current)
	if over := len(h.past) - h.limit; over > 0 {
		// Shift into a fresh slice so dropped snapshots can be collected.
		h.past = append([]Snapshot(nil), h.past[over:]...)
	}
	h.future = nil
}

// Undo pops the most recent past snapshot and returns it as the new scene
// state, pushing current onto the front of the future stack. Reports false
// and leaves both stacks alone when there is nothing to undo.
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	if len(h.past) == 0 {
		return nil, false
	}
	last := len(h.past) - 1
	prev := h.past[last]
	h.past[last] = nil
	h.past = h.past[:last]
	h.future = append([]Snapshot{current}, h.future...)
	return prev, true
}

// Redo pops the first future snapshot and returns it as the new scene state,
// pushing current onto the past stack. Reports false and leaves both stacks
// alone when there is nothing to redo.
func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	if len(h.future) == 0 {
		return nil, false
	}
	next := h.future[0]
	h.future = h.future[1:]
	h.past = append(h.past, current)
	return next, true
}

// CanUndo reports whether Undo would change state.
func (h *History) CanUndo() bool { return len(h.past) > 0 }

// CanRedo reports whether Redo would change state.
func (h *History) CanRedo() bool { return len(h.future) > 0 }

// Depth returns the number of undo steps available.
func (h *History) Depth() int { return len(h.past) }

// Pending returns the number of redo steps available.
func (h *History) Pending() int { return len(h.future) }

// Reset drops both stacks.
func (h *History) Reset() {
	h.past = nil
	h.future = nil
}
