// Package scene holds the ordered collection of placed bricks and the
// current selection.
//
// A [Scene] is an explicitly owned value: create one per editor, per test or
// per HTTP session. It is not safe for concurrent use; callers serialize
// access the same way a UI event loop does.
//
// # Copy-on-write
//
// Every mutation builds a new backing slice instead of editing the current
// one. A slice returned by [Scene.Snapshot] is therefore never modified later,
// which lets the history manager keep snapshots without deep-copying them.
//
// # Identifiers
//
// Brick ids have the form "brick-N" where N comes from a per-scene counter
// that only moves forward. [Scene.Replace] advances the counter past every
// "brick-N" id it receives, so undo, redo and load can never cause a later
// placement to reuse an id.
package scene

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/brickyard/pkg/brick"
	"github.com/matzehuels/brickyard/pkg/grid"
)

// idPrefix is the prefix of generated brick ids.
const idPrefix = "brick-"

// Scene is the mutable brick model.
type Scene struct {
	bricks   []brick.Instance
	selected string
	nextID   uint64
}

// New returns an empty scene with no selection.
func New() *Scene {
	return &Scene{}
}

// Len returns the number of bricks.
func (s *Scene) Len() int { return len(s.bricks) }

// Bricks returns a copy of the bricks in insertion order.
func (s *Scene) Bricks() []brick.Instance {
	return slices.Clone(s.bricks)
}

// Snapshot returns the current backing slice. Callers must treat it as
// read-only; the scene never writes to a slice once it has been exposed.
func (s *Scene) Snapshot() []brick.Instance {
	return s.bricks
}

// Find returns the brick with the given id.
func (s *Scene) Find(id string) (brick.Instance, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.bricks[i], true
	}
	return brick.Instance{}, false
}

// SelectedID returns the selected id, or "" when nothing is selected.
func (s *Scene) SelectedID() string { return s.selected }

// Selected resolves the selection. A selection that names no brick in the
// scene resolves to not found.
func (s *Scene) Selected() (brick.Instance, bool) {
	if s.selected == "" {
		return brick.Instance{}, false
	}
	return s.Find(s.selected)
}

// Select sets the selection unconditionally. The empty string clears it.
func (s *Scene) Select(id string) { s.selected = id }

// Place appends a new brick of type def whose X and Z are snapped from point
// and whose Y rests it on the floor plane, then selects it.
func (s *Scene) Place(def brick.Definition, point brick.Vec3) brick.Instance {
	b := brick.Instance{
		ID:       s.newID(),
		TypeID:   def.ID,
		Position: brick.Vec3{X: grid.Snap(point.X), Y: def.RestY(), Z: grid.Snap(point.Z)},
	}
	s.bricks = append(slices.Clip(s.bricks), b)
	s.selected = b.ID
	return b
}

// Remove deletes the brick with the given id and clears the selection if it
// pointed at that brick. Reports whether a brick was removed.
func (s *Scene) Remove(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.bricks = slices.Delete(slices.Clone(s.bricks), i, i+1)
	if s.selected == id {
		s.selected = ""
	}
	return true
}

// SetColor sets the color override of one brick. Reports whether the brick
// exists.
func (s *Scene) SetColor(id, color string) bool {
	return s.update(id, func(b *brick.Instance) { b.Color = color })
}

// SetPosition moves one brick to pos verbatim. Quantization is the caller's
// job. Reports whether the brick exists.
func (s *Scene) SetPosition(id string, pos brick.Vec3) bool {
	return s.update(id, func(b *brick.Instance) { b.Position = pos })
}

// Replace swaps in a new brick sequence and clears the selection. The slice
// is adopted as-is and must not be modified by the caller afterwards.
func (s *Scene) Replace(bricks []brick.Instance) {
	s.bricks = slices.Clip(bricks)
	s.selected = ""
	for _, b := range bricks {
		if n, ok := parseID(b.ID); ok && n >= s.nextID && n < math.MaxUint64 {
			s.nextID = n + 1
		}
	}
}

// Clear removes every brick and the selection. The id counter keeps its
// value.
func (s *Scene) Clear() {
	s.bricks = nil
	s.selected = ""
}

// NextID returns the id the next placement will receive.
func (s *Scene) NextID() string {
	return idPrefix + strconv.FormatUint(s.nextID, 10)
}

func (s *Scene) newID() string {
	id := s.NextID()
	s.nextID++
	return id
}

func (s *Scene) update(id string, fn func(*brick.Instance)) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	next := slices.Clone(s.bricks)
	fn(&next[i])
	s.bricks = next
	return true
}

func (s *Scene) indexOf(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(s.bricks, func(b brick.Instance) bool { return b.ID == id })
}

// parseID extracts N from "brick-N".
func parseID(id string) (uint64, bool) {
	digits, ok := strings.CutPrefix(id, idPrefix)
	if !ok || digits == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// String summarizes the scene for debug logging.
func (s *Scene) String() string {
	return fmt.Sprintf("scene{bricks: %d, selected: %q, next: %s}", len(s.bricks), s.selected, s.NextID())
}
