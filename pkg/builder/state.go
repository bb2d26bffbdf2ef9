package builder

import (
	"github.com/matzehuels/brickyard/pkg/brick"
	"github.com/matzehuels/brickyard/pkg/catalog"
	"github.com/matzehuels/brickyard/pkg/storage"
)

// unknownName labels bricks whose type is missing from the catalog.
const unknownName = "Unknown"

// State is a read-only snapshot of everything a view needs to render.
type State struct {
	Bricks     []brick.Instance `json:"bricks"`
	Palette    []string         `json:"palette"`
	SelectedID string           `json:"selectedId,omitempty"`
	ActiveType string           `json:"activeType"`
	CameraView CameraView       `json:"cameraView"`
	CanUndo    bool             `json:"canUndo"`
	CanRedo    bool             `json:"canRedo"`
}

// Properties describes the selected brick for a properties panel.
type Properties struct {
	ID         string           `json:"id"`
	TypeID     string           `json:"typeId"`
	Name       string           `json:"name"`
	Position   brick.Vec3       `json:"position"`
	Rotation   brick.Vec3       `json:"rotation"`
	Color      string           `json:"color"`
	Definition brick.Definition `json:"definition"`
	// Known is false when the brick's type is not in the catalog.
	Known bool `json:"known"`
}

// Bricks returns a copy of the placed bricks in placement order.
func (e *Engine) Bricks() []brick.Instance { return e.scene.Bricks() }

// Len returns the number of placed bricks.
func (e *Engine) Len() int { return e.scene.Len() }

// Palette returns the catalog definitions in palette order.
func (e *Engine) Palette() []brick.Definition { return e.catalog.Definitions() }

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// SelectedID returns the selected brick id, or "" when nothing is selected.
func (e *Engine) SelectedID() string { return e.scene.SelectedID() }

func (e *Engine) ActiveType() string     { return e.activeType }
func (e *Engine) CameraView() CameraView { return e.view }
func (e *Engine) CanUndo() bool          { return e.history.CanUndo() }
func (e *Engine) CanRedo() bool          { return e.history.CanRedo() }

// HistoryDepth returns the number of undo steps available.
func (e *Engine) HistoryDepth() int { return e.history.Depth() }

// StorageKey returns the key used by Save and Load.
func (e *Engine) StorageKey() string { return e.key }

// Store returns the configured store, or nil.
func (e *Engine) Store() storage.Store { return e.store }

// State returns a snapshot of the derived state.
func (e *Engine) State() State {
	return State{
		Bricks:     e.scene.Bricks(),
		Palette:    e.catalog.IDs(),
		SelectedID: e.scene.SelectedID(),
		ActiveType: e.activeType,
		CameraView: e.view,
		CanUndo:    e.history.CanUndo(),
		CanRedo:    e.history.CanRedo(),
	}
}

// Properties describes the selected brick. It reports false when nothing is
// selected or the selection no longer exists.
func (e *Engine) Properties() (Properties, bool) {
	b, ok := e.scene.Selected()
	if !ok {
		return Properties{}, false
	}
	def, known := e.catalog.Lookup(b.TypeID)
	name := def.Name
	if !known {
		name = unknownName
	}
	return Properties{
		ID:         b.ID,
		TypeID:     b.TypeID,
		Name:       name,
		Position:   b.Position,
		Rotation:   b.Rotation,
		Color:      b.ResolvedColor(def),
		Definition: def,
		Known:      known,
	}, true
}
