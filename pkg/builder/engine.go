package builder

import (
	"context"
	"errors"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/brickyard/pkg/brick"
	"github.com/matzehuels/brickyard/pkg/catalog"
	"github.com/matzehuels/brickyard/pkg/config"
	errs "github.com/matzehuels/brickyard/pkg/errors"
	"github.com/matzehuels/brickyard/pkg/grid"
	"github.com/matzehuels/brickyard/pkg/history"
	brickio "github.com/matzehuels/brickyard/pkg/io"
	"github.com/matzehuels/brickyard/pkg/observability"
	"github.com/matzehuels/brickyard/pkg/scene"
	"github.com/matzehuels/brickyard/pkg/storage"
)

// CameraView is a camera preset. The engine stores it for the view layer
// and never interprets it.
type CameraView string

const (
	ViewIso   CameraView = "iso"
	ViewTop   CameraView = "top"
	ViewFront CameraView = "front"
)

// CameraViews lists the presets in toggle order.
var CameraViews = []CameraView{ViewIso, ViewTop, ViewFront}

// Valid reports whether v is a known preset.
func (v CameraView) Valid() bool { return slices.Contains(CameraViews, v) }

// Next returns the preset after v, wrapping around.
func (v CameraView) Next() CameraView {
	i := slices.Index(CameraViews, v)
	return CameraViews[(i+1)%len(CameraViews)]
}

// Engine is the builder state machine.
type Engine struct {
	catalog    *catalog.Catalog
	store      storage.Store
	key        string
	scene      *scene.Scene
	history    *history.History
	activeType string
	view       CameraView
	logger     *log.Logger
	hooks      observability.EngineHooks
}

// Option configures an Engine.
type Option func(*Engine)

// WithCatalog sets the brick palette. The default is catalog.Default().
func WithCatalog(c *catalog.Catalog) Option { return func(e *Engine) { e.catalog = c } }

// WithStore sets the persistence backend used by Save and Load.
func WithStore(s storage.Store) Option { return func(e *Engine) { e.store = s } }

// WithStorageKey sets the key builds are saved under (default "lego-build").
func WithStorageKey(key string) Option { return func(e *Engine) { e.key = key } }

// WithHistoryLimit bounds the number of undo steps. Values <= 0 mean the
// history default.
func WithHistoryLimit(n int) Option { return func(e *Engine) { e.history = history.New(n) } }

// WithLogger sets the logger. By default the engine does not log.
func WithLogger(l *log.Logger) Option { return func(e *Engine) { e.logger = l } }

// WithHooks sets the observability hooks. By default observability.Engine()
// is used.
func WithHooks(h observability.EngineHooks) Option { return func(e *Engine) { e.hooks = h } }

// WithActiveType sets the initial active brick type instead of the catalog
// default.
func WithActiveType(typeID string) Option { return func(e *Engine) { e.activeType = typeID } }

// New creates an engine with an empty scene, the catalog's default type
// active and the isometric camera.
func New(opts ...Option) *Engine {
	e := &Engine{
		key:   config.DefaultStorageKey,
		scene: scene.New(),
		view:  ViewIso,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.catalog == nil {
		e.catalog = catalog.Default()
	}
	if e.history == nil {
		e.history = history.New(history.DefaultLimit)
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	if e.hooks == nil {
		e.hooks = observability.Engine()
	}
	if e.activeType == "" {
		e.activeType = e.catalog.DefaultID()
	}
	return e
}

// =============================================================================
// Palette and camera
// =============================================================================

// SetActiveType selects the brick type used by later placements. Unknown ids
// are accepted; placing with one is a no-op.
func (e *Engine) SetActiveType(typeID string) {
	e.activeType = typeID
	e.logger.Debug("active type", "type", typeID)
	e.hooks.OnApplied("set-active-type", e.scene.Len())
}

// CycleActiveType moves the active type step entries through the palette.
func (e *Engine) CycleActiveType(step int) string {
	e.SetActiveType(e.catalog.Next(e.activeType, step))
	return e.activeType
}

// SetCameraView switches the camera preset. Unknown views are ignored.
func (e *Engine) SetCameraView(v CameraView) bool {
	if !v.Valid() {
		e.ignore("set-camera", "unknown view")
		return false
	}
	e.view = v
	e.hooks.OnApplied("set-camera", e.scene.Len())
	return true
}

// ResetCamera returns to the isometric preset.
func (e *Engine) ResetCamera() { e.SetCameraView(ViewIso) }

// =============================================================================
// Scene mutations
// =============================================================================

// Place adds a brick of the active type at point with X and Z snapped to the
// grid and Y resting on the floor. The new brick becomes the selection.
func (e *Engine) Place(point brick.Vec3) (brick.Instance, bool) {
	if !point.IsFinite() {
		e.ignore("place", "non-finite point")
		return brick.Instance{}, false
	}
	def, ok := e.catalog.Lookup(e.activeType)
	if !ok {
		e.ignore("place", "unknown active type "+e.activeType)
		return brick.Instance{}, false
	}
	e.record()
	b := e.scene.Place(def, point)
	e.logger.Debug("placed", "id", b.ID, "type", b.TypeID, "pos", b.Position)
	e.hooks.OnApplied("place", e.scene.Len())
	return b, true
}

// PlaceOrMove handles a pointer hit at point: with a selection the selected
// brick moves there, otherwise a brick of the active type is placed.
func (e *Engine) PlaceOrMove(point brick.Vec3) bool {
	if !point.IsFinite() {
		e.ignore("pointer", "non-finite point")
		return false
	}
	if id := e.scene.SelectedID(); id != "" {
		if _, ok := e.scene.Find(id); !ok {
			e.scene.Select("")
			e.ignore("move", "stale selection")
			return false
		}
		return e.MoveTo(id, point)
	}
	_, ok := e.Place(point)
	return ok
}

// SelectBrick sets the selection. The empty id deselects.
func (e *Engine) SelectBrick(id string) {
	e.scene.Select(id)
	e.logger.Debug("select", "id", id)
}

// Deselect clears the selection, as when the pointer misses every brick.
func (e *Engine) Deselect() { e.SelectBrick("") }

// DeleteSelected removes the selected brick.
func (e *Engine) DeleteSelected() bool {
	id, ok := e.liveSelection("delete")
	if !ok {
		return false
	}
	e.record()
	e.scene.Remove(id)
	e.logger.Debug("deleted", "id", id)
	e.hooks.OnApplied("delete", e.scene.Len())
	return true
}

// SetColor overrides the color of the selected brick. The empty string
// restores the definition color. Any other string is stored as given; the
// view layer decides how to paint it.
func (e *Engine) SetColor(color string) bool {
	if e.scene.SelectedID() == "" {
		e.ignore("set-color", "no selection")
		return false
	}
	id := e.scene.SelectedID()
	if _, ok := e.scene.Find(id); !ok {
		e.ignore("set-color", "stale selection")
		return false
	}
	e.record()
	e.scene.SetColor(id, color)
	e.logger.Debug("recolored", "id", id, "color", color)
	e.hooks.OnApplied("set-color", e.scene.Len())
	return true
}

// MoveTo moves brick id to point. X and Z are snapped; Y becomes half the
// brick's own definition height, so a moved brick always lands on the floor.
// A brick whose type is missing from the catalog keeps its Y.
func (e *Engine) MoveTo(id string, point brick.Vec3) bool {
	if !point.IsFinite() {
		e.ignore("move", "non-finite point")
		return false
	}
	b, ok := e.scene.Find(id)
	if !ok {
		e.ignore("move", "unknown brick "+id)
		return false
	}
	y := b.Position.Y
	if def, ok := e.catalog.Lookup(b.TypeID); ok {
		y = def.RestY()
	}
	pos := grid.SnapXZ(point)
	pos.Y = y

	e.record()
	e.scene.SetPosition(id, pos)
	e.logger.Debug("moved", "id", id, "pos", pos)
	e.hooks.OnApplied("move", e.scene.Len())
	return true
}

// Clear removes every brick once the caller has obtained confirmation.
// Passing false leaves everything untouched.
func (e *Engine) Clear(confirmed bool) bool {
	if !confirmed {
		e.ignore("clear", "not confirmed")
		return false
	}
	e.record()
	e.scene.Clear()
	e.logger.Debug("cleared")
	e.hooks.OnApplied("clear", 0)
	return true
}

// =============================================================================
// History
// =============================================================================

// Undo restores the brick sequence before the most recent change and clears
// the selection.
func (e *Engine) Undo() bool {
	prev, ok := e.history.Undo(e.scene.Snapshot())
	if !ok {
		e.ignore("undo", "nothing to undo")
		return false
	}
	e.scene.Replace(prev)
	e.logger.Debug("undo", "bricks", len(prev), "depth", e.history.Depth())
	e.hooks.OnApplied("undo", e.scene.Len())
	return true
}

// Redo reapplies the most recently undone change and clears the selection.
func (e *Engine) Redo() bool {
	next, ok := e.history.Redo(e.scene.Snapshot())
	if !ok {
		e.ignore("redo", "nothing to redo")
		return false
	}
	e.scene.Replace(next)
	e.logger.Debug("redo", "bricks", len(next), "pending", e.history.Pending())
	e.hooks.OnApplied("redo", e.scene.Len())
	return true
}

// =============================================================================
// Persistence
// =============================================================================

// Save writes the brick sequence under the storage key. Palette, selection
// and history are not saved.
func (e *Engine) Save(ctx context.Context) (err error) {
	start := time.Now()
	bricks := e.scene.Snapshot()
	defer func() { e.hooks.OnPersist(ctx, "save", e.key, len(bricks), time.Since(start), err) }()

	if e.store == nil {
		return errs.New(errs.ErrCodeStorage, "no storage configured")
	}
	data, err := brickio.Marshal(bricks)
	if err != nil {
		return err
	}
	if err := e.store.Set(ctx, e.key, data); err != nil {
		e.logger.Warn("save failed", "key", e.key, "err", err)
		return errs.Wrap(errs.ErrCodeStorage, err, "failed to save build")
	}
	e.logger.Info("saved build", "key", e.key, "bricks", len(bricks))
	return nil
}

// Load replaces the scene with the build saved under the storage key. The
// replacement is recorded in history and clears the selection. When nothing
// is saved (NOT_FOUND) or the data is malformed (INVALID_FORMAT) the scene,
// selection and history are left as they were.
func (e *Engine) Load(ctx context.Context) (err error) {
	start := time.Now()
	n := 0
	defer func() { e.hooks.OnPersist(ctx, "load", e.key, n, time.Since(start), err) }()

	if e.store == nil {
		return errs.New(errs.ErrCodeStorage, "no storage configured")
	}
	data, err := e.store.Get(ctx, e.key)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		e.logger.Warn("no saved build found", "key", e.key)
		return errs.Wrap(errs.ErrCodeNotFound, err, "no saved build found")
	case err != nil:
		e.logger.Warn("load failed", "key", e.key, "err", err)
		return errs.Wrap(errs.ErrCodeStorage, err, "failed to read build")
	}
	bricks, err := brickio.Unmarshal(data)
	if err != nil {
		e.logger.Warn("failed to load build data", "key", e.key, "err", err)
		return errs.Wrap(errs.ErrCodeInvalidFormat, err, "failed to load build data")
	}
	e.replace("load", bricks)
	n = len(bricks)
	e.logger.Info("loaded build", "key", e.key, "bricks", n)
	return nil
}

// Import replaces the scene with an already decoded sequence, applying the
// same validation and history rules as Load.
func (e *Engine) Import(bricks []brick.Instance) error {
	if err := brickio.Validate(bricks); err != nil {
		return err
	}
	e.replace("import", slices.Clone(bricks))
	return nil
}

func (e *Engine) replace(op string, bricks []brick.Instance) {
	e.record()
	e.scene.Replace(bricks)
	e.hooks.OnApplied(op, e.scene.Len())
}

// =============================================================================
// Helpers
// =============================================================================

// record pushes the current sequence onto the history. Call it after the
// preconditions hold and before the mutation.
func (e *Engine) record() {
	e.history.Record(e.scene.Snapshot())
}

// liveSelection returns the selected id if it names an existing brick. A
// stale selection is cleared.
func (e *Engine) liveSelection(op string) (string, bool) {
	id := e.scene.SelectedID()
	if id == "" {
		e.ignore(op, "no selection")
		return "", false
	}
	if _, ok := e.scene.Find(id); !ok {
		e.scene.Select("")
		e.ignore(op, "stale selection")
		return "", false
	}
	return id, true
}

func (e *Engine) ignore(op, reason string) {
	e.logger.Debug("ignored", "op", op, "reason", reason)
	e.hooks.OnIgnored(op, reason)
}
