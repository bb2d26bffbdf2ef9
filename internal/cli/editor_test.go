package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/brickyard/pkg/brick"
	"github.com/matzehuels/brickyard/pkg/builder"
	"github.com/matzehuels/brickyard/pkg/catalog"
	"github.com/matzehuels/brickyard/pkg/storage"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestEditor(t *testing.T) (EditorModel, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	e := builder.New(builder.WithStore(store))
	return NewEditorModel(context.Background(), e), store
}

// press feeds keys through Update in order.
func press(t *testing.T, m EditorModel, keys ...tea.KeyMsg) EditorModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		var ok bool
		m, ok = next.(EditorModel)
		if !ok {
			t.Fatalf("Update returned %T, want EditorModel", next)
		}
	}
	return m
}

func TestEditorPlaceAtCursor(t *testing.T) {
	m, _ := newTestEditor(t)
	m = press(t, m,
		tea.KeyMsg{Type: tea.KeyRight},
		tea.KeyMsg{Type: tea.KeyRight},
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyEnter},
	)

	bricks := m.Engine.Bricks()
	if len(bricks) != 1 {
		t.Fatalf("len(bricks) = %d, want 1", len(bricks))
	}
	if want := brick.V(2, 0.75, 1); bricks[0].Position != want {
		t.Errorf("position = %v, want %v", bricks[0].Position, want)
	}
	if bricks[0].TypeID != catalog.DefaultTypeID {
		t.Errorf("type = %q, want %q", bricks[0].TypeID, catalog.DefaultTypeID)
	}
}

func TestEditorCursorKeys(t *testing.T) {
	m, _ := newTestEditor(t)
	m = press(t, m, runes("l"), runes("l"), runes("l"), runes("h"), runes("k"), runes("k"), runes("j"))
	if m.CursorX != 2 || m.CursorZ != -1 {
		t.Errorf("cursor = (%d, %d), want (2, -1)", m.CursorX, m.CursorZ)
	}
}

func TestEditorSelectAndMove(t *testing.T) {
	m, _ := newTestEditor(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter}, runes("s"))

	id := m.Engine.SelectedID()
	if id == "" {
		t.Fatal("s over a brick did not select it")
	}

	for range 5 {
		m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.Engine.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (enter with a selection moves)", m.Engine.Len())
	}
	if got := m.Engine.Bricks()[0].Position; got != brick.V(5, 0.75, 0) {
		t.Errorf("position = %v, want (5, 0.75, 0)", got)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Engine.SelectedID() != "" {
		t.Errorf("SelectedID() = %q after esc, want empty", m.Engine.SelectedID())
	}
}

func TestEditorSelectEmptyCellDeselects(t *testing.T) {
	m, _ := newTestEditor(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter}, runes("s"))
	for range 6 {
		m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	}
	m = press(t, m, runes("s"))
	if m.Engine.SelectedID() != "" {
		t.Errorf("SelectedID() = %q, want empty", m.Engine.SelectedID())
	}
}

func TestEditorDeleteAndUndo(t *testing.T) {
	m, _ := newTestEditor(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter}, runes("s"), runes("d"))
	if m.Engine.Len() != 0 {
		t.Fatalf("Len() = %d after delete, want 0", m.Engine.Len())
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlZ})
	if m.Engine.Len() != 1 {
		t.Errorf("Len() = %d after undo, want 1", m.Engine.Len())
	}
	m = press(t, m, runes("r"))
	if m.Engine.Len() != 0 {
		t.Errorf("Len() = %d after redo, want 0", m.Engine.Len())
	}
}

func TestEditorPalette(t *testing.T) {
	m, _ := newTestEditor(t)
	ids := m.Engine.Catalog().IDs()

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if got := m.Engine.ActiveType(); got != ids[1] {
		t.Errorf("ActiveType() after tab = %q, want %q", got, ids[1])
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab}, tea.KeyMsg{Type: tea.KeyShiftTab})
	if got := m.Engine.ActiveType(); got != ids[len(ids)-1] {
		t.Errorf("ActiveType() after shift+tab = %q, want %q", got, ids[len(ids)-1])
	}
	m = press(t, m, runes("3"))
	if got := m.Engine.ActiveType(); got != ids[2] {
		t.Errorf("ActiveType() after 3 = %q, want %q", got, ids[2])
	}
	m = press(t, m, runes("9"))
	if got := m.Engine.ActiveType(); got != ids[2] {
		t.Errorf("ActiveType() after 9 = %q, want unchanged %q", got, ids[2])
	}
}

func TestEditorRecolor(t *testing.T) {
	m, _ := newTestEditor(t)

	m = press(t, m, runes("c"))
	if m.swatch != 0 {
		t.Errorf("swatch advanced without a selection")
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter}, runes("s"), runes("c"))
	if got := m.Engine.Bricks()[0].Color; got != catalog.Swatches[0] {
		t.Errorf("color = %q, want %q", got, catalog.Swatches[0])
	}
	m = press(t, m, runes("c"))
	if got := m.Engine.Bricks()[0].Color; got != catalog.Swatches[1] {
		t.Errorf("color = %q, want %q", got, catalog.Swatches[1])
	}
	m = press(t, m, runes("x"))
	if got := m.Engine.Bricks()[0].Color; got != "" {
		t.Errorf("color after reset = %q, want empty", got)
	}
}

func TestEditorSaveLoad(t *testing.T) {
	m, store := newTestEditor(t)

	m = press(t, m, runes("o"))
	if !m.StatusErr || m.Status != "No saved build found" {
		t.Errorf("status = %q (err=%v), want the not-found message", m.Status, m.StatusErr)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter}, runes("w"))
	if m.StatusErr {
		t.Fatalf("save failed: %s", m.Status)
	}
	if store.Len() != 1 {
		t.Errorf("store.Len() = %d, want 1", store.Len())
	}

	// The placed brick is selected; deselect so enter places instead of moving.
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc}, tea.KeyMsg{Type: tea.KeyRight},
		tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Engine.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", m.Engine.Len())
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	if m.Engine.Len() != 1 {
		t.Errorf("Len() after load = %d, want 1", m.Engine.Len())
	}
	if m.StatusErr {
		t.Errorf("load reported an error: %s", m.Status)
	}
}

func TestEditorLoadMalformed(t *testing.T) {
	m, store := newTestEditor(t)
	if err := store.Set(context.Background(), m.Engine.StorageKey(), []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	m = press(t, m, runes("o"))
	if !m.StatusErr || m.Status != "Failed to load build data" {
		t.Errorf("status = %q (err=%v), want the format message", m.Status, m.StatusErr)
	}
}

func TestEditorNewBuildConfirm(t *testing.T) {
	tests := []struct {
		name    string
		answer  tea.KeyMsg
		wantLen int
	}{
		{"yes clears", runes("y"), 0},
		{"no keeps", runes("n"), 1},
		{"other keeps", tea.KeyMsg{Type: tea.KeyEsc}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestEditor(t)
			m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter}, runes("n"))
			if !m.Confirming {
				t.Fatal("n did not ask for confirmation")
			}
			if !strings.Contains(m.View(), "(y/n)") {
				t.Error("View() does not show the confirmation prompt")
			}
			m = press(t, m, tt.answer)
			if m.Confirming {
				t.Error("still confirming after an answer")
			}
			if got := m.Engine.Len(); got != tt.wantLen {
				t.Errorf("Len() = %d, want %d", got, tt.wantLen)
			}
		})
	}
}

func TestEditorCamera(t *testing.T) {
	m, _ := newTestEditor(t)
	m = press(t, m, runes("v"))
	if got := m.Engine.CameraView(); got != builder.ViewIso.Next() {
		t.Errorf("CameraView() = %q, want %q", got, builder.ViewIso.Next())
	}
	m = press(t, m, runes("0"))
	if got := m.Engine.CameraView(); got != builder.ViewIso {
		t.Errorf("CameraView() after reset = %q, want %q", got, builder.ViewIso)
	}
}

func TestEditorQuit(t *testing.T) {
	m, _ := newTestEditor(t)
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestEditorWindowSize(t *testing.T) {
	m, _ := newTestEditor(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(EditorModel)
	if m.Cols != 42 || m.Rows != 30 {
		t.Errorf("grid = %dx%d, want 42x30", m.Cols, m.Rows)
	}

	next, _ = m.Update(tea.WindowSizeMsg{Width: 10, Height: 6})
	m = next.(EditorModel)
	if m.Cols != 9 || m.Rows != 5 {
		t.Errorf("grid = %dx%d, want the 9x5 minimum", m.Cols, m.Rows)
	}
}

func TestEditorView(t *testing.T) {
	m, _ := newTestEditor(t)
	view := m.View()
	for _, want := range []string{"Brickyard", "Brick 2 x 2", "No brick selected", "0 bricks"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter}, runes("s"))
	view = m.View()
	for _, want := range []string{m.Engine.SelectedID(), "1 bricks"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() with selection missing %q", want)
		}
	}
}

func TestCovers(t *testing.T) {
	b := brick.Instance{Position: brick.V(0, 0.75, 0)}
	tests := []struct {
		x, z int
		want bool
	}{
		{0, 0, true},
		{-1, -1, true},
		{1, 0, false},
		{0, 1, false},
		{-2, 0, false},
	}
	for _, tt := range tests {
		if got := covers(b, 2, 2, tt.x, tt.z); got != tt.want {
			t.Errorf("covers(%d, %d) = %v, want %v", tt.x, tt.z, got, tt.want)
		}
	}
}

func TestEditorPointerStatus(t *testing.T) {
	m, _ := newTestEditor(t)
	m.Engine.SelectBrick("brick-99")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Status != "The selected brick no longer exists" {
		t.Errorf("status with a stale selection = %q", m.Status)
	}
	if m.Engine.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Engine.Len())
	}

	m.Engine.SetActiveType("gone")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Status != "Nothing to place: unknown brick type gone" {
		t.Errorf("status with an unknown type = %q", m.Status)
	}
}

func TestBrickAt(t *testing.T) {
	m, _ := newTestEditor(t)
	m.Engine.SetActiveType("plate-4x4")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	id := m.Engine.SelectedID()

	tests := []struct {
		x, z   int
		wantOK bool
	}{
		{0, 0, true},
		{-2, -2, true},
		{1, 1, true},
		{2, 0, false},
		{0, -3, false},
	}
	for _, tt := range tests {
		got, ok := m.brickAt(tt.x, tt.z)
		if ok != tt.wantOK || (ok && got != id) {
			t.Errorf("brickAt(%d, %d) = %q, %v, want %v", tt.x, tt.z, got, ok, tt.wantOK)
		}
	}
}
