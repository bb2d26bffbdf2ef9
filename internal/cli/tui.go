package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/brickyard/pkg/brick"
	"github.com/matzehuels/brickyard/pkg/builder"
	"github.com/matzehuels/brickyard/pkg/catalog"
	errs "github.com/matzehuels/brickyard/pkg/errors"
)

// Editor styles
var (
	editorFrameStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	editorPanelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1).Width(30)
	editorActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	editorLabelStyle  = lipgloss.NewStyle().Foreground(colorGray).Width(9)
	editorKeyStyle    = lipgloss.NewStyle().Foreground(colorBlue)
	editorEmptyStyle  = lipgloss.NewStyle().Foreground(colorDim)
	editorCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	defaultGridCols = 25
	defaultGridRows = 15
)

// =============================================================================
// EditorModel - Interactive top-down builder
// =============================================================================

// EditorModel is the bubbletea model of the terminal editor. The cursor plays
// the role of the pointer: enter places a brick under it (or moves the
// selected brick there), s selects the brick under it.
type EditorModel struct {
	Engine *builder.Engine

	// CursorX and CursorZ are the grid cell under the cursor.
	CursorX, CursorZ int

	// Cols and Rows size the visible grid around the origin.
	Cols, Rows int

	// Confirming is true while the "new build" prompt waits for y/n.
	Confirming bool

	Status    string
	StatusErr bool

	ctx    context.Context
	swatch int
}

// NewEditorModel creates an editor over e. ctx bounds save and load calls.
func NewEditorModel(ctx context.Context, e *builder.Engine) EditorModel {
	return EditorModel{
		Engine: e,
		Cols:   defaultGridCols,
		Rows:   defaultGridRows,
		ctx:    ctx,
	}
}

func (m EditorModel) Init() tea.Cmd {
	return nil
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Confirming {
			return m.updateConfirm(msg), nil
		}
		return m.updateKey(msg)
	case tea.WindowSizeMsg:
		m.Cols = max(9, min(61, (msg.Width-36)/2))
		m.Rows = max(5, msg.Height-10)
	}
	return m, nil
}

func (m EditorModel) updateConfirm(msg tea.KeyMsg) EditorModel {
	m.Confirming = false
	switch msg.String() {
	case "y", "Y":
		m.Engine.Clear(true)
		m.setStatus("Started a new build")
	default:
		m.Engine.Clear(false)
		m.setStatus("Kept the current build")
	}
	return m
}

func (m EditorModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := m.Engine
	m.Status, m.StatusErr = "", false

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	// Pointer
	case "up", "k":
		m.CursorZ--
	case "down", "j":
		m.CursorZ++
	case "left", "h":
		m.CursorX--
	case "right", "l":
		m.CursorX++
	case "enter", " ", "space":
		hadSelection := e.SelectedID() != ""
		switch {
		case e.PlaceOrMove(m.pointer()):
		case hadSelection:
			m.setStatus("The selected brick no longer exists")
		default:
			m.setStatus("Nothing to place: unknown brick type %s", e.ActiveType())
		}
	case "s":
		if id, ok := m.brickAt(m.CursorX, m.CursorZ); ok {
			e.SelectBrick(id)
		} else {
			e.Deselect()
		}
	case "esc":
		e.Deselect()

	// Palette
	case "tab", "]":
		e.CycleActiveType(1)
	case "shift+tab", "[":
		e.CycleActiveType(-1)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		ids := e.Catalog().IDs()
		if i := int(msg.String()[0] - '1'); i < len(ids) {
			e.SetActiveType(ids[i])
		}

	// Properties
	case "c":
		if e.SetColor(catalog.Swatches[m.swatch%len(catalog.Swatches)]) {
			m.swatch++
		}
	case "x":
		e.SetColor("")
	case "d", "delete", "backspace":
		e.DeleteSelected()

	// Toolbar
	case "u", "ctrl+z":
		e.Undo()
	case "r", "ctrl+y":
		e.Redo()
	case "ctrl+s", "w":
		if err := e.Save(m.ctx); err != nil {
			m.setError(err)
		} else {
			m.setStatus("Saved %d bricks", e.Len())
		}
	case "ctrl+o", "o":
		switch err := e.Load(m.ctx); {
		case errs.Is(err, errs.ErrCodeNotFound):
			m.setError(errs.New(errs.ErrCodeNotFound, "No saved build found"))
		case errs.Is(err, errs.ErrCodeInvalidFormat):
			m.setError(errs.New(errs.ErrCodeInvalidFormat, "Failed to load build data"))
		case err != nil:
			m.setError(err)
		default:
			m.setStatus("Loaded %d bricks", e.Len())
		}
	case "n":
		m.Confirming = true
	case "v":
		e.SetCameraView(e.CameraView().Next())
	case "0":
		e.ResetCamera()
	}
	return m, nil
}

func (m *EditorModel) setStatus(format string, args ...any) {
	m.Status = fmt.Sprintf(format, args...)
	m.StatusErr = false
}

func (m *EditorModel) setError(err error) {
	m.Status = errs.UserMessage(err)
	m.StatusErr = true
}

// pointer is the world point under the cursor.
func (m EditorModel) pointer() brick.Vec3 {
	return brick.V(float64(m.CursorX), 0, float64(m.CursorZ))
}

// brickAt returns the most recently placed brick covering cell (x, z).
func (m EditorModel) brickAt(x, z int) (string, bool) {
	bricks := m.Engine.Bricks()
	for i := len(bricks) - 1; i >= 0; i-- {
		if w, d := m.footprint(bricks[i]); covers(bricks[i], w, d, x, z) {
			return bricks[i].ID, true
		}
	}
	return "", false
}

// footprint returns a brick's width and depth in cells. Bricks of unknown
// type occupy one cell.
func (m EditorModel) footprint(b brick.Instance) (w, d float64) {
	if def, ok := m.Engine.Catalog().Lookup(b.TypeID); ok {
		return def.Width(), def.Depth()
	}
	return 1, 1
}

// covers reports whether cell (x, z) lies in the half-open footprint of b.
func covers(b brick.Instance, w, d float64, x, z int) bool {
	fx, fz := float64(x), float64(z)
	return fx >= b.Position.X-w/2 && fx < b.Position.X+w/2 &&
		fz >= b.Position.Z-d/2 && fz < b.Position.Z+d/2
}

// =============================================================================
// View
// =============================================================================

func (m EditorModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Brickyard"))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  · %s view · cursor %d, %d", m.Engine.CameraView(), m.CursorX, m.CursorZ)))
	b.WriteString("\n")
	b.WriteString(m.viewPalette())
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		editorFrameStyle.Render(m.viewGrid()),
		" ",
		editorPanelStyle.Render(m.viewProperties()),
	))
	b.WriteString("\n")
	b.WriteString(m.viewStatus())
	b.WriteString("\n")
	b.WriteString(m.viewHelp())
	return b.String()
}

func (m EditorModel) viewPalette() string {
	parts := make([]string, 0, len(m.Engine.Palette()))
	for i, d := range m.Engine.Palette() {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(d.Color)).Render("■")
		label := fmt.Sprintf("%d %s", i+1, d.Name)
		if d.ID == m.Engine.ActiveType() {
			label = editorActiveStyle.Render("▸ " + label)
		} else {
			label = listDimStyle.Render("  " + label)
		}
		parts = append(parts, swatch+" "+label)
	}
	return strings.Join(parts, "   ")
}

func (m EditorModel) viewGrid() string {
	bricks := m.Engine.Bricks()
	selected := m.Engine.SelectedID()

	// Keep the cursor visible by centering the window on it when it leaves.
	x0 := m.CursorX - m.Cols/2
	z0 := m.CursorZ - m.Rows/2
	if abs(m.CursorX) <= m.Cols/2 && abs(m.CursorZ) <= m.Rows/2 {
		x0, z0 = -m.Cols/2, -m.Rows/2
	}

	var b strings.Builder
	for row := range m.Rows {
		z := z0 + row
		for col := range m.Cols {
			x := x0 + col
			b.WriteString(m.viewCell(bricks, selected, x, z))
		}
		if row < m.Rows-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m EditorModel) viewCell(bricks []brick.Instance, selected string, x, z int) string {
	isCursor := x == m.CursorX && z == m.CursorZ
	for i := len(bricks) - 1; i >= 0; i-- {
		bk := bricks[i]
		w, d := m.footprint(bk)
		if !covers(bk, w, d, x, z) {
			continue
		}
		def, _ := m.Engine.Catalog().Lookup(bk.TypeID)
		color := bk.ResolvedColor(def)
		if color == "" {
			color = "#94a3b8"
		}
		style := lipgloss.NewStyle().Background(lipgloss.Color(color)).Foreground(lipgloss.Color("#0f172a"))
		glyph := "  "
		if bk.ID == selected {
			glyph = "▒▒"
		}
		if isCursor {
			glyph = "[]"
		}
		return style.Render(glyph)
	}
	if isCursor {
		return editorCursorStyle.Render("[]")
	}
	if x == 0 && z == 0 {
		return editorEmptyStyle.Render("┼ ")
	}
	return editorEmptyStyle.Render("· ")
}

func (m EditorModel) viewProperties() string {
	var b strings.Builder
	line := func(label, value string) {
		b.WriteString(editorLabelStyle.Render(label) + StyleValue.Render(value) + "\n")
	}

	b.WriteString(StyleTitle.Render("Properties"))
	b.WriteString("\n")
	props, ok := m.Engine.Properties()
	if !ok {
		b.WriteString(StyleDim.Render("No brick selected.\nPress s over a brick."))
	} else {
		line("Name", props.Name)
		line("ID", props.ID)
		line("Position", props.Position.String())
		line("Rotation", props.Rotation.String())
		swatch := props.Color
		if swatch != "" {
			swatch = lipgloss.NewStyle().Foreground(lipgloss.Color(props.Color)).Render("■ ") + props.Color
		}
		line("Color", swatch)
		if props.Known {
			b.WriteString(StyleDim.Render(props.Definition.Description))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%d bricks", m.Engine.Len())))
	return b.String()
}

func (m EditorModel) viewStatus() string {
	switch {
	case m.Confirming:
		return styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render("Start a new build? This clears every brick. (y/n)")
	case m.Status == "":
		return ""
	case m.StatusErr:
		return styleIconError.Render(iconError) + " " + m.Status
	default:
		return styleIconSuccess.Render(iconSuccess) + " " + m.Status
	}
}

func (m EditorModel) viewHelp() string {
	keys := []struct{ key, desc string }{
		{"←↑↓→", "move"},
		{"⏎", "place/move"},
		{"s", "select"},
		{"tab", "type"},
		{"c", "color"},
		{"d", "delete"},
		{"u", "undo"},
		{"r", "redo"},
		{"w", "save"},
		{"o", "load"},
		{"n", "new"},
		{"v", "view"},
		{"q", "quit"},
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		desc := k.desc
		if (k.key == "u" && !m.Engine.CanUndo()) || (k.key == "r" && !m.Engine.CanRedo()) {
			desc = StyleDim.Render(desc)
		}
		parts[i] = editorKeyStyle.Render(k.key) + " " + listDimStyle.Render(desc)
	}
	return strings.Join(parts, "  ")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
