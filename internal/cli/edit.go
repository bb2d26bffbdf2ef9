package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/brickyard/pkg/errors"
	"github.com/matzehuels/brickyard/pkg/observability"
)

// editCommand creates the interactive editor command.
func (c *CLI) editCommand() *cobra.Command {
	var load bool

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Build interactively in the terminal",
		Long: `Open the top-down terminal editor.

Move the cursor with the arrow keys (or hjkl) and press enter to place a brick
of the active type. With a brick selected (s over a brick), enter moves it to
the cursor instead. Tab cycles the palette, c cycles the recolor swatches, d
deletes, u/r undo and redo, w saves, o loads, n starts a new build and v
switches the camera preset.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ws, err := c.openWorkspace(ctx)
			if err != nil {
				return err
			}
			defer ws.Close()

			// Log lines would tear the alternate screen.
			observability.Reset()

			e := ws.engine()
			m := NewEditorModel(ctx, e)
			if load {
				if err := e.Load(ctx); err != nil && !errs.Is(err, errs.ErrCodeNotFound) {
					return err
				}
				m.setStatus("Loaded %d bricks", e.Len())
			}

			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
			final, err := p.Run()
			if err != nil {
				return err
			}
			if fm, ok := final.(EditorModel); ok {
				printInfo("%d bricks in the scene", fm.Engine.Len())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&load, "load", false, "load the saved build on start")
	return cmd
}
