package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/brickyard/pkg/builder"
	errs "github.com/matzehuels/brickyard/pkg/errors"
	brickio "github.com/matzehuels/brickyard/pkg/io"
	"github.com/matzehuels/brickyard/pkg/render/plan"
	"github.com/matzehuels/brickyard/pkg/storage"
)

// sceneCommand creates the saved-build management command.
func (c *CLI) sceneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scene",
		Short: "Inspect and move the saved build",
		Long: `Inspect and move the build saved under the configured storage key
("lego-build" by default) in the configured storage backend.`,
	}

	cmd.AddCommand(c.sceneShowCommand())
	cmd.AddCommand(c.sceneExportCommand())
	cmd.AddCommand(c.sceneImportCommand())
	cmd.AddCommand(c.scenePlanCommand())
	cmd.AddCommand(c.sceneDeleteCommand())

	return cmd
}

// loadSaved opens the workspace and loads the saved build into a new engine.
func (c *CLI) loadSaved(ctx context.Context) (*builder.Engine, *workspace, error) {
	ws, err := c.openWorkspace(ctx)
	if err != nil {
		return nil, nil, err
	}
	e := ws.engine()
	if err := e.Load(ctx); err != nil {
		ws.Close()
		return nil, nil, err
	}
	return e, ws, nil
}

// sceneShowCommand creates the "scene show" subcommand.
func (c *CLI) sceneShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List the bricks of the saved build",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, ws, err := c.loadSaved(cmd.Context())
			if errs.Is(err, errs.ErrCodeNotFound) {
				printInfo("No saved build found")
				return nil
			}
			if err != nil {
				return err
			}
			defer ws.Close()

			if e.Len() == 0 {
				printInfo("The saved build is empty")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderBricks(e))
			printDetail("%d bricks · key %s · %s storage", e.Len(), e.StorageKey(), ws.cfg.Storage.Backend)
			return nil
		},
	}
}

// renderBricks draws the engine's bricks as a table.
func renderBricks(e *builder.Engine) string {
	bricks := e.Bricks()
	rows := make([][]string, len(bricks))
	colors := make([]string, len(bricks))
	for i, b := range bricks {
		def, ok := e.Catalog().Lookup(b.TypeID)
		name := def.Name
		if !ok {
			name = "Unknown"
		}
		colors[i] = b.ResolvedColor(def)
		rows[i] = []string{strconv.Itoa(i + 1), b.ID, name, b.Position.String(), colors[i]}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "ID", "Type", "Position", "Color").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			switch col {
			case 0:
				return base.Foreground(colorDim)
			case 1:
				return base.Foreground(colorCyan)
			case 4:
				if colors[row] != "" {
					return base.Foreground(lipgloss.Color(colors[row]))
				}
			}
			return base
		}).
		Render()
}

// sceneExportCommand creates the "scene export" subcommand.
func (c *CLI) sceneExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.json>",
		Short: "Write the saved build to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, ws, err := c.loadSaved(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.Close()

			if err := brickio.ExportJSON(e.Bricks(), args[0]); err != nil {
				return err
			}
			printSuccess("Exported %d bricks", e.Len())
			printFile(args[0])
			return nil
		},
	}
}

// sceneImportCommand creates the "scene import" subcommand.
func (c *CLI) sceneImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Replace the saved build with a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			bricks, err := brickio.ImportJSON(args[0])
			if err != nil {
				return err
			}

			ws, err := c.openWorkspace(ctx)
			if err != nil {
				return err
			}
			defer ws.Close()

			e := ws.engine()
			if err := e.Import(bricks); err != nil {
				return err
			}
			if err := e.Save(ctx); err != nil {
				return err
			}
			printSuccess("Imported %d bricks into %s", e.Len(), StyleHighlight.Render(e.StorageKey()))
			printNextStep("Open it", appName+" edit --load")
			return nil
		},
	}
}

// scenePlanCommand creates the "scene plan" subcommand.
func (c *CLI) scenePlanCommand() *cobra.Command {
	var (
		labels bool
		dotOut bool
		scale  float64
	)

	cmd := &cobra.Command{
		Use:   "plan <file.svg>",
		Short: "Render a top-down plan of the saved build",
		Long: `Render a top-down plan of the saved build with Graphviz. Each brick is a box
at its grid position, sized to its footprint and filled with its color.

With --dot the Graphviz source is written instead of SVG.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, ws, err := c.loadSaved(ctx)
			if err != nil {
				return err
			}
			defer ws.Close()

			prog := newProgress(loggerFromContext(ctx))
			dot := plan.ToDOT(e.Bricks(), e.Catalog(), plan.Options{Labels: labels, Scale: scale})
			out := []byte(dot)
			if !dotOut {
				sp := newSpinner(ctx, os.Stderr, "Rendering plan...")
				sp.Start()
				out, err = plan.RenderSVG(ctx, dot)
				if err != nil {
					sp.StopWithError("Rendering failed")
					return err
				}
				sp.Stop()
				prog.done("Rendered plan", "bricks", e.Len(), "bytes", len(out))
			}
			if err := os.WriteFile(args[0], out, 0o644); err != nil {
				return fmt.Errorf("write plan: %w", err)
			}
			printSuccess("Plan of %d bricks", e.Len())
			printFile(args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&labels, "labels", false, "print brick ids and types inside the boxes")
	cmd.Flags().BoolVar(&dotOut, "dot", false, "write Graphviz DOT source instead of SVG")
	cmd.Flags().Float64Var(&scale, "scale", plan.DefaultScale, "inches per grid unit")
	return cmd
}

// sceneDeleteCommand creates the "scene delete" subcommand.
func (c *CLI) sceneDeleteCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the saved build",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !yes {
				printWarning("This deletes the saved build. Re-run with --yes to confirm.")
				return errs.New(errs.ErrCodeConfirmationRequired, "deletion not confirmed")
			}

			ws, err := c.openWorkspace(ctx)
			if err != nil {
				return err
			}
			defer ws.Close()

			key := ws.cfg.Storage.Key
			if _, err := ws.store.Get(ctx, key); errors.Is(err, storage.ErrNotFound) {
				printInfo("No saved build found")
				return nil
			}
			if err := ws.store.Delete(ctx, key); err != nil {
				return errs.Wrap(errs.ErrCodeStorage, err, "delete build")
			}
			printSuccess("Deleted %s", StyleHighlight.Render(key))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")
	return cmd
}
