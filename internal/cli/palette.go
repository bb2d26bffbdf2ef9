package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/brickyard/pkg/brick"
	"github.com/matzehuels/brickyard/pkg/catalog"
)

// paletteCommand creates the palette command.
func (c *CLI) paletteCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "palette",
		Short: "List the available brick types",
		Long: `List the brick types of the configured palette.

The built-in palette is used unless [editor] catalog in the config file (or
--file) names a TOML or YAML palette file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cat *catalog.Catalog
				err error
			)
			if file != "" {
				cat, err = catalog.LoadFile(file)
			} else {
				cfg, cfgErr := c.loadConfig()
				if cfgErr != nil {
					return cfgErr
				}
				cat, err = loadCatalog(cfg)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderPalette(cat))
			printDetail("%d brick types · default %s", cat.Len(), cat.DefaultID())
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "palette file to list instead of the configured one")
	return cmd
}

// renderPalette draws the catalog as a table with a color swatch column.
func renderPalette(cat *catalog.Catalog) string {
	defs := cat.Definitions()
	rows := make([][]string, len(defs))
	for i, d := range defs {
		rows[i] = []string{d.ID, d.Name, d.Studs, fmtSize(d.Size), d.Color, d.Description}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "Studs", "Size", "Color", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			switch col {
			case 0:
				if defs[row].ID == cat.DefaultID() {
					return base.Foreground(colorCyan).Bold(true)
				}
				return base.Foreground(colorCyan)
			case 4:
				return base.Foreground(lipgloss.Color(defs[row].Color))
			case 5:
				return base.Foreground(colorDim)
			}
			return base
		})
	return t.Render()
}

func fmtSize(v brick.Vec3) string {
	return fmt.Sprintf("%g × %g × %g", v.X, v.Y, v.Z)
}
