// Package catalog provides the static registry of brick type definitions.
//
// A [Catalog] is an ordered, read-only list of [brick.Definition] values with
// one entry marked as the default active type. The built-in palette is
// returned by [Default]; custom palettes can be read from TOML or YAML files
// with [LoadFile]. A catalog is built once at process start and never
// mutated afterwards, so it is safe to share between engines and goroutines.
//
// Lookups never fail loudly: an unknown type id simply yields ok == false and
// callers treat that as "nothing to render, nothing to place".
package catalog

import (
	"slices"

	"github.com/matzehuels/brickyard/pkg/brick"
	errs "github.com/matzehuels/brickyard/pkg/errors"
)

// DefaultTypeID is the active type of the built-in palette.
const DefaultTypeID = "brick-2x2"

// builtin is the palette shipped with Brickyard, in display order.
var builtin = []brick.Definition{
	{
		ID:          "brick-2x2",
		Name:        "Brick 2 x 2",
		Description: "Great for sturdy cores and columns.",
		Studs:       "2 x 2",
		Color:       "#f97316",
		Size:        brick.V(2, 1.5, 2),
	},
	{
		ID:          "brick-2x4",
		Name:        "Brick 2 x 4",
		Description: "The classic brick for most builds.",
		Studs:       "2 x 4",
		Color:       "#38bdf8",
		Size:        brick.V(2, 1.5, 4),
	},
	{
		ID:          "brick-1x4",
		Name:        "Brick 1 x 4",
		Description: "Useful for edges and trim.",
		Studs:       "1 x 4",
		Color:       "#a855f7",
		Size:        brick.V(1, 1.25, 4),
	},
	{
		ID:          "plate-4x4",
		Name:        "Plate 4 x 4",
		Description: "Thin plate ideal for floors.",
		Studs:       "4 x 4",
		Color:       "#22d3ee",
		Size:        brick.V(4, 0.6, 4),
	},
}

// Swatches are the recolor choices offered by the properties panel.
var Swatches = []string{
	"#f97316", // orange
	"#38bdf8", // sky
	"#a855f7", // purple
	"#22d3ee", // cyan
	"#ef4444", // red
	"#10b981", // emerald
	"#eab308", // yellow
	"#f472b6", // pink
	"#94a3b8", // slate
}

// Catalog is an immutable, ordered set of brick definitions.
type Catalog struct {
	defs      []brick.Definition
	index     map[string]int
	defaultID string
}

// Default returns the built-in palette.
func Default() *Catalog {
	c, err := New(builtin, DefaultTypeID)
	if err != nil {
		panic("catalog: invalid built-in palette: " + err.Error())
	}
	return c
}

// New builds a catalog from defs. The definitions are copied. An empty
// defaultID selects the first entry.
//
// Returns an INVALID_CATALOG error when defs is empty, when an id is invalid
// or repeated, when a size component is not positive, when a default color is
// not a hex color, or when defaultID names no definition.
func New(defs []brick.Definition, defaultID string) (*Catalog, error) {
	if len(defs) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidCatalog, "catalog must contain at least one brick type")
	}

	c := &Catalog{
		defs:  slices.Clone(defs),
		index: make(map[string]int, len(defs)),
	}
	for i, d := range c.defs {
		if err := errs.ValidateTypeID(d.ID); err != nil {
			return nil, err
		}
		if _, dup := c.index[d.ID]; dup {
			return nil, errs.New(errs.ErrCodeInvalidCatalog, "duplicate brick type id: %q", d.ID)
		}
		if d.Size.X <= 0 || d.Size.Y <= 0 || d.Size.Z <= 0 || !d.Size.IsFinite() {
			return nil, errs.New(errs.ErrCodeInvalidCatalog, "brick type %q: size must be positive, got [%v]", d.ID, d.Size)
		}
		if err := errs.ValidateColor(d.Color); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidCatalog, err, "brick type %q", d.ID)
		}
		if d.Name == "" {
			c.defs[i].Name = d.ID
		}
		c.index[d.ID] = i
	}

	if defaultID == "" {
		defaultID = c.defs[0].ID
	}
	if _, ok := c.index[defaultID]; !ok {
		return nil, errs.New(errs.ErrCodeInvalidCatalog, "default brick type %q is not in the catalog", defaultID)
	}
	c.defaultID = defaultID
	return c, nil
}

// Lookup returns the definition for typeID.
func (c *Catalog) Lookup(typeID string) (brick.Definition, bool) {
	i, ok := c.index[typeID]
	if !ok {
		return brick.Definition{}, false
	}
	return c.defs[i], true
}

// Definitions returns the definitions in catalog order.
func (c *Catalog) Definitions() []brick.Definition {
	return slices.Clone(c.defs)
}

// DefaultID returns the id of the default active type.
func (c *Catalog) DefaultID() string { return c.defaultID }

// Len returns the number of definitions.
func (c *Catalog) Len() int { return len(c.defs) }

// IDs returns the type ids in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.defs))
	for i, d := range c.defs {
		ids[i] = d.ID
	}
	return ids
}

// Next returns the type id that follows typeID in catalog order, wrapping
// around. Unknown ids yield the default type. Used by palette cycling in the
// terminal editor.
func (c *Catalog) Next(typeID string, step int) string {
	i, ok := c.index[typeID]
	if !ok {
		return c.defaultID
	}
	n := len(c.defs)
	return c.defs[((i+step)%n+n)%n].ID
}
