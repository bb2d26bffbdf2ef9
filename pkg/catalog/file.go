package catalog

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/brickyard/pkg/brick"
	errs "github.com/matzehuels/brickyard/pkg/errors"
)

// paletteFile is the on-disk palette layout shared by TOML and YAML:
//
//	default = "brick-2x2"
//
//	[[brick]]
//	id = "brick-2x2"
//	name = "Brick 2 x 2"
//	studs = "2 x 2"
//	color = "#f97316"
//	size = [2, 1.5, 2]
type paletteFile struct {
	Default string         `toml:"default" yaml:"default"`
	Bricks  []paletteBrick `toml:"brick" yaml:"brick"`
}

type paletteBrick struct {
	ID          string    `toml:"id" yaml:"id"`
	Name        string    `toml:"name" yaml:"name"`
	Description string    `toml:"description" yaml:"description"`
	Studs       string    `toml:"studs" yaml:"studs"`
	Color       string    `toml:"color" yaml:"color"`
	Size        []float64 `toml:"size" yaml:"size"`
}

// LoadFile reads a palette from path. The format is chosen by extension:
// .toml, .yaml or .yml.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "palette file %s", path)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidCatalog, err, "read palette file %s", path)
	}

	var pf paletteFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &pf); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidCatalog, err, "parse palette %s", path)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &pf); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidCatalog, err, "parse palette %s", path)
		}
	default:
		return nil, errs.New(errs.ErrCodeUnsupported, "unsupported palette format %q (want .toml, .yaml or .yml)", filepath.Ext(path))
	}

	return pf.catalog()
}

func (pf paletteFile) catalog() (*Catalog, error) {
	defs := make([]brick.Definition, 0, len(pf.Bricks))
	for _, b := range pf.Bricks {
		if len(b.Size) != 3 {
			return nil, errs.New(errs.ErrCodeInvalidCatalog, "brick type %q: size must have 3 components, got %d", b.ID, len(b.Size))
		}
		defs = append(defs, brick.Definition{
			ID:          b.ID,
			Name:        b.Name,
			Description: b.Description,
			Studs:       b.Studs,
			Color:       b.Color,
			Size:        brick.V(b.Size[0], b.Size[1], b.Size[2]),
		})
	}
	return New(defs, pf.Default)
}
