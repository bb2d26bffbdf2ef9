// Package brick defines the value types shared by the catalog, the scene
// model and the history manager.
//
// A [Definition] describes one brick type (shape and default color) and never
// changes after the catalog is built. An [Instance] is a placed occurrence of
// a definition in a scene. Instances are plain values: copying one copies all
// of its state, which lets scene snapshots share nothing mutable.
//
// # JSON Format
//
// Vectors encode as three-element arrays so that persisted builds look like
//
//	[
//	  {"id": "brick-0", "typeId": "brick-2x2", "position": [0, 0.75, 0], "rotation": [0, 0, 0]},
//	  {"id": "brick-1", "typeId": "plate-4x4", "position": [4, 0.3, -2], "rotation": [0, 0, 0], "color": "#ef4444"}
//	]
package brick

import (
	"encoding/json"
	"fmt"
	"math"
)

// Vec3 is a point or extent in world units. Y is the vertical axis; bricks
// rest on the Y=0 plane.
type Vec3 struct {
	X, Y, Z float64
}

// V returns the vector (x, y, z).
func V(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

// IsFinite reports whether every component is neither NaN nor infinite.
func (v Vec3) IsFinite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// String formats the vector with two decimals per component.
func (v Vec3) String() string {
	return fmt.Sprintf("%.2f, %.2f, %.2f", v.X, v.Y, v.Z)
}

// MarshalJSON encodes the vector as [x, y, z].
func (v Vec3) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{v.X, v.Y, v.Z})
}

// UnmarshalJSON decodes a three-element array. Shorter or longer arrays are
// rejected.
func (v *Vec3) UnmarshalJSON(data []byte) error {
	var raw []float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 3 {
		return fmt.Errorf("vector must have 3 components, got %d", len(raw))
	}
	v.X, v.Y, v.Z = raw[0], raw[1], raw[2]
	return nil
}

// Definition is an immutable catalog entry describing one brick type.
type Definition struct {
	ID          string `json:"id" toml:"id" yaml:"id"`
	Name        string `json:"name" toml:"name" yaml:"name"`
	Description string `json:"description" toml:"description" yaml:"description"`
	Studs       string `json:"studs" toml:"studs" yaml:"studs"`
	Color       string `json:"color" toml:"color" yaml:"color"`
	Size        Vec3   `json:"size" toml:"-" yaml:"-"`
}

// Width, Height and Depth name the components of Size.
func (d Definition) Width() float64  { return d.Size.X }
func (d Definition) Height() float64 { return d.Size.Y }
func (d Definition) Depth() float64  { return d.Size.Z }

// RestY is the Y coordinate at which a brick of this type sits on the floor
// plane without intersecting it.
func (d Definition) RestY() float64 { return d.Size.Y / 2 }

// Instance is a placed brick.
type Instance struct {
	ID       string `json:"id"`
	TypeID   string `json:"typeId"`
	Position Vec3   `json:"position"`
	Rotation Vec3   `json:"rotation"`
	// Color overrides the definition color when non-empty.
	Color string `json:"color,omitempty"`
}

// ResolvedColor returns the override color, or the definition color when the
// instance has none. A zero Definition yields "".
func (b Instance) ResolvedColor(def Definition) string {
	if b.Color != "" {
		return b.Color
	}
	return def.Color
}
