// Package grid quantizes continuous world coordinates onto the placement grid.
//
// Snapping is purely positional: it rounds horizontal coordinates to the
// nearest multiple of [Unit] and knows nothing about studs or connectivity.
// The vertical axis is never snapped; a brick's height above the floor comes
// from its definition.
package grid

import (
	"math"

	"github.com/matzehuels/brickyard/pkg/brick"
)

// Unit is the grid spacing in world units.
const Unit = 1.0

// Snap rounds v to the nearest multiple of Unit. Halves round toward
// positive infinity, so -0.5 snaps to 0 and 0.5 snaps to 1. The result for
// NaN or infinite input is unspecified; callers reject such points before
// snapping.
func Snap(v float64) float64 {
	q := v / Unit
	r := math.Round(q)
	if q < 0 && r-q == -0.5 {
		r++
	}
	s := r * Unit
	if s == 0 {
		// Normalize -0 so snapped coordinates compare and print cleanly.
		return 0
	}
	return s
}

// SnapXZ snaps the X and Z components of p and leaves Y untouched.
func SnapXZ(p brick.Vec3) brick.Vec3 {
	return brick.Vec3{X: Snap(p.X), Y: p.Y, Z: Snap(p.Z)}
}

// Cell returns the integer grid cell containing the snapped value of v.
func Cell(v float64) int {
	return int(Snap(v) / Unit)
}
