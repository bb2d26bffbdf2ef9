// Package plan renders a top-down floor plan of a build with Graphviz.
//
// # Overview
//
// Each placed brick becomes a filled box pinned at its grid position, sized
// to its footprint (width along X, depth along Z) and colored with its
// resolved color. Bricks are emitted in placement order, so later bricks
// are drawn on top of earlier ones where they overlap.
//
// Bricks whose type is not in the catalog have no known footprint; they are
// drawn as one-stud dashed grey boxes.
//
// # Usage
//
//	dot := plan.ToDOT(engine.Bricks(), engine.Catalog(), plan.Options{Labels: true})
//	svg, err := plan.RenderSVG(ctx, dot)
//
// # Coordinates
//
// The scene's X axis maps to the drawing's horizontal axis and Z grows
// downwards, matching a camera looking straight down. Positions are pinned
// with neato's "pos=x,y!" so Graphviz never moves them.
package plan
