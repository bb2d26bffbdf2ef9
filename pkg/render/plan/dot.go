package plan

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/brickyard/pkg/brick"
)

// DefaultScale is the drawing size of one grid unit in inches.
const DefaultScale = 0.5

// Catalog resolves brick types to definitions.
type Catalog interface {
	Lookup(typeID string) (brick.Definition, bool)
}

// Options configures plan rendering.
type Options struct {
	// Labels prints each brick's id (and type) inside its box.
	Labels bool

	// Scale is inches per grid unit. Zero means DefaultScale.
	Scale float64
}

// ToDOT converts bricks to Graphviz DOT source for a neato top-down plan.
func ToDOT(bricks []brick.Instance, cat Catalog, opts Options) string {
	scale := opts.Scale
	if scale <= 0 {
		scale = DefaultScale
	}

	var buf bytes.Buffer
	buf.WriteString("graph plan {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  notranslate=true;\n")
	buf.WriteString("  outputorder=nodesfirst;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=filled, fixedsize=true, penwidth=1.5, color=\"#1e293b\", fontname=\"Helvetica\", fontsize=10, fontcolor=\"#0f172a\"];\n")
	buf.WriteString("\n")

	for _, b := range bricks {
		def, ok := cat.Lookup(b.TypeID)
		attrs := fmtAttrs(b, def, ok, scale, opts.Labels)
		fmt.Fprintf(&buf, "  %q [%s];\n", b.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(b brick.Instance, def brick.Definition, known bool, scale float64, labels bool) []string {
	w, d := 1.0, 1.0
	if known {
		w, d = def.Width(), def.Depth()
	}

	label := ""
	if labels {
		label = b.ID + "\n" + b.TypeID
	}
	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("pos=\"%s,%s!\"", fmtFloat(b.Position.X*scale), fmtFloat(-b.Position.Z*scale)),
		fmt.Sprintf("width=%s", fmtFloat(w*scale)),
		fmt.Sprintf("height=%s", fmtFloat(d*scale)),
	}
	if !known {
		return append(attrs, "style=\"filled,dashed\"", "fillcolor=lightgrey")
	}
	return append(attrs, fmt.Sprintf("fillcolor=%q", b.ResolvedColor(def)))
}

func fmtFloat(v float64) string {
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderSVG renders DOT source to SVG with the neato engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.-]+)\s+([0-9.-]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a
// viewBox-only one so the plan scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %.2f %.2f" width="%.0f" height="%.0f">`,
		match[1], match[2], w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
