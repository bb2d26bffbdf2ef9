package plan

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/brickyard/pkg/brick"
	"github.com/matzehuels/brickyard/pkg/catalog"
)

func sampleBricks() []brick.Instance {
	return []brick.Instance{
		{ID: "brick-0", TypeID: "brick-2x4", Position: brick.V(2, 0.75, -3)},
		{ID: "brick-1", TypeID: "plate-4x4", Position: brick.V(0, 0.3, 0), Color: "#ef4444"},
		{ID: "brick-2", TypeID: "tile-1x1", Position: brick.V(-1, 0.5, 1)},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleBricks(), catalog.Default(), Options{})

	for _, want := range []string{
		"graph plan {",
		"layout=neato;",
		`"brick-0" [label="", pos="1,1.5!", width=1, height=2, fillcolor="#38bdf8"];`,
		`"brick-1" [label="", pos="0,0!", width=2, height=2, fillcolor="#ef4444"];`,
		`"brick-2" [label="", pos="-0.5,-0.5!", width=0.5, height=0.5, style="filled,dashed", fillcolor=lightgrey];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTOrder(t *testing.T) {
	dot := ToDOT(sampleBricks(), catalog.Default(), Options{})
	i0 := strings.Index(dot, `"brick-0"`)
	i1 := strings.Index(dot, `"brick-1"`)
	i2 := strings.Index(dot, `"brick-2"`)
	if !(i0 < i1 && i1 < i2) {
		t.Errorf("bricks not emitted in placement order: %d %d %d", i0, i1, i2)
	}
}

func TestToDOTOptions(t *testing.T) {
	dot := ToDOT(sampleBricks()[:1], catalog.Default(), Options{Labels: true, Scale: 1})
	if !strings.Contains(dot, `label="brick-0\nbrick-2x4"`) {
		t.Errorf("labels missing:\n%s", dot)
	}
	if !strings.Contains(dot, `pos="2,3!", width=2, height=4`) {
		t.Errorf("scale not applied:\n%s", dot)
	}
}

func TestToDOTEmpty(t *testing.T) {
	dot := ToDOT(nil, catalog.Default(), Options{})
	if strings.Contains(dot, "[label=") {
		t.Errorf("empty plan should have no nodes:\n%s", dot)
	}
}

func TestRenderSVG(t *testing.T) {
	dot := ToDOT(sampleBricks(), catalog.Default(), Options{Labels: true})
	svg, err := RenderSVG(context.Background(), dot)
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) || !bytes.Contains(svg, []byte("<title>brick&#45;1</title>")) {
		t.Errorf("unexpected SVG output:\n%s", svg)
	}
}

func TestRenderSVGInvalid(t *testing.T) {
	if _, err := RenderSVG(context.Background(), "graph {"); err == nil {
		t.Error("RenderSVG should fail on invalid DOT")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0.00 0.00 100.00 50.00" width="100" height="50"><g/></svg>`
	if out != want {
		t.Errorf("normalizeViewBox = %s, want %s", out, want)
	}
}
