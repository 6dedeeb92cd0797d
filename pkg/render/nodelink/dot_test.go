package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/treemap/pkg/tree"
)

func sample() *tree.Node {
	x := tree.MustNew("x", nil, 1)
	sub := tree.MustNew("sub", []*tree.Node{x}, 0)
	b := tree.MustNew("b", nil, 5)
	b.Meta()["kind"] = "file"
	return tree.MustNew("root", []*tree.Node{sub, b}, 0)
}

func TestToDOT_Collapsed(t *testing.T) {
	dot := ToDOT(sample(), Options{})

	if !strings.Contains(dot, "digraph G") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	if !strings.Contains(dot, `label="root"`) {
		t.Error("ToDOT() output missing root")
	}
	if strings.Contains(dot, `label="sub"`) || strings.Contains(dot, "->") {
		t.Errorf("collapsed root should hide its children:\n%s", dot)
	}
	if !strings.Contains(dot, "dashed") {
		t.Error("collapsed internal node should be dashed")
	}
}

func TestToDOT_Expanded(t *testing.T) {
	root := sample()
	root.Expand()

	dot := ToDOT(root, Options{})

	for _, want := range []string{`label="sub"`, `label="b"`, `"n0" -> "n1"`, `"n0" -> "n2"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %s:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, `label="x"`) {
		t.Error("children of collapsed sub should be hidden")
	}

	root.ExpandAll()
	if dot := ToDOT(root, Options{}); !strings.Contains(dot, `"n1" -> "n2"`) || !strings.Contains(dot, `label="x"`) {
		t.Errorf("ExpandAll should reveal x:\n%s", dot)
	}
}

func TestToDOT_Detailed(t *testing.T) {
	root := sample()
	root.Expand()

	f := tree.NewFormatter("/", func(n *tree.Node) string { return " bytes" })
	dot := ToDOT(root, Options{Detailed: true, Formatter: f})

	if !strings.Contains(dot, `weight: 5 bytes`) {
		t.Errorf("ToDOT() detailed output missing weight:\n%s", dot)
	}
	if !strings.Contains(dot, "kind: file") {
		t.Error("ToDOT() detailed output missing metadata")
	}
}

func TestRenderSVG(t *testing.T) {
	root := sample()
	root.ExpandAll()

	svg, err := RenderSVG(context.Background(), ToDOT(root, Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output is not SVG")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), "digraph {"); err == nil {
		t.Error("expected error for malformed DOT")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 10.00 20.00" width="10" height="20"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
}
