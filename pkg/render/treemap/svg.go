package treemap

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/treemap/pkg/fonts"
	"github.com/matzehuels/treemap/pkg/tree"
)

var tileInteractionCSS = fmt.Sprintf(`
    .tile { transition: stroke-width 0.15s ease; }
    .tile:hover { stroke-width: 3; }
    .tile-text { pointer-events: none; font-family: %s; font-size: %dpx; }`, fonts.FontFamily, fonts.LabelSize)

// RenderSVG draws the visible tiles of root as an SVG document sized to
// root's rectangle. Each tile carries its path string as a <title> so
// browsers show it on hover.
func RenderSVG(root *tree.Node, opts ...Option) []byte {
	r := newRenderer(opts...)
	width, height, cells := canvas(root)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", tileInteractionCSS)

	for _, c := range cells {
		fmt.Fprintf(&buf, `  <rect class="tile" x="%d" y="%d" width="%d" height="%d" fill="%s" stroke="%s" stroke-width="1">`,
			c.x, c.y, c.w, c.h, hex(c.color), hex(r.border))
		fmt.Fprintf(&buf, "<title>%s</title></rect>\n", escapeXML(c.node.PathString(r.formatter)))
	}

	if r.labels {
		for _, c := range cells {
			if !c.labelled() {
				continue
			}
			fmt.Fprintf(&buf, `  <text class="tile-text" x="%d" y="%d" fill="%s">%s</text>`+"\n",
				c.x+3, c.y+12, hex(textColor(c.color)), escapeXML(c.node.Name()))
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
