package treemap

import (
	"bytes"
	"math"

	"github.com/fogleman/gg"

	errs "github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/fonts"
	"github.com/matzehuels/treemap/pkg/tree"
)

// RenderPNG rasterises the visible tiles of root. Unlike the SVG path it
// needs no external tools. A zero-area layout yields a 1x1 transparent image.
func RenderPNG(root *tree.Node, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	width, height, cells := canvas(root)

	pw := max(1, int(math.Ceil(float64(width)*r.scale)))
	ph := max(1, int(math.Ceil(float64(height)*r.scale)))
	dc := gg.NewContext(pw, ph)
	dc.Scale(r.scale, r.scale)

	for _, c := range cells {
		dc.DrawRectangle(float64(c.x), float64(c.y), float64(c.w), float64(c.h))
		dc.SetColor(c.color)
		dc.FillPreserve()
		dc.SetColor(r.border)
		dc.SetLineWidth(1)
		dc.Stroke()
	}

	if r.labels {
		// gg transforms glyph positions but not glyph size.
		face, err := fonts.Face(fonts.LabelSize * r.scale)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "load label font")
		}
		dc.SetFontFace(face)
		for _, c := range cells {
			if !c.labelled() {
				continue
			}
			name := c.node.Name()
			if w, _ := dc.MeasureString(name); w/r.scale > float64(c.w-6) {
				continue
			}
			dc.SetColor(textColor(c.color))
			dc.DrawStringAnchored(name, float64(c.x+3), float64(c.y+3), 0, 1)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}
