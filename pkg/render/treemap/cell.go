package treemap

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/treemap/pkg/tree"
)

// Minimum tile size, in pixels, that gets a text label.
const (
	minLabelWidth  = 40
	minLabelHeight = 14
)

// Option configures every renderer in this package.
type Option func(*renderer)

type renderer struct {
	formatter tree.PathFormatter
	labels    bool
	border    color.RGBA
	scale     float64
}

// WithFormatter sets the formatter used for tile titles and paths.
// Without one, paths are joined with "/" and carry no suffix.
func WithFormatter(f tree.PathFormatter) Option { return func(r *renderer) { r.formatter = f } }

// WithLabels writes each node's name inside tiles large enough to hold it.
func WithLabels() Option { return func(r *renderer) { r.labels = true } }

// WithBorder sets the tile outline colour (default black).
func WithBorder(c color.RGBA) Option { return func(r *renderer) { r.border = c } }

// WithScale multiplies the raster size of [RenderPNG] (default 1).
func WithScale(s float64) Option { return func(r *renderer) { r.scale = s } }

func newRenderer(opts ...Option) renderer {
	r := renderer{
		formatter: tree.NewFormatter("/", nil),
		border:    color.RGBA{A: 0xff},
		scale:     1,
	}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		r.scale = 1
	}
	return r
}

// cell is a visible tile in canvas coordinates: origin at the top-left of
// the root rectangle, extents non-negative.
type cell struct {
	node       *tree.Node
	x, y, w, h int
	color      color.RGBA
}

// normalize turns a rectangle with signed extents into its top-left corner
// and absolute size.
func normalize(r tree.Rect) (x, y, w, h int) {
	x, w = r.X, r.W
	if w < 0 {
		x, w = x+w, -w
	}
	y, h = r.Y, r.H
	if h < 0 {
		y, h = y+h, -h
	}
	return x, y, w, h
}

// canvas returns the size of root's rectangle and the cells of its visible
// frontier.
func canvas(root *tree.Node) (width, height int, cells []cell) {
	ox, oy, width, height := normalize(root.Rect())
	for _, n := range root.VisibleNodes() {
		x, y, w, h := normalize(n.Rect())
		cells = append(cells, cell{node: n, x: x - ox, y: y - oy, w: w, h: h, color: n.Color()})
	}
	return width, height, cells
}

func (c cell) labelled() bool { return c.w >= minLabelWidth && c.h >= minLabelHeight }

// textColor picks black or white, whichever reads better on bg.
func textColor(bg color.RGBA) color.RGBA {
	c, _ := colorful.MakeColor(bg)
	if l, _, _ := c.Lab(); l > 0.6 {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
}

func hex(c color.RGBA) string {
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}
