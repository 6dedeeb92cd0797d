package treemap

import (
	"encoding/json"

	"github.com/matzehuels/treemap/pkg/tree"
)

type jsonOutput struct {
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Weight int64      `json:"weight"`
	Tiles  []jsonTile `json:"tiles"`
}

type jsonTile struct {
	Name     string        `json:"name"`
	Path     string        `json:"path"`
	X        int           `json:"x"`
	Y        int           `json:"y"`
	W        int           `json:"w"`
	H        int           `json:"h"`
	Weight   int64         `json:"weight"`
	Color    string        `json:"color"`
	Leaf     bool          `json:"leaf"`
	Meta     tree.Metadata `json:"meta,omitempty"`
}

// RenderJSON describes the visible tiles of root in canvas coordinates.
// Tiles appear in the same depth-first order as [tree.Node.Rectangles].
func RenderJSON(root *tree.Node, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	width, height, cells := canvas(root)

	out := jsonOutput{Width: width, Height: height, Weight: root.Weight(), Tiles: make([]jsonTile, 0, len(cells))}
	for _, c := range cells {
		out.Tiles = append(out.Tiles, jsonTile{
			Name:     c.node.Name(),
			Path:     c.node.PathString(r.formatter),
			X:        c.x,
			Y:        c.y,
			W:        c.w,
			H:        c.h,
			Weight:   c.node.Weight(),
			Color:    hex(c.color),
			Leaf:     c.node.IsLeaf(),
			Meta:     c.node.Meta(),
		})
	}
	return json.MarshalIndent(out, "", "  ")
}
