package tree

import "image/color"

// Tile is one visible rectangle of a laid-out tree with its fill colour.
type Tile struct {
	Rect  Rect
	Color color.RGBA
}

// NodeAt returns the deepest visible node whose rectangle contains p, or nil
// when p lies outside n's rectangle.
//
// A leaf or a collapsed node answers for its whole rectangle. An expanded
// node asks its children in order and returns the first hit, so a point on
// the shared edge of two strips resolves to the earlier (left or top) one.
func (n *Node) NodeAt(p Point) *Node {
	if !n.rect.Contains(p) {
		return nil
	}
	if len(n.children) == 0 || !n.expanded {
		return n
	}
	for _, c := range n.children {
		if hit := c.NodeAt(p); hit != nil {
			return hit
		}
	}
	return nil
}

// VisibleNodes returns the nodes on the currently displayed frontier below
// n, depth-first in child order: every collapsed node and every leaf reached
// through expanded ancestors. Empty nodes and zero-weight leaves are
// skipped because they occupy no area.
func (n *Node) VisibleNodes() []*Node {
	var out []*Node
	n.appendVisible(&out)
	return out
}

func (n *Node) appendVisible(out *[]*Node) {
	if n.empty {
		return
	}
	if n.expanded {
		for _, c := range n.children {
			c.appendVisible(out)
		}
		return
	}
	if n.weight == 0 && len(n.children) == 0 {
		return
	}
	*out = append(*out, n)
}

// Rectangles returns one tile per node of [Node.VisibleNodes], in the same
// order. The rectangles are those of the last layout.
func (n *Node) Rectangles() []Tile {
	nodes := n.VisibleNodes()
	tiles := make([]Tile, len(nodes))
	for i, v := range nodes {
		tiles[i] = Tile{Rect: v.rect, Color: v.color}
	}
	return tiles
}
