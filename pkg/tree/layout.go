package tree

import (
	"fmt"
	"math"
)

// Rect is an axis-aligned rectangle in integer viewport units. W and H are
// extents measured from (X, Y), not end coordinates, and may be negative:
// the layout engine carries negative extents through unchanged.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether p lies inside r, edges included. W and H are
// treated as deltas, so a negative extent yields an empty range.
func (r Rect) Contains(p Point) bool {
	return r.X <= p.X && p.X <= r.X+r.W &&
		r.Y <= p.Y && p.Y <= r.Y+r.H
}

// IsZero reports whether r is the degenerate (0,0,0,0) rectangle given to
// zero-weight nodes.
func (r Rect) IsZero() bool { return r == Rect{} }

// String formats r as (x, y, w, h).
func (r Rect) String() string { return fmt.Sprintf("(%d, %d, %d, %d)", r.X, r.Y, r.W, r.H) }

// Point is a viewport position.
type Point struct {
	X, Y int
}

// UpdateRectangles lays out the subtree rooted at n inside r, giving every
// node an area proportional to its weight.
//
// The rules, applied recursively:
//   - An empty node with positive weight is unallocated space: it takes all
//     of r and nothing below it is visited.
//   - A zero-weight node gets the zero rectangle. Its children are still
//     visited with r so each of them applies its own zero-weight rule; no
//     division by zero can occur.
//   - Otherwise n takes r and its children are laid out as strips along the
//     longer side of r (side by side when W > H, stacked otherwise). Each
//     child's strip is floor(extent * weight / n.weight) long, except the
//     last child, which gets whatever remains so the strips tile r exactly.
//
// Calling UpdateRectangles twice with the same r yields the same rectangles.
func (n *Node) UpdateRectangles(r Rect) {
	switch {
	case n.empty && n.weight > 0:
		n.rect = r
		return
	case n.weight == 0:
		n.rect = Rect{}
		for _, c := range n.children {
			c.UpdateRectangles(r)
		}
		return
	}

	n.rect = r
	horizontal := r.W > r.H
	total := r.H
	if horizontal {
		total = r.W
	}

	offset := 0
	last := len(n.children) - 1
	for i, c := range n.children {
		extent := total - offset
		if i != last {
			proportion := float64(c.weight) / float64(n.weight)
			extent = int(math.Floor(float64(total) * proportion))
		}
		sub := Rect{X: r.X, Y: r.Y + offset, W: r.W, H: extent}
		if horizontal {
			sub = Rect{X: r.X + offset, Y: r.Y, W: extent, H: r.H}
		}
		offset += extent
		c.UpdateRectangles(sub)
	}
}
