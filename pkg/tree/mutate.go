package tree

import (
	"fmt"
	"math"
	"slices"
)

// ChangeSize scales a leaf's weight by factor and updates every ancestor.
//
// A positive factor grows the weight by ceil(weight*factor). A negative
// factor shrinks it by floor(weight*factor) but never below 1. A zero-weight
// leaf given a non-positive factor is bumped to 1 so it can be grown again
// later. Growth saturates so that no weight in the tree exceeds
// math.MaxInt64. Internal nodes are left unchanged, since their weight is
// derived, and a NaN factor is ignored.
func (n *Node) ChangeSize(factor float64) {
	if len(n.children) > 0 || math.IsNaN(factor) {
		return
	}
	w := float64(n.weight)
	switch {
	case factor > 0:
		room := n.headroom()
		if d := math.Ceil(w * factor); d >= float64(room) {
			n.weight += room
		} else {
			n.weight += min(int64(d), room)
		}
	case n.weight == 0:
		n.weight = 1
	default:
		if d := math.Floor(w * factor); d <= -w {
			n.weight = 1
		} else {
			n.weight = max(1, n.weight+int64(d))
		}
	}
	n.parent.propagate()
}

// top returns the highest node whose weight includes n's: the root for an
// attached node, n itself for a root or a deleted node.
func (n *Node) top() *Node {
	t := n
	for t.parent != nil && !t.Detached() {
		t = t.parent
	}
	return t
}

// headroom is how far n's weight can grow before a sum containing it
// overflows.
func (n *Node) headroom() int64 { return math.MaxInt64 - n.top().weight }

// Move reattaches the leaf n as the last child of dest and updates the
// weights along both ancestor chains.
//
// Move does nothing when n is dest, when dest is already n's parent, when n
// has children, when dest has none, or when n is the empty node. Only
// leaves move, and only into existing internal nodes. If the old parent is
// left without children it is collapsed. A move into another tree whose
// root weight would overflow is also refused.
func (n *Node) Move(dest *Node) {
	if dest == nil || n == dest || n.parent == dest || n.empty ||
		len(n.children) > 0 || len(dest.children) == 0 {
		return
	}
	if n.top() != dest.top() && n.weight > dest.headroom() {
		return
	}
	if old := n.parent; old != nil && !n.Detached() {
		old.removeChild(n)
		old.propagate()
	}
	dest.children = append(dest.children, n)
	n.parent = dest
	dest.propagate()
}

// Delete removes n from its parent's children, updates every ancestor's
// weight and sets n's weight to 0. It reports false, changing nothing, when
// n is a root or has already been deleted.
//
// The parent reference is deliberately kept so that a front-end can still
// navigate back to the former parent. Use [Node.Detached] to check
// membership rather than testing [Node.Parent] for nil.
func (n *Node) Delete() bool {
	if n.parent == nil || n.Detached() {
		return false
	}
	n.parent.removeChild(n)
	n.parent.propagate()
	n.weight = 0
	return true
}

// removeChild unlinks c, which must be a child of n, and collapses n if it
// has no children left.
func (n *Node) removeChild(c *Node) {
	i := n.indexOf(c)
	if i < 0 {
		panic(fmt.Sprintf("tree: %q is not a child of %q", c.name, n.name))
	}
	n.children = slices.Delete(n.children, i, i+1)
	if len(n.children) == 0 {
		n.expanded = false
	}
}

// propagate re-sums the weight of n and each of its ancestors from their
// children. It costs one pass over the children of every node on the path
// to the root, rather than a full recomputation of the tree. A nil receiver
// is a no-op so callers can pass a root's parent directly.
func (n *Node) propagate() {
	for p := n; p != nil; p = p.parent {
		var total int64
		for _, c := range p.children {
			total += c.weight
		}
		if total < 0 {
			panic(fmt.Sprintf("tree: weight of %q overflowed", p.name))
		}
		p.weight = total
	}
}
