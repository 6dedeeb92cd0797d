package tree

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	errs "github.com/matzehuels/treemap/pkg/errors"
)

// Metadata stores arbitrary key-value pairs attached to a node by its
// builder (file paths, modification times, authors, DOIs). The tree engine
// never reads it; renderers and front-ends do.
type Metadata map[string]any

// Node is a vertex of a size-weighted tree. Leaves and internal nodes share
// the same representation: a node with children is internal and its weight
// is the sum of its children's weights, a node without children is a leaf
// and its weight is authoritative.
//
// A node owns its children. The parent reference is a back-pointer only; it
// is kept after [Node.Delete] so callers can still find the former parent.
//
// The zero value is not usable - construct nodes with [New], [NewEmpty] or
// [FromParts]. Node is not safe for concurrent use.
type Node struct {
	name     string
	empty    bool
	weight   int64
	children []*Node
	parent   *Node
	rect     Rect
	expanded bool
	color    color.RGBA
	meta     Metadata
}

// New creates a named node.
//
// If children is non-empty the weight argument is ignored and the node's
// weight is computed bottom-up from the children; otherwise weight is used
// as-is. Every child has its parent set to the new node.
//
// New returns an INVALID_TREE error if weight is negative or if any child
// is nil, empty, already attached to a parent, or listed twice.
func New(name string, children []*Node, weight int64) (*Node, error) {
	return FromParts(&name, children, weight)
}

// NewEmpty creates the distinguished empty node. An empty node has no name
// and no children. With weight 0 it takes no space; with a positive weight
// it acts as a placeholder for unallocated space and claims its whole
// rectangle during layout.
func NewEmpty(weight int64) (*Node, error) {
	return FromParts(nil, nil, weight)
}

// FromParts is the general constructor behind [New] and [NewEmpty]. A nil
// name marks the empty node, which must be childless.
func FromParts(name *string, children []*Node, weight int64) (*Node, error) {
	if name == nil && len(children) > 0 {
		return nil, errs.New(errs.ErrCodeInvalidTree, "empty node cannot have children")
	}
	if weight < 0 {
		return nil, errs.New(errs.ErrCodeInvalidTree, "weight must be non-negative, got %d", weight)
	}

	seen := make(map[*Node]bool, len(children))
	var total int64
	for i, c := range children {
		switch {
		case c == nil:
			return nil, errs.New(errs.ErrCodeInvalidTree, "child %d is nil", i)
		case c.empty:
			return nil, errs.New(errs.ErrCodeInvalidTree, "child %d is an empty node", i)
		case c.parent != nil:
			return nil, errs.New(errs.ErrCodeInvalidTree, "child %q already has a parent", c.name)
		case seen[c]:
			return nil, errs.New(errs.ErrCodeInvalidTree, "child %q listed twice", c.name)
		case c.weight > math.MaxInt64-total:
			return nil, errs.New(errs.ErrCodeInvalidTree, "total weight overflows at child %q", c.name)
		}
		seen[c] = true
		total += c.weight
	}

	n := &Node{
		empty:    name == nil,
		weight:   weight,
		children: append([]*Node(nil), children...),
		color:    randomColor(),
		meta:     Metadata{},
	}
	if name != nil {
		n.name = *name
	}
	for _, c := range n.children {
		c.parent = n
	}
	if len(n.children) > 0 {
		n.weight = total
	}
	return n, nil
}

// MustNew is like [New] but panics on error. It is intended for tests and
// for builders that have already validated their input.
func MustNew(name string, children []*Node, weight int64) *Node {
	n, err := New(name, children, weight)
	if err != nil {
		panic(err)
	}
	return n
}

func randomColor() color.RGBA {
	r, g, b := colorful.FastHappyColor().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// IsEmpty reports whether n is the distinguished empty node.
func (n *Node) IsEmpty() bool { return n.empty }

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return len(n.children) == 0 }

// Name returns the display label. It is "" for the empty node, but "" is
// also a legal name; use [Node.IsEmpty] to tell them apart.
func (n *Node) Name() string { return n.name }

// Weight returns the node's data size.
func (n *Node) Weight() int64 { return n.weight }

// Children returns a copy of the ordered child list.
func (n *Node) Children() []*Node { return append([]*Node(nil), n.children...) }

// Len returns the number of children.
func (n *Node) Len() int { return len(n.children) }

// Child returns the i-th child.
func (n *Node) Child(i int) *Node { return n.children[i] }

// Parent returns the parent, or nil for a root. After [Node.Delete] the
// former parent is still returned; see [Node.Detached].
func (n *Node) Parent() *Node { return n.parent }

// Root follows parent references to the top of the tree.
func (n *Node) Root() *Node {
	root := n
	for root.parent != nil {
		root = root.parent
	}
	return root
}

// Detached reports whether n still references a parent that no longer
// lists it as a child, which is the state [Node.Delete] leaves behind.
func (n *Node) Detached() bool {
	return n.parent != nil && n.parent.indexOf(n) < 0
}

// Rect returns the rectangle assigned by the last [Node.UpdateRectangles].
// It is stale after any mutation that changes weight or structure.
func (n *Node) Rect() Rect { return n.rect }

// Expanded reports whether the node's children are visible.
func (n *Node) Expanded() bool { return n.expanded }

// Color returns the fill colour assigned at construction.
func (n *Node) Color() color.RGBA { return n.color }

// SetColor replaces the fill colour.
func (n *Node) SetColor(c color.RGBA) { n.color = c }

// Meta returns the node's metadata map. It is never nil and may be modified.
func (n *Node) Meta() Metadata { return n.meta }

// RecomputeWeight resynchronises weights bottom-up and returns n's weight.
// A leaf returns its weight unchanged; an internal node is reassigned the
// sum of its children's recomputed weights. A sum that does not fit in an
// int64 fails with INVALID_TREE and leaves that node's weight untouched.
func (n *Node) RecomputeWeight() (int64, error) {
	if len(n.children) == 0 {
		return n.weight, nil
	}
	var total int64
	for _, c := range n.children {
		w, err := c.RecomputeWeight()
		if err != nil {
			return 0, err
		}
		if w > math.MaxInt64-total {
			return 0, errs.New(errs.ErrCodeInvalidTree, "weight of %q overflows", n.name)
		}
		total += w
	}
	n.weight = total
	return total, nil
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the visited node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node) bool { count++; return true })
	return count
}

// Depth returns the number of edges between n and its root.
func (n *Node) Depth() int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}
