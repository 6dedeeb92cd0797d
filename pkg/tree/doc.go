// Package tree provides a mutable, size-weighted tree and the treemap
// layout used to draw it.
//
// # Overview
//
// A treemap shows a hierarchy as nested rectangles whose areas are
// proportional to the size of what they represent. This package holds the
// engine behind that picture: weight accounting, the rectangle-partitioning
// algorithm, the expand/collapse state that decides which rectangles are
// visible, and the interactive edits (move, delete, resize) a viewer offers.
//
// Data sources such as the file-system scanner and the citation dataset
// loader build trees with [New]; renderers consume [Node.Rectangles] and
// [Node.PathString]. Nothing in this package draws or reads files.
//
// # Weights
//
// Every node has a non-negative weight. A leaf's weight is set directly; an
// internal node's weight is always the sum of its children's. Constructors
// compute internal weights bottom-up, and every mutation re-sums the
// ancestor chain up to the root before returning. [Node.RecomputeWeight]
// resynchronises a whole subtree after out-of-band edits.
//
// # Layout
//
// [Node.UpdateRectangles] assigns each node a [Rect]. Children are laid out
// as strips along the longer side of their parent's rectangle, in insertion
// order, with the last strip absorbing rounding so the strips tile the
// parent exactly. Zero-weight nodes receive the zero rectangle.
//
// Rectangles are not kept up to date by mutations. After [Node.Move],
// [Node.Delete] or [Node.ChangeSize], call UpdateRectangles on the root
// again before rendering or hit-testing.
//
// # Visibility
//
// Only the expanded part of the tree is shown. [Node.Expand] reveals a
// node's children, [Node.Collapse] hides a whole level (the node, its
// siblings and everything below them), and [Node.ExpandAll] and
// [Node.CollapseAll] act on entire subtrees. [Node.Rectangles] returns the
// tiles on the visible frontier and [Node.NodeAt] maps a point back to the
// node drawn there.
//
// # Edits
//
// Edits that make no sense are ignored rather than reported: moving a node
// into a leaf or into its current parent, moving an internal node, deleting
// a root, collapsing a root. [Node.Delete] reports whether it removed
// anything. Construction errors, on the other hand, are returned as
// INVALID_TREE errors from [errors].
//
// # Concurrency
//
// A tree is a single-writer structure. Callers sharing a tree between
// goroutines must serialise all access themselves.
//
// [errors]: github.com/matzehuels/treemap/pkg/errors
package tree
