package tree

import (
	"math"

	errs "github.com/matzehuels/treemap/pkg/errors"
)

// Validate checks the structural invariants of the subtree rooted at n:
//   - weights are non-negative
//   - an internal node weighs exactly the sum of its children
//   - the empty node has no children and no parent
//   - every child points back at the node that lists it, exactly once
//   - an expanded node has an expanded parent (when it has a parent below n)
//   - a childless node is collapsed
//
// It returns an INVALID_TREE error describing the first violation found.
// Validate is meant for tests, importers and debugging; the mutation
// methods maintain these invariants on their own.
func (n *Node) Validate() error {
	if n.empty && n.parent != nil {
		return errs.New(errs.ErrCodeInvalidTree, "empty node has a parent")
	}
	return n.validate()
}

func (n *Node) validate() error {
	if n.weight < 0 {
		return errs.New(errs.ErrCodeInvalidTree, "%q has negative weight %d", n.name, n.weight)
	}
	if n.empty && len(n.children) > 0 {
		return errs.New(errs.ErrCodeInvalidTree, "empty node has children")
	}
	if len(n.children) == 0 {
		if n.expanded {
			return errs.New(errs.ErrCodeInvalidTree, "leaf %q is expanded", n.name)
		}
		return nil
	}

	var total int64
	seen := make(map[*Node]bool, len(n.children))
	for _, c := range n.children {
		switch {
		case c.empty:
			return errs.New(errs.ErrCodeInvalidTree, "%q has an empty child", n.name)
		case c.parent != n:
			return errs.New(errs.ErrCodeInvalidTree, "child %q of %q has a different parent", c.name, n.name)
		case seen[c]:
			return errs.New(errs.ErrCodeInvalidTree, "child %q listed twice under %q", c.name, n.name)
		case c.expanded && !n.expanded:
			return errs.New(errs.ErrCodeInvalidTree, "%q is expanded under collapsed %q", c.name, n.name)
		}
		seen[c] = true
		if err := c.validate(); err != nil {
			return err
		}
		if c.weight > math.MaxInt64-total {
			return errs.New(errs.ErrCodeInvalidTree, "weight of %q overflows", n.name)
		}
		total += c.weight
	}
	if total != n.weight {
		return errs.New(errs.ErrCodeInvalidTree, "%q weighs %d, children sum to %d", n.name, n.weight, total)
	}
	return nil
}
