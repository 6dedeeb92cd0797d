package tree

// Expand shows n's children. Leaves cannot be expanded. Collapsed ancestors
// are expanded as well, so that the expanded nodes always form a connected
// region hanging from the root; the flags of n's children are untouched.
func (n *Node) Expand() {
	if len(n.children) == 0 {
		return
	}
	for p := n; p != nil && !p.expanded; p = p.parent {
		p.expanded = true
	}
}

// ExpandAll expands n and every internal node below it.
func (n *Node) ExpandAll() {
	if len(n.children) == 0 {
		return
	}
	n.Expand()
	for _, c := range n.children {
		c.ExpandAll()
	}
}

// Collapse hides the level n belongs to: the parent is collapsed, and so is
// every subtree under the parent, n's siblings included. Calling Collapse
// on a root does nothing; use [Node.CollapseAll] instead.
func (n *Node) Collapse() {
	if n.parent == nil {
		return
	}
	n.parent.expanded = false
	n.expanded = false
	for _, c := range n.parent.children {
		c.collapseSubtree()
	}
}

// CollapseAll collapses every node of the tree n belongs to, starting from
// the absolute root.
func (n *Node) CollapseAll() {
	n.Root().collapseSubtree()
}

func (n *Node) collapseSubtree() {
	n.expanded = false
	for _, c := range n.children {
		c.collapseSubtree()
	}
}
