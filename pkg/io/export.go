package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/treemap/pkg/tree"
)

// Snapshot is the serialized form of a tree.
type Snapshot struct {
	Kind string `json:"kind" bson:"kind"`
	Root *Node  `json:"root" bson:"root"`
}

// Node is the serialized form of a tree node.
type Node struct {
	Name     *string       `json:"name" bson:"name"`
	Weight   int64         `json:"weight" bson:"weight"`
	Expanded bool          `json:"expanded,omitempty" bson:"expanded,omitempty"`
	Color    string        `json:"color,omitempty" bson:"color,omitempty"`
	Meta     tree.Metadata `json:"meta,omitempty" bson:"meta,omitempty"`
	Children []*Node       `json:"children,omitempty" bson:"children,omitempty"`
}

// FromTree captures the tree rooted at root.
func FromTree(kind string, root *tree.Node) *Snapshot {
	return &Snapshot{Kind: kind, Root: fromNode(root)}
}

func fromNode(n *tree.Node) *Node {
	out := &Node{
		Weight:   n.Weight(),
		Expanded: n.Expanded(),
	}
	if !n.IsEmpty() {
		name := n.Name()
		out.Name = &name
	}
	if c, ok := colorful.MakeColor(n.Color()); ok {
		out.Color = c.Hex()
	}
	if len(n.Meta()) > 0 {
		out.Meta = n.Meta()
	}
	for _, c := range n.Children() {
		out.Children = append(out.Children, fromNode(c))
	}
	return out
}

// WriteJSON encodes the tree rooted at root as an indented JSON snapshot.
// The output can be re-imported with [ReadJSON].
func WriteJSON(kind string, root *tree.Node, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromTree(kind, root)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a snapshot to a file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(kind string, root *tree.Node, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(kind, root, f)
}

// Marshal encodes a compact snapshot, as stored in caches.
func Marshal(kind string, root *tree.Node) ([]byte, error) {
	return json.Marshal(FromTree(kind, root))
}
