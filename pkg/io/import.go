package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/lucasb-eyer/go-colorful"

	errs "github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/tree"
)

// ReadJSON decodes a snapshot from r and rebuilds the tree.
//
// It returns the snapshot kind together with the root. Decoding failures are
// INVALID_FORMAT errors; snapshots that describe an inconsistent tree are
// INVALID_TREE errors. ReadJSON does not close r.
func ReadJSON(r io.Reader) (string, *tree.Node, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return "", nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode snapshot")
	}
	root, err := s.Tree()
	if err != nil {
		return "", nil, err
	}
	return s.Kind, root, nil
}

// ImportJSON reads a snapshot file at path.
func ImportJSON(path string) (string, *tree.Node, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return "", nil, errs.New(errs.ErrCodeFileNotFound, "snapshot not found: %s", path)
	}
	if err != nil {
		return "", nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// Unmarshal is the counterpart of [Marshal].
func Unmarshal(data []byte) (string, *tree.Node, error) {
	return ReadJSON(bytes.NewReader(data))
}

// Tree rebuilds the tree a snapshot describes.
func (s *Snapshot) Tree() (*tree.Node, error) {
	if s.Root == nil {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "snapshot has no root")
	}
	root, err := s.Root.build()
	if err != nil {
		return nil, err
	}
	if err := s.Root.expand(root, true); err != nil {
		return nil, err
	}
	if err := root.Validate(); err != nil {
		return nil, err
	}
	return root, nil
}

func (n *Node) build() (*tree.Node, error) {
	if n.Name != nil {
		if err := errs.ValidateName(*n.Name); err != nil {
			return nil, err
		}
	}
	children := make([]*tree.Node, 0, len(n.Children))
	for _, c := range n.Children {
		if c == nil {
			return nil, errs.New(errs.ErrCodeInvalidTree, "null child")
		}
		built, err := c.build()
		if err != nil {
			return nil, err
		}
		children = append(children, built)
	}

	out, err := tree.FromParts(n.Name, children, n.Weight)
	if err != nil {
		return nil, err
	}
	if n.Color != "" {
		c, err := colorful.Hex(n.Color)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "color %q", n.Color)
		}
		r, g, b := c.RGB255()
		out.SetColor(color.RGBA{R: r, G: g, B: b, A: 0xff})
	}
	for k, v := range n.Meta {
		out.Meta()[k] = v
	}
	return out, nil
}

// expand restores expansion flags top-down. parentExpanded is true for the
// root, which has no parent to hide it.
func (n *Node) expand(t *tree.Node, parentExpanded bool) error {
	if n.Expanded {
		if !parentExpanded {
			return errs.New(errs.ErrCodeInvalidTree, "%q is expanded under a collapsed parent", t.Name())
		}
		if t.IsLeaf() {
			return errs.New(errs.ErrCodeInvalidTree, "leaf %q is expanded", t.Name())
		}
		t.Expand()
	}
	for i, c := range n.Children {
		if err := c.expand(t.Child(i), n.Expanded); err != nil {
			return err
		}
	}
	return nil
}
