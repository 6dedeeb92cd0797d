package server

import (
	"net/http"
	"strconv"

	errs "github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/tree"
)

// editOp is one mutation route. apply runs with the server lock held and
// returns the node it acted on and whether anything changed.
type editOp struct {
	name  string
	apply func(s *Server, r *http.Request) (*tree.Node, bool, error)
}

var (
	opExpand = editOp{"expand", func(s *Server, r *http.Request) (*tree.Node, bool, error) {
		n, err := s.nodeAt(r, "x", "y")
		if err != nil {
			return nil, false, err
		}
		was := n.Expanded()
		n.Expand()
		return n, n.Expanded() != was, nil
	}}

	opCollapse = editOp{"collapse", func(s *Server, r *http.Request) (*tree.Node, bool, error) {
		n, err := s.nodeAt(r, "x", "y")
		if err != nil {
			return nil, false, err
		}
		applied := n.Parent() != nil && n.Parent().Expanded()
		n.Collapse()
		return n, applied, nil
	}}

	opExpandAll = editOp{"expand-all", func(s *Server, r *http.Request) (*tree.Node, bool, error) {
		n := s.root
		if r.FormValue("x") != "" || r.FormValue("y") != "" {
			var err error
			if n, err = s.nodeAt(r, "x", "y"); err != nil {
				return nil, false, err
			}
		}
		n.ExpandAll()
		return n, !n.IsLeaf(), nil
	}}

	opCollapseAll = editOp{"collapse-all", func(s *Server, r *http.Request) (*tree.Node, bool, error) {
		applied := s.root.Expanded()
		s.root.CollapseAll()
		return s.root, applied, nil
	}}

	opDelete = editOp{"delete", func(s *Server, r *http.Request) (*tree.Node, bool, error) {
		n, err := s.nodeAt(r, "x", "y")
		if err != nil {
			return nil, false, err
		}
		return n, n.Delete(), nil
	}}

	opResize = editOp{"resize", func(s *Server, r *http.Request) (*tree.Node, bool, error) {
		raw := r.FormValue("factor")
		factor, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, false, errs.New(errs.ErrCodeInvalidInput, "factor must be a number, got %q", raw)
		}
		if err := errs.ValidateFactor(factor); err != nil {
			return nil, false, err
		}
		n, err := s.nodeAt(r, "x", "y")
		if err != nil {
			return nil, false, err
		}
		before := n.Weight()
		n.ChangeSize(factor)
		return n, n.Weight() != before, nil
	}}

	opMove = editOp{"move", func(s *Server, r *http.Request) (*tree.Node, bool, error) {
		n, err := s.nodeAt(r, "x", "y")
		if err != nil {
			return nil, false, err
		}
		dest, err := s.nodeAt(r, "to_x", "to_y")
		if err != nil {
			return nil, false, err
		}
		from := n.Parent()
		n.Move(dest)
		return n, from != dest && n.Parent() == dest, nil
	}}
)

func (s *Server) nodeAt(r *http.Request, xName, yName string) (*tree.Node, error) {
	p, err := pointParam(r, xName, yName)
	if err != nil {
		return nil, err
	}
	n := s.root.NodeAt(p)
	if n == nil {
		return nil, errs.New(errs.ErrCodeNotFound, "no node at %d,%d", p.X, p.Y)
	}
	return n, nil
}
