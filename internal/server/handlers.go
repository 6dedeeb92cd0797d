package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/treemap/pkg/buildinfo"
	errs "github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/io"
	"github.com/matzehuels/treemap/pkg/observability"
	"github.com/matzehuels/treemap/pkg/pipeline"
	"github.com/matzehuels/treemap/pkg/render/treemap"
	"github.com/matzehuels/treemap/pkg/session"
	"github.com/matzehuels/treemap/pkg/tree"
)

// nodeInfo describes one node in API responses.
type nodeInfo struct {
	Name     string        `json:"name"`
	Path     string        `json:"path"`
	Weight   int64         `json:"weight"`
	Depth    int           `json:"depth"`
	Leaf     bool          `json:"leaf"`
	Expanded bool          `json:"expanded"`
	Rect     tree.Rect     `json:"rect"`
	Meta     tree.Metadata `json:"meta,omitempty"`
}

type editResponse struct {
	Op      string    `json:"op"`
	Applied bool      `json:"applied"`
	Node    *nodeInfo `json:"node,omitempty"`
	Weight  int64     `json:"weight"`
	Tiles   int       `json:"tiles"`
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz",
}

func (s *Server) info(n *tree.Node) *nodeInfo {
	return &nodeInfo{
		Name:     n.Name(),
		Path:     n.PathString(pipeline.Formatter(s.kind)),
		Weight:   n.Weight(),
		Depth:    n.Depth(),
		Leaf:     n.IsLeaf(),
		Expanded: n.Expanded(),
		Rect:     n.Rect(),
		Meta:     n.Meta(),
	}
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, io.FromTree(s.kind, s.root))
}

func (s *Server) handleTiles(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := treemap.RenderJSON(s.root, treemap.WithFormatter(pipeline.Formatter(s.kind)))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	opts := pipeline.Options{
		Width:   s.width,
		Height:  s.height,
		Formats: []string{format},
		Labels:  r.URL.Query().Get("labels") != "",
	}
	artifacts, err := s.runner.Render(r.Context(), s.kind, s.root, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	_, _ = w.Write(artifacts[format])
}

func (s *Server) handleAt(w http.ResponseWriter, r *http.Request) {
	p, err := pointParam(r, "x", "y")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.root.NodeAt(p)
	if n == nil {
		s.writeError(w, r, errs.New(errs.ErrCodeNotFound, "no node at %d,%d", p.X, p.Y))
		return
	}
	writeJSON(w, http.StatusOK, s.info(n))
}

func (s *Server) handleViewport(w http.ResponseWriter, r *http.Request) {
	width, err := intParam(r, "width")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	height, err := intParam(r, "height")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := errs.ValidateDimensions(width, height); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.width, s.height = width, height
	s.relayout(r.Context())
	writeJSON(w, http.StatusOK, map[string]int{"width": width, "height": height})
}

// edit wraps a mutation: parse, apply under the lock, re-layout, report.
func (s *Server) edit(op editOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		target, applied, err := op.apply(s, r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.relayout(r.Context())

		resp := editResponse{
			Op:      op.name,
			Applied: applied,
			Weight:  s.root.Weight(),
			Tiles:   len(s.root.VisibleNodes()),
		}
		path := ""
		if target != nil {
			resp.Node = s.info(target)
			path = resp.Node.Path
		}
		observability.Edit().OnEdit(r.Context(), op.name, path, applied)
		s.logger.Debug("edit", "op", op.name, "path", path, "applied", applied)
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, errs.New(errs.ErrCodeUnsupported, "no session store configured"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		s.session = session.New(s.kind, s.source, s.root)
	} else {
		s.session.Update(s.root)
	}
	if err := s.store.Set(r.Context(), s.session); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.Summary())
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, errs.New(errs.ErrCodeUnsupported, "no session store configured"))
		return
	}
	list, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []session.Summary{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleLoadSession(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, errs.New(errs.ErrCodeUnsupported, "no session store configured"))
		return
	}
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	root, err := sess.Tree()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.root, s.kind, s.source, s.session = root, sess.Kind, sess.Source, sess
	s.relayout(r.Context())
	writeJSON(w, http.StatusOK, sess.Summary())
}

func intParam(r *http.Request, name string) (int, error) {
	raw := r.FormValue(name)
	if raw == "" {
		return 0, errs.New(errs.ErrCodeInvalidInput, "missing parameter %q", name)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.New(errs.ErrCodeInvalidInput, "parameter %q must be an integer, got %q", name, raw)
	}
	return v, nil
}

func pointParam(r *http.Request, xName, yName string) (tree.Point, error) {
	x, err := intParam(r, xName)
	if err != nil {
		return tree.Point{}, err
	}
	y, err := intParam(r, yName)
	if err != nil {
		return tree.Point{}, err
	}
	return tree.Point{X: x, Y: y}, nil
}
