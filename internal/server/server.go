// Package server exposes one editable tree over HTTP.
//
// The server holds a single tree, laid out at a fixed viewport, behind one
// mutex: every request sees and produces a consistent tree. Nodes are
// addressed the way a pointer would address them, by a point inside the
// viewport; the node at that point is the one a click there would hit.
//
// Routes:
//
//	GET  /api/version             build information
//	GET  /api/tree                the tree as a snapshot
//	GET  /api/tiles               visible tiles with paths and colours
//	GET  /api/render?format=svg   the treemap as svg, png, pdf, json or dot
//	GET  /api/at?x=&y=            the node under a point
//	POST /api/viewport            change the viewport (width, height)
//	POST /api/expand              expand the node at x, y
//	POST /api/collapse            collapse the level of the node at x, y
//	POST /api/expand-all          expand the node at x, y (default root) and its subtree
//	POST /api/collapse-all        collapse the whole tree
//	POST /api/delete              delete the node at x, y
//	POST /api/resize              change the size of the leaf at x, y by factor
//	POST /api/move                move the node at x, y into the folder at to_x, to_y
//	POST /api/session             save the tree to the session store
//	GET  /api/sessions            list saved sessions
//	POST /api/sessions/{id}/load  replace the tree with a saved session
//
// Every mutation lays the tree out again before responding.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/pipeline"
	"github.com/matzehuels/treemap/pkg/session"
	"github.com/matzehuels/treemap/pkg/tree"
)

// Config configures a [Server].
type Config struct {
	Width  int
	Height int

	// Store saves sessions. Without one the session routes answer 501.
	Store session.Store

	// Runner renders artifacts. Defaults to an uncached runner.
	Runner *pipeline.Runner

	Logger *log.Logger
}

// Server serves one tree.
type Server struct {
	mu      sync.Mutex
	root    *tree.Node
	kind    string
	source  string
	session *session.Session
	width   int
	height  int

	store  session.Store
	runner *pipeline.Runner
	logger *log.Logger
}

// New returns a server for the tree rooted at root. kind selects the path
// formatter; source is recorded in saved sessions.
func New(kind, source string, root *tree.Node, cfg Config) (*Server, error) {
	if cfg.Width == 0 && cfg.Height == 0 {
		cfg.Width, cfg.Height = pipeline.DefaultWidth, pipeline.DefaultHeight
	}
	if err := errs.ValidateDimensions(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}
	if err := root.Validate(); err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}

	s := &Server{
		root:   root,
		kind:   kind,
		source: source,
		width:  cfg.Width,
		height: cfg.Height,
		store:  cfg.Store,
		runner: cfg.Runner,
		logger: cfg.Logger.WithPrefix("server"),
	}
	s.relayout(context.Background())
	return s, nil
}

// Resume returns a server for a saved session. Saving again updates the
// same session.
func Resume(sess *session.Session, cfg Config) (*Server, error) {
	root, err := sess.Tree()
	if err != nil {
		return nil, err
	}
	s, err := New(sess.Kind, sess.Source, root, cfg)
	if err != nil {
		return nil, err
	}
	s.session = sess
	return s, nil
}

// relayout must be called with s.mu held.
func (s *Server) relayout(ctx context.Context) {
	pipeline.Layout(ctx, s.root, s.width, s.height)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
