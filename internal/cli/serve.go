package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/internal/server"
	errs "github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/pipeline"
	"github.com/matzehuels/treemap/pkg/session"
)

// serveOpts holds the flags of the serve command.
type serveOpts struct {
	addr      string
	width     int
	height    int
	depth     int
	sessionID string
}

// serveCommand exposes a tree over the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var so sourceOpts
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [path]",
		Short: "Serve a tree over the HTTP API",
		Long: `Load a directory, citation dataset, snapshot or saved session and serve it
over HTTP. Clients read tiles and renders and edit the tree by pointing at
it: every edit names the node under a point of the viewport.

Examples:
  treemap serve ~/src --addr :8080
  treemap serve papers.csv --width 1600 --height 900
  treemap serve --session 3f1c...`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args, &so, &opts)
		},
	}

	so.addSourceFlags(cmd, "")
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config)")
	cmd.Flags().IntVar(&opts.width, "width", 0, "viewport width (default from config)")
	cmd.Flags().IntVar(&opts.height, "height", 0, "viewport height (default from config)")
	cmd.Flags().IntVarP(&opts.depth, "depth", "d", 1, "expand this many levels of a freshly built tree (-1 = everything)")
	cmd.Flags().StringVar(&opts.sessionID, "session", "", "serve a saved session")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, args []string, so *sourceOpts, opts *serveOpts) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	if opts.addr == "" {
		opts.addr = cfg.Server.Addr
	}
	if opts.width == 0 {
		opts.width = cfg.Width
	}
	if opts.height == 0 {
		opts.height = cfg.Height
	}

	runner, err := c.newRunner(ctx, so.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	var store session.Store
	if s, err := c.newStore(ctx); err != nil {
		printWarning("Sessions disabled: %v", err)
	} else {
		store = s
		defer store.Close()
	}

	scfg := server.Config{
		Width:  opts.width,
		Height: opts.height,
		Store:  store,
		Runner: runner,
		Logger: c.Logger,
	}

	var srv *server.Server
	switch {
	case opts.sessionID != "":
		if store == nil {
			return errs.New(errs.ErrCodeUnsupported, "no session store configured")
		}
		sess, err := store.Get(ctx, opts.sessionID)
		if err != nil {
			return err
		}
		if srv, err = server.Resume(sess, scfg); err != nil {
			return err
		}
	case len(args) == 1:
		kind, root, err := c.loadTree(ctx, args[0], so)
		if err != nil {
			return err
		}
		if kind != kindSnapshot {
			pipeline.ExpandTo(root, opts.depth)
		}
		if srv, err = server.New(kind, args[0], root, scfg); err != nil {
			return err
		}
	default:
		return errs.New(errs.ErrCodeInvalidInput, "serve needs a path or --session")
	}

	printSuccess("Serving on %s", StyleHighlight.Render("http://"+displayAddr(opts.addr)))
	printDetail("Viewport %dx%d", opts.width, opts.height)
	return srv.ListenAndServe(ctx, opts.addr)
}

// displayAddr makes a listen address clickable: ":8080" becomes
// "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return fmt.Sprintf("localhost%s", addr)
	}
	return addr
}
