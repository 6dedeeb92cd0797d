package cli

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/pkg/config"
	errs "github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/httputil"
	"github.com/matzehuels/treemap/pkg/io"
	"github.com/matzehuels/treemap/pkg/source"
	"github.com/matzehuels/treemap/pkg/source/fs"
	"github.com/matzehuels/treemap/pkg/source/papers"
	"github.com/matzehuels/treemap/pkg/tree"
)

// kindSnapshot selects a saved JSON snapshot as input.
const kindSnapshot = "snapshot"

// sourceOpts holds the flags shared by every command that builds a tree.
type sourceOpts struct {
	kind     string // fs, papers or snapshot; detected from the path when empty
	hidden   bool   // include dot files (fs)
	maxDepth int    // stop scanning below this depth (fs)
	byYear   bool   // group papers by year first (papers)
	rootName string // root label (papers)
	noCache  bool   // disable the tree cache
	refresh  bool   // rebuild even when cached
}

// addSourceFlags registers the flags of o on cmd. Flags that do not apply
// to a fixed kind are left out.
func (o *sourceOpts) addSourceFlags(cmd *cobra.Command, kind string) {
	if kind == "" {
		cmd.Flags().StringVarP(&o.kind, "kind", "k", "", "input kind: fs, papers or snapshot (detected from the path)")
	}
	if kind == "" || kind == fs.Kind {
		cmd.Flags().BoolVar(&o.hidden, "hidden", false, "include hidden files")
		cmd.Flags().IntVar(&o.maxDepth, "max-depth", 0, "stop scanning below this depth (0 = unlimited)")
	}
	if kind == "" || kind == papers.Kind {
		cmd.Flags().BoolVar(&o.byYear, "by-year", false, "group papers by year before category")
		cmd.Flags().StringVar(&o.rootName, "root-name", "", "name of the root node (default from config)")
	}
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable the tree cache")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "rebuild the tree even when cached")
}

// detectKind guesses the input kind from a path: CSV files are paper
// datasets, JSON files are snapshots and anything else is scanned. URLs
// are always datasets.
func detectKind(path string) string {
	if httputil.IsURL(path) {
		return papers.Kind
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return papers.Kind
	case ".json":
		return kindSnapshot
	default:
		return fs.Kind
	}
}

// newSource returns the source for path. Snapshots are not sources; they
// are read by [CLI.loadTree] directly.
func (c *CLI) newSource(kind, path string, o *sourceOpts) (source.Source, error) {
	switch kind {
	case fs.Kind:
		return fs.New(path, fs.Options{
			IncludeHidden: o.hidden,
			MaxDepth:      o.maxDepth,
			Logger:        c.Logger,
		}), nil
	case papers.Kind:
		cfg, err := c.config()
		if err != nil {
			return nil, err
		}
		name := o.rootName
		if name == "" {
			name = cfg.Papers.RootName
		}
		opts := papers.Options{
			ByYear:   o.byYear || cfg.Papers.ByYear,
			RootName: name,
			Logger:   c.Logger,
		}
		if httputil.IsURL(path) {
			opts.HTTP = c.newHTTPClient(cfg, o.noCache)
		}
		return papers.New(path, opts), nil
	default:
		return nil, errs.New(errs.ErrCodeInvalidInput, "unknown input kind: %q (must be fs, papers or snapshot)", kind)
	}
}

// newHTTPClient returns the downloader for remote datasets. Downloads are
// cached under the file cache directory unless caching is off.
func (c *CLI) newHTTPClient(cfg *config.Config, noCache bool) *httputil.Client {
	opts := httputil.ClientOptions{Logger: c.Logger}
	if noCache || cfg.Cache.Backend == config.CacheNone {
		return httputil.NewClient(opts)
	}
	dir, err := cfg.CacheDir()
	if err == nil {
		opts.Cache, err = httputil.NewCache(filepath.Join(dir, "http"), cfg.Cache.TTL.Duration)
	}
	if err != nil {
		c.Logger.Warn("download cache disabled", "error", err)
	}
	return httputil.NewClient(opts)
}

// inputName returns the last path element of a file path or URL.
func inputName(input string) string {
	if httputil.IsURL(input) {
		if u, err := url.Parse(input); err == nil {
			return u.Path
		}
	}
	return input
}

// loadTree builds or reads the tree at path and returns it with its kind.
func (c *CLI) loadTree(ctx context.Context, path string, o *sourceOpts) (string, *tree.Node, error) {
	kind := o.kind
	if kind == "" {
		kind = detectKind(path)
	}
	if kind == kindSnapshot {
		return io.ImportJSON(path)
	}

	src, err := c.newSource(kind, path, o)
	if err != nil {
		return "", nil, err
	}
	runner, err := c.newRunner(ctx, o.noCache)
	if err != nil {
		return "", nil, err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Building "+kind+" tree...")
	spinner.Start()
	root, hit, err := runner.BuildWithCacheInfo(ctx, src, o.refresh)
	spinner.Stop()
	if err != nil {
		return "", nil, err
	}
	printStats(root.Count(), 0, hit)
	return kind, root, nil
}
