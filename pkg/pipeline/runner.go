package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treemap/pkg/cache"
	errs "github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/io"
	"github.com/matzehuels/treemap/pkg/observability"
	"github.com/matzehuels/treemap/pkg/source"
	"github.com/matzehuels/treemap/pkg/tree"
)

// Cache key types reported to cache hooks.
const (
	keyTypeTree     = "tree"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Trees are not safe for concurrent use, so callers
// sharing a tree between goroutines must serialise Layout and Render on it.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
	TreeTTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Logger:  logger,
		TreeTTL: cache.TTLTree,
	}
}

// Execute runs the complete build → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, src source.Source, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{Kind: src.Kind()}

	// Stage 1: Build
	buildStart := time.Now()
	root, hit, err := r.BuildWithCacheInfo(ctx, src, opts.Refresh)
	if err != nil {
		return nil, err
	}
	result.Root = root
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = root.Count()
	result.CacheInfo.BuildHit = hit

	r.Logger.Info("built tree",
		"kind", src.Kind(),
		"nodes", result.Stats.NodeCount,
		"weight", root.Weight(),
		"duration", result.Stats.BuildTime)

	ExpandTo(root, opts.ExpandDepth)

	// Stage 2: Layout
	layoutStart := time.Now()
	tiles := Layout(ctx, root, opts.Width, opts.Height)
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.TileCount = len(tiles)

	r.Logger.Debug("computed layout",
		"tiles", len(tiles),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, treeHash, renderHit, err := r.renderWithCacheInfo(ctx, src.Kind(), root, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.TreeHash = treeHash
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// BuildWithCacheInfo builds a tree from src, serving it from cache when the
// source has a fingerprint, and reports whether it was a cache hit. With
// refresh the cached copy is ignored and overwritten.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, src source.Source, refresh bool) (*tree.Node, bool, error) {
	hooks := observability.Pipeline()
	kind := src.Kind()
	hooks.OnBuildStart(ctx, kind)
	start := time.Now()

	root, hit, err := r.build(ctx, src, refresh)

	count := 0
	if root != nil {
		count = root.Count()
	}
	hooks.OnBuildComplete(ctx, kind, count, time.Since(start), err)
	return root, hit, err
}

func (r *Runner) build(ctx context.Context, src source.Source, refresh bool) (*tree.Node, bool, error) {
	fingerprint, err := src.Fingerprint(ctx)
	if err != nil {
		return nil, false, err
	}

	var key string
	if fingerprint != "" {
		key = r.Keyer.TreeKey(src.Kind(), fingerprint)
		if !refresh {
			if root, ok := r.cachedTree(ctx, key); ok {
				return root, true, nil
			}
		}
	}

	root, err := src.Build(ctx)
	if err != nil {
		return nil, false, err
	}

	if key != "" {
		if data, err := io.Marshal(src.Kind(), root); err == nil {
			if err := r.Cache.Set(ctx, key, data, r.TreeTTL); err != nil {
				r.Logger.Warn("cache write failed", "err", err)
			} else {
				observability.Cache().OnCacheSet(ctx, keyTypeTree, len(data))
			}
		}
	}
	return root, false, nil
}

func (r *Runner) cachedTree(ctx context.Context, key string) (*tree.Node, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyTypeTree)
		return nil, false
	}
	_, root, err := io.Unmarshal(data)
	if err != nil {
		// A stale or corrupt entry is rebuilt and overwritten.
		r.Logger.Debug("discarding cached tree", "err", err)
		observability.Cache().OnCacheMiss(ctx, keyTypeTree)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyTypeTree)
	return root, true
}

// Build is a convenience wrapper that calls BuildWithCacheInfo and discards the cache hit info.
func (r *Runner) Build(ctx context.Context, src source.Source, refresh bool) (*tree.Node, error) {
	root, _, err := r.BuildWithCacheInfo(ctx, src, refresh)
	return root, err
}

// Layout lays root out in a width x height viewport and returns the
// visible tiles.
func (r *Runner) Layout(ctx context.Context, root *tree.Node, width, height int) ([]tree.Tile, error) {
	if err := errs.ValidateDimensions(width, height); err != nil {
		return nil, err
	}
	return Layout(ctx, root, width, height), nil
}

// RenderWithCacheInfo lays root out at the options' viewport and renders
// every requested format, reusing cached artifacts when all of them are
// available.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, kind string, root *tree.Node, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	Layout(ctx, root, opts.Width, opts.Height)
	artifacts, _, hit, err := r.renderWithCacheInfo(ctx, kind, root, opts)
	return artifacts, hit, err
}

// renderWithCacheInfo expects root to be laid out at the options' viewport.
func (r *Runner) renderWithCacheInfo(ctx context.Context, kind string, root *tree.Node, opts Options) (map[string][]byte, string, bool, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	snapshot, err := io.Marshal(kind, root)
	if err != nil {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
		return nil, "", false, errs.Wrap(errs.ErrCodeInternal, err, "serialize tree for cache key")
	}
	treeHash := cache.Hash(snapshot)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(treeHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
			break
		}
		observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
		return artifacts, treeHash, true, nil
	}

	rendered, err := Render(ctx, kind, root, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, "", false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(treeHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(data))
		}
	}
	return rendered, treeHash, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, kind string, root *tree.Node, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, kind, root, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
