// Package pipeline provides the build → layout → render pipeline.
//
// This package implements the steps shared by the CLI, the terminal
// explorer and the HTTP server. By centralizing this logic, every entry
// point builds, caches and draws trees the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: Construct a tree from a [source.Source] (directory or CSV)
//  2. Layout: Partition a viewport into rectangles for the visible nodes
//  3. Render: Generate output in various formats (SVG, PNG, PDF, JSON, DOT)
//
// Built trees and rendered artifacts are cached. A tree is cached under
// its source's fingerprint; an artifact under the hash of the tree's
// snapshot, so expanding or editing a tree invalidates its renders.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, fs.New("src", fs.Options{}), pipeline.Options{
//	    Formats: []string{"svg", "png"},
//	})
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	root, err := runner.Build(ctx, src, false)
//	tiles, err := runner.Layout(ctx, root, 800, 600)
//	artifacts, err := runner.Render(ctx, src.Kind(), root, opts)
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treemap/pkg/cache"
	errs "github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/source/fs"
	"github.com/matzehuels/treemap/pkg/source/papers"
	"github.com/matzehuels/treemap/pkg/tree"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Explorer
// =============================================================================

const (
	// DefaultWidth is the default viewport width in pixels.
	DefaultWidth = 800

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = 600

	// DefaultScale is the default PNG scale factor.
	DefaultScale = 1.0

	// ExpandAll passed as [Options.ExpandDepth] expands every internal node.
	ExpandAll = -1
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout and render stages.
// This struct supports JSON serialization for API requests.
type Options struct {
	Width   int      `json:"width,omitempty"`
	Height  int      `json:"height,omitempty"`
	Formats []string `json:"formats,omitempty"`

	// Labels writes node names into tiles large enough to hold them.
	Labels bool `json:"labels,omitempty"`

	// Scale multiplies the PNG raster size.
	Scale float64 `json:"scale,omitempty"`

	// ExpandDepth expands every internal node shallower than this depth
	// before rendering a freshly built tree. 0 leaves the tree collapsed
	// (a single tile); ExpandAll opens everything.
	ExpandDepth int `json:"expand_depth,omitempty"`

	// Refresh bypasses the tree cache.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Result holds the outputs of [Runner.Execute].
type Result struct {
	Root      *tree.Node
	Kind      string
	TreeHash  string
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats records per-stage timings and sizes.
type Stats struct {
	BuildTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
	NodeCount  int
	TileCount  int
}

// CacheInfo reports which stages were served from cache.
type CacheInfo struct {
	BuildHit  bool // Whether the tree came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidInput, "invalid format: %q (must be one of: svg, png, pdf, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults applies defaults and checks the viewport and formats.
// Calling it more than once is harmless.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if err := errs.ValidateDimensions(o.Width, o.Height); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	o.Formats = slices.Compact(o.Formats)
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ArtifactKeyOpts returns the cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Width:  o.Width,
		Height: o.Height,
		Labels: o.Labels,
	}
}

// Formatter returns the path formatter for trees of the given snapshot
// kind. Unknown kinds get "/" separators and no suffix.
func Formatter(kind string) tree.PathFormatter {
	switch kind {
	case fs.Kind:
		return fs.Formatter()
	case papers.Kind:
		return papers.Formatter()
	default:
		return tree.NewFormatter("/", nil)
	}
}

// ExpandTo expands every internal node of root shallower than depth.
// A negative depth expands the whole tree.
func ExpandTo(root *tree.Node, depth int) {
	if depth < 0 {
		root.ExpandAll()
		return
	}
	base := root.Depth()
	root.Walk(func(n *tree.Node) bool {
		if n.Depth()-base >= depth {
			return false
		}
		n.Expand()
		return true
	})
}
