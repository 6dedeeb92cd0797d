// Package pkg provides the core libraries of treemap, an explorer for
// size-weighted hierarchies.
//
// # Overview
//
// treemap turns a hierarchy whose leaves carry a weight (files and their
// byte sizes, papers and their citation counts) into nested rectangles whose
// areas are proportional to the weights. The tree stays mutable: nodes can be
// resized, moved, deleted, expanded and collapsed, and the layout follows.
//
// # Architecture
//
// The typical data flow:
//
//	directory / CSV dataset / snapshot
//	         ↓
//	    [source] (build a tree)
//	         ↓
//	    [tree] (weights, visibility, edits, layout, hit-testing)
//	         ↓
//	    [render] (SVG, PNG, PDF, JSON, DOT)
//
// [pipeline] runs these stages with caching and is shared by the CLI and the
// HTTP server. [session] persists edited trees between runs.
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/treemap/pkg/render/treemap"
//	    "github.com/matzehuels/treemap/pkg/source/fs"
//	    "github.com/matzehuels/treemap/pkg/tree"
//	)
//
//	root, _ := fs.New("~/src", fs.Options{}).Build(ctx)
//	root.Expand()
//	root.UpdateRectangles(tree.Rect{W: 1200, H: 800})
//	svg := treemap.RenderSVG(root, treemap.WithFormatter(fs.Formatter()))
//
// # Main Packages
//
// ## Tree Engine
//
// [tree] - The node type and everything done to it: weights maintained up
// the ancestor chain, the visible frontier, squarified layout, point lookup,
// path strings and structural edits.
//
// ## Sources
//
// [source] - The [source.Source] interface and its builders: [source/fs]
// scans directories, [source/papers] reads citation datasets from a file or
// a URL fetched through [httputil].
//
// ## Output
//
// [render] - Treemap images and node-link diagrams. Labels use the Go font
// from [fonts].
//
// [io] - JSON snapshots that keep weights, expansion state and metadata.
//
// ## Infrastructure
//
// [pipeline] - Build, layout and render with a tree cache and an artifact
// cache.
//
// [cache] - Cache backends: file, Redis and a no-op cache.
//
// [session] - Saved edit sessions, on disk or in MongoDB.
//
// [config] - The TOML configuration file.
//
// [errors] - Coded errors shared by every layer.
//
// [observability] - Logging hooks for builds, renders and edits.
//
// [buildinfo] - Version information set at link time.
//
// [tree]: github.com/matzehuels/treemap/pkg/tree
// [source]: github.com/matzehuels/treemap/pkg/source
// [source.Source]: github.com/matzehuels/treemap/pkg/source#Source
// [source/fs]: github.com/matzehuels/treemap/pkg/source/fs
// [source/papers]: github.com/matzehuels/treemap/pkg/source/papers
// [httputil]: github.com/matzehuels/treemap/pkg/httputil
// [render]: github.com/matzehuels/treemap/pkg/render
// [fonts]: github.com/matzehuels/treemap/pkg/fonts
// [io]: github.com/matzehuels/treemap/pkg/io
// [pipeline]: github.com/matzehuels/treemap/pkg/pipeline
// [cache]: github.com/matzehuels/treemap/pkg/cache
// [session]: github.com/matzehuels/treemap/pkg/session
// [config]: github.com/matzehuels/treemap/pkg/config
// [errors]: github.com/matzehuels/treemap/pkg/errors
// [observability]: github.com/matzehuels/treemap/pkg/observability
// [buildinfo]: github.com/matzehuels/treemap/pkg/buildinfo
package pkg
