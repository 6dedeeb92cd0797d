// Package nodelink renders trees as traditional node-link diagrams.
//
// # Overview
//
// This package produces top-down tree diagrams using Graphviz, where nodes
// appear as boxes connected to their children by arrows. Only the part of
// the tree a treemap would currently reveal is drawn: expanded nodes show
// their children, collapsed ones appear dashed with their subtree hidden.
//
// # Usage
//
// Convert a tree to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(root, nodelink.Options{Detailed: false})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: When true, node labels include the weight and all metadata
//   - Formatter: Appends the source's size descriptor to detailed labels
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering, which embeds Graphviz as WebAssembly. PDF and PNG go through
// rsvg-convert (see [render.ToPDF]).
//
// [render.ToPDF]: github.com/matzehuels/treemap/pkg/render#ToPDF
package nodelink
