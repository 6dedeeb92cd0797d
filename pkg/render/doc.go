// Package render turns laid-out trees into images and documents.
//
// # Overview
//
// Rendering is an adapter around the tree engine: it reads the rectangles
// produced by [tree.Node.UpdateRectangles] and never changes the tree.
//
//   - Treemap images (in [treemap] subpackage)
//   - Node-link diagrams of the visible tree (in [nodelink] subpackage)
//   - Generic format conversion (SVG to PDF/PNG)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). The treemap renderer
// rasterises PNG itself and only needs this for PDF.
//
//	svg := treemap.RenderSVG(root, treemap.WithFormatter(f))
//	pdf, err := render.ToPDF(svg)
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage draws the expanded part of the tree as a
// top-down Graphviz diagram.
//
//	dot := nodelink.ToDOT(root, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [tree.Node.UpdateRectangles]: github.com/matzehuels/treemap/pkg/tree
// [treemap]: github.com/matzehuels/treemap/pkg/render/treemap
// [nodelink]: github.com/matzehuels/treemap/pkg/render/nodelink
package render
