// Package treemap draws the visible tiles of a laid-out tree.
//
// All renderers read the rectangles of the last [tree.Node.UpdateRectangles]
// call and draw one tile per node of [tree.Node.VisibleNodes]. Rectangles
// with negative width or height are normalised first, so a layout computed
// for a y-up viewport such as (0, 0, 200, -100) draws the same picture as
// its y-down mirror.
//
// Three outputs are supported:
//
//   - [RenderSVG]: one <rect> per tile with a <title> holding the node's
//     path string, for browsers and PDF conversion
//   - [RenderPNG]: a raster image drawn in-process with gg
//   - [RenderJSON]: tile geometry, colour, weight and metadata for custom
//     front-ends
//
// [tree.Node.UpdateRectangles]: github.com/matzehuels/treemap/pkg/tree
// [tree.Node.VisibleNodes]: github.com/matzehuels/treemap/pkg/tree
package treemap
