package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/treemap/pkg/observability"
	"github.com/matzehuels/treemap/pkg/tree"
)

// Viewport is the rectangle a tree is laid out in: origin at the top-left
// corner, y growing downwards.
func Viewport(width, height int) tree.Rect {
	return tree.Rect{X: 0, Y: 0, W: width, H: height}
}

// Layout assigns rectangles to root and its descendants for a viewport of
// width x height and returns the visible tiles.
func Layout(ctx context.Context, root *tree.Node, width, height int) []tree.Tile {
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, root.Count())
	start := time.Now()

	root.UpdateRectangles(Viewport(width, height))
	tiles := root.Rectangles()

	hooks.OnLayoutComplete(ctx, len(tiles), time.Since(start))
	return tiles
}
