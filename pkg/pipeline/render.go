package pipeline

import (
	"context"

	errs "github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/render"
	"github.com/matzehuels/treemap/pkg/render/nodelink"
	"github.com/matzehuels/treemap/pkg/render/treemap"
	"github.com/matzehuels/treemap/pkg/tree"
)

// Render generates output artifacts in the requested formats from a tree
// that has already been laid out.
func Render(ctx context.Context, kind string, root *tree.Node, opts Options) (map[string][]byte, error) {
	formatter := Formatter(kind)
	tmOpts := []treemap.Option{treemap.WithFormatter(formatter), treemap.WithScale(opts.Scale)}
	if opts.Labels {
		tmOpts = append(tmOpts, treemap.WithLabels())
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var svg []byte
	svgOnce := func() []byte {
		if svg == nil {
			svg = treemap.RenderSVG(root, tmOpts...)
		}
		return svg
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = svgOnce()
		case FormatPNG:
			data, err = treemap.RenderPNG(root, tmOpts...)
		case FormatPDF:
			data, err = render.ToPDF(svgOnce())
		case FormatJSON:
			data, err = treemap.RenderJSON(root, tmOpts...)
		case FormatDOT:
			data = []byte(nodelink.ToDOT(root, nodelink.Options{Detailed: opts.Labels, Formatter: formatter}))
		default:
			return nil, errs.New(errs.ErrCodeUnsupported, "unsupported format: %s", format)
		}

		if err != nil {
			code := errs.GetCode(err)
			if code == "" {
				code = errs.ErrCodeInternal
			}
			return nil, errs.Wrap(code, err, "render %s", format)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
