package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/io"
	"github.com/matzehuels/treemap/pkg/pipeline"
	"github.com/matzehuels/treemap/pkg/source"
)

// renderOpts holds the command-line flags that control rendering.
type renderOpts struct {
	output  string   // output file (single format) or base path
	formats []string // svg, png, pdf, json, dot
	width   int      // viewport width in pixels
	height  int      // viewport height in pixels
	labels  bool     // write node names into large tiles
	depth   int      // expand this many levels before rendering
	scale   float64  // PNG scale factor
	export  string   // also write the tree as a JSON snapshot here
}

// addRenderFlags registers the render flags on cmd. The viewport defaults
// come from the config file and are applied in resolve.
func (o *renderOpts) addRenderFlags(cmd *cobra.Command, formatsStr *string) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	cmd.Flags().IntVar(&o.width, "width", 0, "viewport width (default from config)")
	cmd.Flags().IntVar(&o.height, "height", 0, "viewport height (default from config)")
	cmd.Flags().BoolVar(&o.labels, "labels", false, "draw node names in tiles large enough to hold them")
	cmd.Flags().IntVarP(&o.depth, "depth", "d", 1, "expand this many levels (-1 = everything)")
	cmd.Flags().Float64Var(&o.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().StringVar(&o.export, "export", "", "also write the tree as a JSON snapshot to this file")
}

// resolve fills the viewport from the config file and validates formats.
func (c *CLI) resolve(o *renderOpts, formatsStr string) error {
	o.formats = parseFormats(formatsStr)
	if err := pipeline.ValidateFormats(o.formats); err != nil {
		return err
	}
	cfg, err := c.config()
	if err != nil {
		return err
	}
	if o.width == 0 {
		o.width = cfg.Width
	}
	if o.height == 0 {
		o.height = cfg.Height
	}
	return errs.ValidateDimensions(o.width, o.height)
}

// basePath derives the base output path from the output and input paths.
// If output is empty, the input's base name (without extension) is used in
// the current directory. A known format extension on output is stripped.
func basePath(output, input string) string {
	if output == "" {
		name := filepath.Base(filepath.Clean(inputName(input)))
		if name == "." || name == string(filepath.Separator) {
			name = appName
		}
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath names the file for one format.
func outputPath(output, input, format string, single bool) string {
	if single && output != "" {
		return output
	}
	return basePath(output, input) + "." + format
}

// runRender builds src, renders it and writes one file per format.
func (c *CLI) runRender(ctx context.Context, src source.Source, input string, so *sourceOpts, ro *renderOpts) error {
	runner, err := c.newRunner(ctx, so.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Building %s tree from %s...", src.Kind(), input))
	spinner.Start()
	result, err := runner.Execute(ctx, src, pipeline.Options{
		Width:       ro.width,
		Height:      ro.height,
		Formats:     ro.formats,
		Labels:      ro.labels,
		Scale:       ro.scale,
		ExpandDepth: ro.depth,
		Refresh:     so.refresh,
		Logger:      c.Logger,
	})
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d tiles", result.Stats.TileCount))

	printSuccess("Rendered %s", input)
	printStats(result.Stats.NodeCount, result.Stats.TileCount, result.CacheInfo.BuildHit)

	single := len(ro.formats) == 1
	for _, format := range ro.formats {
		path := outputPath(ro.output, input, format, single)
		if err := writeFile(path, result.Artifacts[format]); err != nil {
			return err
		}
		printFile(path)
	}

	if ro.export != "" {
		if err := io.ExportJSON(result.Kind, result.Root, ro.export); err != nil {
			return err
		}
		printFile(ro.export)
	}

	printNewline()
	printNextStep("Explore interactively", fmt.Sprintf("%s explore %s", appName, input))
	return nil
}

// writeFile writes data to path, creating parent directories.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errs.Wrap(errs.ErrCodeStorage, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "write %s", path)
	}
	return nil
}
