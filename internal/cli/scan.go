package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/pkg/source/fs"
)

// scanCommand renders a directory tree.
func (c *CLI) scanCommand() *cobra.Command {
	var so sourceOpts
	var ro renderOpts
	var formatsStr string

	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Render a directory tree as a treemap",
		Long: `Scan a directory and render it as a treemap in which every file is a
rectangle whose area is proportional to its size.

Examples:
  treemap scan .                                # ./<dir>.svg, one level open
  treemap scan ~/src -f svg,png -d -1 --labels  # everything expanded
  treemap scan /var/log --max-depth 2 -o logs.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.resolve(&ro, formatsStr); err != nil {
				return err
			}
			src, err := c.newSource(fs.Kind, args[0], &so)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), src, args[0], &so, &ro)
		},
	}

	so.addSourceFlags(cmd, fs.Kind)
	ro.addRenderFlags(cmd, &formatsStr)
	return cmd
}
