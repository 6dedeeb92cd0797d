package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/pkg/source/papers"
)

// papersCommand renders a citation dataset.
func (c *CLI) papersCommand() *cobra.Command {
	var so sourceOpts
	var ro renderOpts
	var formatsStr string

	cmd := &cobra.Command{
		Use:   "papers <csv|url>",
		Short: "Render a citation dataset as a treemap",
		Long: `Read a research-paper dataset and render it as a treemap of citations.

The CSV file has a header row and the columns
  authors, title, year, category, doi, citations
where category is a path such as "Teaching: Pedagogy". Categories nest by
their segments and every paper is weighted by its citation count. An
http(s) URL is downloaded and kept in the cache directory.

Examples:
  treemap papers cs1-papers.csv
  treemap papers https://example.org/cs1-papers.csv
  treemap papers cs1-papers.csv --by-year --root-name SIGCSE -f svg,json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.resolve(&ro, formatsStr); err != nil {
				return err
			}
			src, err := c.newSource(papers.Kind, args[0], &so)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), src, args[0], &so, &ro)
		},
	}

	so.addSourceFlags(cmd, papers.Kind)
	ro.addRenderFlags(cmd, &formatsStr)
	return cmd
}
