package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/pkg/pipeline"
	"github.com/matzehuels/treemap/pkg/session"
	"github.com/matzehuels/treemap/pkg/tree"
)

// sessionCommand creates the session management command.
func (c *CLI) sessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "session",
		Aliases: []string{"sessions"},
		Short:   "List, show and remove saved sessions",
	}

	cmd.AddCommand(c.sessionListCommand())
	cmd.AddCommand(c.sessionShowCommand())
	cmd.AddCommand(c.sessionRemoveCommand())

	return cmd
}

func (c *CLI) sessionListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved sessions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.newStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			summaries, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				printInfo("No saved sessions")
				printNextStep("Save one from the explorer with 's'", appName+" explore <path>")
				return nil
			}
			fmt.Fprintln(stdout, sessionTable(summaries, time.Now()))
			return nil
		},
	}
}

// sessionTable renders summaries as a rounded table.
func sessionTable(summaries []session.Summary, now time.Time) string {
	rows := make([][]string, len(summaries))
	for i, s := range summaries {
		rows[i] = []string{s.ID, s.Kind, s.Source, formatRelativeTime(s.UpdatedAt, now)}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Kind", "Source", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorCyan)
			case col == 3:
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

func (c *CLI) sessionShowCommand() *cobra.Command {
	var depth int
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a saved session and the top of its tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.newStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			sess, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			root, err := sess.Tree()
			if err != nil {
				return err
			}

			printKeyValue("ID", sess.ID)
			printKeyValue("Kind", sess.Kind)
			printKeyValue("Source", sess.Source)
			printKeyValue("Created", sess.CreatedAt.Local().Format(time.DateTime))
			printKeyValue("Updated", sess.UpdatedAt.Local().Format(time.DateTime))
			printKeyValue("Nodes", strconv.Itoa(root.Count()))
			printKeyValue("Weight", strconv.FormatInt(root.Weight(), 10))
			printNewline()

			f := pipeline.Formatter(sess.Kind)
			base := root.Depth()
			root.Walk(func(n *tree.Node) bool {
				d := n.Depth() - base
				if depth >= 0 && d > depth {
					return false
				}
				fmt.Fprintf(stdout, "%*s%s%s\n", 2*d, "", StyleValue.Render(n.Name()), StyleDim.Render(f.Suffix(n)))
				return true
			})
			return nil
		},
	}
	cmd.Flags().IntVarP(&depth, "depth", "d", 1, "levels of the tree to print (-1 = everything)")
	return cmd
}

func (c *CLI) sessionRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove saved sessions",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.newStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			for _, id := range args {
				if err := store.Delete(cmd.Context(), id); err != nil {
					return err
				}
				printSuccess("Removed %s", id)
			}
			return nil
		},
	}
}

// formatRelativeTime describes t relative to now, e.g. "5m ago".
func formatRelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Local().Format(time.DateOnly)
	}
}
