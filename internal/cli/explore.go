package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/observability"
	"github.com/matzehuels/treemap/pkg/pipeline"
	"github.com/matzehuels/treemap/pkg/session"
	"github.com/matzehuels/treemap/pkg/tree"
)

const (
	// cellAspect is how many layout units tall a terminal cell is for one
	// unit of width. Cells are roughly twice as tall as they are wide.
	cellAspect = 2

	// statusLines is the number of rows below the map.
	statusLines = 2

	// resizeStep is the size change per keypress.
	resizeStep = 0.01
)

var (
	exploreHelp   = "←↓↑→ move · e expand · u collapse · a expand all · x collapse all · +/- size · m move · d delete · s save · q quit"
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorWhite).Background(lipgloss.Color("0"))
	selectedStyle = lipgloss.NewStyle().Reverse(true)
)

// exploreCommand creates the interactive terminal explorer.
func (c *CLI) exploreCommand() *cobra.Command {
	var so sourceOpts
	var sessionID string

	cmd := &cobra.Command{
		Use:   "explore [path]",
		Short: "Browse and edit a tree in the terminal",
		Long: `Open a directory, citation dataset or JSON snapshot as a treemap in the
terminal. The node under the cursor is highlighted and its path shown below
the map.

Keys:
  arrows, hjkl   move the cursor (or click with the mouse)
  e, enter       expand the node under the cursor
  u, backspace   collapse the level of the node under the cursor
  a              expand the node under the cursor and everything below it
  x              collapse the whole tree
  +, -           grow or shrink the leaf under the cursor by 1%
  m              mark the node under the cursor, then m again on a folder to move it there
  d              delete the node under the cursor
  s              save the tree as a session
  q, ctrl+c      quit

Examples:
  treemap explore ~/src
  treemap explore papers.csv --by-year
  treemap explore --session 3f1c...`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd.Context(), args, sessionID, &so)
		},
	}

	so.addSourceFlags(cmd, "")
	cmd.Flags().StringVar(&sessionID, "session", "", "resume a saved session")
	return cmd
}

func (c *CLI) runExplore(ctx context.Context, args []string, sessionID string, so *sourceOpts) error {
	store, err := c.newStore(ctx)
	if err != nil {
		if sessionID != "" {
			return err
		}
		printWarning("Saving disabled: %v", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	var m explorer
	switch {
	case sessionID != "":
		sess, err := store.Get(ctx, sessionID)
		if err != nil {
			return err
		}
		root, err := sess.Tree()
		if err != nil {
			return err
		}
		m = newExplorer(ctx, sess.Kind, sess.Source, root, store)
		m.session = sess
	case len(args) == 1:
		kind, root, err := c.loadTree(ctx, args[0], so)
		if err != nil {
			return err
		}
		if kind != kindSnapshot {
			root.Expand()
		}
		m = newExplorer(ctx, kind, args[0], root, store)
	default:
		return errs.New(errs.ErrCodeInvalidInput, "explore needs a path or --session")
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if e, ok := final.(explorer); ok && e.session != nil {
		printSuccess("Session %s", StyleHighlight.Render(e.session.ID))
		printNextStep("Resume with", fmt.Sprintf("%s explore --session %s", appName, e.session.ID))
	}
	return nil
}

// =============================================================================
// explorer - bubbletea model
// =============================================================================

// savedMsg reports the result of a session save.
type savedMsg struct {
	sess *session.Session
	err  error
}

// explorer is the bubbletea model of the terminal treemap. The tree is laid
// out at the map size in cells, with heights scaled by cellAspect.
type explorer struct {
	ctx       context.Context
	root      *tree.Node
	kind      string
	source    string
	formatter tree.PathFormatter
	store     session.Store
	session   *session.Session

	width  int // map width in cells
	height int // map height in cells
	cursor tree.Point
	marked *tree.Node
	status string
}

func newExplorer(ctx context.Context, kind, source string, root *tree.Node, store session.Store) explorer {
	return explorer{
		ctx:       ctx,
		root:      root,
		kind:      kind,
		source:    source,
		formatter: pipeline.Formatter(kind),
		store:     store,
		status:    fmt.Sprintf("%d nodes", root.Count()),
	}
}

func (m explorer) Init() tea.Cmd {
	return nil
}

func (m explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = max(msg.Width, 1)
		m.height = max(msg.Height-statusLines, 1)
		m.cursor = m.clamp(m.cursor)
		m.relayout()
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.cursor = m.clamp(tree.Point{X: msg.X, Y: msg.Y})
		}
	case savedMsg:
		if msg.err != nil {
			m.status = "save failed: " + msg.err.Error()
			break
		}
		m.session = msg.sess
		m.status = "saved session " + msg.sess.ID
	case tea.KeyMsg:
		return m.key(msg.String())
	}
	return m, nil
}

func (m explorer) key(k string) (tea.Model, tea.Cmd) {
	switch k {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "left", "h":
		m.cursor = m.clamp(tree.Point{X: m.cursor.X - 1, Y: m.cursor.Y})
	case "right", "l":
		m.cursor = m.clamp(tree.Point{X: m.cursor.X + 1, Y: m.cursor.Y})
	case "up", "k":
		m.cursor = m.clamp(tree.Point{X: m.cursor.X, Y: m.cursor.Y - 1})
	case "down", "j":
		m.cursor = m.clamp(tree.Point{X: m.cursor.X, Y: m.cursor.Y + 1})
	case "e", "enter":
		m.edit("expand", func(n *tree.Node) bool {
			was := n.Expanded()
			n.Expand()
			return n.Expanded() != was
		})
	case "u", "backspace":
		m.edit("collapse", func(n *tree.Node) bool {
			applied := n.Parent() != nil && n.Parent().Expanded()
			n.Collapse()
			return applied
		})
	case "a":
		m.edit("expand-all", func(n *tree.Node) bool {
			n.ExpandAll()
			return !n.IsLeaf()
		})
	case "x":
		m.edit("collapse-all", func(n *tree.Node) bool {
			applied := m.root.Expanded()
			m.root.CollapseAll()
			return applied
		})
	case "+", "=":
		m.edit("resize", resize(resizeStep))
	case "-", "_":
		m.edit("resize", resize(-resizeStep))
	case "d", "delete":
		m.edit("delete", func(n *tree.Node) bool {
			if n == m.marked {
				m.marked = nil
			}
			return n.Delete()
		})
	case "m":
		if m.marked == nil || m.marked.Detached() {
			if n := m.selected(); n != nil {
				m.marked = n
				m.status = "marked " + n.Name() + ", press m on a folder to move it there"
			}
			break
		}
		src := m.marked
		m.marked = nil
		m.edit("move", func(dest *tree.Node) bool {
			from := src.Parent()
			src.Move(dest)
			return from != dest && src.Parent() == dest
		})
	case "s":
		if m.store == nil {
			m.status = "saving is disabled"
			break
		}
		m.status = "saving..."
		return m, m.save()
	}
	return m, nil
}

func resize(factor float64) func(*tree.Node) bool {
	return func(n *tree.Node) bool {
		before := n.Weight()
		n.ChangeSize(factor)
		return n.Weight() != before
	}
}

// edit applies fn to the node under the cursor, lays the tree out again
// and reports the outcome in the status line.
func (m *explorer) edit(op string, fn func(*tree.Node) bool) {
	n := m.selected()
	if n == nil {
		m.status = op + ": nothing under the cursor"
		return
	}
	applied := fn(n)
	m.relayout()
	observability.Edit().OnEdit(m.ctx, op, n.PathString(m.formatter), applied)
	if applied {
		m.status = op + " " + n.Name()
	} else {
		m.status = op + ": nothing to do"
	}
}

// save snapshots the tree now and writes it to the store in the background.
func (m explorer) save() tea.Cmd {
	var sess *session.Session
	if m.session != nil {
		cp := *m.session
		cp.Update(m.root)
		sess = &cp
	} else {
		sess = session.New(m.kind, m.source, m.root)
	}
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		return savedMsg{sess: sess, err: store.Set(ctx, sess)}
	}
}

func (m *explorer) relayout() {
	if m.width == 0 {
		return
	}
	pipeline.Layout(m.ctx, m.root, m.width, m.height*cellAspect)
}

func (m explorer) clamp(p tree.Point) tree.Point {
	p.X = min(max(p.X, 0), max(m.width-1, 0))
	p.Y = min(max(p.Y, 0), max(m.height-1, 0))
	return p
}

// at returns the node drawn in a cell.
func (m explorer) at(cx, cy int) *tree.Node {
	return m.root.NodeAt(tree.Point{X: cx, Y: cy * cellAspect})
}

func (m explorer) selected() *tree.Node {
	return m.at(m.cursor.X, m.cursor.Y)
}

func (m explorer) View() string {
	if m.width == 0 {
		return "loading..."
	}

	var b strings.Builder
	sel := m.selected()
	labelled := make(map[*tree.Node]bool)
	for cy := 0; cy < m.height; cy++ {
		row := make([]*tree.Node, m.width)
		for cx := range row {
			row[cx] = m.at(cx, cy)
		}
		b.WriteString(m.renderRow(cy, row, sel, labelled))
		b.WriteByte('\n')
	}

	path := "(empty)"
	if sel != nil {
		path = sel.PathString(m.formatter)
	}
	b.WriteString(StyleValue.Render(truncate(path, m.width)))
	b.WriteByte('\n')
	b.WriteString(StyleDim.Render(truncate(m.status+" · "+exploreHelp, m.width)))
	return b.String()
}

// renderRow draws one row of cells, grouping runs of the same node into
// one styled span. A node's name is written at the start of the first run
// where it appears.
func (m explorer) renderRow(cy int, row []*tree.Node, sel *tree.Node, labelled map[*tree.Node]bool) string {
	var b strings.Builder
	for start := 0; start < len(row); {
		n := row[start]
		end := start + 1
		for end < len(row) && row[end] == n {
			end++
		}

		text := []rune(strings.Repeat(" ", end-start))
		if n != nil && !labelled[n] {
			labelled[n] = true
			name := []rune(n.Name())
			copy(text, name[:min(len(name), max(len(text)-1, 0))])
		}
		if n != nil && n == m.marked {
			for i, r := range text {
				if r == ' ' {
					text[i] = '·'
				}
			}
		}

		style := cellStyle(n)
		if n != nil && n == sel {
			style = style.Inherit(selectedStyle)
		}
		if cy == m.cursor.Y && start <= m.cursor.X && m.cursor.X < end {
			i := m.cursor.X - start
			b.WriteString(style.Render(string(text[:i])))
			b.WriteString(cursorStyle.Render("+"))
			b.WriteString(style.Render(string(text[i+1:])))
		} else {
			b.WriteString(style.Render(string(text)))
		}
		start = end
	}
	return b.String()
}

// cellStyle paints a node's cells in its colour, with black or white text
// depending on the colour's lightness.
func cellStyle(n *tree.Node) lipgloss.Style {
	if n == nil {
		return lipgloss.NewStyle()
	}
	c, _ := colorful.MakeColor(n.Color())
	fg := lipgloss.Color("#ffffff")
	if l, _, _ := c.Lab(); l > 0.6 {
		fg = lipgloss.Color("#000000")
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Foreground(fg)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}
