package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/arborcli/arbor/internal/cli/formatter"
	"github.com/arborcli/arbor/internal/domain"
	"github.com/arborcli/arbor/internal/tree"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// browseRow is one flattened, visible row of the goal tree.
type browseRow struct {
	id          string
	title       string
	status      domain.NodeStatus
	depth       int
	isLeaf      bool
	collapsed   bool
	hiddenCount int
	badge       string
}

// browseLoadedMsg carries a freshly loaded row set.
type browseLoadedMsg struct {
	rows []browseRow
	err  error
}

type browseKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	Complete key.Binding
	Delete   key.Binding
	Refresh  key.Binding
	Quit     key.Binding
}

func newBrowseKeyMap() browseKeyMap {
	return browseKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "fold/unfold")),
		Complete: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle done")),
		Delete:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// browseModel is the interactive tree browser for one project.
type browseModel struct {
	app         *App
	projectID   string
	projectName string
	keys        browseKeyMap
	rows        []browseRow
	cursor      int
	loading     bool
	err         error
	status      string
}

func newBrowseModel(app *App, projectID, projectName string) *browseModel {
	return &browseModel{
		app:         app,
		projectID:   projectID,
		projectName: projectName,
		keys:        newBrowseKeyMap(),
		loading:     true,
	}
}

func (m *browseModel) Init() tea.Cmd {
	return m.load()
}

func (m *browseModel) load() tea.Cmd {
	app, projectID := m.app, m.projectID
	return func() tea.Msg {
		rows, err := buildBrowseRows(context.Background(), app, projectID)
		return browseLoadedMsg{rows: rows, err: err}
	}
}

// buildBrowseRows flattens the project snapshot into visible rows,
// honoring each node's persisted collapse state.
func buildBrowseRows(ctx context.Context, app *App, projectID string) ([]browseRow, error) {
	x, err := app.Nodes.Snapshot(ctx, projectID)
	if err != nil {
		return nil, err
	}

	var rows []browseRow
	var walk func(views []*tree.NodeView, depth int)
	walk = func(views []*tree.NodeView, depth int) {
		for _, v := range views {
			n := v.Node
			collapsed := n.IsCollapsed && len(v.Children) > 0
			row := browseRow{
				id:        n.ID,
				title:     n.Title,
				status:    n.Status,
				depth:     depth,
				isLeaf:    x.IsLeaf(n.ID),
				collapsed: collapsed,
			}
			if collapsed {
				row.hiddenCount = len(x.Descendants(n.ID))
			}
			if !row.isLeaf {
				row.badge = formatter.ProgressBadge(tree.NodeProgress(x, n.ID))
			}
			rows = append(rows, row)
			if !collapsed {
				walk(v.Children, depth+1)
			}
		}
	}
	walk(x.Nested(), 0)

	return rows, nil
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case browseLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.rows = msg.rows
		if m.cursor >= len(m.rows) {
			m.cursor = len(m.rows) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Toggle):
			if row, ok := m.current(); ok && !row.isLeaf {
				return m, m.toggleCollapse(row)
			}
		case key.Matches(msg, m.keys.Complete):
			if row, ok := m.current(); ok {
				return m, m.toggleComplete(row)
			}
		case key.Matches(msg, m.keys.Delete):
			if row, ok := m.current(); ok {
				return m, m.deleteNode(row)
			}
		case key.Matches(msg, m.keys.Refresh):
			m.loading = true
			return m, m.load()
		}
	}
	return m, nil
}

func (m *browseModel) current() (browseRow, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return browseRow{}, false
	}
	return m.rows[m.cursor], true
}

func (m *browseModel) toggleCollapse(row browseRow) tea.Cmd {
	app, projectID := m.app, m.projectID
	return func() tea.Msg {
		ctx := context.Background()
		if err := app.Nodes.SetCollapsed(ctx, row.id, !row.collapsed); err != nil {
			return browseLoadedMsg{err: err}
		}
		rows, err := buildBrowseRows(ctx, app, projectID)
		return browseLoadedMsg{rows: rows, err: err}
	}
}

func (m *browseModel) toggleComplete(row browseRow) tea.Cmd {
	app, projectID := m.app, m.projectID
	return func() tea.Msg {
		ctx := context.Background()
		next := domain.StatusCompleted
		if row.status == domain.StatusCompleted {
			next = domain.StatusOpen
		}
		if _, err := app.Nodes.SetStatus(ctx, row.id, next, true); err != nil {
			return browseLoadedMsg{err: err}
		}
		rows, err := buildBrowseRows(ctx, app, projectID)
		return browseLoadedMsg{rows: rows, err: err}
	}
}

func (m *browseModel) deleteNode(row browseRow) tea.Cmd {
	app, projectID := m.app, m.projectID
	return func() tea.Msg {
		ctx := context.Background()
		if err := app.Nodes.Delete(ctx, row.id); err != nil {
			return browseLoadedMsg{err: err}
		}
		rows, err := buildBrowseRows(ctx, app, projectID)
		return browseLoadedMsg{rows: rows, err: err}
	}
}

func (m *browseModel) View() string {
	if m.loading {
		return "\n  " + formatter.Dim("Loading goals...")
	}
	if m.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n"
	}
	if len(m.rows) == 0 {
		return "\n  " + formatter.Dim("No nodes in this project.") + "\n\n" + m.helpLine()
	}

	var b strings.Builder
	b.WriteString("\n  " + formatter.Bold(m.projectName) + "\n\n")
	for i, row := range m.rows {
		b.WriteString(m.renderRow(row, i == m.cursor))
		b.WriteByte('\n')
	}
	b.WriteString("\n" + m.helpLine())
	return b.String()
}

func (m *browseModel) renderRow(row browseRow, isCursor bool) string {
	cursor := "  "
	if isCursor {
		cursor = formatter.StyleGreen.Render("▸ ")
	}

	indent := strings.Repeat("  ", row.depth)

	statusIcon := formatter.StyleBlue.Render("○")
	switch row.status {
	case domain.StatusCompleted:
		statusIcon = formatter.StyleGreen.Render("✓")
	case domain.StatusInProgress:
		statusIcon = formatter.StyleYellow.Render("▶")
	case domain.StatusBlocked:
		statusIcon = formatter.StyleRed.Render("■")
	}

	title := row.title
	if row.status == domain.StatusCompleted {
		title = formatter.Dim(title)
	}
	if row.collapsed {
		title += " " + formatter.Dim(fmt.Sprintf("▸ (%d)", row.hiddenCount))
	}

	line := fmt.Sprintf("%s%s%s %s", cursor, indent, statusIcon, title)
	if row.badge != "" {
		line += "  " + row.badge
	}
	return line
}

func (m *browseModel) helpLine() string {
	bindings := []key.Binding{
		m.keys.Up, m.keys.Down, m.keys.Toggle,
		m.keys.Complete, m.keys.Delete, m.keys.Refresh, m.keys.Quit,
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, formatter.Dim(b.Help().Key+" "+b.Help().Desc))
	}
	return "  " + strings.Join(parts, formatter.Dim("  ·  "))
}
