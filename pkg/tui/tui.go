// Package tui is the interactive terminal explorer: a keyword table next
// to a live braille rendering of the force layout, with key bindings for
// pinning, reheating and switching layout variants.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/keygraph/pkg/corpus"
	"github.com/dd0wney/keygraph/pkg/graph"
	"github.com/dd0wney/keygraph/pkg/layout"
	"github.com/dd0wney/keygraph/pkg/pipeline"
)

const defaultTickInterval = 33 * time.Millisecond

// chromeRows is the vertical space the frame spends outside the panels:
// title, borders, message and help lines.
const chromeRows = 9

// Options configures the explorer
type Options struct {
	// Session drives the layout. The model ticks it from tickCmd; the
	// session never ticks itself.
	Session *pipeline.Session

	// Docs are kept for the rebuild a variant switch triggers
	Docs []corpus.Document

	// TickInterval is the simulation step rate; zero means ~30 fps
	TickInterval time.Duration

	// ASCII starts the canvas in plain-glyph mode instead of braille
	ASCII bool
}

// Model is the bubbletea model for the explorer
type Model struct {
	session  *pipeline.Session
	docs     []corpus.Document
	interval time.Duration

	table table.Model
	help  help.Model
	keys  keyMap

	width  int
	height int
	ascii  bool

	snap      layout.Snapshot
	links     []*graph.Link
	pct       map[string]float64
	commCount int
	docCount  int

	lastSelected string
	message      string
	messageErr   bool
}

type tickMsg time.Time

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// New builds the model around an already constructed session. A rebuild
// does not have to have happened yet; the explorer starts empty and
// fills in once one completes.
func New(opts Options) (Model, error) {
	if opts.Session == nil {
		return Model{}, errors.New("tui: session is required")
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = defaultTickInterval
	}

	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Keyword", Width: 18},
		{Title: "Count", Width: 5},
		{Title: "Share", Width: 6},
		{Title: "Com", Width: 3},
	}
	// The table's letter shortcuts (b, u, f, d) would shadow the explorer
	// bindings, so scrolling keeps only the dedicated keys.
	tk := table.DefaultKeyMap()
	tk.PageUp = key.NewBinding(key.WithKeys("pgup"))
	tk.PageDown = key.NewBinding(key.WithKeys("pgdown"))
	tk.HalfPageUp = key.NewBinding(key.WithKeys("ctrl+u"))
	tk.HalfPageDown = key.NewBinding(key.WithKeys("ctrl+d"))

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
		table.WithKeyMap(tk),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(selectionColor).
		Bold(false)
	t.SetStyles(s)

	m := Model{
		session:  opts.Session,
		docs:     opts.Docs,
		interval: opts.TickInterval,
		table:    t,
		help:     help.New(),
		keys:     keys,
		ascii:    opts.ASCII,
	}
	m.refresh()
	m.syncSelection()
	return m, nil
}

// Init schedules the first simulation step
func (m Model) Init() tea.Cmd {
	return tickCmd(m.interval)
}

// Update handles ticks, resizes and key bindings
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetHeight(max(5, msg.Height-chromeRows))

	case tickMsg:
		m.session.Tick()
		m.refresh()
		return m, tickCmd(m.interval)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Variant):
			m.cycleVariant()
		case key.Matches(msg, m.keys.Reheat):
			m.reheat()
		case key.Matches(msg, m.keys.Pin):
			m.pinSelected()
		case key.Matches(msg, m.keys.Unpin):
			m.unpinSelected()
		case key.Matches(msg, m.keys.Glyphs):
			m.ascii = !m.ascii
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	m.syncSelection()
	return m, cmd
}

// refresh pulls the latest snapshot and rebuild artifacts into the model
func (m *Model) refresh() {
	snap, err := m.session.Snapshot()
	if err != nil {
		return
	}
	m.snap = snap

	if res, err := m.session.Result(); err == nil {
		m.links = res.Graph.Links
		m.commCount = res.Communities.Count
		m.docCount = res.Documents
		if len(m.pct) != len(res.Stats) {
			m.pct = make(map[string]float64, len(res.Stats))
			for _, stat := range res.Stats {
				m.pct[stat.Keyword] = stat.Percentage
			}
		}
	}
	m.syncRows()
}

func (m *Model) syncRows() {
	rows := make([]table.Row, len(m.snap.Nodes))
	for i, n := range m.snap.Nodes {
		kw := n.ID
		if n.Pinned {
			kw = "◉ " + kw
		}
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			kw,
			fmt.Sprintf("%d", n.Count),
			fmt.Sprintf("%.1f%%", m.pct[n.ID]),
			fmt.Sprintf("%d", n.Community),
		}
	}
	m.table.SetRows(rows)
}

// syncSelection tells the session which node the cursor is on so the
// canvas highlights it
func (m *Model) syncSelection() {
	n, ok := m.cursorNode()
	if !ok || n.ID == m.lastSelected {
		return
	}
	if err := m.session.Select(n.ID); err == nil {
		m.lastSelected = n.ID
	}
}

func (m *Model) cursorNode() (layout.NodeSnapshot, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.snap.Nodes) {
		return layout.NodeSnapshot{}, false
	}
	return m.snap.Nodes[i], true
}

func (m *Model) cycleVariant() {
	cfg := m.session.Config()
	next := nextVariant(cfg.Variant)
	if err := m.session.Configure(cfg.MaxNodes, cfg.MinStrength, next); err != nil {
		m.fail(err)
		return
	}
	if _, err := m.session.Rebuild(context.Background(), m.docs); err != nil {
		m.fail(err)
		return
	}
	m.lastSelected = ""
	m.refresh()
	m.syncSelection()
	m.note(fmt.Sprintf("Variant switched to %s", next))
}

func nextVariant(v layout.Variant) layout.Variant {
	switch v {
	case layout.VariantStandard:
		return layout.VariantRadial
	case layout.VariantRadial:
		return layout.VariantCluster
	default:
		return layout.VariantStandard
	}
}

func (m *Model) pinSelected() {
	n, ok := m.cursorNode()
	if !ok {
		m.failText("No node under the cursor")
		return
	}
	if err := m.session.Pin(n.ID, n.X, n.Y); err != nil {
		m.fail(err)
		return
	}
	m.refresh()
	m.note(fmt.Sprintf("Pinned %q", n.ID))
}

func (m *Model) unpinSelected() {
	n, ok := m.cursorNode()
	if !ok {
		m.failText("No node under the cursor")
		return
	}
	if err := m.session.Unpin(n.ID); err != nil {
		m.fail(err)
		return
	}
	m.refresh()
	m.note(fmt.Sprintf("Unpinned %q", n.ID))
}

func (m *Model) reheat() {
	if err := m.session.Reheat(0); err != nil {
		m.fail(err)
		return
	}
	m.refresh()
	m.note("Simulation reheated")
}

func (m Model) pinnedCount() int {
	count := 0
	for i := range m.snap.Nodes {
		if m.snap.Nodes[i].Pinned {
			count++
		}
	}
	return count
}

func (m *Model) note(text string) {
	m.message = text
	m.messageErr = false
}

func (m *Model) fail(err error) {
	m.message = err.Error()
	m.messageErr = true
}

func (m *Model) failText(text string) {
	m.message = text
	m.messageErr = true
}
