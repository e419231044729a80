// Package ui is the terminal front end of the graph view. It feeds mouse
// and key events into an interact.Session and presents the rendered
// surface with half-block cells.
package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/notegraph/notegraph/pkg/graph"
	"github.com/notegraph/notegraph/pkg/interact"
	"github.com/notegraph/notegraph/pkg/layout"
)

const (
	headerHeight = 1
	statusHeight = 1
	// DetailsWidth is the side panel width; the panel is hidden when the
	// terminal is narrower than MinWidthForDetails
	DetailsWidth       = 34
	MinWidthForDetails = 80
)

// Options configures the terminal view
type Options struct {
	Session interact.Options // OnSelect and OnClose are owned by the view
	Changes <-chan struct{}  // Store change notifications, may be nil
	Theme   *Theme           // Defaults to DefaultTheme on the default renderer
	Copy    func(string) error
	Logger  *zap.Logger
}

// storeChangedMsg reports that the note store changed on disk
type storeChangedMsg struct{}

// Model is the bubbletea model of the graph view
type Model struct {
	session *interact.Session
	canvas  Canvas
	details DetailsModel
	help    help.Model
	keys    keyMap
	theme   Theme

	width  int
	height int

	linking    bool
	noteView   []string
	noteOffset int
	status     string
	err        error
	quitting   bool

	changes <-chan struct{}
	copy    func(string) error
	log     *zap.Logger
}

// New builds the view and its session over repo
func New(repo interact.Repository, opts Options) (*Model, error) {
	m := &Model{
		help:    help.New(),
		keys:    defaultKeyMap(),
		changes: opts.Changes,
		copy:    opts.Copy,
		log:     opts.Logger,
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	if m.copy == nil {
		m.copy = clipboard.WriteAll
	}
	if opts.Theme != nil {
		m.theme = *opts.Theme
	} else {
		m.theme = DefaultTheme(lipgloss.DefaultRenderer())
	}
	m.details = NewDetailsModel(m.theme)

	sessOpts := opts.Session
	sessOpts.OnSelect = m.openNote
	sessOpts.OnClose = func() { m.quitting = true }
	if sessOpts.Logger == nil {
		sessOpts.Logger = m.log
	}
	s, err := interact.NewSession(repo, sessOpts)
	if err != nil {
		return nil, err
	}
	m.session = s
	return m, nil
}

// Session exposes the underlying interaction state
func (m *Model) Session() *interact.Session { return m.session }

// Init starts listening for store changes
func (m *Model) Init() tea.Cmd {
	return m.waitForChange()
}

func (m *Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ch := m.changes
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

// Update handles a message
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case storeChangedMsg:
		m.log.Debug("store changed, reloading")
		m.setErr(m.session.Reload())
		m.syncDetails()
		return m, m.waitForChange()

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) helpHeight() int {
	if m.help.ShowAll {
		h := 0
		for _, col := range m.keys.FullHelp() {
			h = max(h, len(col))
		}
		return h
	}
	return 1
}

func (m *Model) detailsWidth() int {
	if m.width < MinWidthForDetails {
		return 0
	}
	return DetailsWidth
}

func (m *Model) resize() {
	rows := m.height - headerHeight - statusHeight - m.helpHeight()
	cols := m.width - m.detailsWidth()
	m.canvas.Resize(cols, rows)
	m.details.SetSize(m.detailsWidth(), max(rows, 0))
	m.help.Width = m.width
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	col, row := msg.X, msg.Y-headerHeight
	if !m.canvas.Contains(col, row) {
		if msg.Action != tea.MouseActionPress {
			m.session.PointerLeave()
		}
		return
	}
	x, y := CellToPixel(col, row)
	w, h := m.canvas.PixelSize()

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.session.Wheel(-1)
	case msg.Button == tea.MouseButtonWheelDown:
		m.session.Wheel(1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if m.linking {
			m.linking = false
			if id, ok := m.session.HitTest(x, y, w, h); ok {
				m.linkTo(id)
			} else {
				m.status = "link cancelled"
			}
			return
		}
		m.session.PointerDown(x, y, w, h)
		m.syncDetails()
	case msg.Action == tea.MouseActionMotion:
		m.session.PointerMove(x, y, w, h)
	case msg.Action == tea.MouseActionRelease:
		m.session.PointerUp()
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.noteView != nil {
		switch {
		case key.Matches(msg, m.keys.Cancel, m.keys.Open, m.keys.Quit):
			m.noteView = nil
		case key.Matches(msg, m.keys.Up):
			m.noteOffset = max(m.noteOffset-1, 0)
		case key.Matches(msg, m.keys.Down):
			m.noteOffset = min(m.noteOffset+1, max(len(m.noteView)-1, 0))
		}
		return nil
	}

	s := m.session
	switch {
	case key.Matches(msg, m.keys.Quit):
		s.Close()
		if m.quitting {
			return tea.Quit
		}
	case key.Matches(msg, m.keys.Cancel):
		if m.linking {
			m.linking = false
			m.status = "link cancelled"
		} else {
			s.ClearSelection()
			m.syncDetails()
		}
	case key.Matches(msg, m.keys.Force):
		s.SetStrategy(layout.Force)
	case key.Matches(msg, m.keys.Circular):
		s.SetStrategy(layout.Circular)
	case key.Matches(msg, m.keys.Grid):
		s.SetStrategy(layout.Grid)
	case key.Matches(msg, m.keys.Labels):
		s.ToggleLabels()
	case key.Matches(msg, m.keys.Connections):
		s.ToggleConnections()
	case key.Matches(msg, m.keys.Legend):
		s.ToggleLegend()
	case key.Matches(msg, m.keys.ZoomIn):
		s.ZoomIn()
	case key.Matches(msg, m.keys.ZoomOut):
		s.ZoomOut()
	case key.Matches(msg, m.keys.Reset):
		s.ResetView()
	case key.Matches(msg, m.keys.Focus):
		s.FocusSelected()
	case key.Matches(msg, m.keys.Filter):
		m.cycleFilter()
	case key.Matches(msg, m.keys.Open):
		s.Open()
	case key.Matches(msg, m.keys.Link):
		if s.Selected() != "" {
			m.linking = true
			m.status = "click the note to link to"
		}
	case key.Matches(msg, m.keys.Unlink):
		if id := m.details.SelectedConnectionID(); id != "" {
			if m.setErr(s.UnlinkSelected(id)) {
				m.status = "connection removed"
			}
			m.syncDetails()
		}
	case key.Matches(msg, m.keys.Up):
		m.details.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.details.MoveDown()
	case key.Matches(msg, m.keys.Copy):
		if id := s.Selected(); id != "" {
			if m.setErr(m.copy(id)) {
				m.status = "copied " + id
			}
		}
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
	}
	return nil
}

// cycleFilter steps through "all" and then each category in first-seen
// order
func (m *Model) cycleFilter() {
	options := append([]string{graph.AllCategories}, m.session.Categories()...)
	i := slices.Index(options, m.session.Filter())
	m.session.SetFilter(options[(i+1)%len(options)])
}

func (m *Model) linkTo(id string) {
	if m.setErr(m.session.LinkSelected(id)) {
		m.status = "linked to " + id
	}
	m.syncDetails()
}

// setErr records err for the status line and reports whether it was nil
func (m *Model) setErr(err error) bool {
	m.err = err
	if err != nil {
		m.status = ""
		m.log.Warn("graph view action failed", zap.Error(err))
		return false
	}
	return true
}

func (m *Model) syncDetails() {
	note, ok := m.session.SelectedNote()
	if !ok {
		m.details.Clear()
		return
	}
	m.details.SetNote(note, m.session.ConnectionsOf(note.ID))
}

// openNote shows the note's content rendered as markdown
func (m *Model) openNote(id string) {
	note, ok := m.session.SelectedNote()
	if !ok || note.ID != id {
		return
	}

	var md strings.Builder
	fmt.Fprintf(&md, "# %s\n\n", note.Title)
	meta := []string{"*" + note.Category + "*"}
	for _, t := range note.Tags {
		meta = append(meta, "`#"+t+"`")
	}
	md.WriteString(strings.Join(meta, " · ") + "\n\n")
	md.WriteString(note.Content + "\n")

	out := md.String()
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.theme.MarkdownStyle),
		glamour.WithWordWrap(max(m.width-4, 20)),
	)
	if err == nil {
		if rendered, rerr := r.Render(out); rerr == nil {
			out = rendered
		} else {
			m.log.Debug("markdown render failed", zap.Error(rerr))
		}
	}
	m.noteView = strings.Split(strings.TrimRight(out, "\n"), "\n")
	m.noteOffset = 0
}

// View renders the screen
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	t := m.theme

	header := m.header()

	var body string
	if m.noteView != nil {
		rows := m.height - headerHeight - statusHeight - m.helpHeight()
		end := min(m.noteOffset+max(rows, 0), len(m.noteView))
		body = t.Renderer.NewStyle().Height(max(rows, 0)).Render(strings.Join(m.noteView[m.noteOffset:end], "\n"))
	} else {
		m.session.Render(m.canvas.Context())
		body = m.canvas.View(t.Renderer)
		if w := m.detailsWidth(); w > 0 {
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.details.Render())
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.statusLine(), m.help.View(m.keys))
}

func (m *Model) header() string {
	t := m.theme
	s := m.session
	style := t.Renderer.NewStyle().Bold(true).Foreground(t.Primary)
	if m.linking {
		return style.Foreground(t.Highlight).Render(truncate("LINK: click the target note (esc cancels)", m.width, "…"))
	}
	text := fmt.Sprintf("notegraph · %s · filter: %s · zoom %d%% · %d notes",
		s.Strategy(), s.Filter(), s.Viewport().ZoomPercent(), len(s.Graph().Nodes))
	return style.Render(truncate(text, m.width, "…"))
}

func (m *Model) statusLine() string {
	t := m.theme
	if m.err != nil {
		return t.Renderer.NewStyle().Foreground(t.Error).Render(truncate("error: "+m.err.Error(), m.width, "…"))
	}
	return t.Renderer.NewStyle().Foreground(t.Secondary).Render(truncate(m.status, m.width, "…"))
}

// Run starts a full-screen program with mouse motion reporting
func Run(m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}
