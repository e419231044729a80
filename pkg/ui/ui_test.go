package ui_test

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/notegraph/notegraph/pkg/interact"
	"github.com/notegraph/notegraph/pkg/layout"
	"github.com/notegraph/notegraph/pkg/model"
	"github.com/notegraph/notegraph/pkg/ui"
)

type memRepo struct {
	notes []model.Note
}

func (r *memRepo) GetAll() ([]model.Note, error) {
	out := make([]model.Note, len(r.notes))
	for i, n := range r.notes {
		n.Connections = slices.Clone(n.Connections)
		out[i] = n
	}
	return out, nil
}

func (r *memRepo) Update(id string, patch model.NotePatch) error {
	for i := range r.notes {
		if r.notes[i].ID == id {
			patch.Apply(&r.notes[i], time.Now())
			return nil
		}
	}
	return fmt.Errorf("note %s not found", id)
}

func testTheme() *ui.Theme {
	th := ui.DefaultTheme(lipgloss.NewRenderer(io.Discard))
	th.MarkdownStyle = "notty"
	return &th
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// newModel sizes the view to 100x30: a 66x27 cell canvas (528x432 px)
// next to the details panel.
func newModel(t *testing.T, repo *memRepo, strategy layout.Strategy) *ui.Model {
	t.Helper()
	m, err := ui.New(repo, ui.Options{
		Session: interact.Options{Strategy: strategy, ShowLabels: true, ShowConnections: true},
		Theme:   testTheme(),
		Copy:    func(string) error { return nil },
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func click(m *ui.Model, x, y int) {
	m.Update(tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	m.Update(tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})
}

func TestCellPixelMapping(t *testing.T) {
	x, y := ui.CellToPixel(0, 0)
	if x != 4 || y != 8 {
		t.Errorf("Expected (4, 8), got (%v, %v)", x, y)
	}
	x, y = ui.CellToPixel(64, 13)
	if x != 516 || y != 216 {
		t.Errorf("Expected (516, 216), got (%v, %v)", x, y)
	}
}

func TestCanvasView(t *testing.T) {
	var c ui.Canvas
	if c.View(lipgloss.NewRenderer(io.Discard)) != "" {
		t.Error("Expected empty view before resize")
	}
	c.Resize(5, 3)
	w, h := c.PixelSize()
	if w != 40 || h != 48 {
		t.Errorf("Expected 40x48 px, got %vx%v", w, h)
	}
	view := c.View(lipgloss.NewRenderer(io.Discard))
	lines := strings.Split(view, "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(lines))
	}
	if lines[0] != "▀▀▀▀▀" {
		t.Errorf("Expected a row of half blocks, got %q", lines[0])
	}
	if c.Contains(5, 0) || !c.Contains(4, 2) {
		t.Error("Expected containment to follow the cell grid")
	}
}

func TestClickSelectsNode(t *testing.T) {
	repo := &memRepo{notes: []model.Note{{ID: "x", Title: "Only note", Category: "projets"}}}
	m := newModel(t, repo, layout.Circular)

	// (250, 0) in graph space sits at pixel (514, 216): cell (64, 13), one
	// header line above the canvas.
	click(m, 64, 14)
	if got := m.Session().Selected(); got != "x" {
		t.Fatalf("Expected x selected, got %q", got)
	}
	if !strings.Contains(m.View(), "Only note") {
		t.Error("Expected details panel to show the selected note")
	}

	click(m, 10, 5)
	if got := m.Session().Selected(); got != "" {
		t.Errorf("Expected background click to clear selection, got %q", got)
	}
}

func TestWheelZooms(t *testing.T) {
	m := newModel(t, &memRepo{}, layout.Grid)

	m.Update(tea.MouseMsg{X: 10, Y: 10, Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	if z := m.Session().Viewport().Zoom(); z < 1.09 || z > 1.11 {
		t.Errorf("Expected zoom 1.1, got %v", z)
	}
	if !strings.Contains(m.View(), "zoom 110%") {
		t.Error("Expected header to show the zoom percentage")
	}
}

func TestKeysSwitchLayoutAndToggles(t *testing.T) {
	m := newModel(t, &memRepo{notes: []model.Note{{ID: "a"}, {ID: "b"}}}, layout.Force)

	m.Update(runes("g"))
	if m.Session().Strategy() != layout.Grid {
		t.Errorf("Expected grid, got %v", m.Session().Strategy())
	}
	m.Update(runes("c"))
	if m.Session().Strategy() != layout.Circular {
		t.Errorf("Expected circular, got %v", m.Session().Strategy())
	}
	m.Update(runes("l"))
	if m.Session().ShowLabels() {
		t.Error("Expected labels toggled off")
	}
	m.Update(runes("e"))
	if m.Session().ShowConnections() {
		t.Error("Expected connections toggled off")
	}
	m.Update(runes("+"))
	m.Update(runes("0"))
	if m.Session().Viewport().Zoom() != 1 {
		t.Error("Expected reset to zoom 1")
	}
}

func TestFilterCycle(t *testing.T) {
	repo := &memRepo{notes: []model.Note{
		{ID: "a", Category: "travail"},
		{ID: "b", Category: "idées"},
	}}
	m := newModel(t, repo, layout.Grid)

	want := []string{"travail", "idées", "all"}
	for _, w := range want {
		m.Update(tea.KeyMsg{Type: tea.KeyTab})
		if got := m.Session().Filter(); got != w {
			t.Errorf("Expected filter %q, got %q", w, got)
		}
	}
}

func TestLinkModeAndUnlink(t *testing.T) {
	repo := &memRepo{notes: []model.Note{{ID: "a", Title: "A"}, {ID: "x", Title: "X"}}}
	m := newModel(t, repo, layout.Circular)

	// Circular with two notes: a at (250, 0), x at (-250, 0) -> pixel 14.
	m.Session().Select("a")
	m.Update(runes("a"))
	click(m, 1, 14)

	if !slices.Equal(repo.notes[0].Connections, []string{"x"}) {
		t.Fatalf("Expected a linked to x, got %v", repo.notes[0].Connections)
	}
	if !strings.Contains(m.View(), "linked to x") {
		t.Error("Expected status to confirm the link")
	}

	m.Update(runes("x"))
	if len(repo.notes[0].Connections) != 0 {
		t.Errorf("Expected link removed, got %v", repo.notes[0].Connections)
	}
}

func TestLinkModeCancel(t *testing.T) {
	repo := &memRepo{notes: []model.Note{{ID: "a"}, {ID: "b"}}}
	m := newModel(t, repo, layout.Circular)

	m.Session().Select("a")
	m.Update(runes("a"))
	if !strings.Contains(m.View(), "LINK") {
		t.Fatal("Expected link mode header")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if strings.Contains(m.View(), "LINK") {
		t.Error("Expected link mode to end")
	}
	if m.Session().Selected() != "a" {
		t.Error("Expected selection kept when cancelling link mode")
	}
}

func TestOpenShowsNote(t *testing.T) {
	repo := &memRepo{notes: []model.Note{{ID: "a", Title: "Readme", Content: "Hello world", Category: "idées"}}}
	m := newModel(t, repo, layout.Grid)

	m.Session().Select("a")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	view := m.View()
	if !strings.Contains(view, "Hello world") {
		t.Errorf("Expected note content in view, got %q", view)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if strings.Contains(m.View(), "Hello world") {
		t.Error("Expected note view closed")
	}
}

func TestCopyID(t *testing.T) {
	var copied string
	m, err := ui.New(&memRepo{notes: []model.Note{{ID: "a"}}}, ui.Options{
		Theme: testTheme(),
		Copy: func(s string) error {
			copied = s
			return nil
		},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	m.Session().Select("a")
	m.Update(runes("y"))
	if copied != "a" {
		t.Errorf("Expected a copied, got %q", copied)
	}
}

func TestCopyErrorShown(t *testing.T) {
	m, err := ui.New(&memRepo{notes: []model.Note{{ID: "a"}}}, ui.Options{
		Theme: testTheme(),
		Copy:  func(string) error { return errors.New("no clipboard") },
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Session().Select("a")
	m.Update(runes("y"))
	if !strings.Contains(m.View(), "error: no clipboard") {
		t.Error("Expected the error in the status line")
	}
}

func TestQuit(t *testing.T) {
	m := newModel(t, &memRepo{}, layout.Grid)
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("Expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}
}

func TestStoreChangeReloads(t *testing.T) {
	changes := make(chan struct{}, 1)
	repo := &memRepo{notes: []model.Note{{ID: "a"}}}
	m, err := ui.New(repo, ui.Options{Theme: testTheme(), Changes: changes})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	repo.notes = append(repo.notes, model.Note{ID: "b"})
	changes <- struct{}{}
	msg := m.Init()()
	_, next := m.Update(msg)

	if n := len(m.Session().Graph().Nodes); n != 2 {
		t.Errorf("Expected 2 nodes after reload, got %d", n)
	}
	if next == nil {
		t.Error("Expected to keep listening for changes")
	}
}

func TestDetailsNavigation(t *testing.T) {
	d := ui.NewDetailsModel(*testTheme())
	d.SetSize(34, 20)
	if !strings.Contains(d.Render(), "Click a note") {
		t.Error("Expected placeholder without a note")
	}

	conns := []model.Note{{ID: "b", Title: "B"}, {ID: "c", Title: "C"}, {ID: "d", Title: "D"}}
	d.SetNote(model.Note{ID: "a", Title: "A", Tags: []string{"go"}}, conns)

	if d.SelectedConnectionID() != "b" {
		t.Errorf("Expected b highlighted, got %q", d.SelectedConnectionID())
	}
	d.MoveUp()
	if d.SelectedConnectionID() != "b" {
		t.Error("Expected highlight to stop at the top")
	}
	d.MoveDown()
	d.MoveDown()
	d.MoveDown()
	if d.SelectedConnectionID() != "d" {
		t.Errorf("Expected highlight to stop at d, got %q", d.SelectedConnectionID())
	}

	// Same note, c removed: highlight stays on d
	d.SetNote(model.Note{ID: "a", Title: "A"}, []model.Note{conns[0], conns[2]})
	if d.SelectedConnectionID() != "d" {
		t.Errorf("Expected d kept, got %q", d.SelectedConnectionID())
	}

	out := d.Render()
	for _, want := range []string{"A", "CONNECTIONS (2)", "▸ └─ D"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in panel, got %q", want, out)
		}
	}

	d.SetNote(model.Note{ID: "z"}, nil)
	if d.SelectedConnectionID() != "" {
		t.Error("Expected no highlight without connections")
	}
	if !strings.Contains(d.Render(), "none") {
		t.Error("Expected empty connection list marker")
	}
}
