// Package interact owns the graph view's state: the model built from the
// note repository, node positions, viewport, selection and display toggles.
// A Session is driven by sequential UI events and is not safe for
// concurrent use.
package interact

import (
	"fmt"
	"slices"

	"git.sr.ht/~sbinet/gg"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notegraph/notegraph/pkg/graph"
	"github.com/notegraph/notegraph/pkg/layout"
	"github.com/notegraph/notegraph/pkg/model"
	"github.com/notegraph/notegraph/pkg/render"
	"github.com/notegraph/notegraph/pkg/viewport"
)

// HitRadius is how close, in graph units, a pointer must be to a node's
// center to hit it. It does not change with zoom.
const HitRadius = 25.0

// Repository is the note store the session reads from and writes to
type Repository interface {
	GetAll() ([]model.Note, error)
	Update(id string, patch model.NotePatch) error
}

// Options configures a Session
type Options struct {
	Strategy        layout.Strategy
	Force           layout.ForceOptions
	Filter          string
	ShowLabels      bool
	ShowConnections bool
	ShowLegend      bool
	OnSelect        func(id string) // Open a note for editing
	OnClose         func()          // Leave the graph view
	Logger          *zap.Logger
}

// Session is the interaction and selection layer of the graph view
type Session struct {
	repo      Repository
	notes     []model.Note
	model     model.Graph
	positions *graph.PositionStore
	vp        *viewport.Viewport
	renderer  *render.Renderer

	strategy layout.Strategy
	force    layout.ForceOptions
	filter   graph.Filter

	selected string
	hovered  string
	dragged  string

	showLabels      bool
	showConnections bool
	showLegend      bool

	onSelect func(id string)
	onClose  func()
	log      *zap.Logger
}

// NewSession loads the notes and runs the initial layout
func NewSession(repo Repository, opts Options) (*Session, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	filter := graph.Filter(opts.Filter)
	if filter == "" {
		filter = graph.AllCategories
	}

	s := &Session{
		repo:            repo,
		positions:       graph.NewPositionStore(),
		vp:              viewport.New(),
		renderer:        render.NewRenderer(),
		strategy:        opts.Strategy,
		force:           opts.Force,
		filter:          filter,
		showLabels:      opts.ShowLabels,
		showConnections: opts.ShowConnections,
		showLegend:      opts.ShowLegend,
		onSelect:        opts.OnSelect,
		onClose:         opts.OnClose,
		log:             log,
	}

	notes, err := repo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}
	s.rebuild(notes)
	s.ApplyLayout()
	return s, nil
}

// Reload rebuilds the model from the repository's current notes. Positions
// survive the rebuild; the active layout is re-run only when the number of
// notes changed.
func (s *Session) Reload() error {
	notes, err := s.repo.GetAll()
	if err != nil {
		s.log.Warn("reload notes failed", zap.Error(err))
		return fmt.Errorf("load notes: %w", err)
	}
	countChanged := len(notes) != len(s.notes)
	s.rebuild(notes)
	if countChanged {
		s.ApplyLayout()
	}
	return nil
}

func (s *Session) rebuild(notes []model.Note) {
	s.notes = notes
	ids := make([]string, len(notes))
	for i, n := range notes {
		ids[i] = n.ID
	}
	s.positions.RebuildMissing(ids, func(i int) model.Point {
		return graph.CircularSeed(i, len(notes))
	})
	s.model = graph.Build(notes, s.positions)
	for _, id := range []*string{&s.selected, &s.hovered, &s.dragged} {
		if *id != "" && s.model.Node(*id) == nil {
			*id = ""
		}
	}
	s.log.Debug("graph rebuilt", zap.Int("nodes", len(s.model.Nodes)), zap.Int("edges", len(s.model.Edges)))
}

// Graph returns the current model
func (s *Session) Graph() model.Graph { return s.model }

// Notes returns the notes the model was built from
func (s *Session) Notes() []model.Note { return s.notes }

// Viewport exposes the pan/zoom controller
func (s *Session) Viewport() *viewport.Viewport { return s.vp }

// Position returns where a node currently sits
func (s *Session) Position(id string) (model.Point, bool) {
	if p, ok := s.positions.Get(id); ok {
		return p, true
	}
	if n := s.model.Node(id); n != nil {
		return n.Pos, true
	}
	return model.Point{}, false
}

func (s *Session) positionOf(n *model.GraphNode) model.Point {
	if p, ok := s.positions.Get(n.ID); ok {
		return p
	}
	return n.Pos
}

func (s *Session) visibleNodes() []model.GraphNode {
	return s.filter.Apply(s.model.Nodes)
}

// Layout

// Strategy returns the active layout strategy
func (s *Session) Strategy() layout.Strategy { return s.strategy }

// SetStrategy switches layout and runs it to completion
func (s *Session) SetStrategy(strategy layout.Strategy) {
	s.strategy = strategy
	s.ApplyLayout()
}

// ApplyLayout re-runs the active strategy from the current positions.
// Force places every node; circular and grid only the filtered ones.
func (s *Session) ApplyLayout() {
	in := layout.Input{
		Nodes:   s.model.Nodes,
		Visible: s.visibleNodes(),
		Edges:   s.model.Edges,
		Seed:    s.positions,
	}
	pos := layout.Compute(s.strategy, in, s.force)
	s.positions.SetAll(pos)
	s.log.Debug("layout applied", zap.Stringer("strategy", s.strategy), zap.Int("placed", len(pos)))
}

// Filter and toggles

// Filter returns the active category filter
func (s *Session) Filter() string { return string(s.filter) }

// SetFilter changes which categories are displayed. "all" shows everything.
func (s *Session) SetFilter(category string) {
	if category == "" {
		category = graph.AllCategories
	}
	s.filter = graph.Filter(category)
	if s.hovered != "" {
		if n := s.model.Node(s.hovered); n != nil && !s.filter.Match(n.Category) {
			s.hovered = ""
		}
	}
}

// Categories lists the categories of the loaded notes in first-seen order
func (s *Session) Categories() []string {
	return graph.Categories(s.notes)
}

func (s *Session) ShowLabels() bool      { return s.showLabels }
func (s *Session) ShowConnections() bool { return s.showConnections }
func (s *Session) ShowLegend() bool      { return s.showLegend }
func (s *Session) ToggleLabels()         { s.showLabels = !s.showLabels }
func (s *Session) ToggleConnections()    { s.showConnections = !s.showConnections }
func (s *Session) ToggleLegend()         { s.showLegend = !s.showLegend }

// Selection

// Selected returns the selected node ID, or ""
func (s *Session) Selected() string { return s.selected }

// Hovered returns the hovered node ID, or ""
func (s *Session) Hovered() string { return s.hovered }

// Dragged returns the node being dragged, or ""
func (s *Session) Dragged() string { return s.dragged }

// Select selects a node; unknown IDs clear the selection
func (s *Session) Select(id string) {
	if s.model.Node(id) == nil {
		id = ""
	}
	s.selected = id
}

// ClearSelection deselects the current node
func (s *Session) ClearSelection() { s.selected = "" }

// SelectedNote returns the note behind the selected node
func (s *Session) SelectedNote() (model.Note, bool) {
	return s.note(s.selected)
}

func (s *Session) note(id string) (model.Note, bool) {
	if id == "" {
		return model.Note{}, false
	}
	for _, n := range s.notes {
		if n.ID == id {
			return n, true
		}
	}
	return model.Note{}, false
}

// ConnectionsOf lists the notes id links to, skipping dangling references
func (s *Session) ConnectionsOf(id string) []model.Note {
	n, ok := s.note(id)
	if !ok {
		return nil
	}
	var out []model.Note
	for _, target := range n.Connections {
		if t, ok := s.note(target); ok {
			out = append(out, t)
		}
	}
	return out
}

// LinkCandidates lists every note except the selected one
func (s *Session) LinkCandidates() []model.Note {
	out := make([]model.Note, 0, len(s.notes))
	for _, n := range s.notes {
		if n.ID != s.selected {
			out = append(out, n)
		}
	}
	return out
}

// Open asks the surrounding UI to edit the selected note
func (s *Session) Open() {
	if s.selected != "" && s.onSelect != nil {
		s.onSelect(s.selected)
	}
}

// Close asks the surrounding UI to leave the graph view
func (s *Session) Close() {
	if s.onClose != nil {
		s.onClose()
	}
}

// FocusSelected centers the viewport on the selected node
func (s *Session) FocusSelected() {
	if p, ok := s.Position(s.selected); ok && s.selected != "" {
		s.vp.FocusOn(p)
	}
}

// Pointer handling. Coordinates are surface pixels; w and h are the
// surface size.

// HitTest returns the first visible node within HitRadius of the pointer
func (s *Session) HitTest(sx, sy, w, h float64) (string, bool) {
	p := s.vp.ScreenToGraph(sx, sy, w, h)
	nodes := s.visibleNodes()
	for i := range nodes {
		if r2.Norm(r2.Sub(s.positionOf(&nodes[i]), p)) < HitRadius {
			return nodes[i].ID, true
		}
	}
	return "", false
}

// PointerDown selects and starts dragging a hit node, or starts panning and
// clears the selection
func (s *Session) PointerDown(sx, sy, w, h float64) {
	if id, ok := s.HitTest(sx, sy, w, h); ok {
		s.selected = id
		s.dragged = id
		return
	}
	s.selected = ""
	s.vp.BeginPan(sx, sy)
}

// PointerMove drags, pans, or updates the hovered node
func (s *Session) PointerMove(sx, sy, w, h float64) {
	switch {
	case s.dragged != "":
		s.positions.Set(s.dragged, s.vp.ScreenToGraph(sx, sy, w, h))
	case s.vp.Panning():
		s.vp.PanTo(sx, sy)
	default:
		s.hovered, _ = s.HitTest(sx, sy, w, h)
	}
}

// PointerUp ends any drag or pan; the selection stays
func (s *Session) PointerUp() {
	s.dragged = ""
	s.vp.EndPan()
}

// PointerLeave behaves like PointerUp
func (s *Session) PointerLeave() { s.PointerUp() }

// Wheel zooms by one wheel notch
func (s *Session) Wheel(deltaY float64) { s.vp.Wheel(deltaY) }

func (s *Session) ZoomIn()    { s.vp.ZoomIn() }
func (s *Session) ZoomOut()   { s.vp.ZoomOut() }
func (s *Session) ResetView() { s.vp.Reset() }

// Connection editing

// AddConnection appends to to from's connections. Self links, unknown
// sources and existing links are silently ignored.
func (s *Session) AddConnection(from, to string) error {
	if from == to {
		return nil
	}
	note, ok, err := s.fresh(from)
	if err != nil || !ok {
		return err
	}
	if note.HasConnection(to) {
		return nil
	}
	conns := append(slices.Clone(note.Connections), to)
	return s.update(from, conns, "connection added", to)
}

// RemoveConnection drops to from from's connections
func (s *Session) RemoveConnection(from, to string) error {
	note, ok, err := s.fresh(from)
	if err != nil || !ok {
		return err
	}
	conns := slices.DeleteFunc(slices.Clone(note.Connections), func(id string) bool { return id == to })
	return s.update(from, conns, "connection removed", to)
}

// LinkSelected connects the selected note to to
func (s *Session) LinkSelected(to string) error {
	if s.selected == "" {
		return nil
	}
	return s.AddConnection(s.selected, to)
}

// UnlinkSelected removes the selected note's link to to
func (s *Session) UnlinkSelected(to string) error {
	if s.selected == "" {
		return nil
	}
	return s.RemoveConnection(s.selected, to)
}

// fresh reads a note straight from the repository so edits never build on
// a stale copy
func (s *Session) fresh(id string) (model.Note, bool, error) {
	notes, err := s.repo.GetAll()
	if err != nil {
		return model.Note{}, false, fmt.Errorf("load notes: %w", err)
	}
	for _, n := range notes {
		if n.ID == id {
			return n, true, nil
		}
	}
	return model.Note{}, false, nil
}

func (s *Session) update(id string, conns []string, msg, target string) error {
	if err := s.repo.Update(id, model.ConnectionsPatch(conns)); err != nil {
		s.log.Warn("update connections failed", zap.String("note", id), zap.Error(err))
		return fmt.Errorf("update note %s: %w", id, err)
	}
	s.log.Info(msg, zap.String("from", id), zap.String("to", target))
	return s.Reload()
}

// Rendering

// Scene snapshots what the next frame should draw. Edges are kept only when
// both endpoints pass the filter.
func (s *Session) Scene() render.Scene {
	nodes, edges := render.Project(s.visibleNodes(), s.model.Edges, s.positionOf)
	return render.Scene{
		Nodes:           nodes,
		Edges:           edges,
		Selected:        s.selected,
		Hovered:         s.hovered,
		ShowLabels:      s.showLabels,
		ShowConnections: s.showConnections,
		ShowLegend:      s.showLegend,
		Categories:      s.Categories(),
	}
}

// Render redraws the whole surface. It reports false when there is no
// surface to draw on; the next state change simply tries again.
func (s *Session) Render(dc *gg.Context) bool {
	return s.renderer.Render(dc, s.Scene(), s.vp)
}
