package render

import (
	"github.com/notegraph/notegraph/pkg/model"
)

const (
	// NodeRadius is the drawn radius of an idle node, in graph units
	NodeRadius     = 25.0
	HoveredRadius  = 30.0
	SelectedRadius = 35.0

	// LabelMaxRunes is how much of a title a label shows
	LabelMaxRunes = 20
	// LabelOffset is the distance from a node's center to its label baseline
	LabelOffset = 50.0
)

// SceneNode is a node as it should be drawn
type SceneNode struct {
	ID       string
	Title    string
	Category string
	Pos      model.Point
}

// SceneEdge is a straight segment between two resolved endpoints
type SceneEdge struct {
	From, To model.Point
	Strength float64
}

// Scene is an immutable snapshot of everything a frame draws
type Scene struct {
	Nodes           []SceneNode
	Edges           []SceneEdge
	Selected        string
	Hovered         string
	ShowLabels      bool
	ShowConnections bool
	ShowLegend      bool
	Categories      []string
}

// Project resolves visible nodes through pos and keeps only the edges whose
// endpoints are both visible
func Project(visible []model.GraphNode, edges []model.GraphEdge, pos func(*model.GraphNode) model.Point) ([]SceneNode, []SceneEdge) {
	at := make(map[string]model.Point, len(visible))
	nodes := make([]SceneNode, 0, len(visible))
	for i := range visible {
		n := &visible[i]
		p := pos(n)
		at[n.ID] = p
		nodes = append(nodes, SceneNode{ID: n.ID, Title: n.Title, Category: n.Category, Pos: p})
	}

	var out []SceneEdge
	for _, e := range edges {
		from, ok1 := at[e.Source]
		to, ok2 := at[e.Target]
		if ok1 && ok2 {
			out = append(out, SceneEdge{From: from, To: to, Strength: e.Strength})
		}
	}
	return nodes, out
}

// Contains reports whether id is one of the scene's nodes
func (s *Scene) Contains(id string) bool {
	for i := range s.Nodes {
		if s.Nodes[i].ID == id {
			return true
		}
	}
	return false
}

// Radius returns the drawn radius of a node. Selected wins over hovered.
func (s *Scene) Radius(id string) float64 {
	switch {
	case id != "" && id == s.Selected:
		return SelectedRadius
	case id != "" && id == s.Hovered:
		return HoveredRadius
	default:
		return NodeRadius
	}
}

// Labelled reports whether a node's title should be drawn
func (s *Scene) Labelled(id string) bool {
	return s.ShowLabels && id != "" && (id == s.Selected || id == s.Hovered)
}

// truncateLabel keeps the first LabelMaxRunes runes of a title
func truncateLabel(title string) string {
	runes := []rune(title)
	if len(runes) > LabelMaxRunes {
		return string(runes[:LabelMaxRunes])
	}
	return title
}
