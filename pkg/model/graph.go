package model

import "gonum.org/v1/gonum/spatial/r2"

// Point is a graph-space coordinate
type Point = r2.Vec

// GraphNode is the visualization form of a note
type GraphNode struct {
	ID          string
	Title       string
	Category    string
	Tags        []string
	Connections []string
	Pos         Point // Cached position, or the circular seed when none was cached
}

// GraphEdge is a directed link between two nodes
type GraphEdge struct {
	Source   string
	Target   string
	Strength float64 // In (0, 1]
	Explicit bool    // Stored on the source note rather than inferred from tags
}

// Graph is the derived node/edge model. It has no identity of its own and
// is rebuilt whenever the note list changes.
type Graph struct {
	Nodes []GraphNode
	Edges []GraphEdge
}

// Node finds a node by ID
func (g Graph) Node(id string) *GraphNode {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}
