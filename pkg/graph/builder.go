package graph

import (
	"math"

	"github.com/notegraph/notegraph/pkg/model"
)

// SeedRadius is the radius of the circle new nodes start on
const SeedRadius = 200.0

// CircularSeed returns the default position of node index out of n
func CircularSeed(index, n int) model.Point {
	angle := float64(index) / float64(n) * 2 * math.Pi
	return model.Point{X: math.Cos(angle) * SeedRadius, Y: math.Sin(angle) * SeedRadius}
}

type edgeKey struct {
	source, target string
}

// Build turns notes into the graph model. It has no hidden state: the result
// depends only on notes and on the positions remembered in positions, which
// may be nil.
//
// Edges come in two kinds. Explicit edges follow note.Connections and carry
// strength 1; links to unknown notes or to the note itself are dropped.
// Implicit edges join notes that share tags, with strength
// shared/max(|a.Tags|, |b.Tags|) over distinct tags. An implicit edge is
// skipped only when an explicit edge exists for the same ordered pair, so an
// explicit A->B and an implicit B->A can both be present.
func Build(notes []model.Note, positions PositionSource) model.Graph {
	exists := make(map[string]bool, len(notes))
	for _, n := range notes {
		exists[n.ID] = true
	}

	nodes := make([]model.GraphNode, 0, len(notes))
	for i, n := range notes {
		pos := CircularSeed(i, len(notes))
		if positions != nil {
			if p, ok := positions.Get(n.ID); ok {
				pos = p
			}
		}
		nodes = append(nodes, model.GraphNode{
			ID:          n.ID,
			Title:       n.Title,
			Category:    n.Category,
			Tags:        n.Tags,
			Connections: n.Connections,
			Pos:         pos,
		})
	}

	var edges []model.GraphEdge
	seen := make(map[edgeKey]bool)
	for _, n := range notes {
		for _, target := range n.Connections {
			if target == n.ID || !exists[target] {
				continue
			}
			k := edgeKey{n.ID, target}
			if seen[k] {
				continue
			}
			seen[k] = true
			edges = append(edges, model.GraphEdge{Source: n.ID, Target: target, Strength: 1, Explicit: true})
		}

		if len(n.Tags) == 0 {
			continue
		}
		for _, other := range notes {
			if other.ID == n.ID || len(other.Tags) == 0 {
				continue
			}
			k := edgeKey{n.ID, other.ID}
			if seen[k] {
				continue
			}
			shared := sharedTags(n.Tags, other.Tags)
			if shared == 0 {
				continue
			}
			seen[k] = true
			edges = append(edges, model.GraphEdge{
				Source:   n.ID,
				Target:   other.ID,
				Strength: float64(shared) / float64(max(distinctTags(n.Tags), distinctTags(other.Tags))),
			})
		}
	}

	return model.Graph{Nodes: nodes, Edges: edges}
}

// sharedTags counts the distinct tags of a that also appear in b
func sharedTags(a, b []string) int {
	inB := make(map[string]bool, len(b))
	for _, t := range b {
		inB[t] = true
	}
	count := 0
	counted := make(map[string]bool, len(a))
	for _, t := range a {
		if inB[t] && !counted[t] {
			counted[t] = true
			count++
		}
	}
	return count
}

func distinctTags(tags []string) int {
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		set[t] = true
	}
	return len(set)
}
