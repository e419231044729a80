package graph

import "github.com/notegraph/notegraph/pkg/model"

// AllCategories is the filter value that lets every node through
const AllCategories = "all"

// Filter is the display-only category predicate. It never changes the model,
// only which nodes take part in circular/grid layouts and rendering.
type Filter string

// Match reports whether a node with the given category passes the filter
func (f Filter) Match(category string) bool {
	return f == AllCategories || f == "" || string(f) == category
}

// Apply returns the nodes that pass the filter, in model order
func (f Filter) Apply(nodes []model.GraphNode) []model.GraphNode {
	if f == AllCategories || f == "" {
		return nodes
	}
	out := make([]model.GraphNode, 0, len(nodes))
	for _, n := range nodes {
		if f.Match(n.Category) {
			out = append(out, n)
		}
	}
	return out
}

// Categories lists the distinct categories of notes in first-seen order
func Categories(notes []model.Note) []string {
	seen := make(map[string]bool)
	var cats []string
	for _, n := range notes {
		if !seen[n.Category] {
			seen[n.Category] = true
			cats = append(cats, n.Category)
		}
	}
	return cats
}
