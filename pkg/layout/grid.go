package layout

import (
	"math"

	"github.com/notegraph/notegraph/pkg/model"
)

// GridSpacing is the distance between neighbouring grid cells
const GridSpacing = 150.0

// GridLayout places nodes row by row in a roughly square grid centered on
// the origin.
func GridLayout(nodes []model.GraphNode) Positions {
	positions := make(Positions, len(nodes))
	n := len(nodes)
	if n == 0 {
		return positions
	}

	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := math.Ceil(float64(n) / float64(cols))
	for i, node := range nodes {
		row := i / cols
		col := i % cols
		positions[node.ID] = model.Point{
			X: (float64(col) - float64(cols)/2) * GridSpacing,
			Y: (float64(row) - rows/2) * GridSpacing,
		}
	}
	return positions
}
