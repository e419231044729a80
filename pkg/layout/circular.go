package layout

import (
	"math"

	"github.com/notegraph/notegraph/pkg/model"
)

// CircularRadius is the radius of the circular layout
const CircularRadius = 250.0

// CircularLayout arranges nodes evenly on a circle in the given order.
// Previous positions are ignored.
func CircularLayout(nodes []model.GraphNode) Positions {
	positions := make(Positions, len(nodes))
	if len(nodes) == 0 {
		return positions
	}

	angleStep := 2 * math.Pi / float64(len(nodes))
	for i, n := range nodes {
		angle := float64(i) * angleStep
		positions[n.ID] = model.Point{
			X: math.Cos(angle) * CircularRadius,
			Y: math.Sin(angle) * CircularRadius,
		}
	}
	return positions
}
