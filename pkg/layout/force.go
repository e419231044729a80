package layout

import (
	"context"
	"math"

	"github.com/notegraph/notegraph/pkg/model"
	"gonum.org/v1/gonum/spatial/r2"
)

// ForceOptions configures the force simulation
type ForceOptions struct {
	Iterations int     // Number of simulation iterations (default 50)
	Repulsion  float64 // Node repulsion strength (default 5000)
	Attraction float64 // Edge attraction strength (default 0.01)
	TimeStep   float64 // Fraction of the force applied per iteration (default 0.1)
}

// DefaultForceOptions returns the standard simulation parameters
func DefaultForceOptions() ForceOptions {
	return ForceOptions{}.withDefaults()
}

func (o ForceOptions) withDefaults() ForceOptions {
	if o.Iterations == 0 {
		o.Iterations = 50
	}
	if o.Repulsion == 0 {
		o.Repulsion = 5000
	}
	if o.Attraction == 0 {
		o.Attraction = 0.01
	}
	if o.TimeStep == 0 {
		o.TimeStep = 0.1
	}
	return o
}

// ForceLayout runs a fixed number of force-directed iterations over every
// node, starting from the seeded positions so that repeated runs refine the
// previous layout instead of restarting it. There is no convergence check.
//
// Within an iteration all forces are computed from the previous iteration's
// positions and applied together afterwards.
func ForceLayout(ctx context.Context, nodes []model.GraphNode, edges []model.GraphEdge, seed Seeder, opts ForceOptions) (Positions, error) {
	opts = opts.withDefaults()
	if len(nodes) == 0 {
		return Positions{}, nil
	}

	index := make(map[string]int, len(nodes))
	pos := make([]r2.Vec, len(nodes))
	for i, n := range nodes {
		index[n.ID] = i
		pos[i] = n.Pos
		if seed != nil {
			if p, ok := seed.Get(n.ID); ok {
				pos[i] = p
			}
		}
	}

	// Attraction is directed: a node is pulled toward its out-neighbors only,
	// never by its in-edges.
	type outEdge struct {
		to       int
		strength float64
	}
	out := make([][]outEdge, len(nodes))
	for _, e := range edges {
		from, ok1 := index[e.Source]
		to, ok2 := index[e.Target]
		if !ok1 || !ok2 {
			continue
		}
		out[from] = append(out[from], outEdge{to: to, strength: e.Strength})
	}

	force := make([]r2.Vec, len(nodes))
	for iter := 0; iter < opts.Iterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for i := range nodes {
			var f r2.Vec

			// Repulsive force (Coulomb's law)
			for j := range nodes {
				if i == j {
					continue
				}
				d := r2.Sub(pos[i], pos[j])
				dist := math.Max(r2.Norm(d), 1)
				f = r2.Add(f, r2.Scale(opts.Repulsion/(dist*dist*dist), d))
			}

			// Attractive force (Hooke's law)
			for _, oe := range out[i] {
				d := r2.Sub(pos[oe.to], pos[i])
				f = r2.Add(f, r2.Scale(opts.Attraction*oe.strength, d))
			}

			force[i] = f
		}

		for i := range pos {
			pos[i] = r2.Add(pos[i], r2.Scale(opts.TimeStep, force[i]))
		}
	}

	result := make(Positions, len(nodes))
	for i, n := range nodes {
		result[n.ID] = pos[i]
	}
	return result, nil
}
