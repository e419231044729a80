package layout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/notegraph/notegraph/pkg/model"
)

// Strategy selects the layout algorithm
type Strategy int

const (
	Force Strategy = iota
	Circular
	Grid
)

// ErrUnknownStrategy is returned by ParseStrategy for unrecognized names
var ErrUnknownStrategy = errors.New("unknown layout strategy")

// Strategies lists every strategy in selector order
var Strategies = []Strategy{Force, Circular, Grid}

func (s Strategy) String() string {
	switch s {
	case Force:
		return "force"
	case Circular:
		return "circular"
	case Grid:
		return "grid"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy accepts "force", "circular" or "grid", case-insensitively
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "force", "":
		return Force, nil
	case "circular":
		return Circular, nil
	case "grid":
		return Grid, nil
	default:
		return Force, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// Positions maps node IDs to graph-space coordinates
type Positions map[string]model.Point

// Seeder supplies a node's previous position
type Seeder interface {
	Get(id string) (model.Point, bool)
}

// Input is everything a layout may read. Force uses Nodes and Edges;
// circular and grid place only Visible.
type Input struct {
	Nodes   []model.GraphNode
	Visible []model.GraphNode
	Edges   []model.GraphEdge
	Seed    Seeder // May be nil
}

// Compute runs the strategy to completion and returns the positions it
// assigned. Nodes it did not place are absent from the result.
func Compute(s Strategy, in Input, opts ForceOptions) Positions {
	pos, _ := ComputeContext(context.Background(), s, in, opts)
	return pos
}

// ComputeContext is Compute with cancellation between force iterations.
// When ctx is never cancelled the result is identical to Compute.
func ComputeContext(ctx context.Context, s Strategy, in Input, opts ForceOptions) (Positions, error) {
	switch s {
	case Circular:
		return CircularLayout(in.Visible), nil
	case Grid:
		return GridLayout(in.Visible), nil
	default:
		return ForceLayout(ctx, in.Nodes, in.Edges, in.Seed, opts)
	}
}
