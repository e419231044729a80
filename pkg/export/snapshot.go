package export

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/notegraph/notegraph/pkg/graph"
	"github.com/notegraph/notegraph/pkg/layout"
	"github.com/notegraph/notegraph/pkg/model"
	"github.com/notegraph/notegraph/pkg/render"
	"github.com/notegraph/notegraph/pkg/viewport"
)

// SnapshotOptions configures a static PNG/SVG rendering of the note graph
type SnapshotOptions struct {
	Strategy        layout.Strategy
	Force           layout.ForceOptions
	Filter          string
	Selected        string // Highlighted and labelled, if set
	ShowLabels      bool
	ShowConnections bool
	ShowLegend      bool
	Width, Height   int
	PNGPath         string // Skipped when empty
	SVGPath         string // Skipped when empty
	Logger          *zap.Logger
}

// BuildScene lays out notes from their circular seeds and snapshots the
// result the way the interactive view would draw it
func BuildScene(ctx context.Context, notes []model.Note, opts SnapshotOptions) (render.Scene, error) {
	g := graph.Build(notes, nil)
	filter := graph.Filter(opts.Filter)
	visible := filter.Apply(g.Nodes)

	pos, err := layout.ComputeContext(ctx, opts.Strategy, layout.Input{
		Nodes:   g.Nodes,
		Visible: visible,
		Edges:   g.Edges,
	}, opts.Force)
	if err != nil {
		return render.Scene{}, fmt.Errorf("compute layout: %w", err)
	}

	nodes, edges := render.Project(visible, g.Edges, func(n *model.GraphNode) model.Point {
		if p, ok := pos[n.ID]; ok {
			return p
		}
		return n.Pos
	})

	scene := render.Scene{
		Nodes:           nodes,
		Edges:           edges,
		Selected:        opts.Selected,
		ShowLabels:      opts.ShowLabels,
		ShowConnections: opts.ShowConnections,
		ShowLegend:      opts.ShowLegend,
		Categories:      graph.Categories(notes),
	}
	if !scene.Contains(scene.Selected) {
		scene.Selected = ""
	}
	return scene, nil
}

// SaveSnapshot renders notes to the configured PNG and SVG paths. Both
// formats are written concurrently from the same scene.
func SaveSnapshot(ctx context.Context, notes []model.Note, opts SnapshotOptions) error {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.PNGPath == "" && opts.SVGPath == "" {
		return errors.New("no snapshot output requested")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("invalid snapshot size %dx%d", opts.Width, opts.Height)
	}

	scene, err := BuildScene(ctx, notes, opts)
	if err != nil {
		return err
	}
	vp := viewport.New()
	if opts.Selected != "" {
		for _, n := range scene.Nodes {
			if n.ID == scene.Selected {
				vp.FocusOn(n.Pos)
			}
		}
	}

	g, _ := errgroup.WithContext(ctx)
	if opts.PNGPath != "" {
		g.Go(func() error {
			return writeFile(opts.PNGPath, func(f *os.File) error {
				return render.NewRenderer().RenderPNG(f, scene, vp, opts.Width, opts.Height)
			})
		})
	}
	if opts.SVGPath != "" {
		g.Go(func() error {
			return writeFile(opts.SVGPath, func(f *os.File) error {
				return render.RenderSVG(f, scene, vp, float64(opts.Width), float64(opts.Height))
			})
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("snapshot written",
		zap.String("png", opts.PNGPath),
		zap.String("svg", opts.SVGPath),
		zap.Int("nodes", len(scene.Nodes)),
		zap.Int("edges", len(scene.Edges)),
	)
	return nil
}

func writeFile(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
