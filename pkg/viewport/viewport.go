// Package viewport holds the pan/zoom state that maps graph-space
// coordinates onto a surface of a given pixel size.
package viewport

import (
	"math"

	"github.com/notegraph/notegraph/pkg/model"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	MinZoom = 0.1
	MaxZoom = 3.0

	// ZoomStep is the additive step used by the zoom buttons
	ZoomStep = 0.1

	wheelOut = 0.9
	wheelIn  = 1.1
)

// Transform is the affine map from graph space to surface pixels:
// screen = (w/2 + pan) + zoom*graph.
type Transform struct {
	OffsetX, OffsetY float64
	Scale            float64
}

// Apply maps a graph point to surface pixels
func (t Transform) Apply(p model.Point) model.Point {
	return model.Point{X: t.OffsetX + p.X*t.Scale, Y: t.OffsetY + p.Y*t.Scale}
}

// Viewport is the pan/zoom controller. The zero value is not ready; use New.
type Viewport struct {
	zoom    float64
	pan     r2.Vec
	anchor  r2.Vec
	panning bool
}

// New returns a viewport at zoom 1 with no pan
func New() *Viewport {
	return &Viewport{zoom: 1}
}

// Zoom returns the current zoom factor
func (v *Viewport) Zoom() float64 { return v.zoom }

// Pan returns the current pixel offset
func (v *Viewport) Pan() model.Point { return v.pan }

// ZoomPercent is the zoom rounded for display, e.g. 110
func (v *Viewport) ZoomPercent() int {
	return int(math.Round(v.zoom * 100))
}

// Transform returns the render transform for a surface of w×h pixels
func (v *Viewport) Transform(w, h float64) Transform {
	return Transform{
		OffsetX: w/2 + v.pan.X,
		OffsetY: h/2 + v.pan.Y,
		Scale:   v.zoom,
	}
}

// ScreenToGraph inverts the render transform
func (v *Viewport) ScreenToGraph(sx, sy, w, h float64) model.Point {
	return model.Point{
		X: (sx - w/2 - v.pan.X) / v.zoom,
		Y: (sy - h/2 - v.pan.Y) / v.zoom,
	}
}

// GraphToScreen applies the render transform
func (v *Viewport) GraphToScreen(p model.Point, w, h float64) model.Point {
	return v.Transform(w, h).Apply(p)
}

// BeginPan starts a background drag; the anchor stays fixed until EndPan
func (v *Viewport) BeginPan(sx, sy float64) {
	v.anchor = r2.Sub(r2.Vec{X: sx, Y: sy}, v.pan)
	v.panning = true
}

// PanTo moves the view so the anchor follows the pointer
func (v *Viewport) PanTo(sx, sy float64) {
	if !v.panning {
		return
	}
	v.pan = r2.Sub(r2.Vec{X: sx, Y: sy}, v.anchor)
}

// EndPan finishes a background drag
func (v *Viewport) EndPan() { v.panning = false }

// Panning reports whether a background drag is active
func (v *Viewport) Panning() bool { return v.panning }

// Wheel zooms about the surface center: scrolling down (deltaY > 0) zooms
// out by 10%, anything else zooms in by 10%.
func (v *Viewport) Wheel(deltaY float64) {
	if deltaY > 0 {
		v.setZoom(v.zoom * wheelOut)
	} else {
		v.setZoom(v.zoom * wheelIn)
	}
}

// ZoomIn adds one zoom step
func (v *Viewport) ZoomIn() { v.setZoom(v.zoom + ZoomStep) }

// ZoomOut removes one zoom step
func (v *Viewport) ZoomOut() { v.setZoom(v.zoom - ZoomStep) }

// Reset returns to zoom 1 with no pan
func (v *Viewport) Reset() {
	v.zoom = 1
	v.pan = r2.Vec{}
	v.panning = false
}

// FocusOn pans so that p sits at the surface center
func (v *Viewport) FocusOn(p model.Point) {
	v.pan = r2.Scale(-v.zoom, p)
}

func (v *Viewport) setZoom(z float64) {
	v.zoom = math.Max(MinZoom, math.Min(MaxZoom, z))
}
