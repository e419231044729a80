package render

import (
	"io"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font"

	"github.com/notegraph/notegraph/pkg/viewport"
)

// Renderer draws scenes onto gg raster contexts
type Renderer struct {
	labelFace  font.Face
	labelScale float64
	legendFace font.Face
}

// NewRenderer loads the label fonts. If they cannot be loaded the renderer
// falls back to gg's built-in face.
func NewRenderer() *Renderer {
	r := &Renderer{}
	r.labelFaceAt(1)
	if f, err := newFace(legendFontSize); err == nil {
		r.legendFace = f
	}
	return r
}

// Render clears dc and draws the scene through the viewport transform:
// edges first, then nodes, then labels, then the legend in screen space.
// It returns false without touching anything when there is no surface.
func (r *Renderer) Render(dc *gg.Context, scene Scene, vp *viewport.Viewport) bool {
	if dc == nil || dc.Width() <= 0 || dc.Height() <= 0 {
		return false
	}
	width, height := float64(dc.Width()), float64(dc.Height())

	dc.SetColor(background)
	dc.Clear()

	tr := vp.Transform(width, height)
	dc.Push()
	dc.Translate(tr.OffsetX, tr.OffsetY)
	dc.Scale(tr.Scale, tr.Scale)

	if scene.ShowConnections {
		for _, e := range scene.Edges {
			// gg strokes in device pixels, so widths are scaled by hand
			dc.SetColor(edgeColor(e.Strength))
			dc.SetLineWidth(e.Strength * 3 * tr.Scale)
			dc.DrawLine(e.From.X, e.From.Y, e.To.X, e.To.Y)
			dc.Stroke()
		}
	}

	for _, n := range scene.Nodes {
		radius := scene.Radius(n.ID)
		dc.SetColor(CategoryColor(n.Category))
		dc.DrawCircle(n.Pos.X, n.Pos.Y, radius)
		if n.ID == scene.Selected {
			dc.FillPreserve()
			dc.SetColor(selectedRing)
			dc.SetLineWidth(4 * tr.Scale)
			dc.Stroke()
		} else {
			dc.Fill()
		}

		if scene.Labelled(n.ID) {
			// gg positions text through the matrix but draws glyphs at
			// face size, so the face carries the zoom
			if f := r.labelFaceAt(tr.Scale); f != nil {
				dc.SetFontFace(f)
			}
			dc.SetColor(textPrimary)
			dc.DrawStringAnchored(truncateLabel(n.Title), n.Pos.X, n.Pos.Y+LabelOffset, 0.5, 0)
		}
	}
	dc.Pop()

	if scene.ShowLegend && len(scene.Categories) > 0 {
		r.drawLegend(dc, scene.Categories, height)
	}
	return true
}

// labelFaceAt returns the label face sized for the given zoom, rebuilding it
// only when the zoom changed since the last frame
func (r *Renderer) labelFaceAt(scale float64) font.Face {
	if r.labelFace != nil && r.labelScale == scale {
		return r.labelFace
	}
	f, err := newFace(labelFontSize * scale)
	if err != nil {
		return r.labelFace
	}
	if r.labelFace != nil {
		r.labelFace.Close()
	}
	r.labelFace, r.labelScale = f, scale
	return f
}

// RenderPNG renders the scene on a fresh width×height surface and encodes it
func (r *Renderer) RenderPNG(w io.Writer, scene Scene, vp *viewport.Viewport, width, height int) error {
	dc := gg.NewContext(width, height)
	r.Render(dc, scene, vp)
	return dc.EncodePNG(w)
}

func (r *Renderer) drawLegend(dc *gg.Context, categories []string, height float64) {
	rowH := 20.0
	boxW := 150.0
	boxH := 34 + rowH*float64(len(categories))
	x := 16.0
	y := height - boxH - 16

	dc.SetColor(legendBg)
	dc.DrawRoundedRectangle(x, y, boxW, boxH, 12)
	dc.Fill()

	dc.SetLineWidth(1)
	dc.SetColor(legendEdge)
	dc.DrawRoundedRectangle(x, y, boxW, boxH, 12)
	dc.Stroke()

	if r.legendFace != nil {
		dc.SetFontFace(r.legendFace)
	}
	dc.SetColor(textPrimary)
	dc.DrawStringAnchored("Légende", x+12, y+16, 0, 0.5)

	for i, cat := range categories {
		iy := y + 36 + float64(i)*rowH

		dc.SetColor(CategoryColor(cat))
		dc.DrawCircle(x+20, iy, 7)
		dc.Fill()

		dc.SetColor(textPrimary)
		dc.DrawStringAnchored(cat, x+34, iy, 0, 0.5)
	}
}
