package render

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo/float"

	"github.com/notegraph/notegraph/pkg/viewport"
)

// RenderSVG writes the scene as an SVG document of width×height. Everything
// in graph space sits in a single transformed group, mirroring the raster
// renderer.
func RenderSVG(w io.Writer, scene Scene, vp *viewport.Viewport, width, height float64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid surface size %gx%g", width, height)
	}

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:"+cssRGBA(background))

	tr := vp.Transform(width, height)
	canvas.Gtransform(fmt.Sprintf("translate(%.2f,%.2f) scale(%.4f)", tr.OffsetX, tr.OffsetY, tr.Scale))

	if scene.ShowConnections {
		for _, e := range scene.Edges {
			canvas.Line(e.From.X, e.From.Y, e.To.X, e.To.Y,
				fmt.Sprintf("stroke:%s;stroke-opacity:%.3f;stroke-width:%.2f", cssRGBA(edgeBase), edgeAlpha(e.Strength), e.Strength*3))
		}
	}

	for _, n := range scene.Nodes {
		style := "fill:" + cssRGBA(CategoryColor(n.Category))
		if n.ID == scene.Selected {
			style += fmt.Sprintf(";stroke:%s;stroke-width:4", cssRGBA(selectedRing))
		}
		canvas.Circle(n.Pos.X, n.Pos.Y, scene.Radius(n.ID), style)

		if scene.Labelled(n.ID) {
			canvas.Text(n.Pos.X, n.Pos.Y+LabelOffset, truncateLabel(n.Title),
				fmt.Sprintf("fill:%s;font-size:%dpx;font-family:sans-serif;text-anchor:middle", cssRGBA(textPrimary), labelFontSize))
		}
	}
	canvas.Gend()

	if scene.ShowLegend && len(scene.Categories) > 0 {
		drawLegendSVG(canvas, scene.Categories, height)
	}

	canvas.End()
	return nil
}

func drawLegendSVG(canvas *svg.SVG, categories []string, height float64) {
	rowH := 20.0
	boxW := 150.0
	boxH := 34 + rowH*float64(len(categories))
	x := 16.0
	y := height - boxH - 16

	canvas.Roundrect(x, y, boxW, boxH, 12, 12,
		fmt.Sprintf("fill:%s;fill-opacity:0.9;stroke:%s", cssRGBA(legendBg), cssRGBA(legendEdge)))
	canvas.Text(x+12, y+20, "Légende",
		fmt.Sprintf("fill:%s;font-size:%dpx;font-family:sans-serif;font-weight:600", cssRGBA(textPrimary), legendFontSize))

	for i, cat := range categories {
		iy := y + 36 + float64(i)*rowH
		canvas.Circle(x+20, iy, 7, "fill:"+cssRGBA(CategoryColor(cat)))
		canvas.Text(x+34, iy+4, cat,
			fmt.Sprintf("fill:%s;font-size:%dpx;font-family:sans-serif", cssRGBA(textPrimary), legendFontSize))
	}
}
