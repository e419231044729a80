package ui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"git.sr.ht/~sbinet/gg"
	"github.com/charmbracelet/lipgloss"
)

const (
	// CellWidth and CellHeight are the surface pixels behind one terminal
	// cell. Each cell shows two samples with an upper half block.
	CellWidth  = 8
	CellHeight = 16
)

// Canvas is a raster surface presented as terminal half-block cells
type Canvas struct {
	dc   *gg.Context
	cols int
	rows int
}

// Resize sets the size in cells. A non-positive size leaves no surface.
func (c *Canvas) Resize(cols, rows int) {
	if cols == c.cols && rows == c.rows && c.dc != nil {
		return
	}
	c.cols, c.rows = cols, rows
	if cols <= 0 || rows <= 0 {
		c.dc = nil
		return
	}
	c.dc = gg.NewContext(cols*CellWidth, rows*CellHeight)
}

// Context returns the drawing surface, nil before the first Resize
func (c *Canvas) Context() *gg.Context { return c.dc }

// Cols returns the width in cells
func (c *Canvas) Cols() int { return c.cols }

// Rows returns the height in cells
func (c *Canvas) Rows() int { return c.rows }

// PixelSize returns the surface size in pixels
func (c *Canvas) PixelSize() (w, h float64) {
	return float64(c.cols * CellWidth), float64(c.rows * CellHeight)
}

// Contains reports whether a cell lies on the canvas
func (c *Canvas) Contains(col, row int) bool {
	return col >= 0 && row >= 0 && col < c.cols && row < c.rows
}

// CellToPixel maps a cell to the surface pixel at its center
func CellToPixel(col, row int) (x, y float64) {
	return float64(col*CellWidth + CellWidth/2), float64(row*CellHeight + CellHeight/2)
}

// cellSamples returns the colors shown in the upper and lower half of a cell
func cellSamples(img image.Image, col, row int) (top, bottom color.RGBA) {
	x := col*CellWidth + CellWidth/2
	top = toRGBA(img.At(x, row*CellHeight+CellHeight/4))
	bottom = toRGBA(img.At(x, row*CellHeight+3*CellHeight/4))
	return top, bottom
}

func toRGBA(c color.Color) color.RGBA {
	r, g, b, a := c.RGBA()
	return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

func hex(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

// View presents the surface. Runs of cells with the same colors share one
// styled segment.
func (c *Canvas) View(r *lipgloss.Renderer) string {
	if c.dc == nil {
		return ""
	}
	img := c.dc.Image()
	lines := make([]string, c.rows)
	for row := 0; row < c.rows; row++ {
		var sb strings.Builder
		run := 0
		var runTop, runBottom color.RGBA
		flush := func() {
			if run == 0 {
				return
			}
			style := r.NewStyle().Foreground(hex(runTop)).Background(hex(runBottom))
			sb.WriteString(style.Render(strings.Repeat("▀", run)))
			run = 0
		}
		for col := 0; col < c.cols; col++ {
			top, bottom := cellSamples(img, col, row)
			if run > 0 && (top != runTop || bottom != runBottom) {
				flush()
			}
			runTop, runBottom = top, bottom
			run++
		}
		flush()
		lines[row] = sb.String()
	}
	return strings.Join(lines, "\n")
}
