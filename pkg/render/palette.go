package render

import (
	"fmt"
	"image/color"
)

var (
	// Surface colors
	background  = color.RGBA{0xf8, 0xfa, 0xfc, 0xff} // Near-white slate
	legendBg    = color.RGBA{0xff, 0xff, 0xff, 0xe6} // Translucent card
	legendEdge  = color.RGBA{0xcb, 0xd5, 0xe1, 0xff} // Card border
	textPrimary = color.RGBA{0x1f, 0x29, 0x37, 0xff} // Dark gray

	// Category colors
	catPersonnel = color.RGBA{0x93, 0xc5, 0xfd, 0xff} // Light blue
	catTravail   = color.RGBA{0xa7, 0x8b, 0xfa, 0xff} // Violet
	catIdees     = color.RGBA{0xfb, 0xbf, 0x24, 0xff} // Amber
	catProjets   = color.RGBA{0x34, 0xd3, 0x99, 0xff} // Emerald
	catDefault   = catPersonnel

	// Selection ring
	selectedRing = color.RGBA{0x3b, 0x82, 0xf6, 0xff} // Blue

	// Edge base color; alpha is derived from the edge strength
	edgeBase = color.RGBA{0x93, 0xc5, 0xfd, 0xff}
)

// CategoryColor returns the fill color for a category, falling back to the
// default for categories outside the known set
func CategoryColor(category string) color.RGBA {
	switch category {
	case "personnel":
		return catPersonnel
	case "travail":
		return catTravail
	case "idées":
		return catIdees
	case "projets":
		return catProjets
	default:
		return catDefault
	}
}

// Background is the color a cleared surface is filled with
func Background() color.RGBA {
	return background
}

// edgeColor returns the edge color at 30% of the strength as alpha
func edgeColor(strength float64) color.NRGBA {
	return color.NRGBA{edgeBase.R, edgeBase.G, edgeBase.B, uint8(255 * edgeAlpha(strength))}
}

func edgeAlpha(strength float64) float64 {
	return strength * 0.3
}

func cssRGBA(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// CategoryHex returns CategoryColor as a #rrggbb string
func CategoryHex(category string) string {
	return cssRGBA(CategoryColor(category))
}
