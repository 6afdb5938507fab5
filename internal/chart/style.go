package chart

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	// DefaultDPI is the raster resolution of every saved chart.
	DefaultDPI = 300

	defaultWidth  = 12 * vg.Inch
	defaultHeight = 8 * vg.Inch
	legendWidth   = 3.4 * vg.Inch
	colorBarWidth = 1.2 * vg.Inch
	legendColumns = 2

	markerRadius     = vg.Length(5.6)
	lineMarkerRadius = vg.Length(3)
	lineWidth        = vg.Length(1.5)

	figureMargin       = 0.15 * vg.Inch
	cellSeparatorWidth = vg.Length(0.5)
)

var (
	// Qualitative palette for groups, in assignment order.
	deepPalette = hexColors(
		"#4C72B0", "#DD8452", "#55A868", "#C44E52", "#8172B3",
		"#937860", "#DA8BC3", "#8C8C8C", "#CCB974", "#64B5CD",
	)
	viridisStops = hexColors(
		"#440154", "#482878", "#3E4A89", "#31688E", "#26828E",
		"#1F9E89", "#35B779", "#6DCD59", "#B4DE2C", "#FDE725",
	)

	outlineColor    = color.Black
	annotationLight = color.White
	gridColor       = color.Gray{Y: 204}
	nanColor        = color.Gray{Y: 200}
	separatorColor  = color.White
)

// glyphPair is a filled marker and the outline drawn over it.
type glyphPair struct {
	fill    draw.GlyphDrawer
	outline draw.GlyphDrawer
}

var groupGlyphs = []glyphPair{
	{fill: draw.CircleGlyph{}, outline: draw.RingGlyph{}},
	{fill: draw.BoxGlyph{}, outline: draw.SquareGlyph{}},
	{fill: draw.PyramidGlyph{}, outline: draw.TriangleGlyph{}},
	{fill: draw.CrossGlyph{}},
	{fill: draw.PlusGlyph{}},
}

func groupColor(i int) color.Color {
	return deepPalette[i%len(deepPalette)]
}

func groupGlyph(i int) glyphPair {
	return groupGlyphs[i%len(groupGlyphs)]
}

// viridis samples n colours evenly from the interior of the viridis map,
// leaving out both end points.
func viridis(n int) []color.Color {
	out := make([]color.Color, n)
	for i := range out {
		out[i] = sampleStops(viridisStops, float64(i+1)/float64(n+1))
	}
	return out
}

func sampleStops(stops []colorful.Color, t float64) colorful.Color {
	if t <= 0 {
		return stops[0]
	}
	if t >= 1 {
		return stops[len(stops)-1]
	}
	pos := t * float64(len(stops)-1)
	idx := int(pos)
	return stops[idx].BlendRgb(stops[idx+1], pos-float64(idx)).Clamped()
}

func hexColors(hexes ...string) []colorful.Color {
	out := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			panic(fmt.Sprintf("chart: bad palette colour %q: %v", h, err))
		}
		out[i] = c
	}
	return out
}

// fontSafe rewrites characters missing from the Liberation fonts that
// gonum/plot embeds. U+207B has no glyph there, so "s⁻¹" is drawn as "1/s".
var fontSafe = strings.NewReplacer("s⁻¹", "1/s", "⁻", "-")

// drawable maps s to text the plot font can render.
func drawable(s string) string {
	return fontSafe.Replace(s)
}
