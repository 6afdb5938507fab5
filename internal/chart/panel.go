package chart

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const panelPadding = vg.Length(8)

// sidePanel draws into the strip to the right of the plot area.
type sidePanel interface {
	draw(c draw.Canvas)
}

type legendEntry struct {
	name   string
	thumbs []plot.Thumbnailer
}

// legendPanel is a titled legend laid out in columns, filled top to bottom.
type legendPanel struct {
	title   string
	columns int
	entries []legendEntry
}

func newLegendPanel(title string) *legendPanel {
	return &legendPanel{title: title, columns: legendColumns}
}

func (l *legendPanel) add(name string, thumbs ...plot.Thumbnailer) {
	l.entries = append(l.entries, legendEntry{name: name, thumbs: thumbs})
}

// columnEntries splits entries into at most l.columns slices.
func (l *legendPanel) columnEntries() [][]legendEntry {
	cols := l.columns
	if cols < 1 {
		cols = 1
	}
	perCol := (len(l.entries) + cols - 1) / cols
	var out [][]legendEntry
	for start := 0; start < len(l.entries); start += perCol {
		end := start + perCol
		if end > len(l.entries) {
			end = len(l.entries)
		}
		out = append(out, l.entries[start:end])
	}
	return out
}

func (l *legendPanel) draw(c draw.Canvas) {
	base := plot.NewLegend()
	titleStyle := base.TextStyle
	titleStyle.Font.Size = vg.Points(12)
	titleStyle.XAlign = text.XLeft
	titleStyle.YAlign = text.YTop

	top := c.Max.Y - panelPadding
	c.FillText(titleStyle, vg.Point{X: c.Min.X + panelPadding, Y: top}, drawable(l.title))
	titleHeight := titleStyle.Height(drawable(l.title)) + panelPadding

	columns := l.columnEntries()
	if len(columns) == 0 {
		return
	}
	colWidth := (c.Max.X - c.Min.X - panelPadding) / vg.Length(l.columns)
	for i, entries := range columns {
		leg := plot.NewLegend()
		leg.Top = true
		leg.Left = true
		leg.TextStyle.Font.Size = vg.Points(11)
		for _, e := range entries {
			leg.Add(drawable(e.name), e.thumbs...)
		}
		left := panelPadding + colWidth*vg.Length(i)
		area := draw.Crop(c, left, -(c.Max.X - c.Min.X - left - colWidth), 0, -(panelPadding + titleHeight))
		leg.Draw(area)
	}
}

// colorBarPanel draws a vertical colour scale for a heatmap.
type colorBarPanel struct {
	cmap palette.ColorMap
}

func (cb colorBarPanel) draw(c draw.Canvas) {
	p := plot.New()
	bar := &plotter.ColorBar{ColorMap: cb.cmap, Vertical: true}
	p.Add(bar)
	p.HideX()
	p.Y.Padding = 0
	p.Draw(draw.Crop(c, panelPadding, -panelPadding, 4*panelPadding, -4*panelPadding))
}
