package chart

import (
	"fmt"
	"math"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/verte-zerg/catplot/internal/failure"
	"github.com/verte-zerg/catplot/internal/model"
	"github.com/verte-zerg/catplot/internal/stats"
)

const opRender = "render chart"

// Renderer draws charts and saves them into OutDir.
type Renderer struct {
	OutDir string
	Width  vg.Length
	Height vg.Length
	DPI    int
}

// NewRenderer returns a Renderer with the report's 12x8 inch figure size.
// A non-positive dpi selects DefaultDPI.
func NewRenderer(outDir string, dpi int) *Renderer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Renderer{
		OutDir: outDir,
		Width:  defaultWidth,
		Height: defaultHeight,
		DPI:    dpi,
	}
}

// groupSeries records what was drawn for one group or bar.
type groupSeries struct {
	name   string
	points int
	total  float64
}

// figure is a built plot plus an optional panel drawn to its right.
type figure struct {
	plot      *plot.Plot
	groups    []groupSeries
	side      sidePanel
	sideWidth vg.Length
}

// Render draws spec from t and writes it to OutDir/spec.File, returning the
// written path. No file is created when a referenced column is missing.
func (r *Renderer) Render(spec model.ChartSpec, t *model.Table) (string, error) {
	fig, err := r.build(spec, t)
	if err != nil {
		return "", failure.New(failure.Render, opRender, spec.File, err)
	}
	path := filepath.Join(r.OutDir, spec.File)
	if err := r.save(fig, path); err != nil {
		return "", failure.New(failure.IO, "save chart", path, err)
	}
	return path, nil
}

func (r *Renderer) build(spec model.ChartSpec, t *model.Table) (*figure, error) {
	for _, col := range spec.Columns() {
		if !t.Has(col) {
			return nil, fmt.Errorf("%w: %q", failure.ErrMissingColumn, col)
		}
	}

	p := newPlot(spec.Title, spec.XLabel, spec.YLabel)
	fig := &figure{plot: p}
	var err error
	switch spec.Kind {
	case model.Scatter:
		err = buildScatter(fig, spec, t)
	case model.Line:
		err = buildLine(fig, spec, t)
	case model.Bar:
		err = r.buildBar(fig, spec, t)
	default:
		err = fmt.Errorf("unsupported chart kind %v", spec.Kind)
	}
	if err != nil {
		return nil, err
	}
	return fig, nil
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = drawable(title)
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = drawable(xLabel)
	p.Y.Label.Text = drawable(yLabel)
	p.X.Label.TextStyle.Font.Size = vg.Points(13)
	p.Y.Label.TextStyle.Font.Size = vg.Points(13)
	return p
}

func addGrid(p *plot.Plot) {
	grid := plotter.NewGrid()
	grid.Vertical.Color = gridColor
	grid.Horizontal.Color = gridColor
	p.Add(grid)
}

// groupedRows splits the complete (x, y) pairs of spec by its grouping column.
func groupedRows(spec model.ChartSpec, t *model.Table) ([]string, map[string]plotter.XYs, error) {
	xs, err := t.Numbers(spec.X)
	if err != nil {
		return nil, nil, err
	}
	ys, err := t.Numbers(spec.Y)
	if err != nil {
		return nil, nil, err
	}
	labels := make([]string, t.Len())
	if spec.GroupBy != "" {
		if labels, err = t.Labels(spec.GroupBy); err != nil {
			return nil, nil, err
		}
	}
	order := stats.GroupOrder(labels)
	if spec.GroupBy == "" {
		order = []string{""}
	}
	byGroup := make(map[string]plotter.XYs, len(order))
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		if spec.GroupBy != "" && labels[i] == "" {
			continue
		}
		byGroup[labels[i]] = append(byGroup[labels[i]], plotter.XY{X: xs[i], Y: ys[i]})
	}
	return order, byGroup, nil
}

func buildScatter(fig *figure, spec model.ChartSpec, t *model.Table) error {
	order, byGroup, err := groupedRows(spec, t)
	if err != nil {
		return err
	}
	addGrid(fig.plot)
	legend := newLegendPanel(spec.GroupBy)
	for i, name := range order {
		pts := byGroup[name]
		if len(pts) == 0 {
			continue
		}
		glyphs := groupGlyph(i)
		fill, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		fill.GlyphStyle = draw.GlyphStyle{Color: groupColor(i), Radius: markerRadius, Shape: glyphs.fill}
		fig.plot.Add(fill)
		thumbs := []plot.Thumbnailer{fill}
		if glyphs.outline != nil {
			edge, err := plotter.NewScatter(pts)
			if err != nil {
				return err
			}
			edge.GlyphStyle = draw.GlyphStyle{Color: outlineColor, Radius: markerRadius, Shape: glyphs.outline}
			fig.plot.Add(edge)
			thumbs = append(thumbs, edge)
		}
		legend.add(name, thumbs...)
		fig.groups = append(fig.groups, groupSeries{name: name, points: len(pts)})
	}
	fig.attachLegend(spec, legend)
	return nil
}

func buildLine(fig *figure, spec model.ChartSpec, t *model.Table) error {
	order, byGroup, err := groupedRows(spec, t)
	if err != nil {
		return err
	}
	addGrid(fig.plot)
	legend := newLegendPanel(spec.GroupBy)
	for i, name := range order {
		raw := byGroup[name]
		if len(raw) == 0 {
			continue
		}
		x := make([]float64, len(raw))
		y := make([]float64, len(raw))
		for j, pt := range raw {
			x[j], y[j] = pt.X, pt.Y
		}
		mx, my := stats.MeanByX(x, y)
		pts := make(plotter.XYs, len(mx))
		for j := range mx {
			pts[j] = plotter.XY{X: mx[j], Y: my[j]}
		}
		line, marks, err := plotter.NewLinePoints(pts)
		if err != nil {
			return err
		}
		line.Color = groupColor(i)
		line.Width = lineWidth
		marks.GlyphStyle = draw.GlyphStyle{Color: groupColor(i), Radius: lineMarkerRadius, Shape: draw.CircleGlyph{}}
		fig.plot.Add(line, marks)
		legend.add(name, line, marks)
		fig.groups = append(fig.groups, groupSeries{name: name, points: len(pts)})
	}
	fig.attachLegend(spec, legend)
	return nil
}

func (r *Renderer) buildBar(fig *figure, spec model.ChartSpec, t *model.Table) error {
	totals, err := stats.SumBy(t, spec.X, spec.Y)
	if err != nil {
		return err
	}
	p := fig.plot
	p.Add(horizontalGrid())
	if len(totals) == 0 {
		return nil
	}
	colors := viridis(len(totals))
	barWidth := (r.Width - vg.Inch) * 0.8 / vg.Length(len(totals))
	names := make([]string, len(totals))
	for i, total := range totals {
		bar, err := plotter.NewBarChart(plotter.Values{total.Sum}, barWidth)
		if err != nil {
			return err
		}
		bar.XMin = float64(i)
		bar.Color = colors[i]
		bar.LineStyle.Width = 0
		p.Add(bar)
		names[i] = drawable(total.Group)
		fig.groups = append(fig.groups, groupSeries{name: total.Group, points: total.Rows, total: total.Sum})
	}
	p.NominalX(names...)
	p.X.Min = -0.5
	p.X.Max = float64(len(totals)) - 0.5
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter
	return nil
}

func horizontalGrid() *plotter.Grid {
	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	grid.Horizontal.Color = gridColor
	return grid
}

func (f *figure) attachLegend(spec model.ChartSpec, legend *legendPanel) {
	if !spec.Grouped() || len(legend.entries) == 0 {
		return
	}
	f.side = legend
	f.sideWidth = legendWidth
}
