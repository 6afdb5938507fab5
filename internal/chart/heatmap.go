package chart

import (
	"fmt"
	"math"
	"path/filepath"

	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/verte-zerg/catplot/internal/failure"
	"github.com/verte-zerg/catplot/internal/stats"
)

const (
	heatmapColors = 255
	// Coefficients beyond this magnitude get white annotations.
	annotationContrast = 0.6
)

// corrGrid exposes a matrix as a plotter.GridXYZ with the first label on top.
type corrGrid struct {
	m stats.Matrix
}

func (g corrGrid) Dims() (c, r int) {
	n := g.m.Size()
	return n, n
}

func (g corrGrid) Z(c, r int) float64 {
	return g.m.At(g.m.Size()-1-r, c)
}

func (g corrGrid) X(c int) float64 {
	return float64(c)
}

func (g corrGrid) Y(r int) float64 {
	return float64(r)
}

// RenderHeatmap draws m as an annotated grid on a diverging scale fixed to
// [-1, 1] and writes it to OutDir/HeatmapFile.
func (r *Renderer) RenderHeatmap(m stats.Matrix) (string, error) {
	fig, err := r.buildHeatmap(m)
	if err != nil {
		return "", failure.New(failure.Render, "render heatmap", HeatmapFile, err)
	}
	path := filepath.Join(r.OutDir, HeatmapFile)
	if err := r.save(fig, path); err != nil {
		return "", failure.New(failure.IO, "save chart", path, err)
	}
	return path, nil
}

func (r *Renderer) buildHeatmap(m stats.Matrix) (*figure, error) {
	n := m.Size()
	if n < 2 {
		return nil, fmt.Errorf("%w (found %d)", failure.ErrDegenerate, n)
	}
	for i := range m.Values {
		if len(m.Values[i]) != n {
			return nil, fmt.Errorf("matrix row %d has %d values, want %d", i, len(m.Values[i]), n)
		}
	}

	cmap := moreland.SmoothBlueRed()
	cmap.SetMin(-1)
	cmap.SetMax(1)

	p := newPlot(HeatmapTitle, "", "")
	hm := plotter.NewHeatMap(corrGrid{m: m}, cmap.Palette(heatmapColors))
	hm.Min = -1
	hm.Max = 1
	hm.NaN = nanColor
	p.Add(hm)
	separators, err := cellSeparators(n)
	if err != nil {
		return nil, err
	}
	for _, line := range separators {
		p.Add(line)
	}

	xys := make(plotter.XYs, 0, n*n)
	labels := make([]string, 0, n*n)
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			xys = append(xys, plotter.XY{X: float64(col), Y: float64(n - 1 - row)})
			labels = append(labels, stats.FormatCoefficient(m.At(row, col)))
		}
	}
	annotations, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, err
	}
	for i := range annotations.TextStyle {
		v := m.At(i/n, i%n)
		sty := &annotations.TextStyle[i]
		sty.XAlign = text.XCenter
		sty.YAlign = text.YCenter
		sty.Font.Size = vg.Points(10)
		if !math.IsNaN(v) && math.Abs(v) >= annotationContrast {
			sty.Color = annotationLight
		}
	}
	p.Add(annotations)

	ticks := make([]string, n)
	reversed := make([]string, n)
	for i, label := range m.Labels {
		ticks[i] = drawable(label)
		reversed[n-1-i] = ticks[i]
	}
	p.NominalX(ticks...)
	p.NominalY(reversed...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter

	fig := &figure{
		plot:      p,
		side:      colorBarPanel{cmap: cmap},
		sideWidth: colorBarWidth,
	}
	for _, label := range m.Labels {
		fig.groups = append(fig.groups, groupSeries{name: label, points: n})
	}
	return fig, nil
}

// cellSeparators returns thin lines along every cell edge of an n×n grid.
func cellSeparators(n int) ([]*plotter.Line, error) {
	lo, hi := -0.5, float64(n)-0.5
	lines := make([]*plotter.Line, 0, 2*(n+1))
	for k := 0; k <= n; k++ {
		at := float64(k) - 0.5
		edges := []plotter.XYs{
			{{X: at, Y: lo}, {X: at, Y: hi}},
			{{X: lo, Y: at}, {X: hi, Y: at}},
		}
		for _, xys := range edges {
			line, err := plotter.NewLine(xys)
			if err != nil {
				return nil, err
			}
			line.Color = separatorColor
			line.Width = cellSeparatorWidth
			lines = append(lines, line)
		}
	}
	return lines, nil
}
