package chart

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/catplot/internal/failure"
	"github.com/verte-zerg/catplot/internal/model"
	"github.com/verte-zerg/catplot/internal/stats"
)

const testDPI = 30

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func catalystTable(skip ...string) *model.Table {
	skipped := map[string]bool{}
	for _, s := range skip {
		skipped[s] = true
	}
	rows := []map[string]any{
		{model.ColCatalystType: "Pt/Al2O3", model.ColTemperature: 250.0, model.ColTOF: 1.2, model.ColSelectivity: 82.0, model.ColAdsorptionEnergy: -0.8, model.ColStability: 120.0, model.ColCO2Conversion: 41.0, model.ColEmissionsReduction: 12.5, model.ColActivationEnergy: 75.0, model.ColPressure: 20.0},
		{model.ColCatalystType: "Cu/ZnO", model.ColTemperature: 300.0, model.ColTOF: 2.6, model.ColSelectivity: 74.0, model.ColAdsorptionEnergy: -0.5, model.ColStability: 90.0, model.ColCO2Conversion: 48.0, model.ColEmissionsReduction: 4.0, model.ColActivationEnergy: 62.0, model.ColPressure: 35.0},
		{model.ColCatalystType: "Pt/Al2O3", model.ColTemperature: 350.0, model.ColTOF: 3.1, model.ColSelectivity: 88.0, model.ColAdsorptionEnergy: -1.1, model.ColStability: 150.0, model.ColCO2Conversion: 55.0, model.ColEmissionsReduction: 7.5, model.ColActivationEnergy: 58.0, model.ColPressure: 50.0},
	}
	order := []string{
		model.ColTemperature, model.ColTOF, model.ColCatalystType, model.ColSelectivity,
		model.ColAdsorptionEnergy, model.ColStability, model.ColCO2Conversion,
		model.ColEmissionsReduction, model.ColActivationEnergy, model.ColPressure,
	}
	b := model.NewBuilder()
	for _, row := range rows {
		var fields []model.Field
		for _, name := range order {
			if skipped[name] {
				continue
			}
			fields = append(fields, model.Field{Name: name, Value: row[name]})
		}
		b.AddRow(fields)
	}
	return b.Build()
}

func assertPNG(t *testing.T, path string, r *Renderer) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if !bytes.HasPrefix(data, pngMagic) {
		t.Fatalf("%s is not a PNG", path)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	wantW := int(r.Width.Dots(float64(r.DPI)) + 0.5)
	wantH := int(r.Height.Dots(float64(r.DPI)) + 0.5)
	if cfg.Width != wantW || cfg.Height != wantH {
		t.Fatalf("%s: expected %dx%d, got %dx%d", path, wantW, wantH, cfg.Width, cfg.Height)
	}
}

func TestRenderFeatureCharts(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir, testDPI)
	table := catalystTable()
	for _, spec := range FeatureCharts {
		path, err := r.Render(spec, table)
		if err != nil {
			t.Fatalf("render %s: %v", spec.File, err)
		}
		if path != filepath.Join(dir, spec.File) {
			t.Fatalf("unexpected path %q", path)
		}
		assertPNG(t, path, r)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != len(FeatureCharts) {
		t.Fatalf("expected %d files, got %d", len(FeatureCharts), len(entries))
	}
}

func TestFeatureChartsAreFixed(t *testing.T) {
	if len(FeatureCharts) != 8 {
		t.Fatalf("expected 8 feature charts, got %d", len(FeatureCharts))
	}
	seen := map[string]bool{HeatmapFile: true}
	kinds := map[model.ChartKind]int{}
	for _, spec := range FeatureCharts {
		if seen[spec.File] {
			t.Fatalf("duplicate output file %q", spec.File)
		}
		seen[spec.File] = true
		kinds[spec.Kind]++
	}
	if kinds[model.Scatter] != 6 || kinds[model.Line] != 1 || kinds[model.Bar] != 1 {
		t.Fatalf("unexpected chart kinds: %v", kinds)
	}
	if FeatureCharts[0].File != "TOF_vs_Temperature.png" {
		t.Fatalf("unexpected first chart %q", FeatureCharts[0].File)
	}
}

func TestRenderMissingColumnWritesNothing(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir, testDPI)
	table := catalystTable(model.ColTOF)
	for _, spec := range FeatureCharts {
		if spec.X != model.ColTOF && spec.Y != model.ColTOF {
			continue
		}
		_, err := r.Render(spec, table)
		if !failure.Is(err, failure.Render) {
			t.Fatalf("%s: expected Render kind, got %v", spec.File, err)
		}
		if !errors.Is(err, failure.ErrMissingColumn) {
			t.Fatalf("%s: expected ErrMissingColumn, got %v", spec.File, err)
		}
		if _, err := os.Stat(filepath.Join(dir, spec.File)); !os.IsNotExist(err) {
			t.Fatalf("%s: expected no file, stat err %v", spec.File, err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty output dir, got %d entries", len(entries))
	}
}

func TestBarChartSumsPerCatalystType(t *testing.T) {
	r := NewRenderer(t.TempDir(), testDPI)
	var spec model.ChartSpec
	for _, s := range FeatureCharts {
		if s.Kind == model.Bar {
			spec = s
		}
	}
	fig, err := r.build(spec, catalystTable())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(fig.groups) != 2 {
		t.Fatalf("expected 2 bars, got %+v", fig.groups)
	}
	if fig.groups[0].name != "Pt/Al2O3" || fig.groups[0].total != 20 {
		t.Fatalf("unexpected first bar: %+v", fig.groups[0])
	}
	if fig.groups[1].name != "Cu/ZnO" || fig.groups[1].total != 4 {
		t.Fatalf("unexpected second bar: %+v", fig.groups[1])
	}
	if fig.side != nil {
		t.Fatalf("bar chart should not carry a legend")
	}
	if fig.plot.X.Min != -0.5 || fig.plot.X.Max != 1.5 {
		t.Fatalf("expected half a slot of padding around bars, got [%v, %v]", fig.plot.X.Min, fig.plot.X.Max)
	}
}

func TestScatterGroupsAndLegend(t *testing.T) {
	r := NewRenderer(t.TempDir(), testDPI)
	fig, err := r.build(FeatureCharts[0], catalystTable())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(fig.groups) != 2 || fig.groups[0].points != 2 || fig.groups[1].points != 1 {
		t.Fatalf("unexpected groups: %+v", fig.groups)
	}
	legend, ok := fig.side.(*legendPanel)
	if !ok {
		t.Fatalf("expected legend panel, got %T", fig.side)
	}
	if legend.title != model.ColCatalystType || legend.columns != 2 || len(legend.entries) != 2 {
		t.Fatalf("unexpected legend: %+v", legend)
	}
	if fig.plot.Title.Text != "Turnover Frequency vs. Temperature" {
		t.Fatalf("unexpected title %q", fig.plot.Title.Text)
	}
	if fig.plot.Y.Label.Text != tofLabel {
		t.Fatalf("unexpected y label %q", fig.plot.Y.Label.Text)
	}
}

func TestRenderOverwritesExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "TOF_vs_Temperature.png")
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatalf("write stale file: %v", err)
	}
	r := NewRenderer(dir, testDPI)
	if _, err := r.Render(FeatureCharts[0], catalystTable()); err != nil {
		t.Fatalf("render: %v", err)
	}
	assertPNG(t, path, r)
}

func TestRenderIntoMissingDirectory(t *testing.T) {
	r := NewRenderer(filepath.Join(t.TempDir(), "absent"), testDPI)
	_, err := r.Render(FeatureCharts[0], catalystTable())
	if !failure.Is(err, failure.IO) {
		t.Fatalf("expected IO kind, got %v", err)
	}
}

func TestRenderHeatmap(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir, testDPI)
	m, err := stats.Correlation(catalystTable())
	if err != nil {
		t.Fatalf("correlation: %v", err)
	}
	path, err := r.RenderHeatmap(m)
	if err != nil {
		t.Fatalf("render heatmap: %v", err)
	}
	if filepath.Base(path) != HeatmapFile {
		t.Fatalf("unexpected heatmap path %q", path)
	}
	assertPNG(t, path, r)
}

func TestRenderHeatmapRejectsDegenerateMatrix(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir, testDPI)
	_, err := r.RenderHeatmap(stats.Matrix{Labels: []string{"a"}, Values: [][]float64{{1}}})
	if !failure.Is(err, failure.Render) || !errors.Is(err, failure.ErrDegenerate) {
		t.Fatalf("expected degenerate render error, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, HeatmapFile)); !os.IsNotExist(err) {
		t.Fatalf("expected no heatmap file")
	}
}

func TestCorrGridPutsFirstLabelOnTop(t *testing.T) {
	g := corrGrid{m: stats.Matrix{
		Labels: []string{"a", "b"},
		Values: [][]float64{{1, 0.25}, {0.25, 1}},
	}}
	c, r := g.Dims()
	if c != 2 || r != 2 {
		t.Fatalf("unexpected dims %dx%d", c, r)
	}
	if g.Z(1, 1) != 0.25 || g.Z(0, 1) != 1 {
		t.Fatalf("top row should hold the first label's coefficients")
	}
}

func TestLegendColumnEntries(t *testing.T) {
	l := newLegendPanel("Catalyst Type")
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		l.add(name)
	}
	cols := l.columnEntries()
	if len(cols) != 2 || len(cols[0]) != 3 || len(cols[1]) != 2 {
		t.Fatalf("unexpected column split: %d columns", len(cols))
	}
	if cols[1][0].name != "d" {
		t.Fatalf("expected entries to fill top to bottom, got %q", cols[1][0].name)
	}
}

func TestViridisSamplesInterior(t *testing.T) {
	colors := viridis(3)
	if len(colors) != 3 {
		t.Fatalf("expected 3 colours, got %d", len(colors))
	}
	r0, g0, b0, _ := colors[0].RGBA()
	rs, gs, bs, _ := viridisStops[0].RGBA()
	if r0 == rs && g0 == gs && b0 == bs {
		t.Fatalf("expected first colour to skip the map's end point")
	}
	if got := sampleStops(viridisStops, 1); got != viridisStops[len(viridisStops)-1] {
		t.Fatalf("expected last stop at t=1")
	}
}
