package chart

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/png"
	"math"
	"os"
	"testing"

	"github.com/verte-zerg/catplot/internal/model"
	"github.com/verte-zerg/catplot/internal/stats"
)

func TestSavedChartRecordsDPI(t *testing.T) {
	r := NewRenderer(t.TempDir(), testDPI)
	path, err := r.Render(FeatureCharts[0], catalystTable())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	idx := bytes.Index(data, []byte("pHYs"))
	if idx != pngHeaderLen+4 {
		t.Fatalf("expected pHYs right after IHDR, found at %d", idx)
	}
	body := data[idx+4 : idx+13]
	want := uint32(math.Round(testDPI / 0.0254))
	if x, y := binary.BigEndian.Uint32(body[0:4]), binary.BigEndian.Uint32(body[4:8]); x != want || y != want {
		t.Fatalf("expected %d px/m, got %dx%d", want, x, y)
	}
	if body[8] != 1 {
		t.Fatalf("expected metre unit, got %d", body[8])
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("decode with pHYs: %v", err)
	}
}

func TestWithPhysicalDPIRejectsNonPNG(t *testing.T) {
	if _, err := withPhysicalDPI([]byte("not a png"), testDPI); err == nil {
		t.Fatalf("expected error for non-PNG data")
	}
}

func TestChartsKeepOuterMargin(t *testing.T) {
	r := NewRenderer(t.TempDir(), testDPI)
	var bar model.ChartSpec
	for _, s := range FeatureCharts {
		if s.Kind == model.Bar {
			bar = s
		}
	}
	barPath, err := r.Render(bar, catalystTable())
	if err != nil {
		t.Fatalf("render bar: %v", err)
	}
	m, err := stats.Correlation(catalystTable())
	if err != nil {
		t.Fatalf("correlation: %v", err)
	}
	heatPath, err := r.RenderHeatmap(m)
	if err != nil {
		t.Fatalf("render heatmap: %v", err)
	}

	// Stay inside the margin width so antialiased edges never count.
	edge := int(figureMargin.Dots(testDPI)) - 1
	for _, path := range []string{barPath, heatPath} {
		img := decodePNG(t, path)
		b := img.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for dx := 0; dx < edge; dx++ {
				for _, x := range []int{b.Min.X + dx, b.Max.X - 1 - dx} {
					if !isWhite(img, x, y) {
						t.Fatalf("%s: pixel (%d, %d) inside the margin is not background", path, x, y)
					}
				}
			}
		}
	}
}

func TestCellSeparators(t *testing.T) {
	lines, err := cellSeparators(3)
	if err != nil {
		t.Fatalf("cell separators: %v", err)
	}
	if len(lines) != 8 {
		t.Fatalf("expected 8 separators, got %d", len(lines))
	}
	for _, line := range lines {
		if len(line.XYs) != 2 {
			t.Fatalf("expected 2 points per separator, got %d", len(line.XYs))
		}
		a, b := line.XYs[0], line.XYs[1]
		vertical := a.X == b.X
		at := a.Y
		if vertical {
			at = a.X
		}
		if math.Mod(at+0.5, 1) != 0 || at < -0.5 || at > 2.5 {
			t.Fatalf("separator not on a cell edge: %+v", line.XYs)
		}
		if line.Width != cellSeparatorWidth {
			t.Fatalf("unexpected separator width %v", line.Width)
		}
	}
}

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer func() {
		_ = f.Close()
	}()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return img
}

func isWhite(img image.Image, x, y int) bool {
	r, g, b, _ := img.At(x, y).RGBA()
	return r == 0xffff && g == 0xffff && b == 0xffff
}
