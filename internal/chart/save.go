package chart

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// save rasterises fig at the renderer's size and DPI and writes it as PNG.
func (r *Renderer) save(fig *figure, path string) error {
	img := vgimg.NewWith(vgimg.UseWH(r.Width, r.Height), vgimg.UseDPI(r.DPI))
	dc := draw.Crop(draw.New(img), figureMargin, -figureMargin, figureMargin, -figureMargin)
	plotArea := dc
	if fig.side != nil {
		plotArea = draw.Crop(dc, 0, -fig.sideWidth, 0, 0)
	}
	fig.plot.Draw(plotArea)
	if fig.side != nil {
		width := dc.Max.X - dc.Min.X
		fig.side.draw(draw.Crop(dc, width-fig.sideWidth, 0, 0, 0))
	}
	return writeFileAtomic(path, func(w io.Writer) error {
		var buf bytes.Buffer
		png := vgimg.PngCanvas{Canvas: img}
		if _, err := png.WriteTo(&buf); err != nil {
			return err
		}
		data, err := withPhysicalDPI(buf.Bytes(), r.DPI)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	})
}

// writeFileAtomic writes through a temp file in the destination directory and
// renames it over path, so readers never see a partial image.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".chart-*.png")
	if err != nil {
		return fmt.Errorf("failed to create temp chart: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if err := write(tmpFile); err != nil {
		return fmt.Errorf("failed to encode chart: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close chart: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	return nil
}
