// Package report runs the catalyst chart report end to end.
package report

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/phuslu/log"

	"github.com/verte-zerg/catplot/internal/chart"
	"github.com/verte-zerg/catplot/internal/dataset"
	"github.com/verte-zerg/catplot/internal/failure"
	"github.com/verte-zerg/catplot/internal/model"
	"github.com/verte-zerg/catplot/internal/stats"
)

const (
	// DefaultSource is the records file read when none is given.
	DefaultSource = "data/catalysis.json"
	// DefaultOutDir is the directory charts are written to when none is given.
	DefaultOutDir = "plots"
)

// Options configures a run.
type Options struct {
	Source string
	OutDir string
	DPI    int
}

// Result lists what a completed run produced.
type Result struct {
	Artifacts   []string
	Correlation stats.Matrix
	Emissions   []stats.GroupTotal
}

// Run loads the records, renders every feature chart and the correlation
// heatmap, and stops at the first error. Files written before the error stay.
func Run(ctx context.Context, opts Options) (Result, error) {
	if opts.Source == "" {
		opts.Source = DefaultSource
	}
	if opts.OutDir == "" {
		opts.OutDir = DefaultOutDir
	}

	if err := EnsureOutputDir(opts.OutDir); err != nil {
		return Result{}, err
	}
	table, err := dataset.Load(ctx, opts.Source)
	if err != nil {
		return Result{}, err
	}

	renderer := chart.NewRenderer(opts.OutDir, opts.DPI)
	var res Result
	for _, spec := range chart.FeatureCharts {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		path, err := renderer.Render(spec, table)
		if err != nil {
			return res, err
		}
		log.Info().Str("chart", spec.Kind.String()).Str("path", path).Msg("wrote chart")
		res.Artifacts = append(res.Artifacts, path)
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}
	matrix, err := stats.Correlation(table)
	if err != nil {
		return res, err
	}
	path, err := renderer.RenderHeatmap(matrix)
	if err != nil {
		return res, err
	}
	log.Info().Str("chart", "heatmap").Str("path", path).Int("columns", matrix.Size()).Msg("wrote chart")
	res.Artifacts = append(res.Artifacts, path)
	res.Correlation = matrix

	// Every bar chart has already validated these columns.
	res.Emissions, err = stats.SumBy(table, model.ColCatalystType, model.ColEmissionsReduction)
	if err != nil {
		return res, failure.New(failure.Render, "sum emissions", "", err)
	}
	return res, nil
}

// EnsureOutputDir creates dir and its parents if needed and checks that it
// accepts new files. It is safe to call repeatedly.
func EnsureOutputDir(dir string) error {
	const op = "ensure output directory"
	info, err := os.Stat(dir)
	switch {
	case err == nil && !info.IsDir():
		return failure.New(failure.IO, op, dir, errors.New("path exists and is not a directory"))
	case err != nil && !os.IsNotExist(err):
		return failure.New(failure.IO, op, dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return failure.New(failure.IO, op, dir, err)
	}
	probe, err := os.CreateTemp(dir, ".write-check-*")
	if err != nil {
		return failure.New(failure.IO, op, dir, fmt.Errorf("directory is not writable: %w", err))
	}
	probePath := probe.Name()
	closeErr := probe.Close()
	if err := os.Remove(probePath); err != nil {
		return failure.New(failure.IO, op, probePath, err)
	}
	if closeErr != nil {
		return failure.New(failure.IO, op, probePath, closeErr)
	}
	return nil
}

// LoadCorrelation loads source and returns its correlation matrix.
func LoadCorrelation(ctx context.Context, source string) (stats.Matrix, error) {
	if source == "" {
		source = DefaultSource
	}
	table, err := dataset.Load(ctx, source)
	if err != nil {
		return stats.Matrix{}, err
	}
	return stats.Correlation(table)
}
