// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/verte-zerg/catplot/internal/failure"
	"github.com/verte-zerg/catplot/internal/model"
)

// Matrix is a square correlation matrix over named columns.
type Matrix struct {
	Labels []string
	Values [][]float64
}

// Size returns the number of rows (and columns).
func (m Matrix) Size() int {
	return len(m.Labels)
}

// At returns the coefficient between columns i and j.
func (m Matrix) At(i, j int) float64 {
	return m.Values[i][j]
}

// Correlation computes pairwise Pearson coefficients over the numeric columns
// of t, in column order. Rows missing either value of a pair are skipped for
// that pair. A column without variance yields NaN in its row and column.
func Correlation(t *model.Table) (Matrix, error) {
	names := t.NumericNames()
	if len(names) < 2 {
		return Matrix{}, failure.New(failure.Render, "compute correlation", "",
			fmt.Errorf("%w (found %d)", failure.ErrDegenerate, len(names)))
	}
	cols := make([][]float64, len(names))
	for i, name := range names {
		values, err := t.Numbers(name)
		if err != nil {
			return Matrix{}, failure.New(failure.Render, "compute correlation", "", err)
		}
		cols[i] = values
	}

	values := make([][]float64, len(names))
	for i := range values {
		values[i] = make([]float64, len(names))
	}
	for i := range names {
		values[i][i] = selfCorrelation(cols[i])
		for j := i + 1; j < len(names); j++ {
			r := Pearson(cols[i], cols[j])
			values[i][j] = r
			values[j][i] = r
		}
	}
	return Matrix{Labels: names, Values: values}, nil
}

// Pearson returns the linear correlation of x and y over pairs where both are
// present, or NaN when fewer than two pairs remain or either side is constant.
func Pearson(x, y []float64) float64 {
	xs, ys := completePairs(x, y)
	if len(xs) < 2 {
		return math.NaN()
	}
	if stat.Variance(xs, nil) == 0 || stat.Variance(ys, nil) == 0 {
		return math.NaN()
	}
	r := stat.Correlation(xs, ys, nil)
	return math.Max(-1, math.Min(1, r))
}

func selfCorrelation(x []float64) float64 {
	xs, _ := completePairs(x, x)
	if len(xs) < 2 || stat.Variance(xs, nil) == 0 {
		return math.NaN()
	}
	return 1
}

func completePairs(x, y []float64) ([]float64, []float64) {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	return xs, ys
}
