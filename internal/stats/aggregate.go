package stats

import (
	"math"
	"sort"

	"github.com/verte-zerg/catplot/internal/model"
)

// GroupTotal is the summed value of one group.
type GroupTotal struct {
	Group string
	Sum   float64
	Rows  int
}

// GroupOrder returns distinct non-empty labels in order of first appearance.
func GroupOrder(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	order := make([]string, 0)
	for _, l := range labels {
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		order = append(order, l)
	}
	return order
}

// SumBy sums valueCol per distinct groupCol label. Missing values and rows
// without a group are skipped; groups keep first-appearance order.
func SumBy(t *model.Table, groupCol, valueCol string) ([]GroupTotal, error) {
	labels, err := t.Labels(groupCol)
	if err != nil {
		return nil, err
	}
	values, err := t.Numbers(valueCol)
	if err != nil {
		return nil, err
	}
	order := GroupOrder(labels)
	idx := make(map[string]int, len(order))
	totals := make([]GroupTotal, len(order))
	for i, g := range order {
		idx[g] = i
		totals[i].Group = g
	}
	for row, label := range labels {
		if label == "" || math.IsNaN(values[row]) {
			continue
		}
		totals[idx[label]].Sum += values[row]
		totals[idx[label]].Rows++
	}
	return totals, nil
}

// MeanByX averages y over equal x values and returns points sorted by x.
// Pairs with a missing side are dropped.
func MeanByX(x, y []float64) (xs, ys []float64) {
	type acc struct {
		sum   float64
		count int
	}
	byX := map[float64]*acc{}
	for i := 0; i < len(x) && i < len(y); i++ {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		a, ok := byX[x[i]]
		if !ok {
			a = &acc{}
			byX[x[i]] = a
			xs = append(xs, x[i])
		}
		a.sum += y[i]
		a.count++
	}
	sort.Float64s(xs)
	ys = make([]float64, len(xs))
	for i, v := range xs {
		a := byX[v]
		ys[i] = a.sum / float64(a.count)
	}
	return xs, ys
}
