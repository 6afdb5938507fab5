package stats

import (
	"math"
	"sort"
)

// Pair is one off-diagonal cell of a correlation matrix.
type Pair struct {
	A string
	B string
	R float64
}

// TopPairs returns the n column pairs with the largest |r|. NaN cells are
// skipped; ties are broken by label order.
func TopPairs(m Matrix, n int) []Pair {
	if n <= 0 || m.Size() < 2 {
		return nil
	}
	items := make([]Pair, 0, m.Size()*(m.Size()-1)/2)
	for i := 0; i < m.Size(); i++ {
		for j := i + 1; j < m.Size(); j++ {
			r := m.At(i, j)
			if math.IsNaN(r) {
				continue
			}
			items = append(items, Pair{A: m.Labels[i], B: m.Labels[j], R: r})
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		ai, aj := math.Abs(items[i].R), math.Abs(items[j].R)
		if ai == aj {
			if items[i].A == items[j].A {
				return items[i].B < items[j].B
			}
			return items[i].A < items[j].A
		}
		return ai > aj
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
