package stats

import "math"

// IsolatedColumns returns the labels whose |r| stays below threshold against
// every other column. Columns with only NaN coefficients count as isolated.
func IsolatedColumns(m Matrix, threshold float64) map[string]struct{} {
	isolated := map[string]struct{}{}
	for i := 0; i < m.Size(); i++ {
		linked := false
		for j := 0; j < m.Size(); j++ {
			if i == j {
				continue
			}
			r := m.At(i, j)
			if !math.IsNaN(r) && math.Abs(r) >= threshold {
				linked = true
				break
			}
		}
		if !linked {
			isolated[m.Labels[i]] = struct{}{}
		}
	}
	return isolated
}
