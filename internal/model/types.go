// Package model defines shared data structures.
package model

// Column names of the catalyst record set.
const (
	ColTemperature        = "Temperature (°C)"
	ColTOF                = "TOF (s⁻¹)"
	ColCatalystType       = "Catalyst Type"
	ColSelectivity        = "Selectivity (%)"
	ColAdsorptionEnergy   = "Adsorption Energy (eV)"
	ColStability          = "Stability (h)"
	ColCO2Conversion      = "CO₂ Conversion Efficiency (%)"
	ColEmissionsReduction = "Emissions Reduction (kg CO-eq)"
	ColActivationEnergy   = "Activation Energy (kJ/mol)"
	ColPressure           = "Pressure (bar)"
)

// ChartKind selects the visual encoding of a chart.
type ChartKind int

const (
	// Scatter draws one marker per row, coloured and shaped by group.
	Scatter ChartKind = iota + 1
	// Line connects per-group points ordered by x.
	Line
	// Bar draws one bar per group with the summed y value.
	Bar
)

func (k ChartKind) String() string {
	switch k {
	case Scatter:
		return "scatter"
	case Line:
		return "line"
	case Bar:
		return "bar"
	default:
		return "unknown"
	}
}

// ChartSpec describes one fixed chart: what to plot and where to save it.
type ChartSpec struct {
	Kind    ChartKind
	X       string
	Y       string
	GroupBy string
	XLabel  string
	YLabel  string
	Title   string
	File    string
}

// Columns lists the record set columns the chart reads.
func (s ChartSpec) Columns() []string {
	cols := []string{s.X, s.Y}
	if s.GroupBy != "" && s.GroupBy != s.X && s.GroupBy != s.Y {
		cols = append(cols, s.GroupBy)
	}
	return cols
}

// Grouped reports whether the chart splits rows into groups with a legend.
func (s ChartSpec) Grouped() bool {
	return s.GroupBy != "" && s.Kind != Bar
}
