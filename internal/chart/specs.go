// Package chart renders the fixed catalyst report charts to PNG files.
package chart

import "github.com/verte-zerg/catplot/internal/model"

const (
	tofLabel       = "Turnover Frequency (TOF) (s⁻¹)"
	co2Label       = "CO₂ Conversion Efficiency (%)"
	emissionsLabel = "Emissions Reduction (kg CO₂-eq)"
)

// HeatmapFile is the output name of the correlation heatmap.
const HeatmapFile = "Correlation_Heatmap.png"

// HeatmapTitle is the title drawn above the correlation heatmap.
const HeatmapTitle = "Correlation Heatmap of Catalyst Properties and Performance Metrics"

// FeatureCharts lists the report's feature charts in rendering order.
var FeatureCharts = []model.ChartSpec{
	{
		Kind: model.Scatter, X: model.ColTemperature, Y: model.ColTOF, GroupBy: model.ColCatalystType,
		XLabel: "Temperature (°C)", YLabel: tofLabel,
		Title: "Turnover Frequency vs. Temperature",
		File:  "TOF_vs_Temperature.png",
	},
	{
		Kind: model.Scatter, X: model.ColAdsorptionEnergy, Y: model.ColSelectivity, GroupBy: model.ColCatalystType,
		XLabel: "Adsorption Energy (eV)", YLabel: "Selectivity (%)",
		Title: "Selectivity vs. Adsorption Energy",
		File:  "Selectivity_vs_Adsorption_Energy.png",
	},
	{
		Kind: model.Scatter, X: model.ColTOF, Y: model.ColStability, GroupBy: model.ColCatalystType,
		XLabel: tofLabel, YLabel: "Stability (h)",
		Title: "Stability vs. Turnover Frequency",
		File:  "Stability_vs_TOF.png",
	},
	{
		Kind: model.Scatter, X: model.ColStability, Y: model.ColCO2Conversion, GroupBy: model.ColCatalystType,
		XLabel: "Stability (h)", YLabel: co2Label,
		Title: "CO₂ Conversion Efficiency vs. Stability",
		File:  "CO2_Conversion_vs_Stability.png",
	},
	{
		Kind: model.Line, X: model.ColTemperature, Y: model.ColCO2Conversion, GroupBy: model.ColCatalystType,
		XLabel: "Temperature (°C)", YLabel: co2Label,
		Title: "CO₂ Conversion Efficiency vs. Temperature",
		File:  "CO2_Conversion_vs_Temperature.png",
	},
	{
		Kind: model.Bar, X: model.ColCatalystType, Y: model.ColEmissionsReduction,
		XLabel: "Catalyst Type", YLabel: emissionsLabel,
		Title: "Emissions Reduction by Catalyst Type",
		File:  "Emissions_Reduction_by_Catalyst.png",
	},
	{
		Kind: model.Scatter, X: model.ColTOF, Y: model.ColActivationEnergy, GroupBy: model.ColCatalystType,
		XLabel: tofLabel, YLabel: "Activation Energy (kJ/mol)",
		Title: "Activation Energy vs. Turnover Frequency",
		File:  "Activation_Energy_vs_TOF.png",
	},
	{
		Kind: model.Scatter, X: model.ColTOF, Y: model.ColPressure, GroupBy: model.ColCatalystType,
		XLabel: tofLabel, YLabel: "Pressure (bar)",
		Title: "Pressure vs. Turnover Frequency",
		File:  "Pressure_vs_TOF.png",
	},
}
