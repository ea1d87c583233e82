package monitor

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/floats"
)

// WriteDensityReport renders a standalone HTML scatter of per-turbine
// presence density (position coloured by density) using go-echarts.
func WriteDensityReport(w io.Writer, xTurbines, yTurbines, densities []float64) error {
	if len(xTurbines) != len(yTurbines) || len(xTurbines) != len(densities) {
		return fmt.Errorf("monitor: report inputs have lengths %d, %d and %d",
			len(xTurbines), len(yTurbines), len(densities))
	}

	data := make([]opts.ScatterData, 0, len(densities))
	for i, d := range densities {
		data = append(data, opts.ScatterData{Value: []interface{}{xTurbines[i], yTurbines[i], d}})
	}

	maxDensity := 1.0
	if len(densities) > 0 {
		if m := floats.Max(densities); m > maxDensity {
			maxDensity = m
		}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Eagle presence density", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: "Per-turbine eagle presence density", Subtitle: fmt.Sprintf("turbines=%d", len(densities))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Easting (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Northing (m)", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxDensity),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}},
		}),
	)

	scatter.AddSeries("turbines", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 12}))

	return scatter.Render(w)
}
