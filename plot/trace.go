package plot

import "fmt"

// buildTrace converts one series into a render-ready trace: unit factors
// applied to every sample, the assigned color and axis pair attached, and
// the display name resolved from the legend source.
func buildTrace(s Settings, sr Series, colors ColorAssignment, i int, xAxis, yAxis string, xFactor, yFactor float64) Trace {
	x := make([]float64, len(sr.X))
	for j, v := range sr.X {
		x[j] = v * xFactor
	}
	y := make([]float64, len(sr.Y))
	for j, v := range sr.Y {
		y[j] = v * yFactor
	}

	color := ""
	if i < len(colors.Colors) {
		color = colors.Colors[i]
	}

	tr := Trace{
		X:          x,
		Y:          y,
		XAxis:      xAxis,
		YAxis:      yAxis,
		Name:       traceName(s.Legend.Source, sr, colors, i),
		Mode:       s.LineMode,
		Line:       LineStyle{Width: s.LineWidth, Color: color},
		Marker:     MarkerStyle{Size: s.MarkerSize, Symbol: s.MarkerType, Color: color},
		ShowLegend: s.Legend.Show,
	}

	if colors.Mode == ColorGradient {
		// The colorbar replaces the legend entry; hover names the source
		// column and the raw value instead.
		tr.ShowLegend = false
		raw := ""
		if i < len(colors.RawValues) {
			raw = colors.RawValues[i]
		}
		tr.HoverText = fmt.Sprintf("%s: %s", DisplayName(colors.Source), raw)
	}
	return tr
}

// traceName resolves the display name with the legend-source precedence:
// custom column value, then filename, then technique, then the series'
// own label.
func traceName(source string, sr Series, colors ColorAssignment, i int) string {
	if isCustomSource(source) && i < len(colors.RawValues) && colors.RawValues[i] != "" {
		return colors.RawValues[i]
	}
	switch source {
	case LegendSourceFilename:
		return sr.ID
	case LegendSourceTechnique:
		if sr.Technique != "" {
			return sr.Technique
		}
	}
	if sr.Label != "" {
		return sr.Label
	}
	return sr.ID
}

// colorbarTrace is the synthetic scale-indicator trace of gradient mode.
// It carries no points and suppresses its own legend and hover entries;
// it exists purely so the renderer draws a continuous colorbar.
func colorbarTrace(colors ColorAssignment) Trace {
	return Trace{
		Name:       colors.Bar.Title,
		Mode:       LineModeMarkers,
		Marker:     MarkerStyle{Size: 0},
		ShowLegend: false,
		HoverSkip:  true,
		Colorbar:   colors.Bar,
	}
}
