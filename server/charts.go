package server

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/echemview/plot"
)

// renderFigure converts an assembled figure into a go-echarts line chart
// for the server-side HTML preview. The preview projects every trace
// onto one grid; panel domains only apply in the JSON figure consumed by
// richer frontends.
func renderFigure(fig *plot.Figure) *charts.Line {
	line := charts.NewLine()

	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  fmt.Sprintf("%dpx", fig.Width),
			Height: fmt.Sprintf("%dpx", fig.Height),
		}),
		charts.WithTitleOpts(opts.Title{
			Title: fig.Title,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
			AxisPointer: &opts.AxisPointer{
				Type: "cross",
			},
		}),
		charts.WithLegendOpts(legendOpts(fig.Legend)),
		charts.WithXAxisOpts(axisOpts(fig.Axes["x"])),
		charts.WithYAxisOpts(opts.YAxis{
			Name:         fig.Axes["y"].Title,
			NameLocation: "middle",
			NameGap:      50,
			Type:         axisType(fig.Axes["y"]),
			Scale:        opts.Bool(true),
			Min:          axisBound(fig.Axes["y"].Min),
			Max:          axisBound(fig.Axes["y"].Max),
		}),
	)

	for _, tr := range fig.Traces {
		if tr.Colorbar != nil {
			continue
		}
		line.AddSeries(tr.Name, lineItems(tr),
			charts.WithLineStyleOpts(opts.LineStyle{
				Color: tr.Line.Color,
				Width: float32(tr.Line.Width),
			}),
			charts.WithItemStyleOpts(opts.ItemStyle{
				Color: tr.Line.Color,
			}),
		)
	}

	return line
}

func legendOpts(legend plot.LegendSettings) opts.Legend {
	l := opts.Legend{
		Show:    opts.Bool(legend.Show),
		Padding: 8,
	}
	switch legend.Position {
	case "left":
		l.Left = "left"
	case "top":
		l.Top = "top"
	case "bottom":
		l.Bottom = "bottom"
	default:
		l.Left = "right"
	}
	return l
}

func axisOpts(a plot.Axis) opts.XAxis {
	return opts.XAxis{
		Name: a.Title,
		Type: axisType(a),
		Min:  axisBound(a.Min),
		Max:  axisBound(a.Max),
	}
}

func axisType(a plot.Axis) string {
	if a.Log {
		return "log"
	}
	return "value"
}

func axisBound(l plot.Limit) interface{} {
	if !l.Set {
		return nil
	}
	return l.Value
}

// lineItems pairs each sample as an (x, y) value so the chart can use a
// numeric x axis.
func lineItems(tr plot.Trace) []opts.LineData {
	items := make([]opts.LineData, 0, len(tr.X))
	for i := range tr.X {
		items = append(items, opts.LineData{Value: []interface{}{tr.X[i], tr.Y[i]}})
	}
	return items
}
