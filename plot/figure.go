package plot

import (
	"fmt"
	"sort"
)

// Series is one file's selected (x,y) samples plus descriptive metadata.
// X and Y are equal length and still in raw stored units.
type Series struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Technique string    `json:"technique,omitempty"`
	Timestamp string    `json:"timestamp,omitempty"`
	X         []float64 `json:"x"`
	Y         []float64 `json:"y"`
}

// FileInfo is the per-file metadata the engine needs: identity, the
// legend-relevant fields and the custom key/value columns edited in the
// file table.
type FileInfo struct {
	ID        string            `json:"id"`
	Label     string            `json:"label"`
	Technique string            `json:"technique,omitempty"`
	Timestamp string            `json:"timestamp,omitempty"`
	Columns   []string          `json:"columns,omitempty"`
	Cycles    []int             `json:"cycles,omitempty"`
	Custom    map[string]string `json:"custom,omitempty"`
}

// LineStyle and MarkerStyle carry the resolved trace appearance.
type LineStyle struct {
	Width int    `json:"width"`
	Color string `json:"color"`
}

type MarkerStyle struct {
	Size   int    `json:"size"`
	Symbol string `json:"symbol"`
	Color  string `json:"color"`
}

// Trace is one render-ready series. A trace with a non-nil Colorbar is
// the synthetic scale-indicator trace of gradient mode: it has no points
// and opts out of legend and hover.
type Trace struct {
	X          []float64   `json:"x"`
	Y          []float64   `json:"y"`
	XAxis      string      `json:"xaxis"`
	YAxis      string      `json:"yaxis"`
	Name       string      `json:"name"`
	Mode       string      `json:"mode"`
	Line       LineStyle   `json:"line"`
	Marker     MarkerStyle `json:"marker"`
	ShowLegend bool        `json:"show_legend"`
	HoverText  string      `json:"hover_text,omitempty"`
	HoverSkip  bool        `json:"hover_skip,omitempty"`
	Colorbar   *Colorbar   `json:"colorbar,omitempty"`
}

// Axis is one fully resolved physical axis of the figure.
type Axis struct {
	Domain         Domain   `json:"domain"`
	Anchor         string   `json:"anchor"`
	Title          string   `json:"title"`
	TitleFont      FontSpec `json:"title_font"`
	TickFont       FontSpec `json:"tick_font"`
	Log            bool     `json:"log"`
	Invert         bool     `json:"invert"`
	Min            Limit    `json:"min"`
	Max            Limit    `json:"max"`
	ShowGrid       bool     `json:"show_grid"`
	ShowTickLabels bool     `json:"show_tick_labels"`
	LineWidth      int      `json:"line_width"`
	TickWidth      int      `json:"tick_width"`
}

// Figure is the assembled, render-ready plot description handed to the
// rendering surface. Axes are keyed "x", "y", "x2", "y2", ... and traces
// reference them by key.
type Figure struct {
	Traces    []Trace         `json:"traces"`
	Axes      map[string]Axis `json:"axes"`
	Title     string          `json:"title"`
	TitleFont FontSpec        `json:"title_font"`
	Legend    LegendSettings  `json:"legend"`
	HoverMode string          `json:"hover_mode"`
	Width     int             `json:"width"`
	Height    int             `json:"height"`
}

// BuildFigure runs the pure pipeline over already-fetched series: color
// assignment, layout, trace building and final assembly. meta must be
// index-aligned with series. This is the only place canvas size is read.
func BuildFigure(s Settings, series []Series, meta []FileInfo) *Figure {
	if len(series) == 0 {
		return nil
	}

	if s.Mode == ModeTimeOrder {
		order := sortOrder(series)
		series = reorder(series, order)
		meta = reorder(meta, order)
	}

	rawMeta := make([]map[string]string, len(meta))
	for i, m := range meta {
		rawMeta[i] = m.Custom
	}
	colors := AssignColors(s.ColorScheme, s.Legend.Source, rawMeta)

	arr := arrange(s.Mode, len(series), s)

	xFactor := Factor(s.XColumn, s.XAxis.Unit)
	yFactor := Factor(s.YColumn, s.YAxis.Unit)

	var offsets []float64
	if s.Mode == ModeTimeOrder {
		offsets = timeOrderOffsets(series, xFactor)
	}

	traces := make([]Trace, 0, len(series)+1)
	for i, sr := range series {
		tr := buildTrace(s, sr, colors, i, arr.traceX[i], arr.traceY[i], xFactor, yFactor)
		if offsets != nil && offsets[i] != 0 {
			for j := range tr.X {
				tr.X[j] += offsets[i]
			}
		}
		traces = append(traces, tr)
	}
	if colors.Bar != nil {
		traces = append(traces, colorbarTrace(colors))
	}

	fig := &Figure{
		Traces:    traces,
		Axes:      assembleAxes(s, arr),
		Title:     s.Title,
		TitleFont: s.TitleFont,
		Legend:    s.Legend,
		HoverMode: s.HoverMode,
		Width:     s.Width,
		Height:    s.Height,
	}
	if fig.Title == "" {
		fig.Title = fmt.Sprintf("EC Data (%d files)", len(series))
	}
	if colors.Mode == ColorGradient {
		// The colorbar substitutes for the categorical legend.
		fig.Legend.Show = false
	}
	return fig
}

func assembleAxes(s Settings, arr arrangement) map[string]Axis {
	labelFont := s.LabelFont
	tickFont := s.TickFont
	if arr.labelScale != 1 {
		labelFont.Size = int(float64(labelFont.Size) * arr.labelScale)
		tickFont.Size = int(float64(tickFont.Size) * arr.labelScale)
	}

	xTitle := s.XAxis.Label
	if xTitle == "" {
		xTitle = AxisLabel(s.XColumn, s.XAxis.Unit)
	}
	yTitle := s.YAxis.Label
	if yTitle == "" {
		yTitle = AxisLabel(s.YColumn, s.YAxis.Unit)
	}

	axes := make(map[string]Axis, len(arr.xAxes)+len(arr.yAxes))
	for _, p := range arr.xAxes {
		axes[p.Key] = physicalAxis(s.XAxis, s, p, xTitle, labelFont, tickFont)
	}
	for _, p := range arr.yAxes {
		axes[p.Key] = physicalAxis(s.YAxis, s, p, yTitle, labelFont, tickFont)
	}
	return axes
}

// physicalAxis replicates the logical axis settings onto one placement:
// log, invert and range overrides apply to every instance of the axis no
// matter how many panels it is split across.
func physicalAxis(logical AxisSettings, s Settings, p axisPlacement, title string, labelFont, tickFont FontSpec) Axis {
	a := Axis{
		Domain:         p.Domain,
		Anchor:         p.Anchor,
		TitleFont:      labelFont,
		TickFont:       tickFont,
		Log:            logical.Log,
		Invert:         logical.Invert,
		Min:            logical.Min,
		Max:            logical.Max,
		ShowGrid:       s.ShowGrid,
		ShowTickLabels: p.ShowTickLabels,
		LineWidth:      s.AxisLineWidth,
		TickWidth:      s.TickWidth,
	}
	if p.ShowTitle {
		a.Title = title
	}
	return a
}

// sortOrder gives the time-ordered permutation of series indexes.
// ISO-8601 timestamps compare lexicographically; the sort is stable so
// series without timestamps keep their input order.
func sortOrder(series []Series) []int {
	order := make([]int, len(series))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return series[order[a]].Timestamp < series[order[b]].Timestamp
	})
	return order
}

func reorder[T any](items []T, order []int) []T {
	out := make([]T, len(items))
	for i, j := range order {
		out[i] = items[j]
	}
	return out
}
