package plot

import (
	"fmt"
)

// Mode selects how multiple series are arranged on the canvas.
type Mode string

const (
	ModeOverlay   Mode = "overlay"
	ModeYStacked  Mode = "y_stacked"
	ModeTimeOrder Mode = "time_order"
	ModeGrid      Mode = "grid"
)

// Line drawing modes for traces.
const (
	LineModeLines        = "lines"
	LineModeMarkers      = "markers"
	LineModeLinesMarkers = "lines+markers"
)

// Built-in legend sources. Anything else names a custom metadata column.
const (
	LegendSourceLabel     = "label"
	LegendSourceFilename  = "filename"
	LegendSourceTechnique = "technique"
)

// FontSpec describes the font of one text element.
type FontSpec struct {
	Size      int  `json:"size" yaml:"size"`
	Bold      bool `json:"bold" yaml:"bold"`
	Italic    bool `json:"italic" yaml:"italic"`
	Underline bool `json:"underline" yaml:"underline"`
}

// Limit is an optional axis range bound. An unset limit means autorange.
type Limit struct {
	Set   bool    `json:"set" yaml:"set"`
	Value float64 `json:"value" yaml:"value"`
}

// AxisSettings holds the per-logical-axis controls. In stacked and grid
// modes the same settings are replicated onto every physical axis instance.
type AxisSettings struct {
	Log    bool   `json:"log" yaml:"log"`
	Invert bool   `json:"invert" yaml:"invert"`
	Min    Limit  `json:"min" yaml:"min"`
	Max    Limit  `json:"max" yaml:"max"`
	Label  string `json:"label" yaml:"label"` // empty = derive from column and unit
	Unit   string `json:"unit" yaml:"unit"`   // empty = raw stored unit
}

// LegendSettings controls legend visibility, labelling and placement.
type LegendSettings struct {
	Show     bool     `json:"show" yaml:"show"`
	Source   string   `json:"source" yaml:"source"`
	Position string   `json:"position" yaml:"position"`
	Font     FontSpec `json:"font" yaml:"font"`
}

// StackedOptions only apply to ModeYStacked.
type StackedOptions struct {
	GapPercent  float64 `json:"gap_percent" yaml:"gap_percent"`
	HideYLabels bool    `json:"hide_y_labels" yaml:"hide_y_labels"`
}

// GridOptions only apply to ModeGrid. Gaps are figure fractions.
type GridOptions struct {
	XGap float64 `json:"x_gap" yaml:"x_gap"`
	YGap float64 `json:"y_gap" yaml:"y_gap"`
}

// Settings is a fully resolved plot configuration. Every field is
// populated after Resolve, so later pipeline stages never check for
// missing values. Stacked and Grid are the mode-specific variants: each
// is non-nil exactly when Mode matches it.
type Settings struct {
	XColumn string `json:"x_column" yaml:"x_column"`
	YColumn string `json:"y_column" yaml:"y_column"`
	Mode    Mode   `json:"plot_mode" yaml:"plot_mode"`

	Title         string `json:"title" yaml:"title"` // empty = auto-generated
	ColorScheme   string `json:"color_scheme" yaml:"color_scheme"`
	LineMode      string `json:"line_mode" yaml:"line_mode"`
	MarkerType    string `json:"marker_type" yaml:"marker_type"`
	MarkerSize    int    `json:"marker_size" yaml:"marker_size"`
	LineWidth     int    `json:"line_width" yaml:"line_width"`
	AxisLineWidth int    `json:"axis_line_width" yaml:"axis_line_width"`
	TickWidth     int    `json:"tick_width" yaml:"tick_width"`
	ShowGrid      bool   `json:"show_grid" yaml:"show_grid"`
	HoverMode     string `json:"hover_mode" yaml:"hover_mode"`
	Width         int    `json:"width" yaml:"width"`
	Height        int    `json:"height" yaml:"height"`

	XAxis AxisSettings `json:"x_axis" yaml:"x_axis"`
	YAxis AxisSettings `json:"y_axis" yaml:"y_axis"`

	Legend LegendSettings `json:"legend" yaml:"legend"`

	TitleFont FontSpec `json:"title_font" yaml:"title_font"`
	LabelFont FontSpec `json:"label_font" yaml:"label_font"`
	TickFont  FontSpec `json:"tick_font" yaml:"tick_font"`

	Stacked *StackedOptions `json:"stacked,omitempty" yaml:"stacked,omitempty"`
	Grid    *GridOptions    `json:"grid,omitempty" yaml:"grid,omitempty"`
}

// PartialAxis mirrors AxisSettings with every field optional.
type PartialAxis struct {
	Log    *bool    `json:"log,omitempty"`
	Invert *bool    `json:"invert,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
	Label  *string  `json:"label,omitempty"`
	Unit   *string  `json:"unit,omitempty"`
}

// PartialLegend mirrors LegendSettings with every field optional.
type PartialLegend struct {
	Show     *bool     `json:"show,omitempty"`
	Source   *string   `json:"source,omitempty"`
	Position *string   `json:"position,omitempty"`
	Font     *FontSpec `json:"font,omitempty"`
}

// PartialSettings is the caller-supplied configuration. XColumn, YColumn
// and Mode are required; everything else falls back to defaults.
type PartialSettings struct {
	XColumn string `json:"x_column"`
	YColumn string `json:"y_column"`
	Mode    Mode   `json:"plot_mode"`

	Title         *string `json:"title,omitempty"`
	ColorScheme   *string `json:"color_scheme,omitempty"`
	LineMode      *string `json:"line_mode,omitempty"`
	MarkerType    *string `json:"marker_type,omitempty"`
	MarkerSize    *int    `json:"marker_size,omitempty"`
	LineWidth     *int    `json:"line_width,omitempty"`
	AxisLineWidth *int    `json:"axis_line_width,omitempty"`
	TickWidth     *int    `json:"tick_width,omitempty"`
	ShowGrid      *bool   `json:"show_grid,omitempty"`
	HoverMode     *string `json:"hover_mode,omitempty"`
	Width         *int    `json:"width,omitempty"`
	Height        *int    `json:"height,omitempty"`

	XAxis *PartialAxis `json:"x_axis,omitempty"`
	YAxis *PartialAxis `json:"y_axis,omitempty"`

	Legend *PartialLegend `json:"legend,omitempty"`

	TitleFont *FontSpec `json:"title_font,omitempty"`
	LabelFont *FontSpec `json:"label_font,omitempty"`
	TickFont  *FontSpec `json:"tick_font,omitempty"`

	Stacked *StackedOptions `json:"stacked,omitempty"`
	Grid    *GridOptions    `json:"grid,omitempty"`
}

// Resolve merges p with the package defaults. See ResolveWith.
func Resolve(p PartialSettings) (Settings, error) {
	return ResolveWith(p, Defaults())
}

// ResolveWith fills every unset optional field of p from d and validates
// the result. Required fields are never defaulted: a missing x/y column
// or plot mode is a caller error. Mode-specific option groups are only
// accepted for their own mode.
func ResolveWith(p PartialSettings, d Settings) (Settings, error) {
	if p.XColumn == "" {
		return Settings{}, fmt.Errorf("resolve settings: x column is required")
	}
	if p.YColumn == "" {
		return Settings{}, fmt.Errorf("resolve settings: y column is required")
	}
	switch p.Mode {
	case ModeOverlay, ModeYStacked, ModeTimeOrder, ModeGrid:
	case "":
		return Settings{}, fmt.Errorf("resolve settings: plot mode is required")
	default:
		return Settings{}, fmt.Errorf("resolve settings: unknown plot mode %q", p.Mode)
	}
	if p.Stacked != nil && p.Mode != ModeYStacked {
		return Settings{}, fmt.Errorf("resolve settings: stacked options are only valid for %s mode", ModeYStacked)
	}
	if p.Grid != nil && p.Mode != ModeGrid {
		return Settings{}, fmt.Errorf("resolve settings: grid options are only valid for %s mode", ModeGrid)
	}

	s := d
	s.XColumn = p.XColumn
	s.YColumn = p.YColumn
	s.Mode = p.Mode

	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.ColorScheme != nil {
		s.ColorScheme = *p.ColorScheme
	}
	if p.LineMode != nil {
		s.LineMode = *p.LineMode
	}
	if p.MarkerType != nil {
		s.MarkerType = *p.MarkerType
	}
	if p.MarkerSize != nil {
		s.MarkerSize = *p.MarkerSize
	}
	if p.LineWidth != nil {
		s.LineWidth = *p.LineWidth
	}
	if p.AxisLineWidth != nil {
		s.AxisLineWidth = *p.AxisLineWidth
	}
	if p.TickWidth != nil {
		s.TickWidth = *p.TickWidth
	}
	if p.ShowGrid != nil {
		s.ShowGrid = *p.ShowGrid
	}
	if p.HoverMode != nil {
		s.HoverMode = *p.HoverMode
	}
	if p.Width != nil {
		s.Width = *p.Width
	}
	if p.Height != nil {
		s.Height = *p.Height
	}

	s.XAxis = resolveAxis(p.XAxis, d.XAxis)
	s.YAxis = resolveAxis(p.YAxis, d.YAxis)

	if p.Legend != nil {
		if p.Legend.Show != nil {
			s.Legend.Show = *p.Legend.Show
		}
		if p.Legend.Source != nil {
			s.Legend.Source = *p.Legend.Source
		}
		if p.Legend.Position != nil {
			s.Legend.Position = *p.Legend.Position
		}
		if p.Legend.Font != nil {
			s.Legend.Font = *p.Legend.Font
		}
	}

	if p.TitleFont != nil {
		s.TitleFont = *p.TitleFont
	}
	if p.LabelFont != nil {
		s.LabelFont = *p.LabelFont
	}
	if p.TickFont != nil {
		s.TickFont = *p.TickFont
	}

	// Variant groups: populate the one matching the mode, drop the rest.
	s.Stacked = nil
	s.Grid = nil
	switch p.Mode {
	case ModeYStacked:
		if p.Stacked != nil {
			opts := *p.Stacked
			s.Stacked = &opts
		} else if d.Stacked != nil {
			opts := *d.Stacked
			s.Stacked = &opts
		} else {
			opts := defaultStacked
			s.Stacked = &opts
		}
	case ModeGrid:
		if p.Grid != nil {
			opts := *p.Grid
			s.Grid = &opts
		} else if d.Grid != nil {
			opts := *d.Grid
			s.Grid = &opts
		} else {
			opts := defaultGrid
			s.Grid = &opts
		}
	}

	return s, nil
}

func resolveAxis(p *PartialAxis, d AxisSettings) AxisSettings {
	a := d
	if p == nil {
		return a
	}
	if p.Log != nil {
		a.Log = *p.Log
	}
	if p.Invert != nil {
		a.Invert = *p.Invert
	}
	if p.Min != nil {
		a.Min = Limit{Set: true, Value: *p.Min}
	}
	if p.Max != nil {
		a.Max = Limit{Set: true, Value: *p.Max}
	}
	if p.Label != nil {
		a.Label = *p.Label
	}
	if p.Unit != nil {
		a.Unit = *p.Unit
	}
	return a
}

// Partial converts a resolved Settings back into a PartialSettings with
// every field set. Resolve(s.Partial()) reproduces s exactly, which is
// what makes resolution idempotent.
func (s Settings) Partial() PartialSettings {
	p := PartialSettings{
		XColumn:       s.XColumn,
		YColumn:       s.YColumn,
		Mode:          s.Mode,
		Title:         ptr(s.Title),
		ColorScheme:   ptr(s.ColorScheme),
		LineMode:      ptr(s.LineMode),
		MarkerType:    ptr(s.MarkerType),
		MarkerSize:    ptr(s.MarkerSize),
		LineWidth:     ptr(s.LineWidth),
		AxisLineWidth: ptr(s.AxisLineWidth),
		TickWidth:     ptr(s.TickWidth),
		ShowGrid:      ptr(s.ShowGrid),
		HoverMode:     ptr(s.HoverMode),
		Width:         ptr(s.Width),
		Height:        ptr(s.Height),
		XAxis:         partialAxis(s.XAxis),
		YAxis:         partialAxis(s.YAxis),
		Legend: &PartialLegend{
			Show:     ptr(s.Legend.Show),
			Source:   ptr(s.Legend.Source),
			Position: ptr(s.Legend.Position),
			Font:     ptr(s.Legend.Font),
		},
		TitleFont: ptr(s.TitleFont),
		LabelFont: ptr(s.LabelFont),
		TickFont:  ptr(s.TickFont),
	}
	if s.Stacked != nil {
		opts := *s.Stacked
		p.Stacked = &opts
	}
	if s.Grid != nil {
		opts := *s.Grid
		p.Grid = &opts
	}
	return p
}

func partialAxis(a AxisSettings) *PartialAxis {
	p := &PartialAxis{
		Log:    ptr(a.Log),
		Invert: ptr(a.Invert),
		Label:  ptr(a.Label),
		Unit:   ptr(a.Unit),
	}
	if a.Min.Set {
		p.Min = ptr(a.Min.Value)
	}
	if a.Max.Set {
		p.Max = ptr(a.Max.Value)
	}
	return p
}

func ptr[T any](v T) *T { return &v }
