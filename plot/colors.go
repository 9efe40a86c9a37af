package plot

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Color scheme stops, sampled rather than interpolated.
var colorSchemes = map[string][]string{
	"Viridis": {
		"#440154", "#482878", "#3e4989", "#31688e", "#26828e",
		"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
	},
	"Plasma": {
		"#0d0887", "#46039f", "#7201a8", "#9c179e", "#bd3786",
		"#d8576b", "#ed7953", "#fb9f3a", "#fdca26", "#f0f921",
	},
	"Inferno": {
		"#000004", "#1b0c41", "#4a0c6b", "#781c6d", "#a52c60",
		"#cf4446", "#ed6925", "#fb9b06", "#f7d13d", "#fcffa4",
	},
	"Magma": {
		"#000004", "#180f3d", "#440f76", "#721f81", "#9e2f7f",
		"#cd4071", "#f1605d", "#fd9668", "#feca8d", "#fcfdbf",
	},
	"Cividis": {
		"#00224e", "#123570", "#3b496c", "#575d6d", "#707173",
		"#8a8678", "#a59c74", "#c3b369", "#e1cc55", "#fee838",
	},
	"Turbo": {
		"#30123b", "#4458cb", "#3e9bfe", "#18d6cb", "#46f884",
		"#a2fc3c", "#e1dd37", "#fea632", "#e14209", "#7a0403",
	},
	"Blues": {
		"#f7fbff", "#deebf7", "#c6dbef", "#9ecae1", "#6baed6",
		"#4292c6", "#2171b5", "#08519c", "#08306b",
	},
	"Reds": {
		"#fff5f0", "#fee0d2", "#fcbba1", "#fc9272", "#fb6a4a",
		"#ef3b2c", "#cb181d", "#a50f15", "#67000d",
	},
	"Greens": {
		"#f7fcf5", "#e5f5e0", "#c7e9c0", "#a1d99b", "#74c476",
		"#41ab5d", "#238b45", "#006d2c", "#00441b",
	},
	"Spectral": {
		"#9e0142", "#d53e4f", "#f46d43", "#fdae61", "#fee08b",
		"#ffffbf", "#e6f598", "#abdda4", "#66c2a5", "#3288bd", "#5e4fa2",
	},
}

// SchemeNames returns the available color scheme names for UI listing.
func SchemeNames() []string {
	names := make([]string, 0, len(colorSchemes))
	for name := range colorSchemes {
		names = append(names, name)
	}
	return names
}

func schemeStops(name string) []string {
	if stops, ok := colorSchemes[name]; ok {
		return stops
	}
	return colorSchemes["Viridis"]
}

// ColorMode distinguishes discrete per-series colors from the continuous
// colorbar keyed by a numeric metadata column.
type ColorMode string

const (
	ColorCategorical ColorMode = "categorical"
	ColorGradient    ColorMode = "gradient"
)

// Colorbar describes the continuous scale indicator shown in gradient
// mode in place of the categorical legend.
type Colorbar struct {
	Scheme string  `json:"scheme"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Title  string  `json:"title"`
}

// ColorAssignment holds one display color per series. In gradient mode it
// additionally carries the numeric values it was sampled from and the
// colorbar descriptor; in categorical mode with a metadata legend source
// it carries the raw string labels instead.
type ColorAssignment struct {
	Mode   ColorMode
	Colors []string

	// Gradient mode only.
	Values   []float64
	Min, Max float64
	Source   string
	Bar      *Colorbar

	// Raw metadata values when the legend source names a custom column.
	RawValues []string
}

// AssignColors picks a color for each of n series. When legendSource
// names a custom metadata column and every series has a numeric value for
// it, colors follow the value on a continuous scale (gradient mode).
// Otherwise series are colored by sampling the scheme endpoints-inclusive
// at evenly spaced positions.
func AssignColors(scheme string, legendSource string, meta []map[string]string) ColorAssignment {
	n := len(meta)
	stops := schemeStops(scheme)

	if isCustomSource(legendSource) {
		raw := make([]string, n)
		values := make([]float64, n)
		numeric := true
		for i, m := range meta {
			v, ok := m[legendSource]
			raw[i] = v
			if !ok || v == "" {
				numeric = false
				continue
			}
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				numeric = false
				continue
			}
			values[i] = f
		}
		if numeric && n > 0 {
			return gradientAssignment(scheme, stops, legendSource, values, raw)
		}
		// Non-numeric values: stay categorical but keep the raw strings
		// so traces can still be labelled by the column.
		return ColorAssignment{
			Mode:      ColorCategorical,
			Colors:    categoricalColors(stops, n),
			RawValues: raw,
		}
	}

	return ColorAssignment{
		Mode:   ColorCategorical,
		Colors: categoricalColors(stops, n),
	}
}

// categoricalColors samples stop i*(len-1)/max(n-1,1) for series i, so the
// first and last series always land on the scheme endpoints.
func categoricalColors(stops []string, n int) []string {
	colors := make([]string, n)
	div := n - 1
	if div < 1 {
		div = 1
	}
	for i := 0; i < n; i++ {
		colors[i] = stops[i*(len(stops)-1)/div]
	}
	return colors
}

func gradientAssignment(scheme string, stops []string, source string, values []float64, raw []string) ColorAssignment {
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	colors := make([]string, len(values))
	for i, v := range values {
		pos := 0.5
		if max > min {
			pos = (v - min) / (max - min)
		}
		// Sampling floors to a stop index, so nearby values can share a
		// color. Interpolating between stops would smooth this out.
		idx := int(pos * float64(len(stops)-1))
		if idx < 0 {
			idx = 0
		}
		if idx > len(stops)-1 {
			idx = len(stops) - 1
		}
		colors[i] = stops[idx]
	}

	return ColorAssignment{
		Mode:      ColorGradient,
		Colors:    colors,
		Values:    values,
		Min:       min,
		Max:       max,
		Source:    source,
		RawValues: raw,
		Bar: &Colorbar{
			Scheme: scheme,
			Min:    min,
			Max:    max,
			Title:  DisplayName(source),
		},
	}
}

func isCustomSource(source string) bool {
	switch source {
	case "", LegendSourceLabel, LegendSourceFilename, LegendSourceTechnique:
		return false
	}
	return true
}

// DisplayName converts a metadata column key into the form shown in
// legends and colorbar titles: underscores to spaces, title case.
func DisplayName(key string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(key, "_", " "))
}
