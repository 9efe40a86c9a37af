package plot

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var defaultStacked = StackedOptions{GapPercent: 5, HideYLabels: false}

var defaultGrid = GridOptions{XGap: 0.08, YGap: 0.1}

// Defaults returns the system default settings. Required fields are left
// empty; they never have defaults.
func Defaults() Settings {
	return Settings{
		ColorScheme:   "Viridis",
		LineMode:      LineModeLines,
		MarkerType:    "circle",
		MarkerSize:    6,
		LineWidth:     2,
		AxisLineWidth: 4,
		TickWidth:     4,
		ShowGrid:      true,
		HoverMode:     "x unified",
		Width:         800,
		Height:        500,
		Legend: LegendSettings{
			Show:     true,
			Source:   LegendSourceLabel,
			Position: "right",
			Font:     FontSpec{Size: 14},
		},
		TitleFont: FontSpec{Size: 20},
		LabelFont: FontSpec{Size: 16},
		TickFont:  FontSpec{Size: 16},
	}
}

// LoadDefaults reads a YAML file of settings overrides and merges it over
// the built-in defaults. Only fields present in the file change. The
// result can be passed to ResolveWith to make the defaults swappable
// without touching callers.
func LoadDefaults(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read defaults file: %w", err)
	}
	return mergeDefaults(data)
}

func mergeDefaults(data []byte) (Settings, error) {
	d := Defaults()
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Settings{}, fmt.Errorf("failed to parse defaults file: %w", err)
	}
	// Defaults never carry required fields or variant groups; a file that
	// sets them would leak into every resolved configuration.
	d.XColumn = ""
	d.YColumn = ""
	d.Mode = ""
	d.Stacked = nil
	d.Grid = nil
	return d, nil
}
