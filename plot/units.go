package plot

import "strings"

// unitEntry maps a display unit to the multiplicative factor from the
// stored unit. Columns are stored in SI units encoded in the column name
// (time_s, current_A, ...), so displayedValue = rawValue * factor.
type unitEntry struct {
	Unit   string
	Factor float64
}

var ohmEntries = []unitEntry{
	{"Ohm", 1},
	{"kOhm", 1e-3},
	{"mOhm", 1e3},
}

var unitFamilies = map[string][]unitEntry{
	"time_s": {
		{"s", 1},
		{"min", 1.0 / 60.0},
		{"h", 1.0 / 3600.0},
	},
	"current_A": {
		{"A", 1},
		{"mA", 1e3},
		{"uA", 1e6},
	},
	"potential_V": {
		{"V", 1},
		{"mV", 1e3},
	},
	"z_real_Ohm":   ohmEntries,
	"z_imag_Ohm":   ohmEntries,
	"z_mag_Ohm":    ohmEntries,
	"frequency_Hz": {
		{"Hz", 1},
		{"kHz", 1e-3},
		{"mHz", 1e3},
	},
}

// Factor returns the display conversion factor for a column and target
// unit. Unknown columns and unset or unknown units degrade to 1: unit
// selection is a display concern, so a lookup miss is never an error.
func Factor(column, unit string) float64 {
	if unit == "" {
		return 1
	}
	for _, e := range unitFamilies[column] {
		if e.Unit == unit {
			return e.Factor
		}
	}
	return 1
}

// Units lists the display units available for a column, starting with the
// stored unit. Empty for columns without a registered unit family.
func Units(column string) []string {
	entries := unitFamilies[column]
	units := make([]string, len(entries))
	for i, e := range entries {
		units[i] = e.Unit
	}
	return units
}

// AxisLabel derives a display label for a column, swapping the unit
// suffix when a display unit is selected: time_s shown in minutes becomes
// "time/min". Columns without a unit family keep their name.
func AxisLabel(column, unit string) string {
	entries, ok := unitFamilies[column]
	if !ok {
		return column
	}
	base := strings.TrimSuffix(column, "_"+entries[0].Unit)
	if unit == "" || Factor(column, unit) == 1 {
		return base + "/" + entries[0].Unit
	}
	return base + "/" + unit
}
