package models

import (
	"fmt"
	"regexp"
	"sort"
	"time"
)

// Standard column names used across every loaded file. Raw instrument
// headers are normalized to these on load so plots can mix files from
// different instruments.
const (
	ColTime      = "time_s"
	ColPotential = "potential_V"
	ColCurrent   = "current_A"
	ColZReal     = "z_real_Ohm"
	ColZImag     = "z_imag_Ohm"
	ColZMag      = "z_mag_Ohm"
	ColZPhase    = "z_phase_deg"
	ColFrequency = "frequency_Hz"
	ColCycle     = "cycle"
)

// techniqueNames maps the technique codes embedded in instrument file
// names to display names.
var techniqueNames = map[string]string{
	"CA":   "Chronoamperometry",
	"CP":   "Chronopotentiometry",
	"CV":   "Cyclic Voltammetry",
	"LSV":  "Linear Sweep Voltammetry",
	"OCV":  "Open Circuit Voltage",
	"PEIS": "Potentiostatic EIS",
	"GEIS": "Galvanostatic EIS",
}

// AxisDefaults are the per-technique default plot columns.
type AxisDefaults struct {
	X string `json:"x"`
	Y string `json:"y"`
}

var techniqueDefaults = map[string]AxisDefaults{
	"CA":   {X: ColTime, Y: ColCurrent},
	"CP":   {X: ColTime, Y: ColPotential},
	"CV":   {X: ColPotential, Y: ColCurrent},
	"LSV":  {X: ColPotential, Y: ColCurrent},
	"OCV":  {X: ColTime, Y: ColPotential},
	"PEIS": {X: ColZReal, Y: ColZImag},
	"GEIS": {X: ColZReal, Y: ColZImag},
}

// DefaultAxes returns the default x/y columns for a technique code, or a
// time/potential fallback for unknown techniques.
func DefaultAxes(technique string) AxisDefaults {
	if d, ok := techniqueDefaults[technique]; ok {
		return d
	}
	return AxisDefaults{X: ColTime, Y: ColPotential}
}

// Techniques lists the known technique codes, sorted for UI listing.
func Techniques() []string {
	codes := make([]string, 0, len(techniqueNames))
	for code := range techniqueNames {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// TechniqueName returns the display name for a code, or the code itself
// when unknown.
func TechniqueName(code string) string {
	if name, ok := techniqueNames[code]; ok {
		return name
	}
	return code
}

// File names follow the instrument convention
// <sample>_<nn>_<TECHNIQUE>_C<mm>.<ext>, where the sequence number and
// channel suffix are both optional.
var (
	techniquePattern = regexp.MustCompile(`_\d{2}_([A-Z]+)`)
	channelPattern   = regexp.MustCompile(`_C\d+$`)
	extPattern       = regexp.MustCompile(`\.[^.]+$`)
)

// ExtractTechnique pulls the technique code out of an instrument file
// name. Returns "" when the name does not follow the convention.
func ExtractTechnique(filename string) string {
	m := techniquePattern.FindStringSubmatch(filename)
	if m == nil {
		return ""
	}
	if _, ok := techniqueNames[m[1]]; !ok {
		return ""
	}
	return m[1]
}

// DeriveLabel produces the default display label from a file name:
// extension, channel suffix and technique segment stripped.
func DeriveLabel(filename string) string {
	label := extPattern.ReplaceAllString(filename, "")
	label = channelPattern.ReplaceAllString(label, "")
	label = techniquePattern.ReplaceAllString(label, "")
	if label == "" {
		return filename
	}
	return label
}

// FileMeta is the editable per-file metadata shown in the file table.
type FileMeta struct {
	ID        string            `json:"id"`
	Label     string            `json:"label"`
	Technique string            `json:"technique,omitempty"`
	Timestamp string            `json:"timestamp,omitempty"`
	Custom    map[string]string `json:"custom,omitempty"`
}

// Dataset is one loaded file: normalized columns plus its metadata.
// Every column slice has the same length.
type Dataset struct {
	Meta    FileMeta             `json:"meta"`
	Columns map[string][]float64 `json:"columns"`
}

// ColumnNames lists the dataset's columns, sorted.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, 0, len(d.Columns))
	for name := range d.Columns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len is the number of samples in the dataset.
func (d *Dataset) Len() int {
	for _, col := range d.Columns {
		return len(col)
	}
	return 0
}

// Cycles returns the distinct cycle numbers present, sorted. Files
// without a cycle column have none.
func (d *Dataset) Cycles() []int {
	col, ok := d.Columns[ColCycle]
	if !ok {
		return nil
	}
	seen := make(map[int]bool)
	for _, v := range col {
		seen[int(v)] = true
	}
	cycles := make([]int, 0, len(seen))
	for c := range seen {
		cycles = append(cycles, c)
	}
	sort.Ints(cycles)
	return cycles
}

// Validate checks the internal consistency of a dataset: at least one
// column and all columns equal length.
func (d *Dataset) Validate() error {
	if len(d.Columns) == 0 {
		return fmt.Errorf("dataset %s has no columns", d.Meta.ID)
	}
	n := -1
	for name, col := range d.Columns {
		if n == -1 {
			n = len(col)
			continue
		}
		if len(col) != n {
			return fmt.Errorf("dataset %s: column %s has %d samples, expected %d", d.Meta.ID, name, len(col), n)
		}
	}
	return nil
}

// ParseTimestamp accepts the timestamp formats the supported instruments
// write into their headers.
func ParseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"01/02/2006 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %q", s)
}
