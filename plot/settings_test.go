package plot

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestResolveRequiredFields(t *testing.T) {
	cases := []struct {
		name string
		p    PartialSettings
	}{
		{"missing x column", PartialSettings{YColumn: "current_A", Mode: ModeOverlay}},
		{"missing y column", PartialSettings{XColumn: "time_s", Mode: ModeOverlay}},
		{"missing mode", PartialSettings{XColumn: "time_s", YColumn: "current_A"}},
		{"unknown mode", PartialSettings{XColumn: "time_s", YColumn: "current_A", Mode: "spiral"}},
	}
	for _, tc := range cases {
		if _, err := Resolve(tc.p); err == nil {
			t.Errorf("%s: expected error, got none", tc.name)
		}
	}
}

func TestResolveAppliesDefaults(t *testing.T) {
	s, err := Resolve(PartialSettings{XColumn: "time_s", YColumn: "current_A", Mode: ModeOverlay})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if s.ColorScheme != "Viridis" {
		t.Errorf("expected default scheme Viridis, got %q", s.ColorScheme)
	}
	if s.LineMode != LineModeLines {
		t.Errorf("expected default line mode, got %q", s.LineMode)
	}
	if !s.Legend.Show || s.Legend.Source != LegendSourceLabel {
		t.Errorf("unexpected legend defaults: %+v", s.Legend)
	}
	if s.Width != 800 || s.Height != 500 {
		t.Errorf("unexpected canvas defaults: %dx%d", s.Width, s.Height)
	}
	if s.Stacked != nil || s.Grid != nil {
		t.Error("overlay mode must not carry stacked or grid options")
	}
}

func TestResolvePartialOverrides(t *testing.T) {
	min := -0.5
	s, err := Resolve(PartialSettings{
		XColumn:     "potential_V",
		YColumn:     "current_A",
		Mode:        ModeOverlay,
		ColorScheme: ptr("Plasma"),
		ShowGrid:    ptr(false),
		YAxis:       &PartialAxis{Log: ptr(true), Min: &min},
	})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if s.ColorScheme != "Plasma" {
		t.Errorf("scheme override lost: %q", s.ColorScheme)
	}
	if s.ShowGrid {
		t.Error("show grid override lost")
	}
	if !s.YAxis.Log {
		t.Error("y log override lost")
	}
	if !s.YAxis.Min.Set || s.YAxis.Min.Value != -0.5 {
		t.Errorf("y min override lost: %+v", s.YAxis.Min)
	}
	if s.XAxis.Log {
		t.Error("x axis unexpectedly log")
	}
}

func TestResolveVariantValidation(t *testing.T) {
	p := PartialSettings{
		XColumn: "time_s", YColumn: "current_A", Mode: ModeOverlay,
		Stacked: &StackedOptions{GapPercent: 10},
	}
	if _, err := Resolve(p); err == nil {
		t.Error("stacked options with overlay mode should fail")
	}

	p = PartialSettings{
		XColumn: "time_s", YColumn: "current_A", Mode: ModeYStacked,
		Grid: &GridOptions{XGap: 0.1},
	}
	if _, err := Resolve(p); err == nil {
		t.Error("grid options with stacked mode should fail")
	}

	p = PartialSettings{XColumn: "time_s", YColumn: "current_A", Mode: ModeYStacked}
	s, err := Resolve(p)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if s.Stacked == nil {
		t.Fatal("stacked mode must populate stacked options")
	}
	if s.Stacked.GapPercent != 5 {
		t.Errorf("expected default gap 5, got %v", s.Stacked.GapPercent)
	}
}

func TestResolveIdempotent(t *testing.T) {
	partials := []PartialSettings{
		{XColumn: "time_s", YColumn: "current_A", Mode: ModeOverlay},
		{XColumn: "time_s", YColumn: "potential_V", Mode: ModeYStacked,
			Stacked: &StackedOptions{GapPercent: 12, HideYLabels: true}},
		{XColumn: "z_real_Ohm", YColumn: "z_imag_Ohm", Mode: ModeGrid,
			ColorScheme: ptr("Turbo"),
			YAxis:       &PartialAxis{Invert: ptr(true)}},
		{XColumn: "time_s", YColumn: "current_A", Mode: ModeTimeOrder,
			Title:  ptr("Run 7"),
			Legend: &PartialLegend{Source: ptr("sample_loading")}},
	}
	for i, p := range partials {
		once, err := Resolve(p)
		if err != nil {
			t.Fatalf("case %d: first resolve failed: %v", i, err)
		}
		twice, err := Resolve(once.Partial())
		if err != nil {
			t.Fatalf("case %d: second resolve failed: %v", i, err)
		}
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("case %d: resolve not idempotent:\nonce:  %+v\ntwice: %+v", i, once, twice)
		}
	}
}

func TestSettingsJSONRoundTrip(t *testing.T) {
	s, err := Resolve(PartialSettings{
		XColumn: "time_s", YColumn: "current_A", Mode: ModeYStacked,
		Stacked: &StackedOptions{GapPercent: 8},
		XAxis:   &PartialAxis{Unit: ptr("min")},
	})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var back Settings
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(s, back) {
		t.Errorf("settings changed over JSON round trip:\nbefore: %+v\nafter:  %+v", s, back)
	}
}

func TestMergeDefaultsFromYAML(t *testing.T) {
	d, err := mergeDefaults([]byte("color_scheme: Spectral\nwidth: 1200\nlegend:\n  position: bottom\n"))
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if d.ColorScheme != "Spectral" {
		t.Errorf("scheme override lost: %q", d.ColorScheme)
	}
	if d.Width != 1200 {
		t.Errorf("width override lost: %d", d.Width)
	}
	if d.Legend.Position != "bottom" {
		t.Errorf("legend position override lost: %q", d.Legend.Position)
	}
	// Untouched fields keep the built-in defaults.
	if d.Height != 500 {
		t.Errorf("height changed unexpectedly: %d", d.Height)
	}
}
