package plot

import (
	"math"
	"testing"
)

func stackedSettings(gapPercent float64) Settings {
	s, err := Resolve(PartialSettings{
		XColumn: "time_s", YColumn: "current_A", Mode: ModeYStacked,
		Stacked: &StackedOptions{GapPercent: gapPercent},
	})
	if err != nil {
		panic(err)
	}
	return s
}

func gridSettings() Settings {
	s, err := Resolve(PartialSettings{
		XColumn: "time_s", YColumn: "current_A", Mode: ModeGrid,
	})
	if err != nil {
		panic(err)
	}
	return s
}

func TestArrangeOverlaySharesOneAxisPair(t *testing.T) {
	s, _ := Resolve(PartialSettings{XColumn: "time_s", YColumn: "current_A", Mode: ModeOverlay})
	a := arrange(ModeOverlay, 4, s)
	if len(a.xAxes) != 1 || len(a.yAxes) != 1 {
		t.Fatalf("expected one axis pair, got %d x, %d y", len(a.xAxes), len(a.yAxes))
	}
	for i := 0; i < 4; i++ {
		if a.traceX[i] != "x" || a.traceY[i] != "y" {
			t.Errorf("series %d not on the shared pair: %s/%s", i, a.traceX[i], a.traceY[i])
		}
	}
	if a.xAxes[0].Domain != (Domain{0, 1}) || a.yAxes[0].Domain != (Domain{0, 1}) {
		t.Error("overlay axes must span the full canvas")
	}
}

func TestArrangeStackedDegeneratesToOverlay(t *testing.T) {
	a := arrange(ModeYStacked, 1, stackedSettings(5))
	if len(a.yAxes) != 1 || a.yAxes[0].Domain != (Domain{0, 1}) {
		t.Error("single series must use the full canvas in any mode")
	}
}

func TestArrangeStackedDomains(t *testing.T) {
	const n = 4
	gapPercent := 5.0
	gap := gapPercent / 100
	a := arrange(ModeYStacked, n, stackedSettings(gapPercent))

	if len(a.yAxes) != n {
		t.Fatalf("expected %d y axes, got %d", n, len(a.yAxes))
	}

	// Panels are top-to-bottom in input order, pairwise non-overlapping,
	// and collectively span [0,1] minus the gaps.
	total := 0.0
	for i, ax := range a.yAxes {
		d := ax.Domain
		if d.End <= d.Start {
			t.Fatalf("panel %d has degenerate domain %+v", i, d)
		}
		total += d.End - d.Start
		if i > 0 {
			prev := a.yAxes[i-1].Domain
			if d.End > prev.Start+1e-9 {
				t.Errorf("panel %d overlaps panel %d: %+v vs %+v", i, i-1, d, prev)
			}
		}
	}
	want := 1.0 - gap*float64(n-1)
	if math.Abs(total-want) > 1e-9 {
		t.Errorf("panels cover %v of the canvas, want %v", total, want)
	}
	if math.Abs(a.yAxes[0].Domain.End-1.0) > 1e-9 {
		t.Errorf("first panel should start at the top, got %+v", a.yAxes[0].Domain)
	}
	if math.Abs(a.yAxes[n-1].Domain.Start) > 1e-9 {
		t.Errorf("last panel should end at the bottom, got %+v", a.yAxes[n-1].Domain)
	}
}

func TestArrangeStackedTitles(t *testing.T) {
	const n = 5
	a := arrange(ModeYStacked, n, stackedSettings(5))

	for i, ax := range a.xAxes {
		want := i == n-1
		if ax.ShowTitle != want || ax.ShowTickLabels != want {
			t.Errorf("x axis %d: title/ticks on wrong panel", i)
		}
	}
	for i, ax := range a.yAxes {
		if ax.ShowTitle != (i == n/2) {
			t.Errorf("y title should sit on the middle panel, wrong at %d", i)
		}
	}
}

func TestArrangeStackedHideYLabels(t *testing.T) {
	s := stackedSettings(5)
	s.Stacked.HideYLabels = true
	a := arrange(ModeYStacked, 3, s)
	for i, ax := range a.yAxes {
		if ax.ShowTitle || ax.ShowTickLabels {
			t.Errorf("panel %d: y labels should be hidden", i)
		}
	}
}

func TestArrangeGridShape(t *testing.T) {
	cases := []struct {
		n, cols, rows int
	}{
		{2, 2, 1},
		{3, 2, 2},
		{4, 2, 2},
		{5, 3, 2},
		{9, 3, 3},
		{10, 4, 3},
	}
	for _, tc := range cases {
		cols := int(math.Ceil(math.Sqrt(float64(tc.n))))
		rows := (tc.n + cols - 1) / cols
		if cols != tc.cols || rows != tc.rows {
			t.Errorf("n=%d: got %dx%d grid, want %dx%d", tc.n, cols, rows, tc.cols, tc.rows)
		}
	}
}

func TestArrangeGridUniqueCells(t *testing.T) {
	const n = 5
	a := arrange(ModeGrid, n, gridSettings())
	if len(a.xAxes) != n || len(a.yAxes) != n {
		t.Fatalf("expected %d axis pairs, got %d/%d", n, len(a.xAxes), len(a.yAxes))
	}
	seen := make(map[Domain]map[Domain]bool)
	for i := 0; i < n; i++ {
		xd := a.xAxes[i].Domain
		yd := a.yAxes[i].Domain
		if seen[xd][yd] {
			t.Errorf("series %d shares a cell with an earlier series", i)
		}
		if seen[xd] == nil {
			seen[xd] = make(map[Domain]bool)
		}
		seen[xd][yd] = true
		if a.traceX[i] != a.xAxes[i].Key || a.traceY[i] != a.yAxes[i].Key {
			t.Errorf("series %d not assigned to its own cell axes", i)
		}
	}
}

func TestArrangeGridTitlePlacement(t *testing.T) {
	// 5 series in a 3x2 grid: bottom row holds cells 3,4; cell 2 (top
	// right) is the bottom-most occupied cell of its column.
	a := arrange(ModeGrid, 5, gridSettings())
	wantXTitle := []bool{false, false, true, true, true}
	for i, ax := range a.xAxes {
		if ax.ShowTitle != wantXTitle[i] {
			t.Errorf("cell %d: x title = %v, want %v", i, ax.ShowTitle, wantXTitle[i])
		}
	}
	wantYTitle := []bool{true, false, false, true, false}
	for i, ax := range a.yAxes {
		if ax.ShowTitle != wantYTitle[i] {
			t.Errorf("cell %d: y title = %v, want %v", i, ax.ShowTitle, wantYTitle[i])
		}
	}
	if a.labelScale >= 1 {
		t.Errorf("grid mode should shrink label fonts, scale = %v", a.labelScale)
	}
}

func TestTimeOrderOffsets(t *testing.T) {
	series := []Series{
		{ID: "b", X: []float64{0, 2, 5}},
		{ID: "a", X: []float64{0, 4, 10}},
	}
	offsets := timeOrderOffsets(series, 1)
	if offsets[0] != 0 {
		t.Errorf("first series must be unshifted, got %v", offsets[0])
	}
	if offsets[1] != 5 {
		t.Errorf("second series should shift by the first's max, got %v", offsets[1])
	}
}

func TestTimeOrderOffsetsSkipEmpty(t *testing.T) {
	series := []Series{
		{ID: "a", X: []float64{0, 3}},
		{ID: "empty"},
		{ID: "c", X: []float64{0, 1}},
	}
	offsets := timeOrderOffsets(series, 1)
	if offsets[1] != 3 || offsets[2] != 3 {
		t.Errorf("empty series must contribute nothing: %v", offsets)
	}
}

func TestTimeOrderOffsetsApplyUnitFactor(t *testing.T) {
	series := []Series{
		{ID: "a", X: []float64{0, 60}},
		{ID: "b", X: []float64{0, 60}},
	}
	offsets := timeOrderOffsets(series, 1.0/60.0)
	if math.Abs(offsets[1]-1.0) > 1e-12 {
		t.Errorf("offset should be in display units, got %v", offsets[1])
	}
}
