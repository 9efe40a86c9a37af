package plot

import (
	"fmt"
	"math"
)

// Domain is a normalized [0,1] figure-fraction extent of one axis.
type Domain struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// axisPlacement is one physical axis instance produced by the layout.
type axisPlacement struct {
	Key            string
	Domain         Domain
	Anchor         string
	ShowTitle      bool
	ShowTickLabels bool
}

// arrangement maps N series onto physical axes. TraceX/TraceY give the
// axis key for each series index; labelScale shrinks axis label fonts in
// grid mode where cells are small.
type arrangement struct {
	xAxes      []axisPlacement
	yAxes      []axisPlacement
	traceX     []string
	traceY     []string
	labelScale float64
}

func xKey(i int) string {
	if i == 0 {
		return "x"
	}
	return fmt.Sprintf("x%d", i+1)
}

func yKey(i int) string {
	if i == 0 {
		return "y"
	}
	return fmt.Sprintf("y%d", i+1)
}

// arrange computes the trace-to-axis assignment and axis domains for n
// series in the given mode. n == 0 yields an empty arrangement; callers
// decide what an empty figure looks like.
func arrange(mode Mode, n int, s Settings) arrangement {
	if n == 0 {
		return arrangement{labelScale: 1}
	}
	// A single series degenerates to a shared full-canvas axis pair in
	// every mode.
	if mode == ModeOverlay || mode == ModeTimeOrder || n == 1 {
		return arrangeOverlay(n)
	}
	if mode == ModeYStacked {
		return arrangeStacked(n, s)
	}
	return arrangeGrid(n, s)
}

func arrangeOverlay(n int) arrangement {
	full := Domain{Start: 0, End: 1}
	a := arrangement{
		xAxes:      []axisPlacement{{Key: "x", Domain: full, Anchor: "y", ShowTitle: true, ShowTickLabels: true}},
		yAxes:      []axisPlacement{{Key: "y", Domain: full, Anchor: "x", ShowTitle: true, ShowTickLabels: true}},
		labelScale: 1,
	}
	for i := 0; i < n; i++ {
		a.traceX = append(a.traceX, "x")
		a.traceY = append(a.traceY, "y")
	}
	return a
}

// arrangeStacked shares the x range across one panel per series, panels
// ordered top to bottom in input order. Panel height leaves GapPercent of
// the canvas between neighbours. The y title goes on the middle panel so
// it reads as one label for the whole column of panels.
func arrangeStacked(n int, s Settings) arrangement {
	gap := s.Stacked.GapPercent / 100.0
	h := (1.0 - gap*float64(n-1)) / float64(n)
	hideY := s.Stacked.HideYLabels

	a := arrangement{labelScale: 1}
	for i := 0; i < n; i++ {
		top := 1.0 - float64(i)*(h+gap)
		bottom := top - h
		bottomPanel := i == n-1
		middlePanel := i == n/2

		a.xAxes = append(a.xAxes, axisPlacement{
			Key:            xKey(i),
			Domain:         Domain{Start: 0, End: 1},
			Anchor:         yKey(i),
			ShowTitle:      bottomPanel,
			ShowTickLabels: bottomPanel,
		})
		a.yAxes = append(a.yAxes, axisPlacement{
			Key:            yKey(i),
			Domain:         Domain{Start: bottom, End: top},
			Anchor:         xKey(i),
			ShowTitle:      middlePanel && !hideY,
			ShowTickLabels: !hideY,
		})
		a.traceX = append(a.traceX, xKey(i))
		a.traceY = append(a.traceY, yKey(i))
	}
	return a
}

// arrangeGrid gives every series its own cell in a near-square grid,
// filled row-major from the top left. Axis titles appear once per column
// (bottom-most occupied cell) and once per row (leftmost column), and
// label fonts shrink since cells are a fraction of the canvas.
func arrangeGrid(n int, s Settings) arrangement {
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols

	xGap := s.Grid.XGap
	yGap := s.Grid.YGap
	cw := (1.0 - xGap*float64(cols-1)) / float64(cols)
	ch := (1.0 - yGap*float64(rows-1)) / float64(rows)

	a := arrangement{labelScale: 0.75}
	for i := 0; i < n; i++ {
		row := i / cols
		col := i % cols

		left := float64(col) * (cw + xGap)
		top := 1.0 - float64(row)*(ch+yGap)

		// Bottom-most occupied cell in this column.
		bottomOfColumn := i+cols >= n

		a.xAxes = append(a.xAxes, axisPlacement{
			Key:            xKey(i),
			Domain:         Domain{Start: left, End: left + cw},
			Anchor:         yKey(i),
			ShowTitle:      bottomOfColumn,
			ShowTickLabels: true,
		})
		a.yAxes = append(a.yAxes, axisPlacement{
			Key:            yKey(i),
			Domain:         Domain{Start: top - ch, End: top},
			Anchor:         xKey(i),
			ShowTitle:      col == 0,
			ShowTickLabels: true,
		})
		a.traceX = append(a.traceX, xKey(i))
		a.traceY = append(a.traceY, yKey(i))
	}
	return a
}

// timeOrderOffsets returns the cumulative x shift for each series in
// sorted order: the running sum of the previous series' maximum x value,
// zero for empty series. Offsets are in display units, so callers apply
// them after unit conversion.
func timeOrderOffsets(series []Series, factor float64) []float64 {
	offsets := make([]float64, len(series))
	running := 0.0
	for i, s := range series {
		offsets[i] = running
		if len(s.X) == 0 {
			continue
		}
		max := s.X[0]
		for _, v := range s.X[1:] {
			if v > max {
				max = v
			}
		}
		running += max * factor
	}
	return offsets
}
