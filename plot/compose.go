package plot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// Points are one file's fetched samples in raw stored units.
type Points struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

// FetchFunc retrieves the x/y samples for one file. The engine treats it
// as an opaque boundary supplied by the data-access layer.
type FetchFunc func(ctx context.Context, fileID, xCol, yCol string, cycles []int) (Points, error)

// Selection is the ordered set of files to plot plus the per-file cycle
// selection. Files keep caller order; an empty cycle list means all
// cycles.
type Selection struct {
	Files  []string         `json:"files"`
	Cycles map[string][]int `json:"cycles,omitempty"`
}

// ErrSuperseded reports that a newer compose call started before this one
// finished, so its result was dropped without being committed.
var ErrSuperseded = errors.New("composition superseded by a newer request")

// Composer runs the fetch-then-build pipeline and keeps the most recently
// committed figure. Each Compose call starts a new generation; an older
// in-flight call checks the generation immediately before committing and
// drops its result if it lost the race. Fetches are sequential per file
// to bound concurrent load on the data source.
type Composer struct {
	// Defaults overrides the package defaults used to resolve partial
	// settings. Nil means Defaults().
	Defaults *Settings

	gen     atomic.Int64
	mu      sync.Mutex
	current *Figure
}

// Current returns the last committed figure, nil before the first commit.
// A failed or superseded compose leaves the previous figure in place so a
// stale-but-valid display survives transient errors.
func (c *Composer) Current() *Figure {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Compose resolves the settings, fetches every selected series in order
// and builds the figure. It returns (nil, nil) when there is nothing to
// plot: no files selected or no columns chosen. A fetch failure aborts
// the whole batch and discards any partially fetched series.
func (c *Composer) Compose(ctx context.Context, partial PartialSettings, files []FileInfo, sel Selection, fetch FetchFunc) (*Figure, error) {
	gen := c.gen.Add(1)

	if len(sel.Files) == 0 || partial.XColumn == "" || partial.YColumn == "" {
		return nil, nil
	}

	d := Defaults()
	if c.Defaults != nil {
		d = *c.Defaults
	}
	s, err := ResolveWith(partial, d)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]FileInfo, len(files))
	for _, f := range files {
		byID[f.ID] = f
	}

	var (
		series []Series
		meta   []FileInfo
	)
	for _, id := range sel.Files {
		info, ok := byID[id]
		if !ok {
			continue
		}
		pts, err := fetch(ctx, id, s.XColumn, s.YColumn, sel.Cycles[id])
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", id, err)
		}
		series = append(series, Series{
			ID:        info.ID,
			Label:     info.Label,
			Technique: info.Technique,
			Timestamp: info.Timestamp,
			X:         pts.X,
			Y:         pts.Y,
		})
		meta = append(meta, info)
	}
	if len(series) == 0 {
		return nil, nil
	}

	fig := BuildFigure(s, series, meta)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen.Load() != gen {
		return nil, ErrSuperseded
	}
	c.current = fig
	return fig, nil
}
