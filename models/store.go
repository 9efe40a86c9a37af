package models

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/echemview/plot"
)

// DefaultMaxPoints bounds the samples returned per series. Impedance and
// long chronoamperometry files can run to millions of rows; the display
// never needs more than this.
const DefaultMaxPoints = 5000

// SessionStore holds the datasets of one viewing session. All methods
// are safe for concurrent use by the HTTP handlers.
type SessionStore struct {
	mu        sync.RWMutex
	datasets  map[string]*Dataset
	order     []string
	maxPoints int
}

// NewSessionStore returns an empty store with the default downsampling
// bound.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		datasets:  make(map[string]*Dataset),
		maxPoints: DefaultMaxPoints,
	}
}

// SetMaxPoints overrides the per-series sample bound. Zero disables
// downsampling.
func (s *SessionStore) SetMaxPoints(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxPoints = n
}

// Add stores a dataset, replacing any previous dataset with the same ID.
func (s *SessionStore) Add(d *Dataset) error {
	if err := d.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.datasets[d.Meta.ID]; !exists {
		s.order = append(s.order, d.Meta.ID)
	}
	s.datasets[d.Meta.ID] = d
	return nil
}

// Remove drops a dataset. Removing an unknown ID is a no-op.
func (s *SessionStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.datasets[id]; !exists {
		return
	}
	delete(s.datasets, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Get returns the dataset for an ID.
func (s *SessionStore) Get(id string) (*Dataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.datasets[id]
	return d, ok
}

// Len is the number of stored datasets.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.datasets)
}

// List returns per-file metadata for every dataset in insertion order,
// in the form the composition engine consumes.
func (s *SessionStore) List() []plot.FileInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	infos := make([]plot.FileInfo, 0, len(s.order))
	for _, id := range s.order {
		d := s.datasets[id]
		infos = append(infos, plot.FileInfo{
			ID:        d.Meta.ID,
			Label:     d.Meta.Label,
			Technique: d.Meta.Technique,
			Timestamp: d.Meta.Timestamp,
			Columns:   d.ColumnNames(),
			Cycles:    d.Cycles(),
			Custom:    d.Meta.Custom,
		})
	}
	return infos
}

// SetLabel updates a file's display label.
func (s *SessionStore) SetLabel(id, label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.datasets[id]
	if !ok {
		return fmt.Errorf("unknown file: %s", id)
	}
	d.Meta.Label = label
	return nil
}

// SetCustom sets one custom metadata value on a file. An empty value
// removes the key.
func (s *SessionStore) SetCustom(id, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.datasets[id]
	if !ok {
		return fmt.Errorf("unknown file: %s", id)
	}
	if value == "" {
		delete(d.Meta.Custom, key)
		return nil
	}
	if d.Meta.Custom == nil {
		d.Meta.Custom = make(map[string]string)
	}
	d.Meta.Custom[key] = value
	return nil
}

// CustomKeys returns the union of custom metadata keys across all files,
// sorted. These are the extra legend sources offered in the UI.
func (s *SessionStore) CustomKeys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	for _, d := range s.datasets {
		for k := range d.Meta.Custom {
			seen[k] = true
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Fetch retrieves the x/y samples for one file with the cycle selection
// applied, downsampled to the store's point bound. It satisfies
// plot.FetchFunc so the store plugs straight into the composer.
func (s *SessionStore) Fetch(ctx context.Context, fileID, xCol, yCol string, cycles []int) (plot.Points, error) {
	if err := ctx.Err(); err != nil {
		return plot.Points{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.datasets[fileID]
	if !ok {
		return plot.Points{}, fmt.Errorf("unknown file: %s", fileID)
	}
	x, ok := d.Columns[xCol]
	if !ok {
		return plot.Points{}, fmt.Errorf("file %s has no column %s", fileID, xCol)
	}
	y, ok := d.Columns[yCol]
	if !ok {
		return plot.Points{}, fmt.Errorf("file %s has no column %s", fileID, yCol)
	}

	keep := cycleMask(d.Columns[ColCycle], len(x), cycles)
	pts := plot.Points{}
	for i := range x {
		if keep != nil && !keep[i] {
			continue
		}
		pts.X = append(pts.X, x[i])
		pts.Y = append(pts.Y, y[i])
	}

	return downsample(pts, s.maxPoints), nil
}

// cycleMask marks the rows whose cycle number is selected. A nil mask
// means keep everything: no cycle column or no selection.
func cycleMask(cycleCol []float64, n int, cycles []int) []bool {
	if len(cycles) == 0 || cycleCol == nil {
		return nil
	}
	wanted := make(map[int]bool, len(cycles))
	for _, c := range cycles {
		wanted[c] = true
	}
	mask := make([]bool, n)
	for i, v := range cycleCol {
		mask[i] = wanted[int(v)]
	}
	return mask
}

// downsample thins points to at most max samples with an even stride.
// The last sample is always kept so the trace ends where the data does.
func downsample(pts plot.Points, max int) plot.Points {
	n := len(pts.X)
	if max <= 0 || n <= max {
		return pts
	}
	stride := (n + max - 1) / max
	out := plot.Points{}
	for i := 0; i < n; i += stride {
		out.X = append(out.X, pts.X[i])
		out.Y = append(out.Y, pts.Y[i])
	}
	if (n-1)%stride != 0 {
		out.X = append(out.X, pts.X[n-1])
		out.Y = append(out.Y, pts.Y[n-1])
	}
	return out
}
