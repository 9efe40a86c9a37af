package plot

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func composeSettings() PartialSettings {
	return PartialSettings{XColumn: "time_s", YColumn: "current_A", Mode: ModeOverlay}
}

func composeFiles(ids ...string) []FileInfo {
	files := make([]FileInfo, len(ids))
	for i, id := range ids {
		files[i] = FileInfo{ID: id, Label: id}
	}
	return files
}

func constFetch(pts Points) FetchFunc {
	return func(ctx context.Context, fileID, xCol, yCol string, cycles []int) (Points, error) {
		return pts, nil
	}
}

func TestComposeEmptySelection(t *testing.T) {
	var c Composer
	fig, err := c.Compose(context.Background(), composeSettings(), nil, Selection{}, constFetch(Points{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fig != nil {
		t.Error("empty selection should produce no figure")
	}

	p := composeSettings()
	p.XColumn = ""
	fig, err = c.Compose(context.Background(), p, composeFiles("a"), Selection{Files: []string{"a"}}, constFetch(Points{}))
	if err != nil || fig != nil {
		t.Errorf("missing x column should produce no figure, got %v, %v", fig, err)
	}
}

func TestComposeCommitsFigure(t *testing.T) {
	var c Composer
	if c.Current() != nil {
		t.Fatal("fresh composer should hold no figure")
	}

	sel := Selection{Files: []string{"a", "b"}}
	fetch := constFetch(Points{X: []float64{0, 1}, Y: []float64{1, 2}})
	fig, err := c.Compose(context.Background(), composeSettings(), composeFiles("a", "b"), sel, fetch)
	if err != nil {
		t.Fatalf("compose failed: %v", err)
	}
	if len(fig.Traces) != 2 {
		t.Errorf("expected 2 traces, got %d", len(fig.Traces))
	}
	if c.Current() != fig {
		t.Error("committed figure should be visible via Current")
	}
}

func TestComposeFetchOrder(t *testing.T) {
	var c Composer
	var got []string
	fetch := func(ctx context.Context, fileID, xCol, yCol string, cycles []int) (Points, error) {
		got = append(got, fileID)
		return Points{X: []float64{0}, Y: []float64{0}}, nil
	}

	sel := Selection{Files: []string{"c", "a", "b"}}
	if _, err := c.Compose(context.Background(), composeSettings(), composeFiles("a", "b", "c"), sel, fetch); err != nil {
		t.Fatalf("compose failed: %v", err)
	}
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("fetch order %v, want %v", got, want)
		}
	}
}

func TestComposeFetchFailureAbortsBatch(t *testing.T) {
	var c Composer
	sel := Selection{Files: []string{"a", "b"}}
	fetch := constFetch(Points{X: []float64{0}, Y: []float64{0}})
	if _, err := c.Compose(context.Background(), composeSettings(), composeFiles("a", "b"), sel, fetch); err != nil {
		t.Fatalf("setup compose failed: %v", err)
	}
	before := c.Current()

	fetchErr := errors.New("read failed")
	calls := 0
	failing := func(ctx context.Context, fileID, xCol, yCol string, cycles []int) (Points, error) {
		calls++
		if fileID == "b" {
			return Points{}, fetchErr
		}
		return Points{X: []float64{0}, Y: []float64{0}}, nil
	}
	fig, err := c.Compose(context.Background(), composeSettings(), composeFiles("a", "b"), sel, failing)
	if fig != nil {
		t.Error("failed batch should not yield a figure")
	}
	if !errors.Is(err, fetchErr) {
		t.Errorf("error should wrap the fetch failure, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected the batch to stop at the failing file, got %d calls", calls)
	}
	// The previously committed figure stays displayed.
	if c.Current() != before {
		t.Error("a failed compose must not disturb the committed figure")
	}
}

func TestComposeSupersededNeverCommits(t *testing.T) {
	var c Composer
	sel := Selection{Files: []string{"a"}}
	files := composeFiles("a")

	started := make(chan struct{})
	release := make(chan struct{})
	slow := func(ctx context.Context, fileID, xCol, yCol string, cycles []int) (Points, error) {
		close(started)
		<-release
		return Points{X: []float64{0, 1}, Y: []float64{9, 9}}, nil
	}

	type result struct {
		fig *Figure
		err error
	}
	done := make(chan result)
	go func() {
		fig, err := c.Compose(context.Background(), composeSettings(), files, sel, slow)
		done <- result{fig, err}
	}()
	<-started

	// A second batch starts and commits while the first is blocked.
	fast, err := c.Compose(context.Background(), composeSettings(), files, sel, constFetch(Points{X: []float64{0}, Y: []float64{1}}))
	if err != nil {
		t.Fatalf("second compose failed: %v", err)
	}

	close(release)
	r := <-done
	if !errors.Is(r.err, ErrSuperseded) {
		t.Fatalf("stale batch should report supersession, got %v", r.err)
	}
	if r.fig != nil {
		t.Error("stale batch must not return a figure")
	}
	if c.Current() != fast {
		t.Error("the newer figure must remain the visible one")
	}
}

func TestComposeNewerTriggerSupersedesEvenWhenEmpty(t *testing.T) {
	var c Composer
	sel := Selection{Files: []string{"a"}}
	files := composeFiles("a")

	started := make(chan struct{})
	release := make(chan struct{})
	slow := func(ctx context.Context, fileID, xCol, yCol string, cycles []int) (Points, error) {
		close(started)
		<-release
		return Points{X: []float64{0}, Y: []float64{0}}, nil
	}

	done := make(chan error)
	go func() {
		_, err := c.Compose(context.Background(), composeSettings(), files, sel, slow)
		done <- err
	}()
	<-started

	// Deselecting everything is still a newer trigger.
	if _, err := c.Compose(context.Background(), composeSettings(), files, Selection{}, constFetch(Points{})); err != nil {
		t.Fatalf("empty compose failed: %v", err)
	}

	close(release)
	if err := <-done; !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected supersession, got %v", err)
	}
}

func TestComposeCycleSelectionPassedThrough(t *testing.T) {
	var c Composer
	var gotCycles []int
	fetch := func(ctx context.Context, fileID, xCol, yCol string, cycles []int) (Points, error) {
		gotCycles = cycles
		return Points{X: []float64{0}, Y: []float64{0}}, nil
	}
	sel := Selection{Files: []string{"a"}, Cycles: map[string][]int{"a": {2, 3}}}
	if _, err := c.Compose(context.Background(), composeSettings(), composeFiles("a"), sel, fetch); err != nil {
		t.Fatalf("compose failed: %v", err)
	}
	if fmt.Sprint(gotCycles) != "[2 3]" {
		t.Errorf("cycles not forwarded: %v", gotCycles)
	}
}

func TestComposeUnknownFileSkipped(t *testing.T) {
	var c Composer
	var got []string
	fetch := func(ctx context.Context, fileID, xCol, yCol string, cycles []int) (Points, error) {
		got = append(got, fileID)
		return Points{X: []float64{0}, Y: []float64{0}}, nil
	}
	sel := Selection{Files: []string{"ghost", "a"}}
	fig, err := c.Compose(context.Background(), composeSettings(), composeFiles("a"), sel, fetch)
	if err != nil {
		t.Fatalf("compose failed: %v", err)
	}
	if len(got) != 1 || got[0] != "a" {
		t.Errorf("only known files should be fetched, got %v", got)
	}
	if len(fig.Traces) != 1 {
		t.Errorf("expected 1 trace, got %d", len(fig.Traces))
	}
}
