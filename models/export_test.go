package models

import (
	"bytes"
	"testing"

	"github.com/echemview/plot"
)

func TestSessionArchiveRoundTrip(t *testing.T) {
	store := storeWithDataset(t)
	if err := store.SetCustom("a.mpt", "loading_mg", "2.5"); err != nil {
		t.Fatalf("SetCustom failed: %v", err)
	}
	session := &Session{
		Settings: plot.PartialSettings{
			XColumn: ColPotential,
			YColumn: ColCurrent,
			Mode:    plot.ModeOverlay,
		},
		Selection: plot.Selection{Files: []string{"a.mpt"}},
	}

	cfg := PlotConfig{Name: "cv sweep", Settings: session.Settings}

	var buf bytes.Buffer
	if err := ExportSession(&buf, session, store, cfg); err != nil {
		t.Fatalf("ExportSession failed: %v", err)
	}

	restored := NewSessionStore()
	got, configs, err := ImportSession(bytes.NewReader(buf.Bytes()), int64(buf.Len()), restored)
	if err != nil {
		t.Fatalf("ImportSession failed: %v", err)
	}

	if len(configs) != 1 || configs[0].Name != "cv sweep" {
		t.Errorf("plot configs lost: %+v", configs)
	}

	if got.Settings.XColumn != ColPotential || got.Settings.Mode != plot.ModeOverlay {
		t.Errorf("session settings lost: %+v", got.Settings)
	}
	if len(got.Selection.Files) != 1 || got.Selection.Files[0] != "a.mpt" {
		t.Errorf("selection lost: %+v", got.Selection)
	}

	d, ok := restored.Get("a.mpt")
	if !ok {
		t.Fatal("dataset not restored")
	}
	if d.Meta.Technique != "CV" || d.Meta.Custom["loading_mg"] != "2.5" {
		t.Errorf("dataset metadata lost: %+v", d.Meta)
	}
	if d.Len() != 4 {
		t.Errorf("expected 4 rows, got %d", d.Len())
	}
	if d.Columns[ColCurrent][3] != 4 {
		t.Errorf("column data lost: %v", d.Columns[ColCurrent])
	}
}

func TestImportSessionMalformedArchive(t *testing.T) {
	store := storeWithDataset(t)

	var buf bytes.Buffer
	if err := ExportSession(&buf, &Session{}, NewSessionStore()); err != nil {
		t.Fatalf("ExportSession failed: %v", err)
	}
	if _, _, err := ImportSession(bytes.NewReader(buf.Bytes()), int64(buf.Len()), store); err != nil {
		t.Fatalf("empty archive should import cleanly: %v", err)
	}

	junk := []byte("not a zip archive")
	if _, _, err := ImportSession(bytes.NewReader(junk), int64(len(junk)), store); err == nil {
		t.Error("expected error for malformed archive")
	}
}
