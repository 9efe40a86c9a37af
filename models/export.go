package models

import (
	"archive/zip"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
)

// Session archives are zip files holding a metadata.json with the
// session state plus one normalized CSV per dataset under data/. An
// archive is self-contained: importing it on another machine restores
// the full session without the original instrument files.

const archiveMetaName = "metadata.json"

type archiveMeta struct {
	Session Session      `json:"session"`
	Files   []FileMeta   `json:"files"`
	Configs []PlotConfig `json:"configs,omitempty"`
}

// ExportSession writes the session, the saved plot configs and every
// stored dataset to w as a zip archive.
func ExportSession(w io.Writer, session *Session, store *SessionStore, configs ...PlotConfig) error {
	zw := zip.NewWriter(w)

	meta := archiveMeta{Session: *session, Configs: configs}
	for _, info := range store.List() {
		d, ok := store.Get(info.ID)
		if !ok {
			continue
		}
		meta.Files = append(meta.Files, d.Meta)
		if err := writeDatasetCSV(zw, d); err != nil {
			return err
		}
	}

	mw, err := zw.Create(archiveMetaName)
	if err != nil {
		return fmt.Errorf("failed to create archive metadata: %v", err)
	}
	enc := json.NewEncoder(mw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return fmt.Errorf("failed to encode archive metadata: %v", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %v", err)
	}
	return nil
}

func writeDatasetCSV(zw *zip.Writer, d *Dataset) error {
	fw, err := zw.Create(path.Join("data", d.Meta.ID+".csv"))
	if err != nil {
		return fmt.Errorf("failed to create archive entry for %s: %v", d.Meta.ID, err)
	}

	cw := csv.NewWriter(fw)
	names := d.ColumnNames()
	if err := cw.Write(names); err != nil {
		return fmt.Errorf("failed to write header for %s: %v", d.Meta.ID, err)
	}

	record := make([]string, len(names))
	for i := 0; i < d.Len(); i++ {
		for j, name := range names {
			record[j] = strconv.FormatFloat(d.Columns[name][i], 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row for %s: %v", d.Meta.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportSession reads a session archive and loads every contained
// dataset into the store. The restored session state and any archived
// plot configs are returned so the caller can reapply them.
func ImportSession(r io.ReaderAt, size int64, store *SessionStore) (*Session, []PlotConfig, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open archive: %v", err)
	}

	var meta *archiveMeta
	for _, f := range zr.File {
		if f.Name != archiveMetaName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open archive metadata: %v", err)
		}
		meta = &archiveMeta{}
		err = json.NewDecoder(rc).Decode(meta)
		rc.Close()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to decode archive metadata: %v", err)
		}
		break
	}
	if meta == nil {
		return nil, nil, fmt.Errorf("archive has no %s", archiveMetaName)
	}

	metaByID := make(map[string]FileMeta, len(meta.Files))
	for _, fm := range meta.Files {
		metaByID[fm.ID] = fm
	}

	for _, f := range zr.File {
		dir, name := path.Split(f.Name)
		if dir != "data/" || !strings.HasSuffix(name, ".csv") {
			continue
		}
		id := strings.TrimSuffix(name, ".csv")

		rc, err := f.Open()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open archive entry %s: %v", f.Name, err)
		}
		d, err := ReadData(rc, id)
		rc.Close()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read archived dataset %s: %v", id, err)
		}
		if fm, ok := metaByID[id]; ok {
			d.Meta = fm
		}
		if err := store.Add(d); err != nil {
			return nil, nil, err
		}
	}

	session := meta.Session
	return &session, meta.Configs, nil
}
