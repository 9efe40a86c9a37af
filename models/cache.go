package models

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/echemview/plot"
)

const sessionFile = "session.json"

// Session is the persisted state of one viewing session: plot settings,
// file selection and any metadata edits. Datasets themselves are
// reloaded from the data directory, so the file stays small.
type Session struct {
	Timestamp int64                `json:"timestamp"`
	Settings  plot.PartialSettings `json:"settings"`
	Selection plot.Selection       `json:"selection"`
	Meta      map[string]FileMeta  `json:"meta,omitempty"`
}

// SaveSession writes the session state to the data directory.
func SaveSession(dataDir string, s *Session) error {
	s.Timestamp = time.Now().Unix()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	path := filepath.Join(dataDir, sessionFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// LoadSession reads the persisted session state back.
func LoadSession(dataDir string) (*Session, error) {
	path := filepath.Join(dataDir, sessionFile)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("session file does not exist")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}

// IsSessionValid reports whether a session is recent enough to restore
// automatically.
func IsSessionValid(s *Session, maxAgeHours int) bool {
	age := time.Since(time.Unix(s.Timestamp, 0))
	return age.Hours() <= float64(maxAgeHours)
}

// ApplyMeta reapplies persisted metadata edits to the store's datasets.
// Edits for files no longer present are dropped.
func (s *Session) ApplyMeta(store *SessionStore) {
	for id, meta := range s.Meta {
		d, ok := store.Get(id)
		if !ok {
			continue
		}
		if meta.Label != "" {
			d.Meta.Label = meta.Label
		}
		if len(meta.Custom) > 0 {
			d.Meta.Custom = meta.Custom
		}
	}
}

// CollectMeta snapshots the store's editable metadata for persistence.
func CollectMeta(store *SessionStore) map[string]FileMeta {
	metas := make(map[string]FileMeta)
	for _, info := range store.List() {
		metas[info.ID] = FileMeta{
			ID:     info.ID,
			Label:  info.Label,
			Custom: info.Custom,
		}
	}
	return metas
}
