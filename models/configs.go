package models

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/echemview/plot"
	"github.com/google/uuid"
)

// PlotConfig is a named, saved plot setup a user can recall later.
type PlotConfig struct {
	ID       string               `json:"id"`
	Name     string               `json:"name"`
	Created  time.Time            `json:"created"`
	Settings plot.PartialSettings `json:"settings"`
}

// ConfigStore keeps saved plot configurations, persisted as one JSON
// file in the data directory.
type ConfigStore struct {
	mu      sync.Mutex
	path    string
	configs map[string]PlotConfig
}

// OpenConfigStore loads the saved configurations from dataDir, starting
// empty when none exist yet.
func OpenConfigStore(dataDir string) (*ConfigStore, error) {
	cs := &ConfigStore{
		path:    filepath.Join(dataDir, "plot_configs.json"),
		configs: make(map[string]PlotConfig),
	}

	data, err := os.ReadFile(cs.path)
	if os.IsNotExist(err) {
		return cs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read plot configs: %w", err)
	}

	var configs []PlotConfig
	if err := json.Unmarshal(data, &configs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plot configs: %w", err)
	}
	for _, c := range configs {
		cs.configs[c.ID] = c
	}
	return cs, nil
}

// Save stores a named configuration and returns its generated ID.
func (cs *ConfigStore) Save(name string, settings plot.PartialSettings) (string, error) {
	if name == "" {
		return "", fmt.Errorf("config name is required")
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()

	cfg := PlotConfig{
		ID:       uuid.NewString(),
		Name:     name,
		Created:  time.Now(),
		Settings: settings,
	}
	cs.configs[cfg.ID] = cfg

	if err := cs.persist(); err != nil {
		delete(cs.configs, cfg.ID)
		return "", err
	}
	return cfg.ID, nil
}

// Get returns one saved configuration.
func (cs *ConfigStore) Get(id string) (PlotConfig, bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cfg, ok := cs.configs[id]
	return cfg, ok
}

// Delete removes a saved configuration.
func (cs *ConfigStore) Delete(id string) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if _, ok := cs.configs[id]; !ok {
		return fmt.Errorf("unknown config: %s", id)
	}
	delete(cs.configs, id)
	return cs.persist()
}

// List returns every saved configuration, newest first.
func (cs *ConfigStore) List() []PlotConfig {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	configs := make([]PlotConfig, 0, len(cs.configs))
	for _, c := range cs.configs {
		configs = append(configs, c)
	}
	sort.Slice(configs, func(i, j int) bool {
		return configs[i].Created.After(configs[j].Created)
	})
	return configs
}

func (cs *ConfigStore) persist() error {
	configs := make([]PlotConfig, 0, len(cs.configs))
	for _, c := range cs.configs {
		configs = append(configs, c)
	}
	sort.Slice(configs, func(i, j int) bool {
		return configs[i].Created.Before(configs[j].Created)
	})

	data, err := json.MarshalIndent(configs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal plot configs: %w", err)
	}
	if err := os.WriteFile(cs.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write plot configs: %w", err)
	}
	return nil
}
