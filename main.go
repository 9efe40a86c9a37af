package main

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/cli/browser"
	"github.com/joho/godotenv"

	"github.com/echemview/models"
	"github.com/echemview/plot"
	"github.com/echemview/server"
)

const sessionMaxAgeHours = 72

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment defaults")
	}

	port := envOr("ECHEM_PORT", "8080")
	dataDir := envOr("ECHEM_DATA_DIR", "echem_data")

	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		if err := os.Mkdir(dataDir, 0755); err != nil {
			log.Fatal("Failed to create data directory:", err)
		}
	}

	defaults := plot.Defaults()
	if path := os.Getenv("ECHEM_DEFAULTS"); path != "" {
		d, err := plot.LoadDefaults(path)
		if err != nil {
			log.Fatal("Failed to load plot defaults:", err)
		}
		defaults = d
	}

	store := models.NewSessionStore()
	loadDataDir(store, dataDir)

	if session, err := models.LoadSession(dataDir); err == nil {
		if models.IsSessionValid(session, sessionMaxAgeHours) {
			session.ApplyMeta(store)
			log.Println("Restored previous session")
		}
	}

	configs, err := models.OpenConfigStore(dataDir)
	if err != nil {
		log.Fatal("Failed to open plot configs:", err)
	}

	srv := server.New(store, configs, dataDir, defaults)

	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := browser.OpenURL("http://localhost:" + port); err != nil {
			log.Printf("Failed to open browser: %v", err)
		}
	}()

	srv.Serve(port)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadDataDir reads every data file already sitting in the data
// directory. Files that fail to parse are skipped with a log line, not
// fatal: one bad export should not block the viewer.
func loadDataDir(store *models.SessionStore, dataDir string) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		log.Printf("Failed to read data directory: %v", err)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".mpt", ".csv", ".txt":
		default:
			continue
		}

		d, err := models.LoadFile(filepath.Join(dataDir, entry.Name()))
		if err != nil {
			log.Printf("Skipping %s: %v", entry.Name(), err)
			continue
		}
		if err := store.Add(d); err != nil {
			log.Printf("Skipping %s: %v", entry.Name(), err)
			continue
		}
	}

	log.Printf("Loaded %d data files from %s", store.Len(), dataDir)
}
