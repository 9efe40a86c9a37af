package server

import (
	"log"
	"net/http"
	"sync"

	"github.com/echemview/models"
	"github.com/echemview/plot"
)

// Server wires the session store, the composition engine and the saved
// plot configs behind the HTTP API.
type Server struct {
	Store    *models.SessionStore
	Configs  *models.ConfigStore
	DataDir  string
	Defaults plot.Settings

	composer plot.Composer

	mu   sync.Mutex
	last *ComposeRequest
}

// lastRequest returns the most recent successful compose request, nil
// before the first one.
func (s *Server) lastRequest() *ComposeRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Server) setLastRequest(req ComposeRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = &req
}

// New creates a server around an existing store.
func New(store *models.SessionStore, configs *models.ConfigStore, dataDir string, defaults plot.Settings) *Server {
	srv := &Server{
		Store:    store,
		Configs:  configs,
		DataDir:  dataDir,
		Defaults: defaults,
	}
	srv.composer.Defaults = &srv.Defaults
	return srv
}

// Routes builds the HTTP handler with request logging applied.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.indexHandler)
	mux.HandleFunc("GET /files", s.listFilesHandler)
	mux.HandleFunc("POST /files", s.uploadFileHandler)
	mux.HandleFunc("DELETE /files/{id}", s.deleteFileHandler)
	mux.HandleFunc("PATCH /files/{id}", s.updateFileHandler)
	mux.HandleFunc("GET /data/{id}", s.dataHandler)
	mux.HandleFunc("GET /defaults", s.defaultsHandler)
	mux.HandleFunc("POST /figure", s.composeHandler)
	mux.HandleFunc("GET /figure", s.currentFigureHandler)
	mux.HandleFunc("GET /chart", s.chartHandler)
	mux.HandleFunc("GET /export", s.exportHandler)
	mux.HandleFunc("POST /import", s.importHandler)
	mux.HandleFunc("GET /configs", s.listConfigsHandler)
	mux.HandleFunc("POST /configs", s.saveConfigHandler)
	mux.HandleFunc("DELETE /configs/{id}", s.deleteConfigHandler)
	mux.HandleFunc("POST /session", s.saveSessionHandler)

	return loggingMiddleware(mux)
}

// Serve runs the HTTP server on the given port. It blocks until the
// server stops.
func (s *Server) Serve(port string) {
	logFile, err := setupLogging()
	if err != nil {
		log.Printf("Failed to set up log file: %v", err)
	} else {
		defer logFile.Close()
	}

	log.Printf("Server starting on http://localhost:%s", port)

	if err := http.ListenAndServe(":"+port, s.Routes()); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
