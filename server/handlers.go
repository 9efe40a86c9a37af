package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/echemview/models"
	"github.com/echemview/plot"
	"github.com/echemview/templates"
)

const maxUploadBytes = 256 << 20

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	component := templates.Landing(s.Store.Len())
	templ.Handler(component).ServeHTTP(w, r)
}

func (s *Server) listFilesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"files":       s.Store.List(),
		"custom_keys": s.Store.CustomKeys(),
		"techniques":  models.Techniques(),
	})
}

func (s *Server) uploadFileHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("failed to parse upload: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("missing file field: %v", err))
		return
	}
	defer file.Close()

	d, err := models.ReadData(file, header.Filename)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	if d.Meta.Timestamp == "" {
		d.Meta.Timestamp = time.Now().Format("2006-01-02T15:04:05")
	}
	if err := s.Store.Add(d); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	log.Printf("Loaded %s: %d samples, technique %q", d.Meta.ID, d.Len(), d.Meta.Technique)
	writeJSON(w, http.StatusCreated, d.Meta)
}

func (s *Server) deleteFileHandler(w http.ResponseWriter, r *http.Request) {
	s.Store.Remove(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) updateFileHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var update struct {
		Label  *string           `json:"label,omitempty"`
		Custom map[string]string `json:"custom,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid update body: %v", err))
		return
	}

	if update.Label != nil {
		if err := s.Store.SetLabel(id, *update.Label); err != nil {
			writeError(w, http.StatusNotFound, err)
			return
		}
	}
	for key, value := range update.Custom {
		if err := s.Store.SetCustom(id, key, value); err != nil {
			writeError(w, http.StatusNotFound, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) dataHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	q := r.URL.Query()

	xCol := q.Get("x")
	yCol := q.Get("y")
	if xCol == "" || yCol == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("x and y query parameters are required"))
		return
	}

	cycles, err := parseCycles(q.Get("cycles"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	pts, err := s.Store.Fetch(r.Context(), id, xCol, yCol, cycles)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, pts)
}

func parseCycles(raw string) ([]int, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	cycles := make([]int, 0, len(parts))
	for _, p := range parts {
		c, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid cycle %q", p)
		}
		cycles = append(cycles, c)
	}
	return cycles, nil
}

func (s *Server) defaultsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"settings": s.Defaults,
		"schemes":  plot.SchemeNames(),
	})
}

// ComposeRequest is the body of POST /figure.
type ComposeRequest struct {
	Settings  plot.PartialSettings `json:"settings"`
	Selection plot.Selection       `json:"selection"`
}

func (s *Server) composeHandler(w http.ResponseWriter, r *http.Request) {
	var req ComposeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid compose body: %v", err))
		return
	}

	fig, err := s.composer.Compose(r.Context(), req.Settings, s.Store.List(), req.Selection, s.Store.Fetch)
	if errors.Is(err, plot.ErrSuperseded) {
		writeError(w, http.StatusConflict, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	if fig == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"figure": nil})
		return
	}
	s.setLastRequest(req)
	writeJSON(w, http.StatusOK, map[string]interface{}{"figure": fig})
}

func (s *Server) currentFigureHandler(w http.ResponseWriter, r *http.Request) {
	fig := s.composer.Current()
	if fig == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("no figure composed yet"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"figure": fig})
}

func (s *Server) chartHandler(w http.ResponseWriter, r *http.Request) {
	fig := s.composer.Current()
	if fig == nil {
		component := templates.Error("No figure composed yet. Select files and POST /figure first.")
		templ.Handler(component).ServeHTTP(w, r)
		return
	}

	line := renderFigure(fig)
	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		http.Error(w, "Failed to render chart", http.StatusInternalServerError)
		return
	}

	component := templates.Chart(template.HTML(buf.String()), fig.Title)
	templ.Handler(component).ServeHTTP(w, r)
}

func (s *Server) exportHandler(w http.ResponseWriter, r *http.Request) {
	session := &models.Session{Meta: models.CollectMeta(s.Store)}
	if last := s.lastRequest(); last != nil {
		session.Settings = last.Settings
		session.Selection = last.Selection
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", "attachment; filename=session.zip")
	if err := models.ExportSession(w, session, s.Store, s.Configs.List()...); err != nil {
		log.Printf("Failed to export session: %v", err)
	}
}

func (s *Server) importHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("failed to read upload: %v", err))
		return
	}

	session, configs, err := models.ImportSession(bytes.NewReader(data), int64(len(data)), s.Store)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	session.ApplyMeta(s.Store)
	for _, cfg := range configs {
		if _, err := s.Configs.Save(cfg.Name, cfg.Settings); err != nil {
			log.Printf("Failed to restore plot config %q: %v", cfg.Name, err)
		}
	}

	log.Printf("Imported session with %d files", s.Store.Len())
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) listConfigsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Configs.List())
}

func (s *Server) saveConfigHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string               `json:"name"`
		Settings plot.PartialSettings `json:"settings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid config body: %v", err))
		return
	}

	id, err := s.Configs.Save(req.Name, req.Settings)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) deleteConfigHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.Configs.Delete(r.PathValue("id")); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) saveSessionHandler(w http.ResponseWriter, r *http.Request) {
	var session models.Session
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid session body: %v", err))
		return
	}
	session.Meta = models.CollectMeta(s.Store)

	if err := models.SaveSession(s.DataDir, &session); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
