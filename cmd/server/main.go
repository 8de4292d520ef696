package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gnemet/pptxtext/internal/ai"
	"github.com/gnemet/pptxtext/internal/config"
	"github.com/gnemet/pptxtext/internal/database"
	"github.com/gnemet/pptxtext/internal/extractor"
	"github.com/gnemet/pptxtext/internal/observer"
)

// watcher is the part of the stage observer the HTTP handlers drive.
type watcher interface {
	IsProcessing() bool
	TryReprocessAll() bool
}

type server struct {
	cfg *config.Config
	db  *sql.DB
	obs watcher
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	var db *sql.DB
	if cfg.Database.IsConfigured() {
		db, err = database.NewConnection(cfg.Database.GetConnectStr())
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()
		if err := database.EnsureSchema(db); err != nil {
			log.Fatal(err)
		}
	} else {
		log.Printf("Note: no database configured, extractions are not persisted")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs := observer.NewObserver(cfg, db, ai.NewClient(cfg), nil)
	go func() {
		if err := obs.Start(ctx); err != nil {
			log.Printf("Observer stopped: %v", err)
		}
	}()

	s := &server{cfg: cfg, db: db, obs: obs}
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Application.Host, cfg.Application.Port),
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("%s starting on http://%s", cfg.Application.Name, srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/extract", s.handleExtract)
	mux.HandleFunc("/extractions", s.handleExtractions)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/reprocess", s.handleReprocess)
	return mux
}

// handleExtract answers a multipart upload (field "file") with the
// {"text": ...} document.
func (s *server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	maxBytes := s.cfg.Application.MaxUploadMB << 20
	if maxBytes <= 0 {
		maxBytes = 64 << 20
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	text, err := extractor.ExtractReader(file, header.Size)
	if err != nil {
		log.Printf("Extraction of %s failed: %v", header.Filename, err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	data, err := extractor.Marshal(text)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write(append(data, '\n'))
}

func (s *server) handleExtractions(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		http.Error(w, "No database configured", http.StatusServiceUnavailable)
		return
	}
	extractions, err := database.GetAllExtractions(s.db)
	if err != nil {
		log.Printf("Error fetching extractions: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, extractions)
}

func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]bool{"processing": s.obs.IsProcessing()})
}

func (s *server) handleReprocess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.obs.TryReprocessAll() {
		http.Error(w, "Processing in progress", http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
