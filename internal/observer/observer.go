package observer

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gnemet/pptxtext/internal/ai"
	"github.com/gnemet/pptxtext/internal/config"
	"github.com/gnemet/pptxtext/internal/database"
	"github.com/gnemet/pptxtext/internal/extractor"
	"github.com/gnemet/pptxtext/internal/pptx"
)

type Observer struct {
	cfg         *config.Config
	db          *sql.DB
	aiClient    *ai.Client
	activeTasks int
	mu          sync.Mutex
	procMu      sync.Mutex
	LogChan     chan string

	// Settle is how long to wait after a file event before reading the file.
	Settle time.Duration
}

// NewObserver wires the watcher. db and aiClient may be nil.
func NewObserver(cfg *config.Config, db *sql.DB, ai *ai.Client, logChan chan string) *Observer {
	return &Observer{
		cfg:      cfg,
		db:       db,
		aiClient: ai,
		LogChan:  logChan,
		Settle:   2 * time.Second,
	}
}

func (o *Observer) log(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	log.Println(msg)
	if o.LogChan != nil {
		select {
		case o.LogChan <- msg:
		default:
			// fast non-blocking drop if buffer full
		}
	}
}

func (o *Observer) incrementTask() {
	o.mu.Lock()
	o.activeTasks++
	o.mu.Unlock()
}

func (o *Observer) decrementTask() {
	o.mu.Lock()
	o.activeTasks--
	o.mu.Unlock()
}

// Start scans the stage directory, then processes new and rewritten .pptx
// files until ctx is cancelled.
func (o *Observer) Start(ctx context.Context) error {
	stageDir := o.cfg.Application.Storage.Stage
	if stageDir == "" {
		return fmt.Errorf("stage storage directory not configured")
	}

	for _, dir := range []string{stageDir, o.cfg.Application.Storage.Output, o.cfg.Application.Storage.Processed} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(stageDir); err != nil {
		return err
	}

	o.log("Background observer started, watching: %s", stageDir)

	// Initial scan
	o.scanDirectory(stageDir)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if (event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) && isPresentation(event.Name) {
				o.log("Detected change in: %s", event.Name)

				// Wait for the file transfer to complete
				select {
				case <-time.After(o.Settle):
				case <-ctx.Done():
					return nil
				}
				if _, err := os.Stat(event.Name); err != nil {
					continue
				}
				o.ProcessFile(event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			o.log("Watcher error: %v", err)

		case <-ctx.Done():
			return nil
		}
	}
}

func isPresentation(name string) bool {
	base := filepath.Base(name)
	// Office lock files (~$deck.pptx) are not presentations.
	return strings.HasSuffix(strings.ToLower(base), ".pptx") && !strings.HasPrefix(base, "~$")
}

func (o *Observer) scanDirectory(dir string) {
	files, err := os.ReadDir(dir)
	if err != nil {
		o.log("Failed to scan directory: %v", err)
		return
	}

	for _, f := range files {
		if !f.IsDir() && isPresentation(f.Name()) {
			o.ProcessFile(filepath.Join(dir, f.Name()))
		}
	}
}

// ProcessFile extracts one presentation, writes its JSON document to the
// output directory, stores it and moves the file out of stage. Failures are
// logged; the file is left in place when extraction fails.
func (o *Observer) ProcessFile(path string) {
	o.incrementTask()
	defer o.decrementTask()

	// The watcher loop and a reprocess scan can both reach the same file.
	o.procMu.Lock()
	defer o.procMu.Unlock()

	filename := filepath.Base(path)
	if _, err := os.Stat(path); err != nil {
		o.log("Skipping %s: %v", filename, err)
		return
	}
	o.log("Processing file: %s", filename)

	prs, err := pptx.Open(path)
	if err != nil {
		o.log("Failed to open %s: %v", filename, err)
		return
	}
	runs := extractor.TextRuns(prs)
	slideCount := len(prs.Slides())
	prs.Close()
	text := extractor.Join(runs)

	doc, err := extractor.Marshal(text)
	if err != nil {
		o.log("Failed to encode %s: %v", filename, err)
		return
	}
	if err := o.writeOutput(outputName(filename, ".json"), append(doc, '\n')); err != nil {
		o.log("Failed to write output for %s: %v", filename, err)
		return
	}

	// Calculate Checksum (SHA256)
	checksum := ""
	if fileBytes, err := os.ReadFile(path); err == nil {
		hash := sha256.Sum256(fileBytes)
		checksum = hex.EncodeToString(hash[:])
	} else {
		o.log("Failed to read file for checksum %s: %v", filename, err)
	}

	fileID := o.persist(&database.Extraction{
		Filename:         filename,
		OriginalFilePath: path,
		Checksum:         checksum,
		Text:             text,
		SlideCount:       slideCount,
		TextRunCount:     len(runs),
	})

	o.log("Successfully processed: %s (slides: %d, text runs: %d)", filename, slideCount, len(runs))

	o.finalizeFile(path, filename, fileID)
}

func outputName(filename, ext string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename)) + ext
}

// writeOutput stores a file as <output>/<name>, replacing it atomically.
// Nothing is written without an output directory.
func (o *Observer) writeOutput(name string, data []byte) error {
	outDir := o.cfg.Application.Storage.Output
	if outDir == "" {
		return nil
	}

	tmp := filepath.Join(outDir, "."+name+".tmp")
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Join(outDir, name))
}

// persist saves the extraction unless its checksum is already stored and
// returns the row id, or 0 without a database.
func (o *Observer) persist(e *database.Extraction) int {
	if o.db == nil {
		o.summarize(e, 0)
		return 0
	}

	if e.Checksum != "" {
		existing, err := database.GetExtractionByChecksum(o.db, e.Checksum)
		if err == nil {
			o.log("File %s (checksum: %s) already exists (ID: %d). Skipping duplicate processing.", e.Filename, e.Checksum, existing.ID)
			return existing.ID
		}
		if !errors.Is(err, sql.ErrNoRows) {
			o.log("DB error checking existing file: %v", err)
			return 0
		}
	}

	id, err := database.SaveExtraction(o.db, e)
	if err != nil {
		o.log("Failed to save extraction to DB: %v", err)
		return 0
	}
	o.summarize(e, id)
	return id
}

func (o *Observer) summarize(e *database.Extraction, id int) {
	if !o.aiClient.Enabled() || e.Text == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	summary, err := o.aiClient.SummarizeText(ctx, e.Text)
	if err != nil {
		o.log("Failed to summarize %s: %v", e.Filename, err)
		return
	}
	e.AISummary = summary
	o.log("Summary of %s: %s", e.Filename, summary)

	// The summary never goes into the {"text": ...} document.
	summaryFile := outputName(e.Filename, ".summary.txt")
	if err := o.writeOutput(summaryFile, []byte(summary+"\n")); err != nil {
		o.log("Failed to write %s: %v", summaryFile, err)
	}

	if o.db != nil && id != 0 {
		if err := database.UpdateExtractionSummary(o.db, id, summary); err != nil {
			o.log("Failed to store summary for %s: %v", e.Filename, err)
		}
	}
}

func (o *Observer) finalizeFile(path, filename string, fileID int) {
	processedDir := o.cfg.Application.Storage.Processed
	if processedDir == "" {
		return
	}

	newPath := filepath.Join(processedDir, filename)
	if path == newPath {
		return
	}

	if err := os.Rename(path, newPath); err != nil {
		o.log("Failed to move %s to processed folder: %v", filename, err)
		return
	}
	o.log("Moved %s to %s", filename, newPath)

	if o.db != nil && fileID != 0 {
		if err := database.UpdateExtractionPath(o.db, fileID, newPath); err != nil {
			o.log("Failed to update file path in DB: %v", err)
		}
	}
}

// ReprocessAll moves processed files back to stage and scans it again.
func (o *Observer) ReprocessAll() {
	o.incrementTask()
	defer o.decrementTask()
	o.reprocessAll()
}

// TryReprocessAll starts ReprocessAll in the background unless a file or
// another reprocess is in flight, and reports whether it started.
func (o *Observer) TryReprocessAll() bool {
	o.mu.Lock()
	if o.activeTasks > 0 {
		o.mu.Unlock()
		return false
	}
	o.activeTasks++
	o.mu.Unlock()

	go func() {
		defer o.decrementTask()
		o.reprocessAll()
	}()
	return true
}

func (o *Observer) reprocessAll() {
	o.log("STARTING FULL REPROCESS: Resetting state...")

	if o.db != nil {
		if err := database.ClearDatabase(o.db); err != nil {
			o.log("CRITICAL: Failed to clear database during reprocess: %v", err)
			return
		}
	}

	stageDir := o.cfg.Application.Storage.Stage
	processedDir := o.cfg.Application.Storage.Processed

	if processedDir != "" && stageDir != "" {
		files, err := os.ReadDir(processedDir)
		if err == nil {
			for _, file := range files {
				if !file.IsDir() && isPresentation(file.Name()) {
					oldPath := filepath.Join(processedDir, file.Name())
					newPath := filepath.Join(stageDir, file.Name())
					if err := os.Rename(oldPath, newPath); err != nil {
						o.log("Failed to move %s back to stage: %v", file.Name(), err)
					} else {
						o.log("Moved %s back to stage for reprocessing", file.Name())
					}
				}
			}
		}
	}

	o.log("Retriggering full scan of %s", stageDir)
	o.scanDirectory(stageDir)
}

func (o *Observer) IsProcessing() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.activeTasks > 0
}
