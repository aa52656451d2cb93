package api

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"resumed/internal/compile"
	"resumed/internal/config"
	"resumed/internal/history"
	"resumed/internal/metrics"
	"resumed/internal/resume"
	"resumed/internal/texmark"
)

// Compiler abstracts the external LaTeX driver so handlers can be
// tested without a TeX installation.
type Compiler interface {
	Available() bool
	Run(ctx context.Context, onPass func(pass int)) compile.Result
}

// JobStatus tracks the lifecycle of a compile job.
type JobStatus string

const (
	JobRunning  JobStatus = "running"
	JobDone     JobStatus = "done"
	JobFailed   JobStatus = "failed"
	JobNoDriver JobStatus = "backend_missing"
)

// Job records one compile run.
type Job struct {
	ID         string         `json:"id"`
	Status     JobStatus      `json:"status"`
	Result     compile.Status `json:"result,omitempty"`
	Log        string         `json:"log,omitempty"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt *time.Time     `json:"finished_at,omitempty"`
}

// App owns the in-memory document and coordinates every mutation of it.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	history  *history.Store
	compiler Compiler
	hub      *Hub

	// BeforeWrite, when set, is called right before the content file
	// is written so the file watcher can ignore the resulting event.
	BeforeWrite func()

	mu       sync.RWMutex
	doc      *resume.Document
	warnings []texmark.Warning
	dirty    bool

	jobMu sync.Mutex
	job   *Job
}

// NewApp builds the application state around an empty document.
func NewApp(cfg *config.Config, logger *slog.Logger, store *history.Store, compiler Compiler, hub *Hub) *App {
	return &App{
		cfg:      cfg,
		logger:   logger,
		history:  store,
		compiler: compiler,
		hub:      hub,
		doc:      resume.New(),
	}
}

// LoadFromDisk replaces the in-memory document with the parsed content
// file. Loading never fails the whole document: a missing file yields an
// empty document, an unreadable one an empty document plus a warning.
func (a *App) LoadFromDisk() error {
	data, err := os.ReadFile(a.cfg.ContentPath())
	if err != nil {
		a.mu.Lock()
		a.doc = resume.New()
		a.warnings = nil
		a.dirty = false
		if !os.IsNotExist(err) {
			a.warnings = []texmark.Warning{{
				Section: "file",
				Message: fmt.Sprintf("content file unreadable: %v", err),
			}}
			a.logger.Warn("content file unreadable", slog.Any("error", err))
		}
		a.mu.Unlock()
		return nil
	}

	doc, warnings := texmark.Parse(string(data))
	doc.EnsureSections()

	a.mu.Lock()
	a.doc = doc
	a.warnings = warnings
	a.dirty = false
	a.mu.Unlock()

	for _, w := range warnings {
		a.logger.Warn("content warning", slog.String("section", w.Section), slog.String("message", w.Message))
	}
	return nil
}

// Save serializes the document and writes it to the content file,
// keeping a rolling backup of the previous version and recording a
// snapshot in the history store.
func (a *App) Save(label string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.saveLocked(label)
}

func (a *App) saveLocked(label string) error {
	text, err := texmark.Serialize(a.doc)
	if err != nil {
		return err
	}

	if err := compile.Backup(a.cfg.ContentPath()); err != nil {
		return fmt.Errorf("backup content file: %w", err)
	}

	if a.BeforeWrite != nil {
		a.BeforeWrite()
	}
	if err := os.WriteFile(a.cfg.ContentPath(), []byte(text), 0o644); err != nil {
		return fmt.Errorf("write content file: %w", err)
	}

	if a.history != nil {
		if _, err := a.history.Record(label, text); err != nil {
			a.logger.Warn("record snapshot failed", slog.Any("error", err))
		}
	}

	a.dirty = false
	return nil
}

// Read runs fn with shared access to the document.
func (a *App) Read(fn func(doc *resume.Document, warnings []texmark.Warning)) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	fn(a.doc, a.warnings)
}

// Mutate runs fn with exclusive access to the document and marks it
// dirty when fn succeeds.
func (a *App) Mutate(fn func(doc *resume.Document) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := fn(a.doc); err != nil {
		return err
	}
	a.dirty = true
	return nil
}

// Dirty reports whether the document has unsaved changes.
func (a *App) Dirty() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.dirty
}

// ReplaceDocument swaps in a new document wholesale, as after a
// restore or an external reload.
func (a *App) ReplaceDocument(doc *resume.Document, warnings []texmark.Warning) {
	doc.EnsureSections()
	a.mu.Lock()
	a.doc = doc
	a.warnings = warnings
	a.dirty = true
	a.mu.Unlock()
}

// StartCompile saves the document and launches the compiler on a
// background goroutine. It returns the new job, or the running one
// with ok=false when a compile is already in flight.
func (a *App) StartCompile() (*Job, bool, error) {
	a.jobMu.Lock()
	defer a.jobMu.Unlock()

	if a.job != nil && a.job.Status == JobRunning {
		return a.job, false, nil
	}

	if err := a.Save("compile"); err != nil {
		return nil, false, err
	}

	job := &Job{
		ID:        uuid.NewString(),
		Status:    JobRunning,
		StartedAt: time.Now(),
	}
	a.job = job

	go a.runCompile(job)
	return job, true, nil
}

func (a *App) runCompile(job *Job) {
	metrics.CompileStarted()
	a.hub.Broadcast("compile_started", map[string]any{"job_id": job.ID})

	onPass := func(pass int) {
		a.hub.Broadcast("compile_pass", map[string]any{"job_id": job.ID, "pass": pass})
	}

	start := time.Now()
	result := a.compiler.Run(context.Background(), onPass)
	metrics.CompileFinished(string(result.Status), time.Since(start))

	now := time.Now()
	a.jobMu.Lock()
	job.Result = result.Status
	job.Log = result.Log
	job.FinishedAt = &now
	switch result.Status {
	case compile.StatusOK:
		job.Status = JobDone
	case compile.StatusBackendMissing:
		job.Status = JobNoDriver
	default:
		job.Status = JobFailed
	}
	a.jobMu.Unlock()

	a.logger.Info("compile finished",
		slog.String("job_id", job.ID),
		slog.String("status", string(result.Status)),
		slog.Duration("duration", result.Duration),
	)
	a.hub.Broadcast("compile_finished", map[string]any{
		"job_id": job.ID,
		"status": string(result.Status),
	})
}

// JobByID returns a copy of the job with the given ID.
func (a *App) JobByID(id string) (Job, bool) {
	a.jobMu.Lock()
	defer a.jobMu.Unlock()
	if a.job == nil || a.job.ID != id {
		return Job{}, false
	}
	return *a.job, true
}
