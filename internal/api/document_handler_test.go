package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resumed/internal/compile"
	"resumed/internal/config"
	"resumed/internal/history"
)

type fakeCompiler struct {
	available bool
	result    compile.Result
	release   chan struct{}

	mu    sync.Mutex
	calls int
}

func (f *fakeCompiler) Available() bool { return f.available }

func (f *fakeCompiler) Run(_ context.Context, onPass func(int)) compile.Result {
	if onPass != nil {
		onPass(1)
		onPass(2)
	}
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.result
}

func newTestApp(t *testing.T, comp Compiler) (*App, *gin.Engine, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server:  config.ServerConfig{Host: "127.0.0.1", Port: 8741},
		Theme:   config.ThemeConfig{Dir: t.TempDir(), ContentFile: "resume-content.tex", MasterFile: "resume.tex"},
		Compile: config.CompileConfig{Command: "pdflatex", PassTimeout: time.Second},
		History: config.HistoryConfig{File: "history.db"},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		t.Fatalf("open history store: %v", err)
	}

	app := NewApp(cfg, logger, store, comp, NewHub(logger))
	if err := app.LoadFromDisk(); err != nil {
		t.Fatalf("load: %v", err)
	}

	router := NewRouter(logger)
	RegisterRoutes(router, app, store, logger)
	return app, router, cfg
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func TestListSections(t *testing.T) {
	_, router, _ := newTestApp(t, &fakeCompiler{available: true})

	w := doJSON(t, router, http.MethodGet, "/v1/sections", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var specs []map[string]any
	decodeBody(t, w, &specs)
	if len(specs) != 12 {
		t.Errorf("expected 12 sections, got %d", len(specs))
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	_, router, _ := newTestApp(t, &fakeCompiler{available: true})

	w := doJSON(t, router, http.MethodPut, "/v1/header", map[string]any{
		"name":     "Ada Lovelace",
		"headline": "Engineer",
		"contact_line_1": []map[string]any{
			{"kind": "item", "icon": "phone", "text": "123"},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("put status = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/v1/header", nil)
	var header map[string]any
	decodeBody(t, w, &header)
	if header["name"] != "Ada Lovelace" {
		t.Errorf("header = %v", header)
	}
}

func TestPutHeaderValidation(t *testing.T) {
	_, router, _ := newTestApp(t, &fakeCompiler{available: true})

	w := doJSON(t, router, http.MethodPut, "/v1/header", map[string]any{"headline": "no name"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", w.Code)
	}
}

func TestEntryCRUD(t *testing.T) {
	_, router, _ := newTestApp(t, &fakeCompiler{available: true})

	w := doJSON(t, router, http.MethodPost, "/v1/sections/education/entries", map[string]any{
		"institution": "MIT", "degree": "MSc Computer Science", "date": "2022 -- 2024",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", w.Code, w.Body.String())
	}
	var created map[string]int
	decodeBody(t, w, &created)
	if created["index"] != 0 {
		t.Errorf("index = %d, want 0", created["index"])
	}

	doJSON(t, router, http.MethodPost, "/v1/sections/education/entries", map[string]any{
		"institution": "Oxford", "degree": "BA", "date": "2018",
	})

	w = doJSON(t, router, http.MethodGet, "/v1/sections/education/entries", nil)
	var entries []map[string]any
	decodeBody(t, w, &entries)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	w = doJSON(t, router, http.MethodPut, "/v1/sections/education/entries/1", map[string]any{
		"institution": "Cambridge", "degree": "BA", "date": "2018",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodDelete, "/v1/sections/education/entries/0", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/v1/sections/education/entries", nil)
	decodeBody(t, w, &entries)
	if len(entries) != 1 || entries[0]["institution"] != "Cambridge" {
		t.Errorf("entries after delete = %v", entries)
	}
}

func TestCreateEntryValidation(t *testing.T) {
	_, router, _ := newTestApp(t, &fakeCompiler{available: true})

	w := doJSON(t, router, http.MethodPost, "/v1/sections/education/entries", map[string]any{
		"date": "2024",
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Fields []struct {
			Field string `json:"field"`
		} `json:"fields"`
	}
	decodeBody(t, w, &resp)
	if len(resp.Fields) != 2 {
		t.Errorf("expected two field errors, got %v", resp.Fields)
	}
}

func TestUnknownSectionAndIndex(t *testing.T) {
	_, router, _ := newTestApp(t, &fakeCompiler{available: true})

	w := doJSON(t, router, http.MethodGet, "/v1/sections/hobbies/entries", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown section status = %d, want 404", w.Code)
	}

	// Singletons have dedicated endpoints and no entry list.
	w = doJSON(t, router, http.MethodGet, "/v1/sections/header/entries", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("singleton section status = %d, want 404", w.Code)
	}

	w = doJSON(t, router, http.MethodDelete, "/v1/sections/education/entries/7", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("bad index status = %d, want 404", w.Code)
	}
}

func TestMoveEntry(t *testing.T) {
	_, router, _ := newTestApp(t, &fakeCompiler{available: true})

	for _, title := range []string{"first", "second"} {
		doJSON(t, router, http.MethodPost, "/v1/sections/projects/entries", map[string]any{"title": title})
	}

	w := doJSON(t, router, http.MethodPost, "/v1/sections/projects/entries/1/move", map[string]any{"direction": "up"})
	if w.Code != http.StatusOK {
		t.Fatalf("move status = %d: %s", w.Code, w.Body.String())
	}
	var moved map[string]int
	decodeBody(t, w, &moved)
	if moved["index"] != 0 {
		t.Errorf("index after move = %d, want 0", moved["index"])
	}

	// Moving past the boundary is a no-op.
	w = doJSON(t, router, http.MethodPost, "/v1/sections/projects/entries/0/move", map[string]any{"direction": "up"})
	decodeBody(t, w, &moved)
	if moved["index"] != 0 {
		t.Errorf("boundary move index = %d, want 0", moved["index"])
	}

	w = doJSON(t, router, http.MethodPost, "/v1/sections/projects/entries/0/move", map[string]any{"direction": "sideways"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid direction status = %d, want 400", w.Code)
	}

	var entries []map[string]any
	w = doJSON(t, router, http.MethodGet, "/v1/sections/projects/entries", nil)
	decodeBody(t, w, &entries)
	if entries[0]["title"] != "second" || entries[1]["title"] != "first" {
		t.Errorf("order after moves = %v", entries)
	}
}

func TestSaveWritesContentFile(t *testing.T) {
	_, router, cfg := newTestApp(t, &fakeCompiler{available: true})

	doJSON(t, router, http.MethodPut, "/v1/header", map[string]any{"name": "Ada"})
	w := doJSON(t, router, http.MethodPost, "/v1/save", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("save status = %d: %s", w.Code, w.Body.String())
	}

	data, err := os.ReadFile(cfg.ContentPath())
	if err != nil {
		t.Fatalf("read content file: %v", err)
	}
	if !strings.Contains(string(data), `\makeheader`) || !strings.Contains(string(data), "{Ada}") {
		t.Errorf("content file missing header: %s", data)
	}

	// The save is recorded as a snapshot.
	w = doJSON(t, router, http.MethodGet, "/v1/revisions", nil)
	var revisions []map[string]any
	decodeBody(t, w, &revisions)
	if len(revisions) != 1 {
		t.Errorf("expected one revision, got %d", len(revisions))
	}
}

func TestSaveRollsBackup(t *testing.T) {
	_, router, cfg := newTestApp(t, &fakeCompiler{available: true})

	doJSON(t, router, http.MethodPut, "/v1/header", map[string]any{"name": "Ada"})
	doJSON(t, router, http.MethodPost, "/v1/save", nil)

	first, _ := os.ReadFile(cfg.ContentPath())

	doJSON(t, router, http.MethodPut, "/v1/header", map[string]any{"name": "Grace"})
	doJSON(t, router, http.MethodPost, "/v1/save", nil)

	backup, err := os.ReadFile(cfg.ContentPath() + compile.BackupSuffix)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if string(backup) != string(first) {
		t.Error("backup does not hold the previous version")
	}
}

func TestReloadDiscardsUnsavedEdits(t *testing.T) {
	app, router, cfg := newTestApp(t, &fakeCompiler{available: true})

	doJSON(t, router, http.MethodPut, "/v1/header", map[string]any{"name": "Ada"})
	doJSON(t, router, http.MethodPost, "/v1/save", nil)

	doJSON(t, router, http.MethodPut, "/v1/header", map[string]any{"name": "Unsaved"})
	if !app.Dirty() {
		t.Fatal("expected the document to be dirty")
	}

	w := doJSON(t, router, http.MethodPost, "/v1/reload", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("reload status = %d", w.Code)
	}
	if app.Dirty() {
		t.Error("reload should clear the dirty flag")
	}

	w = doJSON(t, router, http.MethodGet, "/v1/header", nil)
	var header map[string]any
	decodeBody(t, w, &header)
	if header["name"] != "Ada" {
		t.Errorf("header after reload = %v", header)
	}

	// Sanity: the content on disk still has the saved name.
	data, _ := os.ReadFile(cfg.ContentPath())
	if !strings.Contains(string(data), "{Ada}") {
		t.Errorf("content file changed unexpectedly: %s", data)
	}
}

func TestWarningsSurfaceAfterLoad(t *testing.T) {
	app, router, cfg := newTestApp(t, &fakeCompiler{available: true})

	content := "\\section{Education}\n\\education{MIT}{MSc}\n"
	if err := os.WriteFile(cfg.ContentPath(), []byte(content), 0o644); err != nil {
		t.Fatalf("write content: %v", err)
	}
	if err := app.LoadFromDisk(); err != nil {
		t.Fatalf("load: %v", err)
	}

	w := doJSON(t, router, http.MethodGet, "/v1/warnings", nil)
	var warnings []map[string]any
	decodeBody(t, w, &warnings)
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %v", warnings)
	}
}

func TestHealthz(t *testing.T) {
	_, router, _ := newTestApp(t, &fakeCompiler{available: true})
	w := doJSON(t, router, http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
}
