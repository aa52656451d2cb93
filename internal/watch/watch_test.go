package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestExternalWriteFiresEvent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume-content.tex")
	if err := os.WriteFile(path, []byte("before"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	events := make(chan struct{}, 1)
	w, err := New(path, func() { events <- struct{}{} })
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("after"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	select {
	case <-events:
	case <-time.After(3 * time.Second):
		t.Fatal("no event after an external write")
	}
}

func TestSuppressedWriteIsIgnored(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume-content.tex")

	events := make(chan struct{}, 1)
	w, err := New(path, func() { events <- struct{}{} })
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()

	w.Suppress()
	if err := os.WriteFile(path, []byte("own save"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case <-events:
		t.Fatal("suppressed write still fired an event")
	case <-time.After(time.Second):
	}
}

func TestOtherFilesIgnored(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume-content.tex")

	events := make(chan struct{}, 1)
	w, err := New(path, func() { events <- struct{}{} })
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "resume.log"), []byte("junk"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case <-events:
		t.Fatal("unrelated file fired an event")
	case <-time.After(time.Second):
	}
}
