package compile

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"resumed/internal/config"
)

// writeScript installs an executable stand-in for the compiler binary.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake not portable to windows")
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestRunBackendMissing(t *testing.T) {
	d := &Driver{Command: "definitely-not-a-real-compiler", Master: "resume.tex", Dir: t.TempDir()}
	if d.Available() {
		t.Fatal("nonexistent binary reported available")
	}
	res := d.Run(context.Background(), nil)
	if res.Status != StatusBackendMissing {
		t.Errorf("status = %s, want %s", res.Status, StatusBackendMissing)
	}
	if !strings.Contains(res.Log, "not found") {
		t.Errorf("log does not explain the failure: %q", res.Log)
	}
}

func TestRunTwoPassesProducePDF(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "fakelatex", `echo "pass output for $2"
touch resume.pdf
exit 0
`)

	var passes []int
	d := &Driver{Command: script, Master: "resume.tex", Dir: dir, PassTimeout: 5 * time.Second}
	res := d.Run(context.Background(), func(pass int) { passes = append(passes, pass) })

	if res.Status != StatusOK {
		t.Fatalf("status = %s, want %s\nlog: %s", res.Status, StatusOK, res.Log)
	}
	if len(passes) != 2 || passes[0] != 1 || passes[1] != 2 {
		t.Errorf("pass callbacks = %v, want [1 2]", passes)
	}
	if !strings.Contains(res.Log, "--- Pass 1 ---") || !strings.Contains(res.Log, "--- Pass 2 ---") {
		t.Errorf("log missing pass markers: %q", res.Log)
	}
}

func TestFromConfigCompilesInThemeDir(t *testing.T) {
	parent := t.TempDir()
	theme := filepath.Join(parent, "mytheme")
	if err := os.Mkdir(theme, 0o755); err != nil {
		t.Fatalf("make theme dir: %v", err)
	}
	script := writeScript(t, parent, "fakelatex", `touch resume.pdf
exit 0
`)

	cfg := &config.Config{}
	cfg.Compile.Command = script
	cfg.Compile.PassTimeout = 5 * time.Second
	cfg.Theme.Dir = theme
	cfg.Theme.MasterFile = "resume.tex"

	d := FromConfig(cfg)
	if strings.ContainsRune(d.Master, os.PathSeparator) {
		t.Fatalf("master %q must stay a bare file name within the theme dir", d.Master)
	}

	res := d.Run(context.Background(), nil)
	if res.Status != StatusOK {
		t.Fatalf("status = %s, want %s\nlog: %s", res.Status, StatusOK, res.Log)
	}
	if _, err := os.Stat(filepath.Join(theme, "resume.pdf")); err != nil {
		t.Errorf("pdf missing from the theme dir: %v", err)
	}
}

func TestRunCompileError(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "fakelatex", `echo "! Undefined control sequence."
exit 1
`)

	d := &Driver{Command: script, Master: "resume.tex", Dir: dir}
	res := d.Run(context.Background(), nil)
	if res.Status != StatusCompileError {
		t.Fatalf("status = %s, want %s", res.Status, StatusCompileError)
	}
	if !strings.Contains(res.Log, "Undefined control sequence") {
		t.Errorf("compiler output not captured: %q", res.Log)
	}
	if strings.Contains(res.Log, "--- Pass 2 ---") {
		t.Errorf("second pass ran after a failed first pass: %q", res.Log)
	}
}

func TestRunMissingPDFIsError(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "fakelatex", "exit 0\n")

	d := &Driver{Command: script, Master: "resume.tex", Dir: dir}
	res := d.Run(context.Background(), nil)
	if res.Status != StatusCompileError {
		t.Fatalf("status = %s, want %s", res.Status, StatusCompileError)
	}
	if !strings.Contains(res.Log, "resume.pdf was not produced") {
		t.Errorf("log does not mention the missing PDF: %q", res.Log)
	}
}

func TestRunPassTimeout(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "fakelatex", "sleep 5\n")

	d := &Driver{Command: script, Master: "resume.tex", Dir: dir, PassTimeout: 100 * time.Millisecond}
	res := d.Run(context.Background(), nil)
	if res.Status != StatusCompileError {
		t.Fatalf("status = %s, want %s", res.Status, StatusCompileError)
	}
	if !strings.Contains(res.Log, "timed out") {
		t.Errorf("log does not mention the timeout: %q", res.Log)
	}
}

func TestBackup(t *testing.T) {
	dir := t.TempDir()
	content := filepath.Join(dir, "resume-content.tex")

	// Missing content file: nothing to protect, no error, no backup.
	if err := Backup(content); err != nil {
		t.Fatalf("backup of missing file: %v", err)
	}
	if _, err := os.Stat(content + BackupSuffix); !os.IsNotExist(err) {
		t.Fatal("backup file created for a missing source")
	}

	if err := os.WriteFile(content, []byte("version one"), 0o644); err != nil {
		t.Fatalf("write content: %v", err)
	}
	if err := Backup(content); err != nil {
		t.Fatalf("backup: %v", err)
	}
	got, err := os.ReadFile(content + BackupSuffix)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if string(got) != "version one" {
		t.Errorf("backup content = %q", got)
	}

	// The backup rolls: a second save overwrites it.
	if err := os.WriteFile(content, []byte("version two"), 0o644); err != nil {
		t.Fatalf("rewrite content: %v", err)
	}
	if err := Backup(content); err != nil {
		t.Fatalf("second backup: %v", err)
	}
	got, _ = os.ReadFile(content + BackupSuffix)
	if string(got) != "version two" {
		t.Errorf("backup did not roll: %q", got)
	}
}
