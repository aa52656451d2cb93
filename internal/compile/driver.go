// Package compile drives the external PDF compiler. The compiler is an
// unmodeled boundary process: it is invoked twice so the backend can
// resolve cross-references, its output is captured verbatim, and there is
// no retry beyond surfacing the failure.
package compile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"resumed/internal/config"
)

// Status classifies the outcome of a compile run.
type Status string

const (
	StatusOK             Status = "ok"
	StatusCompileError   Status = "compile_error"
	StatusBackendMissing Status = "backend_missing"
)

// Result carries the outcome and the compiler's combined output.
type Result struct {
	Status   Status        `json:"status"`
	Log      string        `json:"log"`
	Duration time.Duration `json:"duration"`
}

// BackupSuffix is appended to the content file path for the single rolling
// backup written before each save-and-compile.
const BackupSuffix = ".bak"

// Driver invokes the compiler against the master document.
type Driver struct {
	// Command is the compiler binary name, resolved on PATH.
	Command string
	// Master is the master document file name within Dir.
	Master string
	// Dir is the theme directory; the compiler runs with this as its
	// working directory.
	Dir string
	// PassTimeout bounds each of the two passes.
	PassTimeout time.Duration
}

// FromConfig builds the driver for the configured theme. Master stays a
// bare file name; the theme directory only enters as the compiler's
// working directory.
func FromConfig(cfg *config.Config) *Driver {
	return &Driver{
		Command:     cfg.Compile.Command,
		Master:      cfg.Theme.MasterFile,
		Dir:         cfg.Theme.Dir,
		PassTimeout: cfg.Compile.PassTimeout,
	}
}

// Available reports whether the compiler binary can be resolved.
func (d *Driver) Available() bool {
	_, err := exec.LookPath(d.Command)
	return err == nil
}

// Run executes the two-pass compilation. onPass, when non-nil, is called
// before each pass starts.
func (d *Driver) Run(ctx context.Context, onPass func(pass int)) Result {
	start := time.Now()
	if !d.Available() {
		return Result{
			Status:   StatusBackendMissing,
			Log:      fmt.Sprintf("%s not found on PATH. Is the TeX distribution installed?", d.Command),
			Duration: time.Since(start),
		}
	}

	var log strings.Builder
	for pass := 1; pass <= 2; pass++ {
		if onPass != nil {
			onPass(pass)
		}
		out, err := d.runPass(ctx, pass)
		fmt.Fprintf(&log, "--- Pass %d ---\n%s\n", pass, out)
		if err != nil {
			fmt.Fprintf(&log, "%v\n", err)
			return Result{Status: StatusCompileError, Log: log.String(), Duration: time.Since(start)}
		}
	}

	pdf := strings.TrimSuffix(d.Master, filepath.Ext(d.Master)) + ".pdf"
	if _, err := os.Stat(filepath.Join(d.Dir, pdf)); err != nil {
		fmt.Fprintf(&log, "compiler exited cleanly but %s was not produced\n", pdf)
		return Result{Status: StatusCompileError, Log: log.String(), Duration: time.Since(start)}
	}
	return Result{Status: StatusOK, Log: log.String(), Duration: time.Since(start)}
}

func (d *Driver) runPass(ctx context.Context, pass int) (string, error) {
	pctx := ctx
	if d.PassTimeout > 0 {
		var cancel context.CancelFunc
		pctx, cancel = context.WithTimeout(ctx, d.PassTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(pctx, d.Command, "-interaction=nonstopmode", d.Master)
	cmd.Dir = d.Dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(pctx.Err(), context.DeadlineExceeded) {
			return string(out), fmt.Errorf("pass %d timed out after %s", pass, d.PassTimeout)
		}
		return string(out), fmt.Errorf("pass %d: %w", pass, err)
	}
	return string(out), nil
}

// Backup copies the content file to its rolling backup path, overwriting
// the previous backup. A missing content file is not an error: there is
// nothing to protect yet.
func Backup(contentPath string) error {
	src, err := os.Open(contentPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open content file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(contentPath + BackupSuffix)
	if err != nil {
		return fmt.Errorf("create backup: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return nil
}
