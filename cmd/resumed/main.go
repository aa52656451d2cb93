package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"time"

	"resumed/internal/api"
	"resumed/internal/compile"
	"resumed/internal/config"
	"resumed/internal/history"
	"resumed/internal/ui"
	"resumed/internal/watch"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	// A positional theme directory overrides the environment.
	args := os.Args[1:]
	switch {
	case len(args) == 1:
		cfg.Theme.Dir = args[0]
	case len(args) > 1:
		fmt.Fprintln(os.Stderr, "usage: resumed [theme-dir]")
		os.Exit(2)
	}

	if info, err := os.Stat(cfg.Theme.Dir); err != nil || !info.IsDir() {
		log.Fatalf("theme directory %q not found", cfg.Theme.Dir)
	}
	logger.Info("resumed starting", slog.String("theme_dir", cfg.Theme.Dir))

	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		log.Fatalf("open history store: %v", err)
	}

	driver := compile.FromConfig(cfg)
	if !driver.Available() {
		logger.Warn("latex compiler not found on PATH, compiles will fail",
			slog.String("command", cfg.Compile.Command))
	}

	hub := api.NewHub(logger)
	app := api.NewApp(cfg, logger, store, driver, hub)
	if err := app.LoadFromDisk(); err != nil {
		log.Fatalf("load content file: %v", err)
	}

	watcher, err := watch.New(cfg.ContentPath(), func() {
		logger.Info("content file changed on disk")
		hub.Broadcast("content_changed", nil)
	})
	if err != nil {
		logger.Warn("file watching disabled", slog.Any("error", err))
	} else {
		app.BeforeWrite = watcher.Suppress
		defer watcher.Close()
	}

	router := api.NewRouter(logger)
	api.RegisterRoutes(router, app, store, logger)
	ui.Register(router)

	url := fmt.Sprintf("http://%s/", cfg.Addr())
	if cfg.Server.OpenBrowser {
		go openBrowser(logger, url)
	}

	logger.Info("form available", slog.String("url", url))
	if err := router.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

// openBrowser points the system browser at the form. Best effort: the
// URL is printed either way.
func openBrowser(logger *slog.Logger, url string) {
	time.Sleep(300 * time.Millisecond)

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		logger.Warn("could not open browser", slog.Any("error", err))
	}
}
