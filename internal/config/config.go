package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config aggregates application settings sourced from environment
// variables with built-in defaults.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Theme   ThemeConfig   `mapstructure:"theme"`
	Compile CompileConfig `mapstructure:"compile"`
	History HistoryConfig `mapstructure:"history"`
}

// ServerConfig contains the local HTTP server settings.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// OpenBrowser launches the system browser at the form URL on startup.
	OpenBrowser bool `mapstructure:"open_browser"`
}

// ThemeConfig locates the managed content set.
type ThemeConfig struct {
	// Dir is the theme directory. The positional CLI argument overrides it.
	Dir string `mapstructure:"dir"`
	// ContentFile is the generated content file name within Dir.
	ContentFile string `mapstructure:"content_file"`
	// MasterFile is the master document the compiler is pointed at.
	MasterFile string `mapstructure:"master_file"`
}

// CompileConfig describes the external compiler invocation.
type CompileConfig struct {
	Command     string        `mapstructure:"command"`
	PassTimeout time.Duration `mapstructure:"pass_timeout"`
}

// HistoryConfig locates the local snapshot database.
type HistoryConfig struct {
	File string `mapstructure:"file"`
}

// ContentPath returns the absolute path of the content file.
func (c *Config) ContentPath() string {
	return filepath.Join(c.Theme.Dir, c.Theme.ContentFile)
}

// HistoryPath returns the absolute path of the snapshot database.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Theme.Dir, c.History.File)
}

// Addr returns the listen address for the local server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Load reads configuration solely from environment variables (with
// defaults suitable for running inside a theme directory).
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8741)
	v.SetDefault("server.open_browser", true)
	v.SetDefault("theme.dir", ".")
	v.SetDefault("theme.content_file", "resume-content.tex")
	v.SetDefault("theme.master_file", "resume.tex")
	v.SetDefault("compile.command", "pdflatex")
	v.SetDefault("compile.pass_timeout", 30*time.Second)
	v.SetDefault("history.file", ".resumed-history.db")
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"server.host":          "RESUMED_HOST",
		"server.port":          "RESUMED_PORT",
		"server.open_browser":  "RESUMED_OPEN_BROWSER",
		"theme.dir":            "RESUMED_THEME_DIR",
		"theme.content_file":   "RESUMED_CONTENT_FILE",
		"theme.master_file":    "RESUMED_MASTER_FILE",
		"compile.command":      "RESUMED_COMPILER",
		"compile.pass_timeout": "RESUMED_COMPILE_TIMEOUT",
		"history.file":         "RESUMED_HISTORY_FILE",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.Server.Port <= 0 {
		return errors.New("server port must be positive")
	}
	if cfg.Theme.Dir == "" {
		return errors.New("theme dir is required")
	}
	if cfg.Theme.ContentFile == "" {
		return errors.New("content file name is required")
	}
	if cfg.Theme.MasterFile == "" {
		return errors.New("master file name is required")
	}
	if cfg.Compile.Command == "" {
		return errors.New("compiler command is required")
	}
	if cfg.Compile.PassTimeout <= 0 {
		return errors.New("compile pass timeout must be positive")
	}
	if cfg.History.File == "" {
		return errors.New("history file name is required")
	}
	return nil
}
