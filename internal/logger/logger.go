package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Component names a subsystem for log scoping.
type Component string

const (
	ComponentApp        Component = "app"
	ComponentExtractor  Component = "extractor"
	ComponentDownloader Component = "downloader"
	ComponentClient     Component = "client"
	ComponentBatch      Component = "batch"
)

// ComponentLogger is a leveled logger scoped to a single component.
type ComponentLogger = log.Logger

// Config holds logger configuration.
type Config struct {
	Level     string // debug, info, warn, error
	Format    string // text, json
	Output    io.Writer
	Timestamp bool
}

// DefaultConfig returns the default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "text",
		Output: os.Stderr,
	}
}

var (
	mu     sync.RWMutex
	global = newLogger(DefaultConfig())
)

// Setup replaces the global logger. Unknown levels fall back to info.
func Setup(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	global = newLogger(cfg)
}

// EnvConfig builds a Config from DOODOZER_LOG_* environment variables on top
// of the defaults.
func EnvConfig() Config {
	cfg := DefaultConfig()
	if level := os.Getenv("DOODOZER_LOG_LEVEL"); level != "" {
		cfg.Level = level
	}
	if format := os.Getenv("DOODOZER_LOG_FORMAT"); format != "" {
		cfg.Format = format
	}
	if ts := os.Getenv("DOODOZER_LOG_TIMESTAMP"); ts == "true" || ts == "1" {
		cfg.Timestamp = true
	}
	return cfg
}

// SetLevel changes the level of the global logger.
func SetLevel(level string) {
	mu.RLock()
	defer mu.RUnlock()
	global.SetLevel(parseLevel(level))
}

// WithComponent returns a logger prefixed with the component name.
func WithComponent(c Component) *ComponentLogger {
	mu.RLock()
	defer mu.RUnlock()
	return global.WithPrefix(string(c))
}

func newLogger(cfg Config) *log.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	l := log.NewWithOptions(out, log.Options{
		Level:           parseLevel(cfg.Level),
		ReportTimestamp: cfg.Timestamp,
		TimeFormat:      "2006-01-02 15:04:05",
	})
	if strings.EqualFold(cfg.Format, "json") {
		l.SetFormatter(log.JSONFormatter)
	}
	return l
}

func parseLevel(s string) log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
