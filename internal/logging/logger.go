// Package logging hands out per-component logrus entries that share one
// configured base logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Config selects level, format and destination for every component logger.
type Config struct {
	// Level is the minimum level to output ("debug", "info", "warn", "error").
	Level string
	// Format is "text" (default) or "json".
	Format string
	// Output receives log lines. Nil means stderr.
	Output io.Writer
}

var (
	baseMu  sync.Mutex
	base    = newBase()
	loggers = make(map[string]*logrus.Entry)
)

func newBase() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// Setup reconfigures the shared base logger. Component loggers created
// earlier pick up the change since they share the base.
func Setup(cfg Config) error {
	level := logrus.InfoLevel
	if s := strings.TrimSpace(cfg.Level); s != "" {
		parsed, err := logrus.ParseLevel(s)
		if err != nil {
			return fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}

	var formatter logrus.Formatter
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "text":
		formatter = &logrus.TextFormatter{FullTimestamp: true}
	case "json":
		formatter = &logrus.JSONFormatter{}
	default:
		return fmt.Errorf("unknown log format %q", cfg.Format)
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	baseMu.Lock()
	defer baseMu.Unlock()
	base.SetLevel(level)
	base.SetFormatter(formatter)
	base.SetOutput(out)
	return nil
}

// NewLogger returns the logger for a component, creating it on first use.
func NewLogger(component string) *logrus.Entry {
	baseMu.Lock()
	defer baseMu.Unlock()

	if logger, ok := loggers[component]; ok {
		return logger
	}
	logger := base.WithField("component", component)
	loggers[component] = logger
	return logger
}

// Discard returns an entry that drops everything; used where no logger was
// injected in tests.
func Discard() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}
