// Package prefs handles deckhand user preferences persistence.
// Preferences are stored in ~/.config/deckhand/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds user preferences for the terminal UI.
type Prefs struct {
	Theme   string `toml:"theme"`
	PerPage int    `toml:"per_page"`
}

const (
	defaultPrefsPath = "~/.config/deckhand/prefs.toml"
	defaultTheme     = "Nightfox"
	defaultPerPage   = 20
	maxPerPage       = 100
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Defaults returns the preferences used when no file exists.
func Defaults() Prefs {
	return Prefs{Theme: defaultTheme, PerPage: defaultPerPage}
}

// Load reads preferences from the given path, falling back to defaults if
// the file is missing or unreadable.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Defaults(), nil
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Defaults(), nil
		}
		return Defaults(), nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Defaults(), nil
	}

	var p Prefs
	if err := toml.Unmarshal(bytes, &p); err != nil {
		return Defaults(), nil
	}
	return p.normalized(), nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p.normalized())
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func (p Prefs) normalized() Prefs {
	p.Theme = strings.TrimSpace(p.Theme)
	if p.Theme == "" {
		p.Theme = defaultTheme
	}
	switch {
	case p.PerPage <= 0:
		p.PerPage = defaultPerPage
	case p.PerPage > maxPerPage:
		p.PerPage = maxPerPage
	}
	return p
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
