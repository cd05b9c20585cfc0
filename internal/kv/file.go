package kv

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

const defaultStatePath = "~/.local/state/deckhand/state.toml"

// File persists values as a flat TOML table. The whole document is
// rewritten on every Set and Remove.
type File struct {
	mu   sync.RWMutex
	path string
	data map[string]string
}

// DefaultPath returns the default state file path.
func DefaultPath() string {
	return defaultStatePath
}

// OpenFile loads the TOML state file at path. A missing file yields an empty
// store; it is created on first write.
func OpenFile(path string) (*File, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, err
	}
	f := &File{path: resolved, data: make(map[string]string)}

	bytes, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return f, nil
		}
		return nil, fmt.Errorf("read state: %w", err)
	}
	if err := toml.Unmarshal(bytes, &f.data); err != nil {
		return nil, fmt.Errorf("parse state: %w", err)
	}
	if f.data == nil {
		f.data = make(map[string]string)
	}
	return f, nil
}

// Path returns the resolved file location.
func (f *File) Path() string {
	return f.path
}

func (f *File) Get(key string) (string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	val, ok := f.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return val, nil
}

func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	next := maps.Clone(f.data)
	next[key] = value
	if err := f.write(next); err != nil {
		return err
	}
	f.data = next
	return nil
}

func (f *File) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[key]; !ok {
		return nil
	}
	next := maps.Clone(f.data)
	delete(next, key)
	if err := f.write(next); err != nil {
		return err
	}
	f.data = next
	return nil
}

func (f *File) write(data map[string]string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	bytes, err := toml.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".state-*.toml")
	if err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(bytes); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultStatePath)
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
