// Package kv provides the string key/value persistence deckhand keeps
// between runs: the issued token pair and the selected project and agent.
//
// Every backend is synchronous and keyed per concern; there is no
// transactional coupling across keys. Memory suits tests and
// non-interactive runs, File keeps a TOML document next to the user's
// config, and SQLite is for hosts that share one state file across
// concurrent processes.
package kv

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("kv: key not found")

// Store is a synchronous string key/value store.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open returns the backend named by kind rooted at path. The returned
// closer releases file handles and is safe to call on every backend.
func Open(kind, path string) (Store, io.Closer, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", BackendFile:
		s, err := OpenFile(path)
		if err != nil {
			return nil, nil, err
		}
		return s, nopCloser{}, nil
	case BackendSQLite:
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case BackendMemory:
		return NewMemory(), nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("unknown state backend %q", kind)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
