package state

import (
	"errors"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/five82/deckhand/internal/kv"
	"github.com/five82/deckhand/internal/logging"
)

// Persisted selection keys.
const (
	SelectedAgentKey  = "selected_agent_slug"
	CurrentProjectKey = "currentProjectId"
)

// Selection is an optional identifier mirrored to one kv key. The empty
// string means nothing is selected. A nil kv store keeps the selection in
// memory only.
type Selection struct {
	key   string
	store kv.Store
	log   *logrus.Entry

	mu sync.RWMutex
	id string
}

// NewSelection returns an empty selection persisted under key.
func NewSelection(key string, store kv.Store, log *logrus.Entry) *Selection {
	if log == nil {
		log = logging.Discard()
	}
	return &Selection{key: key, store: store, log: log}
}

// ID returns the selected identifier, or "" when nothing is selected.
func (s *Selection) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

// Select sets the selection and writes it through to the kv store. An empty
// id clears the selection and removes the key.
func (s *Selection) Select(id string) {
	id = strings.TrimSpace(id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(id)
}

func (s *Selection) setLocked(id string) {
	s.id = id
	if s.store == nil {
		return
	}
	var err error
	if id == "" {
		err = s.store.Remove(s.key)
	} else {
		err = s.store.Set(s.key, id)
	}
	if err != nil {
		s.log.WithError(err).WithField("key", s.key).Warn("persist selection failed")
	}
}

// InitFromStorage adopts the persisted value without checking it exists;
// the next load validates it.
func (s *Selection) InitFromStorage() {
	if s.store == nil {
		return
	}
	value, err := s.store.Get(s.key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.log.WithError(err).WithField("key", s.key).Warn("read selection failed")
		}
		return
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = value
}

// retain clears the selection when it is not among present.
func (s *Selection) retain(present func(id string) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.id == "" || present(s.id) {
		return
	}
	s.log.WithField("id", s.id).Info("selection no longer exists, clearing")
	s.setLocked("")
}

// clearIf clears the selection only while it still equals id.
func (s *Selection) clearIf(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" || s.id != id {
		return
	}
	s.setLocked("")
}
