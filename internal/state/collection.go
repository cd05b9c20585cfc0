package state

import (
	"context"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"
)

// ListSnapshot is a copy of a collection store's state.
type ListSnapshot[T any] struct {
	Items    []T
	Loading  bool
	Error    string
	Selected string
}

// collection is the list-plus-selection core shared by the project and agent
// stores. Loads replace the whole list; mutations never patch it locally.
type collection[T any] struct {
	key func(T) string
	sel *Selection
	log *logrus.Entry

	mu      sync.RWMutex
	items   []T
	loading bool
	err     string
	loads   generation
	epoch   uint64
}

func (c *collection[T]) snapshot() ListSnapshot[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return ListSnapshot[T]{
		Items:    slices.Clone(c.items),
		Loading:  c.loading,
		Error:    c.err,
		Selected: c.sel.ID(),
	}
}

// find returns the item with the given key from the current list.
func (c *collection[T]) find(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if c.key(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// current resolves the selection against the current list.
func (c *collection[T]) current() (T, bool) {
	id := c.sel.ID()
	if id == "" {
		var zero T
		return zero, false
	}
	return c.find(id)
}

// load fetches the full list. Failures keep the previous items and record a
// message. A selection missing from a successful load is cleared.
func (c *collection[T]) load(ctx context.Context, fetch func(context.Context) ([]T, error), fallback string) {
	c.mu.Lock()
	token := c.loads.next()
	c.loading = true
	c.err = ""
	c.mu.Unlock()

	items, err := fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loads.current(token) {
		c.log.WithField("token", token).Debug("discarding superseded list response")
		return
	}
	c.loading = false
	if err != nil {
		c.err = errorMessage(err, fallback)
		c.log.WithError(err).Warn(fallback)
		return
	}
	c.items = items
	c.sel.retain(func(id string) bool {
		for _, item := range items {
			if c.key(item) == id {
				return true
			}
		}
		return false
	})
}

// mutate runs a remote mutation, recording a message and returning the error
// on failure. live is false when the store was cleared while op ran; the
// caller then must not touch the selection or reload.
func (c *collection[T]) mutate(ctx context.Context, op func(context.Context) error, fallback string) (live bool, err error) {
	c.mu.Lock()
	epoch := c.epoch
	c.loading = true
	c.err = ""
	c.mu.Unlock()

	err = op(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		c.log.Debug("store cleared during mutation, skipping reload")
		return false, err
	}
	c.loading = false
	if err != nil {
		c.err = errorMessage(err, fallback)
		c.log.WithError(err).Warn(fallback)
	}
	return true, err
}

// clear empties the store and the selection; in-flight responses are dropped.
func (c *collection[T]) clear() {
	c.mu.Lock()
	c.loads.next()
	c.epoch++
	c.items = nil
	c.loading = false
	c.err = ""
	c.mu.Unlock()

	c.sel.Select("")
}
