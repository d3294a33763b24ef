package trigger

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Store holds the current trigger facts. It is safe for concurrent use; all
// evaluation happens against a Snapshot, never the live map.
type Store struct {
	mu       sync.RWMutex
	values   map[string]Value
	listener func()
}

// NewStore creates an empty trigger store.
func NewStore() *Store {
	return &Store{
		values: make(map[string]Value),
	}
}

// SetListener registers the callback invoked after every successful store
// mutation. At most one listener is supported; registering replaces the
// previous one. The callback runs on the mutating goroutine, outside the
// store lock.
func (s *Store) SetListener(fn func()) {
	s.mu.Lock()
	s.listener = fn
	s.mu.Unlock()
}

// Set merges the supplied values into the store, overwriting existing keys.
// Values of unsupported types are skipped with a warning; the remaining keys
// are still applied. The change listener fires once if any key was applied.
func (s *Store) Set(values map[string]any) {
	if len(values) == 0 {
		return
	}

	s.mu.Lock()
	applied := 0
	for key, raw := range values {
		v, err := FromAny(raw)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Set",
				"key":      key,
				"error":    err,
			}).Warn("Skipping trigger with unsupported value")
			continue
		}
		s.values[key] = v
		applied++
	}
	listener := s.listener
	s.mu.Unlock()

	if applied == 0 {
		return
	}

	logrus.WithFields(logrus.Fields{
		"function": "Set",
		"applied":  applied,
	}).Debug("Trigger values updated")

	if listener != nil {
		listener()
	}
}

// Remove deletes the given keys. The change listener fires once if at least
// one key existed.
func (s *Store) Remove(keys []string) {
	if len(keys) == 0 {
		return
	}

	s.mu.Lock()
	removed := 0
	for _, key := range keys {
		if _, ok := s.values[key]; ok {
			delete(s.values, key)
			removed++
		}
	}
	listener := s.listener
	s.mu.Unlock()

	if removed == 0 {
		return
	}

	logrus.WithFields(logrus.Fields{
		"function": "Remove",
		"removed":  removed,
	}).Debug("Trigger values removed")

	if listener != nil {
		listener()
	}
}

// Get returns the value for a key and whether it is present.
func (s *Store) Get(key string) (Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	return v, ok
}

// All returns a copy of the current key/value mapping.
func (s *Store) All() map[string]Value {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]Value, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Snapshot captures a consistent copy of the store for evaluation. Mutations
// after the snapshot is taken are not visible to it.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := make(Snapshot, len(s.values))
	for k, v := range s.values {
		snap[k] = v
	}
	return snap
}
