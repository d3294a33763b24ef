package storage

import "sync"

// MemoryStore is an in-process Store. It satisfies the contract minus
// durability, which makes it the right backing for tests and for hosts
// without a writable data directory.
type MemoryStore struct {
	mu    sync.Mutex
	sets  map[string]map[string]struct{}
	bools map[string]bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sets:  make(map[string]map[string]struct{}),
		bools: make(map[string]bool),
	}
}

// LoadSet returns a copy of the set stored under key.
func (m *MemoryStore) LoadSet(key string) (map[string]struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]struct{}, len(m.sets[key]))
	for id := range m.sets[key] {
		out[id] = struct{}{}
	}
	return out, nil
}

// SaveSet replaces the set stored under key with a copy of the input.
func (m *MemoryStore) SaveSet(key string, set map[string]struct{}) error {
	stored := make(map[string]struct{}, len(set))
	for id := range set {
		stored[id] = struct{}{}
	}

	m.mu.Lock()
	m.sets[key] = stored
	m.mu.Unlock()
	return nil
}

// LoadBool returns the flag stored under key, or def when absent.
func (m *MemoryStore) LoadBool(key string, def bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v, ok := m.bools[key]; ok {
		return v, nil
	}
	return def, nil
}

// SaveBool replaces the flag stored under key.
func (m *MemoryStore) SaveBool(key string, value bool) error {
	m.mu.Lock()
	m.bools[key] = value
	m.mu.Unlock()
	return nil
}
