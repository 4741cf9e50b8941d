package adapters

import "sync"

// PreferencesAdapter is a small durable key/value store for client state
// such as the paused session snapshot and the generated unique id.
type PreferencesAdapter interface {
	// GetString returns the stored value and whether the key was present.
	GetString(key string) (string, bool, error)

	// PutString stores value under key, replacing any previous value.
	PutString(key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(key string) error
}

// MemoryPreferencesAdapter keeps preferences in process memory.
type MemoryPreferencesAdapter struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ PreferencesAdapter = (*MemoryPreferencesAdapter)(nil)

// NewMemoryPreferencesAdapter creates an empty in-memory preferences store.
func NewMemoryPreferencesAdapter() *MemoryPreferencesAdapter {
	return &MemoryPreferencesAdapter{values: make(map[string]string)}
}

func (m *MemoryPreferencesAdapter) GetString(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryPreferencesAdapter) PutString(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryPreferencesAdapter) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
