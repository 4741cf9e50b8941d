package ripple

import (
	"sort"
	"sync"
)

// Registry holds values applied to events: a global scope plus one scope per
// event type. All methods are safe for concurrent use; reads return copies.
type Registry[V any] struct {
	mu     sync.RWMutex
	global map[string]V
	byType map[string]map[string]V
}

// NewRegistry creates an empty registry.
func NewRegistry[V any]() *Registry[V] {
	return &Registry[V]{
		global: make(map[string]V),
		byType: make(map[string]map[string]V),
	}
}

// Set sets a global value.
func (r *Registry[V]) Set(name string, value V) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.global[name] = value
}

// SetForType sets a value applied only to events of eventType.
func (r *Registry[V]) SetForType(eventType, name string, value V) {
	r.mu.Lock()
	defer r.mu.Unlock()
	scope, ok := r.byType[eventType]
	if !ok {
		scope = make(map[string]V)
		r.byType[eventType] = scope
	}
	scope[name] = value
}

// Get gets a global value.
func (r *Registry[V]) Get(name string) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.global[name]
	return v, ok
}

// Remove deletes a global value.
func (r *Registry[V]) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.global, name)
}

// RemoveForType deletes a per-type value. Empty scopes are dropped.
func (r *Registry[V]) RemoveForType(eventType, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	scope, ok := r.byType[eventType]
	if !ok {
		return
	}
	delete(scope, name)
	if len(scope) == 0 {
		delete(r.byType, eventType)
	}
}

// Global returns a copy of the global scope.
func (r *Registry[V]) Global() map[string]V {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copyScope(r.global)
}

// ForType returns a copy of the scope for eventType.
func (r *Registry[V]) ForType(eventType string) map[string]V {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copyScope(r.byType[eventType])
}

// AllTypes returns a copy of every per-type scope.
func (r *Registry[V]) AllTypes() map[string]map[string]V {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]map[string]V, len(r.byType))
	for eventType, scope := range r.byType {
		out[eventType] = copyScope(scope)
	}
	return out
}

// Clear removes all values
func (r *Registry[V]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.global = make(map[string]V)
	r.byType = make(map[string]map[string]V)
}

func copyScope[V any](scope map[string]V) map[string]V {
	out := make(map[string]V, len(scope))
	for k, v := range scope {
		out[k] = v
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
