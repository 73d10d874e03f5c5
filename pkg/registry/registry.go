// Package registry provides a small generic concurrent registry used for
// both interview sessions and proctor sessions: a sync.RWMutex-guarded map
// keyed by string ID, with Put/Get/Delete/List.
package registry

import (
	"sync"

	"github.com/google/uuid"
)

// Registry is a concurrency-safe map of string ID to T.
type Registry[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

func New[T any]() *Registry[T] {
	return &Registry[T]{items: make(map[string]T)}
}

// NewID returns a fresh random session identifier.
func NewID() string {
	return uuid.NewString()
}

// Put registers an item under id, overwriting any existing entry.
func (r *Registry[T]) Put(id string, item T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[id] = item
}

// Get returns the item for id, or false if it isn't registered.
func (r *Registry[T]) Get(id string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	return item, ok
}

// Delete deregisters id. It is a no-op if id isn't present.
func (r *Registry[T]) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
}

// Len returns the number of currently registered items.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// List returns a snapshot of all registered IDs. Order is unspecified.
func (r *Registry[T]) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	return ids
}
