package builder

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps block-type identifiers to handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register adds a handler under idBase. Duplicate ids return an error.
func (r *Registry) Register(idBase string, h Handler) error {
	if h == nil {
		return fmt.Errorf("builder: handler for %q is required", idBase)
	}
	if idBase == "" {
		return fmt.Errorf("builder: block id_base is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[idBase]; exists {
		return fmt.Errorf("builder: block %q already registered", idBase)
	}
	r.handlers[idBase] = h
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(idBase string, h Handler) {
	if err := r.Register(idBase, h); err != nil {
		panic(err)
	}
}

// Resolve returns the handler for idBase. A missing type is not an error.
func (r *Registry) Resolve(idBase string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.handlers[idBase]
	return h, ok
}

// List returns the registered ids in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
