package layout

import (
	"fmt"
	"sync"
)

// Registry holds the active, ordered layout set. It is safe for concurrent
// use: readers get a snapshot and a reload swaps the whole set at once.
type Registry struct {
	mu      sync.RWMutex
	layouts []Layout
	source  string
}

// NewRegistry creates a registry seeded with the given layouts.
func NewRegistry(layouts []Layout) *Registry {
	return &Registry{layouts: layouts, source: "builtin"}
}

// Layouts returns a snapshot of the active layouts in match order.
func (r *Registry) Layouts() []Layout {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Layout, len(r.layouts))
	copy(out, r.layouts)
	return out
}

// Lookup returns the layout with the given name.
func (r *Registry) Lookup(name string) (Layout, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, l := range r.layouts {
		if l.Name == name {
			return l, true
		}
	}
	return Layout{}, false
}

// Names lists the active layout names in match order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.layouts))
	for i, l := range r.layouts {
		names[i] = l.Name
	}
	return names
}

// Source describes where the active set came from.
func (r *Registry) Source() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.source
}

// Replace swaps in a new layout set.
func (r *Registry) Replace(layouts []Layout, source string) error {
	if len(layouts) == 0 {
		return fmt.Errorf("refusing to replace layouts with an empty set")
	}
	r.mu.Lock()
	r.layouts = layouts
	r.source = source
	r.mu.Unlock()
	return nil
}

// Reload reads path and replaces the active set. On error the previous set
// stays active.
func (r *Registry) Reload(path string) error {
	layouts, err := LoadFile(path)
	if err != nil {
		return err
	}
	return r.Replace(layouts, path)
}
