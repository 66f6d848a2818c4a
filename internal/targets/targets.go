// Package targets stores the configured daily sales target per department.
//
// The summary formatter compares parsed sales against these values. Targets
// are owned outside the request path: they are read fresh for every report
// and changed only through an explicit upsert of one or more entries.
package targets

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/shopspring/decimal"
)

// ErrInvalidValue is returned when a stored target cannot be decoded.
var ErrInvalidValue = errors.New("invalid target value")

// Map maps a department code to its daily target. A missing key means a
// target of zero.
type Map map[string]decimal.Decimal

// Get returns the target for code, or zero when absent.
func (m Map) Get(code string) decimal.Decimal {
	if v, ok := m[code]; ok {
		return v
	}
	return decimal.Zero
}

// Codes returns the keys in lexical order.
func (m Map) Codes() []string {
	return slices.Sorted(maps.Keys(m))
}

// Store is the persistent target collaborator.
type Store interface {
	// Read returns every stored target. An empty store yields an empty map.
	Read(ctx context.Context) (Map, error)

	// Upsert merges the given entries. Entries not mentioned are untouched.
	Upsert(ctx context.Context, partial Map) error

	// Close releases the underlying handle.
	Close() error
}

// MemoryStore keeps targets in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	targets Map
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{targets: make(Map)}
}

// Read implements Store.
func (s *MemoryStore) Read(ctx context.Context) (Map, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.targets), nil
}

// Upsert implements Store.
func (s *MemoryStore) Upsert(ctx context.Context, partial Map) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	maps.Copy(s.targets, partial)
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	return nil
}

// Open returns the store for driver: "sqlite" (the default) or "memory".
func Open(driver, path string) (Store, error) {
	switch driver {
	case "", "sqlite":
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown target store driver: %s", driver)
	}
}
