// Package mock provides an in-memory duostore.Storage for development and
// tests. One Store instance backs one scope.
package mock

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/duostore/duostore_sdk_go/internal/devseed"
)

// Store implements duostore.Storage with a mutex-guarded map.
type Store struct {
	mu    sync.RWMutex
	items map[string]string
}

// New creates an empty store.
func New() *Store {
	return &Store{items: make(map[string]string)}
}

// GetItem returns the stored text for name, reporting ok=false when absent.
func (s *Store) GetItem(ctx context.Context, name string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	text, ok := s.items[name]
	return text, ok, nil
}

// SetItem stores text under name, replacing any previous text.
func (s *Store) SetItem(ctx context.Context, name, text string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("mock store: name is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[name] = text
	return nil
}

// RemoveItem deletes the entry for name. Absent names are a no-op.
func (s *Store) RemoveItem(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, name)
	return nil
}

// Clear destroys every entry in the store.
func (s *Store) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]string)
	return nil
}

// Seed loads initial records. Each entry's JSON value becomes the stored
// text for its name; entry scopes are ignored, callers filter beforehand
// (see devseed.ForScope).
func (s *Store) Seed(entries []devseed.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		if strings.TrimSpace(e.Name) == "" {
			return fmt.Errorf("mock store: seed entry missing name")
		}
		text := string(e.Value)
		if strings.TrimSpace(text) == "" {
			text = "null"
		}
		s.items[e.Name] = text
	}
	return nil
}

// Len reports the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Names returns the stored names in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.items))
	for name := range s.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
