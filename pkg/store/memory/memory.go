// Package memory provides an in-memory diagram store for development
// and testing.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cloudplot/cloudplot/pkg/errors"
	"github.com/cloudplot/cloudplot/pkg/store"
)

// Store is a thread-safe in-memory diagram store.
type Store struct {
	mu       sync.RWMutex
	diagrams map[string]*store.Diagram
}

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{diagrams: make(map[string]*store.Diagram)}
}

// Create implements store.Store.
func (s *Store) Create(_ context.Context, d *store.Diagram) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.diagrams[d.ID]; exists {
		return errors.New(errors.ErrCodeInvalidOptions, "diagram already exists: %s", d.ID)
	}
	s.diagrams[d.ID] = clone(d)
	return nil
}

// Get implements store.Store.
func (s *Store) Get(_ context.Context, id string) (*store.Diagram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.diagrams[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeDiagramNotFound, "diagram not found: %s", id)
	}
	return clone(d), nil
}

// Update implements store.Store.
func (s *Store) Update(_ context.Context, d *store.Diagram) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.diagrams[d.ID]
	if !ok {
		return errors.New(errors.ErrCodeDiagramNotFound, "diagram not found: %s", d.ID)
	}
	updated := clone(d)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	s.diagrams[d.ID] = updated
	d.UpdatedAt = updated.UpdatedAt
	return nil
}

// Delete implements store.Store.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.diagrams[id]; !ok {
		return errors.New(errors.ErrCodeDiagramNotFound, "diagram not found: %s", id)
	}
	delete(s.diagrams, id)
	return nil
}

// List implements store.Store.
func (s *Store) List(_ context.Context) ([]*store.Diagram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*store.Diagram, 0, len(s.diagrams))
	for _, d := range s.diagrams {
		out = append(out, clone(d))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// Close implements store.Store. No-op for the in-memory backend.
func (s *Store) Close(_ context.Context) error {
	return nil
}

// clone copies a diagram so callers and the store never share a model.
func clone(d *store.Diagram) *store.Diagram {
	c := *d
	c.Model = d.Model.Clone()
	return &c
}
