package registry

import (
	"context"
	"sync"
)

// MemoryStore is an in-process ProfileStore. Mutations are serialized by a mutex.
type MemoryStore[P Profile] struct {
	mu     sync.RWMutex
	scopes map[string][]P
	nameOf func(P) string
}

// NewMemoryStore creates an empty store. nameOf extracts the profile name
// used for the per-scope uniqueness check.
func NewMemoryStore[P Profile](nameOf func(P) string) *MemoryStore[P] {
	return &MemoryStore[P]{
		scopes: make(map[string][]P),
		nameOf: nameOf,
	}
}

// List returns the profiles owned by scope in creation order.
func (s *MemoryStore[P]) List(_ context.Context, scope string) ([]P, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]P(nil), s.scopes[scope]...), nil
}

// Get returns the profile with id owned by scope.
func (s *MemoryStore[P]) Get(_ context.Context, scope, id string) (P, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.scopes[scope] {
		if p.ProfileID() == id {
			return p, nil
		}
	}
	var zero P
	return zero, ErrNoRecord
}

// Insert appends p to scope.
func (s *MemoryStore[P]) Insert(_ context.Context, scope string, p P) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nameTaken(scope, p) {
		return ErrDuplicateName
	}
	s.scopes[scope] = append(s.scopes[scope], p)
	return nil
}

// Update replaces the stored profile with the same id, keeping its position.
func (s *MemoryStore[P]) Update(_ context.Context, scope string, p P) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nameTaken(scope, p) {
		return ErrDuplicateName
	}
	profiles := s.scopes[scope]
	for i := range profiles {
		if profiles[i].ProfileID() == p.ProfileID() {
			profiles[i] = p
			return nil
		}
	}
	return ErrNoRecord
}

// Delete removes the profile with id from scope.
func (s *MemoryStore[P]) Delete(_ context.Context, scope, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	profiles := s.scopes[scope]
	for i := range profiles {
		if profiles[i].ProfileID() == id {
			s.scopes[scope] = append(profiles[:i:i], profiles[i+1:]...)
			return nil
		}
	}
	return ErrNoRecord
}

// nameTaken reports whether another profile in scope already uses p's name.
// Callers must hold the write lock.
func (s *MemoryStore[P]) nameTaken(scope string, p P) bool {
	if s.nameOf == nil {
		return false
	}
	name := s.nameOf(p)
	for _, other := range s.scopes[scope] {
		if other.ProfileID() != p.ProfileID() && s.nameOf(other) == name {
			return true
		}
	}
	return false
}
