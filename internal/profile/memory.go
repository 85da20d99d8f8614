package profile

import (
	"context"
	"sync"

	"nutribot/internal/core"
)

// MemoryStore implements core.ProfileStore with an in-process map.
// Suitable for development and tests; profiles are lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]core.UserProfile
}

// NewMemory creates an empty in-memory profile store.
func NewMemory() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]core.UserProfile)}
}

// Get returns a copy of the stored profile, or nil, nil if absent.
func (s *MemoryStore) Get(_ context.Context, userID string) (*core.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// Put stores or replaces the profile keyed by profile.UserID.
func (s *MemoryStore) Put(_ context.Context, profile *core.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.UserID] = *profile
	return nil
}

// Delete removes the profile; deleting a missing profile is a no-op.
func (s *MemoryStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles, userID)
	return nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error {
	return nil
}
