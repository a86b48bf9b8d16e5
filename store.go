package tokenauth

import (
	"context"
	"sync"
)

// MemoryStore is a process-lifetime IdentityStore and ItemStore backed by
// maps. A single RWMutex guards both collections; contention is expected to
// be negligible at this scale. Lookups hand out clones so callers can never
// mutate a record without going through UpdateDisplayName.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]*User
	items []Item
}

var (
	_ IdentityStore = (*MemoryStore)(nil)
	_ ItemStore     = (*MemoryStore)(nil)
)

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]*User),
	}
}

// SeedUsers loads identity records, replacing any existing record with the
// same email
func (s *MemoryStore) SeedUsers(users ...*User) *MemoryStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range users {
		if user == nil || user.Email == "" {
			continue
		}
		s.users[user.Email] = user.Clone()
	}
	return s
}

// SeedItems loads catalog entries
func (s *MemoryStore) SeedItems(items ...Item) *MemoryStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, items...)
	return s
}

// FindByEmail returns the record with the given key or ErrIdentityNotFound
func (s *MemoryStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[email]
	if !ok {
		return nil, ErrIdentityNotFound
	}
	return user.Clone(), nil
}

// UpdateDisplayName overwrites the record's display name, keeping the stored
// name when displayName is empty. The no-op update is legal and succeeds.
func (s *MemoryStore) UpdateDisplayName(ctx context.Context, email, displayName string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[email]
	if !ok {
		return nil, ErrIdentityNotFound
	}

	if displayName != "" {
		user.DisplayName = displayName
	}

	return user.Clone(), nil
}

// DeleteUser removes a record. Exists so operators (and tests) can exercise
// the valid-token-but-missing-record path.
func (s *MemoryStore) DeleteUser(ctx context.Context, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, email)
}

// ListItems returns the public catalog
func (s *MemoryStore) ListItems(ctx context.Context) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]Item, len(s.items))
	copy(items, s.items)
	return items, nil
}
