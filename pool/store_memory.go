package pool

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps pools and users in process memory. Writes are
// last-write-wins per username, matching the store contract.
type MemoryStore struct {
	mu    sync.RWMutex
	pools map[string]*memoryPool
	order []string
}

type memoryPool struct {
	opts  Options
	users map[string]User
	order []string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{pools: map[string]*memoryPool{}}
}

// GetPool implements [Store].
func (s *MemoryStore) GetPool(_ context.Context, poolID string) (Options, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.pools[poolID]
	if !ok {
		return Options{}, fmt.Errorf("%w: %s", ErrPoolMissing, poolID)
	}
	return p.opts, nil
}

// PutPool implements [Store].
func (s *MemoryStore) PutPool(_ context.Context, opts Options) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.pools[opts.ID]; ok {
		p.opts = opts
		return nil
	}
	s.pools[opts.ID] = &memoryPool{opts: opts, users: map[string]User{}}
	s.order = append(s.order, opts.ID)
	return nil
}

// ListPools implements [Store].
func (s *MemoryStore) ListPools(_ context.Context) ([]Options, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Options, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.pools[id].opts)
	}
	return out, nil
}

// GetUser implements [Store].
func (s *MemoryStore) GetUser(_ context.Context, poolID, username string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.pools[poolID]
	if !ok {
		return User{}, fmt.Errorf("%w: %s", ErrPoolMissing, poolID)
	}
	user, ok := p.users[username]
	if !ok {
		return User{}, fmt.Errorf("%w: %s", ErrUserMissing, username)
	}
	return user.Clone(), nil
}

// PutUser implements [Store].
func (s *MemoryStore) PutUser(_ context.Context, poolID string, user User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pools[poolID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPoolMissing, poolID)
	}
	if _, exists := p.users[user.Username]; !exists {
		p.order = append(p.order, user.Username)
	}
	p.users[user.Username] = user.Clone()
	return nil
}

// ListUsers implements [Store].
func (s *MemoryStore) ListUsers(_ context.Context, poolID string) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.pools[poolID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPoolMissing, poolID)
	}
	out := make([]User, 0, len(p.order))
	for _, username := range p.order {
		out = append(out, p.users[username].Clone())
	}
	return out, nil
}
