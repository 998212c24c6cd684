package pool

import (
	"context"
	"errors"
	"fmt"
)

// Service owns the accounts of a single pool. It is the only component that
// mutates user records: callers construct modified copies and hand them to
// [Service.SaveUser], which stamps UserLastModifiedDate and persists.
type Service struct {
	opts  Options
	store Store
	clock Clock
}

// Open resolves a pool by id and binds a service to it.
func Open(ctx context.Context, store Store, clock Clock, poolID string) (*Service, error) {
	opts, err := store.GetPool(ctx, poolID)
	if err != nil {
		return nil, err
	}
	return &Service{opts: opts, store: store, clock: clock}, nil
}

// OpenForClient resolves the pool that has clientID configured.
func OpenForClient(ctx context.Context, store Store, clock Clock, clientID string) (*Service, error) {
	pools, err := store.ListPools(ctx)
	if err != nil {
		return nil, err
	}
	for _, opts := range pools {
		if opts.HasClient(clientID) {
			return &Service{opts: opts, store: store, clock: clock}, nil
		}
	}
	return nil, fmt.Errorf("%w: no pool for client %s", ErrPoolMissing, clientID)
}

// Create registers a pool in the store and returns a service bound to it.
func Create(ctx context.Context, store Store, clock Clock, opts Options) (*Service, error) {
	if err := store.PutPool(ctx, opts); err != nil {
		return nil, err
	}
	return &Service{opts: opts, store: store, clock: clock}, nil
}

// Options returns the pool-level configuration.
func (s *Service) Options() Options {
	return s.opts
}

// GetUserByUsername loads one user. Returns [ErrUserMissing] when absent.
func (s *Service) GetUserByUsername(ctx context.Context, username string) (User, error) {
	return s.store.GetUser(ctx, s.opts.ID, username)
}

// SaveUser persists a modified copy of a user, stamping UserLastModifiedDate
// from the clock. The returned record is the one persisted; the caller must
// not assume the record it passed in was stored verbatim.
func (s *Service) SaveUser(ctx context.Context, user User) (User, error) {
	stamped := user.Clone()
	stamped.UserLastModifiedDate = s.clock.Now()
	if err := s.store.PutUser(ctx, s.opts.ID, stamped); err != nil {
		return User{}, err
	}
	return stamped, nil
}

// CreateUser persists a brand-new user, stamping both timestamps. Returns
// [ErrUserExists] when the username is already taken.
func (s *Service) CreateUser(ctx context.Context, user User) (User, error) {
	_, err := s.store.GetUser(ctx, s.opts.ID, user.Username)
	switch {
	case err == nil:
		return User{}, ErrUserExists
	case !isMissing(err):
		return User{}, err
	}

	now := s.clock.Now()
	stamped := user.Clone()
	stamped.UserCreateDate = now
	stamped.UserLastModifiedDate = now
	if err := s.store.PutUser(ctx, s.opts.ID, stamped); err != nil {
		return User{}, err
	}
	return stamped, nil
}

// ListUsers returns every user in the pool. Order is not part of the
// contract; callers filter and truncate explicitly.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.store.ListUsers(ctx, s.opts.ID)
}

func isMissing(err error) bool {
	return errors.Is(err, ErrUserMissing)
}
