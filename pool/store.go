package pool

import (
	"context"
	"errors"
	"time"
)

// ErrPoolMissing is returned when the addressed pool does not exist.
var ErrPoolMissing = errors.New("user pool not found")

// ErrUserMissing is returned when the addressed user does not exist.
var ErrUserMissing = errors.New("user not found in pool")

// ErrUserExists is returned by CreateUser when the username is taken.
var ErrUserExists = errors.New("username already exists in pool")

// ErrStoreUnavailable wraps backend transport failures.
var ErrStoreUnavailable = errors.New("pool store unavailable")

// Clock supplies the current instant. Injected so every time-dependent field
// is deterministic under test.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now implements [Clock].
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reads the same instant.
type FixedClock struct {
	Instant time.Time
}

// Now implements [Clock].
func (c FixedClock) Now() time.Time { return c.Instant }

// Store is the persistence contract the service layer runs on.
//
// PutUser is atomic for a single user record. Concurrent writes to the same
// username are not ordered by this layer: last write wins, with no
// optimistic-concurrency check. Stronger guarantees would change the
// observable semantics of the emulator and must not be added silently.
type Store interface {
	GetPool(ctx context.Context, poolID string) (Options, error)
	PutPool(ctx context.Context, opts Options) error
	ListPools(ctx context.Context) ([]Options, error)

	GetUser(ctx context.Context, poolID, username string) (User, error)
	PutUser(ctx context.Context, poolID string, user User) error
	ListUsers(ctx context.Context, poolID string) ([]User, error)
}
