package pool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "cup"

// RedisStore keeps pools and users in Redis so multiple emulator processes
// can share one backing state. User and pool records are stored as JSON
// blobs; membership is tracked in sets, since the store contract leaves
// listing order to callers.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps an existing Redis client. An empty prefix falls back to
// the default key namespace.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = redisKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) poolKey(poolID string) string {
	return s.prefix + ":pool:" + poolID
}

func (s *RedisStore) poolSetKey() string {
	return s.prefix + ":pools"
}

func (s *RedisStore) userKey(poolID, username string) string {
	return s.prefix + ":user:" + poolID + ":" + username
}

func (s *RedisStore) userSetKey(poolID string) string {
	return s.prefix + ":users:" + poolID
}

// GetPool implements [Store].
func (s *RedisStore) GetPool(ctx context.Context, poolID string) (Options, error) {
	data, err := s.client.Get(ctx, s.poolKey(poolID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Options{}, fmt.Errorf("%w: %s", ErrPoolMissing, poolID)
		}
		return Options{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	var opts Options
	if err := json.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("%w: corrupt pool record: %v", ErrStoreUnavailable, err)
	}
	return opts, nil
}

// PutPool implements [Store].
func (s *RedisStore) PutPool(ctx context.Context, opts Options) error {
	data, err := json.Marshal(opts)
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.poolKey(opts.ID), data, 0)
		pipe.SAdd(ctx, s.poolSetKey(), opts.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// ListPools implements [Store].
func (s *RedisStore) ListPools(ctx context.Context) ([]Options, error) {
	ids, err := s.client.SMembers(ctx, s.poolSetKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	out := make([]Options, 0, len(ids))
	for _, id := range ids {
		opts, err := s.GetPool(ctx, id)
		if err != nil {
			if errors.Is(err, ErrPoolMissing) {
				continue
			}
			return nil, err
		}
		out = append(out, opts)
	}
	return out, nil
}

// GetUser implements [Store].
func (s *RedisStore) GetUser(ctx context.Context, poolID, username string) (User, error) {
	if _, err := s.GetPool(ctx, poolID); err != nil {
		return User{}, err
	}

	data, err := s.client.Get(ctx, s.userKey(poolID, username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return User{}, fmt.Errorf("%w: %s", ErrUserMissing, username)
		}
		return User{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return User{}, fmt.Errorf("%w: corrupt user record: %v", ErrStoreUnavailable, err)
	}
	return user, nil
}

// PutUser implements [Store]. The SET overwrites unconditionally:
// last write wins, per the store contract.
func (s *RedisStore) PutUser(ctx context.Context, poolID string, user User) error {
	if _, err := s.GetPool(ctx, poolID); err != nil {
		return err
	}

	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.userKey(poolID, user.Username), data, 0)
		pipe.SAdd(ctx, s.userSetKey(poolID), user.Username)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// ListUsers implements [Store].
func (s *RedisStore) ListUsers(ctx context.Context, poolID string) ([]User, error) {
	if _, err := s.GetPool(ctx, poolID); err != nil {
		return nil, err
	}

	usernames, err := s.client.SMembers(ctx, s.userSetKey(poolID)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	out := make([]User, 0, len(usernames))
	for _, username := range usernames {
		user, err := s.GetUser(ctx, poolID, username)
		if err != nil {
			if errors.Is(err, ErrUserMissing) {
				continue
			}
			return nil, err
		}
		out = append(out, user)
	}
	return out, nil
}
