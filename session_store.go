package goCognito

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const authSessionRecordVersion1 = 1

var (
	errAuthSessionNotFound = errors.New("auth session not found")
	errAuthSessionExpired  = errors.New("auth session expired")
	errAuthSessionBackend  = errors.New("auth session backend unavailable")
)

// authSession correlates a sign-in attempt to the challenge response that
// must resolve it. Records are TTL-bound and consumed on success.
type authSession struct {
	Username  string
	ClientID  string
	PoolID    string
	Challenge ChallengeName
	ExpiresAt int64
	Attempts  uint16
}

type authSessionStore interface {
	Save(ctx context.Context, sessionID string, record *authSession, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (*authSession, error)
	Delete(ctx context.Context, sessionID string) (bool, error)
	RecordFailure(ctx context.Context, sessionID string, maxAttempts int) (bool, error)
}

/*
====================================
REDIS-BACKED STORE
====================================
*/

type redisAuthSessionStore struct {
	redis  *redis.Client
	prefix string
}

func newRedisAuthSessionStore(client *redis.Client, prefix string) *redisAuthSessionStore {
	if prefix == "" {
		prefix = "acs"
	}
	return &redisAuthSessionStore{redis: client, prefix: prefix}
}

func (s *redisAuthSessionStore) key(sessionID string) string {
	return s.prefix + ":" + sessionID
}

func (s *redisAuthSessionStore) Save(ctx context.Context, sessionID string, record *authSession, ttl time.Duration) error {
	encoded, err := encodeAuthSession(record)
	if err != nil {
		return err
	}
	if err := s.redis.Set(ctx, s.key(sessionID), encoded, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", errAuthSessionBackend, err)
	}
	return nil
}

func (s *redisAuthSessionStore) Get(ctx context.Context, sessionID string) (*authSession, error) {
	data, err := s.redis.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errAuthSessionNotFound
		}
		return nil, fmt.Errorf("%w: %v", errAuthSessionBackend, err)
	}

	record, err := decodeAuthSession(data)
	if err != nil {
		return nil, err
	}
	if time.Now().Unix() > record.ExpiresAt {
		_, _ = s.redis.Del(ctx, s.key(sessionID)).Result()
		return nil, errAuthSessionExpired
	}
	return record, nil
}

func (s *redisAuthSessionStore) Delete(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.redis.Del(ctx, s.key(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", errAuthSessionBackend, err)
	}
	return n > 0, nil
}

func (s *redisAuthSessionStore) RecordFailure(ctx context.Context, sessionID string, maxAttempts int) (bool, error) {
	const maxRetries = 4
	key := s.key(sessionID)

	for i := 0; i < maxRetries; i++ {
		var exceeded bool
		err := s.redis.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				return err
			}

			record, err := decodeAuthSession(data)
			if err != nil {
				return err
			}
			if time.Now().Unix() > record.ExpiresAt {
				_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
					pipe.Del(ctx, key)
					return nil
				})
				if err != nil {
					return err
				}
				return errAuthSessionExpired
			}

			record.Attempts++
			if int(record.Attempts) >= maxAttempts {
				exceeded = true
				_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
					pipe.Del(ctx, key)
					return nil
				})
				return err
			}

			ttl := time.Until(time.Unix(record.ExpiresAt, 0))
			if ttl <= 0 {
				_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
					pipe.Del(ctx, key)
					return nil
				})
				if err != nil {
					return err
				}
				return errAuthSessionExpired
			}

			updated, err := encodeAuthSession(record)
			if err != nil {
				return err
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, updated, ttl)
				return nil
			})
			return err
		}, key)

		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return false, errAuthSessionNotFound
			}
			if errors.Is(err, errAuthSessionExpired) {
				return false, err
			}
			return false, fmt.Errorf("%w: %v", errAuthSessionBackend, err)
		}
		return exceeded, nil
	}

	return false, errAuthSessionNotFound
}

func encodeAuthSession(record *authSession) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(authSessionRecordVersion1)

	if err := binary.Write(&buf, binary.BigEndian, record.Attempts); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, record.ExpiresAt); err != nil {
		return nil, err
	}

	for _, field := range []string{record.Username, record.ClientID, record.PoolID, string(record.Challenge)} {
		if len(field) > 65535 {
			return nil, errors.New("auth session field length exceeded")
		}
		if err := binary.Write(&buf, binary.BigEndian, uint16(len(field))); err != nil {
			return nil, err
		}
		buf.WriteString(field)
	}

	return buf.Bytes(), nil
}

func decodeAuthSession(data []byte) (*authSession, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != authSessionRecordVersion1 {
		return nil, errors.New("invalid auth session version")
	}

	record := &authSession{}
	if err := binary.Read(reader, binary.BigEndian, &record.Attempts); err != nil {
		return nil, err
	}
	if err := binary.Read(reader, binary.BigEndian, &record.ExpiresAt); err != nil {
		return nil, err
	}

	fields := make([]string, 4)
	for i := range fields {
		var length uint16
		if err := binary.Read(reader, binary.BigEndian, &length); err != nil {
			return nil, err
		}
		raw := make([]byte, length)
		if _, err := io.ReadFull(reader, raw); err != nil {
			return nil, err
		}
		fields[i] = string(raw)
	}
	record.Username = fields[0]
	record.ClientID = fields[1]
	record.PoolID = fields[2]
	record.Challenge = ChallengeName(fields[3])

	return record, nil
}

/*
====================================
IN-PROCESS STORE
====================================
*/

// memoryAuthSessionStore backs single-process deployments that run without
// Redis. Same contract, same expiry and attempt semantics.
type memoryAuthSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*authSession
}

func newMemoryAuthSessionStore() *memoryAuthSessionStore {
	return &memoryAuthSessionStore{sessions: map[string]*authSession{}}
}

func (s *memoryAuthSessionStore) Save(_ context.Context, sessionID string, record *authSession, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *record
	s.sessions[sessionID] = &clone
	return nil
}

func (s *memoryAuthSessionStore) Get(_ context.Context, sessionID string) (*authSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.sessions[sessionID]
	if !ok {
		return nil, errAuthSessionNotFound
	}
	if time.Now().Unix() > record.ExpiresAt {
		delete(s.sessions, sessionID)
		return nil, errAuthSessionExpired
	}
	clone := *record
	return &clone, nil
}

func (s *memoryAuthSessionStore) Delete(_ context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	return ok, nil
}

func (s *memoryAuthSessionStore) RecordFailure(_ context.Context, sessionID string, maxAttempts int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.sessions[sessionID]
	if !ok {
		return false, errAuthSessionNotFound
	}
	if time.Now().Unix() > record.ExpiresAt {
		delete(s.sessions, sessionID)
		return false, errAuthSessionExpired
	}

	record.Attempts++
	if int(record.Attempts) >= maxAttempts {
		delete(s.sessions, sessionID)
		return true, nil
	}
	return false, nil
}
