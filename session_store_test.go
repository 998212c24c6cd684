package goCognito

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisSessionStore(t *testing.T) *redisAuthSessionStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return newRedisAuthSessionStore(client, "acs")
}

func sampleSession(ttl time.Duration) *authSession {
	return &authSession{
		Username:  "alice",
		ClientID:  "client1",
		PoolID:    "local_pool1",
		Challenge: ChallengeSMSMFA,
		ExpiresAt: time.Now().Add(ttl).Unix(),
	}
}

func sessionStores(t *testing.T) map[string]authSessionStore {
	t.Helper()
	return map[string]authSessionStore{
		"redis":  newRedisSessionStore(t),
		"memory": newMemoryAuthSessionStore(),
	}
}

func TestSessionStoreRoundTrip(t *testing.T) {
	for name, store := range sessionStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			record := sampleSession(time.Minute)

			if err := store.Save(ctx, "s1", record, time.Minute); err != nil {
				t.Fatalf("Save: %v", err)
			}

			got, err := store.Get(ctx, "s1")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got.Username != record.Username || got.ClientID != record.ClientID ||
				got.PoolID != record.PoolID || got.Challenge != record.Challenge ||
				got.ExpiresAt != record.ExpiresAt || got.Attempts != 0 {
				t.Fatalf("round trip mismatch: %+v vs %+v", got, record)
			}
		})
	}
}

func TestSessionStoreMissing(t *testing.T) {
	for name, store := range sessionStores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := store.Get(context.Background(), "absent"); !errors.Is(err, errAuthSessionNotFound) {
				t.Fatalf("expected errAuthSessionNotFound, got %v", err)
			}
			if _, err := store.RecordFailure(context.Background(), "absent", 3); !errors.Is(err, errAuthSessionNotFound) {
				t.Fatalf("expected errAuthSessionNotFound, got %v", err)
			}
		})
	}
}

func TestSessionStoreDeleteConsumes(t *testing.T) {
	for name, store := range sessionStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := store.Save(ctx, "s1", sampleSession(time.Minute), time.Minute); err != nil {
				t.Fatalf("Save: %v", err)
			}

			existed, err := store.Delete(ctx, "s1")
			if err != nil || !existed {
				t.Fatalf("Delete = (%v, %v), want (true, nil)", existed, err)
			}
			existed, err = store.Delete(ctx, "s1")
			if err != nil || existed {
				t.Fatalf("second Delete = (%v, %v), want (false, nil)", existed, err)
			}
			if _, err := store.Get(ctx, "s1"); !errors.Is(err, errAuthSessionNotFound) {
				t.Fatalf("expected errAuthSessionNotFound after delete, got %v", err)
			}
		})
	}
}

func TestSessionStoreExpiry(t *testing.T) {
	for name, store := range sessionStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			record := sampleSession(-time.Second)

			if err := store.Save(ctx, "s1", record, time.Minute); err != nil {
				t.Fatalf("Save: %v", err)
			}
			if _, err := store.Get(ctx, "s1"); !errors.Is(err, errAuthSessionExpired) {
				t.Fatalf("expected errAuthSessionExpired, got %v", err)
			}
			// Expired records are reaped on read.
			if _, err := store.Get(ctx, "s1"); !errors.Is(err, errAuthSessionNotFound) {
				t.Fatalf("expected errAuthSessionNotFound after reap, got %v", err)
			}
		})
	}
}

func TestSessionStoreAttemptCap(t *testing.T) {
	for name, store := range sessionStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := store.Save(ctx, "s1", sampleSession(time.Minute), time.Minute); err != nil {
				t.Fatalf("Save: %v", err)
			}

			const maxAttempts = 3
			for i := 1; i < maxAttempts; i++ {
				exceeded, err := store.RecordFailure(ctx, "s1", maxAttempts)
				if err != nil || exceeded {
					t.Fatalf("attempt %d: RecordFailure = (%v, %v)", i, exceeded, err)
				}
			}

			exceeded, err := store.RecordFailure(ctx, "s1", maxAttempts)
			if err != nil || !exceeded {
				t.Fatalf("final attempt: RecordFailure = (%v, %v), want (true, nil)", exceeded, err)
			}
			// Exceeding the cap consumes the session.
			if _, err := store.Get(ctx, "s1"); !errors.Is(err, errAuthSessionNotFound) {
				t.Fatalf("expected errAuthSessionNotFound after the cap, got %v", err)
			}
		})
	}
}

func TestAuthSessionCodec(t *testing.T) {
	record := &authSession{
		Username:  "alice",
		ClientID:  "client1",
		PoolID:    "local_pool1",
		Challenge: ChallengeNewPasswordRequired,
		ExpiresAt: 1893456000,
		Attempts:  2,
	}

	encoded, err := encodeAuthSession(record)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := decodeAuthSession(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if *decoded != *record {
		t.Fatalf("codec mismatch: %+v vs %+v", decoded, record)
	}

	if _, err := decodeAuthSession([]byte{0xFF, 0x00}); err == nil {
		t.Fatal("expected a version error for a foreign payload")
	}
	if _, err := decodeAuthSession(encoded[:5]); err == nil {
		t.Fatal("expected an error for a truncated payload")
	}
}
