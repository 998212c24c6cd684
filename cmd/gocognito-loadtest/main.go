package main

import (
	"context"
	"crypto/ed25519"
	cryptorand "crypto/rand"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	goCognito "github.com/MrEthical07/goCognito"
	"github.com/MrEthical07/goCognito/metrics/export/internaldefs"
	"github.com/MrEthical07/goCognito/pool"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

const (
	poolID   = "local_loadpool"
	clientID = "loadclient"
	password = "load-test-password-1"
)

func main() {
	var (
		users       = flag.Int("users", 5000, "number of accounts to seed")
		concurrency = flag.Int("concurrency", 128, "number of concurrent workers")
		ops         = flag.Int("ops", 50000, "operations per phase (signin + list)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
	)
	flag.Parse()

	if *users <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "users, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  *redis.Client
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewClient(&redis.Options{Addr: addr})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewClient(&redis.Options{Addr: addr})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	_, priv, err := ed25519.GenerateKey(cryptorand.Reader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to generate signing key: %v\n", err)
		os.Exit(1)
	}

	cfg := goCognito.DefaultConfig()
	cfg.Token.PrivateKey = priv

	engine, err := goCognito.New().
		WithConfig(cfg).
		WithRedis(client).
		WithMessageSender(goCognito.SenderFunc(func(context.Context, goCognito.DeliveryMedium, string, pool.User, goCognito.Message) error {
			return nil
		})).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine build failed: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	err = engine.CreateUserPool(ctx, pool.Options{
		ID:        poolID,
		Name:      "load pool",
		ClientIDs: []string{clientID},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "pool creation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("seeding %d accounts...\n", *users)
	startSeed := time.Now()
	usernames, err := seedAccounts(ctx, engine, *users, *concurrency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seeding failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	signinStats := runPhase(*ops, *concurrency, func(r *rand.Rand) error {
		name := usernames[r.Intn(len(usernames))]
		out, err := engine.InitiateAuth(ctx, goCognito.InitiateAuthRequest{
			ClientID: clientID,
			AuthFlow: goCognito.AuthFlowUserPassword,
			AuthParameters: map[string]string{
				goCognito.AuthParamUsername: name,
				goCognito.AuthParamPassword: password,
			},
		})
		if err != nil {
			return err
		}
		if out.AuthenticationResult == nil {
			return fmt.Errorf("expected tokens for %s, got challenge %q", name, out.ChallengeName)
		}
		return nil
	})

	listStats := runPhase(*ops, *concurrency, func(r *rand.Rand) error {
		name := usernames[r.Intn(len(usernames))]
		out, err := engine.ListUsers(ctx, goCognito.ListUsersRequest{
			UserPoolID: poolID,
			Filter:     fmt.Sprintf("email=%q", name+"@example.com"),
		})
		if err != nil {
			return err
		}
		if len(out.Users) != 1 {
			return fmt.Errorf("expected 1 match for %s, got %d", name, len(out.Users))
		}
		return nil
	})

	fmt.Println("---- results ----")
	printStats("signin", signinStats)
	printStats("list", listStats)

	snap := engine.MetricsSnapshot()
	fmt.Println("---- counters ----")
	for _, def := range internaldefs.CounterDefs {
		fmt.Printf("%s=%d\n", def.Name, snap.Counters[def.ID])
	}
}

// seedAccounts creates suppressed accounts and walks each one through the
// NEW_PASSWORD_REQUIRED challenge so every user ends CONFIRMED with a known
// password.
func seedAccounts(ctx context.Context, engine *goCognito.Engine, users, concurrency int) ([]string, error) {
	usernames := make([]string, users)
	for i := range usernames {
		usernames[i] = fmt.Sprintf("load-user-%d", i)
	}

	var (
		wg       sync.WaitGroup
		cursor   int64
		mu       sync.Mutex
		firstErr error
	)
	failed := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return firstErr != nil
	}
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= users || failed() {
					return
				}
				if err := seedOne(ctx, engine, usernames[i]); err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = fmt.Errorf("seed %s: %w", usernames[i], err)
					}
					mu.Unlock()
					return
				}
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return usernames, nil
}

func seedOne(ctx context.Context, engine *goCognito.Engine, name string) error {
	temp := "temp-" + password
	attrs := pool.Attributes{{Name: "email", Value: name + "@example.com"}}

	_, err := engine.AdminCreateUser(ctx, goCognito.AdminCreateUserRequest{
		UserPoolID:        poolID,
		Username:          name,
		UserAttributes:    attrs,
		TemporaryPassword: temp,
		MessageAction:     goCognito.MessageActionSuppress,
	})
	if err != nil {
		return err
	}

	start, err := engine.InitiateAuth(ctx, goCognito.InitiateAuthRequest{
		ClientID: clientID,
		AuthFlow: goCognito.AuthFlowUserPassword,
		AuthParameters: map[string]string{
			goCognito.AuthParamUsername: name,
			goCognito.AuthParamPassword: temp,
		},
	})
	if err != nil {
		return err
	}
	if start.ChallengeName != goCognito.ChallengeNewPasswordRequired {
		return fmt.Errorf("expected NEW_PASSWORD_REQUIRED, got %q", start.ChallengeName)
	}

	_, err = engine.RespondToAuthChallenge(ctx, goCognito.RespondToAuthChallengeRequest{
		ClientID:      clientID,
		ChallengeName: goCognito.ChallengeNewPasswordRequired,
		Session:       start.Session,
		ChallengeResponses: map[string]string{
			goCognito.ChallengeResponseUsername:    name,
			goCognito.ChallengeResponseNewPassword: password,
		},
	})
	return err
}

func runPhase(ops, concurrency int, op func(r *rand.Rand) error) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				t0 := time.Now()
				err := op(r)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
