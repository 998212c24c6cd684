package goCognito

import (
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goCognito/pool"
	"github.com/MrEthical07/goCognito/token"
)

// Builder assembles an [Engine]. Defaults are chosen so a single call chain
// produces a working in-process emulator; attach Redis to share state across
// processes.
type Builder struct {
	config    Config
	hasConfig bool
	redis     *redis.Client
	store     pool.Store
	sender    MessageSender
	triggers  TriggerInvoker
	clock     Clock
	auditSink AuditSink
}

// New starts a builder chain.
func New() *Builder {
	return &Builder{}
}

// WithConfig replaces the default configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	b.hasConfig = true
	return b
}

// WithRedis backs the pool store and the auth-session store with Redis.
// WithPoolStore overrides the pool store half of this.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithPoolStore supplies an explicit pool store implementation.
func (b *Builder) WithPoolStore(store pool.Store) *Builder {
	b.store = store
	return b
}

// WithMessageSender replaces the default [ConsoleMessageSender].
func (b *Builder) WithMessageSender(sender MessageSender) *Builder {
	b.sender = sender
	return b
}

// WithTriggers registers lifecycle hooks.
func (b *Builder) WithTriggers(triggers TriggerInvoker) *Builder {
	b.triggers = triggers
	return b
}

// WithClock replaces the wall clock; intended for tests.
func (b *Builder) WithClock(clock Clock) *Builder {
	b.clock = clock
	return b
}

// WithAuditSink attaches an audit sink. Events flow only when
// [AuditConfig.Enabled] is also set.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// Build validates the configuration and assembles the engine.
func (b *Builder) Build() (*Engine, error) {
	cfg := b.config
	if !b.hasConfig {
		cfg = defaultConfig()
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	issuer, err := token.NewIssuer(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("token issuer: %w", err)
	}

	clock := b.clock
	if clock == nil {
		clock = SystemClock{}
	}

	store := b.store
	if store == nil {
		if b.redis != nil {
			store = pool.NewRedisStore(b.redis, "")
		} else {
			store = pool.NewMemoryStore()
		}
	}

	var sessions authSessionStore
	if b.redis != nil {
		sessions = newRedisAuthSessionStore(b.redis, cfg.Session.RedisPrefix)
	} else {
		sessions = newMemoryAuthSessionStore()
	}

	sender := b.sender
	if sender == nil {
		sender = NewConsoleMessageSender(nil)
	}

	triggers := b.triggers
	if triggers == nil {
		triggers = NoOpTriggers{}
	}

	var dispatcher *auditDispatcher
	if cfg.Audit.Enabled {
		if b.auditSink == nil {
			return nil, errors.New("audit enabled without a sink")
		}
		dispatcher = newAuditDispatcher(cfg.Audit, b.auditSink)
	}

	return &Engine{
		config:   cfg,
		store:    store,
		clock:    clock,
		issuer:   issuer,
		sender:   sender,
		triggers: triggers,
		sessions: sessions,
		audit:    dispatcher,
		metrics:  NewMetrics(cfg.Metrics),
	}, nil
}
