package goCognito

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/goCognito/pool"
	"github.com/MrEthical07/goCognito/token"
)

// Engine is the emulator core. Construct one through [New] and its builder;
// the zero value is not usable.
//
// All operations are safe for concurrent use. Mutating operations go through
// the pool service layer, which is the only place record timestamps are
// assigned.
type Engine struct {
	config   Config
	store    pool.Store
	clock    Clock
	issuer   *token.Issuer
	sender   MessageSender
	triggers TriggerInvoker
	sessions authSessionStore
	audit    *auditDispatcher
	metrics  *Metrics
}

// CreateUserPool registers a pool so subsequent operations can address it by
// id or by one of its client ids.
func (e *Engine) CreateUserPool(ctx context.Context, opts pool.Options) error {
	if err := e.ready(); err != nil {
		return err
	}
	if opts.ID == "" {
		return fmt.Errorf("%w: pool id is required", ErrInvalidParameter)
	}
	_, err := pool.Create(ctx, e.store, e.clock, opts)
	return translateStoreErr(err)
}

// Metrics exposes the engine's counter set for exporters.
func (e *Engine) Metrics() *Metrics {
	return e.metrics
}

// MetricsSnapshot deep-copies all counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	return e.metrics.Snapshot()
}

// AuditDropped reports how many audit events were discarded because the
// dispatcher queue was full.
func (e *Engine) AuditDropped() uint64 {
	if e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// Close flushes and stops the audit dispatcher. The engine must not be used
// after Close.
func (e *Engine) Close() {
	if e.audit != nil {
		e.audit.Close()
	}
}

func (e *Engine) ready() error {
	if e == nil || e.store == nil || e.issuer == nil {
		return ErrEngineNotReady
	}
	return nil
}

// poolByID binds a service to the addressed pool. A missing pool surfaces as
// [ErrResourceNotFound]; backend failures as [ErrStoreUnavailable].
func (e *Engine) poolByID(ctx context.Context, poolID string) (*pool.Service, error) {
	svc, err := pool.Open(ctx, e.store, e.clock, poolID)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	return svc, nil
}

// poolByClient binds a service to the pool configured with clientID.
func (e *Engine) poolByClient(ctx context.Context, clientID string) (*pool.Service, error) {
	svc, err := pool.OpenForClient(ctx, e.store, e.clock, clientID)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	return svc, nil
}

func translateStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pool.ErrPoolMissing):
		return fmt.Errorf("%w: %v", ErrResourceNotFound, err)
	case errors.Is(err, pool.ErrStoreUnavailable):
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	default:
		return err
	}
}

func (e *Engine) metricInc(id MetricID) {
	e.metrics.Inc(id)
}

func (e *Engine) emitAudit(eventType, poolID, clientID, username string, opErr error, metadata map[string]string) {
	if e.audit == nil {
		return
	}
	event := AuditEvent{
		Timestamp:  e.clock.Now(),
		EventType:  eventType,
		UserPoolID: poolID,
		ClientID:   clientID,
		Username:   username,
		Success:    opErr == nil,
		Metadata:   metadata,
	}
	if opErr != nil {
		event.Error = opErr.Error()
	}
	e.audit.Emit(event)
}

// invokeTrigger runs one lifecycle hook and awaits its result. A failing hook
// fails the enclosing operation with [ErrTriggerFailed].
func (e *Engine) invokeTrigger(ctx context.Context, name TriggerName, payload TriggerPayload) error {
	if e.triggers == nil || !e.triggers.Enabled(name) {
		return nil
	}
	e.metricInc(MetricTriggerInvoked)
	if err := e.triggers.Invoke(ctx, name, payload); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrTriggerFailed, name, err)
	}
	return nil
}

// deliver routes one out-of-band message through the configured sender.
func (e *Engine) deliver(ctx context.Context, details DeliveryDetails, user pool.User, message Message) error {
	if err := e.sender.Send(ctx, details.Medium, details.Destination, user, message); err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	e.metricInc(MetricMessageSent)
	return nil
}
