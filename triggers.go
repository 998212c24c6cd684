package goCognito

import "context"

// NoOpTriggers reports every hook as disabled.
type NoOpTriggers struct{}

// Enabled implements [TriggerInvoker].
func (NoOpTriggers) Enabled(TriggerName) bool { return false }

// Invoke implements [TriggerInvoker].
func (NoOpTriggers) Invoke(context.Context, TriggerName, TriggerPayload) error { return nil }

// StaticTriggers invokes in-process handler functions. A hook is enabled iff
// a handler is registered for it.
type StaticTriggers struct {
	Handlers map[TriggerName]func(ctx context.Context, payload TriggerPayload) error
}

// Enabled implements [TriggerInvoker].
func (t StaticTriggers) Enabled(name TriggerName) bool {
	_, ok := t.Handlers[name]
	return ok
}

// Invoke implements [TriggerInvoker].
func (t StaticTriggers) Invoke(ctx context.Context, name TriggerName, payload TriggerPayload) error {
	handler, ok := t.Handlers[name]
	if !ok {
		return nil
	}
	return handler(ctx, payload)
}
