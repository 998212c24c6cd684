package goCognito

import "errors"

var (
	// ErrInvalidParameter is returned when a required field is missing or no
	// delivery medium resolves to a usable destination.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrUserNotFound is returned when an administrative lookup of a
	// username fails. End-user-facing lookups return [ErrNotAuthorized]
	// instead, so account existence never leaks to unauthenticated callers.
	ErrUserNotFound = errors.New("user not found")
	// ErrNotAuthorized is returned for end-user-facing credential, session,
	// or lookup failures.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrCodeMismatch is returned when a supplied MFA or confirmation code
	// does not match the stored value.
	ErrCodeMismatch = errors.New("code mismatch")
	// ErrUnsupported is returned for a recognized-but-unimplemented
	// challenge or flow; the message names the unsupported value.
	ErrUnsupported = errors.New("unsupported")
	// ErrUsernameExists is returned by AdminCreateUser when the username is
	// already taken in the pool.
	ErrUsernameExists = errors.New("username already exists")
	// ErrResourceNotFound is returned when the addressed pool (or the pool
	// for a client id) does not exist.
	ErrResourceNotFound = errors.New("resource not found")
	// ErrEngineNotReady is returned when an Engine method is called on an
	// engine that was not built.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrDeliveryFailed wraps message-sender failures.
	ErrDeliveryFailed = errors.New("message delivery failed")
	// ErrTriggerFailed wraps lifecycle-trigger invocation failures.
	ErrTriggerFailed = errors.New("trigger invocation failed")
	// ErrSessionUnavailable wraps session-store backend failures.
	ErrSessionUnavailable = errors.New("auth session backend unavailable")
	// ErrStoreUnavailable wraps pool-store backend failures.
	ErrStoreUnavailable = errors.New("pool store unavailable")
)
