// Package goCognito emulates a hosted identity provider's user-pool
// authentication surface: administrative credential lifecycle, multi-step
// challenge resolution, out-of-band code delivery, and signed session tokens.
// Client software can be developed and tested against it as a local,
// deterministic stand-in for the managed service.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// goCognito is the public surface. It exposes [Engine], [Builder], [Config],
// value types (requests, responses, delivery details), and sentinel errors.
// The user-pool data layer lives in the pool subpackage, token issuance in
// the token subpackage, and shared helpers under internal/.
//
// # What this package must NOT do
//
//   - Parse or serialize any wire protocol; bindings live outside the core.
//   - Leak confirmation codes, MFA codes, or temporary passwords into any
//     response or persisted public shape. Secrets travel to the
//     [MessageSender] inside [Message] and nowhere else.
//   - Strengthen the storage contract: concurrent saves to one username are
//     last-write-wins, exactly like the emulated service's local stand-in.
package goCognito
