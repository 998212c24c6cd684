// Package pool is the user-pool data and service layer used by goCognito.
//
// A [Service] owns the accounts of one pool: username lookup, clock-stamped
// saves, creation, and listing with attribute filters. All persistence goes
// through the [Store] contract; [MemoryStore] keeps pools in process and
// [RedisStore] keeps them in Redis so several emulator processes can share
// state.
//
// The service is the single place timestamps are assigned: callers hand in a
// modified copy of a user record and must not assume the record they passed is
// the exact record persisted.
package pool
