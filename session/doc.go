// Package session provides the in-memory [scratchpad.SessionStore].
//
// [MemoryStore] keeps sessions in a mutex-guarded map, expires idle sessions
// TTL after their last successful mutation, and enforces owner binding on
// every identity-checked operation. Expiry happens lazily on lookup and
// eagerly through a background sweeper started with [MemoryStore.Start].
// Both paths use the same age test.
//
// Sessions do not survive a process restart.
package session
