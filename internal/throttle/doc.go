// Package throttle implements the Redis-backed fixed renewing window ledger
// behind [goShield.Engine.CheckAndConsume].
//
// # Window semantics
//
// One hash per (action, identifier) pair holding count, windowStart, and
// expiresAt in unix milliseconds, plus a single sorted set indexing every
// record by expiresAt so the sweeper can find stale keys without scanning.
// Key prefixes:
//   - <prefix>:thr:<action>:<identifier> — the record hash
//   - <prefix>:thr-exp                   — the expiry index
//
// # Atomicity
//
// Consume, Reset, and Purge each run as a single Lua script. The whole
// read-branch-write of a consume happens inside Redis, so two concurrent
// callers on the same key can never both observe count = max-1 and both pass.
//
// # What this package must NOT do
//
//   - Decide policy (windows and limits arrive as arguments).
//   - Fail open — the engine owns that decision; this package reports errors.
//   - Be imported outside the goShield module.
package throttle
