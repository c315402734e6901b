// Package lockout implements the progressive account lockout tracker behind
// the [goShield.Engine] lockout operations.
//
// # Semantics
//
//   - Every failed attempt increments the account's counter by one.
//   - When the post-increment counter reaches the threshold, a lock expiry is
//     stamped relative to that failure. Failures past the threshold stamp a
//     fresh expiry each time, so the lock window always extends.
//   - Lock expiry is evaluated lazily on IsLocked; the counter is never
//     reset by the passage of time. Only a recorded success clears it.
//
// # Architecture boundaries
//
// Persistence lives behind [Provider], implemented by the caller (or by
// goShield/pgstore). The provider must apply the increment and the
// conditional lock stamp as one atomic unit so a lock is never computed
// from a stale counter.
//
// # What this package must NOT do
//
//   - Swallow provider errors — the engine owns the fail-silent policy.
//   - Import goShield or any sibling internal package.
package lockout
