// Package goShield protects abuse-prone operations — OTP issuance, login
// attempts, password resets, email verification — with two cooperating
// mechanisms: a per-identifier, per-action request throttle on a fixed
// renewing window, and a per-account progressive lockout driven by
// consecutive authentication failures.
//
// The package is designed for concurrent server workloads across multiple
// instances sharing one Redis: every throttle mutation executes as a single
// Lua script, so the at-most-MaxRequests-per-window invariant holds under
// any interleaving. Engine methods are safe to call from multiple goroutines
// after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// goShield is the public surface. It exposes [Engine], [Builder], [Config],
// and value types (Decision, SecurityState, AuditEvent, MetricsSnapshot).
// All internal coordination — the window ledger, the lockout tracker, audit
// dispatch — lives under internal/ and is never exported. Account
// persistence is the caller's: implement [AccountProvider] or use
// goShield/pgstore.
//
// # Failure policy
//
// Throttling is defense in depth, not a correctness gate. When Redis is
// unreachable the ledger fails open: the decision is "allowed", the error
// goes to the logger, audit sink, and metrics only. Lockout mutations fail
// silent the same way — a missed increment degrades security slightly but
// never breaks the login path. Contract violations (empty identifier,
// unknown action) are returned synchronously and are never absorbed.
//
// # What this package must NOT do
//
//   - Expose Redis clients, Lua scripts, or key layouts in its public API.
//   - Authenticate anything — password checks, token issuance, and session
//     state belong to the caller.
//   - Deny on storage failure unless the caller disabled fail-open.
package goShield
