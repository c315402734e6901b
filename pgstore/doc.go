// Package pgstore implements [goShield.AccountProvider] on PostgreSQL via pgx.
//
// Expected schema (column names are fixed; the table name is configurable):
//
//	CREATE TABLE accounts (
//	    id                    TEXT PRIMARY KEY,
//	    failed_login_attempts INT NOT NULL DEFAULT 0,
//	    account_locked_until  TIMESTAMPTZ,
//	    last_login_at         TIMESTAMPTZ
//	    -- plus whatever else the owning application stores
//	);
//
// # Atomicity
//
// IncrementAndMaybeLock is a single UPDATE statement: the increment and the
// conditional lock stamp happen in one row-level write, so two concurrent
// failures can never compute a lock from a stale counter. No transaction or
// advisory lock is needed beyond the statement itself.
//
// # What this package must NOT do
//
//   - Create or migrate the schema — that belongs to the owning application.
//   - Swallow store errors; the engine owns the fail-silent policy.
package pgstore
