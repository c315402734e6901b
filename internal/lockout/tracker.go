package lockout

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrProviderUnavailable indicates the account store is unreachable.
	ErrProviderUnavailable = errors.New("account provider unavailable")
)

// State is the security field group of one account.
type State struct {
	FailedAttempts int
	LockedUntil    *time.Time
	LastLoginAt    *time.Time
}

// Provider is the account store contract. IncrementAndMaybeLock must perform
// the counter increment and the conditional lock stamp as a single atomic
// operation: when the post-increment counter is >= threshold, LockedUntil
// becomes lockUntil; otherwise it is left untouched.
type Provider interface {
	IncrementAndMaybeLock(ctx context.Context, accountID string, threshold int, lockUntil time.Time) (State, error)
	ClearFailures(ctx context.Context, accountID string, at time.Time) error
	SecurityState(ctx context.Context, accountID string) (State, error)
}

// Config holds lockout policy parameters.
type Config struct {
	Threshold    int
	LockDuration time.Duration
}

// Tracker applies lockout policy on top of a [Provider].
type Tracker struct {
	provider Provider
	config   Config
}

// New creates a [Tracker] bound to the given provider.
func New(provider Provider, cfg Config) *Tracker {
	return &Tracker{provider: provider, config: cfg}
}

// RecordFailure registers one failed attempt at the given instant and
// reports whether the account is locked as a result. The lock expiry is
// always relative to this failure, so repeated failures past the threshold
// keep extending the window.
func (t *Tracker) RecordFailure(ctx context.Context, accountID string, now time.Time) (State, bool, error) {
	state, err := t.provider.IncrementAndMaybeLock(ctx, accountID, t.config.Threshold, now.Add(t.config.LockDuration))
	if err != nil {
		return State{}, false, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	return state, state.FailedAttempts >= t.config.Threshold, nil
}

// RecordSuccess zeroes the failure counter, clears any lock, and stamps the
// last successful login at the given instant.
func (t *Tracker) RecordSuccess(ctx context.Context, accountID string, now time.Time) error {
	if err := t.provider.ClearFailures(ctx, accountID, now); err != nil {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	return nil
}

// IsLocked reports whether the account's lock expiry is in the future.
// An expired lock is not cleared here — only a success resets the fields,
// so the stored counter keeps accumulating across expired locks.
func (t *Tracker) IsLocked(ctx context.Context, accountID string, now time.Time) (bool, error) {
	state, err := t.provider.SecurityState(ctx, accountID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	return state.LockedUntil != nil && state.LockedUntil.After(now), nil
}
