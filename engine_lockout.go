package goShield

import (
	"context"
	"log/slog"
	"strconv"
	"time"
)

// RecordFailedAttempt describes the recordfailedattempt operation and its observable behavior.
//
// RecordFailedAttempt may return an error when input validation, dependency calls, or security checks fail.
// RecordFailedAttempt does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// The returned bool reports whether the account is locked after this
// failure. Store failures are logged and swallowed — a missed increment
// degrades security slightly but must never break the login path — so a
// non-nil error always means a contract violation.
func (e *Engine) RecordFailedAttempt(ctx context.Context, accountID string) (bool, error) {
	if e == nil {
		return false, ErrEngineNotReady
	}
	if e.tracker == nil {
		return false, ErrLockoutDisabled
	}
	if accountID == "" {
		return false, ErrEmptyAccountID
	}

	now := e.clock()

	storeCtx, cancel := e.storeCtx(ctx)
	defer cancel()

	state, locked, err := e.tracker.RecordFailure(storeCtx, accountID, now)
	if err != nil {
		e.logger.ErrorContext(ctx, "lockout increment failure",
			slog.String("account_id", accountID),
			slog.Any("error", err),
		)
		e.metrics.Inc(MetricLockoutUnavailable)
		e.emitAudit(ctx, AuditEvent{
			EventType: "lockout_unavailable",
			AccountID: accountID,
			Allowed:   true,
			Error:     err.Error(),
		})
		return false, nil
	}

	e.metrics.Inc(MetricLockoutFailureRecorded)
	if locked {
		e.metrics.Inc(MetricLockoutApplied)
		e.emitAudit(ctx, AuditEvent{
			EventType: "lockout_applied",
			AccountID: accountID,
			Allowed:   false,
			Metadata: map[string]string{
				"failed_attempts": strconv.Itoa(state.FailedAttempts),
				"locked_until":    lockedUntilString(state.LockedUntil),
			},
		})
	}

	return locked, nil
}

// RecordSuccessfulAttempt describes the recordsuccessfulattempt operation and its observable behavior.
//
// RecordSuccessfulAttempt may return an error when input validation, dependency calls, or security checks fail.
// RecordSuccessfulAttempt does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Zeroes the failure counter, clears any lock, and stamps the last
// successful login. Store failures are logged and swallowed like
// [Engine.RecordFailedAttempt].
func (e *Engine) RecordSuccessfulAttempt(ctx context.Context, accountID string) error {
	if e == nil {
		return ErrEngineNotReady
	}
	if e.tracker == nil {
		return ErrLockoutDisabled
	}
	if accountID == "" {
		return ErrEmptyAccountID
	}

	storeCtx, cancel := e.storeCtx(ctx)
	defer cancel()

	if err := e.tracker.RecordSuccess(storeCtx, accountID, e.clock()); err != nil {
		e.logger.ErrorContext(ctx, "lockout clear failure",
			slog.String("account_id", accountID),
			slog.Any("error", err),
		)
		e.metrics.Inc(MetricLockoutUnavailable)
		e.emitAudit(ctx, AuditEvent{
			EventType: "lockout_unavailable",
			AccountID: accountID,
			Allowed:   true,
			Error:     err.Error(),
		})
		return nil
	}

	e.metrics.Inc(MetricLockoutCleared)
	e.emitAudit(ctx, AuditEvent{
		EventType: "lockout_cleared",
		AccountID: accountID,
		Allowed:   true,
	})
	return nil
}

// IsLocked describes the islocked operation and its observable behavior.
//
// IsLocked may return an error when input validation, dependency calls, or security checks fail.
// IsLocked does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Expiry is evaluated lazily against the stored lock timestamp; an expired
// lock is reported as unlocked but the stored counter is left untouched.
// Only a recorded success resets the fields. A store failure reports
// unlocked and logs — blocking every login during an outage would be its
// own denial of service.
func (e *Engine) IsLocked(ctx context.Context, accountID string) (bool, error) {
	if e == nil {
		return false, ErrEngineNotReady
	}
	if e.tracker == nil {
		return false, ErrLockoutDisabled
	}
	if accountID == "" {
		return false, ErrEmptyAccountID
	}

	storeCtx, cancel := e.storeCtx(ctx)
	defer cancel()

	locked, err := e.tracker.IsLocked(storeCtx, accountID, e.clock())
	if err != nil {
		e.logger.ErrorContext(ctx, "lockout read failure",
			slog.String("account_id", accountID),
			slog.Any("error", err),
		)
		e.metrics.Inc(MetricLockoutUnavailable)
		return false, nil
	}

	if locked {
		e.metrics.Inc(MetricLockedRejected)
		e.emitAudit(ctx, AuditEvent{
			EventType: "locked_attempt_rejected",
			AccountID: accountID,
			Allowed:   false,
		})
	}

	return locked, nil
}

func lockedUntilString(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
