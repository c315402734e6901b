package goShield

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// CheckAndConsume describes the checkandconsume operation and its observable behavior.
//
// CheckAndConsume may return an error when input validation, dependency calls, or security checks fail.
// CheckAndConsume does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// The returned [Decision] encodes denial as a normal outcome: Allowed is
// false and ResetTime says when the window renews. A non-nil error is
// reserved for contract violations (empty identifier, unknown action) and,
// only when fail-open is disabled, for storage failures.
func (e *Engine) CheckAndConsume(ctx context.Context, identifier string, action Action) (Decision, error) {
	if e == nil || e.ledger == nil {
		return Decision{}, ErrEngineNotReady
	}

	policy, ok := e.config.Throttle.Policies[action]
	if !ok {
		return Decision{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	return e.checkAndConsume(ctx, identifier, action, policy)
}

// CheckAndConsumeWithPolicy describes the checkandconsumewithpolicy operation and its observable behavior.
//
// CheckAndConsumeWithPolicy may return an error when input validation, dependency calls, or security checks fail.
// CheckAndConsumeWithPolicy does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// The override policy applies to this call only; the stored window keeps
// whatever bounds the record was created with until it lapses.
func (e *Engine) CheckAndConsumeWithPolicy(ctx context.Context, identifier string, action Action, policy Policy) (Decision, error) {
	if e == nil || e.ledger == nil {
		return Decision{}, ErrEngineNotReady
	}

	if _, ok := e.config.Throttle.Policies[action]; !ok {
		return Decision{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	if err := validatePolicy(policy); err != nil {
		return Decision{}, fmt.Errorf("%w: %v", ErrInvalidPolicy, err)
	}

	return e.checkAndConsume(ctx, identifier, action, policy)
}

func (e *Engine) checkAndConsume(ctx context.Context, identifier string, action Action, policy Policy) (Decision, error) {
	if identifier == "" {
		return Decision{}, ErrEmptyIdentifier
	}

	start := e.clock()

	storeCtx, cancel := e.storeCtx(ctx)
	defer cancel()

	result, err := e.ledger.Consume(storeCtx, identifier, string(action), policy, start)
	e.metrics.Observe(MetricCheckLatency, e.clock().Sub(start))

	if err != nil {
		return e.failOpenDecision(ctx, identifier, action, policy, start, err)
	}

	remaining := policy.MaxRequests - result.Count
	if remaining < 0 {
		remaining = 0
	}

	if !result.Allowed {
		e.metrics.Inc(MetricThrottleDenied)
		e.emitAudit(ctx, AuditEvent{
			EventType:  "throttle_denied",
			Identifier: identifier,
			Action:     string(action),
			Allowed:    false,
			Metadata: map[string]string{
				"reset_time": result.ExpiresAt.UTC().Format(time.RFC3339),
			},
		})
		return Decision{
			Allowed:   false,
			Remaining: 0,
			ResetTime: result.ExpiresAt,
			Message:   fmt.Sprintf("too many requests, retry after %s", result.ExpiresAt.UTC().Format(time.RFC3339)),
		}, nil
	}

	e.metrics.Inc(MetricThrottleAllowed)
	return Decision{
		Allowed:   true,
		Remaining: remaining,
		ResetTime: result.ExpiresAt,
		Message:   "request allowed",
	}, nil
}

// failOpenDecision handles a storage failure mid-check. Throttling is defense
// in depth, not a correctness gate: the default is to allow, route the error
// to the logger, audit sink, and metrics, and keep the caller's path clean.
func (e *Engine) failOpenDecision(ctx context.Context, identifier string, action Action, policy Policy, now time.Time, err error) (Decision, error) {
	e.logger.ErrorContext(ctx, "throttle store failure",
		slog.String("identifier", identifier),
		slog.String("action", string(action)),
		slog.Any("error", err),
	)
	e.emitAudit(ctx, AuditEvent{
		EventType:  "throttle_fail_open",
		Identifier: identifier,
		Action:     string(action),
		Allowed:    e.config.Storage.FailOpen,
		Error:      err.Error(),
	})
	e.metrics.Inc(MetricThrottleFailOpen)

	if !e.config.Storage.FailOpen {
		return Decision{
			Allowed:   false,
			Remaining: 0,
			ResetTime: now,
			Message:   "throttle backend unavailable",
		}, fmt.Errorf("%w: %v", ErrThrottleUnavailable, err)
	}

	return Decision{
		Allowed:   true,
		Remaining: policy.MaxRequests - 1,
		ResetTime: now.Add(policy.Window),
		Message:   "request allowed",
	}, nil
}

// ResetThrottle describes the resetthrottle operation and its observable behavior.
//
// ResetThrottle may return an error when input validation, dependency calls, or security checks fail.
// ResetThrottle does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Deleting a missing record is a no-op; the call is idempotent.
func (e *Engine) ResetThrottle(ctx context.Context, identifier string, action Action) error {
	if e == nil || e.ledger == nil {
		return ErrEngineNotReady
	}
	if identifier == "" {
		return ErrEmptyIdentifier
	}
	if _, ok := e.config.Throttle.Policies[action]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	storeCtx, cancel := e.storeCtx(ctx)
	defer cancel()

	if err := e.ledger.Reset(storeCtx, identifier, string(action)); err != nil {
		return fmt.Errorf("%w: %v", ErrThrottleUnavailable, err)
	}

	e.metrics.Inc(MetricThrottleReset)
	e.emitAudit(ctx, AuditEvent{
		EventType:  "throttle_reset",
		Identifier: identifier,
		Action:     string(action),
		Allowed:    true,
	})
	return nil
}
