package goShield

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/MrEthical07/goShield/internal/lockout"
	"github.com/MrEthical07/goShield/internal/throttle"
)

// timeNow is the engine's clock; swapped in tests for deterministic windows.
var timeNow = time.Now

// Engine defines a public type used by goShield APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
// Engine methods are safe for concurrent use after [Builder.Build].
type Engine struct {
	config  Config
	logger  *slog.Logger
	ledger  *throttle.Ledger
	tracker *lockout.Tracker
	audit   *auditDispatcher
	metrics *Metrics
	sweeper *sweeper

	clock     func() time.Time
	closeOnce sync.Once
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.closeOnce.Do(func() {
		if e.sweeper != nil {
			e.sweeper.Close()
		}
		e.audit.Close()
	})
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped may return an error when input validation, dependency calls, or security checks fail.
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

// storeCtx bounds one store round-trip with the configured op timeout.
func (e *Engine) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if e.config.Storage.OpTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.config.Storage.OpTimeout)
}

func (e *Engine) emitAudit(ctx context.Context, event AuditEvent) {
	if e.audit == nil {
		return
	}
	event.Timestamp = e.clock()
	e.audit.Emit(ctx, event)
}
