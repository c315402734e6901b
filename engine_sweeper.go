package goShield

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"
)

// PurgeExpired describes the purgeexpired operation and its observable behavior.
//
// PurgeExpired may return an error when input validation, dependency calls, or security checks fail.
// PurgeExpired does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Deletes every throttle record whose window lapsed before now and returns
// the count removed. Safe to run alongside CheckAndConsume: a record that is
// legitimately expired is, by definition, about to be replaced on next use.
func (e *Engine) PurgeExpired(ctx context.Context) (int, error) {
	if e == nil || e.ledger == nil {
		return 0, ErrEngineNotReady
	}

	storeCtx, cancel := e.storeCtx(ctx)
	defer cancel()

	removed, err := e.ledger.Purge(storeCtx, e.clock(), e.config.Sweeper.BatchSize)
	if err != nil {
		return removed, err
	}

	e.metrics.Inc(MetricSweepRuns)
	e.metrics.Add(MetricSweepRemoved, uint64(removed))
	if removed > 0 {
		e.emitAudit(ctx, AuditEvent{
			EventType: "sweep_completed",
			Allowed:   true,
			Metadata: map[string]string{
				"removed": strconv.Itoa(removed),
			},
		})
	}

	return removed, nil
}

// sweeper runs PurgeExpired on a fixed interval. It exists for keys that go
// stale and are never touched again; records that get re-used are renewed in
// place by the ledger and never need the schedule.
type sweeper struct {
	engine    *Engine
	interval  time.Duration
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func newSweeper(engine *Engine, cfg SweeperConfig) *sweeper {
	s := &sweeper{
		engine:   engine,
		interval: cfg.Interval,
		done:     make(chan struct{}),
	}

	s.wg.Add(1)
	go s.run()

	return s
}

func (s *sweeper) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed, err := s.engine.PurgeExpired(context.Background())
			if err != nil {
				s.engine.logger.Error("scheduled sweep failure", slog.Any("error", err))
				continue
			}
			if removed > 0 {
				s.engine.logger.Debug("scheduled sweep completed", slog.Int("removed", removed))
			}
		case <-s.done:
			return
		}
	}
}

func (s *sweeper) Close() {
	if s == nil {
		return
	}
	s.closeOnce.Do(func() {
		close(s.done)
		s.wg.Wait()
	})
}
