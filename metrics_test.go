package goShield

import (
	"context"
	"testing"
	"time"
)

func TestMetricsDisabledIsInert(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: false})

	m.Inc(MetricThrottleAllowed)
	m.Add(MetricSweepRemoved, 10)
	m.Observe(MetricCheckLatency, time.Millisecond)

	if m.Value(MetricThrottleAllowed) != 0 {
		t.Fatal("disabled metrics must not count")
	}

	snap := m.Snapshot()
	if len(snap.Counters) != 0 || len(snap.Histograms) != 0 {
		t.Fatalf("disabled snapshot = %+v", snap)
	}
}

func TestMetricsCountersAndSnapshot(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	m.Inc(MetricThrottleAllowed)
	m.Inc(MetricThrottleAllowed)
	m.Inc(MetricThrottleDenied)
	m.Add(MetricSweepRemoved, 7)

	if m.Value(MetricThrottleAllowed) != 2 {
		t.Fatalf("allowed = %d, want 2", m.Value(MetricThrottleAllowed))
	}

	snap := m.Snapshot()
	if snap.Counters[MetricThrottleDenied] != 1 {
		t.Fatalf("denied = %d, want 1", snap.Counters[MetricThrottleDenied])
	}
	if snap.Counters[MetricSweepRemoved] != 7 {
		t.Fatalf("sweep removed = %d, want 7", snap.Counters[MetricSweepRemoved])
	}
	if len(snap.Histograms) != 0 {
		t.Fatal("histograms should be absent unless latency is enabled")
	}
}

func TestMetricsLatencyHistogram(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})

	m.Observe(MetricCheckLatency, 2*time.Millisecond)   // bucket 0
	m.Observe(MetricCheckLatency, 8*time.Millisecond)   // bucket 1
	m.Observe(MetricCheckLatency, 400*time.Millisecond) // bucket 6
	m.Observe(MetricCheckLatency, 3*time.Second)        // overflow bucket

	// Only check latency carries a histogram.
	m.Observe(MetricThrottleAllowed, time.Millisecond)

	snap := m.Snapshot()
	buckets, ok := snap.Histograms[MetricCheckLatency]
	if !ok {
		t.Fatal("missing check latency histogram")
	}

	want := []uint64{1, 1, 0, 0, 0, 0, 1, 1}
	for i, n := range want {
		if buckets[i] != n {
			t.Fatalf("bucket %d = %d, want %d", i, buckets[i], n)
		}
	}
}

func TestEngineCountsThrottleOutcomes(t *testing.T) {
	cfg := throttleTestConfig()
	cfg.Metrics.Enabled = true

	engine, _, done := newTestEngine(t, cfg, nil)
	defer done()

	ctx := context.Background()

	engine.CheckAndConsume(ctx, "u", ActionOTPRequest) // allowed
	engine.CheckAndConsume(ctx, "u", ActionOTPRequest) // denied
	engine.ResetThrottle(ctx, "u", ActionOTPRequest)

	snap := engine.MetricsSnapshot()
	if snap.Counters[MetricThrottleAllowed] != 1 {
		t.Fatalf("allowed = %d, want 1", snap.Counters[MetricThrottleAllowed])
	}
	if snap.Counters[MetricThrottleDenied] != 1 {
		t.Fatalf("denied = %d, want 1", snap.Counters[MetricThrottleDenied])
	}
	if snap.Counters[MetricThrottleReset] != 1 {
		t.Fatalf("reset = %d, want 1", snap.Counters[MetricThrottleReset])
	}
}

func TestEngineCountsLockoutOutcomes(t *testing.T) {
	cfg := lockoutTestConfig()
	cfg.Metrics.Enabled = true

	provider := newMemAccountProvider()
	engine, _, done := newTestEngine(t, cfg, provider)
	defer done()

	ctx := context.Background()

	for i := 0; i < 5; i++ {
		engine.RecordFailedAttempt(ctx, "acct-1")
	}
	engine.IsLocked(ctx, "acct-1")
	engine.RecordSuccessfulAttempt(ctx, "acct-1")

	provider.injectFailure()
	engine.RecordFailedAttempt(ctx, "acct-1")

	snap := engine.MetricsSnapshot()
	if snap.Counters[MetricLockoutFailureRecorded] != 5 {
		t.Fatalf("failures recorded = %d, want 5", snap.Counters[MetricLockoutFailureRecorded])
	}
	if snap.Counters[MetricLockoutApplied] != 1 {
		t.Fatalf("locks applied = %d, want 1", snap.Counters[MetricLockoutApplied])
	}
	if snap.Counters[MetricLockedRejected] != 1 {
		t.Fatalf("locked rejections = %d, want 1", snap.Counters[MetricLockedRejected])
	}
	if snap.Counters[MetricLockoutCleared] != 1 {
		t.Fatalf("clears = %d, want 1", snap.Counters[MetricLockoutCleared])
	}
	if snap.Counters[MetricLockoutUnavailable] != 1 {
		t.Fatalf("unavailable = %d, want 1", snap.Counters[MetricLockoutUnavailable])
	}
}
