package internaldefs

import (
	goShield "github.com/MrEthical07/goShield"
)

// CounterDef defines a public type used by goShield APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   goShield.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by goShield APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   goShield.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the abuse guard engine.
var CounterDefs = []CounterDef{
	{ID: goShield.MetricThrottleAllowed, Name: "goshield_throttle_allowed_total", Help: "Throttle checks that allowed the request."},
	{ID: goShield.MetricThrottleDenied, Name: "goshield_throttle_denied_total", Help: "Throttle checks that denied the request."},
	{ID: goShield.MetricThrottleFailOpen, Name: "goshield_throttle_fail_open_total", Help: "Throttle checks that hit a store failure."},
	{ID: goShield.MetricThrottleReset, Name: "goshield_throttle_reset_total", Help: "Administrative throttle resets."},
	{ID: goShield.MetricLockoutFailureRecorded, Name: "goshield_lockout_failure_recorded_total", Help: "Recorded failed authentication attempts."},
	{ID: goShield.MetricLockoutApplied, Name: "goshield_lockout_applied_total", Help: "Account locks applied or extended."},
	{ID: goShield.MetricLockoutCleared, Name: "goshield_lockout_cleared_total", Help: "Lockout state cleared by successful logins."},
	{ID: goShield.MetricLockedRejected, Name: "goshield_locked_rejected_total", Help: "Lock checks that found the account locked."},
	{ID: goShield.MetricLockoutUnavailable, Name: "goshield_lockout_unavailable_total", Help: "Lockout operations degraded by store failures."},
	{ID: goShield.MetricSweepRuns, Name: "goshield_sweep_runs_total", Help: "Completed sweep passes."},
	{ID: goShield.MetricSweepRemoved, Name: "goshield_sweep_removed_total", Help: "Stale throttle records removed by sweeps."},
}

// HistogramDefs is an exported constant or variable used by the abuse guard engine.
var HistogramDefs = []HistogramDef{
	{ID: goShield.MetricCheckLatency, Name: "goshield_check_latency_seconds", Help: "CheckAndConsume latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the abuse guard engine.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the abuse guard engine.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets may return an error when input validation, dependency calls, or security checks fail.
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets may return an error when input validation, dependency calls, or security checks fail.
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
