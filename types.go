package goShield

import (
	"time"

	"github.com/MrEthical07/goShield/internal/lockout"
	"github.com/MrEthical07/goShield/internal/throttle"
)

// Action identifies one throttle class from the closed action set. Each
// action carries its own default window and quota in [ThrottleConfig].
//
//	Docs: docs/throttle.md
type Action string

const (
	// ActionOTPRequest is an exported constant or variable used by the abuse guard engine.
	ActionOTPRequest Action = "otp_request"
	// ActionLoginAttempt is an exported constant or variable used by the abuse guard engine.
	ActionLoginAttempt Action = "login_attempt"
	// ActionPasswordReset is an exported constant or variable used by the abuse guard engine.
	ActionPasswordReset Action = "password_reset"
	// ActionEmailVerification is an exported constant or variable used by the abuse guard engine.
	ActionEmailVerification Action = "email_verification"
)

// Policy is a per-action throttle budget: MaxRequests operations per Window.
// A zero-value Policy is invalid; use [ThrottleConfig] defaults or supply an
// override through [Engine.CheckAndConsumeWithPolicy].
type Policy = throttle.Policy

// Decision is the outcome of one [Engine.CheckAndConsume] call. A denial is
// a normal result, not an error: Allowed is false, Remaining is zero, and
// ResetTime says when the window renews.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetTime time.Time
	Message   string
}

// SecurityState is the per-account lockout field group held by the caller's
// account store: the consecutive failure counter, the lock expiry (nil when
// never locked or cleared by a success), and the last successful login.
type SecurityState = lockout.State

// AccountProvider is the interface callers implement to connect the lockout
// tracker to their account store. IncrementAndMaybeLock must be one atomic
// unit: increment the counter and, when the post-increment value reaches
// threshold, stamp lockUntil — never two separate writes, or a lock can be
// computed from a stale counter under concurrency.
//
// goShield/pgstore ships a PostgreSQL implementation.
//
//	Docs: docs/lockout.md
type AccountProvider = lockout.Provider
