package goShield

import (
	"errors"
	"time"
)

// Config defines a public type used by goShield APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Throttle ThrottleConfig
	Lockout  LockoutConfig
	Sweeper  SweeperConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
	Storage  StorageConfig
}

/*
====================================
THROTTLE CONFIG
====================================
*/

// ThrottleConfig defines a public type used by goShield APIs.
//
// ThrottleConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ThrottleConfig struct {
	// RedisPrefix namespaces every key the ledger touches.
	RedisPrefix string
	// Policies maps each permitted action to its window budget. Actions
	// absent from the map are rejected with ErrUnknownAction.
	Policies map[Action]Policy
}

/*
====================================
LOCKOUT CONFIG
====================================
*/

// LockoutConfig defines a public type used by goShield APIs.
//
// LockoutConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LockoutConfig struct {
	Enabled      bool
	Threshold    int
	LockDuration time.Duration
}

/*
====================================
SWEEPER CONFIG
====================================
*/

// SweeperConfig defines a public type used by goShield APIs.
//
// SweeperConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SweeperConfig struct {
	// Enabled starts a background goroutine that purges stale throttle
	// records on Interval. PurgeExpired stays callable either way.
	Enabled   bool
	Interval  time.Duration
	BatchSize int
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by goShield APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by goShield APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
STORAGE CONFIG
====================================
*/

// StorageConfig defines a public type used by goShield APIs.
//
// StorageConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type StorageConfig struct {
	// FailOpen keeps throttle decisions permissive when the store is
	// unreachable. Flip it off only if denying every sensitive operation
	// during a Redis outage is an acceptable trade.
	FailOpen bool
	// OpTimeout bounds every store round-trip so no engine call can stall
	// the caller's request. Zero disables the bound.
	OpTimeout time.Duration
}

/*
====================================
DEFAULT CONFIG
====================================
*/

func defaultConfig() Config {
	return Config{
		Throttle: ThrottleConfig{
			RedisPrefix: "shield",
			Policies: map[Action]Policy{
				ActionOTPRequest:        {Window: 60 * time.Second, MaxRequests: 1},
				ActionLoginAttempt:      {Window: 15 * time.Minute, MaxRequests: 5},
				ActionPasswordReset:     {Window: 60 * time.Minute, MaxRequests: 3},
				ActionEmailVerification: {Window: 5 * time.Minute, MaxRequests: 2},
			},
		},
		Lockout: LockoutConfig{
			Enabled:      true,
			Threshold:    5,
			LockDuration: 30 * time.Minute,
		},
		Sweeper: SweeperConfig{
			Enabled:   false,
			Interval:  5 * time.Minute,
			BatchSize: 512,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
		Storage: StorageConfig{
			FailOpen:  true,
			OpTimeout: 2 * time.Second,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	if cfg.Throttle.Policies != nil {
		out.Throttle.Policies = make(map[Action]Policy, len(cfg.Throttle.Policies))
		for action, policy := range cfg.Throttle.Policies {
			out.Throttle.Policies[action] = policy
		}
	}
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	// Throttle
	if c.Throttle.RedisPrefix == "" {
		return errors.New("Throttle RedisPrefix must not be empty")
	}
	if len(c.Throttle.Policies) == 0 {
		return errors.New("Throttle Policies must not be empty")
	}
	for action, policy := range c.Throttle.Policies {
		if action == "" {
			return errors.New("Throttle Policies must not contain an empty action")
		}
		if err := validatePolicy(policy); err != nil {
			return err
		}
	}

	// Lockout
	if c.Lockout.Enabled {
		if c.Lockout.Threshold <= 0 {
			return errors.New("Lockout Threshold must be > 0")
		}
		if c.Lockout.LockDuration <= 0 {
			return errors.New("Lockout LockDuration must be > 0")
		}
	}

	// Sweeper
	if c.Sweeper.Enabled && c.Sweeper.Interval <= 0 {
		return errors.New("Sweeper Interval must be > 0 when Enabled is true")
	}
	if c.Sweeper.BatchSize < 0 {
		return errors.New("Sweeper BatchSize must be >= 0")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when Enabled is true")
	}

	// Storage
	if c.Storage.OpTimeout < 0 {
		return errors.New("Storage OpTimeout must be >= 0")
	}

	return nil
}

func validatePolicy(p Policy) error {
	if p.Window <= 0 {
		return errors.New("throttle policy Window must be > 0")
	}
	if p.MaxRequests <= 0 {
		return errors.New("throttle policy MaxRequests must be > 0")
	}
	return nil
}
