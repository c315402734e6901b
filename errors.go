package goShield

import "errors"

var (
	// ErrEmptyIdentifier is an exported constant or variable used by the abuse guard engine.
	ErrEmptyIdentifier = errors.New("identifier must not be empty")
	// ErrUnknownAction is an exported constant or variable used by the abuse guard engine.
	ErrUnknownAction = errors.New("unknown throttle action")
	// ErrInvalidPolicy is an exported constant or variable used by the abuse guard engine.
	ErrInvalidPolicy = errors.New("throttle policy invalid")
	// ErrEmptyAccountID is an exported constant or variable used by the abuse guard engine.
	ErrEmptyAccountID = errors.New("account id must not be empty")
	// ErrLockoutDisabled is an exported constant or variable used by the abuse guard engine.
	ErrLockoutDisabled = errors.New("lockout tracking disabled")
	// ErrThrottleUnavailable is an exported constant or variable used by the abuse guard engine.
	ErrThrottleUnavailable = errors.New("throttle backend unavailable")
	// ErrEngineNotReady is an exported constant or variable used by the abuse guard engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
