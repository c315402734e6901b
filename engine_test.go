package goShield

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// testClock is a hand-advanced clock wired into the engine so window math
// never depends on wall time.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// memAccountProvider is an in-memory AccountProvider with optional fault
// injection for the fail-silent paths.
type memAccountProvider struct {
	mu       sync.Mutex
	accounts map[string]SecurityState
	failNext bool
}

func newMemAccountProvider() *memAccountProvider {
	return &memAccountProvider{accounts: make(map[string]SecurityState)}
}

func (p *memAccountProvider) IncrementAndMaybeLock(_ context.Context, accountID string, threshold int, lockUntil time.Time) (SecurityState, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.failNext {
		p.failNext = false
		return SecurityState{}, errTestStoreDown
	}

	state := p.accounts[accountID]
	state.FailedAttempts++
	if state.FailedAttempts >= threshold {
		until := lockUntil
		state.LockedUntil = &until
	}
	p.accounts[accountID] = state
	return state, nil
}

func (p *memAccountProvider) ClearFailures(_ context.Context, accountID string, at time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.failNext {
		p.failNext = false
		return errTestStoreDown
	}

	stamp := at
	p.accounts[accountID] = SecurityState{LastLoginAt: &stamp}
	return nil
}

func (p *memAccountProvider) SecurityState(_ context.Context, accountID string) (SecurityState, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.failNext {
		p.failNext = false
		return SecurityState{}, errTestStoreDown
	}

	return p.accounts[accountID], nil
}

func (p *memAccountProvider) state(accountID string) SecurityState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.accounts[accountID]
}

func (p *memAccountProvider) injectFailure() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failNext = true
}

var errTestStoreDown = errTest("account store down")

type errTest string

func (e errTest) Error() string { return string(e) }

// newTestEngine builds an engine on miniredis with a hand-advanced clock.
// The returned cleanup closes the engine, the client, and the server.
func newTestEngine(t *testing.T, cfg Config, provider AccountProvider) (*Engine, *testClock, func()) {
	t.Helper()
	return newTestEngineWithSink(t, cfg, provider, nil)
}

func newTestEngineWithSink(t *testing.T, cfg Config, provider AccountProvider, sink AuditSink) (*Engine, *testClock, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	clock := newTestClock()

	builder := New().WithConfig(cfg).WithRedis(rdb).withClock(clock.Now)
	if provider != nil {
		builder = builder.WithAccountProvider(provider)
	}
	if sink != nil {
		builder = builder.WithAuditSink(sink)
	}

	engine, err := builder.Build()
	if err != nil {
		rdb.Close()
		mr.Close()
		t.Fatalf("build failed: %v", err)
	}

	return engine, clock, func() {
		engine.Close()
		_ = rdb.Close()
		mr.Close()
	}
}

// throttleTestConfig disables lockout so throttle tests need no provider.
func throttleTestConfig() Config {
	cfg := defaultConfig()
	cfg.Lockout.Enabled = false
	return cfg
}

func lockoutTestConfig() Config {
	return defaultConfig()
}
