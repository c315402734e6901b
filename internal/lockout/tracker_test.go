package lockout

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeProvider struct {
	states map[string]State
	err    error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{states: make(map[string]State)}
}

func (p *fakeProvider) IncrementAndMaybeLock(_ context.Context, accountID string, threshold int, lockUntil time.Time) (State, error) {
	if p.err != nil {
		return State{}, p.err
	}

	state := p.states[accountID]
	state.FailedAttempts++
	if state.FailedAttempts >= threshold {
		until := lockUntil
		state.LockedUntil = &until
	}
	p.states[accountID] = state
	return state, nil
}

func (p *fakeProvider) ClearFailures(_ context.Context, accountID string, at time.Time) error {
	if p.err != nil {
		return p.err
	}

	stamp := at
	p.states[accountID] = State{LastLoginAt: &stamp}
	return nil
}

func (p *fakeProvider) SecurityState(_ context.Context, accountID string) (State, error) {
	if p.err != nil {
		return State{}, p.err
	}

	return p.states[accountID], nil
}

func TestTrackerLocksAtThreshold(t *testing.T) {
	provider := newFakeProvider()
	tracker := New(provider, Config{Threshold: 5, LockDuration: 30 * time.Minute})

	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 1; i <= 4; i++ {
		state, locked, err := tracker.RecordFailure(ctx, "acct-1", now)
		if err != nil {
			t.Fatalf("failure %d: %v", i, err)
		}
		if locked {
			t.Fatalf("failure %d: locked before threshold", i)
		}
		if state.FailedAttempts != i {
			t.Fatalf("failure %d: counter = %d", i, state.FailedAttempts)
		}
	}

	state, locked, err := tracker.RecordFailure(ctx, "acct-1", now)
	if err != nil {
		t.Fatalf("threshold failure: %v", err)
	}
	if !locked {
		t.Fatal("expected lock at the fifth failure")
	}
	if state.LockedUntil == nil || !state.LockedUntil.Equal(now.Add(30*time.Minute)) {
		t.Fatalf("LockedUntil = %v, want %v", state.LockedUntil, now.Add(30*time.Minute))
	}
}

func TestTrackerFailurePastThresholdExtendsLock(t *testing.T) {
	provider := newFakeProvider()
	tracker := New(provider, Config{Threshold: 2, LockDuration: 10 * time.Minute})

	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tracker.RecordFailure(ctx, "acct-1", now)
	tracker.RecordFailure(ctx, "acct-1", now)

	later := now.Add(15 * time.Minute) // first lock already expired
	state, locked, err := tracker.RecordFailure(ctx, "acct-1", later)
	if err != nil {
		t.Fatalf("failure after expiry: %v", err)
	}
	if !locked {
		t.Fatal("counter above threshold should report locked")
	}
	if state.LockedUntil == nil || !state.LockedUntil.Equal(later.Add(10*time.Minute)) {
		t.Fatalf("LockedUntil = %v, want %v", state.LockedUntil, later.Add(10*time.Minute))
	}
}

func TestTrackerSuccessResetsEverything(t *testing.T) {
	provider := newFakeProvider()
	tracker := New(provider, Config{Threshold: 5, LockDuration: 30 * time.Minute})

	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		tracker.RecordFailure(ctx, "acct-1", now)
	}

	loginAt := now.Add(time.Minute)
	if err := tracker.RecordSuccess(ctx, "acct-1", loginAt); err != nil {
		t.Fatalf("success: %v", err)
	}

	state := provider.states["acct-1"]
	if state.FailedAttempts != 0 || state.LockedUntil != nil {
		t.Fatalf("state after success = %+v", state)
	}
	if state.LastLoginAt == nil || !state.LastLoginAt.Equal(loginAt) {
		t.Fatalf("LastLoginAt = %v, want %v", state.LastLoginAt, loginAt)
	}
}

func TestTrackerIsLockedHonorsExpiry(t *testing.T) {
	provider := newFakeProvider()
	tracker := New(provider, Config{Threshold: 1, LockDuration: 10 * time.Minute})

	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tracker.RecordFailure(ctx, "acct-1", now)

	locked, err := tracker.IsLocked(ctx, "acct-1", now.Add(9*time.Minute))
	if err != nil || !locked {
		t.Fatalf("inside lock window: locked=%v err=%v", locked, err)
	}

	// Expiry is lazy: the lock lapses but the counter survives.
	locked, err = tracker.IsLocked(ctx, "acct-1", now.Add(11*time.Minute))
	if err != nil || locked {
		t.Fatalf("past lock window: locked=%v err=%v", locked, err)
	}
	if provider.states["acct-1"].FailedAttempts != 1 {
		t.Fatalf("counter = %d, want 1 after lock expiry", provider.states["acct-1"].FailedAttempts)
	}
}

func TestTrackerSurfacesProviderErrors(t *testing.T) {
	provider := newFakeProvider()
	provider.err = errors.New("store down")
	tracker := New(provider, Config{Threshold: 5, LockDuration: 30 * time.Minute})

	ctx := context.Background()
	now := time.Now()

	if _, _, err := tracker.RecordFailure(ctx, "acct-1", now); !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("RecordFailure: got %v, want ErrProviderUnavailable", err)
	}
	if err := tracker.RecordSuccess(ctx, "acct-1", now); !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("RecordSuccess: got %v, want ErrProviderUnavailable", err)
	}
	if _, err := tracker.IsLocked(ctx, "acct-1", now); !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("IsLocked: got %v, want ErrProviderUnavailable", err)
	}
}
