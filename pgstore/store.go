package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	goShield "github.com/MrEthical07/goShield"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrAccountNotFound indicates the account row does not exist.
	ErrAccountNotFound = errors.New("account not found")
)

// AccountStore is a PostgreSQL-backed [goShield.AccountProvider].
type AccountStore struct {
	pool  *pgxpool.Pool
	table string

	incrementSQL string
	clearSQL     string
	selectSQL    string
}

// New creates an [AccountStore] over the given pool using the default
// "accounts" table.
func New(pool *pgxpool.Pool) *AccountStore {
	return NewWithTable(pool, "accounts")
}

// NewWithTable creates an [AccountStore] against a custom table. The table
// name is interpolated into SQL at construction time and must come from
// configuration, never from user input.
func NewWithTable(pool *pgxpool.Pool, table string) *AccountStore {
	return &AccountStore{
		pool:  pool,
		table: table,
		incrementSQL: fmt.Sprintf(`
			UPDATE %s
			SET failed_login_attempts = failed_login_attempts + 1,
			    account_locked_until = CASE
			        WHEN failed_login_attempts + 1 >= $2 THEN $3
			        ELSE account_locked_until
			    END
			WHERE id = $1
			RETURNING failed_login_attempts, account_locked_until, last_login_at`, table),
		clearSQL: fmt.Sprintf(`
			UPDATE %s
			SET failed_login_attempts = 0,
			    account_locked_until = NULL,
			    last_login_at = $2
			WHERE id = $1`, table),
		selectSQL: fmt.Sprintf(`
			SELECT failed_login_attempts, account_locked_until, last_login_at
			FROM %s
			WHERE id = $1`, table),
	}
}

// IncrementAndMaybeLock adds one failure and stamps lockUntil in the same
// statement when the post-increment counter reaches threshold.
func (s *AccountStore) IncrementAndMaybeLock(ctx context.Context, accountID string, threshold int, lockUntil time.Time) (goShield.SecurityState, error) {
	var state goShield.SecurityState
	err := s.pool.QueryRow(ctx, s.incrementSQL, accountID, threshold, lockUntil).
		Scan(&state.FailedAttempts, &state.LockedUntil, &state.LastLoginAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return goShield.SecurityState{}, fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
		}
		return goShield.SecurityState{}, fmt.Errorf("increment failed attempts: %w", err)
	}
	return state, nil
}

// ClearFailures zeroes the counter, clears the lock, and stamps the last
// successful login.
func (s *AccountStore) ClearFailures(ctx context.Context, accountID string, at time.Time) error {
	tag, err := s.pool.Exec(ctx, s.clearSQL, accountID, at)
	if err != nil {
		return fmt.Errorf("clear failed attempts: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
	}
	return nil
}

// SecurityState reads the lockout field group for one account.
func (s *AccountStore) SecurityState(ctx context.Context, accountID string) (goShield.SecurityState, error) {
	var state goShield.SecurityState
	err := s.pool.QueryRow(ctx, s.selectSQL, accountID).
		Scan(&state.FailedAttempts, &state.LockedUntil, &state.LastLoginAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return goShield.SecurityState{}, fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
		}
		return goShield.SecurityState{}, fmt.Errorf("read security state: %w", err)
	}
	return state, nil
}
