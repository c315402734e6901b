package throttle

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Policy is the per-action budget applied to one consume call.
type Policy struct {
	Window      time.Duration
	MaxRequests int
}

// Result is the raw outcome of one consume against the store.
type Result struct {
	Allowed     bool
	Count       int
	WindowStart time.Time
	ExpiresAt   time.Time
}

// consumeScript performs the whole check-then-act for one key in a single
// server-side step: renew a lapsed or missing window, or increment an active
// one up to the ceiling. Reply: {allowed, count, windowStart, expiresAt}.
var consumeScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local max = tonumber(ARGV[3])

local rec = redis.call('HMGET', KEYS[1], 'count', 'windowStart', 'expiresAt')
if rec[1] and now <= tonumber(rec[3]) then
  local count = tonumber(rec[1])
  if count >= max then
    return {0, count, tonumber(rec[2]), tonumber(rec[3])}
  end
  count = redis.call('HINCRBY', KEYS[1], 'count', 1)
  return {1, count, tonumber(rec[2]), tonumber(rec[3])}
end

local expires = now + window
redis.call('HSET', KEYS[1],
  'count', '1',
  'windowStart', string.format('%d', now),
  'expiresAt', string.format('%d', expires))
redis.call('ZADD', KEYS[2], expires, KEYS[1])
return {1, 1, now, expires}
`)

// resetScript drops one record and its index entry together.
var resetScript = redis.NewScript(`
redis.call('ZREM', KEYS[2], KEYS[1])
return redis.call('DEL', KEYS[1])
`)

// purgeScript deletes up to ARGV[2] records whose expiresAt is strictly
// below ARGV[1], returning how many were removed.
var purgeScript = redis.NewScript(`
local stale = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', '(' .. ARGV[1], 'LIMIT', 0, tonumber(ARGV[2]))
local removed = 0
for _, key in ipairs(stale) do
  redis.call('DEL', key)
  redis.call('ZREM', KEYS[1], key)
  removed = removed + 1
end
return removed
`)

// Ledger owns the throttle record keyspace for one Redis client.
type Ledger struct {
	redis  redis.UniversalClient
	prefix string
}

// New creates a [Ledger] backed by the given Redis client. All keys it
// touches start with prefix.
func New(redisClient redis.UniversalClient, prefix string) *Ledger {
	return &Ledger{
		redis:  redisClient,
		prefix: prefix,
	}
}

func (l *Ledger) recordKey(action, identifier string) string {
	return l.prefix + ":thr:" + action + ":" + identifier
}

func (l *Ledger) indexKey() string {
	return l.prefix + ":thr-exp"
}

// Consume runs one atomic check-and-consume for (identifier, action) at the
// given instant. Denial is reported through [Result.Allowed], never as an
// error; a non-nil error always means the store call itself failed.
func (l *Ledger) Consume(ctx context.Context, identifier, action string, p Policy, now time.Time) (Result, error) {
	reply, err := consumeScript.Run(ctx, l.redis,
		[]string{l.recordKey(action, identifier), l.indexKey()},
		now.UnixMilli(), p.Window.Milliseconds(), p.MaxRequests,
	).Result()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	values, ok := reply.([]interface{})
	if !ok || len(values) != 4 {
		return Result{}, fmt.Errorf("%w: unexpected reply shape %T", ErrBadReply, reply)
	}

	nums := make([]int64, 4)
	for i, v := range values {
		n, ok := v.(int64)
		if !ok {
			return Result{}, fmt.Errorf("%w: element %d is %T", ErrBadReply, i, v)
		}
		nums[i] = n
	}

	return Result{
		Allowed:     nums[0] == 1,
		Count:       int(nums[1]),
		WindowStart: time.UnixMilli(nums[2]),
		ExpiresAt:   time.UnixMilli(nums[3]),
	}, nil
}

// Reset deletes the record for (identifier, action). Missing records are a
// no-op; the call is idempotent.
func (l *Ledger) Reset(ctx context.Context, identifier, action string) error {
	err := resetScript.Run(ctx, l.redis,
		[]string{l.recordKey(action, identifier), l.indexKey()},
	).Err()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Purge removes every record whose window lapsed before now, in batches of
// batchSize keys per script call, and returns the total removed.
func (l *Ledger) Purge(ctx context.Context, now time.Time, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 512
	}

	total := 0
	for {
		removed, err := purgeScript.Run(ctx, l.redis,
			[]string{l.indexKey()},
			now.UnixMilli(), batchSize,
		).Int()
		if err != nil {
			return total, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}

		total += removed
		if removed < batchSize {
			return total, nil
		}
	}
}
