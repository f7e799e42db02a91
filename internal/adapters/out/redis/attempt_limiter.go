// Package redis implements the verification attempt limiter as a sliding window
// kept in a Redis sorted set.
package redis

import (
	"context"
	"fmt"
	"time"

	"orderflow/internal/pkg/errs"

	"github.com/google/uuid"
	rd "github.com/redis/go-redis/v9"
)

// slidingWindow trims entries older than the window, then records the attempt if
// the window still has room. It returns the attempt count, or -1 when refused.
//
// KEYS[1] window key
// ARGV[1] now in ms, ARGV[2] window start in ms, ARGV[3] window in ms,
// ARGV[4] unique member, ARGV[5] limit
var slidingWindow = rd.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local windowStart = tonumber(ARGV[2])
local windowMs = tonumber(ARGV[3])
local limit = tonumber(ARGV[5])

redis.call('ZREMRANGEBYSCORE', key, '-inf', windowStart)

local count = redis.call('ZCARD', key)
if count >= limit then
  return -1
end

redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, windowMs)
return count + 1
`)

const keyPrefix = "orderflow:attempts:"

// SlidingWindowLimiter allows at most limit attempts per key within window.
type SlidingWindowLimiter struct {
	client rd.Scripter
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewSlidingWindowLimiter(client rd.Scripter, limit int, window time.Duration) (*SlidingWindowLimiter, error) {
	if limit <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("attempt limit", limit, 1, "unbounded")
	}
	if window <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("attempt window", window, "1ms", "unbounded")
	}
	return &SlidingWindowLimiter{client: client, limit: limit, window: window, now: time.Now}, nil
}

// Allow records one attempt for key and reports whether it fits in the window.
// Refused attempts are not recorded.
func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := l.now().UnixMilli()
	windowMs := l.window.Milliseconds()

	res, err := slidingWindow.Run(ctx, l.client, []string{keyPrefix + key},
		now, now-windowMs, windowMs, uuid.NewString(), l.limit).Int()
	if err != nil {
		return false, fmt.Errorf("attempt limiter: %w", err)
	}
	return res > 0, nil
}
