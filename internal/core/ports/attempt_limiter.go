package ports

import "context"

// AttemptLimiter bounds how often a key may be used within a sliding window.
// Allow records the attempt and reports whether it is within the limit.
type AttemptLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
