package stats

import "time"

// CachedAggregate is a computed value plus the time it was computed.
type CachedAggregate[T any] struct {
	Value      T         `json:"value"`
	ComputedAt time.Time `json:"computed_at"`
}

func NewCachedAggregate[T any](value T, at time.Time) CachedAggregate[T] {
	return CachedAggregate[T]{Value: value, ComputedAt: at}
}

// IsStale reports whether the value is older than ttl at now. A value that
// was never computed, or a non-positive ttl, is always stale.
func (c CachedAggregate[T]) IsStale(now time.Time, ttl time.Duration) bool {
	if c.ComputedAt.IsZero() || ttl <= 0 {
		return true
	}
	return now.Sub(c.ComputedAt) > ttl
}

// Age is how long ago the value was computed.
func (c CachedAggregate[T]) Age(now time.Time) time.Duration {
	if c.ComputedAt.IsZero() {
		return 0
	}
	return now.Sub(c.ComputedAt)
}
