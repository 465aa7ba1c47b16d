package logger

import (
	"sync"

	"golang.org/x/time/rate"
)

// Throttle rate-limits repetitive log events per key, so skip reasons that
// fire once per part do not flood the log.
type Throttle struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewThrottle creates a throttle allowing eventsPerSecond per key. A
// non-positive rate disables throttling.
func NewThrottle(eventsPerSecond float64, burst int) *Throttle {
	if burst <= 0 {
		burst = 5
	}
	limit := rate.Limit(eventsPerSecond)
	if eventsPerSecond <= 0 {
		limit = rate.Inf
	}

	return &Throttle{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    burst,
	}
}

// Allow reports whether an event for key may be logged now
func (t *Throttle) Allow(key string) bool {
	t.mu.Lock()
	limiter, ok := t.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(t.limit, t.burst)
		t.limiters[key] = limiter
	}
	t.mu.Unlock()

	return limiter.Allow()
}
