package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Registry hands out one token bucket per caller id.
type Registry struct {
	mu      sync.Mutex
	callers map[string]*entry
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

// NewRegistry creates a registry where each caller gets rps sustained requests per second with
// bursts up to burst.
func NewRegistry(rps float64, burst int) *Registry {
	return &Registry{
		callers: make(map[string]*entry),
		limit:   rate.Limit(rps),
		burst:   burst,
		now:     time.Now,
	}
}

// Allow reports whether caller may make a request now, consuming a token if so.
func (r *Registry) Allow(caller string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	e, ok := r.callers[caller]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(r.limit, r.burst)}
		r.callers[caller] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// Sweep forgets callers idle for longer than idle and returns how many were removed.
func (r *Registry) Sweep(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-idle)
	removed := 0
	for id, e := range r.callers {
		if e.lastSeen.Before(cutoff) {
			delete(r.callers, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked callers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.callers)
}
