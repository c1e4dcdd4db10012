package metadata

import (
	"sync"
	"time"
)

// rateLimiter keeps at least interval between the end of one lookup and the
// start of the next.
type rateLimiter struct {
	mu       sync.Mutex
	lastDone time.Time
	interval time.Duration
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{interval: interval}
}

// wait blocks until interval has passed since the last call to done.
func (r *rateLimiter) wait() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.lastDone.IsZero() {
		return
	}
	if since := time.Since(r.lastDone); since < r.interval {
		time.Sleep(r.interval - since)
	}
}

// done marks the end of a lookup.
func (r *rateLimiter) done() {
	r.mu.Lock()
	r.lastDone = time.Now()
	r.mu.Unlock()
}
