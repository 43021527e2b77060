package saluran

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a sliding trailing-window admission controller. A recorded
// timestamp counts against the limit until the window has elapsed since it
// was recorded; pruning happens lazily on every admission check. The
// check-and-record step is atomic under a single mutex, so two concurrent
// acquisitions can never both be admitted past capacity.
type RateLimiter struct {
	mu          sync.Mutex
	maxRequests int
	window      time.Duration
	timestamps  []time.Time
}

// NewRateLimiter creates a limiter admitting at most maxRequests per trailing
// window.
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		maxRequests: maxRequests,
		window:      window,
	}
}

// Acquire blocks until a slot is free within the window, then records the
// admission. Waiters wake when the oldest in-window timestamp ages out; no
// FIFO fairness among waiters is guaranteed, only monotonic progress.
// Returns the context error if ctx is cancelled while waiting.
func (rl *RateLimiter) Acquire(ctx context.Context) error {
	for {
		wait, admitted := rl.tryAdmit()
		if admitted {
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}

// TryAcquire is the non-blocking variant: it records an admission and returns
// true, or records nothing and returns false when the window is full.
func (rl *RateLimiter) TryAcquire() bool {
	_, admitted := rl.tryAdmit()
	return admitted
}

// Remaining prunes expired timestamps and returns how many admissions are
// left in the current window.
func (rl *RateLimiter) Remaining() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.pruneLocked(time.Now())
	return rl.maxRequests - len(rl.timestamps)
}

// WaitTime returns zero when under the limit, otherwise the time until the
// oldest in-window timestamp falls outside the window.
func (rl *RateLimiter) WaitTime() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	wait, _ := rl.waitLocked(time.Now())
	return wait
}

// Reset clears all recorded timestamps.
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.timestamps = rl.timestamps[:0]
}

func (rl *RateLimiter) tryAdmit() (time.Duration, bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.pruneLocked(now)
	if len(rl.timestamps) < rl.maxRequests {
		rl.timestamps = append(rl.timestamps, now)
		return 0, true
	}
	wait, _ := rl.waitLocked(now)
	return wait, false
}

func (rl *RateLimiter) pruneLocked(now time.Time) {
	cutoff := now.Add(-rl.window)
	idx := 0
	for idx < len(rl.timestamps) && !rl.timestamps[idx].After(cutoff) {
		idx++
	}
	if idx > 0 {
		rl.timestamps = append(rl.timestamps[:0], rl.timestamps[idx:]...)
	}
}

func (rl *RateLimiter) waitLocked(now time.Time) (time.Duration, bool) {
	rl.pruneLocked(now)
	if len(rl.timestamps) < rl.maxRequests {
		return 0, true
	}
	// maxRequests <= 0 admits nothing; there is no timestamp whose expiry
	// could free a slot.
	if len(rl.timestamps) == 0 {
		return rl.window, false
	}
	wait := rl.timestamps[0].Add(rl.window).Sub(now)
	if wait < 0 {
		wait = 0
	}
	return wait, false
}
