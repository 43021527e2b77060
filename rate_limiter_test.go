package saluran

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestRateLimiterTryAcquire(t *testing.T) {
	rl := NewRateLimiter(2, 1*time.Second)

	if !rl.TryAcquire() {
		t.Error("Expected first acquisition to be admitted")
	}
	if !rl.TryAcquire() {
		t.Error("Expected second acquisition to be admitted")
	}
	if rl.TryAcquire() {
		t.Error("Expected third acquisition to be denied")
	}

	// A denied attempt records nothing.
	if remaining := rl.Remaining(); remaining != 0 {
		t.Errorf("Expected remaining=0, got %d", remaining)
	}
}

func TestRateLimiterWindowRollover(t *testing.T) {
	rl := NewRateLimiter(2, 50*time.Millisecond)

	rl.TryAcquire()
	rl.TryAcquire()

	if rl.TryAcquire() {
		t.Error("Expected denial while window is full")
	}

	time.Sleep(60 * time.Millisecond)

	if !rl.TryAcquire() {
		t.Error("Expected admission after the window elapsed")
	}
}

func TestRateLimiterAcquireBlocksUntilSlotFrees(t *testing.T) {
	rl := NewRateLimiter(1, 40*time.Millisecond)

	if err := rl.Acquire(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	start := time.Now()
	if err := rl.Acquire(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("Expected second Acquire to wait for the window, waited %v", elapsed)
	}
}

func TestRateLimiterAcquireContextCancel(t *testing.T) {
	rl := NewRateLimiter(1, 1*time.Hour)

	if err := rl.Acquire(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := rl.Acquire(ctx)
	if err != context.DeadlineExceeded {
		t.Errorf("Expected context.DeadlineExceeded, got %v", err)
	}
}

func TestRateLimiterRemaining(t *testing.T) {
	rl := NewRateLimiter(3, 1*time.Second)

	if remaining := rl.Remaining(); remaining != 3 {
		t.Errorf("Expected remaining=3, got %d", remaining)
	}

	rl.TryAcquire()
	rl.TryAcquire()

	if remaining := rl.Remaining(); remaining != 1 {
		t.Errorf("Expected remaining=1, got %d", remaining)
	}
}

func TestRateLimiterWaitTime(t *testing.T) {
	rl := NewRateLimiter(1, 100*time.Millisecond)

	if wait := rl.WaitTime(); wait != 0 {
		t.Errorf("Expected zero wait under the limit, got %v", wait)
	}

	rl.TryAcquire()

	wait := rl.WaitTime()
	if wait <= 0 || wait > 100*time.Millisecond {
		t.Errorf("Expected wait in (0, 100ms], got %v", wait)
	}
}

func TestRateLimiterReset(t *testing.T) {
	rl := NewRateLimiter(1, 1*time.Hour)

	rl.TryAcquire()
	rl.Reset()

	if !rl.TryAcquire() {
		t.Error("Expected admission after Reset")
	}
}

func TestRateLimiterZeroCapacity(t *testing.T) {
	rl := NewRateLimiter(0, 0)

	if rl.TryAcquire() {
		t.Error("Expected denial with zero capacity")
	}
	if remaining := rl.Remaining(); remaining != 0 {
		t.Errorf("Expected remaining=0, got %d", remaining)
	}
	if wait := rl.WaitTime(); wait < 0 {
		t.Errorf("Expected a non-negative wait, got %v", wait)
	}
}

func TestRateLimiterConcurrentAdmissions(t *testing.T) {
	rl := NewRateLimiter(5, 1*time.Second)

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.TryAcquire() {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if admitted != 5 {
		t.Errorf("Expected exactly 5 admissions, got %d", admitted)
	}
}
