package singleflight

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGroupDo(t *testing.T) {
	g := New[string]()

	val, shared, err := g.Do("key", func() (string, error) {
		return "value", nil
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if val != "value" {
		t.Errorf("Expected value, got %q", val)
	}
	if shared {
		t.Error("Expected the sole caller not to be shared")
	}
}

func TestGroupDoError(t *testing.T) {
	g := New[int]()
	boom := errors.New("boom")

	_, _, err := g.Do("key", func() (int, error) {
		return 0, boom
	})
	if err != boom {
		t.Errorf("Expected boom, got %v", err)
	}
}

func TestGroupCoalescesConcurrentCalls(t *testing.T) {
	g := New[int]()

	var executions atomic.Int32
	var sharedCount atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			val, shared, err := g.Do("key", func() (int, error) {
				executions.Add(1)
				<-release
				return 42, nil
			})
			if err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
			if val != 42 {
				t.Errorf("Expected 42, got %d", val)
			}
			if shared {
				sharedCount.Add(1)
			}
		}()
	}

	// Let the duplicates queue up behind the owner before it completes.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if executions.Load() != 1 {
		t.Errorf("Expected 1 execution, got %d", executions.Load())
	}
	if sharedCount.Load() != 4 {
		t.Errorf("Expected 4 shared callers, got %d", sharedCount.Load())
	}
}

func TestGroupForget(t *testing.T) {
	g := New[int]()

	started := make(chan struct{})
	release := make(chan struct{})
	var executions atomic.Int32

	go g.Do("key", func() (int, error) {
		executions.Add(1)
		close(started)
		<-release
		return 1, nil
	})

	<-started
	g.Forget("key")

	// After Forget a new caller runs its own execution.
	val, _, err := g.Do("key", func() (int, error) {
		executions.Add(1)
		return 2, nil
	})
	close(release)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if val != 2 {
		t.Errorf("Expected the fresh execution's value, got %d", val)
	}
	if executions.Load() != 2 {
		t.Errorf("Expected 2 executions, got %d", executions.Load())
	}
}
