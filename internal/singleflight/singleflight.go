// Package singleflight coalesces concurrent calls that share a key so only
// one execution is in flight at a time; duplicates wait for and receive the
// owner's outcome.
package singleflight

import (
	"sync"
	"time"
)

// Group manages a set of in-flight calls keyed by string.
type Group[V any] struct {
	mu sync.Mutex
	m  map[string]*call[V]
}

type call[V any] struct {
	wg  sync.WaitGroup
	val V
	err error
}

// New creates a new Group.
func New[V any]() *Group[V] {
	return &Group[V]{m: make(map[string]*call[V])}
}

// Do executes fn, making sure only one execution for key runs at a time.
// Duplicate callers block until the owner completes and receive its results;
// shared is true for callers that rode along on another execution.
func (g *Group[V]) Do(key string, fn func() (V, error)) (val V, shared bool, err error) {
	g.mu.Lock()
	if c, ok := g.m[key]; ok {
		g.mu.Unlock()
		c.wg.Wait()
		return c.val, true, c.err
	}

	c := &call[V]{}
	c.wg.Add(1)
	g.m[key] = c
	g.mu.Unlock()

	c.val, c.err = fn()
	c.wg.Done()

	// Keep the entry briefly so near-simultaneous duplicates still coalesce,
	// then drop it to avoid leaking completed keys.
	go func() {
		time.Sleep(100 * time.Millisecond)
		g.mu.Lock()
		if g.m[key] == c {
			delete(g.m, key)
		}
		g.mu.Unlock()
	}()

	return c.val, false, c.err
}

// Forget removes key from the group, letting the next caller execute even if
// a previous call is still in progress.
func (g *Group[V]) Forget(key string) {
	g.mu.Lock()
	delete(g.m, key)
	g.mu.Unlock()
}
