// Package gate implements the serialization gate of spec.md §4.5: a
// per-handle FIFO that lets unrelated requests run in parallel while
// preserving request order among jobs that share a file handle
// (invariant 6). It is deliberately not a lock per handle — a slow READ
// on one handle must never block a STAT on an unrelated path, and a
// naive mutex-per-handle would admit reorderings if a worker yielded
// between dequeue and execution (spec.md §9).
package gate

import "sync"

// Gate tracks one FIFO queue per open handle. A Job is runnable once it
// sits at the head of every FIFO it was registered in.
type Gate[J comparable] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queues map[string][]J
}

// New returns an empty Gate.
func New[J comparable]() *Gate[J] {
	g := &Gate[J]{queues: make(map[string][]J)}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// Register appends j to the back of every handle in handles' FIFO. Call
// this on the reader goroutine immediately after parsing a job, before
// handing it to the worker pool (spec.md §4.5). A job with no handles
// is always runnable and does not need registering at all, but
// Register tolerates an empty handles slice as a no-op for callers that
// always call it uniformly.
func (g *Gate[J]) Register(j J, handles []string) {
	if len(handles) == 0 {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	for _, h := range handles {
		g.queues[h] = append(g.queues[h], j)
	}
}

// Runnable reports whether j is currently at the head of every FIFO it
// was registered in.
func (g *Gate[J]) Runnable(j J, handles []string) bool {
	if len(handles) == 0 {
		return true
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	return g.runnableLocked(j, handles)
}

func (g *Gate[J]) runnableLocked(j J, handles []string) bool {
	for _, h := range handles {
		q := g.queues[h]
		if len(q) == 0 || q[0] != j {
			return false
		}
	}
	return true
}

// Wait blocks until j is runnable. A worker calls this after popping j
// from the pool's channel but before invoking its handler (spec.md §5
// "Workers block ... waiting on the serialization gate").
func (g *Gate[J]) Wait(j J, handles []string) {
	if len(handles) == 0 {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	for !g.runnableLocked(j, handles) {
		g.cond.Wait()
	}
}

// Release removes j from every FIFO it belongs to and wakes any worker
// waiting on a newly-head successor. Call this once j's response has
// been fully handled, regardless of outcome (spec.md §3 Lifecycle).
func (g *Gate[J]) Release(j J, handles []string) {
	if len(handles) == 0 {
		return
	}

	g.mu.Lock()
	for _, h := range handles {
		q := g.queues[h]
		for i, v := range q {
			if v == j {
				q = append(q[:i], q[i+1:]...)
				break
			}
		}
		if len(q) == 0 {
			delete(g.queues, h)
		} else {
			g.queues[h] = q
		}
	}
	g.mu.Unlock()

	g.cond.Broadcast()
}
