// Package allocator provides the per-job scratch allocator referenced by
// spec.md §3 ("Job ... a per-job scratch allocator used by the
// handler"). It is a fixed-page pool so that repeated requests reuse
// the same backing storage instead of round-tripping through the
// garbage collector on every packet.
package allocator

import "sync"

// PageSize is the size of every page handed out by GetPage (256 KiB).
// It is smaller than the largest packet wire.Conn accepts (256 MiB).
const PageSize = 256 * 1024

// Allocator hands out fixed-size pages keyed by an opaque job id, and
// recycles them in bulk when the job finishes.
type Allocator struct {
	mu        sync.Mutex
	available [][]byte
	used      map[uint32][][]byte
}

// New returns an empty Allocator.
func New() *Allocator {
	return &Allocator{
		used: make(map[uint32][][]byte),
	}
}

// GetPage returns a page for jobID, reusing a previously released one
// when available.
func (a *Allocator) GetPage(jobID uint32) []byte {
	a.mu.Lock()
	defer a.mu.Unlock()

	var page []byte
	if n := len(a.available); n > 0 {
		page = a.available[n-1]
		a.available[n-1] = nil
		a.available = a.available[:n-1]
	}
	if page == nil {
		page = make([]byte, PageSize)
	}

	a.used[jobID] = append(a.used[jobID], page)
	return page
}

// ReleaseJob returns every page charged to jobID to the available pool.
// Called once, when the job's response has been flushed, regardless of
// outcome (spec.md §3 "Lifecycle").
func (a *Allocator) ReleaseJob(jobID uint32) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if pages, ok := a.used[jobID]; ok {
		a.available = append(a.available, pages...)
		delete(a.used, jobID)
	}
}

// Close discards every page, used or available. Call when the
// connection is shutting down.
func (a *Allocator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.available = nil
	a.used = make(map[uint32][][]byte)
}

// UsedPages reports how many pages are currently charged to in-flight
// jobs. Exposed for tests.
func (a *Allocator) UsedPages() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := 0
	for _, pages := range a.used {
		n += len(pages)
	}
	return n
}

// AvailablePages reports how many pages are idle in the pool. Exposed
// for tests.
func (a *Allocator) AvailablePages() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return len(a.available)
}
