// Package workerpool implements the fixed-size worker pool of spec.md
// §4.6: a pool of goroutines, each with its own response buffer and
// encoding converters, that pull gate-runnable jobs and run them
// against the active protocol table.
package workerpool

import (
	"sync"

	"github.com/xqyjlj/sftpserver/allocator"
	"github.com/xqyjlj/sftpserver/charset"
	"github.com/xqyjlj/sftpserver/wire"
)

// DefaultWorkerCount matches the teacher's sftpServerWorkerCount
// default of 4 concurrent workers.
const DefaultWorkerCount = 4

// Worker is the per-goroutine state spec.md §3 calls "Worker context":
// a reusable response-assembly buffer and the two encoding converters
// for this connection's local encoding. Workers are stateless across
// jobs except for the buffer, which is reused.
type Worker struct {
	ID       int
	Response wire.Buffer
	Forward  charset.Converter
	Reverse  charset.Converter
}

// Task is one unit of work handed to a Worker: run fn, which performs
// the gate wait, dispatch, and response flush for a single job.
type Task func(w *Worker)

// Pool is a fixed number of goroutines pulling Tasks from a shared
// channel. It is created lazily by the server loop, never before
// version negotiation completes (spec.md §4.4, §4.6, §5).
type Pool struct {
	tasks chan Task
	wg    sync.WaitGroup
	arena *allocator.Allocator
}

// New starts a Pool of n workers (DefaultWorkerCount if n <= 0), each
// built via factory for this connection's negotiated local encoding.
func New(n int, localEncoding string, factory charset.Factory, arena *allocator.Allocator) (*Pool, error) {
	if n <= 0 {
		n = DefaultWorkerCount
	}

	workers := make([]*Worker, n)
	for i := 0; i < n; i++ {
		fwd, rev, err := factory.NewPair(localEncoding)
		if err != nil {
			return nil, err
		}
		workers[i] = &Worker{ID: i, Forward: fwd, Reverse: rev}
	}

	p := &Pool{
		tasks: make(chan Task, n),
		arena: arena,
	}

	p.wg.Add(n)
	for _, w := range workers {
		w := w
		go func() {
			defer p.wg.Done()
			for task := range p.tasks {
				task(w)
			}
		}()
	}

	return p, nil
}

// Submit enqueues a task to be picked up by the next free worker. The
// pool preserves no ordering of its own beyond FIFO delivery to
// whichever worker is free first; ordering across shared handles is
// entirely the gate's responsibility (spec.md §4.5, §9).
func (p *Pool) Submit(t Task) {
	p.tasks <- t
}

// Shutdown closes the task channel and waits for every worker to drain
// and exit, per spec.md §4.6 "Drains the pool, tears each worker down".
func (p *Pool) Shutdown() {
	close(p.tasks)
	p.wg.Wait()
	if p.arena != nil {
		p.arena.Close()
	}
}
