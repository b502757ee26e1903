package gate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Scenario 6 (spec.md §8): two WRITEs to handle H back-to-back (ids 7,
// 8), then a WRITE to handle K (id 9). Responses for 7 and 8 must
// arrive in that order; 9 has no ordering constraint relative to them.
func TestGateOrdersSharedHandleOnly(t *testing.T) {
	g := New[int]()

	g.Register(7, []string{"H"})
	g.Register(8, []string{"H"})
	g.Register(9, []string{"K"})

	assert.True(t, g.Runnable(7, []string{"H"}))
	assert.False(t, g.Runnable(8, []string{"H"}), "8 must wait behind 7 on H")
	assert.True(t, g.Runnable(9, []string{"K"}), "9 on an unrelated handle is immediately runnable")

	g.Release(7, []string{"H"})
	assert.True(t, g.Runnable(8, []string{"H"}), "8 becomes runnable once 7 is released")
}

func TestGateJobWithNoHandlesAlwaysRunnable(t *testing.T) {
	g := New[int]()
	assert.True(t, g.Runnable(42, nil))
}

func TestGateWaitUnblocksOnRelease(t *testing.T) {
	g := New[int]()
	g.Register(1, []string{"H"})
	g.Register(2, []string{"H"})

	done := make(chan struct{})
	go func() {
		g.Wait(2, []string{"H"})
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("job 2 became runnable before job 1 was released")
	case <-time.After(20 * time.Millisecond):
	}

	g.Release(1, []string{"H"})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job 2 never unblocked after job 1's release")
	}
}

func TestGateMultiHandleJobWaitsOnAll(t *testing.T) {
	g := New[int]()
	g.Register(1, []string{"A"})
	g.Register(2, []string{"A", "B"})
	g.Register(3, []string{"B"})

	assert.False(t, g.Runnable(2, []string{"A", "B"}), "2 must wait behind both 1 on A and be head on B")

	g.Release(1, []string{"A"})
	assert.True(t, g.Runnable(2, []string{"A", "B"}))

	assert.False(t, g.Runnable(3, []string{"B"}), "3 must still wait behind 2 on B")
}
