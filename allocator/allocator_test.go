package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocatorReusesReleasedPages(t *testing.T) {
	a := New()

	page := a.GetPage(1)
	page[1] = 1
	assert.Equal(t, PageSize, len(page))
	assert.Equal(t, 1, a.UsedPages())

	page = a.GetPage(1)
	page[0] = 2
	assert.Equal(t, 2, a.UsedPages())

	page = a.GetPage(1)
	page[2] = 3
	assert.Equal(t, 3, a.UsedPages())

	a.ReleaseJob(1)
	assert.Equal(t, 0, a.UsedPages())
	assert.Equal(t, 3, a.AvailablePages())

	// Pages come back LIFO, so the values we stamped above let us
	// confirm job 2 is actually reusing job 1's backing arrays.
	page = a.GetPage(2)
	assert.Equal(t, uint8(3), page[2])
	assert.Equal(t, 2, a.AvailablePages())
	assert.Equal(t, 1, a.UsedPages())

	page = a.GetPage(2)
	assert.Equal(t, uint8(2), page[0])

	page = a.GetPage(2)
	assert.Equal(t, uint8(1), page[1])
	assert.Equal(t, 0, a.AvailablePages())
	assert.Equal(t, 3, a.UsedPages())
}

func TestAllocatorReleaseUnknownJobIsNoop(t *testing.T) {
	a := New()
	a.GetPage(1)

	a.ReleaseJob(42)
	assert.Equal(t, 1, a.UsedPages())
	assert.Equal(t, 0, a.AvailablePages())
}

func TestAllocatorClose(t *testing.T) {
	a := New()
	a.GetPage(1)
	a.ReleaseJob(1)
	a.GetPage(2)

	a.Close()
	assert.Equal(t, 0, a.UsedPages())
	assert.Equal(t, 0, a.AvailablePages())
}
