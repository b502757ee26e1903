package wire

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnRoundTripPacket(t *testing.T) {
	var buf bytes.Buffer
	c := NewConn(&buf, &buf)

	require.NoError(t, c.WritePacket([]byte{1, 2, 3}))

	got, err := c.ReadPacket()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)
}

func TestConnZeroLengthIsFatal(t *testing.T) {
	r := bytes.NewReader([]byte{0, 0, 0, 0})
	c := NewConn(r, io.Discard)

	_, err := c.ReadPacket()
	assert.ErrorIs(t, err, ErrZeroLength)
}

func TestConnShortReadIsFatal(t *testing.T) {
	// declares a 5-byte payload but only delivers 2
	r := bytes.NewReader([]byte{0, 0, 0, 5, 'a', 'b'})
	c := NewConn(r, io.Discard)

	_, err := c.ReadPacket()
	require.Error(t, err)
}

func TestConnCleanEOFAtBoundary(t *testing.T) {
	c := NewConn(bytes.NewReader(nil), io.Discard)

	_, err := c.ReadPacket()
	assert.ErrorIs(t, err, io.EOF)
}

func TestConnWritesNotInterleaved(t *testing.T) {
	var buf bytes.Buffer
	c := NewConn(nil, &buf)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = c.WritePacket(bytes.Repeat([]byte{0xAA}, 4096))
	}()
	_ = c.WritePacket(bytes.Repeat([]byte{0xBB}, 4096))
	<-done

	// Each write's length prefix must be immediately followed by that
	// many bytes of a single fill value; a successful parse of both
	// packets from the concatenated stream demonstrates no interleaving.
	rc := NewConn(bytes.NewReader(buf.Bytes()), io.Discard)
	p1, err := rc.ReadPacket()
	require.NoError(t, err)
	p2, err := rc.ReadPacket()
	require.NoError(t, err)
	assert.Len(t, p1, 4096)
	assert.Len(t, p2, 4096)
}
