package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferRoundTripUint32(t *testing.T) {
	tests := []struct {
		v    uint32
		want []byte
	}{
		{1, []byte{0, 0, 0, 1}},
		{256, []byte{0, 0, 1, 0}},
		{^uint32(0), []byte{255, 255, 255, 255}},
	}

	for _, tt := range tests {
		b := &Buffer{}
		b.AppendUint32(tt.v)
		assert.Equal(t, tt.want, b.Bytes())

		got, err := b.ConsumeUint32()
		require.NoError(t, err)
		assert.Equal(t, tt.v, got)
	}
}

func TestBufferRoundTripUint64(t *testing.T) {
	tests := []struct {
		v    uint64
		want []byte
	}{
		{1, []byte{0, 0, 0, 0, 0, 0, 0, 1}},
		{1 << 32, []byte{0, 0, 1, 0, 0, 0, 0, 0}},
		{^uint64(0), []byte{255, 255, 255, 255, 255, 255, 255, 255}},
	}

	for _, tt := range tests {
		b := &Buffer{}
		b.AppendUint64(tt.v)
		assert.Equal(t, tt.want, b.Bytes())

		got, err := b.ConsumeUint64()
		require.NoError(t, err)
		assert.Equal(t, tt.v, got)
	}
}

func TestBufferRoundTripString(t *testing.T) {
	tests := []struct {
		v    string
		want []byte
	}{
		{"", []byte{0, 0, 0, 0}},
		{"/foo", []byte{0x0, 0x0, 0x0, 0x4, 0x2f, 0x66, 0x6f, 0x6f}},
	}

	for _, tt := range tests {
		b := &Buffer{}
		b.AppendString(tt.v)
		assert.Equal(t, tt.want, b.Bytes())

		got, err := b.ConsumeString()
		require.NoError(t, err)
		assert.Equal(t, tt.v, got)
	}
}

func TestBufferShortRead(t *testing.T) {
	b := NewBuffer([]byte{0, 0, 0, 5, 'a', 'b'}) // declares length 5, only 2 bytes follow
	_, err := b.ConsumeByteString()
	assert.ErrorIs(t, err, ErrShortPacket)
}

func TestBufferZeroLengthPrefixOnEmpty(t *testing.T) {
	b := NewBuffer(nil)
	_, err := b.ConsumeUint8()
	assert.ErrorIs(t, err, ErrShortPacket)
}

func TestBeginEndSub(t *testing.T) {
	b := &Buffer{}
	tok := b.BeginSub()
	b.AppendString("vendor-id")
	b.EndSub(tok)

	// the sub-block length should equal the bytes appended after BeginSub.
	sub := NewBuffer(b.Bytes())
	n, err := sub.ConsumeUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(4+len("vendor-id")), n)
}
