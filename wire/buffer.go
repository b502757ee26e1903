// Package wire implements the SFTP primitive wire encoding: big-endian
// integers and length-prefixed byte strings, on top of a reusable byte
// buffer.
package wire

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Decoding and framing errors. ErrShortPacket and ErrReservedValue are
// decode errors: when one comes up while the server loop decodes a
// request's header or handle, it answers that request with
// SSH_FX_BAD_MESSAGE. ErrZeroLength and ErrLongPacket are returned by
// Conn.ReadPacket and end the connection.
var (
	ErrShortPacket    = errors.New("wire: packet too short")
	ErrLongPacket     = errors.New("wire: packet length exceeds the maximum accepted")
	ErrReservedValue  = errors.New("wire: reserved value not permitted by this protocol version")
	ErrZeroLength     = errors.New("wire: zero-length packet")
)

// Buffer wraps the encode/decode cursor over a single packet's bytes.
//
// A Buffer is not safe for concurrent use; each Job owns exactly one.
type Buffer struct {
	b   []byte
	off int
}

// NewBuffer wraps buf for decoding. NewBuffer takes ownership of buf.
func NewBuffer(buf []byte) *Buffer {
	return &Buffer{b: buf}
}

// NewMarshalBuffer returns a Buffer ready to encode a response of the
// given packet type, with size bytes of spare capacity beyond the
// 1-byte type and, when id is non-nil, the 4-byte request id.
func NewMarshalBuffer(packetType uint8, id *uint32, size int) *Buffer {
	head := 1
	if id != nil {
		head += 4
	}
	buf := &Buffer{b: make([]byte, 0, head+size)}
	buf.AppendUint8(packetType)
	if id != nil {
		buf.AppendUint32(*id)
	}
	return buf
}

// Bytes returns the unconsumed tail of the buffer. The returned slice
// aliases internal storage and is only valid until the next Append or
// Consume call.
func (b *Buffer) Bytes() []byte { return b.b[b.off:] }

// Len reports the number of unconsumed bytes remaining.
func (b *Buffer) Len() int { return len(b.b) - b.off }

// Reset empties the buffer for reuse by a worker across jobs: it takes
// buf's backing array, truncated to length zero, as its storage and
// rewinds the consume cursor to the start. Reset(nil) drops the old
// storage.
func (b *Buffer) Reset(buf []byte) {
	b.b = buf[:0]
	b.off = 0
}

// ConsumeUint8 decodes a single byte.
func (b *Buffer) ConsumeUint8() (uint8, error) {
	if b.Len() < 1 {
		return 0, ErrShortPacket
	}
	v := b.b[b.off]
	b.off++
	return v, nil
}

// AppendUint8 encodes a single byte.
func (b *Buffer) AppendUint8(v uint8) { b.b = append(b.b, v) }

// ConsumeUint16 decodes a big-endian uint16.
func (b *Buffer) ConsumeUint16() (uint16, error) {
	if b.Len() < 2 {
		return 0, ErrShortPacket
	}
	v := binary.BigEndian.Uint16(b.b[b.off:])
	b.off += 2
	return v, nil
}

// AppendUint16 encodes a big-endian uint16.
func (b *Buffer) AppendUint16(v uint16) {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	b.b = append(b.b, tmp[:]...)
}

// ConsumeUint32 decodes a big-endian uint32.
func (b *Buffer) ConsumeUint32() (uint32, error) {
	if b.Len() < 4 {
		return 0, ErrShortPacket
	}
	v := binary.BigEndian.Uint32(b.b[b.off:])
	b.off += 4
	return v, nil
}

// AppendUint32 encodes a big-endian uint32.
func (b *Buffer) AppendUint32(v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	b.b = append(b.b, tmp[:]...)
}

// ConsumeUint64 decodes a big-endian uint64.
func (b *Buffer) ConsumeUint64() (uint64, error) {
	if b.Len() < 8 {
		return 0, ErrShortPacket
	}
	v := binary.BigEndian.Uint64(b.b[b.off:])
	b.off += 8
	return v, nil
}

// AppendUint64 encodes a big-endian uint64.
func (b *Buffer) AppendUint64(v uint64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	b.b = append(b.b, tmp[:]...)
}

// ConsumeByteString decodes a 32-bit length prefix followed by that many
// raw bytes. The data may contain arbitrary binary content, including
// embedded NULs; callers that need a Go string should convert explicitly.
// The returned slice aliases the Buffer's storage.
func (b *Buffer) ConsumeByteString() ([]byte, error) {
	n, err := b.ConsumeUint32()
	if err != nil {
		return nil, err
	}
	if uint64(b.Len()) < uint64(n) {
		return nil, ErrShortPacket
	}
	v := b.b[b.off : b.off+int(n)]
	b.off += int(n)
	return v, nil
}

// AppendByteString encodes v as a 32-bit length prefix followed by its
// raw bytes.
func (b *Buffer) AppendByteString(v []byte) {
	b.AppendUint32(uint32(len(v)))
	b.b = append(b.b, v...)
}

// ConsumeString is ConsumeByteString with a string conversion; it copies.
func (b *Buffer) ConsumeString() (string, error) {
	v, err := b.ConsumeByteString()
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// AppendString is AppendByteString with a string argument.
func (b *Buffer) AppendString(v string) { b.AppendByteString([]byte(v)) }

// ConsumeHandle decodes an opaque file handle. Handles are strings whose
// contents are defined by the out-of-scope handle-issuing subsystem; the
// wire codec treats them as uninterpreted byte strings.
func (b *Buffer) ConsumeHandle() (string, error) { return b.ConsumeString() }

// AppendHandle encodes an opaque file handle.
func (b *Buffer) AppendHandle(v string) { b.AppendString(v) }

// subToken is returned by BeginSub and consumed by EndSub to back-patch
// a sub-block's length once its contents are known.
type subToken int

// BeginSub reserves space for a sub-block's 32-bit length prefix and
// returns a token identifying where to patch it once the sub-block's
// payload has been appended.
func (b *Buffer) BeginSub() subToken {
	tok := subToken(len(b.b))
	b.AppendUint32(0)
	return tok
}

// EndSub back-patches the length recorded at tok with the number of
// bytes appended since BeginSub returned it.
func (b *Buffer) EndSub(tok subToken) {
	n := len(b.b) - int(tok) - 4
	binary.BigEndian.PutUint32(b.b[tok:tok+4], uint32(n))
}
