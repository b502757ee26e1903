package wire

import (
	"encoding/binary"
	"io"
	"sync"

	"github.com/pkg/errors"
)

// maxPacketLength bounds the length prefix accepted from a peer, so a
// corrupt or hostile length field can't make the framer attempt a
// multi-gigabyte allocation. OpenSSH's sftp-server uses the same
// defensive bound.
const maxPacketLength = 256 * 1024 * 1024

// Conn is the length-prefixed packet framer described in spec.md §4.2:
// "uint32 length ; length bytes of payload", symmetric for reads and
// writes. Reads happen on the single reader goroutine; writes are
// serialised with a mutex so responses from concurrent workers are
// never interleaved (spec.md §5).
type Conn struct {
	r io.Reader

	wmu sync.Mutex
	w   io.Writer
}

// NewConn wraps r and w as a framed SFTP connection.
func NewConn(r io.Reader, w io.Writer) *Conn {
	return &Conn{r: r, w: w}
}

// ReadPacket reads one framed packet: a 4-byte big-endian length L,
// then exactly L bytes. A short read, or L == 0, is a fatal framing
// error per spec.md §4.2/§7 case 6; a clean EOF at the length boundary
// is returned as io.EOF for graceful shutdown.
func (c *Conn) ReadPacket() (payload []byte, err error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(c.r, lenBuf[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, errors.Wrap(err, "wire: EOF mid length-prefix")
		}
		return nil, err
	}

	n := binary.BigEndian.Uint32(lenBuf[:])
	if n == 0 {
		return nil, ErrZeroLength
	}
	if n > maxPacketLength {
		return nil, ErrLongPacket
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(c.r, buf); err != nil {
		return nil, errors.Wrap(err, "wire: EOF mid packet")
	}
	return buf, nil
}

// WritePacket writes payload prefixed with its big-endian length,
// atomically with respect to other WritePacket callers.
func (c *Conn) WritePacket(payload []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))

	if _, err := c.w.Write(lenBuf[:]); err != nil {
		return errors.Wrap(err, "wire: write length prefix")
	}
	if _, err := c.w.Write(payload); err != nil {
		return errors.Wrap(err, "wire: write payload")
	}
	return nil
}
