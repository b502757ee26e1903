package sftpserver

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xqyjlj/sftpserver/handler"
	"github.com/xqyjlj/sftpserver/wire"
)

// newTestServer starts a Server over a net.Pipe and returns the peer
// end, framed the same way Server itself frames packets, so the test
// drives Serve() exactly as a real client would (spec.md §8).
func newTestServer(t *testing.T, reg handler.Registry) *wire.Conn {
	t.Helper()

	serverSide, clientSide := net.Pipe()
	t.Cleanup(func() { clientSide.Close() })

	srv := NewServer(serverSide, reg, handler.ExtendedRegistry{}, true)
	go srv.Serve()

	return wire.NewConn(clientSide, clientSide)
}

func negotiateV3(t *testing.T, client *wire.Conn) {
	t.Helper()

	body := &wire.Buffer{}
	body.AppendUint8(uint8(wire.PacketTypeInit))
	body.AppendUint32(3)
	require.NoError(t, client.WritePacket(body.Bytes()))

	_, err := client.ReadPacket() // VERSION response.
	require.NoError(t, err)
}

// Scenario 4 (spec.md §8): a well-framed request whose command type the
// active table doesn't route gets SSH_FX_OP_UNSUPPORTED, not whatever
// status.FromError happens to fall through to for a non-OS error.
func TestServeUnknownCommandTypeReportsOpUnsupported(t *testing.T) {
	client := newTestServer(t, handler.Fallback(wire.PacketTypeStat))
	negotiateV3(t, client)

	req := &wire.Buffer{}
	req.AppendUint8(99) // absent from every table.
	req.AppendUint32(42)
	require.NoError(t, client.WritePacket(req.Bytes()))

	resp, err := client.ReadPacket()
	require.NoError(t, err)

	rb := wire.NewBuffer(resp)
	typ, err := rb.ConsumeUint8()
	require.NoError(t, err)
	assert.EqualValues(t, wire.PacketTypeStatus, typ)

	id, err := rb.ConsumeUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(42), id)

	code, err := rb.ConsumeUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(wire.StatusOPUnsupported), code)
}

// spec.md §7 case 1: a truncated SSH_FXP_EXTENDED name is BAD_MESSAGE,
// not FAILURE.
func TestServeTruncatedExtendedNameReportsBadMessage(t *testing.T) {
	client := newTestServer(t, handler.Fallback(wire.PacketTypeStat))
	negotiateV3(t, client)

	req := &wire.Buffer{}
	req.AppendUint8(uint8(wire.PacketTypeExtended))
	req.AppendUint32(43)
	req.AppendUint32(10) // claims a 10-byte name that never follows.
	require.NoError(t, client.WritePacket(req.Bytes()))

	resp, err := client.ReadPacket()
	require.NoError(t, err)

	rb := wire.NewBuffer(resp)
	_, err = rb.ConsumeUint8()
	require.NoError(t, err)

	id, err := rb.ConsumeUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(43), id)

	code, err := rb.ConsumeUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(wire.StatusBadMessage), code)
}
