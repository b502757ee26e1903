package proto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xqyjlj/sftpserver/handler"
	"github.com/xqyjlj/sftpserver/wire"
)

func testEngine() *Engine {
	reg := handler.Fallback(
		wire.PacketTypeOpen, wire.PacketTypeClose, wire.PacketTypeRead, wire.PacketTypeWrite,
		wire.PacketTypeLstat, wire.PacketTypeFstat, wire.PacketTypeSetstat, wire.PacketTypeFsetstat,
		wire.PacketTypeOpendir, wire.PacketTypeReaddir, wire.PacketTypeRemove, wire.PacketTypeMkdir,
		wire.PacketTypeRmdir, wire.PacketTypeRealpath, wire.PacketTypeStat, wire.PacketTypeRename,
		wire.PacketTypeReadlink, wire.PacketTypeSymlink,
	)
	return NewEngine(reg, nil, true)
}

func initBody(version uint32) *wire.Buffer {
	buf := &wire.Buffer{}
	buf.AppendUint32(version)
	return buf
}

// Scenario 1: INIT(version=3) replies VERSION=3 with only vendor-id and
// symlink-order, no newline/supported blocks.
func TestNegotiateV3ExtensionSet(t *testing.T) {
	e := testEngine()
	res, err := e.Negotiate(initBody(3))
	require.NoError(t, err)
	require.NotNil(t, res.Table)
	assert.Equal(t, uint32(3), res.Table.Version())
	assert.False(t, res.DeferPool)

	buf := wire.NewBuffer(res.Response)
	typ, err := buf.ConsumeUint8()
	require.NoError(t, err)
	assert.EqualValues(t, wire.PacketTypeVersion, typ)

	version, err := buf.ConsumeUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(3), version)

	var names []string
	for buf.Len() > 0 {
		name, err := buf.ConsumeString()
		require.NoError(t, err)
		_, err = buf.ConsumeString() // value, possibly a sub-block we don't need to parse here
		require.NoError(t, err)
		names = append(names, name)
	}

	assert.NotContains(t, names, "newline")
	assert.NotContains(t, names, "supported")
	assert.NotContains(t, names, "supported2")
	assert.Contains(t, names, "vendor-id")
	assert.Contains(t, names, "symlink-order@sftpserver.dev")
}

func TestNegotiateRejectsLowVersions(t *testing.T) {
	e := testEngine()
	res, err := e.Negotiate(initBody(2))
	require.NoError(t, err)
	assert.Nil(t, res.Table)
	// engine must remain in pre-init.
	assert.Equal(t, e.preInit, e.ActiveTable())

	buf := wire.NewBuffer(res.Response)
	_, _ = buf.ConsumeUint8()
	_, _ = buf.ConsumeUint32() // id
	code, err := buf.ConsumeUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(wire.StatusOPUnsupported), code)
}

func TestNegotiateOnlyOnce(t *testing.T) {
	e := testEngine()
	_, err := e.Negotiate(initBody(3))
	require.NoError(t, err)

	_, err = e.Negotiate(initBody(4))
	assert.ErrorIs(t, err, ErrNotPreInit)
	// table must not have moved to v4.
	assert.Equal(t, e.v3, e.ActiveTable())
}

func TestNegotiateV6DefersPool(t *testing.T) {
	e := testEngine()
	res, err := e.Negotiate(initBody(9)) // anything >= 6 maps to v6
	require.NoError(t, err)
	assert.Equal(t, e.v6, res.Table)
	assert.True(t, res.DeferPool)
	assert.True(t, e.PoolDeferred())

	e.ClearPoolDeferred()
	assert.False(t, e.PoolDeferred())
}

// Scenario 4: a well-framed packet whose type is absent from v3's table
// gets SSH_FX_OP_UNSUPPORTED.
func TestDispatchUnknownCommandType(t *testing.T) {
	e := testEngine()
	_, err := e.Negotiate(initBody(3))
	require.NoError(t, err)

	job := &Job{Type: wire.PacketType(99)}
	_, _, routeErr := e.Dispatch(job, &handler.Context{})
	assert.ErrorIs(t, routeErr, ErrUnsupportedRoute)
}

func TestParseHeaderRejectsEmptyPayload(t *testing.T) {
	_, err := ParseHeader(nil)
	assert.ErrorIs(t, err, ErrBadMessage)
}

func TestParseHeaderInitHasNoID(t *testing.T) {
	job, err := ParseHeader([]byte{byte(wire.PacketTypeInit), 0, 0, 0, 3})
	require.NoError(t, err)
	assert.Nil(t, job.ID)
}

func TestParseHeaderNonInitRequiresID(t *testing.T) {
	job, err := ParseHeader([]byte{byte(wire.PacketTypeStat), 0, 0, 0, 7})
	require.NoError(t, err)
	require.NotNil(t, job.ID)
	assert.Equal(t, uint32(7), *job.ID)
}
