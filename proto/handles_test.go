package proto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xqyjlj/sftpserver/wire"
)

func TestExtractHandlesCoversBlockAndUnblock(t *testing.T) {
	for _, typ := range []wire.PacketType{wire.PacketTypeBlock, wire.PacketTypeUnblock} {
		body := &wire.Buffer{}
		body.AppendHandle("h1")

		handles, err := ExtractHandles(&Job{Type: typ}, body)
		require.NoError(t, err)
		assert.Equal(t, []string{"h1"}, handles)
	}
}

func TestExtractHandlesIgnoresHandlelessTypes(t *testing.T) {
	handles, err := ExtractHandles(&Job{Type: wire.PacketTypeMkdir}, &wire.Buffer{})
	require.NoError(t, err)
	assert.Nil(t, handles)
}
