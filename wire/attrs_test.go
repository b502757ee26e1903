package wire

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttrsRoundTripV3(t *testing.T) {
	in := Attrs{
		Flags:       AttrSize | AttrUIDGID | AttrPermissions | AttrACModTime,
		Size:        4096,
		UID:         1000,
		GID:         1000,
		Permissions: 0644,
		ATime:       1000,
		MTime:       2000,
	}

	b := &Buffer{}
	b.AppendAttrs(in, false)

	out, err := NewBuffer(b.Bytes()).ConsumeAttrs(false)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestAttrsRoundTripV4OwnerGroup(t *testing.T) {
	in := Attrs{
		Flags:       AttrSize | AttrOwnerGroup | AttrPermissions | AttrAccessTime | AttrModifyTime,
		Size:        8,
		Owner:       "alice",
		Group:       "staff",
		Permissions: os.FileMode(0600),
		ATime:       111,
		MTime:       222,
	}

	b := &Buffer{}
	b.AppendAttrs(in, true)

	out, err := NewBuffer(b.Bytes()).ConsumeAttrs(true)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestAttrsExtendedPairsRoundTrip(t *testing.T) {
	in := Attrs{
		Flags:    AttrExtended,
		Extended: []ExtendedAttr{{Name: "foo@example.com", Value: "bar"}},
	}

	b := &Buffer{}
	b.AppendAttrs(in, true)

	out, err := NewBuffer(b.Bytes()).ConsumeAttrs(true)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestAttrsNoFlagsIsJustTheFlagsWord(t *testing.T) {
	b := &Buffer{}
	b.AppendAttrs(Attrs{}, true)
	assert.Equal(t, []byte{0, 0, 0, 0}, b.Bytes())
}
