package listing

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xqyjlj/sftpserver/wire"
)

func TestFormatLongnameNumericOwner(t *testing.T) {
	attrs := wire.Attrs{
		Flags:       wire.AttrSize | wire.AttrUIDGID | wire.AttrPermissions,
		Size:        4096,
		UID:         1000,
		GID:         1000,
		Permissions: 0644,
	}

	out := FormatLongname("report.txt", attrs, nil)
	assert.Contains(t, out, "report.txt")
	assert.Contains(t, out, "1000")
	assert.Equal(t, byte('-'), out[0])
}

func TestFormatLongnameDirectoryBit(t *testing.T) {
	attrs := wire.Attrs{
		Flags:       wire.AttrPermissions,
		Permissions: os.ModeDir | 0755,
	}
	out := FormatLongname("bin", attrs, nil)
	assert.Equal(t, byte('d'), out[0])
}

type fakeLookup struct{}

func (fakeLookup) LookupUserName(uid string) string  { return "alice" }
func (fakeLookup) LookupGroupName(gid string) string { return "staff" }

func TestFormatLongnameOwnerGroupStrings(t *testing.T) {
	attrs := wire.Attrs{
		Flags: wire.AttrOwnerGroup,
		Owner: "1000",
		Group: "1000",
	}
	out := FormatLongname("f", attrs, fakeLookup{})
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "staff")
}
