// Package listing formats the "longname" field of an SSH_FXP_NAME entry
// (spec.md's NAME response), adapted from the teacher's longname.go to
// work directly off wire.Attrs instead of its v2 encoding package's
// Attributes type.
package listing

import (
	"fmt"
	"os"
	"time"

	"github.com/xqyjlj/sftpserver/wire"
)

// NameLookup resolves numeric owner/group ids to display names, mirroring
// the teacher's NameLookup interface (longname.go). A nil NameLookup
// leaves the numeric forms as-is.
type NameLookup interface {
	LookupUserName(uid string) string
	LookupGroupName(gid string) string
}

// FormatLongname renders name and attrs in `ls -l` style, e.g.
//
//	-rw-r--r--    1 alice    staff        4096 Jul 31 20:52 report.txt
//
// matching the teacher's FormatLongname, generalized to take a
// wire.Attrs value (already decoded from whichever protocol version is
// active) instead of an os.FileInfo/sshfx.Attributes pair.
func FormatLongname(name string, attrs wire.Attrs, lookup NameLookup) string {
	perms := permString(attrs.Permissions)

	uid, gid := "0", "0"
	if attrs.Flags&wire.AttrOwnerGroup != 0 {
		uid, gid = attrs.Owner, attrs.Group
	} else if attrs.Flags&wire.AttrUIDGID != 0 {
		uid = fmt.Sprint(attrs.UID)
		gid = fmt.Sprint(attrs.GID)
	}

	if lookup != nil {
		uid, gid = lookup.LookupUserName(uid), lookup.LookupGroupName(gid)
	}

	mtime := time.Unix(int64(attrs.MTime), 0)
	month := mtime.Format("Jan")
	day := mtime.Format("2")

	var yearOrTime string
	if attrs.MTime != 0 && mtime.Before(time.Now().AddDate(0, -6, 0)) {
		yearOrTime = mtime.Format("2006")
	} else {
		yearOrTime = mtime.Format("15:04")
	}

	return fmt.Sprintf("%s %4d %-8s %-8s %8d %s % 2s %5s %s",
		perms, 1, uid, gid, attrs.Size, month, day, yearOrTime, name)
}

// permString renders a permission/type bit pattern the way `ls -l`
// does, grounded on the teacher's sshfx.FileMode.String() used by
// longname.go, rewritten against os.FileMode directly since this
// module's wire.Attrs stores permissions as os.FileMode.
func permString(mode os.FileMode) string {
	out := []byte("----------")

	switch {
	case mode&os.ModeDir != 0:
		out[0] = 'd'
	case mode&os.ModeSymlink != 0:
		out[0] = 'l'
	case mode&os.ModeNamedPipe != 0:
		out[0] = 'p'
	case mode&os.ModeSocket != 0:
		out[0] = 's'
	case mode&os.ModeDevice != 0:
		out[0] = 'c'
		if mode&os.ModeCharDevice == 0 {
			out[0] = 'b'
		}
	}

	const rwx = "rwxrwxrwx"
	for i := 0; i < 9; i++ {
		if mode&(1<<uint(8-i)) != 0 {
			out[i+1] = rwx[i]
		}
	}

	return string(out)
}
