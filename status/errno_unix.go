//go:build !windows && !plan9

package status

import (
	"errors"
	"io/fs"
	"os"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/xqyjlj/sftpserver/wire"
)

// FromError maps an OS-level error to the SFTP status it should be
// reported as (spec.md §4.7 layer 2). Table and ordering are grounded
// on original_source/status.c's errnotab.
func FromError(err error) wire.Status {
	if err == nil {
		return wire.StatusOK
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		err = pathErr.Err
	}
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		err = linkErr.Err
	}

	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return wire.StatusFailure
	}

	switch unix.Errno(errno) {
	case 0:
		return wire.StatusOK
	case unix.EPERM, unix.EACCES:
		return wire.StatusPermissionDenied
	case unix.ENOENT:
		return wire.StatusNoSuchFile
	case unix.EIO:
		return wire.StatusFileCorrupt
	case unix.ENOSPC:
		return wire.StatusNoSpaceOnFilesystem
	case unix.ENOTDIR:
		return wire.StatusNotADirectory
	case unix.EISDIR:
		return wire.StatusFileIsADirectory
	case unix.EEXIST:
		return wire.StatusFileAlreadyExists
	case unix.EROFS:
		return wire.StatusWriteProtect
	case unix.ELOOP:
		return wire.StatusLinkLoop
	case unix.ENAMETOOLONG:
		return wire.StatusInvalidFilename
	case unix.ENOTEMPTY:
		return wire.StatusDirNotEmpty
	case unix.EDQUOT:
		return wire.StatusQuotaExceeded
	default:
		return wire.StatusFailure
	}
}
