//go:build windows

package status

import (
	"errors"
	"io/fs"
	"os"
	"syscall"

	"golang.org/x/sys/windows"

	"github.com/xqyjlj/sftpserver/wire"
)

// FromError maps an OS-level error to the SFTP status it should be
// reported as (spec.md §4.7 layer 2), for the subset of OS errors that
// can surface when the server runs under Windows.
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

	if errors.Is(err, os.ErrNotExist) {
		return wire.StatusNoSuchFile
	}
	if errors.Is(err, os.ErrPermission) {
		return wire.StatusPermissionDenied
	}
	if errors.Is(err, os.ErrExist) {
		return wire.StatusFileAlreadyExists
	}

	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return wire.StatusFailure
	}

	switch windows.Errno(errno) {
	case windows.ERROR_FILE_NOT_FOUND, windows.ERROR_PATH_NOT_FOUND:
		return wire.StatusNoSuchFile
	case windows.ERROR_ACCESS_DENIED:
		return wire.StatusPermissionDenied
	case windows.ERROR_FILE_EXISTS, windows.ERROR_ALREADY_EXISTS:
		return wire.StatusFileAlreadyExists
	case windows.ERROR_DISK_FULL:
		return wire.StatusNoSpaceOnFilesystem
	case windows.ERROR_DIR_NOT_EMPTY:
		return wire.StatusDirNotEmpty
	case windows.ERROR_DIRECTORY:
		return wire.StatusNotADirectory
	case windows.ERROR_WRITE_PROTECT:
		return wire.StatusWriteProtect
	case windows.ERROR_BUFFER_OVERFLOW, windows.ERROR_FILENAME_EXCED_RANGE:
		return wire.StatusInvalidFilename
	default:
		return wire.StatusFailure
	}
}
