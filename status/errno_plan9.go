//go:build plan9

package status

import (
	"errors"
	"io/fs"
	"syscall"

	"github.com/xqyjlj/sftpserver/wire"
)

// FromError maps an OS-level error to the SFTP status it should be
// reported as (spec.md §4.7 layer 2). Plan 9 reports errors as free-form
// strings rather than a fixed errno set, so only the syscall.ENOENT and
// syscall.EPERM error strings are recognised, by exact match;
// everything else collapses to StatusFailure, matching spec.md's
// "anything else -> FAILURE" rule.
func FromError(err error) wire.Status {
	if err == nil {
		return wire.StatusOK
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		err = pathErr.Err
	}

	var errno syscall.ErrorString
	if !errors.As(err, &errno) {
		return wire.StatusFailure
	}

	switch errno {
	case "":
		return wire.StatusOK
	case syscall.ENOENT:
		return wire.StatusNoSuchFile
	case syscall.EPERM:
		return wire.StatusPermissionDenied
	default:
		return wire.StatusFailure
	}
}
