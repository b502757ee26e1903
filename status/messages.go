package status

import "github.com/xqyjlj/sftpserver/wire"

// DefaultMessage returns the fixed human-readable message for a status
// code, used whenever a handler reports a status without supplying its
// own message (spec.md §4.7, Glossary). Grounded on the teacher's
// status_to_string table (original_source/status.c).
func DefaultMessage(code wire.Status) string {
	if msg, ok := defaultMessages[code]; ok {
		return msg
	}
	return "unknown status"
}

var defaultMessages = map[wire.Status]string{
	wire.StatusOK:                     "OK",
	wire.StatusEOF:                    "end of file",
	wire.StatusNoSuchFile:             "file does not exist",
	wire.StatusPermissionDenied:       "permission denied",
	wire.StatusFailure:                "operation failed",
	wire.StatusBadMessage:             "badly encoded SFTP packet",
	wire.StatusNoConnection:           "no connection",
	wire.StatusConnectionLost:         "connection lost",
	wire.StatusOPUnsupported:          "operation not supported",
	wire.StatusInvalidHandle:          "invalid handle",
	wire.StatusNoSuchPath:             "path does not exist or is invalid",
	wire.StatusFileAlreadyExists:      "file already exists",
	wire.StatusWriteProtect:           "file is on read-only medium",
	wire.StatusNoMedia:                "no medium in drive",
	wire.StatusNoSpaceOnFilesystem:    "no space on filesystem",
	wire.StatusQuotaExceeded:          "quota exceeded",
	wire.StatusUnknownPrincipal:       "unknown principal",
	wire.StatusLockConflict:           "file is locked",
	wire.StatusDirNotEmpty:            "directory is not empty",
	wire.StatusNotADirectory:          "file is not a directory",
	wire.StatusInvalidFilename:        "invalid filename",
	wire.StatusLinkLoop:               "too many symbolic links",
	wire.StatusCannotDelete:           "file cannot be deleted",
	wire.StatusInvalidParameter:       "invalid parameter",
	wire.StatusFileIsADirectory:       "file is a directory",
	wire.StatusByteRangeLockConflict:  "byte range is locked",
	wire.StatusByteRangeLockRefused:   "cannot lock byte range",
	wire.StatusDeletePending:          "file deletion pending",
	wire.StatusFileCorrupt:            "file is corrupt",
	wire.StatusOwnerInvalid:           "invalid owner",
	wire.StatusGroupInvalid:           "invalid group",
	wire.StatusNoMatchingByteRangeLock: "no such lock",
}
