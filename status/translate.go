// Package status implements the two-layer status translation described
// in spec.md §4.7: coercing a handler or OS-level error into a STATUS
// response legal for the active protocol table.
package status

import (
	"github.com/xqyjlj/sftpserver/wire"
)

// ConsultOS is the sentinel status a handler returns to mean "translate
// the OS error I'm also returning", mirroring the teacher's send_status
// magic value of (uint32_t)-1 (original_source/status.c).
const ConsultOS = wire.Status(0xFFFFFFFF)

// MaxStatuser is satisfied by proto.Table; declared here to avoid an
// import cycle between status and proto.
type MaxStatuser interface {
	MaxStatus() wire.Status
}

// Translate coerces code to wire.StatusFailure when it exceeds table's
// MaxStatus (spec.md invariant 5). Codes within range pass through
// unchanged.
func Translate(code wire.Status, table MaxStatuser) wire.Status {
	if code > table.MaxStatus() {
		return wire.StatusFailure
	}
	return code
}

// Encode builds a complete STATUS response for a handler result. If err
// is non-nil and code == ConsultOS, the status is derived from err via
// FromError; otherwise code is used directly. message, when empty, is
// filled in from DefaultMessage. The result is always clamped to
// table.MaxStatus via Translate.
func Encode(id uint32, code wire.Status, message string, err error, table MaxStatuser) []byte {
	if code == ConsultOS && err != nil {
		code = FromError(err)
		if message == "" {
			message = err.Error()
		}
	}

	code = Translate(code, table)

	if message == "" {
		message = DefaultMessage(code)
	}

	return wire.MarshalStatus(id, code, message)
}
