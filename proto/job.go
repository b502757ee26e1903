package proto

import (
	"github.com/xqyjlj/sftpserver/wire"
)

// Job is one in-flight request, per spec.md §3. It owns the raw packet
// buffer and decode cursor for its lifetime, which runs from framing
// through response flush; the per-job scratch allocator and raw buffer
// are released on destruction regardless of outcome.
type Job struct {
	// Raw is the undecoded packet payload as delivered by the framer
	// (type byte included).
	Raw []byte
	// Type is the packet's first byte.
	Type wire.PacketType
	// ID is nil only for INIT, which carries no request id.
	ID *uint32
	// Handles is the set of open-file handles this job references,
	// populated from ExtractHandles on the reader goroutine (spec.md §4.5).
	// A job with an empty Handles is runnable immediately.
	Handles []string
	// Seq is a monotonically increasing per-connection sequence number
	// assigned at framing time. It keys the job's pages in the
	// connection's allocator; the gate orders jobs sharing a handle by
	// the order they were registered, not by Seq.
	Seq uint64
}

// EffectiveID returns the id to use when a response lacks a valid id
// field, per spec.md §5: "STATUS responses for requests lacking a valid
// id field use id=0."
func (j *Job) EffectiveID() uint32 {
	if j.ID == nil {
		return 0
	}
	return *j.ID
}
