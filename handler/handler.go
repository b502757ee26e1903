// Package handler defines the contract the protocol engine uses to
// invoke out-of-scope filesystem command handlers (spec.md §4.3, §6
// "Handler contract to external command modules"). Nothing in this
// package touches a filesystem; it exists so proto and the concrete
// command modules (not part of this engine) can agree on a shape.
package handler

import (
	"github.com/pkg/errors"

	"github.com/xqyjlj/sftpserver/wire"
)

// Responded is the sentinel a Func returns to mean "I already wrote a
// complete non-status response via Context.Response" (spec.md §4.3:
// VERSION, DATA, NAME, ATTRS, HANDLE). The dispatch engine compares
// against this value with errors.Is; for any other result it translates
// the returned status, and consults the returned error only when that
// status is status.ConsultOS.
var Responded = errors.New("handler: response already written")

// Context bundles everything a handler is allowed to touch: the
// request's decode cursor, its scratch arena key, the worker's
// assembly buffer and encoding converters, and the currently active
// table (for feature-flag checks such as the reverse-symlink order).
// Handlers must not retain a Context past the call that received it
// (spec.md §4.3).
type Context struct {
	// Type is the request's packet type.
	Type wire.PacketType
	// ID is the request id; always present except for INIT, which
	// never reaches a Func (the engine handles INIT itself).
	ID uint32
	// Body is the decode cursor positioned just past the id field.
	Body *wire.Buffer
	// Response is the buffer a handler writes a non-status reply into
	// before returning Responded.
	Response *wire.Buffer
	// Forward converts local-encoded filenames to UTF-8.
	Forward Converter
	// Reverse converts UTF-8 filenames to local encoding.
	Reverse Converter
	// JobID identifies this request's scratch-allocator arena.
	JobID uint32
	// Table exposes version-dependent feature flags (e.g. reverse
	// symlink argument order) to handlers that need them.
	Table TableInfo
}

// Converter mirrors charset.Converter without importing package
// charset, to keep this package's dependency surface to wire only.
type Converter interface {
	Convert(in []byte) ([]byte, error)
}

// TableInfo is the subset of proto.Table a handler may consult.
type TableInfo interface {
	Version() uint32
	HasFlag(flag uint32) bool
}

// Flags a TableInfo may report via HasFlag. FlagReverseSymlinkArgs has
// the same bit as proto.FlagReverseSymlinkCapable, which the v3 table
// always carries; whether a connection actually uses the legacy
// SYMLINK order is settled by the engine at INIT time.
const (
	FlagReverseSymlinkArgs = 1 << iota
)

// Func is the handler contract: given a Context, either return
// (status, nil) to have the engine emit a translated STATUS response,
// or write a complete response into ctx.Response and return
// (0, Responded).
type Func func(ctx *Context) (wire.Status, error)

// Registry maps a packet type to the Func that handles it. proto.Table
// embeds one per version; concrete filesystem command modules populate
// it at server construction time.
type Registry map[wire.PacketType]Func

// ExtendedRegistry maps an extended request's name (the string carried
// in the SSH_FXP_EXTENDED body) to its Func, per the §4.4 addition for
// named protocol extensions.
type ExtendedRegistry map[string]Func

// Fallback is a Registry where every route reports OP_UNSUPPORTED. It
// lets the engine and its tests run without a real filesystem backend
// wired in, per spec.md's framing of command handlers as external
// collaborators.
func Fallback(types ...wire.PacketType) Registry {
	reg := make(Registry, len(types))
	for _, t := range types {
		reg[t] = unsupported
	}
	return reg
}

func unsupported(ctx *Context) (wire.Status, error) {
	return wire.StatusOPUnsupported, nil
}
