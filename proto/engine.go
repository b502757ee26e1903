// Package proto implements the dispatch engine and version-negotiation
// state machine described in spec.md §4.4: the five immutable protocol
// tables, the pre-init→versioned transition, and per-request routing
// through the active table.
package proto

import (
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/xqyjlj/sftpserver/handler"
	"github.com/xqyjlj/sftpserver/wire"
)

// Engine owns the single atomic pointer to the active protocol table
// (spec.md §3 Server state, §9 "Version dispatch as tagged variant").
// The pointer is written exactly once by the reader goroutine, before
// any worker exists, so later reads by workers need no further
// synchronization beyond the atomic load itself (spec.md §5).
type Engine struct {
	active atomic.Pointer[Table]

	preInit, v3, v4, v5, v6 *Table

	// reverseSymlinkCompiled is the build-time choice of whether v3
	// connections get the legacy SYMLINK argument order (spec.md §9
	// Open Question: exposed as an explicit flag, not a basename sniff).
	reverseSymlinkCompiled bool

	negotiated     int32 // 0 before INIT succeeds, 1 after (invariant 1)
	reverseActive  bool  // resolved per-connection at INIT time

	// v6PoolDeferred is set true the moment a v6 VERSION is emitted,
	// and cleared after the next request completes. While true, the
	// caller (the server loop) must keep running jobs inline even
	// though negotiation is complete, per spec.md §4.4's note that the
	// very next v6 request might be version-select.
	v6PoolDeferred int32
}

// NewEngine builds an Engine from a handler registry shared across all
// four versioned tables, plus the named-extension registry (§4.4
// addition), and whether this build advertises the legacy v3 symlink
// argument order.
func NewEngine(reg handler.Registry, ext handler.ExtendedRegistry, reverseSymlinkCompiled bool) *Engine {
	preInit, v3, v4, v5, v6 := BuildDefaultTables(reg, ext)

	e := &Engine{
		preInit:                preInit,
		v3:                     v3,
		v4:                     v4,
		v5:                     v5,
		v6:                     v6,
		reverseSymlinkCompiled: reverseSymlinkCompiled,
	}
	e.active.Store(preInit)
	return e
}

// ActiveTable returns the currently active table. Safe for concurrent
// use by any number of workers (spec.md invariant 3, §5).
func (e *Engine) ActiveTable() *Table {
	return e.active.Load()
}

// PoolDeferred reports whether the worker pool must still be withheld
// even though negotiation has completed — true only for the single
// request immediately following a v6 VERSION response (spec.md §4.4,
// §4.6, §9).
func (e *Engine) PoolDeferred() bool {
	return atomic.LoadInt32(&e.v6PoolDeferred) == 1
}

// ClearPoolDeferred is called by the server loop once the request that
// followed a v6 INIT has finished running inline, allowing pool
// creation to proceed.
func (e *Engine) ClearPoolDeferred() {
	atomic.StoreInt32(&e.v6PoolDeferred, 0)
}

// ParseHeader reads the packet type and, unless it is INIT, the 32-bit
// request id, from the front of a freshly framed packet (spec.md §4.4
// steps 1-3). An empty payload or a truncated id both report
// wire.StatusBadMessage via the returned error wrapping ErrBadMessage.
func ParseHeader(raw []byte) (job *Job, err error) {
	if len(raw) == 0 {
		return nil, ErrBadMessage
	}

	buf := wire.NewBuffer(raw)
	typ, err := buf.ConsumeUint8()
	if err != nil {
		return nil, ErrBadMessage
	}

	j := &Job{Raw: raw, Type: wire.PacketType(typ)}
	if j.Type != wire.PacketTypeInit {
		id, err := buf.ConsumeUint32()
		if err != nil {
			return nil, errors.Wrap(ErrBadMessage, "truncated request id")
		}
		j.ID = &id
	}
	return j, nil
}

// ErrBadMessage marks a decode failure that must be reported as
// SSH_FX_BAD_MESSAGE (spec.md §7 case 1).
var ErrBadMessage = errors.New("proto: malformed packet")

// ErrUnsupportedRoute marks a command type absent from the active
// table, reported as SSH_FX_OP_UNSUPPORTED (spec.md §7 case 2).
var ErrUnsupportedRoute = errors.New("proto: unsupported command type")

// ErrNotPreInit is returned by Negotiate when INIT arrives a second
// time or after negotiation (spec.md §7 case 3, invariant 1).
var ErrNotPreInit = errors.New("proto: INIT received outside pre-init state")

// NegotiateResult carries the outcome of processing an INIT request.
type NegotiateResult struct {
	// Response is the complete VERSION (or STATUS) packet to write.
	Response []byte
	// Table is the table activated, or nil if negotiation failed and
	// the connection remains pre-init.
	Table *Table
	// DeferPool is true exactly when the activated table is v6: the
	// caller must not create the worker pool until one more request
	// has been processed inline (spec.md §4.4, §4.6).
	DeferPool bool
}

// Negotiate runs the INIT state machine (spec.md §4.4). It must only
// ever be called from the reader goroutine, before any worker exists
// (invariant 2).
func (e *Engine) Negotiate(body *wire.Buffer) (NegotiateResult, error) {
	if e.ActiveTable() != e.preInit {
		return NegotiateResult{Response: wire.MarshalStatus(0, wire.StatusFailure,
			"SSH_FXP_INIT received after version negotiation")}, ErrNotPreInit
	}

	clientVersion, err := body.ConsumeUint32()
	if err != nil {
		return NegotiateResult{Response: wire.MarshalStatus(0, wire.StatusBadMessage,
			"malformed SSH_FXP_INIT")}, ErrBadMessage
	}

	if clientVersion < 3 {
		return NegotiateResult{Response: wire.MarshalStatus(0, wire.StatusOPUnsupported,
			"protocol versions below 3 are not supported")}, nil
	}

	var table *Table
	switch {
	case clientVersion == 3:
		table = e.v3
	case clientVersion == 4:
		table = e.v4
	case clientVersion == 5:
		table = e.v5
	default: // >= 6
		table = e.v6
	}

	e.reverseActive = table == e.v3 && e.reverseSymlinkCompiled
	e.active.Store(table)
	atomic.StoreInt32(&e.negotiated, 1)

	resp := &wire.Buffer{}
	resp.AppendUint8(uint8(wire.PacketTypeVersion))
	resp.AppendUint32(table.version)
	WriteVersionExtensions(resp, table, e.reverseActive)

	deferPool := table == e.v6
	if deferPool {
		atomic.StoreInt32(&e.v6PoolDeferred, 1)
	}

	return NegotiateResult{Response: resp.Bytes(), Table: table, DeferPool: deferPool}, nil
}

// Dispatch routes a non-INIT job to its handler in the active table
// (spec.md §4.4 steps 4-5). ctx.Body must be positioned just past the
// request id. routeErr is ErrUnsupportedRoute on a table miss, and wraps
// ErrBadMessage when an SSH_FXP_EXTENDED request's name cannot be
// decoded; otherwise it is nil, and the handler's own (status, error) pass through
// unchanged for the caller to translate via package status — Dispatch
// itself never clamps or maps a status, so that happens in exactly one
// place.
func (e *Engine) Dispatch(job *Job, ctx *handler.Context) (hstatus wire.Status, herr error, routeErr error) {
	table := e.ActiveTable()

	if job.Type == wire.PacketTypeExtended {
		return e.dispatchExtended(table, ctx)
	}

	fn, ok := table.Lookup(job.Type)
	if !ok {
		return 0, nil, ErrUnsupportedRoute
	}

	hstatus, herr = fn(ctx)
	return hstatus, herr, nil
}

// dispatchExtended implements the §4.4 addition: SSH_FXP_EXTENDED
// carries its own name string immediately after the request id, which
// selects the handler from the table's named-extension registry rather
// than its command-type registry. An unrecognized name reports
// SSH_FX_OP_UNSUPPORTED, same as an unknown command type.
func (e *Engine) dispatchExtended(table *Table, ctx *handler.Context) (wire.Status, error, error) {
	name, err := ctx.Body.ConsumeString()
	if err != nil {
		return 0, nil, errors.Wrap(ErrBadMessage, "truncated SSH_FXP_EXTENDED name")
	}

	fn, ok := table.LookupExtended(name)
	if !ok {
		return wire.StatusOPUnsupported, nil, nil
	}

	hstatus, herr := fn(ctx)
	return hstatus, herr, nil
}

// ActiveMaxStatus returns the active table's MaxStatus without exposing
// the full Table type.
func (e *Engine) ActiveMaxStatus() wire.Status {
	return e.ActiveTable().MaxStatus()
}
