package proto

import (
	"sort"

	"github.com/xqyjlj/sftpserver/handler"
	"github.com/xqyjlj/sftpserver/wire"
)

// Feature flags a Table may carry (spec.md §3: "a small set of feature
// flags (e.g. reverse-symlink-argument-order for v3)").
const (
	// FlagReverseSymlinkCapable marks protocol v3, whose wire layout
	// for SYMLINK historically carries its two path arguments in the
	// opposite order from v4+. Whether the server actually emits the
	// legacy order is a build-time choice (spec.md §9 Open Question),
	// resolved by Engine at INIT time into the per-connection
	// reverse-symlink flag.
	FlagReverseSymlinkCapable = 1 << iota
)

// Table is one of the five immutable dispatch tables spec.md §3
// describes: pre-init, v3, v4, v5, v6. A Table is built once at
// process start and never mutated afterward; the Engine swaps its
// active *Table pointer exactly once, during INIT (spec.md invariant 1).
type Table struct {
	// version is 0 for the pre-init table.
	version uint32

	routes  []route
	flags   uint32

	// Extensions lists the named protocol extensions this table
	// advertises in VERSION (spec.md §3), e.g.
	// "posix-rename@openssh.com".
	Extensions []string

	// maxStatus is the highest STATUS code legal for this version;
	// codes above it are coerced to SSH_FX_FAILURE (spec.md invariant 5).
	maxStatus wire.Status

	handlers handler.Registry
	extended handler.ExtendedRegistry
}

type route struct {
	typ wire.PacketType
	fn  handler.Func
}

// Version implements handler.TableInfo.
func (t *Table) Version() uint32 { return t.version }

// HasFlag implements handler.TableInfo.
func (t *Table) HasFlag(flag uint32) bool { return t.flags&flag != 0 }

// MaxStatus implements status.MaxStatuser.
func (t *Table) MaxStatus() wire.Status { return t.maxStatus }

// Lookup binary-searches the table's sorted routes for typ (spec.md
// §4.3: "Each table's command array is sorted by command_type so
// dispatch is a binary search"). ok is false on a miss, which the
// dispatch engine must translate to SSH_FX_OP_UNSUPPORTED.
func (t *Table) Lookup(typ wire.PacketType) (handler.Func, bool) {
	i := sort.Search(len(t.routes), func(i int) bool { return t.routes[i].typ >= typ })
	if i < len(t.routes) && t.routes[i].typ == typ {
		return t.routes[i].fn, true
	}
	return nil, false
}

// LookupExtended looks up a named extended request (§4.4 addition).
func (t *Table) LookupExtended(name string) (handler.Func, bool) {
	fn, ok := t.extended[name]
	return fn, ok
}

// NewTable builds an immutable Table from a handler registry. routes are
// sorted once at construction so Lookup can binary-search.
func NewTable(version uint32, maxStatus wire.Status, flags uint32, extensions []string, reg handler.Registry, ext handler.ExtendedRegistry) *Table {
	routes := make([]route, 0, len(reg))
	for typ, fn := range reg {
		routes = append(routes, route{typ: typ, fn: fn})
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i].typ < routes[j].typ })

	return &Table{
		version:    version,
		routes:     routes,
		flags:      flags,
		Extensions: extensions,
		maxStatus:  maxStatus,
		handlers:   reg,
		extended:   ext,
	}
}

// commandTypesV3 through commandTypesV6 enumerate the request types each
// protocol version's grammar defines, per spec.md §4.3's five-table
// model. Later versions are supersets of v3's core file operations;
// SSH_FXP_LINK/BLOCK/UNBLOCK are v6 additions per draft-ietf-secsh-filexfer-13.
var commandTypesV3 = []wire.PacketType{
	wire.PacketTypeOpen, wire.PacketTypeClose, wire.PacketTypeRead, wire.PacketTypeWrite,
	wire.PacketTypeLstat, wire.PacketTypeFstat, wire.PacketTypeSetstat, wire.PacketTypeFsetstat,
	wire.PacketTypeOpendir, wire.PacketTypeReaddir, wire.PacketTypeRemove, wire.PacketTypeMkdir,
	wire.PacketTypeRmdir, wire.PacketTypeRealpath, wire.PacketTypeStat, wire.PacketTypeRename,
	wire.PacketTypeReadlink, wire.PacketTypeSymlink, wire.PacketTypeExtended,
}

var commandTypesV4 = commandTypesV3

var commandTypesV5 = commandTypesV3

var commandTypesV6 = append(append([]wire.PacketType{}, commandTypesV3...),
	wire.PacketTypeLink, wire.PacketTypeBlock, wire.PacketTypeUnblock)

// BuildDefaultTables constructs the pre-init table (INIT only) plus
// v3..v6 tables wired to reg for every command type that version's
// grammar defines, and to ext for the named extensions this server
// advertises (§4.4 addition: posix-rename@openssh.com,
// statvfs@openssh.com, fsync@openssh.com, hardlink@openssh.com,
// lsetstat@openssh.com).
func BuildDefaultTables(reg handler.Registry, ext handler.ExtendedRegistry) (preInit, v3, v4, v5, v6 *Table) {
	extensionNames := []string{
		"posix-rename@openssh.com",
		"statvfs@openssh.com",
		"fsync@openssh.com",
		"hardlink@openssh.com",
		"lsetstat@openssh.com",
	}

	preInit = NewTable(0, wire.StatusOPUnsupported, 0, nil, handler.Registry{
		wire.PacketTypeInit: nil, // INIT is handled by the engine itself, never via Lookup.
	}, nil)

	v3 = NewTable(3, wire.StatusOPUnsupported, FlagReverseSymlinkCapable, extensionNames, subset(reg, commandTypesV3), ext)
	v4 = NewTable(4, wire.StatusNoMedia, 0, extensionNames, subset(reg, commandTypesV4), ext)
	v5 = NewTable(5, wire.StatusLockConflict, 0, extensionNames, subset(reg, commandTypesV5), ext)
	v6 = NewTable(6, wire.StatusNoMatchingByteRangeLock, 0, extensionNames, subset(reg, commandTypesV6), ext)
	return
}

func subset(reg handler.Registry, types []wire.PacketType) handler.Registry {
	out := make(handler.Registry, len(types))
	for _, t := range types {
		if fn, ok := reg[t]; ok {
			out[t] = fn
		} else {
			out[t] = handler.Fallback(t)[t]
		}
	}
	return out
}
