package wire

import "os"

// Attribute-flag bits, shared across ATTRS/SETSTAT/FSETSTAT and the
// open-time attributes argument. v3 packs atime/mtime into one
// ACMODTIME bit; v4+ split them into separate ACCESSTIME/MODIFYTIME
// bits, per draft-ietf-secsh-filexfer-13 §7.
const (
	AttrSize        = 0x00000001
	AttrUIDGID      = 0x00000002 // v3 only
	AttrPermissions = 0x00000004
	AttrACModTime   = 0x00000008 // v3 only: combined atime+mtime
	AttrAccessTime  = 0x00000008 // v4+: atime alone
	AttrCreateTime  = 0x00000010 // v4+
	AttrModifyTime  = 0x00000020 // v4+
	AttrACL         = 0x00000040 // v4+
	AttrOwnerGroup  = 0x00000080 // v4+: string owner/group instead of numeric uid/gid
	AttrSubsecond   = 0x00000100 // v4+
	AttrExtended    = 0x80000000
)

// Attrs is the decoded form of an SSH_FXP_ATTRS value, a superset of
// every field any supported protocol version can carry. Handlers fill
// in only the fields their Flags bit selects; the wire codec never
// invents defaults for fields the peer didn't send.
type Attrs struct {
	Flags uint32

	Size uint64

	// UID/GID are v3's numeric owner fields.
	UID, GID uint32

	// Owner/Group are v4+'s string owner fields, used instead of
	// UID/GID when AttrOwnerGroup is set.
	Owner, Group string

	Permissions os.FileMode

	// ATime/MTime are v3's combined-resolution timestamps (seconds).
	ATime, MTime uint32

	// Extended holds any vendor-specific name/value pairs the peer
	// attached (AttrExtended), preserved but never interpreted.
	Extended []ExtendedAttr
}

// ExtendedAttr is one "extended" name/value pair carried in an Attrs
// value with AttrExtended set.
type ExtendedAttr struct {
	Name  string
	Value string
}

// ConsumeAttrs decodes an Attrs value: a uint32 flags field followed by
// whichever fields Flags selects, in the fixed order the protocol
// defines. v4OrLater distinguishes v3's AttrUIDGID/AttrACModTime
// encoding from v4+'s AttrOwnerGroup/AttrAccessTime/AttrModifyTime
// encoding, since both families reuse overlapping bit positions.
func (b *Buffer) ConsumeAttrs(v4OrLater bool) (Attrs, error) {
	var a Attrs

	flags, err := b.ConsumeUint32()
	if err != nil {
		return a, err
	}
	a.Flags = flags

	if flags&AttrSize != 0 {
		if a.Size, err = b.ConsumeUint64(); err != nil {
			return a, err
		}
	}

	if !v4OrLater {
		if flags&AttrUIDGID != 0 {
			if a.UID, err = b.ConsumeUint32(); err != nil {
				return a, err
			}
			if a.GID, err = b.ConsumeUint32(); err != nil {
				return a, err
			}
		}
	} else if flags&AttrOwnerGroup != 0 {
		if a.Owner, err = b.ConsumeString(); err != nil {
			return a, err
		}
		if a.Group, err = b.ConsumeString(); err != nil {
			return a, err
		}
	}

	if flags&AttrPermissions != 0 {
		mode, err := b.ConsumeUint32()
		if err != nil {
			return a, err
		}
		a.Permissions = os.FileMode(mode)
	}

	if !v4OrLater {
		if flags&AttrACModTime != 0 {
			if a.ATime, err = b.ConsumeUint32(); err != nil {
				return a, err
			}
			if a.MTime, err = b.ConsumeUint32(); err != nil {
				return a, err
			}
		}
	} else {
		if flags&AttrAccessTime != 0 {
			if a.ATime, err = b.ConsumeUint32(); err != nil {
				return a, err
			}
			if flags&AttrSubsecond != 0 {
				if _, err = b.ConsumeUint32(); err != nil { // subsecond, discarded
					return a, err
				}
			}
		}
		if flags&AttrCreateTime != 0 {
			if _, err = b.ConsumeUint64(); err != nil { // createtime, discarded
				return a, err
			}
		}
		if flags&AttrModifyTime != 0 {
			if a.MTime, err = b.ConsumeUint32(); err != nil {
				return a, err
			}
			if flags&AttrSubsecond != 0 {
				if _, err = b.ConsumeUint32(); err != nil {
					return a, err
				}
			}
		}
	}

	if flags&AttrACL != 0 {
		if _, err = b.ConsumeByteString(); err != nil { // ACL blob, discarded
			return a, err
		}
	}

	if flags&AttrExtended != 0 {
		count, err := b.ConsumeUint32()
		if err != nil {
			return a, err
		}
		a.Extended = make([]ExtendedAttr, 0, count)
		for i := uint32(0); i < count; i++ {
			name, err := b.ConsumeString()
			if err != nil {
				return a, err
			}
			value, err := b.ConsumeString()
			if err != nil {
				return a, err
			}
			a.Extended = append(a.Extended, ExtendedAttr{Name: name, Value: value})
		}
	}

	return a, nil
}

// AppendAttrs encodes a, writing only the fields a.Flags selects, using
// the same v3/v4+ field layout ConsumeAttrs expects.
func (b *Buffer) AppendAttrs(a Attrs, v4OrLater bool) {
	flags := a.Flags
	if v4OrLater {
		// Attrs has no storage for these fields, so they are never
		// written and their bits are cleared from the flags word.
		flags &^= AttrCreateTime | AttrSubsecond | AttrACL
	}
	b.AppendUint32(flags)

	if a.Flags&AttrSize != 0 {
		b.AppendUint64(a.Size)
	}

	if !v4OrLater {
		if a.Flags&AttrUIDGID != 0 {
			b.AppendUint32(a.UID)
			b.AppendUint32(a.GID)
		}
	} else if a.Flags&AttrOwnerGroup != 0 {
		b.AppendString(a.Owner)
		b.AppendString(a.Group)
	}

	if a.Flags&AttrPermissions != 0 {
		b.AppendUint32(uint32(a.Permissions))
	}

	if !v4OrLater {
		if a.Flags&AttrACModTime != 0 {
			b.AppendUint32(a.ATime)
			b.AppendUint32(a.MTime)
		}
	} else {
		if a.Flags&AttrAccessTime != 0 {
			b.AppendUint32(a.ATime)
		}
		if a.Flags&AttrModifyTime != 0 {
			b.AppendUint32(a.MTime)
		}
	}

	if a.Flags&AttrExtended != 0 {
		b.AppendUint32(uint32(len(a.Extended)))
		for _, e := range a.Extended {
			b.AppendString(e.Name)
			b.AppendString(e.Value)
		}
	}
}
