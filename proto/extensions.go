package proto

import "github.com/xqyjlj/sftpserver/wire"

// Vendor identification advertised in every version's "vendor-id"
// extension (spec.md §4.4).
const (
	vendorName    = "xqyjlj"
	productName   = "sftpserver"
	productVer    = "1.0"
	extensionDomain = "sftpserver.dev"
)

// symlinkOrder returns the value advertised for "symlink-order@<domain>"
// given whether the connection negotiated the legacy v3 argument order.
func symlinkOrder(reverse bool) string {
	if reverse {
		return "targetpath-linkpath"
	}
	return "linkpath-targetpath"
}

// appendExtension writes one name/value extension pair as a pair of
// wire strings, the shape every VERSION extension takes (spec.md §6).
func appendExtension(buf *wire.Buffer, name, value string) {
	buf.AppendString(name)
	buf.AppendString(value)
}

// writeSupported writes the v5 "supported" extension's sub-block value
// (spec.md §4.4): attribute mask, attribute bits (0), open flags,
// access mask, max-read-size (0), and this table's extension names.
func writeSupported(buf *wire.Buffer, t *Table) {
	const (
		supportedAttrMask = sshFilexferAttrSize | sshFilexferAttrPermissions |
			sshFilexferAttrModifyTime | sshFilexferAttrACcessTime | sshFilexferAttrOwnerGroup
		supportedOpenFlags = openAccessDisposition | openAppendData | openAppendDataAtomic | openTextMode
		supportedAccessMask = 0xFFFFFFFF
		maxReadSize         = 0 // spec.md §4.4: always 0, see rationale there.
	)

	tok := buf.BeginSub()
	buf.AppendUint32(supportedAttrMask)
	buf.AppendUint32(0) // supported-attribute-bits
	buf.AppendUint32(supportedOpenFlags)
	buf.AppendUint32(supportedAccessMask)
	buf.AppendUint32(maxReadSize)
	buf.AppendUint32(uint32(len(t.Extensions)))
	for _, name := range t.Extensions {
		buf.AppendString(name)
	}
	buf.EndSub(tok)
}

// writeSupported2 writes the v6 "supported2" extension's sub-block
// value: superset of "supported" plus NOFOLLOW|DELETE_ON_CLOSE open
// flags, two zero block-vector fields, zero attrib-extension-count,
// and this table's extension names (spec.md §4.4).
func writeSupported2(buf *wire.Buffer, t *Table) {
	const (
		supportedAttrMask = sshFilexferAttrSize | sshFilexferAttrPermissions |
			sshFilexferAttrModifyTime | sshFilexferAttrACcessTime | sshFilexferAttrOwnerGroup
		supportedOpenFlags = openAccessDisposition | openAppendData | openAppendDataAtomic |
			openTextMode | openNoFollow | openDeleteOnClose
		supportedAccessMask = 0xFFFFFFFF
		maxReadSize         = 0
	)

	tok := buf.BeginSub()
	buf.AppendUint32(supportedAttrMask)
	buf.AppendUint32(0) // supported-attribute-bits
	buf.AppendUint32(supportedOpenFlags)
	buf.AppendUint32(supportedAccessMask)
	buf.AppendUint32(maxReadSize)
	buf.AppendUint16(0) // supported-open-block-vector
	buf.AppendUint16(0) // supported-block-vector
	buf.AppendUint32(0) // attrib-extension-count
	buf.AppendUint32(uint32(len(t.Extensions)))
	for _, name := range t.Extensions {
		buf.AppendString(name)
	}
	buf.EndSub(tok)
}

// Open-flag bits referenced by the "supported"/"supported2" blocks
// (draft-ietf-secsh-filexfer-13 §6.3).
const (
	openAccessDisposition = 0x00000007
	openAppendData        = 0x00000008
	openAppendDataAtomic  = 0x00000010
	openTextMode          = 0x00000020
	openNoFollow          = 0x00000400
	openDeleteOnClose     = 0x00000800
)

// Attribute-mask bits referenced by the "supported"/"supported2" blocks.
const (
	sshFilexferAttrSize        = 0x00000001
	sshFilexferAttrPermissions = 0x00000004
	sshFilexferAttrACcessTime  = 0x00000008
	sshFilexferAttrModifyTime  = 0x00000020
	sshFilexferAttrOwnerGroup  = 0x00000080
)

// WriteVersionExtensions appends the version-dependent extension block
// that follows a VERSION response's version field, per spec.md §4.4.
func WriteVersionExtensions(buf *wire.Buffer, t *Table, reverseSymlink bool) {
	if t.version >= 4 {
		appendExtension(buf, "newline", "\n")
	}

	switch t.version {
	case 5:
		buf.AppendString("supported")
		writeSupported(buf, t)
	case 6:
		buf.AppendString("supported2")
		writeSupported2(buf, t)
		appendExtension(buf, "versions", "3,4,5,6")
	}

	appendExtension(buf, "vendor-id", vendorID())
	appendExtension(buf, "symlink-order@"+extensionDomain, symlinkOrder(reverseSymlink))

	if t.version == 6 {
		appendExtension(buf, "link-order@"+extensionDomain, "linkpath-targetpath")
	}
}

// vendorID encodes the four-field vendor-id extension value: vendor
// name, product name, product version, build number (spec.md §4.4).
// The wire layout for vendor-id nests three strings and a uint32 inside
// the extension's own string value, so the value is assembled in a
// separate buffer and then handed to appendExtension as one string.
func vendorID() string {
	buf := &wire.Buffer{}
	buf.AppendString(vendorName)
	buf.AppendString(productName)
	buf.AppendString(productVer)
	buf.AppendUint32(0) // build number
	return string(buf.Bytes())
}
