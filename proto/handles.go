package proto

import "github.com/xqyjlj/sftpserver/wire"

// ExtractHandles implements the "serialize(job)" step of spec.md §4.5:
// parsing, on the reader goroutine, just enough of a request to learn
// which open-file handle(s) it references, without invoking its
// handler. CLOSE, READ, WRITE, FSTAT, FSETSTAT, and READDIR name a
// handle as their first field after the request id, as do the v6
// byte-range-lock commands BLOCK and UNBLOCK (draft-ietf-secsh-filexfer-13
// §9.4); every other command type references zero handles and is
// therefore runnable immediately (spec.md §4.5 "Jobs referencing no
// handle ... are runnable immediately").
func ExtractHandles(job *Job, body *wire.Buffer) ([]string, error) {
	switch job.Type {
	case wire.PacketTypeClose, wire.PacketTypeRead, wire.PacketTypeWrite,
		wire.PacketTypeFstat, wire.PacketTypeFsetstat, wire.PacketTypeReaddir,
		wire.PacketTypeBlock, wire.PacketTypeUnblock:
		h, err := body.ConsumeHandle()
		if err != nil {
			return nil, err
		}
		return []string{h}, nil
	default:
		return nil, nil
	}
}
