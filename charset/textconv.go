package charset

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// TextFactory is the default Factory implementation, backed by
// golang.org/x/text. It supports the common local encodings a
// subordinate sftp-server process is launched under (the IANA names
// recognised by golang.org/x/text/encoding/htmlindex, e.g. "utf-8",
// "iso-8859-1", "windows-1252", "shift_jis", "euc-jp", "gbk", "big5"),
// plus an explicit "" / "utf-8" fast path that skips conversion
// entirely.
type TextFactory struct{}

// NewPair implements Factory.
func (TextFactory) NewPair(localEncoding string) (forward, reverse Converter, err error) {
	name := strings.ToLower(strings.TrimSpace(localEncoding))
	if name == "" || name == "utf-8" || name == "utf8" {
		return Identity, Identity, nil
	}

	enc, err := lookupEncoding(name)
	if err != nil {
		return nil, nil, err
	}

	return decoderConverter{enc.NewDecoder()}, encoderConverter{enc.NewEncoder()}, nil
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, errors.Errorf("charset: unknown local encoding %q", name)
	}
	return enc, nil
}

// decoderConverter converts local-encoded bytes to UTF-8 (the "forward"
// direction, local→UTF-8).
type decoderConverter struct {
	dec *encoding.Decoder
}

func (c decoderConverter) Convert(in []byte) ([]byte, error) {
	out, err := c.dec.Bytes(in)
	if err != nil {
		return nil, errors.Wrap(ErrNotRepresentable, err.Error())
	}
	return out, nil
}

// encoderConverter converts UTF-8 bytes to the local encoding (the
// "reverse" direction, UTF-8→local).
type encoderConverter struct {
	enc *encoding.Encoder
}

func (c encoderConverter) Convert(in []byte) ([]byte, error) {
	out, err := c.enc.Bytes(in)
	if err != nil {
		return nil, errors.Wrap(ErrNotRepresentable, err.Error())
	}
	return out, nil
}
