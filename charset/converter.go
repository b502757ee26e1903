// Package charset defines the filename-encoding conversion boundary
// spec.md §6 lists as an external collaborator: "takes a byte string in
// one encoding and produces a byte string in the other; fails when the
// input is not representable." The protocol engine calls a Converter
// per worker (spec.md §3, "Worker context") and never inspects
// filenames itself.
package charset

import "github.com/pkg/errors"

// ErrNotRepresentable is returned when the input byte string has no
// representation in the target encoding.
var ErrNotRepresentable = errors.New("charset: input not representable in target encoding")

// Converter converts a byte string from one encoding to another. A
// Converter is used by exactly one worker at a time (spec.md "Workers
// are stateless across jobs except for the buffer") but is not itself
// required to be safe for concurrent use across workers.
type Converter interface {
	Convert(in []byte) ([]byte, error)
}

// ConverterFunc adapts a function to the Converter interface.
type ConverterFunc func([]byte) ([]byte, error)

// Convert implements Converter.
func (f ConverterFunc) Convert(in []byte) ([]byte, error) { return f(in) }

// Identity is a Converter that never fails and returns its input
// unchanged. It models a local encoding of UTF-8, where no conversion
// is needed.
var Identity Converter = ConverterFunc(func(in []byte) ([]byte, error) { return in, nil })

// Factory constructs the pair of converters ("forward" local→UTF-8 and
// "reverse" UTF-8→local) a worker needs, for a named local encoding.
// spec.md §3: "Server state ... a local-encoding name string."
type Factory interface {
	// NewPair returns (forward, reverse) converters for localEncoding.
	NewPair(localEncoding string) (forward, reverse Converter, err error)
}
