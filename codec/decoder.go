// Copyright 2026 The Structwire Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/structwire/structwire/schema"
	"github.com/structwire/structwire/wire"
)

// Decoder reads one structwire buffer. DecodeHeader must run first: it
// parses the version byte, the magic marker and the encoded type name,
// and refuses the buffer unless the encoded type is compatible with
// the one the caller requests. The host traversal then drives Keyed,
// Unkeyed or SingleValue, and finally VerifyConsumed.
//
// A Decoder is used for a single buffer and is not safe for concurrent
// use. Byte slices returned during decoding alias the input buffer.
type Decoder struct {
	reader  *wire.Reader
	format  Format
	encoded schema.Descriptor
}

// NewDecoder returns a Decoder over data. The slice is borrowed, not
// copied.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{reader: wire.NewReader(data)}
}

// DecodeHeader parses the buffer header and checks that the encoded
// type is compatible with requested.
//
// Version state machine:
//   - version 0, or any version newer than this package: fail with
//     UnsupportedVersionError.
//   - version 1: the magic marker is optional. The next four bytes are
//     probed; they are consumed only if they equal the marker,
//     otherwise they are left in place to be read as the type-name
//     length. This is the single speculative read in the format and
//     exists for streams written before the marker was introduced.
//   - version 2: the magic marker is mandatory; a mismatch fails with
//     ErrBadMagicHeader.
//
// On a type mismatch no payload byte is ever interpreted.
func (d *Decoder) DecodeHeader(requested schema.Descriptor) error {
	version, err := d.reader.ReadByte()
	if err != nil {
		return fmt.Errorf("reading format version: %w", err)
	}

	switch Format(version) {
	case FormatVersion1:
		if probe, err := d.reader.Peek(4); err == nil && binary.LittleEndian.Uint32(probe) == MagicNumber {
			if _, err := d.reader.ReadRaw(4); err != nil {
				return fmt.Errorf("consuming magic marker: %w", err)
			}
		}
	case FormatVersion2:
		marker, err := d.reader.ReadFixed32()
		if err != nil {
			return fmt.Errorf("reading magic marker: %w", err)
		}
		if marker != MagicNumber {
			return fmt.Errorf("got 0x%08X, want 0x%08X: %w", marker, MagicNumber, ErrBadMagicHeader)
		}
	default:
		return &UnsupportedVersionError{Version: version}
	}
	d.format = Format(version)

	name, err := d.reader.ReadString()
	if err != nil {
		return fmt.Errorf("reading type name: %w", err)
	}
	d.encoded = schema.Parse(name)
	if !schema.Compatible(d.encoded, requested) {
		return &TypeMismatchError{Expected: requested, Found: d.encoded}
	}
	return nil
}

// Format returns the format generation parsed from the header.
func (d *Decoder) Format() Format {
	return d.format
}

// EncodedDescriptor returns the canonicalized descriptor of the type
// the buffer was encoded from, as parsed by DecodeHeader.
func (d *Decoder) EncodedDescriptor() schema.Descriptor {
	return d.encoded
}

// AtEnd reports whether the cursor sits at the end of the buffer. At
// the top level this is how an absent optional is represented: a
// header with an empty payload.
func (d *Decoder) AtEnd() bool {
	return d.reader.AtEnd()
}

// VerifyConsumed fails with a TrailingBytesError unless the cursor
// sits exactly at the end of the buffer. A decoded value must account
// for every byte that described it; leftovers mean the buffer was not
// a valid encoding of the requested type.
func (d *Decoder) VerifyConsumed() error {
	if !d.reader.AtEnd() {
		return &TrailingBytesError{Consumed: d.reader.Offset(), Total: d.reader.Len()}
	}
	return nil
}

// Keyed opens the top-level keyed container, scanning its entry table.
func (d *Decoder) Keyed() (*KeyedDecoder, error) {
	return newKeyedDecoder(d, d.reader)
}

// Unkeyed opens the top-level unkeyed container.
func (d *Decoder) Unkeyed() (*UnkeyedDecoder, error) {
	return newUnkeyedDecoder(d, d.reader)
}

// SingleValue returns a decoder for a bare top-level leaf. Bare leaves
// carry no presence byte; the value is implicitly present.
func (d *Decoder) SingleValue() *ValueDecoder {
	return &ValueDecoder{decoder: d, reader: d.reader, present: true}
}
