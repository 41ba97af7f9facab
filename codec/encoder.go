// Copyright 2026 The Structwire Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"
	"math"

	"github.com/structwire/structwire/schema"
	"github.com/structwire/structwire/wire"
)

// Encoder writes one structwire buffer. The host traversal opens the
// document header, then drives exactly one top-level container (keyed,
// unkeyed, or single-value) and finishes:
//
// An Encoder is used for a single buffer and is not safe for
// concurrent use.
type Encoder struct {
	writer *wire.Writer
	format Format

	// openFrames counts container frames that have been begun but not
	// ended. Finish refuses to release a buffer while any frame is
	// open, so an un-patched length or count placeholder can never
	// escape into caller-visible bytes.
	openFrames int
}

// NewEncoder returns an Encoder producing the given format generation.
// Pass CurrentFormat unless writing buffers for a legacy decoder.
func NewEncoder(format Format) (*Encoder, error) {
	if !format.valid() {
		return nil, fmt.Errorf("cannot encode %s", format)
	}
	return &Encoder{writer: wire.NewWriter(), format: format}, nil
}

// Format returns the format generation this Encoder writes.
func (e *Encoder) Format() Format {
	return e.format
}

// BeginDocument writes the buffer header: the format version byte, the
// magic marker, and the canonical wire name of descriptor. The payload
// follows via Keyed, Unkeyed or SingleValue.
//
// Format-1 headers also carry the magic marker (the transitional
// version-1 shape); version-1 decoders that predate the marker skip it
// by probe.
func (e *Encoder) BeginDocument(descriptor schema.Descriptor) error {
	e.writer.AppendByte(byte(e.format))
	e.writer.AppendFixed32(MagicNumber)
	if err := e.writer.AppendString(descriptor.WireName()); err != nil {
		return fmt.Errorf("writing type name: %w", err)
	}
	return nil
}

// Keyed opens the top-level keyed container. Top-level containers
// carry no presence byte; absence is representable only as an empty
// payload.
func (e *Encoder) Keyed() *KeyedEncoder {
	return newKeyedEncoder(e, nil)
}

// Unkeyed opens the top-level unkeyed container.
func (e *Encoder) Unkeyed() *UnkeyedEncoder {
	return newUnkeyedEncoder(e, nil)
}

// SingleValue returns a writer for a bare top-level leaf.
func (e *Encoder) SingleValue() *SingleValueEncoder {
	return &SingleValueEncoder{encoder: e}
}

// Finish returns the completed buffer. It fails if any container frame
// is still open, because an open frame means a length or count
// placeholder has not been patched yet.
func (e *Encoder) Finish() ([]byte, error) {
	if e.openFrames != 0 {
		return nil, fmt.Errorf("%d container frame(s) still open: %w", e.openFrames, ErrMalformedContainer)
	}
	return e.writer.Bytes(), nil
}

// Leaf encodings shared by the three container modes. Integers
// narrower than 64 bits ride the signed 64-bit lane; the
// format-dependent lanes (unsigned 64-bit, 32-bit float) live here so
// the container types stay format-agnostic.

func (e *Encoder) appendBool(value bool) {
	if value {
		e.writer.AppendByte(1)
	} else {
		e.writer.AppendByte(0)
	}
}

func (e *Encoder) appendInt(value int64) {
	e.writer.AppendFixed64(uint64(value))
}

func (e *Encoder) appendUint(value uint64) error {
	if e.format == FormatVersion1 && value > math.MaxInt64 {
		// Format 1 reinterprets unsigned 64-bit values as signed on
		// the wire; values above the signed maximum have no format-1
		// representation.
		return unsignedOverflow("Int64", value)
	}
	e.writer.AppendFixed64(value)
	return nil
}

func (e *Encoder) appendFloat(value float32) {
	if e.format == FormatVersion1 {
		// Format 1 has no 4-byte lane; floats widen to doubles.
		e.writer.AppendFixed64(math.Float64bits(float64(value)))
		return
	}
	e.writer.AppendFixed32(math.Float32bits(value))
}

func (e *Encoder) appendDouble(value float64) {
	e.writer.AppendFixed64(math.Float64bits(value))
}

func (e *Encoder) appendString(value string) error {
	return e.writer.AppendString(value)
}

func (e *Encoder) appendBytes(value []byte) error {
	return e.writer.AppendLengthPrefixed(value)
}

func (e *Encoder) appendUniqueID(id [16]byte) {
	e.writer.AppendRaw(id[:])
}

// SingleValueEncoder writes one bare leaf with no presence byte. It is
// the top-level mode for scalars: a lone string or integer serialized
// on its own.
type SingleValueEncoder struct {
	encoder *Encoder
}

// WriteBool writes a bare boolean.
func (s *SingleValueEncoder) WriteBool(value bool) error {
	s.encoder.appendBool(value)
	return nil
}

// WriteInt writes a bare signed integer. Narrower integer types are
// widened to 64 bits by the caller; the wire carries them identically.
func (s *SingleValueEncoder) WriteInt(value int64) error {
	s.encoder.appendInt(value)
	return nil
}

// WriteUint writes a bare unsigned 64-bit integer.
func (s *SingleValueEncoder) WriteUint(value uint64) error {
	return s.encoder.appendUint(value)
}

// WriteFloat writes a bare 32-bit float.
func (s *SingleValueEncoder) WriteFloat(value float32) error {
	s.encoder.appendFloat(value)
	return nil
}

// WriteDouble writes a bare 64-bit float.
func (s *SingleValueEncoder) WriteDouble(value float64) error {
	s.encoder.appendDouble(value)
	return nil
}

// WriteString writes a bare length-prefixed string.
func (s *SingleValueEncoder) WriteString(value string) error {
	return s.encoder.appendString(value)
}

// WriteBytes writes a bare length-prefixed byte blob.
func (s *SingleValueEncoder) WriteBytes(value []byte) error {
	return s.encoder.appendBytes(value)
}

// WriteUniqueID writes a bare 16-byte unique identifier, raw with no
// length prefix.
func (s *SingleValueEncoder) WriteUniqueID(id [16]byte) error {
	s.encoder.appendUniqueID(id)
	return nil
}
