// Copyright 2026 The Structwire Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"
	"math"

	"github.com/structwire/structwire/wire"
)

// ValueDecoder reads one value: a keyed field (from its entry-bounded
// view of the buffer), an unkeyed element or a bare top-level leaf
// (from the shared cursor). Present reports the presence flag; every
// read fails on an absent value, so callers decoding an optional check
// Present first.
//
// Integer reads are range-checked: the wire carries narrow integers in
// a signed 64-bit lane, and a stored value that does not fit the
// requested width fails with a NumericOverflowError rather than
// truncating.
type ValueDecoder struct {
	decoder *Decoder
	reader  *wire.Reader
	present bool
}

// Present reports the value's presence flag. Keyed fields and unkeyed
// elements can be absent; bare top-level leaves are always present.
func (v *ValueDecoder) Present() bool {
	return v.present
}

func (v *ValueDecoder) require() error {
	if !v.present {
		return fmt.Errorf("reading an absent value: %w", ErrMalformedContainer)
	}
	return nil
}

// Bool reads a boolean.
func (v *ValueDecoder) Bool() (bool, error) {
	if err := v.require(); err != nil {
		return false, err
	}
	value, err := v.reader.ReadByte()
	if err != nil {
		return false, err
	}
	return value != 0, nil
}

// Int64 reads a signed 64-bit integer.
func (v *ValueDecoder) Int64() (int64, error) {
	if err := v.require(); err != nil {
		return 0, err
	}
	bits, err := v.reader.ReadFixed64()
	if err != nil {
		return 0, err
	}
	return int64(bits), nil
}

// Int8 reads the signed 64-bit wire value and narrows it to 8 bits.
func (v *ValueDecoder) Int8() (int8, error) {
	value, err := v.Int64()
	if err != nil {
		return 0, err
	}
	if value < math.MinInt8 || value > math.MaxInt8 {
		return 0, signedOverflow("Int8", value)
	}
	return int8(value), nil
}

// Int16 reads the signed 64-bit wire value and narrows it to 16 bits.
func (v *ValueDecoder) Int16() (int16, error) {
	value, err := v.Int64()
	if err != nil {
		return 0, err
	}
	if value < math.MinInt16 || value > math.MaxInt16 {
		return 0, signedOverflow("Int16", value)
	}
	return int16(value), nil
}

// Int32 reads the signed 64-bit wire value and narrows it to 32 bits.
func (v *ValueDecoder) Int32() (int32, error) {
	value, err := v.Int64()
	if err != nil {
		return 0, err
	}
	if value < math.MinInt32 || value > math.MaxInt32 {
		return 0, signedOverflow("Int32", value)
	}
	return int32(value), nil
}

// Uint8 reads the signed 64-bit wire value and narrows it to an
// unsigned 8-bit integer.
func (v *ValueDecoder) Uint8() (uint8, error) {
	value, err := v.Int64()
	if err != nil {
		return 0, err
	}
	if value < 0 || value > math.MaxUint8 {
		return 0, signedOverflow("UInt8", value)
	}
	return uint8(value), nil
}

// Uint16 reads the signed 64-bit wire value and narrows it to an
// unsigned 16-bit integer.
func (v *ValueDecoder) Uint16() (uint16, error) {
	value, err := v.Int64()
	if err != nil {
		return 0, err
	}
	if value < 0 || value > math.MaxUint16 {
		return 0, signedOverflow("UInt16", value)
	}
	return uint16(value), nil
}

// Uint32 reads the signed 64-bit wire value and narrows it to an
// unsigned 32-bit integer.
func (v *ValueDecoder) Uint32() (uint32, error) {
	value, err := v.Int64()
	if err != nil {
		return 0, err
	}
	if value < 0 || value > math.MaxUint32 {
		return 0, signedOverflow("UInt32", value)
	}
	return uint32(value), nil
}

// Uint64 reads an unsigned 64-bit integer. Format 1 carries these in
// the signed lane; a format-1 buffer claiming a value above the signed
// maximum is a hard decode error, never a silent truncation.
func (v *ValueDecoder) Uint64() (uint64, error) {
	if err := v.require(); err != nil {
		return 0, err
	}
	bits, err := v.reader.ReadFixed64()
	if err != nil {
		return 0, err
	}
	if v.decoder.format == FormatVersion1 && int64(bits) < 0 {
		return 0, signedOverflow("UInt64", int64(bits))
	}
	return bits, nil
}

// Float reads a 32-bit float. Format 1 stored floats widened to
// doubles; the stored double converts back to the float it was widened
// from.
func (v *ValueDecoder) Float() (float32, error) {
	if err := v.require(); err != nil {
		return 0, err
	}
	if v.decoder.format == FormatVersion1 {
		bits, err := v.reader.ReadFixed64()
		if err != nil {
			return 0, err
		}
		return float32(math.Float64frombits(bits)), nil
	}
	bits, err := v.reader.ReadFixed32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

// Double reads a 64-bit float.
func (v *ValueDecoder) Double() (float64, error) {
	if err := v.require(); err != nil {
		return 0, err
	}
	bits, err := v.reader.ReadFixed64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

// String reads a length-prefixed UTF-8 string.
func (v *ValueDecoder) String() (string, error) {
	if err := v.require(); err != nil {
		return "", err
	}
	return v.reader.ReadString()
}

// Bytes reads a length-prefixed byte blob. The returned slice aliases
// the input buffer.
func (v *ValueDecoder) Bytes() ([]byte, error) {
	if err := v.require(); err != nil {
		return nil, err
	}
	return v.reader.ReadLengthPrefixed()
}

// UniqueID reads a 16-byte unique identifier (raw, no length prefix).
func (v *ValueDecoder) UniqueID() ([16]byte, error) {
	var id [16]byte
	if err := v.require(); err != nil {
		return id, err
	}
	raw, err := v.reader.ReadRaw(16)
	if err != nil {
		return id, err
	}
	copy(id[:], raw)
	return id, nil
}

// Keyed opens the value as a nested keyed container.
func (v *ValueDecoder) Keyed() (*KeyedDecoder, error) {
	if err := v.require(); err != nil {
		return nil, err
	}
	return newKeyedDecoder(v.decoder, v.reader)
}

// Unkeyed opens the value as a nested unkeyed container.
func (v *ValueDecoder) Unkeyed() (*UnkeyedDecoder, error) {
	if err := v.require(); err != nil {
		return nil, err
	}
	return newUnkeyedDecoder(v.decoder, v.reader)
}
