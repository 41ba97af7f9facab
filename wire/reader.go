// Copyright 2026 The Structwire Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// Reader is a bounds-checked cursor over an immutable byte slice.
// Every read validates that the requested bytes exist before touching
// them; a read that would run past the end of the slice fails with an
// error wrapping ErrUnexpectedEndOfData and never advances the cursor
// past the end.
//
// A Reader is created per decode call and is not safe for concurrent
// use. It borrows the slice it is given: returned sub-slices alias the
// caller's data and remain valid only as long as that data does.
type Reader struct {
	data   []byte
	offset int
}

// NewReader returns a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Len returns the total length of the underlying data.
func (r *Reader) Len() int {
	return len(r.data)
}

// Offset returns the current cursor position.
func (r *Reader) Offset() int {
	return r.offset
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.offset
}

// AtEnd reports whether the cursor has consumed the entire buffer.
func (r *Reader) AtEnd() bool {
	return r.offset >= len(r.data)
}

func (r *Reader) require(length int) error {
	if remaining := len(r.data) - r.offset; remaining < length {
		return fmt.Errorf("need %d bytes at offset %d, have %d: %w", length, r.offset, remaining, ErrUnexpectedEndOfData)
	}
	return nil
}

// ReadByte returns the next byte and advances the cursor.
func (r *Reader) ReadByte() (byte, error) {
	if err := r.require(1); err != nil {
		return 0, err
	}
	value := r.data[r.offset]
	r.offset++
	return value, nil
}

// ReadFixed32 reads a 4-byte little-endian value.
func (r *Reader) ReadFixed32() (uint32, error) {
	if err := r.require(4); err != nil {
		return 0, err
	}
	bits := binary.LittleEndian.Uint32(r.data[r.offset:])
	r.offset += 4
	return bits, nil
}

// ReadFixed64 reads an 8-byte little-endian value.
func (r *Reader) ReadFixed64() (uint64, error) {
	if err := r.require(8); err != nil {
		return 0, err
	}
	bits := binary.LittleEndian.Uint64(r.data[r.offset:])
	r.offset += 8
	return bits, nil
}

// ReadRaw returns the next length bytes as a sub-slice of the
// underlying data and advances the cursor.
func (r *Reader) ReadRaw(length int) ([]byte, error) {
	if err := r.require(length); err != nil {
		return nil, err
	}
	value := r.data[r.offset : r.offset+length]
	r.offset += length
	return value, nil
}

// ReadLengthPrefixed reads a uint32 length followed by that many raw
// bytes, validating the declared length against the remaining data
// before slicing. The comparison happens in uint64 space: on 32-bit
// platforms a length above MaxInt32 must not wrap negative and slip
// past the bounds check.
func (r *Reader) ReadLengthPrefixed() ([]byte, error) {
	length, err := r.ReadFixed32()
	if err != nil {
		return nil, err
	}
	if uint64(length) > uint64(r.Remaining()) {
		return nil, fmt.Errorf("need %d bytes at offset %d, have %d: %w", length, r.offset, r.Remaining(), ErrUnexpectedEndOfData)
	}
	return r.ReadRaw(int(length))
}

// ReadString reads a length-prefixed string and validates that its
// bytes are well-formed UTF-8.
func (r *Reader) ReadString() (string, error) {
	raw, err := r.ReadLengthPrefixed()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("string at offset %d: %w", r.offset-len(raw), ErrInvalidUTF8)
	}
	return string(raw), nil
}

// Peek returns the next length bytes without advancing the cursor.
func (r *Reader) Peek(length int) ([]byte, error) {
	if err := r.require(length); err != nil {
		return nil, err
	}
	return r.data[r.offset : r.offset+length], nil
}
