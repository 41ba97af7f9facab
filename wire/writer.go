// Copyright 2026 The Structwire Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Writer is a growable append-only byte buffer. It supports reserving
// a uint32 placeholder and patching it once the true value is known,
// which is how the codec layer writes container lengths and element
// counts in a single forward pass.
//
// A Writer is created per encode call and is not safe for concurrent
// use.
type Writer struct {
	buffer []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buffer)
}

// Bytes returns the accumulated buffer. The slice aliases the Writer's
// internal storage; callers must not write to the Writer afterwards.
func (w *Writer) Bytes() []byte {
	return w.buffer
}

// AppendByte appends a single byte.
func (w *Writer) AppendByte(value byte) {
	w.buffer = append(w.buffer, value)
}

// AppendFixed32 appends a 4-byte little-endian value.
func (w *Writer) AppendFixed32(bits uint32) {
	w.buffer = binary.LittleEndian.AppendUint32(w.buffer, bits)
}

// AppendFixed64 appends an 8-byte little-endian value.
func (w *Writer) AppendFixed64(bits uint64) {
	w.buffer = binary.LittleEndian.AppendUint64(w.buffer, bits)
}

// AppendRaw appends data verbatim, with no length prefix.
func (w *Writer) AppendRaw(data []byte) {
	w.buffer = append(w.buffer, data...)
}

// AppendLengthPrefixed appends a uint32 length followed by the raw
// bytes of data. Returns an error if data is too large for a uint32
// length prefix.
func (w *Writer) AppendLengthPrefixed(data []byte) error {
	if uint64(len(data)) > math.MaxUint32 {
		return fmt.Errorf("value of %d bytes exceeds the uint32 length prefix", len(data))
	}
	w.AppendFixed32(uint32(len(data)))
	w.buffer = append(w.buffer, data...)
	return nil
}

// AppendString appends a uint32 length followed by the UTF-8 bytes of
// value.
func (w *Writer) AppendString(value string) error {
	if uint64(len(value)) > math.MaxUint32 {
		return fmt.Errorf("string of %d bytes exceeds the uint32 length prefix", len(value))
	}
	w.AppendFixed32(uint32(len(value)))
	w.buffer = append(w.buffer, value...)
	return nil
}

// ReservePlaceholder appends four zero bytes and returns their
// position, to be filled in later with PatchPlaceholder.
func (w *Writer) ReservePlaceholder() int {
	position := len(w.buffer)
	w.buffer = append(w.buffer, 0, 0, 0, 0)
	return position
}

// PatchPlaceholder overwrites the four bytes at position with the
// little-endian encoding of value. The position must have been
// returned by a prior ReservePlaceholder call; anything else is a
// programming error in the caller and panics.
func (w *Writer) PatchPlaceholder(position int, value uint32) {
	if position < 0 || position+4 > len(w.buffer) {
		panic(fmt.Sprintf("wire: placeholder position %d out of range for %d-byte buffer", position, len(w.buffer)))
	}
	binary.LittleEndian.PutUint32(w.buffer[position:position+4], value)
}
