// Copyright 2026 The Structwire Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"

	"github.com/structwire/structwire/wire"
)

// UnkeyedEncoder writes an unkeyed container: a back-patched uint32
// element count followed by one presence byte and value per element.
// Unlike keyed fields, elements carry no length prefix, so nested
// containers used as elements still get their own presence byte — the
// decoder walks elements strictly in order and needs the flag inline.
type UnkeyedEncoder struct {
	encoder       *Encoder
	countPosition int
	count         uint32

	childOpen bool
	closed    bool
	onClose   func()
}

func newUnkeyedEncoder(e *Encoder, onClose func()) *UnkeyedEncoder {
	e.openFrames++
	return &UnkeyedEncoder{
		encoder:       e,
		countPosition: e.writer.ReservePlaceholder(),
		onClose:       onClose,
	}
}

func (u *UnkeyedEncoder) guard() error {
	if u.closed {
		return fmt.Errorf("unkeyed container already ended: %w", ErrMalformedContainer)
	}
	if u.childOpen {
		return fmt.Errorf("unkeyed container has an unfinished nested container: %w", ErrMalformedContainer)
	}
	return nil
}

func (u *UnkeyedEncoder) beginElement(presence byte) error {
	if err := u.guard(); err != nil {
		return err
	}
	u.encoder.writer.AppendByte(presence)
	u.count++
	return nil
}

// WriteAbsentElement appends an absent element: presence byte zero and
// no value bytes.
func (u *UnkeyedEncoder) WriteAbsentElement() error {
	return u.beginElement(0)
}

// WriteBool appends a present boolean element.
func (u *UnkeyedEncoder) WriteBool(value bool) error {
	if err := u.beginElement(1); err != nil {
		return err
	}
	u.encoder.appendBool(value)
	return nil
}

// WriteInt appends a present signed integer element.
func (u *UnkeyedEncoder) WriteInt(value int64) error {
	if err := u.beginElement(1); err != nil {
		return err
	}
	u.encoder.appendInt(value)
	return nil
}

// WriteUint appends a present unsigned 64-bit integer element.
func (u *UnkeyedEncoder) WriteUint(value uint64) error {
	if err := u.beginElement(1); err != nil {
		return err
	}
	if err := u.encoder.appendUint(value); err != nil {
		return fmt.Errorf("element %d: %w", u.count-1, err)
	}
	return nil
}

// WriteFloat appends a present 32-bit float element.
func (u *UnkeyedEncoder) WriteFloat(value float32) error {
	if err := u.beginElement(1); err != nil {
		return err
	}
	u.encoder.appendFloat(value)
	return nil
}

// WriteDouble appends a present 64-bit float element.
func (u *UnkeyedEncoder) WriteDouble(value float64) error {
	if err := u.beginElement(1); err != nil {
		return err
	}
	u.encoder.appendDouble(value)
	return nil
}

// WriteString appends a present string element.
func (u *UnkeyedEncoder) WriteString(value string) error {
	if err := u.beginElement(1); err != nil {
		return err
	}
	if err := u.encoder.appendString(value); err != nil {
		return fmt.Errorf("element %d: %w", u.count-1, err)
	}
	return nil
}

// WriteBytes appends a present byte-blob element.
func (u *UnkeyedEncoder) WriteBytes(value []byte) error {
	if err := u.beginElement(1); err != nil {
		return err
	}
	if err := u.encoder.appendBytes(value); err != nil {
		return fmt.Errorf("element %d: %w", u.count-1, err)
	}
	return nil
}

// WriteUniqueID appends a present 16-byte unique-identifier element.
func (u *UnkeyedEncoder) WriteUniqueID(id [16]byte) error {
	if err := u.beginElement(1); err != nil {
		return err
	}
	u.encoder.appendUniqueID(id)
	return nil
}

// BeginKeyedElement appends a present element whose value is a nested
// keyed container. The parent is locked until the child's End.
func (u *UnkeyedEncoder) BeginKeyedElement() (*KeyedEncoder, error) {
	if err := u.beginElement(1); err != nil {
		return nil, err
	}
	u.childOpen = true
	return newKeyedEncoder(u.encoder, func() { u.childOpen = false }), nil
}

// BeginUnkeyedElement appends a present element whose value is a
// nested unkeyed container.
func (u *UnkeyedEncoder) BeginUnkeyedElement() (*UnkeyedEncoder, error) {
	if err := u.beginElement(1); err != nil {
		return nil, err
	}
	u.childOpen = true
	return newUnkeyedEncoder(u.encoder, func() { u.childOpen = false }), nil
}

// End patches the element count and closes the container.
func (u *UnkeyedEncoder) End() error {
	if err := u.guard(); err != nil {
		return err
	}
	u.encoder.writer.PatchPlaceholder(u.countPosition, u.count)
	u.closed = true
	u.encoder.openFrames--
	if u.onClose != nil {
		u.onClose()
	}
	return nil
}

// UnkeyedDecoder reads an unkeyed container. The element count is read
// up front; Next serves elements strictly in order from the shared
// cursor. Asking for an element past the declared count is corruption
// in the driving traversal, not an end-of-sequence condition — callers
// stop on AtEnd.
type UnkeyedDecoder struct {
	decoder *Decoder
	reader  *wire.Reader
	count   uint32
	index   uint32
}

func newUnkeyedDecoder(d *Decoder, reader *wire.Reader) (*UnkeyedDecoder, error) {
	count, err := reader.ReadFixed32()
	if err != nil {
		return nil, fmt.Errorf("reading element count: %w", err)
	}
	// Every element carries at least its presence byte, so a count
	// larger than the remaining bytes cannot be honest. Rejecting it
	// here keeps the count safe to use for pre-allocation upstream.
	if uint64(count) > uint64(reader.Remaining()) {
		return nil, fmt.Errorf("declared count %d exceeds the %d remaining bytes: %w", count, reader.Remaining(), ErrMalformedContainer)
	}
	return &UnkeyedDecoder{decoder: d, reader: reader, count: count}, nil
}

// Len returns the declared element count.
func (u *UnkeyedDecoder) Len() int {
	return int(u.count)
}

// AtEnd reports whether all declared elements have been read.
func (u *UnkeyedDecoder) AtEnd() bool {
	return u.index >= u.count
}

// Next reads the next element's presence byte and returns a decoder
// for its value. Fails with ErrMalformedContainer when called past the
// declared count.
func (u *UnkeyedDecoder) Next() (*ValueDecoder, error) {
	if u.index >= u.count {
		return nil, fmt.Errorf("reading element %d of a %d-element container: %w", u.index, u.count, ErrMalformedContainer)
	}
	presence, err := u.reader.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("reading presence flag of element %d: %w", u.index, err)
	}
	u.index++
	return &ValueDecoder{decoder: u.decoder, reader: u.reader, present: presence != 0}, nil
}
