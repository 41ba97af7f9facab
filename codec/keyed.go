// Copyright 2026 The Structwire Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"

	"github.com/structwire/structwire/wire"
)

// KeyedEncoder writes a keyed container: a uint32 field count followed
// by one record per field — the UTF-8 key, a back-patched uint32 value
// length, a presence byte and the value bytes.
//
// Nested containers opened with BeginKeyedField or BeginUnkeyedField
// must be ended before the parent is touched again; the pending length
// patch of the enclosing field belongs exclusively to the open child
// frame. The field count placeholder is patched in End.
type KeyedEncoder struct {
	encoder       *Encoder
	countPosition int
	fieldCount    uint32

	// childOpen is set while a nested container writes into this
	// container's pending field; operations on the parent fail until
	// the child's End resolves the field's length patch.
	childOpen bool
	closed    bool

	// onClose patches the enclosing field or element bookkeeping when
	// this container is itself nested. Nil for top-level containers.
	onClose func()
}

func newKeyedEncoder(e *Encoder, onClose func()) *KeyedEncoder {
	e.openFrames++
	return &KeyedEncoder{
		encoder:       e,
		countPosition: e.writer.ReservePlaceholder(),
		onClose:       onClose,
	}
}

func (k *KeyedEncoder) guard() error {
	if k.closed {
		return fmt.Errorf("keyed container already ended: %w", ErrMalformedContainer)
	}
	if k.childOpen {
		return fmt.Errorf("keyed container has an unfinished nested container: %w", ErrMalformedContainer)
	}
	return nil
}

// beginField writes the key and reserves the field's value-length
// placeholder. endField patches it with the bytes written since —
// presence byte included — and bumps the field count.
func (k *KeyedEncoder) beginField(name string) (lengthPosition int, err error) {
	if err := k.guard(); err != nil {
		return 0, err
	}
	if err := k.encoder.writer.AppendString(name); err != nil {
		return 0, fmt.Errorf("writing key %q: %w", name, err)
	}
	return k.encoder.writer.ReservePlaceholder(), nil
}

func (k *KeyedEncoder) endField(lengthPosition int) {
	writer := k.encoder.writer
	writer.PatchPlaceholder(lengthPosition, uint32(writer.Len()-(lengthPosition+4)))
	k.fieldCount++
}

// WriteAbsent writes a field whose value is absent: presence byte zero
// and no value bytes.
func (k *KeyedEncoder) WriteAbsent(name string) error {
	lengthPosition, err := k.beginField(name)
	if err != nil {
		return err
	}
	k.encoder.writer.AppendByte(0)
	k.endField(lengthPosition)
	return nil
}

// WriteBool writes a present boolean field.
func (k *KeyedEncoder) WriteBool(name string, value bool) error {
	lengthPosition, err := k.beginField(name)
	if err != nil {
		return err
	}
	k.encoder.writer.AppendByte(1)
	k.encoder.appendBool(value)
	k.endField(lengthPosition)
	return nil
}

// WriteInt writes a present signed integer field. Integers narrower
// than 64 bits are widened by the caller and range-checked again on
// decode.
func (k *KeyedEncoder) WriteInt(name string, value int64) error {
	lengthPosition, err := k.beginField(name)
	if err != nil {
		return err
	}
	k.encoder.writer.AppendByte(1)
	k.encoder.appendInt(value)
	k.endField(lengthPosition)
	return nil
}

// WriteUint writes a present unsigned 64-bit integer field.
func (k *KeyedEncoder) WriteUint(name string, value uint64) error {
	lengthPosition, err := k.beginField(name)
	if err != nil {
		return err
	}
	k.encoder.writer.AppendByte(1)
	if err := k.encoder.appendUint(value); err != nil {
		return fmt.Errorf("field %q: %w", name, err)
	}
	k.endField(lengthPosition)
	return nil
}

// WriteFloat writes a present 32-bit float field.
func (k *KeyedEncoder) WriteFloat(name string, value float32) error {
	lengthPosition, err := k.beginField(name)
	if err != nil {
		return err
	}
	k.encoder.writer.AppendByte(1)
	k.encoder.appendFloat(value)
	k.endField(lengthPosition)
	return nil
}

// WriteDouble writes a present 64-bit float field.
func (k *KeyedEncoder) WriteDouble(name string, value float64) error {
	lengthPosition, err := k.beginField(name)
	if err != nil {
		return err
	}
	k.encoder.writer.AppendByte(1)
	k.encoder.appendDouble(value)
	k.endField(lengthPosition)
	return nil
}

// WriteString writes a present string field.
func (k *KeyedEncoder) WriteString(name, value string) error {
	lengthPosition, err := k.beginField(name)
	if err != nil {
		return err
	}
	k.encoder.writer.AppendByte(1)
	if err := k.encoder.appendString(value); err != nil {
		return fmt.Errorf("field %q: %w", name, err)
	}
	k.endField(lengthPosition)
	return nil
}

// WriteBytes writes a present byte-blob field.
func (k *KeyedEncoder) WriteBytes(name string, value []byte) error {
	lengthPosition, err := k.beginField(name)
	if err != nil {
		return err
	}
	k.encoder.writer.AppendByte(1)
	if err := k.encoder.appendBytes(value); err != nil {
		return fmt.Errorf("field %q: %w", name, err)
	}
	k.endField(lengthPosition)
	return nil
}

// WriteUniqueID writes a present 16-byte unique-identifier field.
func (k *KeyedEncoder) WriteUniqueID(name string, id [16]byte) error {
	lengthPosition, err := k.beginField(name)
	if err != nil {
		return err
	}
	k.encoder.writer.AppendByte(1)
	k.encoder.appendUniqueID(id)
	k.endField(lengthPosition)
	return nil
}

// BeginKeyedField opens a nested keyed container as the value of the
// named field. The nested value carries no presence byte of its own
// beyond the field's; the field's length placeholder stays pending
// until the returned container's End.
func (k *KeyedEncoder) BeginKeyedField(name string) (*KeyedEncoder, error) {
	lengthPosition, err := k.beginField(name)
	if err != nil {
		return nil, err
	}
	k.encoder.writer.AppendByte(1)
	k.childOpen = true
	return newKeyedEncoder(k.encoder, func() {
		k.childOpen = false
		k.endField(lengthPosition)
	}), nil
}

// BeginUnkeyedField opens a nested unkeyed container as the value of
// the named field.
func (k *KeyedEncoder) BeginUnkeyedField(name string) (*UnkeyedEncoder, error) {
	lengthPosition, err := k.beginField(name)
	if err != nil {
		return nil, err
	}
	k.encoder.writer.AppendByte(1)
	k.childOpen = true
	return newUnkeyedEncoder(k.encoder, func() {
		k.childOpen = false
		k.endField(lengthPosition)
	}), nil
}

// End patches the field count and closes the container. When the
// container is nested, End also resolves the enclosing field's pending
// length patch.
func (k *KeyedEncoder) End() error {
	if err := k.guard(); err != nil {
		return err
	}
	k.encoder.writer.PatchPlaceholder(k.countPosition, k.fieldCount)
	k.closed = true
	k.encoder.openFrames--
	if k.onClose != nil {
		k.onClose()
	}
	return nil
}

// keyedEntry is one decoded field of a keyed container: the key and
// the value bytes (presence byte included), captured when the
// container is scanned.
type keyedEntry struct {
	key   string
	value []byte
}

// KeyedDecoder reads a keyed container. The constructor scans the
// container once in stream order, recording each key with its value
// bytes; field lookups are then served in any order from that entry
// table. Keys the caller never asks for are silently ignored, which is
// what lets old code read buffers written with extra fields.
type KeyedDecoder struct {
	decoder *Decoder
	entries []keyedEntry
}

// newKeyedDecoder builds the entry table in one linear pass, advancing
// reader past the entire container.
func newKeyedDecoder(d *Decoder, reader *wire.Reader) (*KeyedDecoder, error) {
	count, err := reader.ReadFixed32()
	if err != nil {
		return nil, fmt.Errorf("reading field count: %w", err)
	}
	k := &KeyedDecoder{decoder: d}
	for index := uint32(0); index < count; index++ {
		key, err := reader.ReadString()
		if err != nil {
			return nil, fmt.Errorf("reading key of field %d: %w", index, err)
		}
		value, err := reader.ReadLengthPrefixed()
		if err != nil {
			return nil, fmt.Errorf("reading value of field %q: %w", key, err)
		}
		k.entries = append(k.entries, keyedEntry{key: key, value: value})
	}
	return k, nil
}

// Len returns the number of fields the container declares.
func (k *KeyedDecoder) Len() int {
	return len(k.entries)
}

// Contains reports whether the container has an entry for name.
func (k *KeyedDecoder) Contains(name string) bool {
	for index := range k.entries {
		if k.entries[index].key == name {
			return true
		}
	}
	return false
}

// Field returns a decoder for the named field's value. The value is
// read from an entry-bounded view of the buffer, so decoding one field
// can never run into a neighbor's bytes. When the same key appears
// more than once the first entry wins. Returns a MissingKeyError when
// the container has no entry for name; callers decoding an optional
// treat that the same as a present-but-absent value.
func (k *KeyedDecoder) Field(name string) (*ValueDecoder, error) {
	for index := range k.entries {
		if k.entries[index].key != name {
			continue
		}
		sub := wire.NewReader(k.entries[index].value)
		presence, err := sub.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("reading presence flag of field %q: %w", name, err)
		}
		return &ValueDecoder{decoder: k.decoder, reader: sub, present: presence != 0}, nil
	}
	return nil, &MissingKeyError{Key: name}
}
