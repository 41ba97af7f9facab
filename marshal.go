// Copyright 2026 The Structwire Authors
// SPDX-License-Identifier: Apache-2.0

package structwire

import (
	"bytes"
	"fmt"
	"reflect"
	"sort"

	"github.com/structwire/structwire/codec"
)

// MarshalOptions configures encoding. The zero value encodes in the
// current format generation.
type MarshalOptions struct {
	// Format selects the format generation to emit. Zero means
	// codec.CurrentFormat. Pass codec.FormatVersion1 only to produce
	// buffers for legacy decoders; format 1 cannot represent unsigned
	// 64-bit values above the signed maximum.
	Format codec.Format
}

// Marshal encodes value in the current format generation.
func Marshal(value any) ([]byte, error) {
	return MarshalOptions{}.Marshal(value)
}

// Marshal encodes value using the receiver's options.
func (o MarshalOptions) Marshal(value any) ([]byte, error) {
	if value == nil {
		return nil, fmt.Errorf("cannot marshal a nil interface value")
	}
	format := o.Format
	if format == 0 {
		format = codec.CurrentFormat
	}

	v := reflect.ValueOf(value)
	descriptor, err := descriptorFor(v.Type())
	if err != nil {
		return nil, err
	}

	encoder, err := codec.NewEncoder(format)
	if err != nil {
		return nil, err
	}
	if err := encoder.BeginDocument(descriptor); err != nil {
		return nil, err
	}

	// One level of pointer indirection is the top-level optional. An
	// absent top-level value is a header with an empty payload — bare
	// values carry no presence byte.
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return encoder.Finish()
		}
		v = v.Elem()
	}
	if err := encodeTopLevel(encoder, v); err != nil {
		return nil, err
	}
	return encoder.Finish()
}

// encodeTopLevel writes the document payload: a keyed container for
// records, an unkeyed container for sequences, a bare leaf otherwise.
func encodeTopLevel(encoder *codec.Encoder, v reflect.Value) error {
	t := v.Type()
	switch {
	case t == uuidType, t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8:
		return encodeLeaf(encoder.SingleValue(), v)
	}
	switch t.Kind() {
	case reflect.Struct:
		keyed := encoder.Keyed()
		if err := encodeStruct(keyed, v); err != nil {
			return err
		}
		return keyed.End()
	case reflect.Slice, reflect.Array:
		unkeyed := encoder.Unkeyed()
		if err := encodeSequence(unkeyed, v); err != nil {
			return err
		}
		return unkeyed.End()
	case reflect.Map:
		unkeyed := encoder.Unkeyed()
		if err := encodeMapOrSet(unkeyed, v); err != nil {
			return err
		}
		return unkeyed.End()
	default:
		return encodeLeaf(encoder.SingleValue(), v)
	}
}

// encodeLeaf writes a bare leaf value.
func encodeLeaf(single *codec.SingleValueEncoder, v reflect.Value) error {
	t := v.Type()
	if t == uuidType {
		return single.WriteUniqueID(uuidBytes(v))
	}
	switch t.Kind() {
	case reflect.Bool:
		return single.WriteBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return single.WriteInt(v.Int())
	case reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return single.WriteInt(int64(v.Uint()))
	case reflect.Uint, reflect.Uint64:
		return single.WriteUint(v.Uint())
	case reflect.Float32:
		return single.WriteFloat(float32(v.Float()))
	case reflect.Float64:
		return single.WriteDouble(v.Float())
	case reflect.String:
		return single.WriteString(v.String())
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return single.WriteBytes(v.Bytes())
		}
		return &UnsupportedTypeError{Type: t}
	default:
		return &UnsupportedTypeError{Type: t}
	}
}

// encodeStruct writes the exported fields of v into an open keyed
// container. The caller ends the container.
func encodeStruct(keyed *codec.KeyedEncoder, v reflect.Value) error {
	t := v.Type()
	for _, field := range structFields(t) {
		if err := encodeField(keyed, field.name, v.Field(field.index)); err != nil {
			return fmt.Errorf("struct %s: %w", t.Name(), err)
		}
	}
	return nil
}

// encodeField writes one keyed field. A nil pointer becomes an absent
// field; everything else is written presence-first by the container.
func encodeField(keyed *codec.KeyedEncoder, name string, v reflect.Value) error {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return keyed.WriteAbsent(name)
		}
		v = v.Elem()
	}
	t := v.Type()
	if t == uuidType {
		return keyed.WriteUniqueID(name, uuidBytes(v))
	}
	switch t.Kind() {
	case reflect.Bool:
		return keyed.WriteBool(name, v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return keyed.WriteInt(name, v.Int())
	case reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return keyed.WriteInt(name, int64(v.Uint()))
	case reflect.Uint, reflect.Uint64:
		return keyed.WriteUint(name, v.Uint())
	case reflect.Float32:
		return keyed.WriteFloat(name, float32(v.Float()))
	case reflect.Float64:
		return keyed.WriteDouble(name, v.Float())
	case reflect.String:
		return keyed.WriteString(name, v.String())
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return keyed.WriteBytes(name, v.Bytes())
		}
		nested, err := keyed.BeginUnkeyedField(name)
		if err != nil {
			return err
		}
		if err := encodeSequence(nested, v); err != nil {
			return err
		}
		return nested.End()
	case reflect.Array:
		nested, err := keyed.BeginUnkeyedField(name)
		if err != nil {
			return err
		}
		if err := encodeSequence(nested, v); err != nil {
			return err
		}
		return nested.End()
	case reflect.Map:
		nested, err := keyed.BeginUnkeyedField(name)
		if err != nil {
			return err
		}
		if err := encodeMapOrSet(nested, v); err != nil {
			return err
		}
		return nested.End()
	case reflect.Struct:
		nested, err := keyed.BeginKeyedField(name)
		if err != nil {
			return err
		}
		if err := encodeStruct(nested, v); err != nil {
			return err
		}
		return nested.End()
	default:
		return &UnsupportedTypeError{Type: t}
	}
}

// encodeSequence writes the elements of a slice or array into an open
// unkeyed container. The caller ends the container.
func encodeSequence(unkeyed *codec.UnkeyedEncoder, v reflect.Value) error {
	for index := 0; index < v.Len(); index++ {
		if err := encodeElement(unkeyed, v.Index(index)); err != nil {
			return fmt.Errorf("element %d: %w", index, err)
		}
	}
	return nil
}

// encodeElement writes one unkeyed element. A nil pointer becomes an
// absent element.
func encodeElement(unkeyed *codec.UnkeyedEncoder, v reflect.Value) error {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return unkeyed.WriteAbsentElement()
		}
		v = v.Elem()
	}
	t := v.Type()
	if t == uuidType {
		return unkeyed.WriteUniqueID(uuidBytes(v))
	}
	switch t.Kind() {
	case reflect.Bool:
		return unkeyed.WriteBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return unkeyed.WriteInt(v.Int())
	case reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return unkeyed.WriteInt(int64(v.Uint()))
	case reflect.Uint, reflect.Uint64:
		return unkeyed.WriteUint(v.Uint())
	case reflect.Float32:
		return unkeyed.WriteFloat(float32(v.Float()))
	case reflect.Float64:
		return unkeyed.WriteDouble(v.Float())
	case reflect.String:
		return unkeyed.WriteString(v.String())
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return unkeyed.WriteBytes(v.Bytes())
		}
		nested, err := unkeyed.BeginUnkeyedElement()
		if err != nil {
			return err
		}
		if err := encodeSequence(nested, v); err != nil {
			return err
		}
		return nested.End()
	case reflect.Array:
		nested, err := unkeyed.BeginUnkeyedElement()
		if err != nil {
			return err
		}
		if err := encodeSequence(nested, v); err != nil {
			return err
		}
		return nested.End()
	case reflect.Map:
		nested, err := unkeyed.BeginUnkeyedElement()
		if err != nil {
			return err
		}
		if err := encodeMapOrSet(nested, v); err != nil {
			return err
		}
		return nested.End()
	case reflect.Struct:
		nested, err := unkeyed.BeginKeyedElement()
		if err != nil {
			return err
		}
		if err := encodeStruct(nested, v); err != nil {
			return err
		}
		return nested.End()
	default:
		return &UnsupportedTypeError{Type: t}
	}
}

// encodeMapOrSet writes a map into an open unkeyed container: sets as
// a sorted element sequence, dictionaries as a sorted alternating
// key/value sequence. Go map iteration order is randomized, so keys
// are sorted by their encoded bytes to keep the output deterministic —
// the same logical value always produces identical bytes.
func encodeMapOrSet(unkeyed *codec.UnkeyedEncoder, v reflect.Value) error {
	keys, err := sortedMapKeys(v)
	if err != nil {
		return err
	}
	isSet := v.Type().Elem() == emptyStructType
	for _, key := range keys {
		if err := encodeElement(unkeyed, key); err != nil {
			return fmt.Errorf("map key: %w", err)
		}
		if isSet {
			continue
		}
		if err := encodeElement(unkeyed, v.MapIndex(key)); err != nil {
			return fmt.Errorf("map value: %w", err)
		}
	}
	return nil
}

// sortedMapKeys returns the map's keys ordered by their encoded bytes.
// Keys must be primitive leaves (the usual Go map key types).
func sortedMapKeys(v reflect.Value) ([]reflect.Value, error) {
	keys := v.MapKeys()
	encoded := make([][]byte, len(keys))
	for index, key := range keys {
		data, err := encodeSortKey(key)
		if err != nil {
			return nil, fmt.Errorf("map key: %w", err)
		}
		encoded[index] = data
	}
	sort.Sort(&keysByEncoding{keys: keys, encoded: encoded})
	return keys, nil
}

// encodeSortKey encodes a single key as a bare leaf, headerless, for
// use as a sort key.
func encodeSortKey(key reflect.Value) ([]byte, error) {
	encoder, err := codec.NewEncoder(codec.CurrentFormat)
	if err != nil {
		return nil, err
	}
	if err := encodeLeaf(encoder.SingleValue(), key); err != nil {
		return nil, err
	}
	return encoder.Finish()
}

// keysByEncoding sorts map keys and their encodings together.
type keysByEncoding struct {
	keys    []reflect.Value
	encoded [][]byte
}

func (s *keysByEncoding) Len() int { return len(s.keys) }

func (s *keysByEncoding) Less(i, j int) bool {
	return bytes.Compare(s.encoded[i], s.encoded[j]) < 0
}

func (s *keysByEncoding) Swap(i, j int) {
	s.keys[i], s.keys[j] = s.keys[j], s.keys[i]
	s.encoded[i], s.encoded[j] = s.encoded[j], s.encoded[i]
}
