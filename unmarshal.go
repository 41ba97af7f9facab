// Copyright 2026 The Structwire Authors
// SPDX-License-Identifier: Apache-2.0

package structwire

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"

	"github.com/google/uuid"

	"github.com/structwire/structwire/codec"
)

// Unmarshal decodes data into the value target points to. The target
// must be a non-nil pointer. The buffer's encoded type must be
// compatible with the target's type; any error leaves no usable
// partial value.
func Unmarshal(data []byte, target any) error {
	pointer := reflect.ValueOf(target)
	if pointer.Kind() != reflect.Pointer || pointer.IsNil() {
		return fmt.Errorf("target must be a non-nil pointer, got %T", target)
	}
	v := pointer.Elem()

	descriptor, err := descriptorFor(v.Type())
	if err != nil {
		return err
	}
	decoder := codec.NewDecoder(data)
	if err := decoder.DecodeHeader(descriptor); err != nil {
		return err
	}

	// One level of pointer indirection is the top-level optional. An
	// empty payload is the absent value.
	if v.Kind() == reflect.Pointer {
		if decoder.AtEnd() {
			v.SetZero()
			return nil
		}
		v.Set(reflect.New(v.Type().Elem()))
		v = v.Elem()
	}
	if err := decodeTopLevel(decoder, v); err != nil {
		return err
	}
	return decoder.VerifyConsumed()
}

// decodeTopLevel reads the document payload into v: a keyed container
// for records, an unkeyed container for sequences, a bare leaf
// otherwise.
func decodeTopLevel(decoder *codec.Decoder, v reflect.Value) error {
	t := v.Type()
	switch {
	case t == uuidType, t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8:
		return decodeLeaf(decoder.SingleValue(), v)
	}
	switch t.Kind() {
	case reflect.Struct:
		keyed, err := decoder.Keyed()
		if err != nil {
			return err
		}
		return decodeStruct(keyed, v)
	case reflect.Slice, reflect.Array:
		unkeyed, err := decoder.Unkeyed()
		if err != nil {
			return err
		}
		return decodeSequence(unkeyed, v)
	case reflect.Map:
		unkeyed, err := decoder.Unkeyed()
		if err != nil {
			return err
		}
		return decodeMapOrSet(unkeyed, v)
	default:
		return decodeLeaf(decoder.SingleValue(), v)
	}
}

// decodeStruct fills the exported fields of v from a keyed container.
// A field missing from the buffer, or present with an absent value,
// decodes to nil for pointer fields and fails otherwise. Keys in the
// buffer that match no field are ignored.
func decodeStruct(keyed *codec.KeyedDecoder, v reflect.Value) error {
	t := v.Type()
	for _, field := range structFields(t) {
		fieldValue := v.Field(field.index)

		value, err := keyed.Field(field.name)
		var missing *MissingKeyError
		if errors.As(err, &missing) && fieldValue.Kind() == reflect.Pointer {
			fieldValue.SetZero()
			continue
		}
		if err != nil {
			return fmt.Errorf("struct %s: %w", t.Name(), err)
		}

		if !value.Present() {
			if fieldValue.Kind() == reflect.Pointer {
				fieldValue.SetZero()
				continue
			}
			return fmt.Errorf("struct %s: field %q holds an absent value but %s is not optional", t.Name(), field.name, fieldValue.Type())
		}
		if err := decodeValue(value, fieldValue); err != nil {
			return fmt.Errorf("struct %s: field %q: %w", t.Name(), field.name, err)
		}
	}
	return nil
}

// decodeValue reads one present value into v, allocating through one
// level of pointer indirection.
func decodeValue(value *codec.ValueDecoder, v reflect.Value) error {
	if v.Kind() == reflect.Pointer {
		v.Set(reflect.New(v.Type().Elem()))
		v = v.Elem()
	}
	t := v.Type()
	switch {
	case t == uuidType, t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8:
		return decodeLeaf(value, v)
	}
	switch t.Kind() {
	case reflect.Struct:
		keyed, err := value.Keyed()
		if err != nil {
			return err
		}
		return decodeStruct(keyed, v)
	case reflect.Slice, reflect.Array:
		unkeyed, err := value.Unkeyed()
		if err != nil {
			return err
		}
		return decodeSequence(unkeyed, v)
	case reflect.Map:
		unkeyed, err := value.Unkeyed()
		if err != nil {
			return err
		}
		return decodeMapOrSet(unkeyed, v)
	default:
		return decodeLeaf(value, v)
	}
}

// decodeLeaf reads one leaf into v. Integer reads are range-checked by
// the codec for fixed widths and here for the platform-dependent int
// and uint.
func decodeLeaf(value *codec.ValueDecoder, v reflect.Value) error {
	t := v.Type()
	if t == uuidType {
		id, err := value.UniqueID()
		if err != nil {
			return err
		}
		v.Set(reflect.ValueOf(uuid.UUID(id)))
		return nil
	}
	switch t.Kind() {
	case reflect.Bool:
		decoded, err := value.Bool()
		if err != nil {
			return err
		}
		v.SetBool(decoded)
	case reflect.Int, reflect.Int64:
		decoded, err := value.Int64()
		if err != nil {
			return err
		}
		if v.OverflowInt(decoded) {
			return &NumericOverflowError{Target: "Int", Value: strconv.FormatInt(decoded, 10)}
		}
		v.SetInt(decoded)
	case reflect.Int8:
		decoded, err := value.Int8()
		if err != nil {
			return err
		}
		v.SetInt(int64(decoded))
	case reflect.Int16:
		decoded, err := value.Int16()
		if err != nil {
			return err
		}
		v.SetInt(int64(decoded))
	case reflect.Int32:
		decoded, err := value.Int32()
		if err != nil {
			return err
		}
		v.SetInt(int64(decoded))
	case reflect.Uint, reflect.Uint64:
		decoded, err := value.Uint64()
		if err != nil {
			return err
		}
		if v.OverflowUint(decoded) {
			return &NumericOverflowError{Target: "UInt", Value: strconv.FormatUint(decoded, 10)}
		}
		v.SetUint(decoded)
	case reflect.Uint8:
		decoded, err := value.Uint8()
		if err != nil {
			return err
		}
		v.SetUint(uint64(decoded))
	case reflect.Uint16:
		decoded, err := value.Uint16()
		if err != nil {
			return err
		}
		v.SetUint(uint64(decoded))
	case reflect.Uint32:
		decoded, err := value.Uint32()
		if err != nil {
			return err
		}
		v.SetUint(uint64(decoded))
	case reflect.Float32:
		decoded, err := value.Float()
		if err != nil {
			return err
		}
		v.SetFloat(float64(decoded))
	case reflect.Float64:
		decoded, err := value.Double()
		if err != nil {
			return err
		}
		v.SetFloat(decoded)
	case reflect.String:
		decoded, err := value.String()
		if err != nil {
			return err
		}
		v.SetString(decoded)
	case reflect.Slice:
		if t.Elem().Kind() != reflect.Uint8 {
			return &UnsupportedTypeError{Type: t}
		}
		decoded, err := value.Bytes()
		if err != nil {
			return err
		}
		// The codec returns a view into the input buffer; the decoded
		// value must not alias caller-owned data.
		v.SetBytes(append([]byte(nil), decoded...))
	default:
		return &UnsupportedTypeError{Type: t}
	}
	return nil
}

// decodeSequence fills a slice or fixed-size array from an unkeyed
// container. Absent elements decode to nil for pointer element types
// and fail otherwise.
func decodeSequence(unkeyed *codec.UnkeyedDecoder, v reflect.Value) error {
	t := v.Type()
	length := unkeyed.Len()
	switch t.Kind() {
	case reflect.Slice:
		v.Set(reflect.MakeSlice(t, length, length))
	case reflect.Array:
		if t.Len() != length {
			return fmt.Errorf("buffer holds %d elements, array type %s holds %d: %w", length, t, t.Len(), codec.ErrMalformedContainer)
		}
	}

	for index := 0; !unkeyed.AtEnd(); index++ {
		value, err := unkeyed.Next()
		if err != nil {
			return err
		}
		element := v.Index(index)
		if !value.Present() {
			if element.Kind() == reflect.Pointer {
				continue
			}
			return fmt.Errorf("element %d holds an absent value but %s is not optional", index, element.Type())
		}
		if err := decodeValue(value, element); err != nil {
			return fmt.Errorf("element %d: %w", index, err)
		}
	}
	return nil
}

// decodeMapOrSet fills a map from an unkeyed container: sets from an
// element sequence, dictionaries from an alternating key/value
// sequence (which therefore must have an even element count).
func decodeMapOrSet(unkeyed *codec.UnkeyedDecoder, v reflect.Value) error {
	t := v.Type()
	isSet := t.Elem() == emptyStructType
	length := unkeyed.Len()
	if !isSet {
		if length%2 != 0 {
			return fmt.Errorf("dictionary container holds %d elements, want an even count: %w", length, codec.ErrMalformedContainer)
		}
		length /= 2
	}
	v.Set(reflect.MakeMapWithSize(t, length))

	for !unkeyed.AtEnd() {
		keyValue, err := unkeyed.Next()
		if err != nil {
			return err
		}
		if !keyValue.Present() {
			return fmt.Errorf("map key holds an absent value: %w", codec.ErrMalformedContainer)
		}
		key := reflect.New(t.Key()).Elem()
		if err := decodeValue(keyValue, key); err != nil {
			return fmt.Errorf("map key: %w", err)
		}

		if isSet {
			v.SetMapIndex(key, reflect.Zero(t.Elem()))
			continue
		}

		elementValue, err := unkeyed.Next()
		if err != nil {
			return err
		}
		element := reflect.New(t.Elem()).Elem()
		if elementValue.Present() {
			if err := decodeValue(elementValue, element); err != nil {
				return fmt.Errorf("map value: %w", err)
			}
		} else if element.Kind() != reflect.Pointer {
			return fmt.Errorf("map value holds an absent value but %s is not optional", element.Type())
		}
		v.SetMapIndex(key, element)
	}
	return nil
}
