// Copyright 2026 The Structwire Authors
// SPDX-License-Identifier: Apache-2.0

package structwire

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"github.com/structwire/structwire/schema"
)

// uuidType identifies the 16-byte unique-identifier leaf.
var uuidType = reflect.TypeOf(uuid.UUID{})

// emptyStructType identifies set-shaped maps (map[K]struct{}).
var emptyStructType = reflect.TypeOf(struct{}{})

// descriptorFor derives the canonical schema descriptor for a Go type:
// one level of pointer indirection becomes the Optional flag, the rest
// maps to a core wire name. Descriptors are derived per call and never
// cached.
func descriptorFor(t reflect.Type) (schema.Descriptor, error) {
	optional := false
	if t.Kind() == reflect.Pointer {
		optional = true
		t = t.Elem()
		if t.Kind() == reflect.Pointer {
			return schema.Descriptor{}, &UnsupportedTypeError{Type: t}
		}
	}
	core, err := wireName(t)
	if err != nil {
		return schema.Descriptor{}, err
	}
	return schema.Descriptor{
		CoreName: core,
		Optional: optional,
		Category: schema.Classify(core),
	}, nil
}

// wireName maps a non-pointer Go type to its canonical core name.
func wireName(t reflect.Type) (string, error) {
	if t == uuidType {
		return "UUID", nil
	}
	switch t.Kind() {
	case reflect.Bool:
		return "Bool", nil
	case reflect.Int, reflect.Int64:
		return "Int64", nil
	case reflect.Int8:
		return "Int8", nil
	case reflect.Int16:
		return "Int16", nil
	case reflect.Int32:
		return "Int32", nil
	case reflect.Uint, reflect.Uint64:
		return "UInt64", nil
	case reflect.Uint8:
		return "UInt8", nil
	case reflect.Uint16:
		return "UInt16", nil
	case reflect.Uint32:
		return "UInt32", nil
	case reflect.Float32:
		return "Float", nil
	case reflect.Float64:
		return "Double", nil
	case reflect.String:
		return "String", nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return "Data", nil
		}
		element, err := elementName(t.Elem())
		if err != nil {
			return "", err
		}
		return "Array<" + element + ">", nil
	case reflect.Array:
		element, err := elementName(t.Elem())
		if err != nil {
			return "", err
		}
		return "Array<" + element + ">", nil
	case reflect.Map:
		key, err := elementName(t.Key())
		if err != nil {
			return "", err
		}
		if t.Elem() == emptyStructType {
			return "Set<" + key + ">", nil
		}
		value, err := elementName(t.Elem())
		if err != nil {
			return "", err
		}
		return "Dictionary<" + key + ", " + value + ">", nil
	case reflect.Struct:
		if t.Name() == "" {
			return "", &UnsupportedTypeError{Type: t}
		}
		return t.Name(), nil
	default:
		return "", &UnsupportedTypeError{Type: t}
	}
}

// elementName names a container's element or key type, wrapping one
// level of pointer indirection in Optional<...>.
func elementName(t reflect.Type) (string, error) {
	if t.Kind() == reflect.Pointer {
		if t.Elem().Kind() == reflect.Pointer {
			return "", &UnsupportedTypeError{Type: t}
		}
		inner, err := wireName(t.Elem())
		if err != nil {
			return "", err
		}
		return "Optional<" + inner + ">", nil
	}
	return wireName(t)
}

// fieldInfo is one serializable struct field: its wire key and its
// index in the struct.
type fieldInfo struct {
	name  string
	index int
}

// structFields lists the serializable fields of a struct type in
// declaration order. Unexported fields and fields tagged `wire:"-"`
// are skipped; a non-empty `wire` tag overrides the key name.
func structFields(t reflect.Type) []fieldInfo {
	fields := make([]fieldInfo, 0, t.NumField())
	for index := 0; index < t.NumField(); index++ {
		field := t.Field(index)
		if field.PkgPath != "" {
			continue
		}
		name := field.Name
		if tag, ok := field.Tag.Lookup("wire"); ok {
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		fields = append(fields, fieldInfo{name: name, index: index})
	}
	return fields
}

// uuidBytes converts a reflected uuid.UUID into the raw 16-byte array
// the codec writes.
func uuidBytes(v reflect.Value) [16]byte {
	id, ok := v.Interface().(uuid.UUID)
	if !ok {
		panic(fmt.Sprintf("structwire: value of type %s is not a uuid.UUID", v.Type()))
	}
	return [16]byte(id)
}
