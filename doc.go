// Copyright 2026 The Structwire Authors
// SPDX-License-Identifier: Apache-2.0

// Package structwire serializes Go values to a compact, versioned,
// self-describing binary format and reconstructs them with type-safety
// checks.
//
// Every buffer starts with a format version byte, a magic marker and
// the canonical name of the encoded type; decoding refuses a buffer
// whose type is not compatible with the target (see the schema
// package for the compatibility rules). Values round-trip through
// three container shapes: keyed records (structs), ordered sequences
// (slices, arrays, sets, maps) and bare leaves.
//
//	data, err := structwire.Marshal(packet)
//	err = structwire.Unmarshal(data, &packet)
//
// # Type Mapping
//
//   - bool, integers, floats, string: leaf primitives. Integers
//     narrower than 64 bits ride a 64-bit lane on the wire and are
//     range-checked on decode.
//   - []byte: an opaque length-prefixed blob.
//   - uuid.UUID (github.com/google/uuid): a 16-byte unique identifier.
//   - *T: an optional T. A nil pointer encodes as an absent value; one
//     level of pointer indirection is supported.
//   - structs: keyed records of their exported fields.
//   - slices and arrays: ordered sequences, one presence byte per
//     element (so []*T round-trips nil elements).
//   - map[K]struct{}: a set. Other maps: a dictionary, encoded as an
//     alternating key/value sequence. Map keys must be primitives.
//     Both encode in a deterministic order (sorted by encoded key),
//     so the same logical value always produces identical bytes.
//
// Interfaces, channels, functions, complex numbers and unnamed struct
// types are not serializable and fail with an UnsupportedTypeError.
//
// # Struct Tags
//
// The `wire` struct tag overrides a field's key name; `wire:"-"` skips
// the field. Unexported fields are always skipped.
//
//	type AuthPacket struct {
//	    UserID    uuid.UUID `wire:"user_id"`
//	    Nickname  *string   `wire:"nickname"`
//	    Scratch   []byte    `wire:"-"`
//	}
//
// Field names are the decode-time lookup keys: renaming a tagged field
// is free, renaming an untagged field breaks old buffers.
//
// # Errors
//
// The error taxonomy lives in the codec and wire packages and is
// re-exported here so callers import only this package. All errors
// abort the whole operation — a buffer that fails to decode is not a
// valid encoding of the requested type, and no partial value is
// returned.
package structwire
