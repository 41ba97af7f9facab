// Copyright 2026 The Structwire Authors
// SPDX-License-Identifier: Apache-2.0

// Package wire provides the byte-level primitives of the structwire
// format: a growable append-only Writer and a bounds-checked Reader
// over an immutable byte slice.
//
// All multi-byte values are little-endian. Variable-length values
// (strings, byte blobs, field keys) are length-prefixed with a uint32.
// The Writer supports reserving a uint32 placeholder and patching it
// later, which is how container lengths and element counts are written
// without a second pass over the data (the enclosing codec package
// guarantees every reserved placeholder is patched before the buffer
// is handed to the caller).
//
// The Reader never reads past the end of its slice: every read either
// returns the requested bytes or an error wrapping
// ErrUnexpectedEndOfData. Decoded strings are validated as UTF-8.
package wire
