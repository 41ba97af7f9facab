// Copyright 2026 The Structwire Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec implements the structwire container protocol: the
// versioned header, the presence layer, and the three traversal modes
// a host traversal mechanism drives to encode or decode a value.
//
//   - Keyed containers hold named fields. Each field is written as its
//     UTF-8 key, a back-patched uint32 value length, a presence byte
//     and the value bytes. The length prefix lets the decoder index
//     the whole container in one linear pass and then serve field
//     lookups in any order, skipping keys it does not know.
//   - Unkeyed containers hold an ordered sequence. An up-front element
//     count is followed by one presence byte and value per element.
//   - Single-value mode holds one bare leaf with no presence byte;
//     at the top level, absence is an empty payload.
//
// The host mechanism — the reflection driver in the root package, or
// hand-written traversal code — opens a document, walks its value
// field by field, and finishes:
//
//	encoder, _ := codec.NewEncoder(codec.CurrentFormat)
//	encoder.BeginDocument(descriptor)
//	keyed := encoder.Keyed()
//	keyed.WriteString("name", "zoe")
//	keyed.WriteInt("age", 7)
//	keyed.End()
//	data, err := encoder.Finish()
//
// Decoding mirrors this. The decoder first parses the header (format
// version, magic marker, encoded type name), refuses the buffer unless
// the encoded type is compatible with the requested one, and after the
// payload has been consumed verifies that no bytes remain.
//
// Every encode or decode call owns its buffer and cursor exclusively;
// the package keeps no state between calls, so concurrent calls on
// separate buffers need no locking.
package codec
