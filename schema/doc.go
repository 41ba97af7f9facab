// Copyright 2026 The Structwire Authors
// SPDX-License-Identifier: Apache-2.0

// Package schema canonicalizes type names and decides whether an
// encoded value may be decoded as a requested type.
//
// Every structwire buffer carries the canonical name of the type that
// produced it. Before any payload byte is interpreted, the decoder
// canonicalizes that name and checks it against the type the caller is
// decoding into. Canonicalization strips namespace qualification (so a
// type may move between packages or languages without breaking old
// data), maps array-like, set-like and map-like container names onto
// fixed short names, and peels Optional wrappers into a separate flag.
//
// Compatibility is deliberately looser for user-defined record types
// than for primitives: a record may evolve between optional and
// non-optional across encode and decode, and may be renamed as long as
// its simple name matches, because record payloads are keyed and
// self-delimiting. Primitives and collections have positional payloads,
// so their optionality must match exactly.
package schema
