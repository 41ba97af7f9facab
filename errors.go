// Copyright 2026 The Structwire Authors
// SPDX-License-Identifier: Apache-2.0

package structwire

import (
	"reflect"

	"github.com/structwire/structwire/codec"
	"github.com/structwire/structwire/wire"
)

// Error sentinels and types from the codec and wire packages, aliased
// so consumers import only structwire.
var (
	// ErrUnexpectedEndOfData: the buffer is truncated or a declared
	// length runs past the end.
	ErrUnexpectedEndOfData = wire.ErrUnexpectedEndOfData

	// ErrInvalidUTF8: a decoded string's bytes are not valid UTF-8.
	ErrInvalidUTF8 = wire.ErrInvalidUTF8

	// ErrBadMagicHeader: the buffer does not carry the format's magic
	// marker where its version requires one.
	ErrBadMagicHeader = codec.ErrBadMagicHeader

	// ErrMalformedContainer: a container's counts, lengths or framing
	// are inconsistent.
	ErrMalformedContainer = codec.ErrMalformedContainer
)

// Structured error types; use errors.As to extract them.
type (
	// UnsupportedVersionError: the buffer's version byte names a
	// format this package cannot decode.
	UnsupportedVersionError = codec.UnsupportedVersionError

	// TypeMismatchError: the encoded type is not compatible with the
	// requested one.
	TypeMismatchError = codec.TypeMismatchError

	// MissingKeyError: a record field required by the target type has
	// no entry in the buffer.
	MissingKeyError = codec.MissingKeyError

	// TrailingBytesError: bytes remain after the value was decoded.
	TrailingBytesError = codec.TrailingBytesError

	// NumericOverflowError: a stored numeric value does not fit the
	// requested type.
	NumericOverflowError = codec.NumericOverflowError
)

// UnsupportedTypeError is returned by Marshal and Unmarshal when a Go
// type has no structwire representation.
type UnsupportedTypeError struct {
	Type reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	return "unsupported type " + e.Type.String()
}
