// Copyright 2026 The Structwire Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/structwire/structwire/schema"
)

var (
	// ErrBadMagicHeader is returned when a buffer whose format version
	// requires the magic marker carries different bytes in its place.
	ErrBadMagicHeader = errors.New("bad magic header")

	// ErrMalformedContainer is returned when container state is
	// inconsistent: a declared count disagrees with the data, an
	// element is read past the declared count, or container frames are
	// opened and closed out of order.
	ErrMalformedContainer = errors.New("malformed container")
)

// UnsupportedVersionError is returned when a buffer's version byte
// names a format this package cannot decode.
type UnsupportedVersionError struct {
	// Version is the first byte of the rejected buffer.
	Version byte
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported format version %d", e.Version)
}

// TypeMismatchError is returned when the type name encoded in a buffer
// is not compatible with the type requested by the decoding caller.
// The payload is never interpreted when this error is returned.
type TypeMismatchError struct {
	// Expected is the descriptor of the type the caller requested.
	Expected schema.Descriptor
	// Found is the canonicalized descriptor encoded in the buffer.
	Found schema.Descriptor
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: buffer encodes %s, requested %s", e.Found, e.Expected)
}

// MissingKeyError is returned when a keyed container has no entry for
// a requested field name.
type MissingKeyError struct {
	// Key is the field name that was looked up.
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("missing key %q", e.Key)
}

// TrailingBytesError is returned when decoding consumed the payload
// but bytes remain in the buffer. A valid buffer describes its value
// exactly; leftover bytes mean the buffer was never a valid encoding
// of the requested type.
type TrailingBytesError struct {
	// Consumed is the number of bytes the decode used.
	Consumed int
	// Total is the length of the buffer.
	Total int
}

func (e *TrailingBytesError) Error() string {
	return fmt.Sprintf("%d trailing bytes: decode consumed %d of %d", e.Total-e.Consumed, e.Consumed, e.Total)
}

// NumericOverflowError is returned when a stored numeric value does
// not fit the requested target type: a 64-bit wire value narrowed to a
// smaller integer, an unsigned value that cannot ride format 1's
// signed lane, or a format-1 buffer claiming an unsigned value above
// the signed maximum.
type NumericOverflowError struct {
	// Target is the canonical name of the type the value was for.
	Target string
	// Value is the decimal rendering of the out-of-range value.
	Value string
}

func (e *NumericOverflowError) Error() string {
	return fmt.Sprintf("value %s does not fit %s", e.Value, e.Target)
}

func signedOverflow(target string, value int64) error {
	return &NumericOverflowError{Target: target, Value: strconv.FormatInt(value, 10)}
}

func unsignedOverflow(target string, value uint64) error {
	return &NumericOverflowError{Target: target, Value: strconv.FormatUint(value, 10)}
}
