// Copyright 2026 The Structwire Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import "errors"

var (
	// ErrUnexpectedEndOfData is returned when a read would run past the
	// end of the buffer: the data is truncated or a declared length is
	// inconsistent with the bytes that follow it. Errors returned by
	// Reader methods wrap this sentinel with positional context; use
	// errors.Is to test for it.
	ErrUnexpectedEndOfData = errors.New("unexpected end of data")

	// ErrInvalidUTF8 is returned when a decoded string's bytes are not
	// valid UTF-8.
	ErrInvalidUTF8 = errors.New("invalid UTF-8")
)
