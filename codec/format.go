// Copyright 2026 The Structwire Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import "fmt"

// Format identifies a generation of the structwire encoding. The
// format version is the first byte of every buffer.
type Format byte

const (
	// FormatVersion1 is the legacy generation. The magic marker is
	// optional on decode (early version-1 encoders did not write it),
	// unsigned 64-bit values ride in the signed 64-bit lane (values
	// above the signed maximum are unrepresentable), and 32-bit floats
	// are widened to doubles.
	FormatVersion1 Format = 1

	// FormatVersion2 is the current generation: mandatory magic
	// marker, native unsigned 64-bit lane, native 32-bit floats.
	FormatVersion2 Format = 2

	// CurrentFormat is the generation new buffers are written in.
	CurrentFormat = FormatVersion2
)

// MagicNumber is the fixed marker written after the version byte. It
// validates that the stream is a structwire buffer before any further
// byte is trusted. Stored little-endian it reads "NBTN" on the wire.
const MagicNumber uint32 = 0x4E54424E

// valid reports whether f is a version this package can encode.
func (f Format) valid() bool {
	return f >= FormatVersion1 && f <= CurrentFormat
}

// String returns the version for error messages.
func (f Format) String() string {
	return fmt.Sprintf("format version %d", byte(f))
}
