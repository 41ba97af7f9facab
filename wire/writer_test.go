// Copyright 2026 The Structwire Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"bytes"
	"testing"
)

func TestWriterFixedWidthLayout(t *testing.T) {
	t.Parallel()
	writer := NewWriter()
	writer.AppendByte(0x7F)
	writer.AppendFixed32(0x11223344)
	writer.AppendFixed64(0x0102030405060708)

	want := []byte{
		0x7F,
		0x44, 0x33, 0x22, 0x11,
		0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01,
	}
	if !bytes.Equal(writer.Bytes(), want) {
		t.Errorf("buffer = % X, want % X", writer.Bytes(), want)
	}
	if writer.Len() != len(want) {
		t.Errorf("Len() = %d, want %d", writer.Len(), len(want))
	}
}

func TestWriterLengthPrefixed(t *testing.T) {
	t.Parallel()
	writer := NewWriter()
	if err := writer.AppendLengthPrefixed([]byte{0xAA, 0xBB}); err != nil {
		t.Fatalf("AppendLengthPrefixed: %v", err)
	}
	if err := writer.AppendString("hi"); err != nil {
		t.Fatalf("AppendString: %v", err)
	}

	want := []byte{
		0x02, 0x00, 0x00, 0x00, 0xAA, 0xBB,
		0x02, 0x00, 0x00, 0x00, 'h', 'i',
	}
	if !bytes.Equal(writer.Bytes(), want) {
		t.Errorf("buffer = % X, want % X", writer.Bytes(), want)
	}
}

func TestWriterEmptyLengthPrefixed(t *testing.T) {
	t.Parallel()
	writer := NewWriter()
	if err := writer.AppendLengthPrefixed(nil); err != nil {
		t.Fatalf("AppendLengthPrefixed(nil): %v", err)
	}
	want := []byte{0x00, 0x00, 0x00, 0x00}
	if !bytes.Equal(writer.Bytes(), want) {
		t.Errorf("buffer = % X, want % X", writer.Bytes(), want)
	}
}

func TestWriterPlaceholderPatch(t *testing.T) {
	t.Parallel()
	writer := NewWriter()
	writer.AppendByte(0x01)
	position := writer.ReservePlaceholder()
	writer.AppendRaw([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	writer.PatchPlaceholder(position, 4)

	want := []byte{0x01, 0x04, 0x00, 0x00, 0x00, 0xDE, 0xAD, 0xBE, 0xEF}
	if !bytes.Equal(writer.Bytes(), want) {
		t.Errorf("buffer = % X, want % X", writer.Bytes(), want)
	}
}

func TestWriterPatchOutOfRangePanics(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Error("PatchPlaceholder with a bad position did not panic")
		}
	}()
	writer := NewWriter()
	writer.PatchPlaceholder(0, 1)
}
