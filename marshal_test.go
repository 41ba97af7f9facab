// Copyright 2026 The Structwire Authors
// SPDX-License-Identifier: Apache-2.0

package structwire

import (
	"bytes"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/structwire/structwire/codec"
)

type AuthPacket struct {
	Token string `wire:"token"`
	TTL   int64  `wire:"ttl"`
}

type Everything struct {
	Flag     bool
	Small    int8
	Medium   int16
	Regular  int32
	Big      int64
	Word     int
	USmall   uint8
	UMedium  uint16
	URegular uint32
	UBig     uint64
	UWord    uint
	Ratio    float32
	Score    float64
	Name     string
	Blob     []byte
	ID       uuid.UUID
	Tags     []string
	Grid     [2]int64
	Lookup   map[string]int64
	Members  map[string]struct{}
	Inner    AuthPacket
	Maybe    *string
	Nothing  *int64
}

func roundTrip[T any](t *testing.T, value T) T {
	t.Helper()
	data, err := Marshal(value)
	if err != nil {
		t.Fatalf("Marshal(%#v): %v", value, err)
	}
	var decoded T
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal(%#v): %v", value, err)
	}
	return decoded
}

func TestRoundTripLeaves(t *testing.T) {
	t.Parallel()
	// One subtest per top-level leaf shape. Values avoid nil slices and
	// nil maps: decoding always produces allocated empties.
	t.Run("bool", func(t *testing.T) {
		t.Parallel()
		if got := roundTrip(t, true); got != true {
			t.Errorf("got %t", got)
		}
	})
	t.Run("int64", func(t *testing.T) {
		t.Parallel()
		if got := roundTrip(t, int64(math.MinInt64)); got != math.MinInt64 {
			t.Errorf("got %d", got)
		}
	})
	t.Run("int8", func(t *testing.T) {
		t.Parallel()
		if got := roundTrip(t, int8(-128)); got != -128 {
			t.Errorf("got %d", got)
		}
	})
	t.Run("uint64", func(t *testing.T) {
		t.Parallel()
		if got := roundTrip(t, uint64(math.MaxUint64)); got != math.MaxUint64 {
			t.Errorf("got %d", got)
		}
	})
	t.Run("float32", func(t *testing.T) {
		t.Parallel()
		if got := roundTrip(t, float32(0.25)); got != 0.25 {
			t.Errorf("got %g", got)
		}
	})
	t.Run("float64", func(t *testing.T) {
		t.Parallel()
		if got := roundTrip(t, 6.75); got != 6.75 {
			t.Errorf("got %g", got)
		}
	})
	t.Run("string", func(t *testing.T) {
		t.Parallel()
		if got := roundTrip(t, "héllo, wörld"); got != "héllo, wörld" {
			t.Errorf("got %q", got)
		}
	})
	t.Run("bytes", func(t *testing.T) {
		t.Parallel()
		want := []byte{0x00, 0xFF, 0x10}
		if got := roundTrip(t, want); !bytes.Equal(got, want) {
			t.Errorf("got % X", got)
		}
	})
	t.Run("uuid", func(t *testing.T) {
		t.Parallel()
		want := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
		if got := roundTrip(t, want); got != want {
			t.Errorf("got %s", got)
		}
	})
}

func TestRoundTripContainers(t *testing.T) {
	t.Parallel()
	t.Run("slice", func(t *testing.T) {
		t.Parallel()
		want := []int64{1, -2, 3}
		if got := roundTrip(t, want); !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})
	t.Run("array", func(t *testing.T) {
		t.Parallel()
		want := [3]string{"a", "b", "c"}
		if got := roundTrip(t, want); got != want {
			t.Errorf("got %v, want %v", got, want)
		}
	})
	t.Run("slice of optionals", func(t *testing.T) {
		t.Parallel()
		one, three := int64(1), int64(3)
		want := []*int64{&one, nil, &three}
		got := roundTrip(t, want)
		if len(got) != 3 || *got[0] != 1 || got[1] != nil || *got[2] != 3 {
			t.Errorf("got %v", got)
		}
	})
	t.Run("map", func(t *testing.T) {
		t.Parallel()
		want := map[string]int64{"a": 1, "b": 2, "c": 3}
		if got := roundTrip(t, want); !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})
	t.Run("set", func(t *testing.T) {
		t.Parallel()
		want := map[int64]struct{}{7: {}, 8: {}}
		if got := roundTrip(t, want); !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})
	t.Run("nested slices", func(t *testing.T) {
		t.Parallel()
		want := [][]int64{{1}, {2, 3}}
		if got := roundTrip(t, want); !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})
	t.Run("slice of structs", func(t *testing.T) {
		t.Parallel()
		want := []AuthPacket{{Token: "a", TTL: 1}, {Token: "b", TTL: 2}}
		if got := roundTrip(t, want); !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})
}

func TestRoundTripStruct(t *testing.T) {
	t.Parallel()
	maybe := "present"
	want := Everything{
		Flag:     true,
		Small:    -8,
		Medium:   -16,
		Regular:  -32,
		Big:      -64,
		Word:     12345,
		USmall:   8,
		UMedium:  16,
		URegular: 32,
		UBig:     math.MaxUint64,
		UWord:    54321,
		Ratio:    1.5,
		Score:    -2.25,
		Name:     "everything",
		Blob:     []byte{1, 2, 3},
		ID:       uuid.MustParse("00112233-4455-6677-8899-aabbccddeeff"),
		Tags:     []string{"x", "y"},
		Grid:     [2]int64{10, 20},
		Lookup:   map[string]int64{"k": 9},
		Members:  map[string]struct{}{"m": {}},
		Inner:    AuthPacket{Token: "tok", TTL: 60},
		Maybe:    &maybe,
		Nothing:  nil,
	}
	got := roundTrip(t, want)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestRoundTripOptionalTopLevel(t *testing.T) {
	t.Parallel()
	t.Run("present", func(t *testing.T) {
		t.Parallel()
		value := "here"
		got := roundTrip(t, &value)
		if got == nil || *got != "here" {
			t.Errorf("got %v", got)
		}
	})
	t.Run("absent", func(t *testing.T) {
		t.Parallel()
		if got := roundTrip(t, (*string)(nil)); got != nil {
			t.Errorf("got %v, want nil", got)
		}
	})
	t.Run("absent struct", func(t *testing.T) {
		t.Parallel()
		if got := roundTrip(t, (*AuthPacket)(nil)); got != nil {
			t.Errorf("got %v, want nil", got)
		}
	})
}

// The canonical single-string buffer, byte for byte: version, magic,
// type name, payload.
func TestMarshalByteExact(t *testing.T) {
	t.Parallel()
	data, err := Marshal("Hello, World!")
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := []byte{
		0x02,
		0x4E, 0x42, 0x54, 0x4E,
		0x06, 0x00, 0x00, 0x00, 'S', 't', 'r', 'i', 'n', 'g',
		0x0D, 0x00, 0x00, 0x00,
		'H', 'e', 'l', 'l', 'o', ',', ' ', 'W', 'o', 'r', 'l', 'd', '!',
	}
	if !bytes.Equal(data, want) {
		t.Errorf("Marshal(\"Hello, World!\") =\n% X, want\n% X", data, want)
	}
}

// Map iteration order is randomized; the encoding must not be.
func TestMarshalDeterministicMaps(t *testing.T) {
	t.Parallel()
	value := map[string]int64{"alpha": 1, "beta": 2, "gamma": 3, "delta": 4, "epsilon": 5}
	first, err := Marshal(value)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for run := 0; run < 20; run++ {
		again, err := Marshal(value)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("run %d produced different bytes", run)
		}
	}
}

func TestMarshalFormatVersion1(t *testing.T) {
	t.Parallel()
	type LegacyRecord struct {
		Ratio float32
		Big   uint64
		Name  string
	}
	options := MarshalOptions{Format: codec.FormatVersion1}

	value := LegacyRecord{Ratio: 2.5, Big: math.MaxInt64, Name: "legacy"}
	data, err := options.Marshal(value)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if data[0] != 1 {
		t.Fatalf("version byte = %d, want 1", data[0])
	}
	var decoded LegacyRecord
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded != value {
		t.Errorf("round trip mismatch: got %+v, want %+v", decoded, value)
	}
}

// Format 1 has no unsigned lane; values above the signed maximum must
// fail at encode time.
func TestMarshalFormatVersion1UnsignedOverflow(t *testing.T) {
	t.Parallel()
	options := MarshalOptions{Format: codec.FormatVersion1}
	_, err := options.Marshal(uint64(math.MaxInt64) + 1)
	var overflow *NumericOverflowError
	if !errors.As(err, &overflow) {
		t.Errorf("Marshal error = %v, want NumericOverflowError", err)
	}
}

func TestMarshalTaggedFields(t *testing.T) {
	t.Parallel()
	type Tagged struct {
		Kept    string `wire:"renamed"`
		Skipped string `wire:"-"`
		Plain   int64
	}
	data, err := Marshal(Tagged{Kept: "v", Skipped: "never", Plain: 3})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Contains(data, []byte("renamed")) {
		t.Error("buffer does not contain the renamed key")
	}
	if bytes.Contains(data, []byte("Kept")) {
		t.Error("buffer contains the Go field name of a renamed field")
	}
	if bytes.Contains(data, []byte("never")) {
		t.Error("buffer contains the value of a skipped field")
	}

	var decoded Tagged
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Kept != "v" || decoded.Skipped != "" || decoded.Plain != 3 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestMarshalUnsupportedTypes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		value any
	}{
		{"channel", make(chan int)},
		{"function", func() {}},
		{"complex", complex(1, 2)},
		{"double pointer", new(*int64)},
		{"struct map key", map[AuthPacket]int64{{Token: "k"}: 1}},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Marshal(test.value); err == nil {
				t.Errorf("Marshal(%s) succeeded, want error", test.name)
			}
		})
	}
}
