package fernet

import (
	"bytes"
	"errors"
	"testing"
)

func TestPadLengths(t *testing.T) {
	for n := 0; n <= 33; n++ {
		padded := pad(make([]byte, n), 16)
		if len(padded)%16 != 0 || len(padded) == 0 {
			t.Fatalf("pad(%d bytes) produced %d bytes", n, len(padded))
		}
		if len(padded) <= n {
			t.Fatalf("pad(%d bytes) did not grow the input", n)
		}
		got, err := unpad(padded, 16)
		if err != nil {
			t.Fatalf("unpad after pad(%d bytes) failed: %v", n, err)
		}
		if len(got) != n {
			t.Fatalf("unpad returned %d bytes, want %d", len(got), n)
		}
	}
}

func TestPadEmptyIsFullBlock(t *testing.T) {
	padded := pad(nil, 16)
	if !bytes.Equal(padded, bytes.Repeat([]byte{16}, 16)) {
		t.Fatalf("empty input padded to %x", padded)
	}
}

func TestUnpadRejectsInvalid(t *testing.T) {
	cases := map[string][]byte{
		"empty":             {},
		"partial block":     make([]byte, 15),
		"zero pad byte":     append(bytes.Repeat([]byte{0x41}, 15), 0),
		"oversized pad":     append(bytes.Repeat([]byte{0x41}, 15), 17),
		"inconsistent pad":  {1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 2, 9, 3},
		"pad byte mismatch": append(bytes.Repeat([]byte{3}, 14), 2, 3),
	}
	for name, input := range cases {
		if _, err := unpad(input, 16); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%s: got %v, want error", name, err)
		}
	}
}
