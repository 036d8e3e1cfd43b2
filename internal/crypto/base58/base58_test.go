package base58

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{0x00},
		{0x00, 0x00, 0x01},
		[]byte("hello world"),
		make([]byte, 32),
	}
	for _, c := range cases {
		enc := Encode(c)
		dec, err := Decode(enc)
		if err != nil {
			t.Fatalf("Decode(%q) error: %v", enc, err)
		}
		if len(c) == 0 {
			if len(dec) != 0 {
				t.Fatalf("expected empty decode, got %x", dec)
			}
			continue
		}
		if string(dec) != string(c) {
			t.Fatalf("round trip mismatch: got %x want %x", dec, c)
		}
	}
}

func TestEncodeLeadingZerosPreserved(t *testing.T) {
	in := []byte{0x00, 0x00, 0x01, 0x02}
	enc := Encode(in)
	if enc[0] != '1' || enc[1] != '1' {
		t.Fatalf("expected two leading '1' characters, got %q", enc)
	}
}

func TestDecodeInvalidCharacter(t *testing.T) {
	_, err := Decode("0OIl")
	if err != ErrInvalidCharacter {
		t.Fatalf("expected ErrInvalidCharacter, got %v", err)
	}
}
