package types

import (
	"bytes"
	"strings"
	"testing"
)

func TestBech32mEncode_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		hrp  string
		data []byte
	}{
		{"empty payload", "sp", []byte{}},
		{"single byte", "sp", []byte{0x42}},
		{"pubkey sized", "sprt", bytes.Repeat([]byte{0xab}, 33)},
		{"all zeros", "spt", make([]byte, 33)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := Bech32mEncode(tt.hrp, tt.data)
			if err != nil {
				t.Fatalf("Bech32mEncode() error: %v", err)
			}
			if !strings.HasPrefix(enc, tt.hrp+"1") {
				t.Errorf("encoded = %q, want prefix %q", enc, tt.hrp+"1")
			}

			hrp, data, err := Bech32mDecode(enc)
			if err != nil {
				t.Fatalf("Bech32mDecode() error: %v", err)
			}
			if hrp != tt.hrp {
				t.Errorf("hrp = %q, want %q", hrp, tt.hrp)
			}
			if !bytes.Equal(data, tt.data) {
				t.Errorf("data = %x, want %x", data, tt.data)
			}
		})
	}
}

func TestBech32Encode_RoundTrip(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4, 5}
	enc, err := Bech32Encode("test", data)
	if err != nil {
		t.Fatalf("Bech32Encode() error: %v", err)
	}

	hrp, got, err := Bech32Decode(enc)
	if err != nil {
		t.Fatalf("Bech32Decode() error: %v", err)
	}
	if hrp != "test" {
		t.Errorf("hrp = %q, want %q", hrp, "test")
	}
	if !bytes.Equal(got, data) {
		t.Errorf("data = %x, want %x", got, data)
	}
}

func TestBech32m_ChecksumVariantMismatch(t *testing.T) {
	data := []byte{1, 2, 3}

	// A bech32m string must not decode as plain bech32, and vice versa.
	encM, err := Bech32mEncode("sp", data)
	if err != nil {
		t.Fatalf("Bech32mEncode() error: %v", err)
	}
	if _, _, err := Bech32Decode(encM); err == nil {
		t.Error("Bech32Decode() should reject a bech32m checksum")
	}

	enc, err := Bech32Encode("sp", data)
	if err != nil {
		t.Fatalf("Bech32Encode() error: %v", err)
	}
	if _, _, err := Bech32mDecode(enc); err == nil {
		t.Error("Bech32mDecode() should reject a bech32 checksum")
	}
}

func TestBech32mDecode_Invalid(t *testing.T) {
	valid, err := Bech32mEncode("sp", []byte{1, 2, 3})
	if err != nil {
		t.Fatalf("Bech32mEncode() error: %v", err)
	}

	// Corrupt one data character.
	corrupted := []byte(valid)
	if corrupted[len(corrupted)-1] == 'q' {
		corrupted[len(corrupted)-1] = 'p'
	} else {
		corrupted[len(corrupted)-1] = 'q'
	}

	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"missing separator", "spqqqqqq"},
		{"mixed case", "Sp1qqqqqqqqq"},
		{"invalid character", "sp1bbbbbbb"},
		{"corrupted checksum", string(corrupted)},
		{"too short", "sp1q"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Bech32mDecode(tt.input); err == nil {
				t.Errorf("Bech32mDecode(%q) should fail", tt.input)
			}
		})
	}
}

func TestBech32mEncode_InvalidHRP(t *testing.T) {
	if _, err := Bech32mEncode("", []byte{1}); err == nil {
		t.Error("expected error for empty HRP")
	}
	if _, err := Bech32mEncode("h\x00p", []byte{1}); err == nil {
		t.Error("expected error for control character in HRP")
	}
}

func TestBech32mDecode_CaseInsensitive(t *testing.T) {
	enc, err := Bech32mEncode("sp", []byte{0xde, 0xad})
	if err != nil {
		t.Fatalf("Bech32mEncode() error: %v", err)
	}

	upper := strings.ToUpper(enc)
	hrp, data, err := Bech32mDecode(upper)
	if err != nil {
		t.Fatalf("Bech32mDecode(upper) error: %v", err)
	}
	if hrp != "sp" {
		t.Errorf("hrp = %q, want %q", hrp, "sp")
	}
	if !bytes.Equal(data, []byte{0xde, 0xad}) {
		t.Errorf("data = %x, want dead", data)
	}
}
