// Package types defines core primitive types for the Spark wallet adapter.
package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// AddressSize is the length of an address payload in bytes: a compressed
// secp256k1 identity public key.
const AddressSize = 33

// Network identifies a Spark network variant. The network selects the
// bech32m human-readable part used when rendering addresses.
type Network string

// Supported Spark networks.
const (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
	Regtest Network = "regtest"
)

// HRP returns the bech32m human-readable part for the network.
func (n Network) HRP() (string, error) {
	switch n {
	case Mainnet:
		return "sp", nil
	case Testnet:
		return "spt", nil
	case Regtest:
		return "sprt", nil
	default:
		return "", fmt.Errorf("unknown network %q", string(n))
	}
}

// Valid reports whether the network is one of the supported variants.
func (n Network) Valid() bool {
	_, err := n.HRP()
	return err == nil
}

// Address is a Spark address: the account's compressed identity public key,
// rendered as bech32m with a network-specific HRP.
type Address [AddressSize]byte

// NewAddress builds an address from a compressed public key.
func NewAddress(pubKey []byte) (Address, error) {
	if len(pubKey) != AddressSize {
		return Address{}, fmt.Errorf("address payload must be %d bytes, got %d", AddressSize, len(pubKey))
	}
	var a Address
	copy(a[:], pubKey)
	return a, nil
}

// IsZero returns true if the address is all zeros.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Encode returns the bech32m-encoded address for the given network
// (e.g. "sp1...").
func (a Address) Encode(network Network) (string, error) {
	hrp, err := network.HRP()
	if err != nil {
		return "", err
	}
	return Bech32mEncode(hrp, a[:])
}

// Hex returns the raw hex-encoded identity public key.
func (a Address) Hex() string {
	return hex.EncodeToString(a[:])
}

// Bytes returns a copy of the address payload as a byte slice.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressSize)
	copy(b, a[:])
	return b
}

// MarshalJSON encodes the address payload as a hex string. The bech32m
// form is network-dependent, so JSON carries the raw payload.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Hex())
}

// UnmarshalJSON decodes a hex string into an address payload.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*a = Address{}
		return nil
	}
	parsed, err := HexToAddress(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAddress parses a bech32m Spark address and verifies it belongs to
// the given network.
func ParseAddress(s string, network Network) (Address, error) {
	if s == "" {
		return Address{}, fmt.Errorf("empty address")
	}
	wantHRP, err := network.HRP()
	if err != nil {
		return Address{}, err
	}

	hrp, data, err := Bech32mDecode(s)
	if err != nil {
		return Address{}, fmt.Errorf("invalid spark address: %w", err)
	}
	if hrp != wantHRP {
		return Address{}, fmt.Errorf("address HRP %q does not match network %q", hrp, string(network))
	}
	if len(data) != AddressSize {
		return Address{}, fmt.Errorf("address payload must be %d bytes, got %d", AddressSize, len(data))
	}

	var a Address
	copy(a[:], data)
	return a, nil
}

// HexToAddress converts a raw hex public key string to an Address.
// For user-facing bech32m input use ParseAddress instead.
func HexToAddress(s string) (Address, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Address{}, fmt.Errorf("invalid hex: %w", err)
	}
	if len(b) != AddressSize {
		return Address{}, fmt.Errorf("address payload must be %d bytes, got %d", AddressSize, len(b))
	}
	var a Address
	copy(a[:], b)
	return a, nil
}
