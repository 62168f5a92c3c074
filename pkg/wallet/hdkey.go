package wallet

import (
	"fmt"

	"github.com/tyler-smith/go-bip32"
)

// Seed length bounds in bytes (BIP-32). BIP-39 seeds are always 64 bytes.
const (
	MinSeedSize = 16
	MaxSeedSize = 64
)

// hdKey wraps a BIP-32 extended key. It exists so the rest of the
// package never touches the bip32 library's representation directly.
type hdKey struct {
	key *bip32.Key
}

// newMasterKey creates a master HD key from seed bytes.
func newMasterKey(seed []byte) (*hdKey, error) {
	if len(seed) < MinSeedSize || len(seed) > MaxSeedSize {
		return nil, fmt.Errorf("seed must be between %d and %d bytes, got %d",
			MinSeedSize, MaxSeedSize, len(seed))
	}
	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("create master key: %w", err)
	}
	return &hdKey{key: master}, nil
}

// deriveChild derives a child key at the given index. For hardened
// derivation, add bip32.FirstHardenedChild to the index.
func (k *hdKey) deriveChild(index uint32) (*hdKey, error) {
	child, err := k.key.NewChildKey(index)
	if err != nil {
		return nil, fmt.Errorf("derive child %d: %w", index, err)
	}
	return &hdKey{key: child}, nil
}

// derivePath derives a key along a sequence of indices.
func (k *hdKey) derivePath(indices ...uint32) (*hdKey, error) {
	current := k
	for _, idx := range indices {
		child, err := current.deriveChild(idx)
		if err != nil {
			return nil, err
		}
		current = child
	}
	return current, nil
}

// privateKeyBytes returns the raw 32-byte private key, or nil for a
// public-only key.
func (k *hdKey) privateKeyBytes() []byte {
	if !k.key.IsPrivate {
		return nil
	}
	// bip32 Key.Key is 33 bytes with a leading 0x00 for private keys.
	raw := k.key.Key
	if len(raw) == 33 && raw[0] == 0 {
		return raw[1:]
	}
	return raw
}

// publicKeyBytes returns the compressed 33-byte public key.
func (k *hdKey) publicKeyBytes() []byte {
	pub := k.key.PublicKey()
	return pub.Key
}
