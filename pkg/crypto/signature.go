package crypto

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/schnorr"
)

// PrivateKeySize is the length of a serialized private key scalar.
const PrivateKeySize = 32

// PublicKeySize is the length of a compressed public key.
const PublicKeySize = 33

// SignatureSize is the length of a serialized Schnorr signature.
const SignatureSize = 64

// Signer signs messages with a private key using Schnorr/secp256k1.
type Signer interface {
	// Sign produces a Schnorr signature over a 32-byte hash.
	Sign(hash []byte) ([]byte, error)
	// PublicKey returns the compressed 33-byte public key.
	PublicKey() []byte
}

// PrivateKey wraps a secp256k1 private key for Schnorr signing.
type PrivateKey struct {
	key *secp256k1.PrivateKey
}

// GenerateKey creates a new random secp256k1 private key.
func GenerateKey() (*PrivateKey, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return &PrivateKey{key: key}, nil
}

// PrivateKeyFromBytes creates a PrivateKey from a 32-byte secret.
func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != PrivateKeySize {
		return nil, fmt.Errorf("private key must be %d bytes, got %d", PrivateKeySize, len(b))
	}
	key := secp256k1.PrivKeyFromBytes(b)
	return &PrivateKey{key: key}, nil
}

// Sign produces a Schnorr (BIP-340) signature over a 32-byte hash.
// Schnorr signing here is deterministic: the same key and hash always
// produce the same signature.
func (pk *PrivateKey) Sign(hash []byte) ([]byte, error) {
	if len(hash) != 32 {
		return nil, fmt.Errorf("hash must be 32 bytes, got %d", len(hash))
	}
	sig, err := schnorr.Sign(pk.key, hash)
	if err != nil {
		return nil, fmt.Errorf("schnorr sign: %w", err)
	}
	return sig.Serialize(), nil
}

// PublicKey returns the compressed 33-byte public key.
func (pk *PrivateKey) PublicKey() []byte {
	return pk.key.PubKey().SerializeCompressed()
}

// Serialize returns the 32-byte private key scalar.
func (pk *PrivateKey) Serialize() []byte {
	return pk.key.Serialize()
}

// Zero securely zeroes the private key memory.
func (pk *PrivateKey) Zero() {
	pk.key.Zero()
}

// ParsePublicKey parses a compressed 33-byte public key. The error
// distinguishes a malformed key from a valid key that fails
// verification later.
func ParsePublicKey(b []byte) (*secp256k1.PublicKey, error) {
	pub, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	return pub, nil
}

// ParseSignature parses a 64-byte Schnorr signature. A malformed
// encoding is an error, never a failed verification.
func ParseSignature(b []byte) (*schnorr.Signature, error) {
	sig, err := schnorr.ParseSignature(b)
	if err != nil {
		return nil, fmt.Errorf("parse signature: %w", err)
	}
	return sig, nil
}

// Verify checks a Schnorr signature against a 32-byte hash and a
// compressed public key. Malformed signature or key encodings are
// reported as errors; a well-formed signature that does not match
// returns (false, nil).
func Verify(hash, signature, publicKey []byte) (bool, error) {
	pub, err := ParsePublicKey(publicKey)
	if err != nil {
		return false, err
	}
	sig, err := ParseSignature(signature)
	if err != nil {
		return false, err
	}
	return sig.Verify(hash, pub), nil
}

// VerifySignature checks a Schnorr signature against a 32-byte hash
// and a compressed public key. Returns false on any error. Callers that
// need to distinguish malformed input should use Verify.
func VerifySignature(hash, signature, publicKey []byte) bool {
	ok, err := Verify(hash, signature, publicKey)
	return err == nil && ok
}
