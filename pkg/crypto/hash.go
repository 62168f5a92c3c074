// Package crypto provides the cryptographic primitives used by the
// Spark wallet adapter: BLAKE3 digests and Schnorr signatures over
// secp256k1.
package crypto

import (
	"github.com/tetherto/wdk-wallet-spark-sub000/pkg/types"
	"github.com/zeebo/blake3"
)

// Hash computes a BLAKE3-256 hash of the input data.
func Hash(data []byte) types.Hash {
	return blake3.Sum256(data)
}

// MessageDigest computes the 32-byte digest that Sign and Verify operate
// on. Signing always goes through this function so a message of any
// length maps to a fixed-size Schnorr input.
func MessageDigest(message []byte) types.Hash {
	return Hash(message)
}

// Checksum returns the first n bytes of the BLAKE3 hash of data.
// Used for integrity fields in stored records.
func Checksum(data []byte, n int) []byte {
	h := Hash(data)
	if n > types.HashSize {
		n = types.HashSize
	}
	return h[:n]
}
