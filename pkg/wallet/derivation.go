package wallet

import (
	"fmt"

	"github.com/tyler-smith/go-bip32"
)

// Spark derivation path constants. The canonical template is the flat,
// fully hardened form
//
//	m/8797555'/accountNumber'/index'
//
// with one hardened leaf per named sub-key appended to the root. The
// identity key is the root itself.
const (
	// PurposeSpark is the hardened purpose segment.
	PurposeSpark = bip32.FirstHardenedChild + 8797555

	// Hardened leaf indices for the named sub-keys.
	leafSigning       = 0
	leafDeposit       = 1
	leafStaticDeposit = 2
	leafHTLCPreimage  = 3
)

// Names of the derived sub-keys as stored by the Signer.
const (
	KeyNameMaster        = "master"
	KeyNameIdentity      = "identity"
	KeyNameSigning       = "signing"
	KeyNameDeposit       = "deposit"
	KeyNameStaticDeposit = "static_deposit"
	KeyNameHTLCPreimage  = "htlc_preimage"
)

// DerivationPath renders the root path for an (accountNumber, index)
// pair. Indices must be non-negative and below the hardened threshold.
func DerivationPath(accountNumber, index int) (string, error) {
	if err := checkIndex(accountNumber); err != nil {
		return "", err
	}
	if err := checkIndex(index); err != nil {
		return "", err
	}
	return fmt.Sprintf("m/8797555'/%d'/%d'", accountNumber, index), nil
}

// checkIndex rejects indices the derivation engine cannot represent as
// a hardened child. Negative values are a hard error, never wrapped.
func checkIndex(index int) error {
	if index < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidChildIndex, index)
	}
	if uint64(index) >= uint64(bip32.FirstHardenedChild) {
		return fmt.Errorf("%w: %d exceeds hardened range", ErrInvalidChildIndex, index)
	}
	return nil
}

// DeriveKeys deterministically derives the named key set for one account
// from seed bytes. The same (seed, accountNumber, index) input always
// yields byte-identical output.
//
// Derivation is all-or-nothing: if the master key or any sub-key is
// missing either half, no key set is returned and any partially derived
// private material is wiped before the error propagates.
func DeriveKeys(seed []byte, accountNumber, index int) (*KeySet, error) {
	if err := checkIndex(accountNumber); err != nil {
		return nil, err
	}
	if err := checkIndex(index); err != nil {
		return nil, err
	}

	master, err := newMasterKey(seed)
	if err != nil {
		return nil, err
	}
	masterPair := pairFromKey(master)
	if !masterPair.valid() {
		return nil, &ValidationError{Field: "master"}
	}

	root, err := master.derivePath(
		PurposeSpark,
		bip32.FirstHardenedChild+uint32(accountNumber),
		bip32.FirstHardenedChild+uint32(index),
	)
	if err != nil {
		return nil, fmt.Errorf("derive account root: %w", err)
	}

	path, err := DerivationPath(accountNumber, index)
	if err != nil {
		return nil, err
	}

	ks := &KeySet{
		Path:   path,
		Master: masterPair,
		// The identity key is the account root itself.
		Identity: pairFromKey(root),
	}

	leaves := []struct {
		index uint32
		dst   **KeyPair
	}{
		{leafSigning, &ks.Signing},
		{leafDeposit, &ks.Deposit},
		{leafStaticDeposit, &ks.StaticDeposit},
		{leafHTLCPreimage, &ks.HTLCPreimage},
	}
	for _, leaf := range leaves {
		child, err := root.deriveChild(bip32.FirstHardenedChild + leaf.index)
		if err != nil {
			ks.wipe()
			// Index errors from the curve math propagate unchanged.
			return nil, err
		}
		*leaf.dst = pairFromKey(child)
	}

	if err := ks.validate(); err != nil {
		ks.wipe()
		return nil, err
	}
	return ks, nil
}

// pairFromKey copies both halves of an HD key into a KeyPair. The
// copies are owned by the caller, so wiping them later cannot corrupt
// the bip32 node they came from.
func pairFromKey(k *hdKey) *KeyPair {
	priv := k.privateKeyBytes()
	pub := k.publicKeyBytes()

	pair := &KeyPair{}
	if len(priv) > 0 {
		pair.PrivateKey = make([]byte, len(priv))
		copy(pair.PrivateKey, priv)
	}
	if len(pub) > 0 {
		pair.PublicKey = make([]byte, len(pub))
		copy(pair.PublicKey, pub)
	}
	return pair
}
