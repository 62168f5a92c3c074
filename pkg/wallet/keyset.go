package wallet

// KeyPair holds the two halves of one derived key.
type KeyPair struct {
	PrivateKey []byte
	PublicKey  []byte
}

// valid reports whether both halves are present.
func (kp *KeyPair) valid() bool {
	return kp != nil && len(kp.PrivateKey) > 0 && len(kp.PublicKey) > 0
}

// KeySet is the named key mapping produced by one derivation call.
// A KeySet is only ever returned fully populated: if any sub-key fails
// validation, the whole derivation fails.
type KeySet struct {
	// Path is the root derivation path the set was derived from,
	// e.g. "m/8797555'/0'/1'".
	Path string

	Master        *KeyPair
	Identity      *KeyPair
	Signing       *KeyPair
	Deposit       *KeyPair
	StaticDeposit *KeyPair
	HTLCPreimage  *KeyPair
}

// namedPairs returns the sub-keys in a stable order with their names.
func (ks *KeySet) namedPairs() []struct {
	Name string
	Pair *KeyPair
} {
	return []struct {
		Name string
		Pair *KeyPair
	}{
		{KeyNameMaster, ks.Master},
		{KeyNameIdentity, ks.Identity},
		{KeyNameSigning, ks.Signing},
		{KeyNameDeposit, ks.Deposit},
		{KeyNameStaticDeposit, ks.StaticDeposit},
		{KeyNameHTLCPreimage, ks.HTLCPreimage},
	}
}

// validate enforces the all-or-nothing invariant: every key in the set
// must have both a non-empty private and public component.
func (ks *KeySet) validate() error {
	if !ks.Master.valid() {
		return &ValidationError{Field: "master"}
	}
	for _, named := range ks.namedPairs() {
		if !named.Pair.valid() {
			return &ValidationError{Field: "derivedKeys", Value: named.Name}
		}
	}
	return nil
}

// wipe zeroes every private key half in the set. Used when a partially
// built set must be discarded.
func (ks *KeySet) wipe() {
	for _, named := range ks.namedPairs() {
		if named.Pair == nil {
			continue
		}
		for i := range named.Pair.PrivateKey {
			named.Pair.PrivateKey[i] = 0
		}
	}
}
