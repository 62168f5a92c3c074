package wallet

import (
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tetherto/wdk-wallet-spark-sub000/pkg/crypto"
	"github.com/tetherto/wdk-wallet-spark-sub000/pkg/securebuf"
)

// signerState tracks the signer lifecycle. There is no transition out
// of signerDisposed.
type signerState int

const (
	signerUninitialized signerState = iota
	signerActive
	signerDisposed
)

// keyEntry pairs one derived public key with its secret half. The
// secret lives in a secure buffer so disposal is observable.
type keyEntry struct {
	private *securebuf.Buffer
	public  []byte
}

// Signer owns the derived key material for one account. It signs with
// the identity key, resolves arbitrary public keys back to their
// private halves for the network session, and wipes every secret on
// Dispose().
//
// The mutex makes Dispose() happen-before any subsequent Sign(): a sign
// call never observes a half-wiped buffer.
type Signer struct {
	mu sync.RWMutex

	state         signerState
	accountNumber int
	index         int
	path          string

	keys        map[string]*keyEntry // key name -> entry
	byPublicKey map[string]string    // pubkey hex -> key name

	log zerolog.Logger
}

// NewSigner returns an uninitialized signer.
func NewSigner(logger zerolog.Logger) *Signer {
	return &Signer{
		keys:        make(map[string]*keyEntry),
		byPublicKey: make(map[string]string),
		log:         logger,
	}
}

// Initialize derives the account's key set from the seed and takes
// custody of it. On derivation failure the signer stays unusable: it is
// left in the uninitialized state with no key material stored.
func (s *Signer) Initialize(seed []byte, accountNumber, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case signerDisposed:
		return ErrSignerDisposed
	case signerActive:
		return fmt.Errorf("signer already initialized for path %s", s.path)
	}

	ks, err := DeriveKeys(seed, accountNumber, index)
	if err != nil {
		return err
	}
	defer ks.wipe()

	for _, named := range ks.namedPairs() {
		buf, err := securebuf.New(named.Pair.PrivateKey)
		if err != nil {
			s.wipeLocked()
			return &ValidationError{Field: "derivedKeys", Value: named.Name, Err: err}
		}
		pub := make([]byte, len(named.Pair.PublicKey))
		copy(pub, named.Pair.PublicKey)

		s.keys[named.Name] = &keyEntry{private: buf, public: pub}
		s.byPublicKey[hex.EncodeToString(pub)] = named.Name
	}

	s.accountNumber = accountNumber
	s.index = index
	s.path = ks.Path
	s.state = signerActive

	s.log.Debug().
		Str("path", s.path).
		Int("index", index).
		Msg("signer initialized")
	return nil
}

// Index returns the account index the signer was initialized with.
func (s *Signer) Index() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// Path returns the root derivation path, or an error once disposed.
func (s *Signer) Path() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkActiveLocked(); err != nil {
		return "", err
	}
	return s.path, nil
}

// Disposed reports whether Dispose() has run.
func (s *Signer) Disposed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == signerDisposed
}

// IdentityPublicKey returns a copy of the compressed identity public
// key, or an error once disposed.
func (s *Signer) IdentityPublicKey() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkActiveLocked(); err != nil {
		return nil, err
	}
	entry := s.keys[KeyNameIdentity]
	pub := make([]byte, len(entry.public))
	copy(pub, entry.public)
	return pub, nil
}

// IdentityKeyPair returns copies of both halves of the identity key.
// Reading the key pair of a disposed signer is a hard error, never an
// empty result. The caller owns the returned copies.
func (s *Signer) IdentityKeyPair() (*KeyPair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkActiveLocked(); err != nil {
		return nil, err
	}

	entry := s.keys[KeyNameIdentity]
	priv, err := entry.private.Bytes()
	if err != nil {
		return nil, ErrSignerDisposed
	}

	pair := &KeyPair{
		PrivateKey: make([]byte, len(priv)),
		PublicKey:  make([]byte, len(entry.public)),
	}
	copy(pair.PrivateKey, priv)
	copy(pair.PublicKey, entry.public)
	return pair, nil
}

// PublicKeys returns the hex-encoded public keys the signer can resolve
// to private material.
func (s *Signer) PublicKeys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkActiveLocked(); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(s.byPublicKey))
	for pub := range s.byPublicKey {
		out = append(out, pub)
	}
	return out, nil
}

// Sign signs a message with the identity key. The message is digested
// with BLAKE3-256 and signed with Schnorr/secp256k1, so the signature
// is deterministic for a fixed (key, message) pair.
func (s *Signer) Sign(message []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.signLocked(KeyNameIdentity, message)
}

// SignWithPublicKey signs a message with whichever private key matches
// the given public key. The network session uses this to have protocol
// messages signed without ever holding private material itself.
func (s *Signer) SignWithPublicKey(publicKey, message []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkActiveLocked(); err != nil {
		return nil, err
	}

	name, ok := s.byPublicKey[hex.EncodeToString(publicKey)]
	if !ok {
		return nil, fmt.Errorf("%w: %x", ErrUnknownPublicKey, publicKey)
	}
	return s.signLocked(name, message)
}

func (s *Signer) signLocked(name string, message []byte) ([]byte, error) {
	if err := s.checkActiveLocked(); err != nil {
		return nil, err
	}

	entry, ok := s.keys[name]
	if !ok {
		return nil, fmt.Errorf("no key named %q", name)
	}
	secret, err := entry.private.Bytes()
	if err != nil {
		// The buffer was wiped underneath us; surface the disposal,
		// never an opaque crypto failure.
		return nil, ErrSignerDisposed
	}

	priv, err := crypto.PrivateKeyFromBytes(secret)
	if err != nil {
		return nil, fmt.Errorf("load %s key: %w", name, err)
	}
	defer priv.Zero()

	digest := crypto.MessageDigest(message)
	sig, err := priv.Sign(digest[:])
	if err != nil {
		return nil, fmt.Errorf("sign with %s key: %w", name, err)
	}
	return sig, nil
}

// Verify checks a Schnorr signature over a message. Verification is a
// pure function of its inputs and works in any signer state: it never
// touches private material.
//
// A malformed signature or public key encoding is reported as a
// *MalformedInputError; a well-formed signature that does not match
// returns (false, nil).
func (s *Signer) Verify(message, signature, publicKey []byte) (bool, error) {
	if _, err := crypto.ParsePublicKey(publicKey); err != nil {
		return false, &MalformedInputError{Field: "public key", Err: err}
	}
	if _, err := crypto.ParseSignature(signature); err != nil {
		return false, &MalformedInputError{Field: "signature", Err: err}
	}

	digest := crypto.MessageDigest(message)
	return crypto.Verify(digest[:], signature, publicKey)
}

// VerifyHex is Verify with hex-encoded signature and public key, for
// callers that move signatures as strings.
func (s *Signer) VerifyHex(message []byte, signatureHex, publicKeyHex string) (bool, error) {
	sig, err := hex.DecodeString(signatureHex)
	if err != nil {
		return false, &MalformedInputError{Field: "signature", Err: err}
	}
	pub, err := hex.DecodeString(publicKeyHex)
	if err != nil {
		return false, &MalformedInputError{Field: "public key", Err: err}
	}
	return s.Verify(message, sig, pub)
}

// Dispose wipes every private key buffer, clears the lookup table and
// transitions to the disposed state. Idempotent and fail-soft: calling
// it twice, or on a signer that never initialized, is a no-op.
func (s *Signer) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == signerDisposed {
		return
	}
	s.wipeLocked()
	s.state = signerDisposed

	s.log.Debug().Str("path", s.path).Msg("signer disposed")
}

func (s *Signer) wipeLocked() {
	for _, entry := range s.keys {
		if entry.private != nil {
			entry.private.Wipe()
		}
	}
	s.keys = make(map[string]*keyEntry)
	s.byPublicKey = make(map[string]string)
}

func (s *Signer) checkActiveLocked() error {
	switch s.state {
	case signerDisposed:
		return ErrSignerDisposed
	case signerUninitialized:
		return ErrSignerNotInitialized
	}
	return nil
}
