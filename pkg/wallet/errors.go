package wallet

import (
	"errors"
	"fmt"
)

var (
	// ErrSignerDisposed is returned when signing or reading key material
	// after Dispose().
	ErrSignerDisposed = errors.New("signer has been disposed")

	// ErrSignerNotInitialized is returned when signing before a
	// successful Initialize().
	ErrSignerNotInitialized = errors.New("signer is not initialized")

	// ErrInvalidChildIndex is returned for negative or out-of-range
	// derivation indices. Derivation never wraps or defaults an index.
	ErrInvalidChildIndex = errors.New("invalid child index")

	// ErrInvalidMnemonic is returned for a seed phrase that fails
	// BIP-39 wordlist or checksum validation.
	ErrInvalidMnemonic = errors.New("invalid mnemonic")

	// ErrUnsupportedOperation is returned for operations that are not
	// meaningful for the account or network variant, such as signing
	// with a read-only account. Always returned immediately, never a
	// silent no-op.
	ErrUnsupportedOperation = errors.New("operation not supported for this account")

	// ErrManagerClosed is returned when requesting accounts from a
	// closed Manager.
	ErrManagerClosed = errors.New("wallet manager is closed")

	// ErrUnknownPublicKey is returned when the signer holds no private
	// key matching a given public key.
	ErrUnknownPublicKey = errors.New("no private key for public key")
)

// ValidationError reports malformed or missing derivation output. It is
// never retried: partial key material is unusable.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("derivation validation failed for %q", e.Field)
	if e.Value != "" {
		msg += fmt.Sprintf(" (value %q)", e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// MalformedInputError reports a signature or key that fails basic
// encoding checks during verification. Distinct from a well-formed
// signature that simply does not verify.
type MalformedInputError struct {
	Field string
	Err   error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed %s: %v", e.Field, e.Err)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}
