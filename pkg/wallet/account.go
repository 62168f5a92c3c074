package wallet

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tetherto/wdk-wallet-spark-sub000/pkg/types"
)

// Account binds one Signer to one live network session and exposes the
// uniform account contract. Signing stays local; balance, transfer,
// deposit, withdrawal and invoice operations delegate to the session
// with argument shaping and pagination handled here.
type Account struct {
	index   int
	network types.Network
	signer  *Signer
	session Session
	log     zerolog.Logger

	mu       sync.Mutex
	disposed bool
}

func newAccount(index int, network types.Network, signer *Signer, session Session, logger zerolog.Logger) *Account {
	return &Account{
		index:   index,
		network: network,
		signer:  signer,
		session: session,
		log:     logger.With().Int("account", index).Logger(),
	}
}

// Index returns the account index.
func (a *Account) Index() int {
	return a.index
}

// Network returns the Spark network the account is bound to.
func (a *Account) Network() types.Network {
	return a.network
}

// Path returns the account's root derivation path. Fails once the
// underlying signer is disposed.
func (a *Account) Path() (string, error) {
	return a.signer.Path()
}

// KeyPair returns copies of the identity key pair. Reading the key pair
// of a disposed account is a hard error, never an empty result.
func (a *Account) KeyPair() (*KeyPair, error) {
	return a.signer.IdentityKeyPair()
}

// Address returns the account's Spark address: the bech32m encoding of
// the identity public key for the account's network.
func (a *Account) Address() (string, error) {
	pub, err := a.signer.IdentityPublicKey()
	if err != nil {
		return "", err
	}
	addr, err := types.NewAddress(pub)
	if err != nil {
		return "", fmt.Errorf("build address: %w", err)
	}
	return addr.Encode(a.network)
}

// SignMessage signs a message with the account's identity key.
func (a *Account) SignMessage(message []byte) ([]byte, error) {
	return a.signer.Sign(message)
}

// VerifyMessage verifies a Schnorr signature over a message. Works even
// after disposal: verification never touches private material.
func (a *Account) VerifyMessage(message, signature, publicKey []byte) (bool, error) {
	return a.signer.Verify(message, signature, publicKey)
}

// Balance returns the account's spendable balance.
func (a *Account) Balance(ctx context.Context) (*Balance, error) {
	if err := a.checkUsable(); err != nil {
		return nil, err
	}
	return a.session.Balance(ctx)
}

// TokenBalance returns the balance of one token. Tokens only exist on
// mainnet; on other networks this is an immediate typed error, never a
// silent zero.
func (a *Account) TokenBalance(ctx context.Context, tokenID string) (uint64, error) {
	if a.network != types.Mainnet {
		return 0, fmt.Errorf("%w: token balance on %s", ErrUnsupportedOperation, a.network)
	}
	if err := a.checkUsable(); err != nil {
		return 0, err
	}
	bal, err := a.session.Balance(ctx)
	if err != nil {
		return 0, err
	}
	return bal.TokenBalances[tokenID], nil
}

// Transfer sends sats to a Spark address. The receiver address is
// validated against the account's network before it reaches the
// session.
func (a *Account) Transfer(ctx context.Context, receiverAddress string, amountSats uint64) (*Transfer, error) {
	if err := a.checkUsable(); err != nil {
		return nil, err
	}
	if _, err := types.ParseAddress(receiverAddress, a.network); err != nil {
		return nil, fmt.Errorf("receiver: %w", err)
	}
	a.log.Debug().Str("receiver", receiverAddress).Uint64("sats", amountSats).Msg("transfer")
	return a.session.Transfer(ctx, receiverAddress, amountSats)
}

// Withdraw initiates an on-chain exit to the given address.
func (a *Account) Withdraw(ctx context.Context, onchainAddress string, amountSats uint64) (*Withdrawal, error) {
	if err := a.checkUsable(); err != nil {
		return nil, err
	}
	a.log.Debug().Str("address", onchainAddress).Uint64("sats", amountSats).Msg("withdraw")
	return a.session.Withdraw(ctx, onchainAddress, amountSats)
}

// CreateLightningInvoice creates an invoice payable to this account.
func (a *Account) CreateLightningInvoice(ctx context.Context, amountSats uint64, memo string) (*Invoice, error) {
	if err := a.checkUsable(); err != nil {
		return nil, err
	}
	return a.session.CreateLightningInvoice(ctx, amountSats, memo)
}

// PayLightningInvoice pays a Lightning invoice from this account.
func (a *Account) PayLightningInvoice(ctx context.Context, paymentRequest string, maxFeeSats uint64) (*Transfer, error) {
	if err := a.checkUsable(); err != nil {
		return nil, err
	}
	if paymentRequest == "" {
		return nil, fmt.Errorf("payment request must not be empty")
	}
	return a.session.PayLightningInvoice(ctx, paymentRequest, maxFeeSats)
}

// Transfers lists the account's transfer history. Direction filtering
// happens client-side, before the [skip, skip+limit) window is applied,
// preserving source order.
func (a *Account) Transfers(ctx context.Context, opts ListOptions) ([]Transfer, error) {
	if err := a.checkUsable(); err != nil {
		return nil, err
	}
	opts = opts.normalize()
	return paginate(ctx, opts, a.session.Transfers, func(t Transfer) bool {
		return opts.matches(t.Direction)
	})
}

// UnusedDepositAddresses lists deposit addresses that have not seen
// funds yet. Direction does not apply here; limit/skip follow the same
// pagination contract as Transfers.
func (a *Account) UnusedDepositAddresses(ctx context.Context, opts ListOptions) ([]string, error) {
	if err := a.checkUsable(); err != nil {
		return nil, err
	}
	opts.Direction = DirectionAll
	return paginate(ctx, opts, a.session.UnusedDepositAddresses, func(string) bool {
		return true
	})
}

// Dispose releases the session's connections and wipes the signer's
// secrets, in that order. Effectively-once: repeat calls no-op. Cleanup
// must not become a new failure mode, so a session cleanup error is
// logged and disposal continues.
func (a *Account) Dispose(ctx context.Context) {
	a.mu.Lock()
	if a.disposed {
		a.mu.Unlock()
		return
	}
	a.disposed = true
	a.mu.Unlock()

	if a.session != nil {
		if err := a.session.CleanupConnections(ctx); err != nil {
			a.log.Warn().Err(err).Msg("session cleanup failed during dispose")
		}
	}
	a.signer.Dispose()
}

// Disposed reports whether Dispose has run.
func (a *Account) Disposed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.disposed
}

func (a *Account) checkUsable() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.disposed {
		return ErrSignerDisposed
	}
	if a.session == nil {
		return fmt.Errorf("%w: account has no network session", ErrUnsupportedOperation)
	}
	return nil
}
