package wallet

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tetherto/wdk-wallet-spark-sub000/pkg/explorer"
	"github.com/tetherto/wdk-wallet-spark-sub000/pkg/types"
)

// ReadOnlyAccount queries public state for a single address through a
// block-explorer API. It holds no private key material: every signing
// or spending operation fails immediately with ErrUnsupportedOperation.
type ReadOnlyAccount struct {
	address types.Address
	network types.Network
	client  *explorer.Client
	log     zerolog.Logger
}

// NewReadOnlyAccount builds a read-only account for a bech32m Spark
// address on the given network.
func NewReadOnlyAccount(client *explorer.Client, address string, network types.Network, logger zerolog.Logger) (*ReadOnlyAccount, error) {
	if client == nil {
		return nil, fmt.Errorf("explorer client must not be nil")
	}
	addr, err := types.ParseAddress(address, network)
	if err != nil {
		return nil, err
	}
	return &ReadOnlyAccount{
		address: addr,
		network: network,
		client:  client,
		log:     logger.With().Str("component", "readonly-account").Logger(),
	}, nil
}

// Address returns the account's bech32m address.
func (r *ReadOnlyAccount) Address() (string, error) {
	return r.address.Encode(r.network)
}

// Network returns the Spark network the account is bound to.
func (r *ReadOnlyAccount) Network() types.Network {
	return r.network
}

// Balance fetches the address's balance from the explorer.
func (r *ReadOnlyAccount) Balance(ctx context.Context) (*Balance, error) {
	addr, err := r.Address()
	if err != nil {
		return nil, err
	}
	sats, err := r.client.AddressBalance(ctx, addr)
	if err != nil {
		return nil, err
	}
	return &Balance{Sats: sats}, nil
}

// Transfers lists the address's transfer history with the same
// pagination contract as an active account: client-side direction
// filtering, then the [skip, skip+limit) window.
func (r *ReadOnlyAccount) Transfers(ctx context.Context, opts ListOptions) ([]Transfer, error) {
	addr, err := r.Address()
	if err != nil {
		return nil, err
	}

	fetch := func(ctx context.Context, limit, offset int) ([]Transfer, error) {
		records, err := r.client.AddressTransfers(ctx, addr, limit, offset)
		if err != nil {
			return nil, err
		}
		transfers := make([]Transfer, 0, len(records))
		for _, rec := range records {
			transfers = append(transfers, Transfer{
				ID:         rec.ID,
				Direction:  Direction(rec.Direction),
				AmountSats: rec.AmountSats,
				CreatedAt:  rec.CreatedAt,
			})
		}
		return transfers, nil
	}

	opts = opts.normalize()
	return paginate(ctx, opts, fetch, func(t Transfer) bool {
		return opts.matches(t.Direction)
	})
}

// VerifyMessage verifies a signature against a public key. Verification
// needs no private material, so it is available read-only.
func (r *ReadOnlyAccount) VerifyMessage(message, signature, publicKey []byte) (bool, error) {
	var s Signer
	return s.Verify(message, signature, publicKey)
}

// SignMessage always fails: a read-only account cannot sign.
func (r *ReadOnlyAccount) SignMessage([]byte) ([]byte, error) {
	return nil, fmt.Errorf("%w: sign with read-only account", ErrUnsupportedOperation)
}

// Transfer always fails: a read-only account cannot spend.
func (r *ReadOnlyAccount) Transfer(context.Context, string, uint64) (*Transfer, error) {
	return nil, fmt.Errorf("%w: transfer with read-only account", ErrUnsupportedOperation)
}

// Withdraw always fails: a read-only account cannot spend.
func (r *ReadOnlyAccount) Withdraw(context.Context, string, uint64) (*Withdrawal, error) {
	return nil, fmt.Errorf("%w: withdraw with read-only account", ErrUnsupportedOperation)
}

// CreateLightningInvoice always fails: invoices require a live session.
func (r *ReadOnlyAccount) CreateLightningInvoice(context.Context, uint64, string) (*Invoice, error) {
	return nil, fmt.Errorf("%w: create invoice with read-only account", ErrUnsupportedOperation)
}
