package wallet

import (
	"context"
	"time"

	"github.com/tetherto/wdk-wallet-spark-sub000/pkg/types"
)

// Direction filters transfer listings.
type Direction string

// Transfer directions.
const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
	DirectionAll      Direction = "all"
)

// Transfer is one movement of funds as reported by the network session.
type Transfer struct {
	ID                    string    `json:"id"`
	Direction             Direction `json:"direction"`
	AmountSats            uint64    `json:"amount_sats"`
	CounterpartyPublicKey string    `json:"counterparty_public_key,omitempty"`
	Status                string    `json:"status,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
}

// Balance is the spendable state of an account.
type Balance struct {
	Sats          uint64            `json:"sats"`
	TokenBalances map[string]uint64 `json:"token_balances,omitempty"`
}

// Invoice is a Lightning invoice created through the session.
type Invoice struct {
	PaymentRequest string `json:"payment_request"`
	PaymentHash    string `json:"payment_hash"`
	AmountSats     uint64 `json:"amount_sats"`
	Memo           string `json:"memo,omitempty"`
}

// Withdrawal is an on-chain exit initiated through the session.
type Withdrawal struct {
	ID         string `json:"id"`
	TxID       string `json:"txid,omitempty"`
	AmountSats uint64 `json:"amount_sats"`
	Address    string `json:"address"`
	Status     string `json:"status,omitempty"`
}

// Session is the capability handle onto the external Spark SDK. The
// library never implements the settlement protocol itself: a Session is
// injected per account, already bound to that account's Signer so the
// network layer can request protocol signatures without holding raw
// private keys.
//
// List calls take a raw (limit, offset) window; direction filtering is
// the facade's job, not the session's.
type Session interface {
	Balance(ctx context.Context) (*Balance, error)
	Transfer(ctx context.Context, receiverAddress string, amountSats uint64) (*Transfer, error)
	Withdraw(ctx context.Context, onchainAddress string, amountSats uint64) (*Withdrawal, error)
	CreateLightningInvoice(ctx context.Context, amountSats uint64, memo string) (*Invoice, error)
	PayLightningInvoice(ctx context.Context, paymentRequest string, maxFeeSats uint64) (*Transfer, error)
	Transfers(ctx context.Context, limit, offset int) ([]Transfer, error)
	UnusedDepositAddresses(ctx context.Context, limit, offset int) ([]string, error)
	CleanupConnections(ctx context.Context) error
}

// SessionFactory builds a network session for one account. The choice
// of session implementation is made once, at Manager construction,
// never through a mutable package-level variable.
type SessionFactory func(ctx context.Context, signer *Signer, network types.Network) (Session, error)
