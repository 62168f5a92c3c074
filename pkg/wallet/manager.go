package wallet

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tetherto/wdk-wallet-spark-sub000/pkg/securebuf"
	"github.com/tetherto/wdk-wallet-spark-sub000/pkg/types"
)

// Config parameterizes a Manager. The session strategy is fixed here,
// at construction time.
type Config struct {
	// Network selects the Spark network variant (address HRP, token
	// support).
	Network types.Network

	// AccountNumber is the hardened account segment shared by every
	// derived account. Defaults to 0.
	AccountNumber int

	// SessionFactory builds the network session for each account. May
	// be nil for offline use: accounts can then derive addresses and
	// sign, but delegated operations fail with a typed error.
	SessionFactory SessionFactory

	// Logger is the parent logger; a zerolog.Nop() default is applied
	// when left unset.
	Logger *zerolog.Logger
}

func (c *Config) validate() error {
	if !c.Network.Valid() {
		return fmt.Errorf("unknown network %q", string(c.Network))
	}
	if err := checkIndex(c.AccountNumber); err != nil {
		return fmt.Errorf("account number: %w", err)
	}
	return nil
}

func (c *Config) logger() zerolog.Logger {
	if c.Logger != nil {
		return *c.Logger
	}
	return zerolog.Nop()
}

// Manager is the top-level entry point: it validates and holds the
// seed, and constructs one Signer + Session + Account per requested
// index. Accounts are cached, so the same index always returns the same
// facade until Close.
type Manager struct {
	cfg  Config
	seed *securebuf.Buffer
	log  zerolog.Logger

	mu       sync.Mutex
	accounts map[int]*Account
	closed   bool
}

// NewManager creates a Manager from raw seed bytes. The seed is copied
// into a secure buffer and wiped on Close; the core never persists it.
func NewManager(cfg Config, seed []byte) (*Manager, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(seed) < MinSeedSize || len(seed) > MaxSeedSize {
		return nil, fmt.Errorf("seed must be between %d and %d bytes, got %d",
			MinSeedSize, MaxSeedSize, len(seed))
	}

	buf, err := securebuf.New(seed)
	if err != nil {
		return nil, fmt.Errorf("store seed: %w", err)
	}

	return &Manager{
		cfg:      cfg,
		seed:     buf,
		log:      cfg.logger().With().Str("component", "wallet").Logger(),
		accounts: make(map[int]*Account),
	}, nil
}

// NewManagerFromMnemonic creates a Manager from a BIP-39 seed phrase.
// The phrase must pass checksum and wordlist validation.
func NewManagerFromMnemonic(cfg Config, mnemonic, passphrase string) (*Manager, error) {
	seed, err := SeedFromMnemonic(mnemonic, passphrase)
	if err != nil {
		return nil, err
	}
	defer func() {
		for i := range seed {
			seed[i] = 0
		}
	}()
	return NewManager(cfg, seed)
}

// Account returns the wallet account at the given index, constructing
// its signer and network session on first use. A negative index is a
// hard error from the derivation engine, never wrapped to a default.
func (m *Manager) Account(ctx context.Context, index int) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrManagerClosed
	}
	if acct, ok := m.accounts[index]; ok {
		return acct, nil
	}

	seed, err := m.seed.Bytes()
	if err != nil {
		return nil, ErrManagerClosed
	}

	signer := NewSigner(m.log.With().Str("component", "signer").Logger())
	if err := signer.Initialize(seed, m.cfg.AccountNumber, index); err != nil {
		return nil, err
	}

	var session Session
	if m.cfg.SessionFactory != nil {
		session, err = m.cfg.SessionFactory(ctx, signer, m.cfg.Network)
		if err != nil {
			signer.Dispose()
			return nil, fmt.Errorf("create session: %w", err)
		}
	}

	acct := newAccount(index, m.cfg.Network, signer, session, m.log)
	m.accounts[index] = acct

	m.log.Info().Int("index", index).Msg("account opened")
	return acct, nil
}

// Close disposes every open account and wipes the seed. Idempotent:
// closing twice is a no-op. Disposal flows in reverse of construction,
// facade first, then signer secrets.
func (m *Manager) Close(ctx context.Context) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	accounts := make([]*Account, 0, len(m.accounts))
	for _, acct := range m.accounts {
		accounts = append(accounts, acct)
	}
	m.accounts = make(map[int]*Account)
	m.mu.Unlock()

	for _, acct := range accounts {
		acct.Dispose(ctx)
	}
	m.seed.Wipe()

	m.log.Info().Msg("wallet manager closed")
}

// Closed reports whether Close has run.
func (m *Manager) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
