// Package keystore persists encrypted wallet seeds and derived-account
// metadata in a key-value database. Seeds are encrypted with a passphrase
// (Argon2id + XChaCha20-Poly1305); everything else is plaintext JSON.
package keystore

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tetherto/wdk-wallet-spark-sub000/internal/storage"
	"github.com/tetherto/wdk-wallet-spark-sub000/pkg/crypto"
	"github.com/tetherto/wdk-wallet-spark-sub000/pkg/types"
)

// Sentinel errors.
var (
	ErrWalletExists   = errors.New("wallet already exists")
	ErrWalletNotFound = errors.New("wallet not found")
	ErrBadPassphrase  = errors.New("invalid passphrase or corrupted seed")
)

const (
	recordVersion = 1
	checksumSize  = 4
)

// walletRecord is the stored form of an encrypted wallet.
type walletRecord struct {
	Version       int           `json:"version"`
	CreatedAt     time.Time     `json:"created_at"`
	Network       types.Network `json:"network"`
	EncryptedSeed []byte        `json:"encrypted_seed"`
	// SeedChecksum is a truncated BLAKE3 hash of the plaintext seed,
	// used to distinguish a wrong passphrase from silent corruption.
	SeedChecksum []byte `json:"seed_checksum"`
}

// AccountEntry stores metadata for a derived account.
type AccountEntry struct {
	Index     int       `json:"index"`
	Address   string    `json:"address"`
	Label     string    `json:"label,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store manages encrypted wallets in a storage.DB.
type Store struct {
	db  storage.DB
	log zerolog.Logger
}

// New creates a store over the given database.
func New(db storage.DB, logger zerolog.Logger) *Store {
	return &Store{db: db, log: logger}
}

func recordKey(name string) []byte {
	return []byte("wallet/" + name + "/record")
}

func accountPrefix(name string) []byte {
	return []byte("wallet/" + name + "/acct/")
}

func accountKey(name string, index int) []byte {
	return []byte(fmt.Sprintf("wallet/%s/acct/%08d", name, index))
}

// Create encrypts seed under passphrase and stores it as a new wallet.
func (s *Store) Create(name string, seed, passphrase []byte, network types.Network, params EncryptionParams) error {
	if name == "" {
		return errors.New("wallet name must not be empty")
	}
	exists, err := s.db.Has(recordKey(name))
	if err != nil {
		return fmt.Errorf("check wallet %q: %w", name, err)
	}
	if exists {
		return fmt.Errorf("wallet %q: %w", name, ErrWalletExists)
	}

	encrypted, err := Encrypt(seed, passphrase, params)
	if err != nil {
		return fmt.Errorf("encrypt seed: %w", err)
	}

	rec := walletRecord{
		Version:       recordVersion,
		CreatedAt:     time.Now().UTC(),
		Network:       network,
		EncryptedSeed: encrypted,
		SeedChecksum:  crypto.Checksum(seed, checksumSize),
	}
	if err := s.putRecord(name, &rec); err != nil {
		return err
	}

	s.log.Info().Str("wallet", name).Str("network", string(network)).Msg("wallet created")
	return nil
}

// Unseal decrypts a wallet and returns the seed bytes and the network the
// wallet was created for. The caller owns the returned seed and should zero
// it when done.
func (s *Store) Unseal(name string, passphrase []byte) ([]byte, types.Network, error) {
	rec, err := s.getRecord(name)
	if err != nil {
		return nil, "", err
	}

	seed, err := Decrypt(rec.EncryptedSeed, passphrase)
	if err != nil {
		return nil, "", fmt.Errorf("wallet %q: %w", name, ErrBadPassphrase)
	}

	if len(rec.SeedChecksum) == checksumSize {
		sum := crypto.Checksum(seed, checksumSize)
		match := true
		for i := range sum {
			if sum[i] != rec.SeedChecksum[i] {
				match = false
				break
			}
		}
		if !match {
			for i := range seed {
				seed[i] = 0
			}
			return nil, "", fmt.Errorf("wallet %q: seed checksum mismatch: %w", name, ErrBadPassphrase)
		}
	}

	return seed, rec.Network, nil
}

// Has reports whether a wallet with the given name exists.
func (s *Store) Has(name string) (bool, error) {
	return s.db.Has(recordKey(name))
}

// List returns the names of all stored wallets.
func (s *Store) List() ([]string, error) {
	var names []string
	err := s.db.ForEach([]byte("wallet/"), func(key, _ []byte) error {
		k := string(key)
		// wallet/<name>/record
		const prefix, suffix = "wallet/", "/record"
		if len(k) > len(prefix)+len(suffix) && k[len(k)-len(suffix):] == suffix {
			names = append(names, k[len(prefix):len(k)-len(suffix)])
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	return names, nil
}

// Delete removes a wallet and all of its account metadata.
func (s *Store) Delete(name string) error {
	exists, err := s.db.Has(recordKey(name))
	if err != nil {
		return fmt.Errorf("check wallet %q: %w", name, err)
	}
	if !exists {
		return fmt.Errorf("wallet %q: %w", name, ErrWalletNotFound)
	}

	ns := storage.NewPrefixDB(s.db, []byte("wallet/"+name+"/"))
	if err := ns.DeleteAll(); err != nil {
		return fmt.Errorf("delete wallet %q: %w", name, err)
	}

	s.log.Info().Str("wallet", name).Msg("wallet deleted")
	return nil
}

// PutAccount records a derived account in the wallet metadata. Re-recording
// the same index with the same address is idempotent; a different address at
// the same index is an error.
func (s *Store) PutAccount(name string, entry AccountEntry) error {
	if _, err := s.getRecord(name); err != nil {
		return err
	}

	key := accountKey(name, entry.Index)
	raw, err := s.db.Get(key)
	if err == nil {
		var existing AccountEntry
		if err := json.Unmarshal(raw, &existing); err != nil {
			return fmt.Errorf("parse account entry: %w", err)
		}
		if existing.Address == entry.Address {
			return nil
		}
		return fmt.Errorf("account index %d already recorded with a different address", entry.Index)
	}
	if !errors.Is(err, storage.ErrKeyNotFound) {
		return fmt.Errorf("read account entry: %w", err)
	}

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal account entry: %w", err)
	}
	return s.db.Put(key, data)
}

// Accounts returns the recorded account entries for a wallet, ordered by
// index (the key encoding is zero-padded, but map-backed stores iterate in
// arbitrary order, so the result is sorted explicitly).
func (s *Store) Accounts(name string) ([]AccountEntry, error) {
	if _, err := s.getRecord(name); err != nil {
		return nil, err
	}

	var entries []AccountEntry
	err := s.db.ForEach(accountPrefix(name), func(_, value []byte) error {
		var e AccountEntry
		if err := json.Unmarshal(value, &e); err != nil {
			return fmt.Errorf("parse account entry: %w", err)
		}
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Index < entries[j].Index
	})
	return entries, nil
}

func (s *Store) putRecord(name string, rec *walletRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal wallet record: %w", err)
	}
	if err := s.db.Put(recordKey(name), data); err != nil {
		return fmt.Errorf("store wallet %q: %w", name, err)
	}
	return nil
}

func (s *Store) getRecord(name string) (*walletRecord, error) {
	raw, err := s.db.Get(recordKey(name))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, fmt.Errorf("wallet %q: %w", name, ErrWalletNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read wallet %q: %w", name, err)
	}

	var rec walletRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("parse wallet %q: %w", name, err)
	}
	if rec.Version != recordVersion {
		return nil, fmt.Errorf("wallet %q: unsupported record version %d", name, rec.Version)
	}
	return &rec, nil
}
