package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tetherto/wdk-wallet-spark-sub000/pkg/explorer"
	"github.com/tetherto/wdk-wallet-spark-sub000/pkg/types"
)

// testAddress derives a real regtest address for explorer tests.
func testAddress(t *testing.T) string {
	t.Helper()
	ks, err := DeriveKeys(testSeed(t), 0, 0)
	if err != nil {
		t.Fatalf("DeriveKeys() error: %v", err)
	}
	addr, err := types.NewAddress(ks.Identity.PublicKey)
	if err != nil {
		t.Fatalf("NewAddress() error: %v", err)
	}
	enc, err := addr.Encode(types.Regtest)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	return enc
}

// newExplorerServer serves balance and transfer history for one address.
func newExplorerServer(t *testing.T, address string, sats uint64, records []explorer.TransferRecord) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/address/"+address+"/balance", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(explorer.BalanceResponse{Address: address, Sats: sats})
	})
	mux.HandleFunc("/v1/address/"+address+"/transfers", func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

		page := []explorer.TransferRecord{}
		if offset < len(records) {
			end := offset + limit
			if end > len(records) {
				end = len(records)
			}
			page = records[offset:end]
		}
		json.NewEncoder(w).Encode(map[string][]explorer.TransferRecord{"transfers": page})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestReadOnlyAccount_Balance(t *testing.T) {
	address := testAddress(t)
	srv := newExplorerServer(t, address, 12345, nil)

	client := explorer.New(srv.URL, zerolog.Nop())
	acct, err := NewReadOnlyAccount(client, address, types.Regtest, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewReadOnlyAccount() error: %v", err)
	}

	bal, err := acct.Balance(context.Background())
	if err != nil {
		t.Fatalf("Balance() error: %v", err)
	}
	if bal.Sats != 12345 {
		t.Errorf("balance = %d, want 12345", bal.Sats)
	}
}

func TestReadOnlyAccount_Transfers(t *testing.T) {
	address := testAddress(t)

	records := make([]explorer.TransferRecord, 5)
	for i := range records {
		dir := string(DirectionIncoming)
		if i%2 == 1 {
			dir = string(DirectionOutgoing)
		}
		records[i] = explorer.TransferRecord{
			ID:        fmt.Sprintf("t-%d", i),
			Direction: dir,
		}
	}
	srv := newExplorerServer(t, address, 0, records)

	client := explorer.New(srv.URL, zerolog.Nop())
	acct, err := NewReadOnlyAccount(client, address, types.Regtest, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewReadOnlyAccount() error: %v", err)
	}

	got, err := acct.Transfers(context.Background(), ListOptions{
		Direction: DirectionIncoming,
		Limit:     2,
		Skip:      1,
	})
	if err != nil {
		t.Fatalf("Transfers() error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "t-2" || got[1].ID != "t-4" {
		t.Errorf("result = %+v, want IDs t-2, t-4", got)
	}
}

func TestNewReadOnlyAccount_InvalidAddress(t *testing.T) {
	client := explorer.New("http://127.0.0.1:0", zerolog.Nop())

	if _, err := NewReadOnlyAccount(client, "garbage", types.Regtest, zerolog.Nop()); err == nil {
		t.Error("expected error for malformed address")
	}

	// Wrong network HRP is rejected too.
	address := testAddress(t) // regtest
	if _, err := NewReadOnlyAccount(client, address, types.Mainnet, zerolog.Nop()); err == nil {
		t.Error("expected error for wrong-network address")
	}
}

func TestReadOnlyAccount_CannotSignOrSpend(t *testing.T) {
	address := testAddress(t)
	client := explorer.New("http://127.0.0.1:0", zerolog.Nop())
	acct, err := NewReadOnlyAccount(client, address, types.Regtest, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewReadOnlyAccount() error: %v", err)
	}
	ctx := context.Background()

	if _, err := acct.SignMessage([]byte("msg")); !errors.Is(err, ErrUnsupportedOperation) {
		t.Errorf("SignMessage() error = %v, want ErrUnsupportedOperation", err)
	}
	if _, err := acct.Transfer(ctx, address, 1); !errors.Is(err, ErrUnsupportedOperation) {
		t.Errorf("Transfer() error = %v, want ErrUnsupportedOperation", err)
	}
	if _, err := acct.Withdraw(ctx, "bc1qexample", 1); !errors.Is(err, ErrUnsupportedOperation) {
		t.Errorf("Withdraw() error = %v, want ErrUnsupportedOperation", err)
	}
	if _, err := acct.CreateLightningInvoice(ctx, 1, "memo"); !errors.Is(err, ErrUnsupportedOperation) {
		t.Errorf("CreateLightningInvoice() error = %v, want ErrUnsupportedOperation", err)
	}
}

func TestReadOnlyAccount_VerifyMessage(t *testing.T) {
	// Sign with a full signer, verify through the read-only account.
	signer := NewSigner(zerolog.Nop())
	if err := signer.Initialize(testSeed(t), 0, 0); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	message := []byte("attested statement")
	sig, err := signer.Sign(message)
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}
	pub, err := signer.IdentityPublicKey()
	if err != nil {
		t.Fatalf("IdentityPublicKey() error: %v", err)
	}

	client := explorer.New("http://127.0.0.1:0", zerolog.Nop())
	acct, err := NewReadOnlyAccount(client, testAddress(t), types.Regtest, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewReadOnlyAccount() error: %v", err)
	}

	ok, err := acct.VerifyMessage(message, sig, pub)
	if err != nil {
		t.Fatalf("VerifyMessage() error: %v", err)
	}
	if !ok {
		t.Error("signature should verify")
	}
}
