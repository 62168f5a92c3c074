package explorer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestAddressBalance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/address/sprt1example/balance" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept header = %q", got)
		}
		json.NewEncoder(w).Encode(BalanceResponse{Address: "sprt1example", Sats: 42})
	}))
	defer srv.Close()

	client := New(srv.URL, zerolog.Nop())
	sats, err := client.AddressBalance(context.Background(), "sprt1example")
	if err != nil {
		t.Fatalf("AddressBalance() error: %v", err)
	}
	if sats != 42 {
		t.Errorf("sats = %d, want 42", sats)
	}
}

func TestAddressTransfers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("limit") != "5" || q.Get("offset") != "10" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(map[string][]TransferRecord{
			"transfers": {
				{ID: "t-1", Direction: "incoming", AmountSats: 100},
				{ID: "t-2", Direction: "outgoing", AmountSats: 50},
			},
		})
	}))
	defer srv.Close()

	client := New(srv.URL, zerolog.Nop())
	records, err := client.AddressTransfers(context.Background(), "sprt1example", 5, 10)
	if err != nil {
		t.Fatalf("AddressTransfers() error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("record count = %d, want 2", len(records))
	}
	if records[0].ID != "t-1" || records[0].AmountSats != 100 {
		t.Errorf("first record = %+v", records[0])
	}
}

func TestAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "address not found", http.StatusNotFound)
	}))
	defer srv.Close()

	client := New(srv.URL, zerolog.Nop())
	_, err := client.AddressBalance(context.Background(), "sprt1missing")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", apiErr.StatusCode)
	}
}

func TestClient_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	client := New(srv.URL, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.AddressBalance(ctx, "sprt1example"); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestClient_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := New(srv.URL, zerolog.Nop())
	if _, err := client.AddressBalance(context.Background(), "sprt1example"); err == nil {
		t.Error("expected error for malformed response body")
	}
}
