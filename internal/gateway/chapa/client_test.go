package chapa

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/atlastravel/backend/internal/repository/ports"
)

func TestClientInitiate(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/transaction/initialize" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"message": "Hosted Link",
			"status": "success",
			"data": {
				"id": "tx-123",
				"reference": "ref-456",
				"checkout_url": "https://checkout.chapa.co/checkout/payment/abc"
			}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test", time.Second)
	result, err := client.Initiate(context.Background(), ports.GatewayInitiateRequest{
		Amount:      500,
		Currency:    "NGN",
		Email:       "guest@example.com",
		FirstName:   "Guest",
		LastName:    "User",
		TxRef:       "TRAVEL_abc",
		CallbackURL: "https://travel.example.com/api/v1/payments/webhook",
		ReturnURL:   "https://travel.example.com/api/v1/payments/success",
		Title:       "Travel Booking",
		Description: "Payment for booking",
	})
	if err != nil {
		t.Fatalf("Initiate returned error: %v", err)
	}

	if gotAuth != "Bearer sk_test" {
		t.Fatalf("expected bearer auth header, got %q", gotAuth)
	}
	if gotBody["amount"] != "500.00" {
		t.Fatalf("expected amount formatted as 500.00, got %v", gotBody["amount"])
	}
	if gotBody["tx_ref"] != "TRAVEL_abc" {
		t.Fatalf("expected tx_ref TRAVEL_abc, got %v", gotBody["tx_ref"])
	}

	if result.TransactionID != "tx-123" {
		t.Fatalf("expected transaction id tx-123, got %q", result.TransactionID)
	}
	if result.Reference != "ref-456" {
		t.Fatalf("expected reference ref-456, got %q", result.Reference)
	}
	if result.CheckoutURL != "https://checkout.chapa.co/checkout/payment/abc" {
		t.Fatalf("unexpected checkout url %q", result.CheckoutURL)
	}
	if len(result.Raw) == 0 {
		t.Fatalf("expected raw response to be retained")
	}
}

func TestClientInitiateMissingCheckoutURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","data":{}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test", time.Second)
	_, err := client.Initiate(context.Background(), ports.GatewayInitiateRequest{Amount: 10, Currency: "NGN"})
	if !errors.Is(err, ErrGateway) {
		t.Fatalf("expected ErrGateway, got %v", err)
	}
}

func TestClientVerify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/v1/transaction/verify/tx-123" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"message": "verified",
			"status": "success",
			"data": {"status": "success", "amount": 500.00, "currency": "NGN"}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test", time.Second)
	result, err := client.Verify(context.Background(), "tx-123")
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if result.Status != "success" {
		t.Fatalf("expected gateway status success, got %q", result.Status)
	}
	if result.Amount != 500.00 {
		t.Fatalf("expected amount 500.00, got %v", result.Amount)
	}
	if result.Currency != "NGN" {
		t.Fatalf("expected currency NGN, got %q", result.Currency)
	}
}

func TestClientNon200IsGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid API Key","status":"failed"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad-key", time.Second)
	if _, err := client.Verify(context.Background(), "tx-1"); !errors.Is(err, ErrGateway) {
		t.Fatalf("expected ErrGateway, got %v", err)
	}
}
