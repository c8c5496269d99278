package ports

import (
	"context"
	"encoding/json"
)

type GatewayInitiateRequest struct {
	Amount      float64
	Currency    string
	Email       string
	FirstName   string
	LastName    string
	TxRef       string
	CallbackURL string
	ReturnURL   string
	Title       string
	Description string
}

type GatewayInitiateResult struct {
	TransactionID string
	Reference     string
	CheckoutURL   string
	Raw           json.RawMessage
}

type GatewayVerifyResult struct {
	// Status is the gateway's own wording ("success", "failed", "pending", ...),
	// not a local payment status.
	Status   string
	Amount   float64
	Currency string
	Raw      json.RawMessage
}

// PaymentGateway abstracts the external payment processor. Implementations make
// synchronous outbound HTTP calls; callers decide what a gateway status means
// for local records.
type PaymentGateway interface {
	Initiate(ctx context.Context, req GatewayInitiateRequest) (*GatewayInitiateResult, error)
	Verify(ctx context.Context, transactionID string) (*GatewayVerifyResult, error)
}
