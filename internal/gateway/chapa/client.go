package chapa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/atlastravel/backend/internal/repository/ports"
)

// ErrGateway marks failures reported by Chapa itself (non-2xx responses),
// as opposed to transport errors.
var ErrGateway = errors.New("chapa gateway error")

type Client struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

func NewClient(baseURL, secretKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		secretKey: secretKey,
		http:      &http.Client{Timeout: timeout},
	}
}

type initiateRequest struct {
	Amount      string        `json:"amount"`
	Currency    string        `json:"currency"`
	Email       string        `json:"email"`
	FirstName   string        `json:"first_name"`
	LastName    string        `json:"last_name"`
	TxRef       string        `json:"tx_ref"`
	CallbackURL string        `json:"callback_url"`
	ReturnURL   string        `json:"return_url"`
	Custom      customization `json:"customization"`
}

type customization struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type initiateResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Data    struct {
		ID          string `json:"id"`
		Reference   string `json:"reference"`
		CheckoutURL string `json:"checkout_url"`
	} `json:"data"`
}

type verifyResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Data    struct {
		Status   string      `json:"status"`
		Amount   json.Number `json:"amount"`
		Currency string      `json:"currency"`
	} `json:"data"`
}

func (c *Client) Initiate(ctx context.Context, req ports.GatewayInitiateRequest) (*ports.GatewayInitiateResult, error) {
	payload := initiateRequest{
		Amount:      strconv.FormatFloat(req.Amount, 'f', 2, 64),
		Currency:    req.Currency,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		TxRef:       req.TxRef,
		CallbackURL: req.CallbackURL,
		ReturnURL:   req.ReturnURL,
		Custom: customization{
			Title:       req.Title,
			Description: req.Description,
		},
	}

	raw, err := c.post(ctx, "/v1/transaction/initialize", payload)
	if err != nil {
		return nil, err
	}

	var parsed initiateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode initialize response: %w", err)
	}
	if parsed.Data.CheckoutURL == "" {
		return nil, fmt.Errorf("%w: initialize response missing checkout_url", ErrGateway)
	}

	return &ports.GatewayInitiateResult{
		TransactionID: parsed.Data.ID,
		Reference:     parsed.Data.Reference,
		CheckoutURL:   parsed.Data.CheckoutURL,
		Raw:           raw,
	}, nil
}

func (c *Client) Verify(ctx context.Context, transactionID string) (*ports.GatewayVerifyResult, error) {
	raw, err := c.get(ctx, "/v1/transaction/verify/"+url.PathEscape(transactionID))
	if err != nil {
		return nil, err
	}

	var parsed verifyResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode verify response: %w", err)
	}

	amount, _ := parsed.Data.Amount.Float64()
	return &ports.GatewayVerifyResult{
		Status:   parsed.Data.Status,
		Amount:   amount,
		Currency: parsed.Data.Currency,
		Raw:      raw,
	}, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) get(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrGateway, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return raw, nil
}

var _ ports.PaymentGateway = (*Client)(nil)
