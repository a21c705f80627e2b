// Package payman implements the ZarinPal v4 direct-debit ("Payman")
// gateway client behind the contractgateway port.
package payman

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"paydesk/internal/application/billing/contractgateway"
	sharedconfig "paydesk/internal/shared/config"
)

var (
	ErrContractFailed     = errors.New("payman: contract request failed")
	ErrContractNotActive  = errors.New("payman: contract is not active")
	ErrInvalidAuthority   = errors.New("payman: invalid payman authority")
	ErrUnexpectedResponse = errors.New("payman: unexpected response from gateway")
)

const defaultTimeout = 10 * time.Second

// Client is a ZarinPal Payman HTTP client. All calls are request-scoped
// and bounded by the configured timeout; a timeout is an upstream failure.
type Client struct {
	merchantID  string
	baseURL     string
	startPayURL string
	httpClient  *http.Client
}

// New creates a Client from config. Uses sandbox endpoints when
// cfg.Sandbox is true.
func New(cfg sharedconfig.PaymanConfig) *Client {
	baseURL := "https://payment.zarinpal.com/pg/v4"
	startPayURL := "https://payment.zarinpal.com/pg/StartPayman/"
	if cfg.Sandbox {
		baseURL = "https://sandbox.zarinpal.com/pg/v4"
		startPayURL = "https://sandbox.zarinpal.com/pg/StartPayman/"
	}

	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	return &Client{
		merchantID:  cfg.MerchantID,
		baseURL:     baseURL,
		startPayURL: startPayURL,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// NewWithBaseURL builds a client against an explicit endpoint, used by tests.
func NewWithBaseURL(merchantID, baseURL, startPayURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		merchantID:  merchantID,
		baseURL:     baseURL,
		startPayURL: startPayURL,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// RequestContract opens a contract negotiation and returns the payman authority.
func (c *Client) RequestContract(ctx context.Context, req contractgateway.ContractRequest) (*contractgateway.ContractResponse, error) {
	reqBody := map[string]any{
		"merchant_id":       c.merchantID,
		"mobile":            req.Mobile,
		"ssn":               req.NationalID,
		"expire_at":         req.ExpireAt.Format("2006-01-02 15:04:05"),
		"max_daily_count":   fmt.Sprintf("%d", req.MaxDailyCount),
		"max_monthly_count": fmt.Sprintf("%d", req.MaxMonthlyCount),
		"max_amount":        fmt.Sprintf("%d", req.MaxAmount),
		"callback_url":      req.CallbackURL,
	}

	var resp struct {
		Data struct {
			Code            int    `json:"code"`
			Message         string `json:"message"`
			PaymanAuthority string `json:"payman_authority"`
		} `json:"data"`
		Errors any `json:"errors"`
	}

	if err := c.post(ctx, "/payman/request.json", reqBody, &resp); err != nil {
		return nil, fmt.Errorf("payman request: %w", err)
	}

	if resp.Data.Code != 100 {
		return nil, fmt.Errorf("%w (code=%d, msg=%s)", ErrContractFailed, resp.Data.Code, resp.Data.Message)
	}
	if resp.Data.PaymanAuthority == "" {
		return nil, ErrUnexpectedResponse
	}

	return &contractgateway.ContractResponse{PaymanAuthority: resp.Data.PaymanAuthority}, nil
}

// BankList fetches the banks currently available for contract signing,
// with their advertised daily limits.
func (c *Client) BankList(ctx context.Context) ([]contractgateway.Bank, error) {
	reqBody := map[string]any{
		"merchant_id": c.merchantID,
	}

	var resp struct {
		Data struct {
			Code  int    `json:"code"`
			Msg   string `json:"message"`
			Banks []struct {
				Name           string `json:"name"`
				Slug           string `json:"slug"`
				BankCode       string `json:"bank_code"`
				MaxDailyAmount int64  `json:"max_daily_amount"`
				MaxDailyCount  int    `json:"max_daily_count"`
			} `json:"banks"`
		} `json:"data"`
		Errors any `json:"errors"`
	}

	if err := c.post(ctx, "/payman/banksList.json", reqBody, &resp); err != nil {
		return nil, fmt.Errorf("payman bank list: %w", err)
	}

	if resp.Data.Code != 100 {
		return nil, fmt.Errorf("%w (code=%d, msg=%s)", ErrUnexpectedResponse, resp.Data.Code, resp.Data.Msg)
	}

	banks := make([]contractgateway.Bank, len(resp.Data.Banks))
	for i, b := range resp.Data.Banks {
		banks[i] = contractgateway.Bank{
			Name:           b.Name,
			Slug:           b.Slug,
			BankCode:       b.BankCode,
			MaxDailyAmount: b.MaxDailyAmount,
			MaxDailyCount:  b.MaxDailyCount,
		}
	}
	return banks, nil
}

// VerifyContract exchanges the payman authority for the contract signature.
func (c *Client) VerifyContract(ctx context.Context, paymanAuthority string) (string, error) {
	reqBody := map[string]any{
		"merchant_id":      c.merchantID,
		"payman_authority": paymanAuthority,
	}

	var resp struct {
		Data struct {
			Code      int    `json:"code"`
			Message   string `json:"message"`
			Signature string `json:"signature"`
		} `json:"data"`
		Errors any `json:"errors"`
	}

	if err := c.post(ctx, "/payman/verify.json", reqBody, &resp); err != nil {
		return "", fmt.Errorf("payman verify: %w", err)
	}

	switch resp.Data.Code {
	case 100:
		// success
	case -54, -55:
		return "", fmt.Errorf("%w (code=%d)", ErrInvalidAuthority, resp.Data.Code)
	default:
		return "", fmt.Errorf("%w (code=%d, msg=%s)", ErrUnexpectedResponse, resp.Data.Code, resp.Data.Message)
	}

	if resp.Data.Signature == "" {
		return "", ErrUnexpectedResponse
	}
	return resp.Data.Signature, nil
}

// CancelContract revokes a signed contract. Code 100 is success; the
// gateway's "contract not active" surfaces as ErrContractNotActive so
// callers can log it and proceed locally.
func (c *Client) CancelContract(ctx context.Context, signature string) error {
	reqBody := map[string]any{
		"merchant_id": c.merchantID,
		"signature":   signature,
	}

	var resp struct {
		Data struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"data"`
		Errors any `json:"errors"`
	}

	if err := c.post(ctx, "/payman/cancelContract.json", reqBody, &resp); err != nil {
		return fmt.Errorf("payman cancel: %w", err)
	}

	switch resp.Data.Code {
	case 100:
		return nil
	case -52:
		return fmt.Errorf("%w (code=%d)", ErrContractNotActive, resp.Data.Code)
	default:
		return fmt.Errorf("%w (code=%d, msg=%s)", ErrUnexpectedResponse, resp.Data.Code, resp.Data.Message)
	}
}

// SigningURL renders the bank signing page for an authority and bank code.
func (c *Client) SigningURL(paymanAuthority, bankCode string) string {
	return c.startPayURL + paymanAuthority + "/" + bankCode
}

// post sends a JSON POST request to baseURL+path and decodes the JSON response into out.
func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer res.Body.Close()

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
