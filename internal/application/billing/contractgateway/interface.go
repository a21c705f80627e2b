// Package contractgateway defines the port to the direct-debit contract
// gateway (ZarinPal's Payman product). The live HTTP client lives in
// infrastructure; tests and sandbox deployments inject the fake.
package contractgateway

import (
	"context"
	"time"
)

// StatusOK is the success sentinel the gateway sends on its redirect back
// from the bank. Any other value means the user declined or the signing
// failed, and the gateway must not be contacted.
const StatusOK = "OK"

// Gateway is the contract-lifecycle port: four calls, all request-scoped.
type Gateway interface {
	RequestContract(ctx context.Context, req ContractRequest) (*ContractResponse, error)
	BankList(ctx context.Context) ([]Bank, error)
	// VerifyContract exchanges a payman authority for the long-lived
	// contract signature.
	VerifyContract(ctx context.Context, paymanAuthority string) (string, error)
	// CancelContract revokes a signed contract upstream. Callers treat
	// failure as best-effort: local cancellation proceeds regardless.
	CancelContract(ctx context.Context, signature string) error
}

// ContractRequest carries the fields the gateway needs to open a contract
// negotiation.
type ContractRequest struct {
	Mobile          string
	NationalID      string
	ExpireAt        time.Time
	MaxDailyCount   int
	MaxMonthlyCount int
	MaxAmount       int64
	CallbackURL     string
}

// ContractResponse holds the opaque authority token identifying the
// in-progress negotiation.
type ContractResponse struct {
	PaymanAuthority string
}

// Bank is one entry of the gateway's bank list, in wire shape.
type Bank struct {
	Name           string
	Slug           string
	BankCode       string
	MaxDailyAmount int64
	MaxDailyCount  int
}

// SigningURLBuilder renders the bank signing page URL for an authority and
// bank code.
type SigningURLBuilder interface {
	SigningURL(paymanAuthority, bankCode string) string
}
