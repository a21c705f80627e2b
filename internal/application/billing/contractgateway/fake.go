package contractgateway

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
)

// FakeGateway is an in-memory Gateway for tests and sandbox deployments.
// It hands out deterministic authorities and signatures so recovery and
// idempotency flows exercise exactly the same persistence paths as
// production, without a string-prefix branch in the orchestrator.
type FakeGateway struct {
	mu sync.Mutex

	banks       []Bank
	requested   map[string]ContractRequest // authority -> original request
	cancelled   map[string]bool            // signature -> cancelled
	seq         int
	failRequest error
	failBanks   error
	failVerify  error
	failCancel  error
}

// NewFakeGateway returns a fake with a small default bank list.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		banks: []Bank{
			{Name: "Bank Test", Slug: "test", BankCode: "012", MaxDailyAmount: 500_000_000, MaxDailyCount: 10},
			{Name: "Bank Mellat", Slug: "mellat", BankCode: "061", MaxDailyAmount: 1_000_000_000, MaxDailyCount: 5},
		},
		requested: make(map[string]ContractRequest),
		cancelled: make(map[string]bool),
	}
}

// SetBanks replaces the advertised bank list.
func (g *FakeGateway) SetBanks(banks []Bank) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.banks = banks
}

// FailNextRequest makes RequestContract return err.
func (g *FakeGateway) FailNextRequest(err error) { g.mu.Lock(); g.failRequest = err; g.mu.Unlock() }

// FailBanks makes BankList return err.
func (g *FakeGateway) FailBanks(err error) { g.mu.Lock(); g.failBanks = err; g.mu.Unlock() }

// FailVerify makes VerifyContract return err.
func (g *FakeGateway) FailVerify(err error) { g.mu.Lock(); g.failVerify = err; g.mu.Unlock() }

// FailCancel makes CancelContract return err.
func (g *FakeGateway) FailCancel(err error) { g.mu.Lock(); g.failCancel = err; g.mu.Unlock() }

func (g *FakeGateway) RequestContract(ctx context.Context, req ContractRequest) (*ContractResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.failRequest != nil {
		return nil, g.failRequest
	}

	g.seq++
	authority := fmt.Sprintf("payman-fake-%06d", g.seq)
	g.requested[authority] = req

	return &ContractResponse{PaymanAuthority: authority}, nil
}

func (g *FakeGateway) BankList(ctx context.Context) ([]Bank, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.failBanks != nil {
		return nil, g.failBanks
	}

	banks := make([]Bank, len(g.banks))
	copy(banks, g.banks)
	return banks, nil
}

// VerifyContract derives the signature deterministically from the
// authority, so repeated verifications of the same authority yield the
// same signature. Unknown authorities still verify: the recovery flow
// replays authorities this fake never saw.
func (g *FakeGateway) VerifyContract(ctx context.Context, paymanAuthority string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.failVerify != nil {
		return "", g.failVerify
	}
	if paymanAuthority == "" {
		return "", fmt.Errorf("empty payman authority")
	}

	sum := sha256.Sum256([]byte("fake-signature:" + paymanAuthority))
	return hex.EncodeToString(sum[:]), nil
}

func (g *FakeGateway) CancelContract(ctx context.Context, signature string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.failCancel != nil {
		return g.failCancel
	}

	g.cancelled[signature] = true
	return nil
}

// Cancelled reports whether the signature was cancelled through the fake.
func (g *FakeGateway) Cancelled(signature string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cancelled[signature]
}

// SigningURL implements SigningURLBuilder with an obviously fake host.
func (g *FakeGateway) SigningURL(paymanAuthority, bankCode string) string {
	return fmt.Sprintf("https://fake-gateway.example.com/StartPayman/%s/%s", paymanAuthority, bankCode)
}
