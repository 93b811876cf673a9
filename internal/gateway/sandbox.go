package gateway

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrTransactionNotFound = errors.New("transaction not found")

// declineToken is a magic card token that always declines, for
// exercising the failure path in demos and tests
const declineToken = "tok_decline"

// SandboxGateway is an in-memory PaymentGateway for development and
// tests. Every charge authorizes instantly unless the decline token
// is supplied; transactions live only for the process lifetime.
type SandboxGateway struct {
	mu           sync.Mutex
	transactions map[string]*TransactionInfo
}

// NewSandboxGateway creates a new SandboxGateway
func NewSandboxGateway() *SandboxGateway {
	return &SandboxGateway{
		transactions: make(map[string]*TransactionInfo),
	}
}

// Charge authorizes a charge and returns a provider transaction id
func (g *SandboxGateway) Charge(ctx context.Context, req *ChargeRequest) (*ChargeResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Amount <= 0 {
		return &ChargeResponse{
			Success:       false,
			Status:        StatusFailed,
			FailureReason: "amount must be positive",
		}, nil
	}
	if req.CardToken == declineToken {
		return &ChargeResponse{
			Success:       false,
			Status:        StatusFailed,
			FailureReason: "card declined",
		}, nil
	}

	txn := &TransactionInfo{
		TransactionID: fmt.Sprintf("sbx_%s", uuid.New().String()),
		Status:        StatusAuthorized,
		Amount:        req.Amount,
		Currency:      req.Currency,
		CreatedAt:     time.Now().Format(time.RFC3339),
	}

	g.mu.Lock()
	g.transactions[txn.TransactionID] = txn
	g.mu.Unlock()

	return &ChargeResponse{
		Success:       true,
		TransactionID: txn.TransactionID,
		Status:        txn.Status,
	}, nil
}

// Capture captures a previously authorized charge
func (g *SandboxGateway) Capture(ctx context.Context, transactionID string) (*ChargeResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	txn, ok := g.transactions[transactionID]
	if !ok {
		return nil, ErrTransactionNotFound
	}
	if txn.Status != StatusAuthorized {
		return &ChargeResponse{
			Success:       false,
			TransactionID: transactionID,
			Status:        txn.Status,
			FailureReason: fmt.Sprintf("cannot capture transaction in status %s", txn.Status),
		}, nil
	}

	txn.Status = StatusCaptured
	return &ChargeResponse{
		Success:       true,
		TransactionID: transactionID,
		Status:        StatusCaptured,
	}, nil
}

// GetTransaction retrieves transaction details
func (g *SandboxGateway) GetTransaction(ctx context.Context, transactionID string) (*TransactionInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	txn, ok := g.transactions[transactionID]
	if !ok {
		return nil, ErrTransactionNotFound
	}
	copied := *txn
	return &copied, nil
}

// Name returns the gateway name
func (g *SandboxGateway) Name() string {
	return "sandbox"
}
