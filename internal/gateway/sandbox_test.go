package gateway

import (
	"context"
	"testing"
)

func TestSandboxChargeAndCapture(t *testing.T) {
	g := NewSandboxGateway()
	ctx := context.Background()

	charge, err := g.Charge(ctx, &ChargeRequest{
		PaymentID: "pay1",
		Amount:    25.00,
		Currency:  "USD",
	})
	if err != nil {
		t.Fatalf("Charge failed: %v", err)
	}
	if !charge.Success {
		t.Fatalf("Expected charge to succeed, got %s", charge.FailureReason)
	}
	if charge.Status != StatusAuthorized {
		t.Errorf("Expected status authorized, got %s", charge.Status)
	}

	capture, err := g.Capture(ctx, charge.TransactionID)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if !capture.Success {
		t.Fatalf("Expected capture to succeed, got %s", capture.FailureReason)
	}

	txn, err := g.GetTransaction(ctx, charge.TransactionID)
	if err != nil {
		t.Fatalf("GetTransaction failed: %v", err)
	}
	if txn.Status != StatusCaptured {
		t.Errorf("Expected status captured, got %s", txn.Status)
	}

	// capturing twice fails without error
	capture, err = g.Capture(ctx, charge.TransactionID)
	if err != nil {
		t.Fatalf("Second capture errored: %v", err)
	}
	if capture.Success {
		t.Error("Expected second capture to be rejected")
	}
}

func TestSandboxCharge_Declined(t *testing.T) {
	g := NewSandboxGateway()

	charge, err := g.Charge(context.Background(), &ChargeRequest{
		PaymentID: "pay1",
		Amount:    25.00,
		Currency:  "USD",
		CardToken: "tok_decline",
	})
	if err != nil {
		t.Fatalf("Charge errored: %v", err)
	}
	if charge.Success {
		t.Error("Expected decline token to fail the charge")
	}
	if charge.Status != StatusFailed {
		t.Errorf("Expected status failed, got %s", charge.Status)
	}
}

func TestSandboxCapture_UnknownTransaction(t *testing.T) {
	g := NewSandboxGateway()

	if _, err := g.Capture(context.Background(), "missing"); err != ErrTransactionNotFound {
		t.Errorf("Expected ErrTransactionNotFound, got %v", err)
	}
}
