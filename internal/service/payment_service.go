package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/domain"
	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/dto"
	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/gateway"
	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/repository"
	"github.com/Shaen-ai/yoga-saas-platform-backend/pkg/kafka"
	"github.com/Shaen-ai/yoga-saas-platform-backend/pkg/logger"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrPaymentFailed   = errors.New("payment failed")
	ErrPaymentNotOpen  = errors.New("payment is not pending")
)

// EventPaymentCaptured is published when a capture succeeds
const EventPaymentCaptured = "payment.captured"

const defaultCurrency = "USD"

// PaymentService defines the interface for payment operations
type PaymentService interface {
	// Create authorizes a payment for a registration
	Create(ctx context.Context, identity domain.Identity, req *dto.CreatePaymentRequest) (*dto.PaymentResponse, error)
	// Capture captures a pending payment and confirms its registration
	Capture(ctx context.Context, identity domain.Identity, id string) (*dto.PaymentResponse, error)
	// GetByID retrieves a payment
	GetByID(ctx context.Context, identity domain.Identity, id string) (*dto.PaymentResponse, error)
}

// paymentService implements PaymentService
type paymentService struct {
	paymentRepo      repository.PaymentRepository
	registrationRepo repository.RegistrationRepository
	gateway          gateway.PaymentGateway
	publisher        kafka.Publisher
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	registrationRepo repository.RegistrationRepository,
	paymentGateway gateway.PaymentGateway,
	publisher kafka.Publisher,
) PaymentService {
	return &paymentService{
		paymentRepo:      paymentRepo,
		registrationRepo: registrationRepo,
		gateway:          paymentGateway,
		publisher:        publisher,
	}
}

// Create authorizes a payment for a registration through the gateway.
// A declined charge is persisted as failed so the attempt is auditable.
func (s *paymentService) Create(ctx context.Context, identity domain.Identity, req *dto.CreatePaymentRequest) (*dto.PaymentResponse, error) {
	registration, err := s.findRegistration(ctx, identity, req.RegistrationID)
	if err != nil {
		return nil, err
	}
	if !registration.IsActive() {
		return nil, ErrRegistrationNotFound
	}

	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	now := time.Now()
	payment := &domain.Payment{
		ID:             uuid.New().String(),
		TenantKey:      registration.TenantKey,
		RegistrationID: registration.ID,
		Amount:         req.Amount,
		Currency:       currency,
		Status:         domain.PaymentStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	charge, err := s.gateway.Charge(ctx, &gateway.ChargeRequest{
		PaymentID:   payment.ID,
		Amount:      payment.Amount,
		Currency:    payment.Currency,
		Description: "class registration",
	})
	if err != nil {
		return nil, err
	}

	if !charge.Success {
		payment.Status = domain.PaymentStatusFailed
		payment.FailureReason = charge.FailureReason
		if createErr := s.paymentRepo.Create(ctx, payment); createErr != nil {
			return nil, createErr
		}
		return nil, ErrPaymentFailed
	}

	payment.TransactionID = charge.TransactionID
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}
	return dto.FromPayment(payment), nil
}

// Capture captures a pending payment, flips its registration to
// confirmed and publishes the capture fact
func (s *paymentService) Capture(ctx context.Context, identity domain.Identity, id string) (*dto.PaymentResponse, error) {
	payment, err := s.findPayment(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	if payment.Status != domain.PaymentStatusPending {
		return nil, ErrPaymentNotOpen
	}

	capture, err := s.gateway.Capture(ctx, payment.TransactionID)
	if err != nil {
		return nil, err
	}

	if !capture.Success {
		payment.Status = domain.PaymentStatusFailed
		payment.FailureReason = capture.FailureReason
		if updateErr := s.paymentRepo.Update(ctx, payment); updateErr != nil {
			return nil, updateErr
		}
		return nil, ErrPaymentFailed
	}

	payment.Status = domain.PaymentStatusCaptured
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, err
	}

	if err := s.registrationRepo.UpdateStatus(ctx, payment.TenantKey, payment.RegistrationID, domain.RegistrationStatusConfirmed); err != nil {
		logger.WithContext(ctx).Error("failed to confirm registration after capture",
			zap.String("registration_id", payment.RegistrationID),
			zap.Error(err))
	}

	s.publishCaptured(ctx, payment)
	return dto.FromPayment(payment), nil
}

// GetByID retrieves a payment
func (s *paymentService) GetByID(ctx context.Context, identity domain.Identity, id string) (*dto.PaymentResponse, error) {
	payment, err := s.findPayment(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	return dto.FromPayment(payment), nil
}

func (s *paymentService) findPayment(ctx context.Context, identity domain.Identity, id string) (*domain.Payment, error) {
	for _, key := range visibleKeys(identity) {
		payment, err := s.paymentRepo.GetByID(ctx, key, id)
		if err != nil {
			return nil, err
		}
		if payment != nil {
			return payment, nil
		}
	}
	return nil, ErrPaymentNotFound
}

func (s *paymentService) findRegistration(ctx context.Context, identity domain.Identity, id string) (*domain.Registration, error) {
	for _, key := range visibleKeys(identity) {
		registration, err := s.registrationRepo.GetByID(ctx, key, id)
		if err != nil {
			return nil, err
		}
		if registration != nil {
			return registration, nil
		}
	}
	return nil, ErrRegistrationNotFound
}

func (s *paymentService) publishCaptured(ctx context.Context, payment *domain.Payment) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.Publish(ctx, EventPaymentCaptured, payment.TenantKey, map[string]interface{}{
		"payment_id":      payment.ID,
		"registration_id": payment.RegistrationID,
		"amount":          payment.Amount,
		"currency":        payment.Currency,
		"transaction_id":  payment.TransactionID,
	})
	if err != nil {
		logger.WithContext(ctx).Warn("failed to publish payment event",
			zap.String("type", EventPaymentCaptured),
			zap.Error(err))
	}
}
