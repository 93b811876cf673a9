package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/domain"
	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/dto"
	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/repository"
	"github.com/Shaen-ai/yoga-saas-platform-backend/pkg/kafka"
	"github.com/Shaen-ai/yoga-saas-platform-backend/pkg/logger"
)

var (
	ErrRegistrationNotFound  = errors.New("registration not found")
	ErrEventFull             = errors.New("event has reached capacity")
	ErrDuplicateRegistration = errors.New("email already registered for this event")
	ErrRegistrationClosed    = errors.New("registration closed, event already started")
)

// Published event types
const (
	EventRegistrationCreated   = "registration.created"
	EventRegistrationCancelled = "registration.cancelled"
)

// RegistrationService defines the interface for registration operations
type RegistrationService interface {
	// Create registers an attendee for an event
	Create(ctx context.Context, identity domain.Identity, req *dto.CreateRegistrationRequest) (*dto.RegistrationResponse, error)
	// ListByEvent retrieves registrations for an event
	ListByEvent(ctx context.Context, identity domain.Identity, eventID string) (*dto.RegistrationListResponse, error)
	// Cancel cancels a registration, freeing its spot
	Cancel(ctx context.Context, identity domain.Identity, id string) (*dto.RegistrationResponse, error)
}

// registrationService implements RegistrationService
type registrationService struct {
	registrationRepo repository.RegistrationRepository
	eventRepo        repository.EventRepository
	publisher        kafka.Publisher
}

// NewRegistrationService creates a new RegistrationService
func NewRegistrationService(
	registrationRepo repository.RegistrationRepository,
	eventRepo repository.EventRepository,
	publisher kafka.Publisher,
) RegistrationService {
	return &registrationService{
		registrationRepo: registrationRepo,
		eventRepo:        eventRepo,
		publisher:        publisher,
	}
}

// Create registers an attendee for an event. Capacity is checked
// against the active registration count; a capacity of zero means
// unlimited.
func (s *registrationService) Create(ctx context.Context, identity domain.Identity, req *dto.CreateRegistrationRequest) (*dto.RegistrationResponse, error) {
	event, err := s.findEvent(ctx, identity, req.EventID)
	if err != nil {
		return nil, err
	}

	if time.Now().After(event.StartAt) && event.Recurrence == domain.RecurrenceNone {
		return nil, ErrRegistrationClosed
	}

	exists, err := s.registrationRepo.ExistsActiveByEmail(ctx, event.TenantKey, event.ID, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateRegistration
	}

	if event.HasCapacityLimit() {
		active, err := s.registrationRepo.CountActiveByEventID(ctx, event.TenantKey, event.ID)
		if err != nil {
			return nil, err
		}
		if active >= event.Capacity {
			return nil, ErrEventFull
		}
	}

	now := time.Now()
	registration := &domain.Registration{
		ID:        uuid.New().String(),
		TenantKey: event.TenantKey,
		EventID:   event.ID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Status:    domain.RegistrationStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.registrationRepo.Create(ctx, registration); err != nil {
		return nil, err
	}

	s.publish(ctx, EventRegistrationCreated, registration)
	return dto.FromRegistration(registration), nil
}

// ListByEvent retrieves registrations for an event
func (s *registrationService) ListByEvent(ctx context.Context, identity domain.Identity, eventID string) (*dto.RegistrationListResponse, error) {
	event, err := s.findEvent(ctx, identity, eventID)
	if err != nil {
		return nil, err
	}

	registrations, err := s.registrationRepo.ListByEventID(ctx, event.TenantKey, event.ID)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.RegistrationResponse, 0, len(registrations))
	for _, registration := range registrations {
		responses = append(responses, dto.FromRegistration(registration))
	}
	return &dto.RegistrationListResponse{
		Registrations: responses,
		Total:         len(responses),
	}, nil
}

// Cancel cancels a registration, freeing its spot. Cancelling twice
// is a no-op.
func (s *registrationService) Cancel(ctx context.Context, identity domain.Identity, id string) (*dto.RegistrationResponse, error) {
	registration, err := s.findRegistration(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	if registration.Status != domain.RegistrationStatusCancelled {
		if err := s.registrationRepo.UpdateStatus(ctx, registration.TenantKey, registration.ID, domain.RegistrationStatusCancelled); err != nil {
			return nil, err
		}
		registration.Status = domain.RegistrationStatusCancelled
		registration.UpdatedAt = time.Now()
		s.publish(ctx, EventRegistrationCancelled, registration)
	}

	return dto.FromRegistration(registration), nil
}

func (s *registrationService) findEvent(ctx context.Context, identity domain.Identity, eventID string) (*domain.Event, error) {
	for _, key := range visibleKeys(identity) {
		event, err := s.eventRepo.GetByID(ctx, key, eventID)
		if err != nil {
			return nil, err
		}
		if event != nil {
			return event, nil
		}
	}
	return nil, ErrEventNotFound
}

func (s *registrationService) findRegistration(ctx context.Context, identity domain.Identity, id string) (*domain.Registration, error) {
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

// publish emits a registration fact. Publishing is best-effort: the
// registration is already durable, so a broker hiccup only loses the
// notification.
func (s *registrationService) publish(ctx context.Context, eventType string, registration *domain.Registration) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.Publish(ctx, eventType, registration.TenantKey, map[string]interface{}{
		"registration_id": registration.ID,
		"event_id":        registration.EventID,
		"email":           registration.Email,
		"status":          registration.Status,
	})
	if err != nil {
		logger.WithContext(ctx).Warn("failed to publish registration event",
			zap.String("type", eventType),
			zap.Error(err))
	}
}
