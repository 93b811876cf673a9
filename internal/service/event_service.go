package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/domain"
	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/dto"
	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/repository"
)

var ErrEventNotFound = errors.New("event not found")

// EventService defines the interface for class event operations
type EventService interface {
	// Create creates a new event under the identity's tenant key
	Create(ctx context.Context, identity domain.Identity, req *dto.CreateEventRequest) (*dto.EventResponse, error)
	// GetByID retrieves an event visible to the identity
	GetByID(ctx context.Context, identity domain.Identity, id string) (*dto.EventResponse, error)
	// List retrieves events visible to the identity
	List(ctx context.Context, identity domain.Identity, query *dto.ListEventsQuery) (*dto.EventListResponse, error)
	// Update updates an event
	Update(ctx context.Context, identity domain.Identity, id string, req *dto.UpdateEventRequest) (*dto.EventResponse, error)
	// Delete soft deletes an event
	Delete(ctx context.Context, identity domain.Identity, id string) error
}

// eventService implements EventService
type eventService struct {
	eventRepo        repository.EventRepository
	registrationRepo repository.RegistrationRepository
}

// NewEventService creates a new EventService
func NewEventService(eventRepo repository.EventRepository, registrationRepo repository.RegistrationRepository) EventService {
	return &eventService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
	}
}

// visibleKeys returns the tenant keys whose events the identity sees.
// A widget sees its own events plus events created under the coarser
// site key before component ids were threaded through.
func visibleKeys(identity domain.Identity) []string {
	keys := []string{identity.TenantKey()}
	if identity.Authenticated() && identity.CompID != "" {
		keys = append(keys, identity.SiteTenantKey())
	}
	return keys
}

// Create creates a new event under the identity's tenant key
func (s *eventService) Create(ctx context.Context, identity domain.Identity, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	if valid, errMsg := req.Validate(); !valid {
		return nil, errors.New(errMsg)
	}

	recurrence := req.Recurrence
	if recurrence == "" {
		recurrence = domain.RecurrenceNone
	}

	now := time.Now()
	event := &domain.Event{
		ID:          uuid.New().String(),
		TenantKey:   identity.TenantKey(),
		InstanceID:  identity.InstanceID,
		CompID:      identity.CompID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Instructor:  req.Instructor,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		Recurrence:  recurrence,
		Capacity:    req.Capacity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	return dto.FromEvent(event, 0), nil
}

// GetByID retrieves an event visible to the identity
func (s *eventService) GetByID(ctx context.Context, identity domain.Identity, id string) (*dto.EventResponse, error) {
	event, err := s.findVisible(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	registered, err := s.registrationRepo.CountActiveByEventID(ctx, event.TenantKey, event.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromEvent(event, registered), nil
}

// List retrieves events visible to the identity
func (s *eventService) List(ctx context.Context, identity domain.Identity, query *dto.ListEventsQuery) (*dto.EventListResponse, error) {
	query.SetDefaults()

	events, err := s.eventRepo.ListByTenantKeys(ctx, visibleKeys(identity), repository.EventFilter{
		From:  query.From,
		To:    query.To,
		Limit: query.Limit,
	})
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.EventResponse, 0, len(events))
	for _, event := range events {
		registered, err := s.registrationRepo.CountActiveByEventID(ctx, event.TenantKey, event.ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, dto.FromEvent(event, registered))
	}

	return &dto.EventListResponse{
		Events: responses,
		Total:  len(responses),
	}, nil
}

// Update updates an event
func (s *eventService) Update(ctx context.Context, identity domain.Identity, id string, req *dto.UpdateEventRequest) (*dto.EventResponse, error) {
	if valid, errMsg := req.Validate(); !valid {
		return nil, errors.New(errMsg)
	}

	event, err := s.findVisible(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.Instructor != nil {
		event.Instructor = *req.Instructor
	}
	if req.StartAt != nil {
		event.StartAt = *req.StartAt
	}
	if req.EndAt != nil {
		event.EndAt = *req.EndAt
	}
	if req.Recurrence != nil {
		event.Recurrence = *req.Recurrence
	}
	if req.Capacity != nil {
		event.Capacity = *req.Capacity
	}
	if !event.EndAt.After(event.StartAt) {
		return nil, errors.New("end_at must be after start_at")
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	registered, err := s.registrationRepo.CountActiveByEventID(ctx, event.TenantKey, event.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromEvent(event, registered), nil
}

// Delete soft deletes an event
func (s *eventService) Delete(ctx context.Context, identity domain.Identity, id string) error {
	event, err := s.findVisible(ctx, identity, id)
	if err != nil {
		return err
	}
	return s.eventRepo.SoftDelete(ctx, event.TenantKey, event.ID)
}

// findVisible looks the event up under each visible tenant key in order
func (s *eventService) findVisible(ctx context.Context, identity domain.Identity, id string) (*domain.Event, error) {
	for _, key := range visibleKeys(identity) {
		event, err := s.eventRepo.GetByID(ctx, key, id)
		if err != nil {
			return nil, err
		}
		if event != nil {
			return event, nil
		}
	}
	return nil, ErrEventNotFound
}
