package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/domain"
	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/dto"
	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/repository"
)

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[string]*domain.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[string]*domain.Event)}
}

func (r *fakeEventRepo) Create(_ context.Context, event *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *event
	r.events[event.ID] = &copied
	return nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, tenantKey, id string) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok || event.TenantKey != tenantKey || event.DeletedAt != nil {
		return nil, nil
	}
	copied := *event
	return &copied, nil
}

func (r *fakeEventRepo) ListByTenantKeys(_ context.Context, tenantKeys []string, _ repository.EventFilter) ([]*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	keySet := make(map[string]bool, len(tenantKeys))
	for _, key := range tenantKeys {
		keySet[key] = true
	}
	events := make([]*domain.Event, 0)
	for _, event := range r.events {
		if keySet[event.TenantKey] && event.DeletedAt == nil {
			copied := *event
			events = append(events, &copied)
		}
	}
	return events, nil
}

func (r *fakeEventRepo) Update(_ context.Context, event *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *event
	r.events[event.ID] = &copied
	return nil
}

func (r *fakeEventRepo) SoftDelete(_ context.Context, _, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.events[id].DeletedAt = &now
	return nil
}

type fakeRegistrationRepo struct {
	mu            sync.Mutex
	registrations map[string]*domain.Registration
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{registrations: make(map[string]*domain.Registration)}
}

func (r *fakeRegistrationRepo) Create(_ context.Context, registration *domain.Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *registration
	r.registrations[registration.ID] = &copied
	return nil
}

func (r *fakeRegistrationRepo) GetByID(_ context.Context, tenantKey, id string) (*domain.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	registration, ok := r.registrations[id]
	if !ok || registration.TenantKey != tenantKey {
		return nil, nil
	}
	copied := *registration
	return &copied, nil
}

func (r *fakeRegistrationRepo) ListByEventID(_ context.Context, tenantKey, eventID string) ([]*domain.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	registrations := make([]*domain.Registration, 0)
	for _, registration := range r.registrations {
		if registration.TenantKey == tenantKey && registration.EventID == eventID {
			copied := *registration
			registrations = append(registrations, &copied)
		}
	}
	return registrations, nil
}

func (r *fakeRegistrationRepo) CountActiveByEventID(_ context.Context, tenantKey, eventID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, registration := range r.registrations {
		if registration.TenantKey == tenantKey && registration.EventID == eventID && registration.IsActive() {
			count++
		}
	}
	return count, nil
}

func (r *fakeRegistrationRepo) ExistsActiveByEmail(_ context.Context, tenantKey, eventID, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, registration := range r.registrations {
		if registration.TenantKey == tenantKey && registration.EventID == eventID &&
			registration.Email == email && registration.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRegistrationRepo) ExpirePending(_ context.Context, cutoff time.Time, limit int) ([]*domain.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	expired := make([]*domain.Registration, 0)
	for _, registration := range r.registrations {
		if len(expired) >= limit {
			break
		}
		if registration.Status == domain.RegistrationStatusPending && registration.CreatedAt.Before(cutoff) {
			registration.Status = domain.RegistrationStatusCancelled
			copied := *registration
			expired = append(expired, &copied)
		}
	}
	return expired, nil
}

func (r *fakeRegistrationRepo) UpdateStatus(_ context.Context, tenantKey, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	registration, ok := r.registrations[id]
	if !ok || registration.TenantKey != tenantKey {
		return ErrRegistrationNotFound
	}
	registration.Status = status
	return nil
}

// fakePublisher records published messages
type fakePublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
}

type publishedMessage struct {
	eventType string
	tenantKey string
}

func (p *fakePublisher) Publish(_ context.Context, eventType, tenantKey string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, publishedMessage{eventType, tenantKey})
	return nil
}

func (p *fakePublisher) Close() {}

func (p *fakePublisher) published() []publishedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedMessage(nil), p.messages...)
}

func seedEvent(repo *fakeEventRepo, capacity int) *domain.Event {
	event := &domain.Event{
		ID:         "event1",
		TenantKey:  "site1__widget1",
		Title:      "Morning Flow",
		StartAt:    time.Now().Add(24 * time.Hour),
		EndAt:      time.Now().Add(25 * time.Hour),
		Recurrence: domain.RecurrenceNone,
		Capacity:   capacity,
	}
	repo.events[event.ID] = event
	return event
}

func TestRegistrationCreate(t *testing.T) {
	eventRepo := newFakeEventRepo()
	registrationRepo := newFakeRegistrationRepo()
	publisher := &fakePublisher{}
	seedEvent(eventRepo, 0)
	svc := NewRegistrationService(registrationRepo, eventRepo, publisher)

	resp, err := svc.Create(context.Background(), widgetIdentity(), &dto.CreateRegistrationRequest{
		EventID: "event1",
		Name:    "Ann",
		Email:   "ann@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RegistrationStatusPending, resp.Status)

	messages := publisher.published()
	require.Len(t, messages, 1)
	assert.Equal(t, EventRegistrationCreated, messages[0].eventType)
	assert.Equal(t, "site1__widget1", messages[0].tenantKey)
}

func TestRegistrationCreate_CapacityReached(t *testing.T) {
	eventRepo := newFakeEventRepo()
	registrationRepo := newFakeRegistrationRepo()
	seedEvent(eventRepo, 1)
	svc := NewRegistrationService(registrationRepo, eventRepo, &fakePublisher{})
	ctx := context.Background()

	_, err := svc.Create(ctx, widgetIdentity(), &dto.CreateRegistrationRequest{
		EventID: "event1", Name: "Ann", Email: "ann@example.com",
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, widgetIdentity(), &dto.CreateRegistrationRequest{
		EventID: "event1", Name: "Ben", Email: "ben@example.com",
	})
	assert.ErrorIs(t, err, ErrEventFull)
}

func TestRegistrationCreate_DuplicateEmail(t *testing.T) {
	eventRepo := newFakeEventRepo()
	registrationRepo := newFakeRegistrationRepo()
	seedEvent(eventRepo, 0)
	svc := NewRegistrationService(registrationRepo, eventRepo, &fakePublisher{})
	ctx := context.Background()

	_, err := svc.Create(ctx, widgetIdentity(), &dto.CreateRegistrationRequest{
		EventID: "event1", Name: "Ann", Email: "ann@example.com",
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, widgetIdentity(), &dto.CreateRegistrationRequest{
		EventID: "event1", Name: "Ann again", Email: "ann@example.com",
	})
	assert.ErrorIs(t, err, ErrDuplicateRegistration)
}

func TestRegistrationCreate_SiteScopedEvent(t *testing.T) {
	eventRepo := newFakeEventRepo()
	registrationRepo := newFakeRegistrationRepo()
	// legacy event created before component ids were threaded through
	event := seedEvent(eventRepo, 0)
	event.TenantKey = "site1"
	svc := NewRegistrationService(registrationRepo, eventRepo, &fakePublisher{})

	resp, err := svc.Create(context.Background(), widgetIdentity(), &dto.CreateRegistrationRequest{
		EventID: "event1", Name: "Ann", Email: "ann@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RegistrationStatusPending, resp.Status)
}

func TestRegistrationCancel(t *testing.T) {
	eventRepo := newFakeEventRepo()
	registrationRepo := newFakeRegistrationRepo()
	publisher := &fakePublisher{}
	seedEvent(eventRepo, 1)
	svc := NewRegistrationService(registrationRepo, eventRepo, publisher)
	ctx := context.Background()

	created, err := svc.Create(ctx, widgetIdentity(), &dto.CreateRegistrationRequest{
		EventID: "event1", Name: "Ann", Email: "ann@example.com",
	})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, widgetIdentity(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RegistrationStatusCancelled, cancelled.Status)

	// the spot is free again
	_, err = svc.Create(ctx, widgetIdentity(), &dto.CreateRegistrationRequest{
		EventID: "event1", Name: "Ben", Email: "ben@example.com",
	})
	require.NoError(t, err)

	// cancelling twice is a no-op, no duplicate publish
	_, err = svc.Cancel(ctx, widgetIdentity(), created.ID)
	require.NoError(t, err)

	types := make([]string, 0)
	for _, message := range publisher.published() {
		types = append(types, message.eventType)
	}
	assert.Equal(t, []string{
		EventRegistrationCreated,
		EventRegistrationCancelled,
		EventRegistrationCreated,
	}, types)
}

func TestRegistrationCreate_EventStarted(t *testing.T) {
	eventRepo := newFakeEventRepo()
	registrationRepo := newFakeRegistrationRepo()
	event := seedEvent(eventRepo, 0)
	event.StartAt = time.Now().Add(-time.Hour)
	event.EndAt = time.Now().Add(time.Hour)
	svc := NewRegistrationService(registrationRepo, eventRepo, &fakePublisher{})

	_, err := svc.Create(context.Background(), widgetIdentity(), &dto.CreateRegistrationRequest{
		EventID: "event1", Name: "Ann", Email: "ann@example.com",
	})
	assert.ErrorIs(t, err, ErrRegistrationClosed)
}
