package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/domain"
)

type stubRegistrationRepo struct {
	mu            sync.Mutex
	registrations []*domain.Registration
}

func (r *stubRegistrationRepo) Create(_ context.Context, registration *domain.Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registrations = append(r.registrations, registration)
	return nil
}

func (r *stubRegistrationRepo) GetByID(context.Context, string, string) (*domain.Registration, error) {
	return nil, nil
}

func (r *stubRegistrationRepo) ListByEventID(context.Context, string, string) ([]*domain.Registration, error) {
	return nil, nil
}

func (r *stubRegistrationRepo) CountActiveByEventID(context.Context, string, string) (int, error) {
	return 0, nil
}

func (r *stubRegistrationRepo) ExistsActiveByEmail(context.Context, string, string, string) (bool, error) {
	return false, nil
}

func (r *stubRegistrationRepo) UpdateStatus(context.Context, string, string, string) error {
	return nil
}

func (r *stubRegistrationRepo) ExpirePending(_ context.Context, cutoff time.Time, limit int) ([]*domain.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	expired := make([]*domain.Registration, 0)
	for _, registration := range r.registrations {
		if len(expired) >= limit {
			break
		}
		if registration.Status == domain.RegistrationStatusPending && registration.CreatedAt.Before(cutoff) {
			registration.Status = domain.RegistrationStatusCancelled
			expired = append(expired, registration)
		}
	}
	return expired, nil
}

func TestDefaultExpiryWorkerConfig(t *testing.T) {
	config := DefaultExpiryWorkerConfig()

	if config.ScanInterval != 30*time.Second {
		t.Errorf("ScanInterval = %v, want %v", config.ScanInterval, 30*time.Second)
	}
	if config.HoldDuration != 15*time.Minute {
		t.Errorf("HoldDuration = %v, want %v", config.HoldDuration, 15*time.Minute)
	}
	if config.BatchSize != 100 {
		t.Errorf("BatchSize = %v, want %v", config.BatchSize, 100)
	}
}

func TestNewExpiryWorker_WithDefaultConfig(t *testing.T) {
	worker := NewExpiryWorker(nil, nil, nil)

	if worker == nil {
		t.Fatal("NewExpiryWorker() returned nil")
	}
	if worker.config == nil {
		t.Fatal("Worker config should not be nil")
	}
	if worker.running {
		t.Error("Worker should not be running initially")
	}
	if worker.totalExpired != 0 {
		t.Errorf("TotalExpired = %v, want 0", worker.totalExpired)
	}
}

func TestExpiryWorker_Scan(t *testing.T) {
	repo := &stubRegistrationRepo{}
	stale := &domain.Registration{
		ID:        "stale",
		TenantKey: "site1__widget1",
		EventID:   "event1",
		Status:    domain.RegistrationStatusPending,
		CreatedAt: time.Now().Add(-time.Hour),
	}
	fresh := &domain.Registration{
		ID:        "fresh",
		TenantKey: "site1__widget1",
		EventID:   "event1",
		Status:    domain.RegistrationStatusPending,
		CreatedAt: time.Now(),
	}
	repo.registrations = []*domain.Registration{stale, fresh}

	worker := NewExpiryWorker(repo, nil, &ExpiryWorkerConfig{
		ScanInterval: time.Minute,
		HoldDuration: 15 * time.Minute,
		BatchSize:    100,
	})
	worker.scan(context.Background())

	if stale.Status != domain.RegistrationStatusCancelled {
		t.Errorf("Stale registration status = %s, want cancelled", stale.Status)
	}
	if fresh.Status != domain.RegistrationStatusPending {
		t.Errorf("Fresh registration status = %s, want pending", fresh.Status)
	}

	stats := worker.GetStats()
	if stats.TotalExpired != 1 {
		t.Errorf("TotalExpired = %d, want 1", stats.TotalExpired)
	}
	if stats.LastExpiredCount != 1 {
		t.Errorf("LastExpiredCount = %d, want 1", stats.LastExpiredCount)
	}
}

func TestExpiryWorker_StartStop(t *testing.T) {
	worker := NewExpiryWorker(&stubRegistrationRepo{}, nil, &ExpiryWorkerConfig{
		ScanInterval: 10 * time.Millisecond,
		HoldDuration: time.Minute,
		BatchSize:    10,
	})

	worker.Start(context.Background())
	if !worker.GetStats().IsRunning {
		t.Error("Worker should be running after Start")
	}

	// second Start is a no-op
	worker.Start(context.Background())

	time.Sleep(30 * time.Millisecond)
	worker.Stop()

	if worker.GetStats().IsRunning {
		t.Error("Worker should not be running after Stop")
	}

	// second Stop is a no-op
	worker.Stop()
}
