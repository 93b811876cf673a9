package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/repository"
	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/service"
	"github.com/Shaen-ai/yoga-saas-platform-backend/pkg/kafka"
	"github.com/Shaen-ai/yoga-saas-platform-backend/pkg/logger"
)

// ExpiryWorkerConfig holds expiry worker settings
type ExpiryWorkerConfig struct {
	// ScanInterval is how often to scan for stale registrations
	ScanInterval time.Duration
	// HoldDuration is how long a pending registration keeps its spot
	// without payment
	HoldDuration time.Duration
	// BatchSize caps how many registrations one scan expires
	BatchSize int
}

// DefaultExpiryWorkerConfig returns default expiry worker configuration
func DefaultExpiryWorkerConfig() *ExpiryWorkerConfig {
	return &ExpiryWorkerConfig{
		ScanInterval: 30 * time.Second,
		HoldDuration: 15 * time.Minute,
		BatchSize:    100,
	}
}

// ExpiryWorkerStats holds a snapshot of worker counters
type ExpiryWorkerStats struct {
	IsRunning        bool
	TotalExpired     uint64
	LastScanTime     time.Time
	LastExpiredCount int
}

// ExpiryWorker periodically cancels pending registrations that were
// never paid, releasing their spots back to the event
type ExpiryWorker struct {
	registrationRepo repository.RegistrationRepository
	publisher        kafka.Publisher
	config           *ExpiryWorkerConfig

	mu               sync.Mutex
	running          bool
	stop             chan struct{}
	done             chan struct{}
	totalExpired     uint64
	lastScanTime     time.Time
	lastExpiredCount int
}

// NewExpiryWorker creates a new ExpiryWorker
func NewExpiryWorker(registrationRepo repository.RegistrationRepository, publisher kafka.Publisher, config *ExpiryWorkerConfig) *ExpiryWorker {
	if config == nil {
		config = DefaultExpiryWorkerConfig()
	}
	return &ExpiryWorker{
		registrationRepo: registrationRepo,
		publisher:        publisher,
		config:           config,
	}
}

// Start launches the scan loop. Starting a running worker is a no-op.
func (w *ExpiryWorker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.stop = make(chan struct{})
	w.done = make(chan struct{})
	w.mu.Unlock()

	go w.loop(ctx)
}

// Stop halts the scan loop and waits for the current scan to finish
func (w *ExpiryWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stop)
	done := w.done
	w.mu.Unlock()

	<-done
}

// GetStats returns a snapshot of worker counters
func (w *ExpiryWorker) GetStats() *ExpiryWorkerStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return &ExpiryWorkerStats{
		IsRunning:        w.running,
		TotalExpired:     w.totalExpired,
		LastScanTime:     w.lastScanTime,
		LastExpiredCount: w.lastExpiredCount,
	}
}

func (w *ExpiryWorker) loop(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.config.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.scan(ctx)
		case <-w.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// scan expires one batch of stale pending registrations
func (w *ExpiryWorker) scan(ctx context.Context) {
	cutoff := time.Now().Add(-w.config.HoldDuration)
	expired, err := w.registrationRepo.ExpirePending(ctx, cutoff, w.config.BatchSize)
	if err != nil {
		logger.WithContext(ctx).Error("registration expiry scan failed", zap.Error(err))
		return
	}

	for _, registration := range expired {
		if w.publisher == nil {
			continue
		}
		err := w.publisher.Publish(ctx, service.EventRegistrationCancelled, registration.TenantKey, map[string]interface{}{
			"registration_id": registration.ID,
			"event_id":        registration.EventID,
			"email":           registration.Email,
			"status":          registration.Status,
			"reason":          "payment_hold_expired",
		})
		if err != nil {
			logger.WithContext(ctx).Warn("failed to publish expiry event", zap.Error(err))
		}
	}

	w.mu.Lock()
	w.totalExpired += uint64(len(expired))
	w.lastScanTime = time.Now()
	w.lastExpiredCount = len(expired)
	w.mu.Unlock()

	if len(expired) > 0 {
		logger.WithContext(ctx).Info("expired stale registrations", zap.Int("count", len(expired)))
	}
}
