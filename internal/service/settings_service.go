package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/domain"
	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/dto"
	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/repository"
	"github.com/Shaen-ai/yoga-saas-platform-backend/pkg/logger"
	"github.com/Shaen-ai/yoga-saas-platform-backend/pkg/telemetry"
)

// ErrSettingsStoreUnavailable signals that the settings store could
// not be reached. Distinct from not-found: callers answer 503 and the
// widget retries, rather than silently falling back to defaults.
var ErrSettingsStoreUnavailable = errors.New("settings store unavailable")

// Resolution outcomes, recorded per lookup
const (
	ResolutionExact        = "exact"
	ResolutionSiteFallback = "site_fallback"
	ResolutionCreated      = "created"
	ResolutionTransient    = "transient"
)

// SettingsService defines the interface for settings resolution and updates
type SettingsService interface {
	// Resolve locates the settings for the request identity, walking
	// the fallback chain and auto-provisioning on first contact
	Resolve(ctx context.Context, identity domain.Identity) (*dto.SettingsResponse, error)
	// Update applies a partial settings update for the request identity
	Update(ctx context.Context, identity domain.Identity, req *dto.UpdateSettingsRequest) (*dto.SettingsResponse, error)
}

// settingsService implements SettingsService
type settingsService struct {
	settingsRepo repository.SettingsRepository
	resolutions  *telemetry.Counter
}

// NewSettingsService creates a new SettingsService. The resolutions
// counter may be nil in tests.
func NewSettingsService(settingsRepo repository.SettingsRepository, resolutions *telemetry.Counter) SettingsService {
	return &settingsService{
		settingsRepo: settingsRepo,
		resolutions:  resolutions,
	}
}

// Resolve locates the settings for the request identity. The chain is
// fixed: exact tenant key, then the coarser site key when a component
// id was supplied, then lazy creation when the identity carries both
// an instance and a component id. Every other miss gets transient
// defaults; the read path never writes a row for the shared default
// key or a bare site key.
func (s *settingsService) Resolve(ctx context.Context, identity domain.Identity) (*dto.SettingsResponse, error) {
	settings, outcome, err := s.resolve(ctx, identity)
	if err != nil {
		return nil, err
	}

	s.recordResolution(ctx, outcome, settings.TenantKey)
	logger.WithContext(ctx).Debug("settings resolved",
		zap.String("resolution", outcome),
		zap.String("tier", settings.Tier))

	return dto.FromSettings(settings), nil
}

func (s *settingsService) resolve(ctx context.Context, identity domain.Identity) (*domain.WidgetSettings, string, error) {
	tenantKey := identity.TenantKey()

	settings, err := s.settingsRepo.GetByTenantKey(ctx, tenantKey)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrSettingsStoreUnavailable, err)
	}
	if settings != nil {
		settings.RepairIdentity(identity)
		return settings, ResolutionExact, nil
	}

	// Widget-scoped miss: the site may have settings from before the
	// component id was threaded through.
	if identity.Authenticated() && identity.CompID != "" {
		siteSettings, err := s.settingsRepo.GetByTenantKey(ctx, identity.SiteTenantKey())
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrSettingsStoreUnavailable, err)
		}
		if siteSettings != nil {
			siteSettings.RepairIdentity(identity)
			return siteSettings, ResolutionSiteFallback, nil
		}
	}

	// Lazy creation needs both ids: an instance-only miss stays
	// transient so a read never mints a site-key row. The write path
	// persists one if the client actually saves.
	if !identity.Authenticated() || identity.CompID == "" {
		return domain.DefaultSettings(tenantKey), ResolutionTransient, nil
	}

	created, err := s.provision(ctx, identity, tenantKey)
	if err != nil {
		return nil, "", err
	}
	return created, ResolutionCreated, nil
}

// provision creates the settings row for a first-contact tenant key.
// The insert is a no-op when a concurrent request won the race; the
// re-read below returns the single surviving row either way.
func (s *settingsService) provision(ctx context.Context, identity domain.Identity, tenantKey string) (*domain.WidgetSettings, error) {
	tier, err := s.settingsRepo.FindTierByInstanceID(ctx, identity.InstanceID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSettingsStoreUnavailable, err)
	}
	if tier == "" {
		tier = identity.Tier
	}
	if tier == "" {
		tier = domain.TierFree
	}

	settings := domain.DefaultSettings(tenantKey)
	settings.ID = uuid.New().String()
	settings.InstanceID = identity.InstanceID
	settings.CompID = identity.CompID
	settings.Tier = tier
	settings.Transient = false

	if err := s.settingsRepo.CreateIfAbsent(ctx, settings); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSettingsStoreUnavailable, err)
	}

	stored, err := s.settingsRepo.GetByTenantKey(ctx, tenantKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSettingsStoreUnavailable, err)
	}
	if stored == nil {
		return nil, fmt.Errorf("%w: provisioned settings not readable", ErrSettingsStoreUnavailable)
	}
	return stored, nil
}

// Update applies a partial settings update. Supplied preference groups
// are merged key-by-key onto the stored record; omitted groups are
// untouched. Unlike the read path, updates persist a row even for the
// shared default key, so local development keeps its edits.
func (s *settingsService) Update(ctx context.Context, identity domain.Identity, req *dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	if valid, errMsg := req.Validate(); !valid {
		return nil, errors.New(errMsg)
	}

	settings, _, err := s.resolve(ctx, identity)
	if err != nil {
		return nil, err
	}

	if settings.Transient {
		settings.ID = uuid.New().String()
		settings.Transient = false
	}
	settings.RepairIdentity(identity)
	settings.ApplyUpdate(req.Layout, req.Appearance, req.Calendar, req.Behavior)

	// An update addressed to a widget key persists under that key even
	// when the read resolved through the site fallback, so the widget
	// forks its own settings on first write.
	tenantKey := identity.TenantKey()
	if settings.TenantKey != tenantKey {
		settings.ID = uuid.New().String()
		settings.TenantKey = tenantKey
		settings.CompID = identity.CompID
		settings.CreatedAt = time.Now()
	}

	if err := s.settingsRepo.Upsert(ctx, settings); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSettingsStoreUnavailable, err)
	}

	logger.WithContext(ctx).Info("settings updated",
		zap.String("tier", settings.Tier))

	return dto.FromSettings(settings), nil
}

func (s *settingsService) recordResolution(ctx context.Context, outcome, tenantKey string) {
	if s.resolutions == nil {
		return
	}
	s.resolutions.Inc(ctx,
		telemetry.ResolutionAttr(outcome),
		telemetry.TenantKeyAttr(tenantKey),
	)
}
