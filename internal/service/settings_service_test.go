package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/domain"
	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/dto"
)

// fakeSettingsRepo is an in-memory SettingsRepository. Setting failGet
// etc. simulates a store outage.
type fakeSettingsRepo struct {
	mu      sync.Mutex
	records map[string]*domain.WidgetSettings

	failGet    bool
	failCreate bool
	failUpsert bool
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{records: make(map[string]*domain.WidgetSettings)}
}

var errStoreDown = errors.New("connection refused")

func (r *fakeSettingsRepo) GetByTenantKey(_ context.Context, tenantKey string) (*domain.WidgetSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failGet {
		return nil, errStoreDown
	}
	record, ok := r.records[tenantKey]
	if !ok {
		return nil, nil
	}
	copied := *record
	return &copied, nil
}

func (r *fakeSettingsRepo) FindTierByInstanceID(_ context.Context, instanceID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range r.records {
		if record.InstanceID == instanceID {
			return record.Tier, nil
		}
	}
	return "", nil
}

func (r *fakeSettingsRepo) CreateIfAbsent(_ context.Context, settings *domain.WidgetSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate {
		return errStoreDown
	}
	if _, exists := r.records[settings.TenantKey]; exists {
		return nil
	}
	copied := *settings
	r.records[settings.TenantKey] = &copied
	return nil
}

func (r *fakeSettingsRepo) Upsert(_ context.Context, settings *domain.WidgetSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpsert {
		return errStoreDown
	}
	copied := *settings
	r.records[settings.TenantKey] = &copied
	return nil
}

func (r *fakeSettingsRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

func widgetIdentity() domain.Identity {
	return domain.Identity{InstanceID: "site1", CompID: "widget1", Tier: domain.TierFree}
}

func TestResolve_ExactHit(t *testing.T) {
	repo := newFakeSettingsRepo()
	repo.records["site1__widget1"] = &domain.WidgetSettings{
		ID:        "existing",
		TenantKey: "site1__widget1",
		Tier:      domain.TierLight,
		Layout:    domain.PreferenceGroup{"view": "week"},
	}
	svc := NewSettingsService(repo, nil)

	resp, err := svc.Resolve(context.Background(), widgetIdentity())
	require.NoError(t, err)
	assert.Equal(t, "site1__widget1", resp.TenantKey)
	assert.Equal(t, domain.TierLight, resp.Tier)
	assert.Equal(t, "week", resp.Layout["view"])
	assert.Equal(t, 1, repo.count())
}

func TestResolve_SiteFallback(t *testing.T) {
	repo := newFakeSettingsRepo()
	repo.records["site1"] = &domain.WidgetSettings{
		ID:         "site-record",
		TenantKey:  "site1",
		InstanceID: "site1",
		Tier:       domain.TierBusiness,
		Appearance: domain.PreferenceGroup{"primaryColor": "#112233"},
	}
	svc := NewSettingsService(repo, nil)

	resp, err := svc.Resolve(context.Background(), widgetIdentity())
	require.NoError(t, err)
	assert.Equal(t, "site1", resp.TenantKey)
	assert.Equal(t, "#112233", resp.Appearance["primaryColor"])
	// the fallback read must not fork a widget row
	assert.Equal(t, 1, repo.count())
}

func TestResolve_AutoProvision(t *testing.T) {
	repo := newFakeSettingsRepo()
	svc := NewSettingsService(repo, nil)

	resp, err := svc.Resolve(context.Background(), widgetIdentity())
	require.NoError(t, err)
	assert.Equal(t, "site1__widget1", resp.TenantKey)
	assert.Equal(t, domain.TierFree, resp.Tier)
	assert.Equal(t, "month", resp.Layout["view"])
	assert.Equal(t, "#7c9a92", resp.Appearance["primaryColor"])

	stored := repo.records["site1__widget1"]
	require.NotNil(t, stored)
	assert.Equal(t, "site1", stored.InstanceID)
	assert.Equal(t, "widget1", stored.CompID)
	assert.NotEmpty(t, stored.ID)
}

func TestResolve_AutoProvisionInheritsTier(t *testing.T) {
	repo := newFakeSettingsRepo()
	repo.records["site1__other"] = &domain.WidgetSettings{
		ID:         "sibling",
		TenantKey:  "site1__other",
		InstanceID: "site1",
		CompID:     "other",
		Tier:       domain.TierBusiness,
	}
	svc := NewSettingsService(repo, nil)

	identity := domain.Identity{InstanceID: "site1", CompID: "new", Tier: domain.TierFree}
	resp, err := svc.Resolve(context.Background(), identity)
	require.NoError(t, err)
	assert.Equal(t, "site1__new", resp.TenantKey)
	assert.Equal(t, domain.TierBusiness, resp.Tier)
}

func TestResolve_AutoProvisionStoredTierWinsOverToken(t *testing.T) {
	repo := newFakeSettingsRepo()
	repo.records["site1__other"] = &domain.WidgetSettings{
		ID:         "sibling",
		TenantKey:  "site1__other",
		InstanceID: "site1",
		CompID:     "other",
		Tier:       domain.TierLight,
	}
	svc := NewSettingsService(repo, nil)

	// the sibling row reflects prior billing; the token only claims the
	// current product
	identity := domain.Identity{InstanceID: "site1", CompID: "new", Tier: domain.TierBusiness}
	resp, err := svc.Resolve(context.Background(), identity)
	require.NoError(t, err)
	assert.Equal(t, domain.TierLight, resp.Tier)
	assert.Equal(t, domain.TierLight, repo.records["site1__new"].Tier)
}

func TestResolve_InstanceOnlyStaysTransient(t *testing.T) {
	repo := newFakeSettingsRepo()
	svc := NewSettingsService(repo, nil)

	resp, err := svc.Resolve(context.Background(), domain.Identity{InstanceID: "site1", Tier: domain.TierFree})
	require.NoError(t, err)
	assert.Equal(t, "site1", resp.TenantKey)
	assert.Equal(t, "month", resp.Layout["view"])
	// a read without a component id never mints a site-key row
	assert.Equal(t, 0, repo.count())
}

func TestResolve_AutoProvisionIdempotent(t *testing.T) {
	repo := newFakeSettingsRepo()
	svc := NewSettingsService(repo, nil)

	var wg sync.WaitGroup
	results := make([]*dto.SettingsResponse, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := svc.Resolve(context.Background(), widgetIdentity())
			if err == nil {
				results[i] = resp
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, repo.count())
	id := repo.records["site1__widget1"].ID
	for _, resp := range results {
		require.NotNil(t, resp)
		assert.Equal(t, "site1__widget1", resp.TenantKey)
	}
	assert.NotEmpty(t, id)
}

func TestResolve_AnonymousTransient(t *testing.T) {
	repo := newFakeSettingsRepo()
	svc := NewSettingsService(repo, nil)

	resp, err := svc.Resolve(context.Background(), domain.Identity{Tier: domain.TierFree})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultTenantKey, resp.TenantKey)
	assert.Equal(t, "tooltip", resp.Behavior["clickAction"])
	// anonymous reads never persist
	assert.Equal(t, 0, repo.count())
}

func TestResolve_StoreOutage(t *testing.T) {
	repo := newFakeSettingsRepo()
	repo.failGet = true
	svc := NewSettingsService(repo, nil)

	_, err := svc.Resolve(context.Background(), widgetIdentity())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSettingsStoreUnavailable)
}

func TestUpdate_PartialMerge(t *testing.T) {
	repo := newFakeSettingsRepo()
	repo.records["site1__widget1"] = &domain.WidgetSettings{
		ID:         "existing",
		TenantKey:  "site1__widget1",
		InstanceID: "site1",
		CompID:     "widget1",
		Tier:       domain.TierFree,
		Layout:     domain.PreferenceGroup{"view": "month", "daysToShow": 7},
		Appearance: domain.PreferenceGroup{"primaryColor": "#7c9a92"},
	}
	svc := NewSettingsService(repo, nil)

	resp, err := svc.Update(context.Background(), widgetIdentity(), &dto.UpdateSettingsRequest{
		Layout: domain.PreferenceGroup{"view": "week"},
	})
	require.NoError(t, err)

	// the supplied key is overlaid, sibling keys and groups survive
	assert.Equal(t, "week", resp.Layout["view"])
	assert.Equal(t, 7, resp.Layout["daysToShow"])
	assert.Equal(t, "#7c9a92", resp.Appearance["primaryColor"])

	stored := repo.records["site1__widget1"]
	assert.Equal(t, "week", stored.Layout["view"])
}

func TestUpdate_RejectsEmptyRequest(t *testing.T) {
	svc := NewSettingsService(newFakeSettingsRepo(), nil)

	_, err := svc.Update(context.Background(), widgetIdentity(), &dto.UpdateSettingsRequest{})
	require.Error(t, err)
}

func TestUpdate_PersistsDefaultKey(t *testing.T) {
	repo := newFakeSettingsRepo()
	svc := NewSettingsService(repo, nil)

	resp, err := svc.Update(context.Background(), domain.Identity{Tier: domain.TierFree}, &dto.UpdateSettingsRequest{
		Appearance: domain.PreferenceGroup{"primaryColor": "#000000"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultTenantKey, resp.TenantKey)

	// unlike reads, updates persist a row even for the shared key
	stored := repo.records[domain.DefaultTenantKey]
	require.NotNil(t, stored)
	assert.Equal(t, "#000000", stored.Appearance["primaryColor"])
	assert.Equal(t, "month", stored.Layout["view"])
}

func TestUpdate_ForksWidgetKeyFromSiteFallback(t *testing.T) {
	repo := newFakeSettingsRepo()
	repo.records["site1"] = &domain.WidgetSettings{
		ID:         "site-record",
		TenantKey:  "site1",
		InstanceID: "site1",
		Tier:       domain.TierLight,
		Layout:     domain.PreferenceGroup{"view": "month"},
	}
	svc := NewSettingsService(repo, nil)

	resp, err := svc.Update(context.Background(), widgetIdentity(), &dto.UpdateSettingsRequest{
		Layout: domain.PreferenceGroup{"view": "week"},
	})
	require.NoError(t, err)
	assert.Equal(t, "site1__widget1", resp.TenantKey)

	// the widget now owns its own row; the site row is untouched
	assert.Equal(t, 2, repo.count())
	assert.Equal(t, "month", repo.records["site1"].Layout["view"])
	forked := repo.records["site1__widget1"]
	require.NotNil(t, forked)
	assert.Equal(t, "week", forked.Layout["view"])
	assert.Equal(t, domain.TierLight, forked.Tier)
	assert.Equal(t, "widget1", forked.CompID)
}

func TestUpdate_StoreOutage(t *testing.T) {
	repo := newFakeSettingsRepo()
	repo.records["site1__widget1"] = &domain.WidgetSettings{
		ID:        "existing",
		TenantKey: "site1__widget1",
		Tier:      domain.TierFree,
	}
	repo.failUpsert = true
	svc := NewSettingsService(repo, nil)

	_, err := svc.Update(context.Background(), widgetIdentity(), &dto.UpdateSettingsRequest{
		Layout: domain.PreferenceGroup{"view": "week"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSettingsStoreUnavailable)
}
