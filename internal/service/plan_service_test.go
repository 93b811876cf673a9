package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/domain"
	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/dto"
)

type fakePlanRepo struct {
	mu    sync.Mutex
	plans map[string]*domain.Plan
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: make(map[string]*domain.Plan)}
}

func (r *fakePlanRepo) Create(_ context.Context, plan *domain.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *plan
	r.plans[plan.ID] = &copied
	return nil
}

func (r *fakePlanRepo) GetByID(_ context.Context, tenantKey, id string) (*domain.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	plan, ok := r.plans[id]
	if !ok || plan.TenantKey != tenantKey {
		return nil, nil
	}
	copied := *plan
	return &copied, nil
}

func (r *fakePlanRepo) ListByTenantKey(_ context.Context, tenantKey string) ([]*domain.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	plans := make([]*domain.Plan, 0)
	for _, plan := range r.plans {
		if plan.TenantKey == tenantKey {
			copied := *plan
			plans = append(plans, &copied)
		}
	}
	return plans, nil
}

func (r *fakePlanRepo) CountByTenantKey(_ context.Context, tenantKey string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, plan := range r.plans {
		if plan.TenantKey == tenantKey {
			count++
		}
	}
	return count, nil
}

func (r *fakePlanRepo) Update(_ context.Context, plan *domain.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *plan
	r.plans[plan.ID] = &copied
	return nil
}

func (r *fakePlanRepo) Delete(_ context.Context, _, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.plans, id)
	return nil
}

func TestPlanGenerate_Deterministic(t *testing.T) {
	svc := NewPlanService(newFakePlanRepo())
	ctx := context.Background()
	req := &dto.GeneratePlanRequest{Level: domain.LevelIntermediate, FocusArea: "balance"}

	first, err := svc.Generate(ctx, widgetIdentity(), req)
	require.NoError(t, err)
	second, err := svc.Generate(ctx, widgetIdentity(), req)
	require.NoError(t, err)

	assert.Equal(t, first.Poses, second.Poses)
	assert.Equal(t, domain.GeneratedByAssistant, first.GeneratedBy)
	assert.Equal(t, "intermediate balance flow", first.Title)
	assert.Contains(t, first.Poses, "Tree Pose")
}

func TestPlanCreate_TierLimit(t *testing.T) {
	svc := NewPlanService(newFakePlanRepo())
	ctx := context.Background()
	identity := widgetIdentity() // free tier, limit 3

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, identity, &dto.CreatePlanRequest{Title: "Flow"})
		require.NoError(t, err)
	}

	_, err := svc.Create(ctx, identity, &dto.CreatePlanRequest{Title: "One too many"})
	assert.ErrorIs(t, err, ErrPlanLimitReached)

	// business tier is unlimited
	business := domain.Identity{InstanceID: "site2", CompID: "widget1", Tier: domain.TierBusiness}
	for i := 0; i < 20; i++ {
		_, err := svc.Create(ctx, business, &dto.CreatePlanRequest{Title: "Flow"})
		require.NoError(t, err)
	}
}

func TestPlanUpdateAndDelete(t *testing.T) {
	svc := NewPlanService(newFakePlanRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, widgetIdentity(), &dto.CreatePlanRequest{
		Title: "Morning Flow",
		Poses: []string{"Mountain Pose"},
	})
	require.NoError(t, err)

	newTitle := "Evening Flow"
	updated, err := svc.Update(ctx, widgetIdentity(), created.ID, &dto.UpdatePlanRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "Evening Flow", updated.Title)
	assert.Equal(t, []string{"Mountain Pose"}, updated.Poses)

	require.NoError(t, svc.Delete(ctx, widgetIdentity(), created.ID))

	_, err = svc.GetByID(ctx, widgetIdentity(), created.ID)
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestPlanUpdate_RejectsEmptyRequest(t *testing.T) {
	svc := NewPlanService(newFakePlanRepo())

	_, err := svc.Update(context.Background(), widgetIdentity(), "any", &dto.UpdatePlanRequest{})
	require.Error(t, err)
}
