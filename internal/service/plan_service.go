package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/domain"
	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/dto"
	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/repository"
)

var (
	ErrPlanNotFound     = errors.New("plan not found")
	ErrPlanLimitReached = errors.New("plan limit reached for current tier")
)

// tierPlanLimits caps how many plans a tenant may keep per tier.
// Zero means unlimited.
var tierPlanLimits = map[string]int{
	domain.TierFree:     3,
	domain.TierLight:    15,
	domain.TierBusiness: 0,
}

// PlanService defines the interface for yoga plan operations
type PlanService interface {
	// Create creates a new plan under the identity's tenant key
	Create(ctx context.Context, identity domain.Identity, req *dto.CreatePlanRequest) (*dto.PlanResponse, error)
	// GetByID retrieves a plan
	GetByID(ctx context.Context, identity domain.Identity, id string) (*dto.PlanResponse, error)
	// List retrieves all plans for the identity's tenant
	List(ctx context.Context, identity domain.Identity) (*dto.PlanListResponse, error)
	// Update updates a plan
	Update(ctx context.Context, identity domain.Identity, id string, req *dto.UpdatePlanRequest) (*dto.PlanResponse, error)
	// Delete deletes a plan
	Delete(ctx context.Context, identity domain.Identity, id string) error
	// Generate produces a plan from a short brief and stores it
	Generate(ctx context.Context, identity domain.Identity, req *dto.GeneratePlanRequest) (*dto.PlanResponse, error)
}

// planService implements PlanService
type planService struct {
	planRepo repository.PlanRepository
}

// NewPlanService creates a new PlanService
func NewPlanService(planRepo repository.PlanRepository) PlanService {
	return &planService{planRepo: planRepo}
}

// Create creates a new plan under the identity's tenant key
func (s *planService) Create(ctx context.Context, identity domain.Identity, req *dto.CreatePlanRequest) (*dto.PlanResponse, error) {
	if err := s.checkPlanLimit(ctx, identity); err != nil {
		return nil, err
	}

	level := req.Level
	if level == "" {
		level = domain.LevelBeginner
	}

	now := time.Now()
	plan := &domain.Plan{
		ID:          uuid.New().String(),
		TenantKey:   identity.TenantKey(),
		Title:       req.Title,
		Level:       level,
		FocusArea:   req.FocusArea,
		Poses:       req.Poses,
		Notes:       req.Notes,
		GeneratedBy: domain.GeneratedManually,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if plan.Poses == nil {
		plan.Poses = []string{}
	}

	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, err
	}
	return dto.FromPlan(plan), nil
}

// GetByID retrieves a plan
func (s *planService) GetByID(ctx context.Context, identity domain.Identity, id string) (*dto.PlanResponse, error) {
	plan, err := s.planRepo.GetByID(ctx, identity.TenantKey(), id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	return dto.FromPlan(plan), nil
}

// List retrieves all plans for the identity's tenant
func (s *planService) List(ctx context.Context, identity domain.Identity) (*dto.PlanListResponse, error) {
	plans, err := s.planRepo.ListByTenantKey(ctx, identity.TenantKey())
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.PlanResponse, 0, len(plans))
	for _, plan := range plans {
		responses = append(responses, dto.FromPlan(plan))
	}
	return &dto.PlanListResponse{
		Plans: responses,
		Total: len(responses),
	}, nil
}

// Update updates a plan
func (s *planService) Update(ctx context.Context, identity domain.Identity, id string, req *dto.UpdatePlanRequest) (*dto.PlanResponse, error) {
	if valid, errMsg := req.Validate(); !valid {
		return nil, errors.New(errMsg)
	}

	plan, err := s.planRepo.GetByID(ctx, identity.TenantKey(), id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}

	if req.Title != nil {
		plan.Title = *req.Title
	}
	if req.Level != nil {
		plan.Level = *req.Level
	}
	if req.FocusArea != nil {
		plan.FocusArea = *req.FocusArea
	}
	if req.Poses != nil {
		plan.Poses = *req.Poses
	}
	if req.Notes != nil {
		plan.Notes = *req.Notes
	}

	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, err
	}
	return dto.FromPlan(plan), nil
}

// Delete deletes a plan
func (s *planService) Delete(ctx context.Context, identity domain.Identity, id string) error {
	plan, err := s.planRepo.GetByID(ctx, identity.TenantKey(), id)
	if err != nil {
		return err
	}
	if plan == nil {
		return ErrPlanNotFound
	}
	return s.planRepo.Delete(ctx, identity.TenantKey(), id)
}

// Generate produces a plan from a short brief and stores it. The
// generator is a deterministic assistant stub: the same brief always
// yields the same pose sequence.
func (s *planService) Generate(ctx context.Context, identity domain.Identity, req *dto.GeneratePlanRequest) (*dto.PlanResponse, error) {
	if err := s.checkPlanLimit(ctx, identity); err != nil {
		return nil, err
	}

	level := req.Level
	if level == "" {
		level = domain.LevelBeginner
	}

	poses := posesForLevel(level)
	if extra, ok := focusPoses[req.FocusArea]; ok {
		poses = append(poses, extra...)
	}

	title := fmt.Sprintf("%s flow", level)
	if req.FocusArea != "" {
		title = fmt.Sprintf("%s %s flow", level, req.FocusArea)
	}

	now := time.Now()
	plan := &domain.Plan{
		ID:          uuid.New().String(),
		TenantKey:   identity.TenantKey(),
		Title:       title,
		Level:       level,
		FocusArea:   req.FocusArea,
		Poses:       poses,
		GeneratedBy: domain.GeneratedByAssistant,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, err
	}
	return dto.FromPlan(plan), nil
}

func (s *planService) checkPlanLimit(ctx context.Context, identity domain.Identity) error {
	limit := tierPlanLimits[identity.Tier]
	if limit <= 0 {
		return nil
	}
	count, err := s.planRepo.CountByTenantKey(ctx, identity.TenantKey())
	if err != nil {
		return err
	}
	if count >= limit {
		return ErrPlanLimitReached
	}
	return nil
}

// Canned sequences for the assistant stub

var levelPoses = map[string][]string{
	domain.LevelBeginner: {
		"Mountain Pose", "Cat-Cow", "Downward Dog", "Child's Pose", "Corpse Pose",
	},
	domain.LevelIntermediate: {
		"Sun Salutation A", "Warrior I", "Warrior II", "Triangle Pose", "Bridge Pose", "Corpse Pose",
	},
	domain.LevelAdvanced: {
		"Sun Salutation B", "Crow Pose", "Headstand", "Wheel Pose", "King Pigeon", "Corpse Pose",
	},
}

var focusPoses = map[string][]string{
	"flexibility": {"Seated Forward Bend", "Pigeon Pose"},
	"strength":    {"Plank", "Chair Pose"},
	"balance":     {"Tree Pose", "Eagle Pose"},
	"relaxation":  {"Legs Up the Wall", "Reclined Twist"},
}

func posesForLevel(level string) []string {
	base, ok := levelPoses[level]
	if !ok {
		base = levelPoses[domain.LevelBeginner]
	}
	poses := make([]string, len(base))
	copy(poses, base)
	return poses
}
