package dto

import (
	"time"

	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/domain"
)

// CreatePlanRequest represents a request to create a yoga plan
type CreatePlanRequest struct {
	Title     string   `json:"title" binding:"required,min=1,max=255"`
	Level     string   `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
	FocusArea string   `json:"focus_area" binding:"omitempty,max=255"`
	Poses     []string `json:"poses" binding:"omitempty,dive,min=1,max=255"`
	Notes     string   `json:"notes" binding:"omitempty,max=2000"`
}

// UpdatePlanRequest represents a partial plan update
type UpdatePlanRequest struct {
	Title     *string   `json:"title" binding:"omitempty,min=1,max=255"`
	Level     *string   `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
	FocusArea *string   `json:"focus_area" binding:"omitempty,max=255"`
	Poses     *[]string `json:"poses" binding:"omitempty,dive,min=1,max=255"`
	Notes     *string   `json:"notes" binding:"omitempty,max=2000"`
}

// Validate validates that at least one field is provided for update
func (r *UpdatePlanRequest) Validate() (bool, string) {
	if r.Title == nil && r.Level == nil && r.FocusArea == nil && r.Poses == nil && r.Notes == nil {
		return false, "At least one field must be provided for update"
	}
	return true, ""
}

// GeneratePlanRequest represents a request to generate a plan from a
// short brief
type GeneratePlanRequest struct {
	Level     string `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
	FocusArea string `json:"focus_area" binding:"omitempty,max=255"`
	Duration  int    `json:"duration_minutes" binding:"omitempty,min=10,max=120"`
}

// PlanResponse represents a yoga plan in a response
type PlanResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Level       string    `json:"level"`
	FocusArea   string    `json:"focus_area,omitempty"`
	Poses       []string  `json:"poses"`
	Notes       string    `json:"notes,omitempty"`
	GeneratedBy string    `json:"generated_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FromPlan converts a domain Plan to PlanResponse
func FromPlan(p *domain.Plan) *PlanResponse {
	return &PlanResponse{
		ID:          p.ID,
		Title:       p.Title,
		Level:       p.Level,
		FocusArea:   p.FocusArea,
		Poses:       p.Poses,
		Notes:       p.Notes,
		GeneratedBy: p.GeneratedBy,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// PlanListResponse represents a list of plans
type PlanListResponse struct {
	Plans []*PlanResponse `json:"plans"`
	Total int             `json:"total"`
}
