package dto

import (
	"time"

	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/domain"
)

// UpdateSettingsRequest represents a partial settings update. Each
// preference group is optional; omitted groups keep their stored
// values, supplied groups are merged key-by-key.
type UpdateSettingsRequest struct {
	Layout     domain.PreferenceGroup `json:"layout" binding:"omitempty"`
	Appearance domain.PreferenceGroup `json:"appearance" binding:"omitempty"`
	Calendar   domain.PreferenceGroup `json:"calendar" binding:"omitempty"`
	Behavior   domain.PreferenceGroup `json:"behavior" binding:"omitempty"`
}

// Validate validates that at least one preference group is provided
func (r *UpdateSettingsRequest) Validate() (bool, string) {
	if r.Layout == nil && r.Appearance == nil && r.Calendar == nil && r.Behavior == nil {
		return false, "At least one preference group must be provided for update"
	}
	return true, ""
}

// SettingsResponse represents widget settings in a response
type SettingsResponse struct {
	TenantKey  string                 `json:"tenant_key"`
	Tier       string                 `json:"tier"`
	Layout     domain.PreferenceGroup `json:"layout"`
	Appearance domain.PreferenceGroup `json:"appearance"`
	Calendar   domain.PreferenceGroup `json:"calendar"`
	Behavior   domain.PreferenceGroup `json:"behavior"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// FromSettings converts a domain WidgetSettings to SettingsResponse
func FromSettings(s *domain.WidgetSettings) *SettingsResponse {
	return &SettingsResponse{
		TenantKey:  s.TenantKey,
		Tier:       s.Tier,
		Layout:     s.Layout,
		Appearance: s.Appearance,
		Calendar:   s.Calendar,
		Behavior:   s.Behavior,
		UpdatedAt:  s.UpdatedAt,
	}
}
