package domain

import "time"

// Plan represents a yoga plan (a named sequence of poses) owned by a
// tenant. Poses are stored as an ordered list of pose names.
type Plan struct {
	ID          string    `json:"id"`
	TenantKey   string    `json:"tenant_key"`
	Title       string    `json:"title"`
	Level       string    `json:"level"` // beginner, intermediate, advanced
	FocusArea   string    `json:"focus_area,omitempty"`
	Poses       []string  `json:"poses"`
	Notes       string    `json:"notes,omitempty"`
	GeneratedBy string    `json:"generated_by"` // manual, assistant
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Plan levels
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// Plan origins
const (
	GeneratedManually    = "manual"
	GeneratedByAssistant = "assistant"
)
