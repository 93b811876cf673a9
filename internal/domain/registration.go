package domain

import "time"

// Registration represents one attendee registration for an event
type Registration struct {
	ID        string    `json:"id"`
	TenantKey string    `json:"tenant_key"`
	EventID   string    `json:"event_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Status    string    `json:"status"` // pending, confirmed, cancelled
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Registration statuses
const (
	RegistrationStatusPending   = "pending"
	RegistrationStatusConfirmed = "confirmed"
	RegistrationStatusCancelled = "cancelled"
)

// IsActive reports whether the registration still holds a spot
func (r *Registration) IsActive() bool {
	return r.Status != RegistrationStatusCancelled
}
