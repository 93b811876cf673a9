package dto

import (
	"time"

	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/domain"
)

// CreateRegistrationRequest represents a request to register for an event
type CreateRegistrationRequest struct {
	EventID string `json:"event_id" binding:"required"`
	Name    string `json:"name" binding:"required,min=1,max=255"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"omitempty,max=50"`
}

// RegistrationResponse represents a registration in a response
type RegistrationResponse struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromRegistration converts a domain Registration to RegistrationResponse
func FromRegistration(r *domain.Registration) *RegistrationResponse {
	return &RegistrationResponse{
		ID:        r.ID,
		EventID:   r.EventID,
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// RegistrationListResponse represents a list of registrations
type RegistrationListResponse struct {
	Registrations []*RegistrationResponse `json:"registrations"`
	Total         int                     `json:"total"`
}
