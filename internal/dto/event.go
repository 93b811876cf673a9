package dto

import (
	"time"

	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/domain"
)

// CreateEventRequest represents a request to create a class event
type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required,min=1,max=255"`
	Description string    `json:"description" binding:"omitempty,max=2000"`
	Location    string    `json:"location" binding:"omitempty,max=255"`
	Instructor  string    `json:"instructor" binding:"omitempty,max=255"`
	StartAt     time.Time `json:"start_at" binding:"required"`
	EndAt       time.Time `json:"end_at" binding:"required"`
	Recurrence  string    `json:"recurrence" binding:"omitempty,oneof=none daily weekly monthly"`
	Capacity    int       `json:"capacity" binding:"omitempty,min=0"`
}

// Validate checks cross-field constraints gin bindings cannot express
func (r *CreateEventRequest) Validate() (bool, string) {
	if !r.EndAt.After(r.StartAt) {
		return false, "end_at must be after start_at"
	}
	return true, ""
}

// UpdateEventRequest represents a partial event update
type UpdateEventRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	Location    *string    `json:"location" binding:"omitempty,max=255"`
	Instructor  *string    `json:"instructor" binding:"omitempty,max=255"`
	StartAt     *time.Time `json:"start_at" binding:"omitempty"`
	EndAt       *time.Time `json:"end_at" binding:"omitempty"`
	Recurrence  *string    `json:"recurrence" binding:"omitempty,oneof=none daily weekly monthly"`
	Capacity    *int       `json:"capacity" binding:"omitempty,min=0"`
}

// Validate validates that at least one field is provided for update
func (r *UpdateEventRequest) Validate() (bool, string) {
	if r.Title == nil && r.Description == nil && r.Location == nil &&
		r.Instructor == nil && r.StartAt == nil && r.EndAt == nil &&
		r.Recurrence == nil && r.Capacity == nil {
		return false, "At least one field must be provided for update"
	}
	return true, ""
}

// ListEventsQuery represents query parameters for listing events
type ListEventsQuery struct {
	From  *time.Time `form:"from" binding:"omitempty"`
	To    *time.Time `form:"to" binding:"omitempty"`
	Limit int        `form:"limit" binding:"omitempty,min=1,max=200"`
}

// SetDefaults sets default values for query parameters
func (q *ListEventsQuery) SetDefaults() {
	if q.Limit == 0 {
		q.Limit = 100
	}
}

// EventResponse represents a class event in a response
type EventResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Instructor  string    `json:"instructor,omitempty"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	Recurrence  string    `json:"recurrence"`
	Capacity    int       `json:"capacity"`
	Registered  int       `json:"registered"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FromEvent converts a domain Event to EventResponse
func FromEvent(e *domain.Event, registered int) *EventResponse {
	recurrence := e.Recurrence
	if recurrence == "" {
		recurrence = domain.RecurrenceNone
	}
	return &EventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		Instructor:  e.Instructor,
		StartAt:     e.StartAt,
		EndAt:       e.EndAt,
		Recurrence:  recurrence,
		Capacity:    e.Capacity,
		Registered:  registered,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// EventListResponse represents a list of events
type EventListResponse struct {
	Events []*EventResponse `json:"events"`
	Total  int              `json:"total"`
}
