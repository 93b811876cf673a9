package domain

import "time"

// Event represents one yoga class event shown by a widget. TenantKey
// is set once at creation and is the sole access filter; InstanceID
// and CompID are denormalized alongside for newer query paths.
type Event struct {
	ID          string     `json:"id"`
	TenantKey   string     `json:"tenant_key"`
	InstanceID  string     `json:"instance_id,omitempty"`
	CompID      string     `json:"comp_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	Instructor  string     `json:"instructor,omitempty"`
	StartAt     time.Time  `json:"start_at"`
	EndAt       time.Time  `json:"end_at"`
	Recurrence  string     `json:"recurrence,omitempty"` // none, daily, weekly, monthly
	Capacity    int        `json:"capacity"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// Recurrence labels. The widget renders these; there is no
// materialization of recurring occurrences server-side.
const (
	RecurrenceNone    = "none"
	RecurrenceDaily   = "daily"
	RecurrenceWeekly  = "weekly"
	RecurrenceMonthly = "monthly"
)

// HasCapacityLimit reports whether registrations are capped
func (e *Event) HasCapacityLimit() bool {
	return e.Capacity > 0
}
