package domain

import "time"

// PreferenceGroup is one independently-optional bag of widget
// preferences. The backend passes group contents through unchanged;
// only the widget frontend interprets individual keys.
type PreferenceGroup map[string]interface{}

// WidgetSettings is the persisted settings record, one per resolved
// tenant key. Created lazily on the first authenticated request for a
// new (instance, comp) pair and never deleted by this subsystem.
type WidgetSettings struct {
	ID         string          `json:"id"`
	TenantKey  string          `json:"tenant_key"`
	InstanceID string          `json:"instance_id,omitempty"`
	CompID     string          `json:"comp_id,omitempty"`
	Tier       string          `json:"tier"`
	Layout     PreferenceGroup `json:"layout,omitempty"`
	Appearance PreferenceGroup `json:"appearance,omitempty"`
	Calendar   PreferenceGroup `json:"calendar,omitempty"`
	Behavior   PreferenceGroup `json:"behavior,omitempty"`
	Transient  bool            `json:"-"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// DefaultSettings returns the global default settings for a tenant
// key. The record is transient until the resolver persists it.
func DefaultSettings(tenantKey string) *WidgetSettings {
	now := time.Now()
	return &WidgetSettings{
		TenantKey: tenantKey,
		Tier:      TierFree,
		Layout: PreferenceGroup{
			"view":       "month",
			"daysToShow": 7,
		},
		Appearance: PreferenceGroup{
			"primaryColor": "#7c9a92",
			"textColor":    "#2f3e46",
		},
		Calendar: PreferenceGroup{
			"weekStartsOn": 1,
			"timeFormat":   "24h",
		},
		Behavior: PreferenceGroup{
			"clickAction": "tooltip",
		},
		Transient: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MergeGroup overlays the supplied keys onto an existing preference
// group, retaining keys the update does not mention.
func MergeGroup(existing, update PreferenceGroup) PreferenceGroup {
	if update == nil {
		return existing
	}
	merged := make(PreferenceGroup, len(existing)+len(update))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range update {
		merged[k] = v
	}
	return merged
}

// ApplyUpdate merges the supplied preference groups into the record.
// Groups not supplied keep their prior values.
func (s *WidgetSettings) ApplyUpdate(layout, appearance, calendar, behavior PreferenceGroup) {
	if layout != nil {
		s.Layout = MergeGroup(s.Layout, layout)
	}
	if appearance != nil {
		s.Appearance = MergeGroup(s.Appearance, appearance)
	}
	if calendar != nil {
		s.Calendar = MergeGroup(s.Calendar, calendar)
	}
	if behavior != nil {
		s.Behavior = MergeGroup(s.Behavior, behavior)
	}
	s.UpdatedAt = time.Now()
}

// RepairIdentity fills empty identity fields from the request
// identity. Fields already set are never overwritten.
func (s *WidgetSettings) RepairIdentity(id Identity) {
	if s.InstanceID == "" && id.InstanceID != "" {
		s.InstanceID = id.InstanceID
	}
	if s.CompID == "" && id.CompID != "" {
		s.CompID = id.CompID
	}
}
