package domain

import "testing"

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings(DefaultTenantKey)

	if s.TenantKey != DefaultTenantKey {
		t.Errorf("Expected tenant key %q, got %q", DefaultTenantKey, s.TenantKey)
	}
	if s.Tier != TierFree {
		t.Errorf("Expected tier %q, got %q", TierFree, s.Tier)
	}
	if !s.Transient {
		t.Error("Expected default settings to be transient")
	}
	if s.Appearance["primaryColor"] != "#7c9a92" {
		t.Errorf("Unexpected default primaryColor: %v", s.Appearance["primaryColor"])
	}
	if s.Behavior["clickAction"] != "tooltip" {
		t.Errorf("Unexpected default clickAction: %v", s.Behavior["clickAction"])
	}
}

func TestApplyUpdate_PartialMerge(t *testing.T) {
	s := DefaultSettings("site1__widget1")
	s.Layout = PreferenceGroup{"view": "week", "daysToShow": 5}

	s.ApplyUpdate(nil, PreferenceGroup{"primaryColor": "#111111"}, nil, nil)

	// Updated group merges the new key
	if s.Appearance["primaryColor"] != "#111111" {
		t.Errorf("Expected primaryColor '#111111', got %v", s.Appearance["primaryColor"])
	}
	// Untouched key in the same group survives
	if s.Appearance["textColor"] != "#2f3e46" {
		t.Errorf("Expected textColor untouched, got %v", s.Appearance["textColor"])
	}
	// Groups not supplied are untouched
	if s.Layout["view"] != "week" {
		t.Errorf("Expected layout untouched, got %v", s.Layout["view"])
	}
	if s.Layout["daysToShow"] != 5 {
		t.Errorf("Expected daysToShow untouched, got %v", s.Layout["daysToShow"])
	}
}

func TestMergeGroup_NilUpdate(t *testing.T) {
	existing := PreferenceGroup{"a": 1}
	if got := MergeGroup(existing, nil); got["a"] != 1 {
		t.Errorf("Expected existing group returned, got %v", got)
	}
}

func TestRepairIdentity(t *testing.T) {
	s := &WidgetSettings{TenantKey: "site1__widget1", InstanceID: "site1"}
	s.RepairIdentity(Identity{InstanceID: "other", CompID: "widget1"})

	// Already-set fields are never overwritten
	if s.InstanceID != "site1" {
		t.Errorf("Expected instance id preserved, got %s", s.InstanceID)
	}
	// Missing fields are filled
	if s.CompID != "widget1" {
		t.Errorf("Expected comp id repaired, got %s", s.CompID)
	}
}
