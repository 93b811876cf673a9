package domain

import "testing"

func TestComputeTenantKey(t *testing.T) {
	tests := []struct {
		name       string
		instanceID string
		compID     string
		expected   string
	}{
		{"both present", "site1", "widget1", "site1__widget1"},
		{"instance only", "site1", "", "site1"},
		{"comp only", "", "widget1", DefaultTenantKey},
		{"neither", "", "", DefaultTenantKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeTenantKey(tt.instanceID, tt.compID); got != tt.expected {
				t.Errorf("ComputeTenantKey(%q, %q) = %q, want %q", tt.instanceID, tt.compID, got, tt.expected)
			}
		})
	}
}

func TestComputeTenantKey_Deterministic(t *testing.T) {
	first := ComputeTenantKey("abc", "xyz")
	second := ComputeTenantKey("abc", "xyz")
	if first != second {
		t.Errorf("Expected identical keys, got %q and %q", first, second)
	}
}

func TestComputeTenantKey_WidgetAndSiteKeysNeverCollide(t *testing.T) {
	instances := []string{"site1", "a-b-c", "9f8e7d6c"}
	comps := []string{"comp1", "comp-123", "x"}

	for _, inst := range instances {
		siteKey := ComputeTenantKey(inst, "")
		for _, comp := range comps {
			widgetKey := ComputeTenantKey(inst, comp)
			if widgetKey == siteKey {
				t.Errorf("Widget key %q collides with site key for instance %q", widgetKey, inst)
			}
		}
	}
}

func TestIdentity_TenantKey(t *testing.T) {
	id := Identity{InstanceID: "site1", CompID: "widget1"}
	if id.TenantKey() != "site1__widget1" {
		t.Errorf("Unexpected tenant key: %s", id.TenantKey())
	}
	if id.SiteTenantKey() != "site1" {
		t.Errorf("Unexpected site key: %s", id.SiteTenantKey())
	}
	if !id.Authenticated() {
		t.Error("Expected identity with instance id to be authenticated")
	}

	anon := Identity{CompID: "widget1"}
	if anon.Authenticated() {
		t.Error("Expected identity without instance id to be unauthenticated")
	}
	if anon.TenantKey() != DefaultTenantKey {
		t.Errorf("Expected default key, got %s", anon.TenantKey())
	}
}
