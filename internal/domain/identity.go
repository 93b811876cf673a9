package domain

// Entitlement tiers. Tiers gate widget features; every unknown or
// unauthenticated caller is treated as free.
const (
	TierFree     = "free"
	TierLight    = "light"
	TierBusiness = "business"
)

// DefaultTenantKey is the shared partition key for requests carrying
// neither an instance id nor a verified credential. All local
// development and editor-preview traffic lands here.
const DefaultTenantKey = "default"

// tenantKeySeparator joins instance and component ids into a
// widget-scoped key. Instance ids are opaque GUIDs, so the separator
// cannot occur inside one.
const tenantKeySeparator = "__"

// Identity is the per-request identity bundle recovered by the
// extraction middleware. InstanceID is set only after successful
// credential verification; CompID may be present without it (editor
// preview) and vice versa (tenant-wide operations).
type Identity struct {
	InstanceID string
	CompID     string
	Tier       string
}

// Authenticated reports whether a verified instance id is present
func (id Identity) Authenticated() bool {
	return id.InstanceID != ""
}

// TenantKey derives the partition key for this identity. The widget
// key for (instance, comp) never collides with the site key for the
// same instance, and both are stable across requests and restarts.
func (id Identity) TenantKey() string {
	return ComputeTenantKey(id.InstanceID, id.CompID)
}

// SiteTenantKey derives the site-scoped key, ignoring any component id
func (id Identity) SiteTenantKey() string {
	return ComputeTenantKey(id.InstanceID, "")
}

// ComputeTenantKey derives the partition key from raw identifiers:
// no instance id yields the shared default key; instance plus
// component yields a widget-scoped key; instance alone yields the
// coarser site-scoped key.
func ComputeTenantKey(instanceID, compID string) string {
	if instanceID == "" {
		return DefaultTenantKey
	}
	if compID != "" {
		return instanceID + tenantKeySeparator + compID
	}
	return instanceID
}
