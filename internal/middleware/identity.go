package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/auth"
	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/domain"
	"github.com/Shaen-ai/yoga-saas-platform-backend/pkg/logger"
	"github.com/Shaen-ai/yoga-saas-platform-backend/pkg/response"
)

// Context keys for the resolved identity
const (
	ContextKeyIdentity  = "identity"
	ContextKeyTenantKey = "tenant_key"
)

// Component id sources, in precedence order. Header wins over query;
// the primary query name wins over legacy aliases; the request body
// is the last resort.
const (
	HeaderCompID       = "X-Comp-Id"
	QueryCompID        = "compId"
	QueryCompIDLegacy  = "comp_id"
	QueryCompIDLegacy2 = "componentId"
	BodyCompIDField    = "compId"
)

// maxBodyPeek caps how much of the request body is read while looking
// for a compId field
const maxBodyPeek = 64 * 1024

// IdentityConfig holds configuration for the identity middleware
type IdentityConfig struct {
	Verifier *auth.Verifier
	// AllowAnonymous lets strict endpoints through without a verified
	// instance; wired from config and forced off in production.
	AllowAnonymous bool
}

// Identity extracts the per-request identity bundle: compId from
// header/query/body and, when a bearer credential verifies, the
// instance id and entitlement tier. Extraction never fails the
// request; absent or invalid credentials leave the identity
// unauthenticated.
func Identity(cfg *IdentityConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := domain.Identity{
			CompID: extractCompID(c),
			Tier:   domain.TierFree,
		}

		if token := bearerToken(c); token != "" {
			verified, err := cfg.Verifier.Verify(c.Request.Context(), token)
			if err != nil {
				// Optional mode: proceed unauthenticated
				logger.WithContext(c.Request.Context()).Debug("instance token rejected",
					zap.Error(err))
			} else {
				identity.InstanceID = verified.InstanceID
				identity.Tier = verified.Tier
			}
		}

		attachIdentity(c, identity)
		c.Next()
	}
}

// RequireInstance aborts with 401 unless the request carries a
// verified instance id or the anonymous bypass is enabled. Must run
// after Identity.
func RequireInstance(cfg *IdentityConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if (!ok || !identity.Authenticated()) && !cfg.AllowAnonymous {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.Unauthorized("A verified instance token is required"))
			return
		}
		c.Next()
	}
}

// attachIdentity stores the identity and tenant key on the gin
// context and threads the tenant key into the request context for
// the logger.
func attachIdentity(c *gin.Context, identity domain.Identity) {
	tenantKey := identity.TenantKey()
	c.Set(ContextKeyIdentity, identity)
	c.Set(ContextKeyTenantKey, tenantKey)

	ctx := context.WithValue(c.Request.Context(), logger.TenantKeyKey, tenantKey)
	c.Request = c.Request.WithContext(ctx)
}

// GetIdentity extracts the identity bundle from the gin context
func GetIdentity(c *gin.Context) (domain.Identity, bool) {
	v, exists := c.Get(ContextKeyIdentity)
	if !exists {
		return domain.Identity{Tier: domain.TierFree}, false
	}
	identity, ok := v.(domain.Identity)
	if !ok {
		return domain.Identity{Tier: domain.TierFree}, false
	}
	return identity, true
}

// GetTenantKey extracts the resolved tenant key from the gin context,
// falling back to the shared default key
func GetTenantKey(c *gin.Context) string {
	if v, exists := c.Get(ContextKeyTenantKey); exists {
		if key, ok := v.(string); ok && key != "" {
			return key
		}
	}
	return domain.DefaultTenantKey
}

// bearerToken pulls the token out of the Authorization header
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(authHeader[len(bearerPrefix):])
}

// extractCompID recovers the component id using the fixed precedence
// order. Values are trimmed; whitespace-only values count as absent.
func extractCompID(c *gin.Context) string {
	if v := strings.TrimSpace(c.GetHeader(HeaderCompID)); v != "" {
		return v
	}
	for _, name := range []string{QueryCompID, QueryCompIDLegacy, QueryCompIDLegacy2} {
		if v := strings.TrimSpace(c.Query(name)); v != "" {
			return v
		}
	}
	return compIDFromBody(c)
}

// compIDFromBody peeks at a JSON request body for a top-level compId
// field, restoring the body so handlers can still bind it.
func compIDFromBody(c *gin.Context) string {
	if c.Request.Body == nil {
		return ""
	}
	contentType := c.GetHeader("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		return ""
	}

	original := c.Request.Body
	body, err := io.ReadAll(io.LimitReader(original, maxBodyPeek))
	if err != nil {
		return ""
	}
	// Restore the body, including anything beyond the peek limit
	c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), original))

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return ""
	}

	var compID string
	if raw, ok := fields[BodyCompIDField]; ok {
		_ = json.Unmarshal(raw, &compID)
	}
	return strings.TrimSpace(compID)
}
