package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Shaen-ai/yoga-saas-platform-backend/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid instance token")
	ErrTokenExpired = errors.New("instance token expired")
)

// productTiers maps the vendor product id embedded in the instance
// token to an entitlement tier. Unknown products resolve to free.
var productTiers = map[string]string{
	"yoga-light":    domain.TierLight,
	"yoga-business": domain.TierBusiness,
}

// TierForProduct resolves a vendor product id to an entitlement tier
func TierForProduct(productID string) string {
	if tier, ok := productTiers[productID]; ok {
		return tier
	}
	return domain.TierFree
}

// VerifiedInstance is the identity recovered from a verified token
type VerifiedInstance struct {
	InstanceID string
	Tier       string
}

// Verifier verifies Wix instance tokens against the app secret.
// Successful verifications are cached briefly keyed by a token
// fingerprint, so repeated requests from the same widget within the
// TTL skip the signature check and return identical identity fields.
type Verifier struct {
	appSecret []byte
	cache     *verifyCache
}

// NewVerifier creates a Verifier. A zero cacheTTL disables caching.
func NewVerifier(appSecret string, cacheTTL time.Duration) *Verifier {
	v := &Verifier{appSecret: []byte(appSecret)}
	if cacheTTL > 0 {
		v.cache = newVerifyCache(cacheTTL)
	}
	return v
}

// Verify checks the token signature and expiry and returns the
// instance identity. Verification is local (HMAC against the app
// secret) and respects context cancellation between cache and parse.
func (v *Verifier) Verify(ctx context.Context, tokenString string) (*VerifiedInstance, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	if v.cache != nil {
		if cached, ok := v.cache.get(tokenString); ok {
			return cached, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.appSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	instanceID, _ := claims["instanceId"].(string)
	if instanceID == "" {
		return nil, ErrInvalidToken
	}

	productID, _ := claims["vendorProductId"].(string)

	verified := &VerifiedInstance{
		InstanceID: instanceID,
		Tier:       TierForProduct(productID),
	}

	if v.cache != nil {
		v.cache.put(tokenString, verified)
	}
	return verified, nil
}

// CacheStats returns verification cache hit/miss counts
func (v *Verifier) CacheStats() (hits, misses uint64) {
	if v.cache == nil {
		return 0, 0
	}
	return v.cache.stats()
}

// Close stops the cache cleanup goroutine
func (v *Verifier) Close() {
	if v.cache != nil {
		v.cache.stop()
	}
}
