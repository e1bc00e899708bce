package subscription

import (
	"fmt"
	"time"

	"github.com/planhub-io/planhub/internal/shared/id"
)

// ApiKey is the opaque credential artifact issued for an ACCEPTED
// subscription to an API_KEY-secured plan. Its lifecycle shadows the owning
// subscription: it never outlives it, and a revoked key can never come back.
type ApiKey struct {
	key            string
	subscriptionID string
	createdAt      time.Time
	updatedAt      time.Time
	expiration     *time.Time
	revoked        bool
	revokedAt      *time.Time
}

// NewApiKey issues a fresh, open-ended key for the given subscription.
func NewApiKey(subscriptionID string) (*ApiKey, error) {
	if subscriptionID == "" {
		return nil, fmt.Errorf("subscription ID is required")
	}

	secret, err := id.GenerateWithPrefix(id.PrefixApiKey, id.KeyLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate api key secret: %w", err)
	}

	now := time.Now().UTC()
	return &ApiKey{
		key:            secret,
		subscriptionID: subscriptionID,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// ReconstructApiKey rebuilds an api key from persistence.
func ReconstructApiKey(key, subscriptionID string, createdAt, updatedAt time.Time, expiration *time.Time, revoked bool, revokedAt *time.Time) (*ApiKey, error) {
	if key == "" {
		return nil, fmt.Errorf("api key secret cannot be empty")
	}
	if subscriptionID == "" {
		return nil, fmt.Errorf("subscription ID is required")
	}
	if revoked && revokedAt == nil {
		return nil, fmt.Errorf("revoked api key must carry a revocation time")
	}

	return &ApiKey{
		key:            key,
		subscriptionID: subscriptionID,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
		expiration:     expiration,
		revoked:        revoked,
		revokedAt:      revokedAt,
	}, nil
}

func (k *ApiKey) Key() string {
	return k.key
}

func (k *ApiKey) SubscriptionID() string {
	return k.subscriptionID
}

func (k *ApiKey) CreatedAt() time.Time {
	return k.createdAt
}

func (k *ApiKey) UpdatedAt() time.Time {
	return k.updatedAt
}

func (k *ApiKey) Expiration() *time.Time {
	return k.expiration
}

func (k *ApiKey) Revoked() bool {
	return k.revoked
}

func (k *ApiKey) RevokedAt() *time.Time {
	return k.revokedAt
}

// IsOpenEnded reports whether the key carries no expiration at all.
func (k *ApiKey) IsOpenEnded() bool {
	return k.expiration == nil
}

// IsExpired reports whether the key's expiration has passed.
func (k *ApiKey) IsExpired(now time.Time) bool {
	return k.expiration != nil && !k.expiration.After(now)
}

// BindExpiration sets the expiration of an open-ended key. A key that already
// carries an expiration is left untouched: an earlier bound must never be
// extended, and shortening is handled by Revoke.
func (k *ApiKey) BindExpiration(expiration time.Time) error {
	if k.revoked {
		return ErrApiKeyAlreadyRevoked
	}
	if k.expiration != nil {
		return ErrApiKeyExpirationBounded
	}

	exp := expiration.UTC()
	k.expiration = &exp
	k.updatedAt = time.Now().UTC()

	return nil
}

// ForceExpiration overwrites the expiration regardless of an existing bound.
// Used when a key is superseded and only a grace window remains. The new
// expiration may only shorten the key's life, never extend it.
func (k *ApiKey) ForceExpiration(expiration time.Time) error {
	if k.revoked {
		return ErrApiKeyAlreadyRevoked
	}

	exp := expiration.UTC()
	if k.expiration != nil && k.expiration.Before(exp) {
		return ErrApiKeyExpirationBounded
	}
	k.expiration = &exp
	k.updatedAt = time.Now().UTC()

	return nil
}

// Revoke terminates the key. The expiration is capped to the revocation time
// unless it already lies in the past. Revocation is one-way.
func (k *ApiKey) Revoke() error {
	if k.revoked {
		return ErrApiKeyAlreadyRevoked
	}

	now := time.Now().UTC()
	if k.expiration == nil || k.expiration.After(now) {
		k.expiration = &now
	}
	k.revoked = true
	k.revokedAt = &now
	k.updatedAt = now

	return nil
}
