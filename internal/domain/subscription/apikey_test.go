package subscription

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOpenKey(t *testing.T) *ApiKey {
	t.Helper()
	key, err := NewApiKey("sub_test123")
	require.NoError(t, err)
	require.NotNil(t, key)
	return key
}

func TestNewApiKey_ValidInput(t *testing.T) {
	key := newOpenKey(t)

	assert.True(t, strings.HasPrefix(key.Key(), "key_"))
	assert.Equal(t, "sub_test123", key.SubscriptionID())
	assert.True(t, key.IsOpenEnded())
	assert.False(t, key.Revoked())
	assert.Nil(t, key.RevokedAt())
	assert.False(t, key.IsExpired(time.Now()))
}

func TestNewApiKey_EmptySubscriptionID(t *testing.T) {
	key, err := NewApiKey("")

	assert.Error(t, err)
	assert.Nil(t, key)
}

func TestNewApiKey_UniqueSecrets(t *testing.T) {
	a := newOpenKey(t)
	b := newOpenKey(t)

	assert.NotEqual(t, a.Key(), b.Key())
}

func TestApiKey_BindExpiration_OpenEnded(t *testing.T) {
	key := newOpenKey(t)
	exp := time.Now().UTC().Add(24 * time.Hour)

	err := key.BindExpiration(exp)

	require.NoError(t, err)
	assert.False(t, key.IsOpenEnded())
	require.NotNil(t, key.Expiration())
	assert.Equal(t, exp, *key.Expiration())
}

func TestApiKey_BindExpiration_AlreadyBounded(t *testing.T) {
	key := newOpenKey(t)
	first := time.Now().UTC().Add(24 * time.Hour)
	require.NoError(t, key.BindExpiration(first))

	err := key.BindExpiration(first.Add(24 * time.Hour))

	assert.ErrorIs(t, err, ErrApiKeyExpirationBounded)
	assert.Equal(t, first, *key.Expiration(), "existing bound must never move")
}

func TestApiKey_BindExpiration_Revoked(t *testing.T) {
	key := newOpenKey(t)
	require.NoError(t, key.Revoke())

	err := key.BindExpiration(time.Now().Add(time.Hour))

	assert.ErrorIs(t, err, ErrApiKeyAlreadyRevoked)
}

func TestApiKey_ForceExpiration_Shortens(t *testing.T) {
	key := newOpenKey(t)
	far := time.Now().UTC().Add(48 * time.Hour)
	require.NoError(t, key.BindExpiration(far))
	near := time.Now().UTC().Add(2 * time.Hour)

	err := key.ForceExpiration(near)

	require.NoError(t, err)
	assert.Equal(t, near, *key.Expiration())
}

func TestApiKey_ForceExpiration_NeverExtends(t *testing.T) {
	key := newOpenKey(t)
	near := time.Now().UTC().Add(time.Hour)
	require.NoError(t, key.BindExpiration(near))

	err := key.ForceExpiration(near.Add(24 * time.Hour))

	assert.ErrorIs(t, err, ErrApiKeyExpirationBounded)
	assert.Equal(t, near, *key.Expiration())
}

func TestApiKey_Revoke_OpenEnded(t *testing.T) {
	key := newOpenKey(t)

	err := key.Revoke()

	require.NoError(t, err)
	assert.True(t, key.Revoked())
	assert.NotNil(t, key.RevokedAt())
	require.NotNil(t, key.Expiration(), "revocation caps the expiration")
	assert.True(t, key.IsExpired(time.Now().Add(time.Second)))
}

func TestApiKey_Revoke_KeepsPastExpiration(t *testing.T) {
	key := newOpenKey(t)
	past := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, key.BindExpiration(past))

	require.NoError(t, key.Revoke())

	assert.Equal(t, past, *key.Expiration(), "an already-past expiration is left alone")
}

func TestApiKey_Revoke_CapsFutureExpiration(t *testing.T) {
	key := newOpenKey(t)
	future := time.Now().UTC().Add(48 * time.Hour)
	require.NoError(t, key.BindExpiration(future))

	require.NoError(t, key.Revoke())

	assert.True(t, key.Expiration().Before(future), "future expiration is pulled in to the revocation time")
}

func TestApiKey_Revoke_Twice(t *testing.T) {
	key := newOpenKey(t)
	require.NoError(t, key.Revoke())

	err := key.Revoke()

	assert.ErrorIs(t, err, ErrApiKeyAlreadyRevoked)
}

func TestApiKey_IsExpired(t *testing.T) {
	key := newOpenKey(t)
	assert.False(t, key.IsExpired(time.Now()), "open-ended keys never expire")

	exp := time.Now().UTC().Add(time.Hour)
	require.NoError(t, key.BindExpiration(exp))

	assert.False(t, key.IsExpired(exp.Add(-time.Minute)))
	assert.True(t, key.IsExpired(exp))
	assert.True(t, key.IsExpired(exp.Add(time.Minute)))
}

func TestReconstructApiKey_RevokedWithoutTimestamp(t *testing.T) {
	now := time.Now().UTC()

	_, err := ReconstructApiKey("key_abc", "sub_test123", now, now, nil, true, nil)

	assert.Error(t, err)
}
