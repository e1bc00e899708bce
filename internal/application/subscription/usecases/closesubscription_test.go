package usecases_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planhub-io/planhub/internal/application/subscription/usecases"
	"github.com/planhub-io/planhub/internal/domain/plan"
	"github.com/planhub-io/planhub/internal/domain/subscription"
	vo "github.com/planhub-io/planhub/internal/domain/subscription/valueobjects"
)

func TestCloseSubscription_RevokesKeys(t *testing.T) {
	e := newEnv(t)
	accepted := e.createAccepted(t, plan.SecurityAPIKey)

	sub, err := e.close.Execute(context.Background(), usecases.CloseSubscriptionCommand{
		SubscriptionID: accepted.ID(),
	})

	require.NoError(t, err)
	assert.Equal(t, vo.StatusClosed, sub.Status())
	require.NotNil(t, sub.ClosedAt())

	keys := e.keysOf(t, sub.ID())
	require.Len(t, keys, 1)
	assert.True(t, keys[0].Revoked())
	require.NotNil(t, keys[0].RevokedAt())

	require.Eventually(t, func() bool {
		return e.audit.CountEvent(subscription.AuditApiKeyRevoked) == 1
	}, auditWait, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		return e.notifier.CountHook(subscription.HookSubscriptionClosed) == 2
	}, auditWait, 10*time.Millisecond)
}

func TestCloseSubscription_AlreadyRevokedKeySkipped(t *testing.T) {
	e := newEnv(t)
	accepted := e.createAccepted(t, plan.SecurityAPIKey)

	keys := e.keysOf(t, accepted.ID())
	require.Len(t, keys, 1)
	require.NoError(t, keys[0].Revoke())
	require.NoError(t, e.keyRepo.Update(context.Background(), keys[0]))
	revokedAt := *keys[0].RevokedAt()

	sub, err := e.close.Execute(context.Background(), usecases.CloseSubscriptionCommand{
		SubscriptionID: accepted.ID(),
	})

	require.NoError(t, err)
	assert.Equal(t, vo.StatusClosed, sub.Status())

	keys = e.keysOf(t, sub.ID())
	assert.Equal(t, revokedAt, *keys[0].RevokedAt(), "an already revoked key keeps its original timestamp")

	require.Eventually(t, func() bool {
		return e.audit.CountEvent(subscription.AuditSubscriptionClosed) == 1
	}, auditWait, 10*time.Millisecond)
	assert.Zero(t, e.audit.CountEvent(subscription.AuditApiKeyRevoked))
}

func TestCloseSubscription_PendingFails(t *testing.T) {
	e := newEnv(t)
	pending := e.createPending(t, plan.SecurityAPIKey)

	_, err := e.close.Execute(context.Background(), usecases.CloseSubscriptionCommand{
		SubscriptionID: pending.ID(),
	})

	assert.ErrorIs(t, err, subscription.ErrInvalidStateTransition)

	stored, getErr := e.subRepo.GetByID(context.Background(), pending.ID())
	require.NoError(t, getErr)
	assert.Equal(t, vo.StatusPending, stored.Status())
}

func TestCloseSubscription_NotFound(t *testing.T) {
	e := newEnv(t)

	_, err := e.close.Execute(context.Background(), usecases.CloseSubscriptionCommand{
		SubscriptionID: "sub_missing",
	})

	assert.ErrorIs(t, err, subscription.ErrSubscriptionNotFound)
}

func TestCloseSubscription_Twice(t *testing.T) {
	e := newEnv(t)
	accepted := e.createAccepted(t, plan.SecurityOAuth2)

	_, err := e.close.Execute(context.Background(), usecases.CloseSubscriptionCommand{
		SubscriptionID: accepted.ID(),
	})
	require.NoError(t, err)

	_, err = e.close.Execute(context.Background(), usecases.CloseSubscriptionCommand{
		SubscriptionID: accepted.ID(),
	})
	assert.ErrorIs(t, err, subscription.ErrInvalidStateTransition)
}

func TestCloseSubscription_PartialRevocationFailure(t *testing.T) {
	e := newEnv(t)
	accepted := e.createAccepted(t, plan.SecurityAPIKey)

	// A second key, renewed at some point, shares the cascade.
	extra, err := subscription.NewApiKey(accepted.ID())
	require.NoError(t, err)
	require.NoError(t, e.keyRepo.Create(context.Background(), extra))

	e.keyRepo.UpdateErr = assert.AnError
	e.keyRepo.FailUpdateFor = map[string]bool{extra.Key(): true}

	sub, err := e.close.Execute(context.Background(), usecases.CloseSubscriptionCommand{
		SubscriptionID: accepted.ID(),
	})

	require.NotNil(t, sub, "the close stands despite the partial cascade failure")
	assert.Equal(t, vo.StatusClosed, sub.Status())
	assert.ErrorIs(t, err, subscription.ErrKeyCascadeFailure)

	stored, getErr := e.subRepo.GetByID(context.Background(), accepted.ID())
	require.NoError(t, getErr)
	assert.Equal(t, vo.StatusClosed, stored.Status(), "a failed key revocation never resurrects the subscription")

	require.Eventually(t, func() bool {
		return e.audit.CountEvent(subscription.AuditApiKeyRevoked) == 1
	}, auditWait, 10*time.Millisecond)
}
