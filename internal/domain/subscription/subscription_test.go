package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/planhub-io/planhub/internal/domain/subscription/valueobjects"
)

// --- helpers ---

func newPendingSubscription(t *testing.T) *Subscription {
	t.Helper()
	sub, err := NewSubscription("plan-1", "app-1", "api-1", "please", UserActor("user-1"), "")
	require.NoError(t, err)
	require.NotNil(t, sub)
	return sub
}

func newAcceptedSubscription(t *testing.T) *Subscription {
	t.Helper()
	sub := newPendingSubscription(t)
	require.NoError(t, sub.Accept(UserActor("admin-1"), nil, nil, nil))
	return sub
}

func reconstructWithStatus(t *testing.T, status vo.SubscriptionStatus) *Subscription {
	t.Helper()
	now := time.Now().UTC()
	sub, err := ReconstructSubscription(ReconstructParams{
		ID:            "sub_test123",
		PlanID:        "plan-1",
		ApplicationID: "app-1",
		APIID:         "api-1",
		Status:        status,
		SubscribedBy:  "user-1",
		CreatedAt:     now,
		UpdatedAt:     now,
		Version:       1,
	})
	require.NoError(t, err)
	return sub
}

// =====================================================================
// TestNewSubscription_*
// =====================================================================

func TestNewSubscription_ValidInput(t *testing.T) {
	sub, err := NewSubscription("plan-1", "app-1", "api-1", "need access", UserActor("user-1"), "client-abc")

	require.NoError(t, err)
	require.NotNil(t, sub)

	assert.NotEmpty(t, sub.ID())
	assert.True(t, len(sub.ID()) > 4 && sub.ID()[:4] == "sub_", "ID should carry the sub_ prefix")
	assert.Equal(t, "plan-1", sub.PlanID())
	assert.Equal(t, "app-1", sub.ApplicationID())
	assert.Equal(t, "api-1", sub.APIID())
	assert.Equal(t, vo.StatusPending, sub.Status(), "initial status should be pending")
	assert.Equal(t, "need access", sub.Request())
	assert.Equal(t, "user-1", sub.SubscribedBy())
	require.NotNil(t, sub.ClientID())
	assert.Equal(t, "client-abc", *sub.ClientID())
	assert.Nil(t, sub.ProcessedBy())
	assert.Nil(t, sub.ProcessedAt())
	assert.Nil(t, sub.StartingAt())
	assert.Nil(t, sub.EndingAt())
	assert.Nil(t, sub.ClosedAt())
	assert.Equal(t, 1, sub.Version())
	assert.True(t, sub.IsLive())
}

func TestNewSubscription_EmptyClientID(t *testing.T) {
	sub, err := NewSubscription("plan-1", "app-1", "api-1", "", UserActor("user-1"), "")

	require.NoError(t, err)
	assert.Nil(t, sub.ClientID())
}

func TestNewSubscription_MissingPlanID(t *testing.T) {
	sub, err := NewSubscription("", "app-1", "api-1", "", UserActor("user-1"), "")

	assert.Error(t, err)
	assert.Nil(t, sub)
	assert.Contains(t, err.Error(), "plan ID is required")
}

func TestNewSubscription_MissingApplicationID(t *testing.T) {
	sub, err := NewSubscription("plan-1", "", "api-1", "", UserActor("user-1"), "")

	assert.Error(t, err)
	assert.Nil(t, sub)
	assert.Contains(t, err.Error(), "application ID is required")
}

func TestNewSubscription_SystemActorRejected(t *testing.T) {
	sub, err := NewSubscription("plan-1", "app-1", "api-1", "", SystemActor(), "")

	assert.Error(t, err)
	assert.Nil(t, sub)
}

func TestNewSubscription_UniqueIDs(t *testing.T) {
	a := newPendingSubscription(t)
	b := newPendingSubscription(t)

	assert.NotEqual(t, a.ID(), b.ID())
}

// =====================================================================
// TestSubscription_Accept_*
// =====================================================================

func TestSubscription_Accept_FromPending(t *testing.T) {
	sub := newPendingSubscription(t)
	start := time.Now().UTC().Add(time.Hour)
	end := start.Add(24 * time.Hour)
	reason := "approved"

	err := sub.Accept(UserActor("admin-1"), &start, &end, &reason)

	require.NoError(t, err)
	assert.Equal(t, vo.StatusAccepted, sub.Status())
	require.NotNil(t, sub.ProcessedBy())
	assert.Equal(t, "admin-1", *sub.ProcessedBy())
	assert.NotNil(t, sub.ProcessedAt())
	require.NotNil(t, sub.StartingAt())
	assert.Equal(t, start, *sub.StartingAt())
	require.NotNil(t, sub.EndingAt())
	assert.Equal(t, end, *sub.EndingAt())
	require.NotNil(t, sub.Reason())
	assert.Equal(t, "approved", *sub.Reason())
	assert.Equal(t, 2, sub.Version())
	assert.True(t, sub.IsLive())
}

func TestSubscription_Accept_DefaultsStartToNow(t *testing.T) {
	sub := newPendingSubscription(t)
	before := time.Now().UTC()

	require.NoError(t, sub.Accept(UserActor("admin-1"), nil, nil, nil))

	require.NotNil(t, sub.StartingAt())
	assert.False(t, sub.StartingAt().Before(before))
	assert.Nil(t, sub.EndingAt(), "open-ended when no end given")
}

func TestSubscription_Accept_BySystemActor(t *testing.T) {
	sub := newPendingSubscription(t)

	require.NoError(t, sub.Accept(SystemActor(), nil, nil, nil))

	require.NotNil(t, sub.ProcessedBy())
	assert.Equal(t, SystemActorName, *sub.ProcessedBy())
}

func TestSubscription_Accept_EndBeforeStart(t *testing.T) {
	sub := newPendingSubscription(t)
	start := time.Now().UTC()
	end := start.Add(-time.Hour)

	err := sub.Accept(UserActor("admin-1"), &start, &end, nil)

	assert.Error(t, err)
	assert.Equal(t, vo.StatusPending, sub.Status(), "failed accept must not change state")
}

func TestSubscription_Accept_FromTerminalStates(t *testing.T) {
	for _, status := range []vo.SubscriptionStatus{vo.StatusAccepted, vo.StatusRejected, vo.StatusClosed} {
		sub := reconstructWithStatus(t, status)

		err := sub.Accept(UserActor("admin-1"), nil, nil, nil)

		assert.ErrorIs(t, err, ErrInvalidStateTransition, "accept from %s must fail", status)
	}
}

// =====================================================================
// TestSubscription_Reject_*
// =====================================================================

func TestSubscription_Reject_FromPending(t *testing.T) {
	sub := newPendingSubscription(t)
	reason := "not eligible"

	err := sub.Reject(UserActor("admin-1"), &reason)

	require.NoError(t, err)
	assert.Equal(t, vo.StatusRejected, sub.Status())
	require.NotNil(t, sub.Reason())
	assert.Equal(t, "not eligible", *sub.Reason())
	assert.NotNil(t, sub.ClosedAt(), "rejection records the closing time")
	assert.False(t, sub.IsLive())
}

func TestSubscription_Reject_FromAccepted(t *testing.T) {
	sub := newAcceptedSubscription(t)

	err := sub.Reject(UserActor("admin-1"), nil)

	assert.ErrorIs(t, err, ErrInvalidStateTransition)
	assert.Equal(t, vo.StatusAccepted, sub.Status())
}

func TestSubscription_Reject_IsTerminal(t *testing.T) {
	sub := newPendingSubscription(t)
	require.NoError(t, sub.Reject(UserActor("admin-1"), nil))

	assert.ErrorIs(t, sub.Accept(UserActor("admin-1"), nil, nil, nil), ErrInvalidStateTransition)
	assert.ErrorIs(t, sub.Close(), ErrInvalidStateTransition)
	assert.ErrorIs(t, sub.Reject(UserActor("admin-1"), nil), ErrInvalidStateTransition)
}

// =====================================================================
// TestSubscription_Close_*
// =====================================================================

func TestSubscription_Close_FromAccepted(t *testing.T) {
	sub := newAcceptedSubscription(t)

	err := sub.Close()

	require.NoError(t, err)
	assert.Equal(t, vo.StatusClosed, sub.Status())
	assert.NotNil(t, sub.ClosedAt())
	assert.False(t, sub.IsLive())
}

func TestSubscription_Close_FromPending(t *testing.T) {
	sub := newPendingSubscription(t)

	err := sub.Close()

	assert.ErrorIs(t, err, ErrInvalidStateTransition, "pending subscriptions cannot be closed")
	assert.Equal(t, vo.StatusPending, sub.Status())
}

func TestSubscription_Close_IsTerminal(t *testing.T) {
	sub := newAcceptedSubscription(t)
	require.NoError(t, sub.Close())

	assert.ErrorIs(t, sub.Close(), ErrInvalidStateTransition)
	assert.ErrorIs(t, sub.Accept(UserActor("admin-1"), nil, nil, nil), ErrInvalidStateTransition)
}

// =====================================================================
// TestSubscription_UpdateTerms_*
// =====================================================================

func TestSubscription_UpdateTerms_OnAccepted(t *testing.T) {
	sub := newAcceptedSubscription(t)
	start := time.Now().UTC().Add(time.Hour)
	end := start.Add(48 * time.Hour)
	clientID := "client-new"

	err := sub.UpdateTerms(&start, &end, &clientID)

	require.NoError(t, err)
	require.NotNil(t, sub.StartingAt())
	assert.Equal(t, start, *sub.StartingAt())
	require.NotNil(t, sub.EndingAt())
	assert.Equal(t, end, *sub.EndingAt())
	require.NotNil(t, sub.ClientID())
	assert.Equal(t, "client-new", *sub.ClientID())
}

func TestSubscription_UpdateTerms_PartialUpdate(t *testing.T) {
	sub := newAcceptedSubscription(t)
	originalStart := *sub.StartingAt()
	end := time.Now().UTC().Add(72 * time.Hour)

	err := sub.UpdateTerms(nil, &end, nil)

	require.NoError(t, err)
	assert.Equal(t, originalStart, *sub.StartingAt(), "nil fields stay untouched")
	require.NotNil(t, sub.EndingAt())
	assert.Equal(t, end, *sub.EndingAt())
}

func TestSubscription_UpdateTerms_EndBeforeStart(t *testing.T) {
	sub := newAcceptedSubscription(t)
	start := time.Now().UTC()
	end := start.Add(-time.Hour)

	err := sub.UpdateTerms(&start, &end, nil)

	assert.Error(t, err)
}

func TestSubscription_UpdateTerms_EndBeforeStoredStart(t *testing.T) {
	sub := newAcceptedSubscription(t)
	require.NotNil(t, sub.StartingAt())
	end := sub.StartingAt().Add(-time.Hour)

	err := sub.UpdateTerms(nil, &end, nil)

	assert.Error(t, err)
	assert.Nil(t, sub.EndingAt(), "a rejected update leaves the bounds untouched")
}

func TestSubscription_UpdateTerms_StartAfterStoredEnd(t *testing.T) {
	sub := newAcceptedSubscription(t)
	end := time.Now().UTC().Add(24 * time.Hour)
	require.NoError(t, sub.UpdateTerms(nil, &end, nil))
	start := end.Add(time.Hour)

	err := sub.UpdateTerms(&start, nil, nil)

	assert.Error(t, err)
	assert.Equal(t, end, *sub.EndingAt())
}

func TestSubscription_UpdateTerms_NotAccepted(t *testing.T) {
	for _, status := range []vo.SubscriptionStatus{vo.StatusPending, vo.StatusRejected, vo.StatusClosed} {
		sub := reconstructWithStatus(t, status)
		end := time.Now().UTC().Add(time.Hour)

		err := sub.UpdateTerms(nil, &end, nil)

		assert.ErrorIs(t, err, ErrInvalidStateTransition, "update on %s must fail", status)
	}
}

// =====================================================================
// TestReconstructSubscription_*
// =====================================================================

func TestReconstructSubscription_RoundTrip(t *testing.T) {
	original := newAcceptedSubscription(t)

	rebuilt, err := ReconstructSubscription(ReconstructParams{
		ID:            original.ID(),
		PlanID:        original.PlanID(),
		ApplicationID: original.ApplicationID(),
		APIID:         original.APIID(),
		Status:        original.Status(),
		Request:       original.Request(),
		SubscribedBy:  original.SubscribedBy(),
		ProcessedBy:   original.ProcessedBy(),
		CreatedAt:     original.CreatedAt(),
		UpdatedAt:     original.UpdatedAt(),
		ProcessedAt:   original.ProcessedAt(),
		StartingAt:    original.StartingAt(),
		Version:       original.Version(),
	})

	require.NoError(t, err)
	assert.Equal(t, original.ID(), rebuilt.ID())
	assert.Equal(t, original.Status(), rebuilt.Status())
	assert.Equal(t, original.Version(), rebuilt.Version())
}

func TestReconstructSubscription_InvalidStatus(t *testing.T) {
	_, err := ReconstructSubscription(ReconstructParams{
		ID:            "sub_x",
		PlanID:        "plan-1",
		ApplicationID: "app-1",
		APIID:         "api-1",
		Status:        vo.SubscriptionStatus("PAUSED"),
		SubscribedBy:  "user-1",
		Version:       1,
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid subscription status")
}
