package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from    SubscriptionStatus
		to      SubscriptionStatus
		allowed bool
	}{
		{StatusPending, StatusAccepted, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusClosed, false},
		{StatusPending, StatusPending, false},
		{StatusAccepted, StatusClosed, true},
		{StatusAccepted, StatusRejected, false},
		{StatusAccepted, StatusPending, false},
		{StatusRejected, StatusAccepted, false},
		{StatusRejected, StatusClosed, false},
		{StatusClosed, StatusAccepted, false},
		{StatusClosed, StatusPending, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestSubscriptionStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusAccepted.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusClosed.IsTerminal())
}

func TestSubscriptionStatus_IsLive(t *testing.T) {
	assert.True(t, StatusPending.IsLive())
	assert.True(t, StatusAccepted.IsLive())
	assert.False(t, StatusRejected.IsLive())
	assert.False(t, StatusClosed.IsLive())
}

func TestSubscriptionStatus_IsValid(t *testing.T) {
	for status := range ValidStatuses {
		assert.True(t, status.IsValid())
	}
	assert.False(t, SubscriptionStatus("PAUSED").IsValid())
	assert.False(t, SubscriptionStatus("").IsValid())
}
