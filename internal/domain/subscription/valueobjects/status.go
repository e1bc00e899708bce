package valueobjects

import "errors"

// ErrInvalidStatus indicates a status string outside the known set.
var ErrInvalidStatus = errors.New("invalid subscription status")

type SubscriptionStatus string

const (
	StatusPending  SubscriptionStatus = "PENDING"
	StatusAccepted SubscriptionStatus = "ACCEPTED"
	StatusRejected SubscriptionStatus = "REJECTED"
	StatusClosed   SubscriptionStatus = "CLOSED"
)

func (s SubscriptionStatus) String() string {
	return string(s)
}

func (s SubscriptionStatus) IsValid() bool {
	return ValidStatuses[s]
}

// IsTerminal reports whether the status admits no further transitions.
func (s SubscriptionStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusClosed
}

// IsLive reports whether a subscription in this status counts against the
// one-live-subscription-per-plan and one-OAuth-plan-per-application rules.
func (s SubscriptionStatus) IsLive() bool {
	return s == StatusPending || s == StatusAccepted
}

func (s SubscriptionStatus) CanTransitionTo(target SubscriptionStatus) bool {
	transitions := map[SubscriptionStatus][]SubscriptionStatus{
		StatusPending:  {StatusAccepted, StatusRejected},
		StatusAccepted: {StatusClosed},
		StatusRejected: {},
		StatusClosed:   {},
	}

	allowed, exists := transitions[s]
	if !exists {
		return false
	}

	for _, allowedStatus := range allowed {
		if allowedStatus == target {
			return true
		}
	}
	return false
}

var ValidStatuses = map[SubscriptionStatus]bool{
	StatusPending:  true,
	StatusAccepted: true,
	StatusRejected: true,
	StatusClosed:   true,
}

// LiveStatuses lists the statuses that hold a live entitlement slot.
func LiveStatuses() []SubscriptionStatus {
	return []SubscriptionStatus{StatusPending, StatusAccepted}
}
