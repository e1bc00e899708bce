package subscription

import (
	"errors"
	"fmt"
)

var (
	ErrSubscriptionNotFound    = errors.New("subscription not found")
	ErrPlanAlreadySubscribed   = errors.New("plan already subscribed by this application")
	ErrInvalidStateTransition  = errors.New("invalid subscription state transition")
	ErrKeyCascadeFailure       = errors.New("api key cascade partially failed")
	ErrApiKeyAlreadyRevoked    = errors.New("api key is already revoked")
	ErrApiKeyExpirationBounded = errors.New("api key already carries an expiration")
)

// ErrInvalidTransition wraps ErrInvalidStateTransition with the attempted move.
func ErrInvalidTransition(from, to string) error {
	return fmt.Errorf("%w: from %s to %s", ErrInvalidStateTransition, from, to)
}

// ErrCascade wraps the per-key failures collected during a best-effort cascade.
// The subscription transition itself has committed; callers surface this as a
// partial-failure condition.
func ErrCascade(keyErrs ...error) error {
	return fmt.Errorf("%w: %w", ErrKeyCascadeFailure, errors.Join(keyErrs...))
}
