package plan

import (
	"errors"
	"fmt"
)

var (
	ErrPlanNotFound        = errors.New("plan not found")
	ErrPlanNotSubscribable = errors.New("plan not subscribable")
	ErrPlanAlreadyClosed   = errors.New("plan already closed")
	ErrPlanNotYetPublished = errors.New("plan not yet published")
)

// ErrNotSubscribable wraps ErrPlanNotSubscribable with the concrete reason.
func ErrNotSubscribable(reason string) error {
	return fmt.Errorf("%w: %s", ErrPlanNotSubscribable, reason)
}
