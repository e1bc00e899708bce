package handlers

import (
	stderrors "errors"

	"github.com/planhub-io/planhub/internal/domain/application"
	"github.com/planhub-io/planhub/internal/domain/plan"
	"github.com/planhub-io/planhub/internal/domain/subscription"
	vo "github.com/planhub-io/planhub/internal/domain/subscription/valueobjects"
	"github.com/planhub-io/planhub/internal/shared/errors"
)

// toAppError maps domain sentinel errors onto typed, status-carrying
// application errors. Unknown errors pass through and render as 500.
func toAppError(err error) error {
	if _, ok := errors.IsAppError(err); ok {
		return err
	}

	switch {
	case stderrors.Is(err, subscription.ErrSubscriptionNotFound),
		stderrors.Is(err, plan.ErrPlanNotFound),
		stderrors.Is(err, application.ErrApplicationNotFound):
		return errors.NewNotFoundError(err.Error())

	case stderrors.Is(err, subscription.ErrPlanAlreadySubscribed):
		return errors.NewConflictError(err.Error())

	case stderrors.Is(err, subscription.ErrInvalidStateTransition),
		stderrors.Is(err, subscription.ErrApiKeyAlreadyRevoked),
		stderrors.Is(err, subscription.ErrApiKeyExpirationBounded),
		stderrors.Is(err, plan.ErrPlanNotSubscribable),
		stderrors.Is(err, plan.ErrPlanAlreadyClosed),
		stderrors.Is(err, plan.ErrPlanNotYetPublished):
		return errors.NewUnprocessableError(err.Error())

	case stderrors.Is(err, vo.ErrInvalidStatus):
		return errors.NewBadRequestError(err.Error())
	}
	return err
}
