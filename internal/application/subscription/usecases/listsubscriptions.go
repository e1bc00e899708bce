package usecases

import (
	"context"
	"fmt"

	"github.com/planhub-io/planhub/internal/domain/subscription"
	"github.com/planhub-io/planhub/internal/shared/logger"
)

// ListSubscriptionsUseCase serves the unpaged single-dimension listings
// used by the api, application and plan detail views.
type ListSubscriptionsUseCase struct {
	subscriptionRepo subscription.Repository
	logger           logger.Interface
}

func NewListSubscriptionsUseCase(subscriptionRepo subscription.Repository, logger logger.Interface) *ListSubscriptionsUseCase {
	return &ListSubscriptionsUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

// ByApplicationAndPlan lists all subscriptions, live or not, that the given
// application holds on the given plan.
func (uc *ListSubscriptionsUseCase) ByApplicationAndPlan(ctx context.Context, applicationID, planID string) ([]*subscription.Subscription, error) {
	return uc.find(ctx, subscription.Criteria{
		Applications: []string{applicationID},
		Plans:        []string{planID},
	})
}

// ByAPI lists all subscriptions across every plan of the given api.
func (uc *ListSubscriptionsUseCase) ByAPI(ctx context.Context, apiID string) ([]*subscription.Subscription, error) {
	return uc.find(ctx, subscription.Criteria{APIs: []string{apiID}})
}

// ByPlan lists all subscriptions on the given plan.
func (uc *ListSubscriptionsUseCase) ByPlan(ctx context.Context, planID string) ([]*subscription.Subscription, error) {
	return uc.find(ctx, subscription.Criteria{Plans: []string{planID}})
}

// ByApplication lists all subscriptions held by the given application.
func (uc *ListSubscriptionsUseCase) ByApplication(ctx context.Context, applicationID string) ([]*subscription.Subscription, error) {
	return uc.find(ctx, subscription.Criteria{Applications: []string{applicationID}})
}

func (uc *ListSubscriptionsUseCase) find(ctx context.Context, criteria subscription.Criteria) ([]*subscription.Subscription, error) {
	subs, err := uc.subscriptionRepo.FindByCriteria(ctx, criteria)
	if err != nil {
		uc.logger.Errorw("failed to list subscriptions", "error", err)
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return subs, nil
}
