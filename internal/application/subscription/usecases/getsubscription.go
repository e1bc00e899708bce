package usecases

import (
	"context"
	"fmt"

	"github.com/planhub-io/planhub/internal/domain/subscription"
	"github.com/planhub-io/planhub/internal/shared/logger"
)

type GetSubscriptionQuery struct {
	SubscriptionID string
	IncludeKeys    bool
}

type SubscriptionDetail struct {
	Subscription *subscription.Subscription
	ApiKeys      []*subscription.ApiKey
}

type GetSubscriptionUseCase struct {
	subscriptionRepo subscription.Repository
	apiKeyRepo       subscription.ApiKeyRepository
	logger           logger.Interface
}

func NewGetSubscriptionUseCase(
	subscriptionRepo subscription.Repository,
	apiKeyRepo subscription.ApiKeyRepository,
	logger logger.Interface,
) *GetSubscriptionUseCase {
	return &GetSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		apiKeyRepo:       apiKeyRepo,
		logger:           logger,
	}
}

func (uc *GetSubscriptionUseCase) Execute(ctx context.Context, query GetSubscriptionQuery) (*SubscriptionDetail, error) {
	sub, err := uc.subscriptionRepo.GetByID(ctx, query.SubscriptionID)
	if err != nil {
		uc.logger.Errorw("failed to get subscription", "error", err, "subscription_id", query.SubscriptionID)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub == nil {
		return nil, fmt.Errorf("%w: %s", subscription.ErrSubscriptionNotFound, query.SubscriptionID)
	}

	detail := &SubscriptionDetail{Subscription: sub}
	if query.IncludeKeys {
		keys, err := uc.apiKeyRepo.FindBySubscription(ctx, sub.ID())
		if err != nil {
			uc.logger.Errorw("failed to load api keys", "error", err, "subscription_id", sub.ID())
			return nil, fmt.Errorf("failed to load api keys: %w", err)
		}
		detail.ApiKeys = keys
	}
	return detail, nil
}
