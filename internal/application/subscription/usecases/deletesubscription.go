package usecases

import (
	"context"
	"fmt"

	"github.com/planhub-io/planhub/internal/domain/subscription"
	"github.com/planhub-io/planhub/internal/shared/logger"
)

type DeleteSubscriptionCommand struct {
	SubscriptionID string
}

// DeleteSubscriptionUseCase removes a subscription and its api keys
// entirely. Keys go first so a failure never leaves orphaned credentials
// pointing at a vanished subscription.
type DeleteSubscriptionUseCase struct {
	subscriptionRepo subscription.Repository
	apiKeyRepo       subscription.ApiKeyRepository
	sideEffects      *SideEffects
	logger           logger.Interface
}

func NewDeleteSubscriptionUseCase(
	subscriptionRepo subscription.Repository,
	apiKeyRepo subscription.ApiKeyRepository,
	sideEffects *SideEffects,
	logger logger.Interface,
) *DeleteSubscriptionUseCase {
	return &DeleteSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		apiKeyRepo:       apiKeyRepo,
		sideEffects:      sideEffects,
		logger:           logger,
	}
}

func (uc *DeleteSubscriptionUseCase) Execute(ctx context.Context, cmd DeleteSubscriptionCommand) error {
	sub, err := uc.subscriptionRepo.GetByID(ctx, cmd.SubscriptionID)
	if err != nil {
		uc.logger.Errorw("failed to get subscription", "error", err, "subscription_id", cmd.SubscriptionID)
		return fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub == nil {
		return fmt.Errorf("%w: %s", subscription.ErrSubscriptionNotFound, cmd.SubscriptionID)
	}

	keys, err := uc.apiKeyRepo.FindBySubscription(ctx, sub.ID())
	if err != nil {
		uc.logger.Errorw("failed to load api keys", "error", err, "subscription_id", sub.ID())
		return fmt.Errorf("failed to load api keys: %w", err)
	}
	for _, key := range keys {
		if err := uc.apiKeyRepo.Delete(ctx, key.Key()); err != nil {
			uc.logger.Errorw("failed to delete api key", "error", err, "key", key.Key())
			return fmt.Errorf("failed to delete api key: %w", err)
		}
	}

	if err := uc.subscriptionRepo.Delete(ctx, sub.ID()); err != nil {
		uc.logger.Errorw("failed to delete subscription", "error", err, "subscription_id", sub.ID())
		return fmt.Errorf("failed to delete subscription: %w", err)
	}

	uc.sideEffects.Audit(AuditEntry{
		EntityType:    EntitySubscription,
		EntityID:      sub.ID(),
		Event:         subscription.AuditSubscriptionDeleted,
		APIID:         sub.APIID(),
		ApplicationID: sub.ApplicationID(),
		Before:        snapshot(sub),
	})

	uc.logger.Infow("subscription deleted", "subscription_id", sub.ID(), "keys_deleted", len(keys))
	return nil
}
