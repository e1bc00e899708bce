package usecases

import (
	"context"
	"fmt"

	"github.com/planhub-io/planhub/internal/domain/subscription"
	vo "github.com/planhub-io/planhub/internal/domain/subscription/valueobjects"
	"github.com/planhub-io/planhub/internal/shared/logger"
)

type CloseSubscriptionCommand struct {
	SubscriptionID string
}

// CloseSubscriptionUseCase terminates an ACCEPTED subscription and revokes
// its api keys. The status transition is committed first: key revocation is
// best-effort and a partial failure never resurrects the subscription.
type CloseSubscriptionUseCase struct {
	subscriptionRepo subscription.Repository
	apiKeyRepo       subscription.ApiKeyRepository
	sideEffects      *SideEffects
	logger           logger.Interface
}

func NewCloseSubscriptionUseCase(
	subscriptionRepo subscription.Repository,
	apiKeyRepo subscription.ApiKeyRepository,
	sideEffects *SideEffects,
	logger logger.Interface,
) *CloseSubscriptionUseCase {
	return &CloseSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		apiKeyRepo:       apiKeyRepo,
		sideEffects:      sideEffects,
		logger:           logger,
	}
}

func (uc *CloseSubscriptionUseCase) Execute(ctx context.Context, cmd CloseSubscriptionCommand) (*subscription.Subscription, error) {
	sub, err := uc.subscriptionRepo.GetByID(ctx, cmd.SubscriptionID)
	if err != nil {
		uc.logger.Errorw("failed to get subscription", "error", err, "subscription_id", cmd.SubscriptionID)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub == nil {
		return nil, fmt.Errorf("%w: %s", subscription.ErrSubscriptionNotFound, cmd.SubscriptionID)
	}

	before := snapshot(sub)

	if err := sub.Close(); err != nil {
		return nil, err
	}

	if err := uc.subscriptionRepo.UpdateWithStatusGuard(ctx, sub, vo.StatusAccepted); err != nil {
		uc.logger.Warnw("failed to commit subscription close", "error", err, "subscription_id", sub.ID())
		return nil, err
	}

	uc.sideEffects.Audit(AuditEntry{
		EntityType:    EntitySubscription,
		EntityID:      sub.ID(),
		Event:         subscription.AuditSubscriptionClosed,
		APIID:         sub.APIID(),
		ApplicationID: sub.ApplicationID(),
		Before:        before,
		After:         snapshot(sub),
	})
	uc.sideEffects.TriggerBoth(subscription.HookSubscriptionClosed, sub.APIID(), sub.ApplicationID(), hookParams(sub))

	uc.logger.Infow("subscription closed", "subscription_id", sub.ID())

	if err := uc.revokeKeys(ctx, sub); err != nil {
		return sub, err
	}
	return sub, nil
}

func (uc *CloseSubscriptionUseCase) revokeKeys(ctx context.Context, sub *subscription.Subscription) error {
	keys, err := uc.apiKeyRepo.FindBySubscription(ctx, sub.ID())
	if err != nil {
		uc.logger.Errorw("failed to load api keys", "error", err, "subscription_id", sub.ID())
		return subscription.ErrCascade(fmt.Errorf("failed to load api keys: %w", err))
	}

	var keyErrs []error
	for _, key := range keys {
		if key.Revoked() {
			continue
		}

		if err := key.Revoke(); err != nil {
			continue
		}
		if err := uc.apiKeyRepo.Update(ctx, key); err != nil {
			uc.logger.Warnw("failed to revoke api key",
				"error", err, "key", key.Key(), "subscription_id", sub.ID())
			keyErrs = append(keyErrs, fmt.Errorf("key %s: %w", key.Key(), err))
			continue
		}

		uc.sideEffects.Audit(AuditEntry{
			EntityType:    EntityApiKey,
			EntityID:      key.Key(),
			Event:         subscription.AuditApiKeyRevoked,
			APIID:         sub.APIID(),
			ApplicationID: sub.ApplicationID(),
			After:         keySnapshot(key),
		})
	}

	if len(keyErrs) > 0 {
		return subscription.ErrCascade(keyErrs...)
	}
	return nil
}
