package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/planhub-io/planhub/internal/domain/plan"
	"github.com/planhub-io/planhub/internal/domain/subscription"
	vo "github.com/planhub-io/planhub/internal/domain/subscription/valueobjects"
	"github.com/planhub-io/planhub/internal/shared/logger"
)

type UpdateSubscriptionCommand struct {
	SubscriptionID string
	StartingAt     *time.Time
	EndingAt       *time.Time
	ClientID       *string
}

// UpdateSubscriptionUseCase adjusts the temporal bounds of an ACCEPTED
// subscription and keeps open-ended api keys aligned with the new end date.
type UpdateSubscriptionUseCase struct {
	subscriptionRepo subscription.Repository
	apiKeyRepo       subscription.ApiKeyRepository
	planDirectory    plan.Directory
	sideEffects      *SideEffects
	logger           logger.Interface
}

func NewUpdateSubscriptionUseCase(
	subscriptionRepo subscription.Repository,
	apiKeyRepo subscription.ApiKeyRepository,
	planDirectory plan.Directory,
	sideEffects *SideEffects,
	logger logger.Interface,
) *UpdateSubscriptionUseCase {
	return &UpdateSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		apiKeyRepo:       apiKeyRepo,
		planDirectory:    planDirectory,
		sideEffects:      sideEffects,
		logger:           logger,
	}
}

func (uc *UpdateSubscriptionUseCase) Execute(ctx context.Context, cmd UpdateSubscriptionCommand) (*subscription.Subscription, error) {
	sub, err := uc.subscriptionRepo.GetByID(ctx, cmd.SubscriptionID)
	if err != nil {
		uc.logger.Errorw("failed to get subscription", "error", err, "subscription_id", cmd.SubscriptionID)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub == nil {
		return nil, fmt.Errorf("%w: %s", subscription.ErrSubscriptionNotFound, cmd.SubscriptionID)
	}

	before := snapshot(sub)

	if err := sub.UpdateTerms(cmd.StartingAt, cmd.EndingAt, cmd.ClientID); err != nil {
		return nil, err
	}

	if err := uc.subscriptionRepo.UpdateWithStatusGuard(ctx, sub, vo.StatusAccepted); err != nil {
		uc.logger.Warnw("failed to commit subscription update", "error", err, "subscription_id", sub.ID())
		return nil, err
	}

	uc.sideEffects.Audit(AuditEntry{
		EntityType:    EntitySubscription,
		EntityID:      sub.ID(),
		Event:         subscription.AuditSubscriptionUpdated,
		APIID:         sub.APIID(),
		ApplicationID: sub.ApplicationID(),
		Before:        before,
		After:         snapshot(sub),
	})

	uc.logger.Infow("subscription updated", "subscription_id", sub.ID())

	if cmd.EndingAt != nil {
		if err := uc.syncKeyExpirations(ctx, sub, *cmd.EndingAt); err != nil {
			return sub, err
		}
	}

	return sub, nil
}

// syncKeyExpirations binds the new end date onto every still open-ended,
// non-revoked api key of the subscription. Keys that already carry an
// expiration are left alone: an earlier bound must never be extended.
func (uc *UpdateSubscriptionUseCase) syncKeyExpirations(ctx context.Context, sub *subscription.Subscription, endingAt time.Time) error {
	planEntity, err := uc.planDirectory.GetByID(ctx, sub.PlanID())
	if err != nil {
		uc.logger.Errorw("failed to resolve plan", "error", err, "plan_id", sub.PlanID())
		return subscription.ErrCascade(fmt.Errorf("failed to resolve plan: %w", err))
	}
	if planEntity == nil || planEntity.Security() != plan.SecurityAPIKey {
		return nil
	}

	keys, err := uc.apiKeyRepo.FindBySubscription(ctx, sub.ID())
	if err != nil {
		uc.logger.Errorw("failed to load api keys", "error", err, "subscription_id", sub.ID())
		return subscription.ErrCascade(fmt.Errorf("failed to load api keys: %w", err))
	}

	var keyErrs []error
	for _, key := range keys {
		if key.Revoked() || !key.IsOpenEnded() {
			continue
		}

		if err := key.BindExpiration(endingAt); err != nil {
			keyErrs = append(keyErrs, fmt.Errorf("key %s: %w", key.Key(), err))
			continue
		}
		if err := uc.apiKeyRepo.Update(ctx, key); err != nil {
			uc.logger.Warnw("failed to persist api key expiration",
				"error", err, "key", key.Key(), "subscription_id", sub.ID())
			keyErrs = append(keyErrs, fmt.Errorf("key %s: %w", key.Key(), err))
			continue
		}

		uc.sideEffects.Audit(AuditEntry{
			EntityType:    EntityApiKey,
			EntityID:      key.Key(),
			Event:         subscription.AuditApiKeyExpired,
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
