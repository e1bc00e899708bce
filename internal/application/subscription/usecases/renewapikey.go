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

type RenewApiKeyCommand struct {
	SubscriptionID string
}

// RenewApiKeyUseCase issues a fresh api key for an accepted API key
// subscription. Previously active keys are given a grace window instead of
// being cut off immediately, so running consumers can roll over.
type RenewApiKeyUseCase struct {
	subscriptionRepo subscription.Repository
	apiKeyRepo       subscription.ApiKeyRepository
	planDirectory    plan.Directory
	sideEffects      *SideEffects
	gracePeriod      time.Duration
	logger           logger.Interface
}

func NewRenewApiKeyUseCase(
	subscriptionRepo subscription.Repository,
	apiKeyRepo subscription.ApiKeyRepository,
	planDirectory plan.Directory,
	sideEffects *SideEffects,
	gracePeriod time.Duration,
	logger logger.Interface,
) *RenewApiKeyUseCase {
	return &RenewApiKeyUseCase{
		subscriptionRepo: subscriptionRepo,
		apiKeyRepo:       apiKeyRepo,
		planDirectory:    planDirectory,
		sideEffects:      sideEffects,
		gracePeriod:      gracePeriod,
		logger:           logger,
	}
}

func (uc *RenewApiKeyUseCase) Execute(ctx context.Context, cmd RenewApiKeyCommand) (*subscription.ApiKey, error) {
	sub, err := uc.subscriptionRepo.GetByID(ctx, cmd.SubscriptionID)
	if err != nil {
		uc.logger.Errorw("failed to get subscription", "error", err, "subscription_id", cmd.SubscriptionID)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub == nil {
		return nil, fmt.Errorf("%w: %s", subscription.ErrSubscriptionNotFound, cmd.SubscriptionID)
	}
	if sub.Status() != vo.StatusAccepted {
		return nil, fmt.Errorf("%w: cannot renew api key while subscription is %s",
			subscription.ErrInvalidStateTransition, sub.Status())
	}

	planEntity, err := uc.planDirectory.GetByID(ctx, sub.PlanID())
	if err != nil {
		uc.logger.Errorw("failed to resolve plan", "error", err, "plan_id", sub.PlanID())
		return nil, fmt.Errorf("failed to resolve plan: %w", err)
	}
	if planEntity == nil {
		return nil, fmt.Errorf("%w: %s", plan.ErrPlanNotFound, sub.PlanID())
	}
	if planEntity.Security() != plan.SecurityAPIKey {
		return nil, plan.ErrNotSubscribable("only API key plans carry api keys")
	}

	newKey, err := subscription.NewApiKey(sub.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to generate api key: %w", err)
	}
	if endingAt := sub.EndingAt(); endingAt != nil {
		if err := newKey.BindExpiration(*endingAt); err != nil {
			return nil, err
		}
	}
	if err := uc.apiKeyRepo.Create(ctx, newKey); err != nil {
		uc.logger.Errorw("failed to create api key", "error", err, "subscription_id", sub.ID())
		return nil, fmt.Errorf("failed to create api key: %w", err)
	}

	uc.sideEffects.Audit(AuditEntry{
		EntityType:    EntityApiKey,
		EntityID:      newKey.Key(),
		Event:         subscription.AuditApiKeyCreated,
		APIID:         sub.APIID(),
		ApplicationID: sub.ApplicationID(),
		After:         keySnapshot(newKey),
	})

	uc.expirePreviousKeys(ctx, sub, newKey.Key())

	uc.logger.Infow("api key renewed", "subscription_id", sub.ID())
	return newKey, nil
}

// expirePreviousKeys schedules every other active key of the subscription
// to expire after the grace window. Failures here are logged only: the new
// key already exists and the caller keeps it.
func (uc *RenewApiKeyUseCase) expirePreviousKeys(ctx context.Context, sub *subscription.Subscription, newKey string) {
	keys, err := uc.apiKeyRepo.FindBySubscription(ctx, sub.ID())
	if err != nil {
		uc.logger.Warnw("failed to load previous api keys", "error", err, "subscription_id", sub.ID())
		return
	}

	graceEnd := time.Now().Add(uc.gracePeriod)
	for _, key := range keys {
		if key.Key() == newKey || key.Revoked() || key.IsExpired(time.Now()) {
			continue
		}
		if exp := key.Expiration(); exp != nil && exp.Before(graceEnd) {
			continue
		}

		if err := key.ForceExpiration(graceEnd); err != nil {
			continue
		}
		if err := uc.apiKeyRepo.Update(ctx, key); err != nil {
			uc.logger.Warnw("failed to expire previous api key",
				"error", err, "key", key.Key(), "subscription_id", sub.ID())
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
}
