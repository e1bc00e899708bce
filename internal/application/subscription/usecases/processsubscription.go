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

type ProcessSubscriptionCommand struct {
	SubscriptionID string
	Accepted       bool
	StartingAt     *time.Time
	EndingAt       *time.Time
	Reason         *string
	ProcessedBy    subscription.Actor
}

// ProcessSubscriptionUseCase drives the PENDING -> ACCEPTED / REJECTED
// transition, including the api key issued on acceptance of an
// API_KEY-secured plan.
type ProcessSubscriptionUseCase struct {
	subscriptionRepo subscription.Repository
	apiKeyRepo       subscription.ApiKeyRepository
	planDirectory    plan.Directory
	sideEffects      *SideEffects
	logger           logger.Interface
}

func NewProcessSubscriptionUseCase(
	subscriptionRepo subscription.Repository,
	apiKeyRepo subscription.ApiKeyRepository,
	planDirectory plan.Directory,
	sideEffects *SideEffects,
	logger logger.Interface,
) *ProcessSubscriptionUseCase {
	return &ProcessSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		apiKeyRepo:       apiKeyRepo,
		planDirectory:    planDirectory,
		sideEffects:      sideEffects,
		logger:           logger,
	}
}

func (uc *ProcessSubscriptionUseCase) Execute(ctx context.Context, cmd ProcessSubscriptionCommand) (*subscription.Subscription, error) {
	sub, err := uc.subscriptionRepo.GetByID(ctx, cmd.SubscriptionID)
	if err != nil {
		uc.logger.Errorw("failed to get subscription", "error", err, "subscription_id", cmd.SubscriptionID)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub == nil {
		return nil, fmt.Errorf("%w: %s", subscription.ErrSubscriptionNotFound, cmd.SubscriptionID)
	}

	planEntity, err := uc.planDirectory.GetByID(ctx, sub.PlanID())
	if err != nil {
		uc.logger.Errorw("failed to resolve plan", "error", err, "plan_id", sub.PlanID())
		return nil, fmt.Errorf("failed to resolve plan: %w", err)
	}
	if planEntity == nil {
		return nil, fmt.Errorf("%w: %s", plan.ErrPlanNotFound, sub.PlanID())
	}

	before := snapshot(sub)

	if cmd.Accepted {
		if planEntity.Status() == plan.StatusClosed {
			return nil, fmt.Errorf("%w: %s", plan.ErrPlanAlreadyClosed, planEntity.ID())
		}
		if err := sub.Accept(cmd.ProcessedBy, cmd.StartingAt, cmd.EndingAt, cmd.Reason); err != nil {
			return nil, err
		}
	} else {
		if err := sub.Reject(cmd.ProcessedBy, cmd.Reason); err != nil {
			return nil, err
		}
	}

	// Commit with a status guard so a concurrent processor loses cleanly
	// instead of overwriting the winner.
	if err := uc.subscriptionRepo.UpdateWithStatusGuard(ctx, sub, vo.StatusPending); err != nil {
		uc.logger.Warnw("failed to commit subscription processing",
			"error", err, "subscription_id", sub.ID(), "accepted", cmd.Accepted)
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

	hook := subscription.HookSubscriptionRejected
	if cmd.Accepted {
		hook = subscription.HookSubscriptionAccepted
	}
	uc.sideEffects.TriggerBoth(hook, sub.APIID(), sub.ApplicationID(), hookParams(sub))

	uc.logger.Infow("subscription processed",
		"subscription_id", sub.ID(),
		"accepted", cmd.Accepted,
		"processed_by", cmd.ProcessedBy.String(),
		"status", sub.Status(),
	)

	if cmd.Accepted && planEntity.Security() == plan.SecurityAPIKey {
		if err := uc.generateKey(ctx, sub); err != nil {
			// The transition stands; the missing key is reported as a
			// partial failure.
			return sub, subscription.ErrCascade(err)
		}
	}

	return sub, nil
}

func (uc *ProcessSubscriptionUseCase) generateKey(ctx context.Context, sub *subscription.Subscription) error {
	key, err := subscription.NewApiKey(sub.ID())
	if err != nil {
		uc.logger.Errorw("failed to build api key", "error", err, "subscription_id", sub.ID())
		return fmt.Errorf("failed to build api key: %w", err)
	}

	if err := uc.apiKeyRepo.Create(ctx, key); err != nil {
		uc.logger.Errorw("failed to persist api key", "error", err, "subscription_id", sub.ID())
		return fmt.Errorf("failed to persist api key: %w", err)
	}

	uc.sideEffects.Audit(AuditEntry{
		EntityType:    EntityApiKey,
		EntityID:      key.Key(),
		Event:         subscription.AuditApiKeyCreated,
		APIID:         sub.APIID(),
		ApplicationID: sub.ApplicationID(),
		After:         keySnapshot(key),
	})

	return nil
}
