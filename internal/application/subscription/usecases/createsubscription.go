package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/planhub-io/planhub/internal/domain/application"
	"github.com/planhub-io/planhub/internal/domain/plan"
	"github.com/planhub-io/planhub/internal/domain/subscription"
	"github.com/planhub-io/planhub/internal/shared/logger"
)

type CreateSubscriptionCommand struct {
	PlanID        string
	ApplicationID string
	Request       string
	SubscribedBy  subscription.Actor
}

// CreateSubscriptionUseCase enforces the eligibility rules for a new
// subscription and persists it in PENDING state, chaining synchronously into
// acceptance when the plan is auto-validated. Eligibility and insert run
// under a per-application lock so concurrent requests cannot both pass the
// conflicting-subscription scan.
type CreateSubscriptionUseCase struct {
	subscriptionRepo subscription.Repository
	planDirectory    plan.Directory
	appDirectory     application.Directory
	processUC        *ProcessSubscriptionUseCase
	locker           Locker
	sideEffects      *SideEffects
	logger           logger.Interface
}

func NewCreateSubscriptionUseCase(
	subscriptionRepo subscription.Repository,
	planDirectory plan.Directory,
	appDirectory application.Directory,
	processUC *ProcessSubscriptionUseCase,
	locker Locker,
	sideEffects *SideEffects,
	logger logger.Interface,
) *CreateSubscriptionUseCase {
	return &CreateSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		planDirectory:    planDirectory,
		appDirectory:     appDirectory,
		processUC:        processUC,
		locker:           locker,
		sideEffects:      sideEffects,
		logger:           logger,
	}
}

func (uc *CreateSubscriptionUseCase) Execute(ctx context.Context, cmd CreateSubscriptionCommand) (*subscription.Subscription, error) {
	planEntity, err := uc.planDirectory.GetByID(ctx, cmd.PlanID)
	if err != nil {
		uc.logger.Errorw("failed to resolve plan", "error", err, "plan_id", cmd.PlanID)
		return nil, fmt.Errorf("failed to resolve plan: %w", err)
	}
	if planEntity == nil {
		return nil, fmt.Errorf("%w: %s", plan.ErrPlanNotFound, cmd.PlanID)
	}

	switch planEntity.Status() {
	case plan.StatusDeprecated:
		return nil, plan.ErrNotSubscribable("plan is deprecated")
	case plan.StatusClosed:
		return nil, fmt.Errorf("%w: %s", plan.ErrPlanAlreadyClosed, cmd.PlanID)
	case plan.StatusStaging:
		return nil, fmt.Errorf("%w: %s", plan.ErrPlanNotYetPublished, cmd.PlanID)
	}

	if planEntity.Security() == plan.SecurityKeyLess {
		return nil, plan.ErrNotSubscribable("a key_less plan is not subscribable")
	}

	appEntity, err := uc.appDirectory.GetByID(ctx, cmd.ApplicationID)
	if err != nil {
		uc.logger.Errorw("failed to resolve application", "error", err, "application_id", cmd.ApplicationID)
		return nil, fmt.Errorf("failed to resolve application: %w", err)
	}
	if appEntity == nil {
		return nil, fmt.Errorf("%w: %s", application.ErrApplicationNotFound, cmd.ApplicationID)
	}

	var sub *subscription.Subscription
	lockKey := "subscription:create:" + cmd.ApplicationID
	err = uc.locker.WithLock(ctx, lockKey, func(ctx context.Context) error {
		if err := uc.checkConflicts(ctx, planEntity, cmd.ApplicationID); err != nil {
			return err
		}

		if planEntity.Security().RequiresClientID() && !appEntity.HasClientID() {
			return plan.ErrNotSubscribable("a client_id is required to subscribe to an OAuth2 or JWT plan")
		}

		created, err := subscription.NewSubscription(
			planEntity.ID(),
			cmd.ApplicationID,
			planEntity.APIID(),
			cmd.Request,
			cmd.SubscribedBy,
			appEntity.ClientID(),
		)
		if err != nil {
			return fmt.Errorf("failed to build subscription: %w", err)
		}

		if err := uc.subscriptionRepo.Create(ctx, created); err != nil {
			uc.logger.Errorw("failed to persist subscription",
				"error", err, "plan_id", cmd.PlanID, "application_id", cmd.ApplicationID)
			return fmt.Errorf("failed to persist subscription: %w", err)
		}

		sub = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.sideEffects.Audit(AuditEntry{
		EntityType:    EntitySubscription,
		EntityID:      sub.ID(),
		Event:         subscription.AuditSubscriptionCreated,
		APIID:         sub.APIID(),
		ApplicationID: sub.ApplicationID(),
		After:         snapshot(sub),
	})

	uc.logger.Infow("subscription created",
		"subscription_id", sub.ID(),
		"plan_id", cmd.PlanID,
		"application_id", cmd.ApplicationID,
		"validation", planEntity.Validation().String(),
	)

	if planEntity.IsAutoValidated() {
		now := time.Now().UTC()
		return uc.processUC.Execute(ctx, ProcessSubscriptionCommand{
			SubscriptionID: sub.ID(),
			Accepted:       true,
			StartingAt:     &now,
			ProcessedBy:    subscription.SystemActor(),
		})
	}

	uc.sideEffects.TriggerBoth(subscription.HookSubscriptionNew, sub.APIID(), sub.ApplicationID(), hookParams(sub))

	return sub, nil
}

// checkConflicts enforces the one-live-subscription-per-plan rule and the
// one-live-OAuth2/JWT-subscription-per-application rule against the live
// subscriptions of the application.
func (uc *CreateSubscriptionUseCase) checkConflicts(ctx context.Context, planEntity *plan.Plan, applicationID string) error {
	existing, err := uc.subscriptionRepo.FindByCriteria(ctx, subscription.Criteria{
		Applications: []string{applicationID},
		APIs:         []string{planEntity.APIID()},
	})
	if err != nil {
		uc.logger.Errorw("failed to load existing subscriptions",
			"error", err, "application_id", applicationID, "api_id", planEntity.APIID())
		return fmt.Errorf("failed to load existing subscriptions: %w", err)
	}

	live := make([]*subscription.Subscription, 0, len(existing))
	for _, sub := range existing {
		if sub.IsLive() {
			live = append(live, sub)
		}
	}

	for _, sub := range live {
		if sub.PlanID() == planEntity.ID() {
			return fmt.Errorf("%w: %s", subscription.ErrPlanAlreadySubscribed, planEntity.ID())
		}
	}

	if planEntity.Security().RequiresClientID() {
		seen := make(map[string]bool)
		for _, sub := range live {
			if seen[sub.PlanID()] {
				continue
			}
			seen[sub.PlanID()] = true

			subPlan, err := uc.planDirectory.GetByID(ctx, sub.PlanID())
			if err != nil {
				return fmt.Errorf("failed to resolve subscribed plan %s: %w", sub.PlanID(), err)
			}
			if subPlan != nil && subPlan.Security().RequiresClientID() {
				return plan.ErrNotSubscribable("another OAuth2 or JWT plan is already subscribed by the same application")
			}
		}
	}

	return nil
}
