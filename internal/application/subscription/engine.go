// Package subscription wires the entitlement engine use cases.
package subscription

import (
	"time"

	"github.com/planhub-io/planhub/internal/application/subscription/usecases"
	"github.com/planhub-io/planhub/internal/domain/application"
	"github.com/planhub-io/planhub/internal/domain/plan"
	domain "github.com/planhub-io/planhub/internal/domain/subscription"
	"github.com/planhub-io/planhub/internal/shared/logger"
)

// Engine bundles every lifecycle operation of the entitlement engine.
type Engine struct {
	Create  *usecases.CreateSubscriptionUseCase
	Process *usecases.ProcessSubscriptionUseCase
	Update  *usecases.UpdateSubscriptionUseCase
	Close   *usecases.CloseSubscriptionUseCase
	Delete  *usecases.DeleteSubscriptionUseCase
	Renew   *usecases.RenewApiKeyUseCase
	Get     *usecases.GetSubscriptionUseCase
	Search  *usecases.SearchSubscriptionsUseCase
	List    *usecases.ListSubscriptionsUseCase
}

// Deps carries the collaborator ports of the engine.
type Deps struct {
	SubscriptionRepo domain.Repository
	ApiKeyRepo       domain.ApiKeyRepository
	PlanDirectory    plan.Directory
	AppDirectory     application.Directory
	AuditSink        usecases.AuditSink
	Notifier         usecases.Notifier
	Locker           usecases.Locker
	RenewGracePeriod time.Duration
	Logger           logger.Interface
}

// NewEngine wires the use cases with shared side effect dispatch.
func NewEngine(deps Deps) *Engine {
	sideEffects := usecases.NewSideEffects(deps.AuditSink, deps.Notifier, deps.Logger)

	process := usecases.NewProcessSubscriptionUseCase(
		deps.SubscriptionRepo, deps.ApiKeyRepo, deps.PlanDirectory, sideEffects, deps.Logger)

	return &Engine{
		Create: usecases.NewCreateSubscriptionUseCase(
			deps.SubscriptionRepo, deps.PlanDirectory, deps.AppDirectory,
			process, deps.Locker, sideEffects, deps.Logger),
		Process: process,
		Update: usecases.NewUpdateSubscriptionUseCase(
			deps.SubscriptionRepo, deps.ApiKeyRepo, deps.PlanDirectory, sideEffects, deps.Logger),
		Close: usecases.NewCloseSubscriptionUseCase(
			deps.SubscriptionRepo, deps.ApiKeyRepo, sideEffects, deps.Logger),
		Delete: usecases.NewDeleteSubscriptionUseCase(
			deps.SubscriptionRepo, deps.ApiKeyRepo, sideEffects, deps.Logger),
		Renew: usecases.NewRenewApiKeyUseCase(
			deps.SubscriptionRepo, deps.ApiKeyRepo, deps.PlanDirectory,
			sideEffects, deps.RenewGracePeriod, deps.Logger),
		Get:    usecases.NewGetSubscriptionUseCase(deps.SubscriptionRepo, deps.ApiKeyRepo, deps.Logger),
		Search: usecases.NewSearchSubscriptionsUseCase(deps.SubscriptionRepo, deps.Logger),
		List:   usecases.NewListSubscriptionsUseCase(deps.SubscriptionRepo, deps.Logger),
	}
}
