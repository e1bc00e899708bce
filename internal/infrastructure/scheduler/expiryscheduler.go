// Package scheduler runs the periodic maintenance loops of the engine.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/planhub-io/planhub/internal/application/subscription/usecases"
	"github.com/planhub-io/planhub/internal/domain/subscription"
	vo "github.com/planhub-io/planhub/internal/domain/subscription/valueobjects"
	"github.com/planhub-io/planhub/internal/shared/logger"
)

// ExpirySweeper closes accepted subscriptions whose end date has passed,
// cascading into key revocation through the regular close path.
type ExpirySweeper struct {
	subscriptionRepo subscription.Repository
	closeUC          *usecases.CloseSubscriptionUseCase
	logger           logger.Interface
	stopChan         chan struct{}
	interval         time.Duration
}

func NewExpirySweeper(
	subscriptionRepo subscription.Repository,
	closeUC *usecases.CloseSubscriptionUseCase,
	logger logger.Interface,
) *ExpirySweeper {
	return &ExpirySweeper{
		subscriptionRepo: subscriptionRepo,
		closeUC:          closeUC,
		logger:           logger,
		stopChan:         make(chan struct{}),
		interval:         time.Minute,
	}
}

// Start starts the sweep loop
func (s *ExpirySweeper) Start(ctx context.Context) {
	s.logger.Infow("starting subscription expiry sweeper", "interval", s.interval)
	go s.run(ctx)
}

// Stop stops the sweep loop
func (s *ExpirySweeper) Stop() {
	close(s.stopChan)
}

func (s *ExpirySweeper) run(ctx context.Context) {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("expiry sweeper stopped due to context cancellation")
			return
		case <-s.stopChan:
			s.logger.Infow("expiry sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *ExpirySweeper) sweep(ctx context.Context) {
	accepted, err := s.subscriptionRepo.FindByCriteria(ctx, subscription.Criteria{
		Statuses: []vo.SubscriptionStatus{vo.StatusAccepted},
	})
	if err != nil {
		s.logger.Warnw("expiry sweep query failed", "error", err)
		return
	}

	now := time.Now()
	closed := 0
	for _, sub := range accepted {
		endingAt := sub.EndingAt()
		if endingAt == nil || endingAt.After(now) {
			continue
		}

		_, err := s.closeUC.Execute(ctx, usecases.CloseSubscriptionCommand{SubscriptionID: sub.ID()})
		if err != nil && !errors.Is(err, subscription.ErrKeyCascadeFailure) {
			s.logger.Warnw("failed to close expired subscription",
				"error", err, "subscription_id", sub.ID())
			continue
		}
		closed++
	}

	if closed > 0 {
		s.logger.Infow("expiry sweep closed subscriptions", "count", closed)
	}
}
