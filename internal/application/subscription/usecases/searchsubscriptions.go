package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/planhub-io/planhub/internal/domain/subscription"
	vo "github.com/planhub-io/planhub/internal/domain/subscription/valueobjects"
	"github.com/planhub-io/planhub/internal/shared/logger"
	"github.com/planhub-io/planhub/internal/shared/utils"
)

type SearchSubscriptionsQuery struct {
	APIs         []string
	Applications []string
	Plans        []string
	Statuses     []vo.SubscriptionStatus
	From         *time.Time
	To           *time.Time
	Page         int
	PageSize     int
}

type SubscriptionPage struct {
	Items      []*subscription.Subscription
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}

// SearchSubscriptionsUseCase runs the paged, multi-dimension subscription
// query. Results always come back ordered by creation time ascending.
type SearchSubscriptionsUseCase struct {
	subscriptionRepo subscription.Repository
	logger           logger.Interface
}

func NewSearchSubscriptionsUseCase(subscriptionRepo subscription.Repository, logger logger.Interface) *SearchSubscriptionsUseCase {
	return &SearchSubscriptionsUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (uc *SearchSubscriptionsUseCase) Execute(ctx context.Context, query SearchSubscriptionsQuery) (*SubscriptionPage, error) {
	for _, status := range query.Statuses {
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: %s", vo.ErrInvalidStatus, status)
		}
	}

	pagination := utils.ValidatePagination(query.Page, query.PageSize)

	items, total, err := uc.subscriptionRepo.Search(ctx, subscription.Criteria{
		APIs:         query.APIs,
		Applications: query.Applications,
		Plans:        query.Plans,
		Statuses:     query.Statuses,
		From:         query.From,
		To:           query.To,
		Page:         pagination.Page,
		PageSize:     pagination.PageSize,
	})
	if err != nil {
		uc.logger.Errorw("failed to search subscriptions", "error", err)
		return nil, fmt.Errorf("failed to search subscriptions: %w", err)
	}

	return &SubscriptionPage{
		Items:      items,
		Total:      total,
		Page:       pagination.Page,
		PageSize:   pagination.PageSize,
		TotalPages: utils.TotalPages(total, pagination.PageSize),
	}, nil
}
