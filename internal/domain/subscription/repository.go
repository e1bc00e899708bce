package subscription

import (
	"context"
	"time"

	vo "github.com/planhub-io/planhub/internal/domain/subscription/valueobjects"
)

// Criteria filters subscription queries. Empty slices match everything;
// From/To bound the creation time.
type Criteria struct {
	APIs         []string
	Applications []string
	Plans        []string
	Statuses     []vo.SubscriptionStatus
	From         *time.Time
	To           *time.Time

	Page     int
	PageSize int
}

// Repository owns subscription persistence. Implementations return
// (nil, nil) from GetByID when the subscription does not exist.
type Repository interface {
	Create(ctx context.Context, sub *Subscription) error
	GetByID(ctx context.Context, subID string) (*Subscription, error)
	// FindByCriteria returns all matching subscriptions ordered by creation
	// time ascending, ignoring pagination.
	FindByCriteria(ctx context.Context, criteria Criteria) ([]*Subscription, error)
	// Search returns one page of matching subscriptions plus the total count.
	Search(ctx context.Context, criteria Criteria) ([]*Subscription, int64, error)
	Update(ctx context.Context, sub *Subscription) error
	// UpdateWithStatusGuard persists sub only if the stored row still carries
	// expectedStatus, rejecting stale-read races with ErrInvalidStateTransition.
	UpdateWithStatusGuard(ctx context.Context, sub *Subscription, expectedStatus vo.SubscriptionStatus) error
	Delete(ctx context.Context, subID string) error
}

// ApiKeyRepository owns api key persistence.
type ApiKeyRepository interface {
	Create(ctx context.Context, key *ApiKey) error
	FindBySubscription(ctx context.Context, subID string) ([]*ApiKey, error)
	Update(ctx context.Context, key *ApiKey) error
	Delete(ctx context.Context, key string) error
}
