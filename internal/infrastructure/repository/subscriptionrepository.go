package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/planhub-io/planhub/internal/domain/subscription"
	vo "github.com/planhub-io/planhub/internal/domain/subscription/valueobjects"
	"github.com/planhub-io/planhub/internal/infrastructure/persistence/mappers"
	"github.com/planhub-io/planhub/internal/infrastructure/persistence/models"
	"github.com/planhub-io/planhub/internal/shared/db"
	"github.com/planhub-io/planhub/internal/shared/logger"
)

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.SubscriptionMapper
	logger logger.Interface
}

func NewSubscriptionRepository(
	db *gorm.DB,
	logger logger.Interface,
) subscription.Repository {
	return &SubscriptionRepositoryImpl{
		db:     db,
		mapper: mappers.NewSubscriptionMapper(),
		logger: logger,
	}
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, subscriptionEntity *subscription.Subscription) error {
	model, err := r.mapper.ToModel(subscriptionEntity)
	if err != nil {
		r.logger.Errorw("failed to map subscription entity to model", "error", err)
		return fmt.Errorf("failed to map subscription entity: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create subscription in database", "error", err)
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	r.logger.Infow("subscription created",
		"subscription_id", model.SID,
		"plan_id", model.PlanID,
		"application_id", model.ApplicationID)
	return nil
}

func (r *SubscriptionRepositoryImpl) GetByID(ctx context.Context, subID string) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	if err := db.GetTxFromContext(ctx, r.db).WithContext(ctx).Where("sid = ?", subID).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get subscription by ID", "subscription_id", subID, "error", err)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		r.logger.Errorw("failed to map subscription model to entity", "subscription_id", subID, "error", err)
		return nil, fmt.Errorf("failed to map subscription: %w", err)
	}

	return entity, nil
}

func (r *SubscriptionRepositoryImpl) FindByCriteria(ctx context.Context, criteria subscription.Criteria) ([]*subscription.Subscription, error) {
	var subscriptionModels []*models.SubscriptionModel

	query := r.applyCriteria(db.GetTxFromContext(ctx, r.db).WithContext(ctx), criteria)
	if err := query.Order("created_at ASC, id ASC").Find(&subscriptionModels).Error; err != nil {
		r.logger.Errorw("failed to find subscriptions", "error", err)
		return nil, fmt.Errorf("failed to find subscriptions: %w", err)
	}

	entities, err := r.mapper.ToEntities(subscriptionModels)
	if err != nil {
		r.logger.Errorw("failed to map subscription models to entities", "error", err)
		return nil, fmt.Errorf("failed to map subscriptions: %w", err)
	}

	return entities, nil
}

func (r *SubscriptionRepositoryImpl) Search(ctx context.Context, criteria subscription.Criteria) ([]*subscription.Subscription, int64, error) {
	base := r.applyCriteria(db.GetTxFromContext(ctx, r.db).WithContext(ctx).Model(&models.SubscriptionModel{}), criteria)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count subscriptions", "error", err)
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	var subscriptionModels []*models.SubscriptionModel
	offset := (criteria.Page - 1) * criteria.PageSize
	if err := base.Order("created_at ASC, id ASC").Offset(offset).Limit(criteria.PageSize).Find(&subscriptionModels).Error; err != nil {
		r.logger.Errorw("failed to search subscriptions", "error", err)
		return nil, 0, fmt.Errorf("failed to search subscriptions: %w", err)
	}

	entities, err := r.mapper.ToEntities(subscriptionModels)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to map subscriptions: %w", err)
	}

	return entities, total, nil
}

func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, subscriptionEntity *subscription.Subscription) error {
	model, err := r.mapper.ToModel(subscriptionEntity)
	if err != nil {
		return fmt.Errorf("failed to map subscription entity: %w", err)
	}

	result := db.GetTxFromContext(ctx, r.db).WithContext(ctx).
		Model(&models.SubscriptionModel{}).
		Where("sid = ?", model.SID).
		Updates(r.updateColumns(model))
	if result.Error != nil {
		r.logger.Errorw("failed to update subscription", "subscription_id", model.SID, "error", result.Error)
		return fmt.Errorf("failed to update subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", subscription.ErrSubscriptionNotFound, model.SID)
	}

	return nil
}

func (r *SubscriptionRepositoryImpl) UpdateWithStatusGuard(ctx context.Context, subscriptionEntity *subscription.Subscription, expectedStatus vo.SubscriptionStatus) error {
	model, err := r.mapper.ToModel(subscriptionEntity)
	if err != nil {
		return fmt.Errorf("failed to map subscription entity: %w", err)
	}

	result := db.GetTxFromContext(ctx, r.db).WithContext(ctx).
		Model(&models.SubscriptionModel{}).
		Where("sid = ? AND status = ?", model.SID, expectedStatus.String()).
		Updates(r.updateColumns(model))
	if result.Error != nil {
		r.logger.Errorw("failed to update subscription", "subscription_id", model.SID, "error", result.Error)
		return fmt.Errorf("failed to update subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Either gone or a concurrent writer moved it out of expectedStatus.
		return fmt.Errorf("%w: subscription %s is no longer %s",
			subscription.ErrInvalidStateTransition, model.SID, expectedStatus)
	}

	return nil
}

func (r *SubscriptionRepositoryImpl) Delete(ctx context.Context, subID string) error {
	result := db.GetTxFromContext(ctx, r.db).WithContext(ctx).
		Where("sid = ?", subID).
		Delete(&models.SubscriptionModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete subscription", "subscription_id", subID, "error", result.Error)
		return fmt.Errorf("failed to delete subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", subscription.ErrSubscriptionNotFound, subID)
	}

	return nil
}

func (r *SubscriptionRepositoryImpl) applyCriteria(query *gorm.DB, criteria subscription.Criteria) *gorm.DB {
	if len(criteria.APIs) > 0 {
		query = query.Where("api_id IN ?", criteria.APIs)
	}
	if len(criteria.Applications) > 0 {
		query = query.Where("application_id IN ?", criteria.Applications)
	}
	if len(criteria.Plans) > 0 {
		query = query.Where("plan_id IN ?", criteria.Plans)
	}
	if len(criteria.Statuses) > 0 {
		statuses := make([]string, 0, len(criteria.Statuses))
		for _, status := range criteria.Statuses {
			statuses = append(statuses, status.String())
		}
		query = query.Where("status IN ?", statuses)
	}
	if criteria.From != nil {
		query = query.Where("created_at >= ?", *criteria.From)
	}
	if criteria.To != nil {
		query = query.Where("created_at <= ?", *criteria.To)
	}
	return query
}

// updateColumns selects the mutable columns, keeping sid and created_at
// immutable and always touching nullable fields so clearing them persists.
func (r *SubscriptionRepositoryImpl) updateColumns(model *models.SubscriptionModel) map[string]interface{} {
	return map[string]interface{}{
		"status":       model.Status,
		"reason":       model.Reason,
		"processed_by": model.ProcessedBy,
		"client_id":    model.ClientID,
		"processed_at": model.ProcessedAt,
		"starting_at":  model.StartingAt,
		"ending_at":    model.EndingAt,
		"closed_at":    model.ClosedAt,
		"version":      model.Version,
		"updated_at":   model.UpdatedAt,
	}
}
